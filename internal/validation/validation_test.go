package validation

import (
	"testing"

	"design-studio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Username  string `form:"username" validate:"required,latin"`
	FirstName string `form:"first_name" validate:"required,cyrillic"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
	Agree     bool   `form:"agree_to_terms" validate:"required"`
}

func TestStructReportsFormFieldNames(t *testing.T) {
	v := New()

	fields := v.Struct(sampleForm{
		Username:  "ivan-petrov",
		FirstName: "Анна-Мария",
		Password1: "secret-pass",
		Password2: "secret-pass",
		Agree:     true,
	})
	assert.True(t, fields.Empty(), "unexpected errors: %v", fields)

	fields = v.Struct(sampleForm{
		Username:  "иван1",
		FirstName: "Anna",
		Password1: "short",
		Password2: "other",
	})
	assert.Equal(t, msgLatin, fields["username"])
	assert.Equal(t, msgCyrillic, fields["first_name"])
	assert.Contains(t, fields["password1"], "8")
	assert.Equal(t, "Пароли не совпадают", fields["password2"])
	assert.Equal(t, "Требуется согласие на обработку персональных данных", fields["agree_to_terms"])
}

func TestCheckImageAcceptsAllowedFormats(t *testing.T) {
	for name, data := range map[string][]byte{
		"jpeg": testutil.JPEG(),
		"png":  testutil.PNG(),
		"bmp":  testutil.BMP(),
	} {
		t.Run(name, func(t *testing.T) {
			format, err := CheckImage(data, MaxRequestImageSize)
			require.NoError(t, err)
			assert.Equal(t, name, format)
			assert.NotEmpty(t, Extension(format))
		})
	}
}

func TestCheckImageRejectsOtherFormats(t *testing.T) {
	_, err := CheckImage(testutil.GIF(), MaxRequestImageSize)
	assert.ErrorIs(t, err, ErrImageFormat)
	assert.Contains(t, ImageMessage(err), "Неверный формат")
}

func TestCheckImageRejectsGarbage(t *testing.T) {
	_, err := CheckImage([]byte("definitely not an image"), 0)
	assert.ErrorIs(t, err, ErrImageDecode)

	png := testutil.PNG()
	_, err = CheckImage(png[:len(png)/2], 0)
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestCheckImageSizeLimit(t *testing.T) {
	data := testutil.PNG()
	_, err := CheckImage(data, int64(len(data))-1)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	big := testutil.NoisyPNG(1024, 1024)
	require.Greater(t, int64(len(big)), MaxRequestImageSize)
	_, err = CheckImage(big, MaxRequestImageSize)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	_, err = CheckImage(big, 0)
	assert.NoError(t, err)
}

func TestCheckImageRejectsHugeDimensions(t *testing.T) {
	data := testutil.PNGDeclaring(20000, 20000)
	require.Less(t, int64(len(data)), MaxRequestImageSize)

	_, err := CheckImage(data, MaxRequestImageSize)
	assert.ErrorIs(t, err, ErrImagePixels)
	assert.Contains(t, ImageMessage(err), "разрешение")

	_, err = CheckImage(data, 0)
	assert.ErrorIs(t, err, ErrImagePixels)
}
