package validation

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	// декодеры регистрируются ради различения "не тот формат" и "не картинка"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxRequestImageSize — предел размера изображения при создании заявки (2 МиБ).
const MaxRequestImageSize int64 = 2 * 1024 * 1024

// MaxImagePixels — предел разрешения из заголовка; декодер выделяет память
// под всю картинку, поэтому проверка идёт до полного декодирования.
const MaxImagePixels = 40_000_000

var (
	ErrImageTooLarge = errors.New("image too large")
	ErrImagePixels   = errors.New("image dimensions too large")
	ErrImageFormat   = errors.New("image format not allowed")
	ErrImageDecode   = errors.New("image cannot be decoded")
)

var allowedFormats = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"bmp":  ".bmp",
}

// CheckImage определяет формат по содержимому, а не по расширению файла.
// limit <= 0 отключает проверку размера. Возвращает нормализованный формат.
func CheckImage(data []byte, limit int64) (string, error) {
	if limit > 0 && int64(len(data)) > limit {
		return "", ErrImageTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	format = strings.ToLower(format)
	if _, ok := allowedFormats[format]; !ok {
		return format, ErrImageFormat
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return format, fmt.Errorf("%w: %dx%d", ErrImagePixels, cfg.Width, cfg.Height)
	}

	// полное декодирование ловит обрезанные файлы
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return format, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return format, nil
}

// Extension — расширение файла для сохранения изображения данного формата.
func Extension(format string) string {
	if ext, ok := allowedFormats[strings.ToLower(format)]; ok {
		return ext
	}
	return ""
}

// ImageMessage переводит ошибку проверки в текст для поля формы.
func ImageMessage(err error) string {
	switch {
	case errors.Is(err, ErrImageTooLarge):
		return "Файл не должен весить более 2 мб"
	case errors.Is(err, ErrImagePixels):
		return "Слишком большое разрешение изображения"
	case errors.Is(err, ErrImageFormat):
		return "Неверный формат файла. Допустимые форматы: JPEG, JPG, PNG, BMP."
	default:
		return "Не удалось открыть файл как изображение"
	}
}
