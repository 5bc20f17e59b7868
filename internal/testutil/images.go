// Package testutil содержит вспомогательные функции для тестов.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math/rand"

	"golang.org/x/image/bmp"
)

func sample(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func PNG() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, sample(16, 16))
	return buf.Bytes()
}

func JPEG() []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, sample(16, 16), nil)
	return buf.Bytes()
}

func BMP() []byte {
	var buf bytes.Buffer
	_ = bmp.Encode(&buf, sample(16, 16))
	return buf.Bytes()
}

func GIF() []byte {
	var buf bytes.Buffer
	_ = gif.Encode(&buf, sample(16, 16), nil)
	return buf.Bytes()
}

// NoisyPNG — PNG из шума, почти не сжимается: 1024x1024 даёт больше 2 МиБ.
func NoisyPNG(w, h int) []byte {
	r := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	_, _ = r.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// PNGDeclaring — маленький PNG, в заголовке IHDR которого записаны размеры w x h.
// Сами пиксели не пересчитываются: файл годится только для DecodeConfig.
func PNGDeclaring(w, h uint32) []byte {
	data := PNG()
	// сигнатура (8) + длина (4) + "IHDR" (4), далее ширина и высота
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	// CRC покрывает тип и 13 байт данных IHDR
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}
