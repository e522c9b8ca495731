package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
)

// DefaultMaxPixels ограничение на размер декодируемого изображения.
const DefaultMaxPixels = 50_000_000

var supportedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
}

// Decoder декодирует JPEG и PNG.
type Decoder struct {
	MaxPixels int // 0: без ограничения
}

// NewDecoder создаёт декодер с ограничением на число пикселей.
func NewDecoder(maxPixels int) *Decoder {
	return &Decoder{MaxPixels: maxPixels}
}

// Decode читает изображение. Любая ошибка оборачивает entity.ErrImageDecode.
func (d *Decoder) Decode(data []byte) (image.Image, entity.ImageInfo, error) {
	if len(data) == 0 {
		return nil, entity.ImageInfo{}, fmt.Errorf("%w: empty input", entity.ErrImageDecode)
	}

	// Сначала читаем только заголовок, чтобы не распаковывать огромные картинки.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, entity.ImageInfo{}, fmt.Errorf("%w: %w", entity.ErrImageDecode, err)
	}
	if !supportedFormats[format] {
		return nil, entity.ImageInfo{}, fmt.Errorf("%w: unsupported format %q", entity.ErrImageDecode, format)
	}
	if d.MaxPixels > 0 && cfg.Width*cfg.Height > d.MaxPixels {
		return nil, entity.ImageInfo{}, fmt.Errorf("%w: image is too large (%dx%d)", entity.ErrImageDecode, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, entity.ImageInfo{}, fmt.Errorf("%w: %w", entity.ErrImageDecode, err)
	}

	b := img.Bounds()
	return img, entity.ImageInfo{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		Mode:   ModeOf(img),
	}, nil
}

// ModeOf определяет, какие каналы изображения считаются его пикселями.
// Палитра раскрывается в RGB или RGBA, 16-битные форматы сводятся к 8-битным каналам.
func ModeOf(img image.Image) entity.ColorMode {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return entity.ModeGray
	case *image.RGBA, *image.RGBA64, *image.YCbCr, *image.CMYK:
		return entity.ModeRGB
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA, *image.Alpha, *image.Alpha16:
		return entity.ModeRGBA
	case *image.Paletted:
		if paletteHasAlpha(m.Palette) {
			return entity.ModeRGBA
		}
		return entity.ModeRGB
	}
	return entity.ModeRGBA
}

func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

var _ port.ImageDecoder = (*Decoder)(nil)
