package port

import (
	"image"

	"fruit-quality-bot/internal/domain/entity"
)

// ImageDecoder превращает сырые байты в изображение
type ImageDecoder interface {
	Decode(data []byte) (image.Image, entity.ImageInfo, error)
}

// Resizer изменяет размер изображения детерминированным методом
type Resizer interface {
	Resize(img image.Image, width, height int) (image.Image, error)
}

// Preprocessor приводит изображение к каноническому тензору
type Preprocessor interface {
	Preprocess(img image.Image) (entity.Tensor, error)
}
