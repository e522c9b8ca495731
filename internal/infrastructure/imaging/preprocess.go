package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
)

// CanonicalSize сторона квадрата, к которому приводится изображение перед моделью.
const CanonicalSize = 224

// Preprocessor приводит изображение к RGB-тензору size×size со значениями в [0, 1].
type Preprocessor struct {
	size    int
	resizer port.Resizer
}

// NewPreprocessor создаёт препроцессор. Если resizer не задан, берётся DefaultResizer.
func NewPreprocessor(size int, resizer port.Resizer) *Preprocessor {
	if size <= 0 {
		size = CanonicalSize
	}
	if resizer == nil {
		resizer = DefaultResizer()
	}
	return &Preprocessor{size: size, resizer: resizer}
}

// Size возвращает сторону канонического изображения.
func (p *Preprocessor) Size() int {
	return p.size
}

// Preprocess меняет размер и нормализует пиксели. Ошибки оборачивают entity.ErrImageProcessing.
func (p *Preprocessor) Preprocess(img image.Image) (t entity.Tensor, err error) {
	if img == nil || img.Bounds().Empty() {
		return entity.Tensor{}, fmt.Errorf("%w: zero-size image", entity.ErrImageProcessing)
	}

	// Сторонние ресайзеры могут паниковать на экзотических изображениях.
	defer func() {
		if r := recover(); r != nil {
			t = entity.Tensor{}
			err = fmt.Errorf("%w: resize panicked: %v", entity.ErrImageProcessing, r)
		}
	}()

	resized, err := p.resizer.Resize(img, p.size, p.size)
	if err != nil {
		if errors.Is(err, entity.ErrImageProcessing) {
			return entity.Tensor{}, err
		}
		return entity.Tensor{}, fmt.Errorf("%w: %w", entity.ErrImageProcessing, err)
	}

	b := resized.Bounds()
	if b.Dx() != p.size || b.Dy() != p.size {
		return entity.Tensor{}, fmt.Errorf("%w: resizer returned %dx%d, want %dx%d",
			entity.ErrImageProcessing, b.Dx(), b.Dy(), p.size, p.size)
	}

	const channels = 3
	data := make([]float32, p.size*p.size*channels)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(resized.At(x, y)).(color.NRGBA)
			data[i] = float32(c.R) / 255
			data[i+1] = float32(c.G) / 255
			data[i+2] = float32(c.B) / 255
			i += channels
		}
	}

	return entity.Tensor{Height: p.size, Width: p.size, Channels: channels, Data: data}, nil
}

var _ port.Preprocessor = (*Preprocessor)(nil)
