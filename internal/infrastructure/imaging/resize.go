package imaging

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
)

// BilinearResizer ресайзер на чистом Go с билинейной интерполяцией.
type BilinearResizer struct {
	interp resize.InterpolationFunction
}

// NewBilinearResizer создаёт ресайзер, совпадающий по методу с INTER_LINEAR из OpenCV.
func NewBilinearResizer() BilinearResizer {
	return BilinearResizer{interp: resize.Bilinear}
}

func (r BilinearResizer) Resize(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid target size %dx%d", entity.ErrImageProcessing, width, height)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: zero-size image", entity.ErrImageProcessing)
	}
	return resize.Resize(uint(width), uint(height), img, r.interp), nil
}

var _ port.Resizer = BilinearResizer{}
