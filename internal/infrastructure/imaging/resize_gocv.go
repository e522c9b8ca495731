//go:build gocv
// +build gocv

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
)

// GoCVResizer меняет размер через OpenCV, как cv2.resize по умолчанию.
type GoCVResizer struct{}

// DefaultResizer с тегом gocv использует OpenCV.
func DefaultResizer() port.Resizer {
	return GoCVResizer{}
}

func (GoCVResizer) Resize(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid target size %dx%d", entity.ErrImageProcessing, width, height)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrImageProcessing, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("%w: empty image", entity.ErrImageProcessing)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)

	out, err := resized.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrImageProcessing, err)
	}
	return out, nil
}
