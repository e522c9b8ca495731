package imaging

import (
	"fmt"
	"image"
	"image/color"

	"fruit-quality-bot/internal/domain/entity"
)

// Stats яркость и разброс значений каналов
type Stats struct {
	Count    uint64  // число значений (пиксели × каналы)
	Mean     float64 // средняя яркость
	Variance float64 // дисперсия генеральной совокупности
}

// Histogram счётчики 8-битных значений каналов
type Histogram [256]uint64

// Stats считает среднее и дисперсию по гистограмме.
func (h *Histogram) Stats() Stats {
	var n uint64
	var sum float64
	for v, c := range h {
		n += c
		sum += float64(v) * float64(c)
	}
	if n == 0 {
		return Stats{}
	}

	mean := sum / float64(n)
	var sq float64
	for v, c := range h {
		if c == 0 {
			continue
		}
		d := float64(v) - mean
		sq += d * d * float64(c)
	}
	return Stats{Count: n, Mean: mean, Variance: sq / float64(n)}
}

// PixelStats считает статистику по всем каналам режима mode исходного изображения.
func PixelStats(img image.Image, mode entity.ColorMode) (Stats, error) {
	if img == nil || img.Bounds().Empty() {
		return Stats{}, fmt.Errorf("%w: zero-size image", entity.ErrImageProcessing)
	}

	var h Histogram
	b := img.Bounds()

	switch m := img.(type) {
	case *image.Gray:
		if mode == entity.ModeGray {
			for y := b.Min.Y; y < b.Max.Y; y++ {
				row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
				for _, v := range row {
					h[v]++
				}
			}
			return h.Stats(), nil
		}
	case *image.RGBA:
		if mode == entity.ModeRGB {
			for y := b.Min.Y; y < b.Max.Y; y++ {
				row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
				for i := 0; i+3 < len(row); i += 4 {
					h[row[i]]++
					h[row[i+1]]++
					h[row[i+2]]++
				}
			}
			return h.Stats(), nil
		}
	case *image.NRGBA:
		if mode == entity.ModeRGBA {
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for _, v := range m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)] {
					h[v]++
				}
			}
			return h.Stats(), nil
		}
	case *image.YCbCr:
		if mode == entity.ModeRGB {
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					ci := m.COffset(x, y)
					r, g, bl := color.YCbCrToRGB(m.Y[m.YOffset(x, y)], m.Cb[ci], m.Cr[ci])
					h[r]++
					h[g]++
					h[bl]++
				}
			}
			return h.Stats(), nil
		}
	}

	accumulate(&h, img, mode)
	return h.Stats(), nil
}

func accumulate(h *Histogram, img image.Image, mode entity.ColorMode) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			if mode == entity.ModeGray {
				h[color.GrayModel.Convert(c).(color.Gray).Y]++
				continue
			}
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			h[n.R]++
			h[n.G]++
			h[n.B]++
			if mode == entity.ModeRGBA {
				h[n.A]++
			}
		}
	}
}
