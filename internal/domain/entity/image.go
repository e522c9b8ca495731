package entity

import (
	"fmt"
	"image"
)

// Source способ получения изображения
type Source string

const (
	SourceUpload Source = "upload" // Загрузка файла
	SourceCamera Source = "camera" // Снимок с камеры
)

// ParseSource разбирает источник, пустая строка означает загрузку файла.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "", SourceUpload:
		return SourceUpload, nil
	case SourceCamera:
		return SourceCamera, nil
	}
	return "", fmt.Errorf("unknown image source %q", s)
}

// ColorMode набор каналов, которые участвуют в статистике изображения
type ColorMode string

const (
	ModeGray ColorMode = "L"
	ModeRGB  ColorMode = "RGB"
	ModeRGBA ColorMode = "RGBA"
)

// Channels возвращает число каналов режима.
func (m ColorMode) Channels() int {
	switch m {
	case ModeGray:
		return 1
	case ModeRGB:
		return 3
	default:
		return 4
	}
}

// ImageInfo описание декодированного изображения
type ImageInfo struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Format string    `json:"format"` // jpeg или png
	Mode   ColorMode `json:"mode"`   // режим каналов
	Source Source    `json:"source"`
}

// Pixels возвращает число пикселей.
func (i ImageInfo) Pixels() int {
	return i.Width * i.Height
}

// Tensor нормализованные значения пикселей в раскладке HWC, диапазон [0, 1].
type Tensor struct {
	Height   int
	Width    int
	Channels int
	Data     []float32
}

// At возвращает значение канала c пикселя (x, y).
func (t Tensor) At(x, y, c int) float32 {
	return t.Data[(y*t.Width+x)*t.Channels+c]
}

// CHW возвращает копию данных в планарной раскладке (канал, строка, столбец).
func (t Tensor) CHW() []float32 {
	plane := t.Width * t.Height
	out := make([]float32, len(t.Data))
	for i := 0; i < plane; i++ {
		for c := 0; c < t.Channels; c++ {
			out[c*plane+i] = t.Data[i*t.Channels+c]
		}
	}
	return out
}

// Sample всё, что нужно оценщику: исходное изображение и канонический тензор.
type Sample struct {
	Original  image.Image
	Info      ImageInfo
	Canonical Tensor
}
