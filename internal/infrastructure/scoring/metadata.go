package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"fruit-quality-bot/internal/domain/entity"
)

// Раскладки входного тензора модели
const (
	LayoutNHWC = "nhwc"
	LayoutNCHW = "nchw"
)

// ModelMetadata описание ONNX-модели, лежит рядом с файлом модели.
type ModelMetadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	Layout      string   `json:"layout"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	Softmax     bool     `json:"softmax"` // выход модели в логитах

	labels []entity.Label
}

// LoadMetadata читает и проверяет метаданные. Ошибки оборачивают entity.ErrModelLoad.
func LoadMetadata(path string, canonicalSize int) (*ModelMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read metadata: %w", entity.ErrModelLoad, err)
	}

	var meta ModelMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: parse metadata: %w", entity.ErrModelLoad, err)
	}
	if err := meta.Validate(canonicalSize); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Validate заполняет значения по умолчанию и сверяет формы тензоров с каноническим размером.
func (m *ModelMetadata) Validate(canonicalSize int) error {
	if m.Layout == "" {
		m.Layout = LayoutNHWC
	}
	if m.InputName == "" {
		m.InputName = "input"
	}
	if m.OutputName == "" {
		m.OutputName = "output"
	}

	if m.ImageSize != canonicalSize {
		return fmt.Errorf("%w: model expects %dpx images, pipeline produces %dpx", entity.ErrModelLoad, m.ImageSize, canonicalSize)
	}

	size := int64(canonicalSize)
	var want []int64
	switch m.Layout {
	case LayoutNHWC:
		want = []int64{1, size, size, 3}
	case LayoutNCHW:
		want = []int64{1, 3, size, size}
	default:
		return fmt.Errorf("%w: unknown layout %q", entity.ErrModelLoad, m.Layout)
	}
	if !equalShape(m.InputShape, want) {
		return fmt.Errorf("%w: input shape %v, want %v", entity.ErrModelLoad, m.InputShape, want)
	}

	if len(m.Classes) != 2 {
		return fmt.Errorf("%w: expected 2 classes, got %d", entity.ErrModelLoad, len(m.Classes))
	}
	labels := make([]entity.Label, 0, len(m.Classes))
	for _, name := range m.Classes {
		l, ok := entity.ParseLabel(name)
		if !ok {
			return fmt.Errorf("%w: unknown class %q", entity.ErrModelLoad, name)
		}
		labels = append(labels, l)
	}
	if labels[0] == labels[1] {
		return fmt.Errorf("%w: duplicate class %q", entity.ErrModelLoad, labels[0])
	}
	if product(m.OutputShape) != int64(len(m.Classes)) {
		return fmt.Errorf("%w: output shape %v does not match %d classes", entity.ErrModelLoad, m.OutputShape, len(m.Classes))
	}

	m.labels = labels
	return nil
}

// Interpret выбирает класс с максимальной вероятностью.
func (m *ModelMetadata) Interpret(outputs []float32) (entity.ScoreResult, error) {
	if len(m.labels) == 0 {
		return entity.ScoreResult{}, fmt.Errorf("metadata is not validated")
	}
	if len(outputs) < len(m.labels) {
		return entity.ScoreResult{}, fmt.Errorf("model returned %d values for %d classes", len(outputs), len(m.labels))
	}

	probs := make([]float64, len(m.labels))
	for i := range probs {
		probs[i] = float64(outputs[i])
	}
	if m.Softmax {
		probs = softmax(probs)
	}

	best := 0
	for i, p := range probs {
		if math.IsNaN(p) {
			return entity.ScoreResult{}, fmt.Errorf("model returned NaN for class %q", m.Classes[i])
		}
		if p > probs[best] {
			best = i
		}
	}

	return entity.ScoreResult{Label: m.labels[best], Confidence: clamp(probs[best], 0, 1)}, nil
}

func softmax(xs []float64) []float64 {
	maxV := math.Inf(-1)
	for _, x := range xs {
		maxV = math.Max(maxV, x)
	}
	var sum float64
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Exp(x - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func equalShape(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func product(shape []int64) int64 {
	if len(shape) == 0 {
		return 0
	}
	p := int64(1)
	for _, d := range shape {
		p *= d
	}
	return p
}
