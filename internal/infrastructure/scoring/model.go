//go:build onnx
// +build onnx

package scoring

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
)

// ModelScorer классификатор на ONNX Runtime поверх канонического тензора.
type ModelScorer struct {
	meta *ModelMetadata

	mu      sync.Mutex // сессия и тензоры общие для всех запросов
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewModelScorer загружает модель. meta должна пройти Validate.
func NewModelScorer(modelPath string, meta *ModelMetadata) (*ModelScorer, error) {
	if meta == nil || len(meta.labels) == 0 {
		return nil, fmt.Errorf("%w: metadata is not validated", entity.ErrModelLoad)
	}

	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: initialize onnx environment: %w", entity.ErrModelLoad, err)
		}
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("%w: create input tensor: %w", entity.ErrModelLoad, err)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("%w: create output tensor: %w", entity.ErrModelLoad, err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{meta.InputName}, []string{meta.OutputName},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("%w: create onnx session: %w", entity.ErrModelLoad, err)
	}

	return &ModelScorer{meta: meta, session: session, input: input, output: output}, nil
}

func (s *ModelScorer) Name() string {
	return "onnx"
}

// Score запускает инференс на тензоре 224×224×3.
func (s *ModelScorer) Score(ctx context.Context, sample entity.Sample) (entity.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.ScoreResult{}, err
	}

	t := sample.Canonical
	if t.Width != s.meta.ImageSize || t.Height != s.meta.ImageSize || t.Channels != 3 {
		return entity.ScoreResult{}, fmt.Errorf("%w: tensor %dx%dx%d does not match model input",
			entity.ErrImageProcessing, t.Height, t.Width, t.Channels)
	}

	data := t.Data
	if s.meta.Layout == LayoutNCHW {
		data = t.CHW()
	}

	s.mu.Lock()
	copy(s.input.GetData(), data)
	err := s.session.Run()
	outputs := append([]float32(nil), s.output.GetData()...)
	s.mu.Unlock()

	if err != nil {
		return entity.ScoreResult{}, fmt.Errorf("inference failed: %w", err)
	}
	return s.meta.Interpret(outputs)
}

// Close освобождает сессию, тензоры и окружение ONNX Runtime.
func (s *ModelScorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
	return ort.DestroyEnvironment()
}

var _ port.QualityScorer = (*ModelScorer)(nil)
