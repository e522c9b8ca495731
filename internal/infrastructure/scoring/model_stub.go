//go:build !onnx
// +build !onnx

package scoring

import (
	"context"
	"errors"
	"fmt"

	"fruit-quality-bot/internal/domain/entity"
)

// ModelScorer заглушка для сборки без тега onnx.
type ModelScorer struct{}

// NewModelScorer всегда возвращает ErrModelLoad, если сборка без тега onnx.
func NewModelScorer(modelPath string, meta *ModelMetadata) (*ModelScorer, error) {
	_ = modelPath
	_ = meta
	return nil, fmt.Errorf("%w: onnx build tag is not enabled", entity.ErrModelLoad)
}

func (s *ModelScorer) Name() string {
	return "onnx"
}

// Score возвращает ошибку, если сборка без тега onnx.
func (s *ModelScorer) Score(ctx context.Context, sample entity.Sample) (entity.ScoreResult, error) {
	_ = ctx
	_ = sample
	return entity.ScoreResult{}, errors.New("onnx build tag is not enabled")
}

func (s *ModelScorer) Close() error {
	return nil
}
