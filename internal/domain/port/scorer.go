package port

import (
	"context"

	"fruit-quality-bot/internal/domain/entity"
)

// QualityScorer интерфейс оценщика качества фрукта
type QualityScorer interface {
	// Score возвращает метку и уверенность для подготовленного образца
	Score(ctx context.Context, sample entity.Sample) (entity.ScoreResult, error)

	// Name короткое имя реализации для логов и health-check
	Name() string
}
