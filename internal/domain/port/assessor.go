package port

import (
	"context"

	"fruit-quality-bot/internal/domain/entity"
)

// Assessor оценивает одно изображение от начала до конца; его вызывают бот, HTTP и CLI
type Assessor interface {
	Assess(ctx context.Context, req entity.AssessmentRequest) (*entity.Assessment, error)
}
