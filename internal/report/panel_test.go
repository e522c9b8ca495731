package report

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/logging"
)

func TestBuild_Good(t *testing.T) {
	p := Build(&entity.Assessment{
		ID:     "req",
		Result: entity.ScoreResult{Label: entity.LabelGood, Confidence: 0.95},
		Image:  entity.ImageInfo{Width: 640, Height: 480, Mode: entity.ModeRGB, Source: entity.SourceCamera},
	})

	require.Equal(t, "✅ GOOD FRUIT", p.Headline)
	require.Equal(t, entity.TierExcellent, p.Tier)
	require.Equal(t, "Live Camera", p.CaptureMode)

	text := p.Text()
	require.Contains(t, text, "Уверенность: 95.0%")
	require.Contains(t, text, "Оценка уверенности: 0.950")
	require.Contains(t, text, "Уровень уверенности: Excellent")
	require.Contains(t, text, "Изображение: 640x480, RGB")
	require.Contains(t, text, "• Подходит для употребления")
}

func TestBuild_NotGood(t *testing.T) {
	p := Build(&entity.Assessment{
		Result: entity.ScoreResult{Label: entity.LabelNotGood, Confidence: 0.694},
		Image:  entity.ImageInfo{Source: entity.SourceUpload},
	})

	require.Equal(t, "❌ NOT GOOD FRUIT", p.Headline)
	require.Equal(t, entity.TierModerate, p.Tier)
	require.Equal(t, "File Upload", p.CaptureMode)
	require.Contains(t, p.Text(), "Уверенность: 69.4%")
}

func TestErrorMessage(t *testing.T) {
	decode := logging.NewOperationError("assessment.decode", "r", fmt.Errorf("%w: empty input", entity.ErrImageDecode))
	require.Equal(t, MsgRetry, ErrorMessage(decode))
	require.Equal(t, MsgRetry, ErrorMessage(entity.ErrImageProcessing))
	require.Equal(t, MsgModelUnavailable, ErrorMessage(entity.ErrModelLoad))
	require.Equal(t, MsgInternal, ErrorMessage(errors.New("boom")))
}
