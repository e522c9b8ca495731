package report

import (
	"errors"
	"fmt"
	"strings"

	"fruit-quality-bot/internal/domain/entity"
)

// Сообщения об ошибках для пользователя
const (
	MsgRetry            = "⚠️ Не удалось обработать изображение. Попробуйте ещё раз с более чётким фото в формате JPEG или PNG."
	MsgModelUnavailable = "⚠️ Модель оценки сейчас недоступна. Попробуйте позже."
	MsgInternal         = "⚠️ Что-то пошло не так. Попробуйте ещё раз."
)

var (
	goodInterpretation = []string{
		"Свежий внешний вид",
		"Хороший цвет и текстура",
		"Подходит для употребления",
	}
	notGoodInterpretation = []string{
		"Возможны признаки порчи",
		"Фрукт может быть перезрелым или повреждённым",
		"Осмотрите его перед употреблением",
	}
)

// Panel готовая к показу карточка результата
type Panel struct {
	RequestID         string           `json:"request_id"`
	Label             entity.Label     `json:"label"`
	Headline          string           `json:"headline"`
	Confidence        float64          `json:"confidence"`
	ConfidencePercent float64          `json:"confidence_percent"`
	Tier              entity.Tier      `json:"tier"`
	CaptureMode       string           `json:"capture_mode"`
	Image             entity.ImageInfo `json:"image"`
	Summary           string           `json:"summary"`
	Interpretation    []string         `json:"interpretation"`
}

// Build собирает карточку по результату оценки.
func Build(a *entity.Assessment) Panel {
	p := Panel{
		RequestID:         a.ID,
		Label:             a.Result.Label,
		Confidence:        a.Result.Confidence,
		ConfidencePercent: a.Result.Percent(),
		Tier:              a.Result.Tier(),
		CaptureMode:       CaptureMode(a.Image.Source),
		Image:             a.Image,
	}

	if a.Result.IsGood() {
		p.Headline = "✅ GOOD FRUIT"
		p.Summary = "Фрукт выглядит хорошо!"
		p.Interpretation = goodInterpretation
	} else {
		p.Headline = "❌ NOT GOOD FRUIT"
		p.Summary = "Фрукт может быть не в лучшем состоянии!"
		p.Interpretation = notGoodInterpretation
	}
	return p
}

// CaptureMode подпись способа получения снимка.
func CaptureMode(s entity.Source) string {
	if s == entity.SourceCamera {
		return "Live Camera"
	}
	return "File Upload"
}

// Text рендерит карточку для Telegram и консоли.
func (p Panel) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Headline)
	fmt.Fprintf(&b, "Уверенность: %.1f%%\n\n", p.ConfidencePercent)

	fmt.Fprintf(&b, "📊 Подробности\n")
	fmt.Fprintf(&b, "Качество: %s\n", p.Label)
	fmt.Fprintf(&b, "Оценка уверенности: %.3f\n", p.Confidence)
	fmt.Fprintf(&b, "Уровень уверенности: %s\n", p.Tier)
	fmt.Fprintf(&b, "Режим: %s\n", p.CaptureMode)
	fmt.Fprintf(&b, "Изображение: %dx%d, %s\n\n", p.Image.Width, p.Image.Height, p.Image.Mode)

	fmt.Fprintf(&b, "%s\n", p.Summary)
	for _, line := range p.Interpretation {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ErrorMessage переводит ошибку оценки в сообщение для пользователя.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrImageDecode), errors.Is(err, entity.ErrImageProcessing):
		return MsgRetry
	case errors.Is(err, entity.ErrModelLoad):
		return MsgModelUnavailable
	default:
		return MsgInternal
	}
}
