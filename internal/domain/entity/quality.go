package entity

import "strings"

// Label метка качества фрукта
type Label string

const (
	LabelGood    Label = "GOOD"     // Фрукт в хорошем состоянии
	LabelNotGood Label = "NOT_GOOD" // Фрукт требует осмотра
)

// ParseLabel разбирает имя класса модели ("Good", "not good", "NOT_GOOD").
func ParseLabel(name string) (Label, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	switch Label(normalized) {
	case LabelGood:
		return LabelGood, true
	case LabelNotGood:
		return LabelNotGood, true
	}
	return "", false
}

// Tier качественный уровень уверенности для отображения
type Tier string

const (
	TierExcellent Tier = "Excellent"
	TierGood      Tier = "Good"
	TierModerate  Tier = "Moderate"
)

// ScoreResult итог оценки одного изображения. Не изменяется после создания.
type ScoreResult struct {
	Label      Label
	Confidence float64
}

// IsGood сообщает, признан ли фрукт хорошим.
func (r ScoreResult) IsGood() bool {
	return r.Label == LabelGood
}

// Percent возвращает уверенность в процентах.
func (r ScoreResult) Percent() float64 {
	return r.Confidence * 100
}

// Tier возвращает уровень уверенности: Excellent > 0.9, Good > 0.7, иначе Moderate.
func (r ScoreResult) Tier() Tier {
	switch {
	case r.Confidence > 0.9:
		return TierExcellent
	case r.Confidence > 0.7:
		return TierGood
	default:
		return TierModerate
	}
}
