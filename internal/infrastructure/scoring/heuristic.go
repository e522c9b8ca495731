package scoring

import (
	"context"
	"fmt"
	"math"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
	"fruit-quality-bot/internal/infrastructure/imaging"
)

// HeuristicConfig пороги и коэффициенты эвристики яркости и разброса.
type HeuristicConfig struct {
	BrightnessThreshold float64 // средняя яркость должна быть строго больше
	VarianceThreshold   float64 // дисперсия должна быть строго больше
	Slope               float64 // делитель отклонения яркости от порога

	GoodBase    float64
	GoodCap     float64
	NotGoodBase float64
	NotGoodCap  float64

	// Floor нижняя граница уверенности для обеих веток.
	Floor float64
}

// DefaultHeuristicConfig значения демонстрационной эвристики.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		BrightnessThreshold: 100,
		VarianceThreshold:   500,
		Slope:               500,
		GoodBase:            0.85,
		GoodCap:             0.95,
		NotGoodBase:         0.75,
		NotGoodCap:          0.90,
		Floor:               0,
	}
}

// Validate проверяет согласованность конфигурации.
func (c HeuristicConfig) Validate() error {
	if c.Slope <= 0 {
		return fmt.Errorf("heuristic slope must be positive, got %v", c.Slope)
	}
	if c.Floor < 0 || c.Floor > c.GoodCap || c.Floor > c.NotGoodCap {
		return fmt.Errorf("heuristic floor %v must be within [0, cap]", c.Floor)
	}
	if c.GoodCap > 1 || c.NotGoodCap > 1 {
		return fmt.Errorf("heuristic caps must not exceed 1")
	}
	return nil
}

// HeuristicScorer оценивает фрукт по яркости и дисперсии исходного изображения.
// Это заглушка вместо обученной модели, см. ModelScorer.
type HeuristicScorer struct {
	cfg HeuristicConfig
}

// NewHeuristicScorer создаёт оценщик с явной конфигурацией.
func NewHeuristicScorer(cfg HeuristicConfig) (*HeuristicScorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HeuristicScorer{cfg: cfg}, nil
}

func (s *HeuristicScorer) Name() string {
	return "heuristic"
}

// Score считает статистику по исходному (не уменьшенному) изображению.
func (s *HeuristicScorer) Score(ctx context.Context, sample entity.Sample) (entity.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.ScoreResult{}, err
	}

	mode := sample.Info.Mode
	if mode == "" {
		mode = imaging.ModeOf(sample.Original)
	}

	stats, err := imaging.PixelStats(sample.Original, mode)
	if err != nil {
		return entity.ScoreResult{}, err
	}
	return s.Classify(stats), nil
}

// Classify применяет правило к готовой статистике. Оба сравнения строгие.
func (s *HeuristicScorer) Classify(stats imaging.Stats) entity.ScoreResult {
	c := s.cfg
	if stats.Mean > c.BrightnessThreshold && stats.Variance > c.VarianceThreshold {
		raw := c.GoodBase + (stats.Mean-c.BrightnessThreshold)/c.Slope
		return entity.ScoreResult{Label: entity.LabelGood, Confidence: clamp(raw, c.Floor, c.GoodCap)}
	}

	raw := c.NotGoodBase + (c.BrightnessThreshold-stats.Mean)/c.Slope
	return entity.ScoreResult{Label: entity.LabelNotGood, Confidence: clamp(raw, c.Floor, c.NotGoodCap)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

var _ port.QualityScorer = (*HeuristicScorer)(nil)
