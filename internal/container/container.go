package container

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fruit-quality-bot/config"
	app "fruit-quality-bot/internal/application"
	"fruit-quality-bot/internal/domain/port"
	"fruit-quality-bot/internal/infrastructure/imaging"
	"fruit-quality-bot/internal/infrastructure/scoring"
)

type Container struct {
	AssessmentService *app.AssessmentService
	Scorer            port.QualityScorer

	closers []func() error
}

// New собирает сервисы приложения по конфигурации.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{}

	scorer, err := c.buildScorer(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Scorer = scorer

	c.AssessmentService = app.NewAssessmentService(
		imaging.NewDecoder(cfg.MaxPixels),
		imaging.NewPreprocessor(imaging.CanonicalSize, imaging.DefaultResizer()),
		scorer,
		logger,
	)
	return c, nil
}

// Close освобождает ресурсы оценщика.
func (c *Container) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

func (c *Container) buildScorer(cfg *config.Config, logger *zap.Logger) (port.QualityScorer, error) {
	heuristicCfg := scoring.DefaultHeuristicConfig()
	heuristicCfg.Floor = cfg.ConfidenceFloor

	if cfg.Scorer == config.ScorerONNX {
		model, err := loadModel(cfg)
		if err == nil {
			c.closers = append(c.closers, model.Close)
			logger.Info("model scorer loaded", zap.String("model_path", cfg.ModelPath))
			return model, nil
		}
		if !cfg.ScorerFallback {
			return nil, err
		}
		// Как и в демо-версии: без модели продолжаем работать на эвристике.
		logger.Warn("model is unavailable, falling back to heuristic scorer", zap.Error(err))
	}

	heuristic, err := scoring.NewHeuristicScorer(heuristicCfg)
	if err != nil {
		return nil, fmt.Errorf("build heuristic scorer: %w", err)
	}
	return heuristic, nil
}

func loadModel(cfg *config.Config) (*scoring.ModelScorer, error) {
	meta, err := scoring.LoadMetadata(cfg.ModelMetadataPath, imaging.CanonicalSize)
	if err != nil {
		return nil, err
	}
	model, err := scoring.NewModelScorer(cfg.ModelPath, meta)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}
	return model, nil
}
