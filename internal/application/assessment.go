package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
	"fruit-quality-bot/internal/logging"
)

// AssessmentService проводит изображение через декодер, препроцессор и оценщик.
// Состояния между запросами нет, сервис можно вызывать конкурентно.
type AssessmentService struct {
	decoder      port.ImageDecoder
	preprocessor port.Preprocessor
	scorer       port.QualityScorer
	logger       *zap.Logger
	now          func() time.Time
}

// NewAssessmentService создаёт сервис оценки качества.
func NewAssessmentService(decoder port.ImageDecoder, preprocessor port.Preprocessor, scorer port.QualityScorer, logger *zap.Logger) *AssessmentService {
	return &AssessmentService{
		decoder:      decoder,
		preprocessor: preprocessor,
		scorer:       scorer,
		logger:       logger.Named("assessment"),
		now:          time.Now,
	}
}

// ScorerName возвращает имя активного оценщика.
func (s *AssessmentService) ScorerName() string {
	return s.scorer.Name()
}

// Assess оценивает одно изображение. Ошибки имеют тип *logging.OperationError поверх
// entity.ErrImageDecode, entity.ErrImageProcessing или ошибки оценщика.
func (s *AssessmentService) Assess(ctx context.Context, req entity.AssessmentRequest) (*entity.Assessment, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Source == "" {
		req.Source = entity.SourceUpload
	}
	opLogger := logging.WithOperation(s.logger, "assessment.assess", req.ID)

	if err := ctx.Err(); err != nil {
		return nil, logging.NewOperationError("assessment.assess", req.ID, err)
	}

	started := s.now()

	img, info, err := s.decoder.Decode(req.Data)
	if err != nil {
		opLogger.Warn("image decode failed", zap.Error(err), zap.Int("bytes", len(req.Data)))
		return nil, logging.NewOperationError("assessment.decode", req.ID, err)
	}
	info.Source = req.Source

	tensor, err := s.preprocessor.Preprocess(img)
	if err != nil {
		opLogger.Warn("image preprocessing failed", zap.Error(err))
		return nil, logging.NewOperationError("assessment.preprocess", req.ID, err)
	}

	result, err := s.scorer.Score(ctx, entity.Sample{Original: img, Info: info, Canonical: tensor})
	if err != nil {
		if errors.Is(err, entity.ErrModelLoad) {
			opLogger.Error("scorer is unavailable", zap.Error(err))
		} else {
			opLogger.Warn("scoring failed", zap.Error(err))
		}
		return nil, logging.NewOperationError("assessment.score", req.ID, err)
	}

	elapsed := s.now().Sub(started)
	opLogger.Info("image assessed",
		zap.String("scorer", s.scorer.Name()),
		zap.String("source", string(info.Source)),
		zap.String("format", info.Format),
		zap.String("mode", string(info.Mode)),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.String("label", string(result.Label)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("duration", elapsed),
	)

	return &entity.Assessment{
		ID:       req.ID,
		Result:   result,
		Image:    info,
		Duration: elapsed,
	}, nil
}

var _ port.Assessor = (*AssessmentService)(nil)
