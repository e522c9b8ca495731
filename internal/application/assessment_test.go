package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/infrastructure/imaging"
	"fruit-quality-bot/internal/infrastructure/scoring"
	"fruit-quality-bot/internal/logging"
)

type stubScorer struct {
	mu      sync.Mutex
	result  entity.ScoreResult
	err     error
	samples []entity.Sample
}

func (s *stubScorer) Name() string { return "stub" }

func (s *stubScorer) Score(ctx context.Context, sample entity.Sample) (entity.ScoreResult, error) {
	s.mu.Lock()
	s.samples = append(s.samples, sample)
	s.mu.Unlock()
	return s.result, s.err
}

func grayPNG(t *testing.T, w, h int, v uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newService(t *testing.T) *AssessmentService {
	t.Helper()
	scorer, err := scoring.NewHeuristicScorer(scoring.DefaultHeuristicConfig())
	require.NoError(t, err)
	return NewAssessmentService(
		imaging.NewDecoder(imaging.DefaultMaxPixels),
		imaging.NewPreprocessor(imaging.CanonicalSize, imaging.NewBilinearResizer()),
		scorer,
		zap.NewNop(),
	)
}

func TestAssessmentService_UniformGray(t *testing.T) {
	svc := newService(t)

	out, err := svc.Assess(context.Background(), entity.AssessmentRequest{
		ID:     "req-1",
		Data:   grayPNG(t, 50, 40, 128),
		Source: entity.SourceCamera,
	})
	require.NoError(t, err)
	require.Equal(t, "req-1", out.ID)
	require.Equal(t, entity.LabelNotGood, out.Result.Label)
	require.InDelta(t, 0.694, out.Result.Confidence, 1e-9)
	require.Equal(t, entity.TierModerate, out.Result.Tier())
	require.Equal(t, entity.ImageInfo{Width: 50, Height: 40, Format: "png", Mode: entity.ModeGray, Source: entity.SourceCamera}, out.Image)
}

func TestAssessmentService_GeneratesIDAndDefaultSource(t *testing.T) {
	svc := newService(t)

	out, err := svc.Assess(context.Background(), entity.AssessmentRequest{Data: grayPNG(t, 2, 2, 10)})
	require.NoError(t, err)
	require.NotEmpty(t, out.ID)
	require.Equal(t, entity.SourceUpload, out.Image.Source)
}

func TestAssessmentService_PassesOriginalAndCanonical(t *testing.T) {
	scorer := &stubScorer{result: entity.ScoreResult{Label: entity.LabelGood, Confidence: 0.9}}
	svc := NewAssessmentService(
		imaging.NewDecoder(0),
		imaging.NewPreprocessor(imaging.CanonicalSize, imaging.NewBilinearResizer()),
		scorer,
		zap.NewNop(),
	)

	_, err := svc.Assess(context.Background(), entity.AssessmentRequest{Data: grayPNG(t, 31, 17, 200)})
	require.NoError(t, err)
	require.Len(t, scorer.samples, 1)

	sample := scorer.samples[0]
	require.Equal(t, 31, sample.Original.Bounds().Dx())
	require.Equal(t, 224, sample.Canonical.Width)
	require.Equal(t, 3, sample.Canonical.Channels)
	require.Equal(t, "stub", svc.ScorerName())
}

func TestAssessmentService_CorruptInputKeepsServing(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, data := range [][]byte{nil, []byte("garbage")} {
		_, err := svc.Assess(ctx, entity.AssessmentRequest{ID: "bad", Data: data})
		require.ErrorIs(t, err, entity.ErrImageDecode)

		var opErr *logging.OperationError
		require.ErrorAs(t, err, &opErr)
		require.Equal(t, "assessment.decode", opErr.Operation)
		require.Equal(t, "bad", opErr.RequestID)
	}

	out, err := svc.Assess(ctx, entity.AssessmentRequest{Data: grayPNG(t, 8, 8, 128)})
	require.NoError(t, err)
	require.Equal(t, entity.LabelNotGood, out.Result.Label)
}

func TestAssessmentService_ScorerError(t *testing.T) {
	scorer := &stubScorer{err: fmt.Errorf("%w: no session", entity.ErrModelLoad)}
	svc := NewAssessmentService(imaging.NewDecoder(0), imaging.NewPreprocessor(8, nil), scorer, zap.NewNop())

	_, err := svc.Assess(context.Background(), entity.AssessmentRequest{Data: grayPNG(t, 4, 4, 1)})
	require.ErrorIs(t, err, entity.ErrModelLoad)

	var opErr *logging.OperationError
	require.True(t, errors.As(err, &opErr))
	require.Equal(t, "assessment.score", opErr.Operation)
}

func TestAssessmentService_CancelledContext(t *testing.T) {
	svc := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Assess(ctx, entity.AssessmentRequest{Data: grayPNG(t, 4, 4, 1)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestAssessmentService_Concurrent(t *testing.T) {
	svc := newService(t)
	data := grayPNG(t, 64, 64, 128)

	var wg sync.WaitGroup
	results := make([]*entity.Assessment, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Assess(context.Background(), entity.AssessmentRequest{Data: data})
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, results[0].Result, results[i].Result)
	}
}
