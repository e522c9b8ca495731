package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	app "fruit-quality-bot/internal/application"
	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
	"fruit-quality-bot/internal/infrastructure/imaging"
	"fruit-quality-bot/internal/infrastructure/scoring"
	"fruit-quality-bot/internal/report"
)

type stubAssessor struct {
	out *entity.Assessment
	err error
	req entity.AssessmentRequest
}

func (s *stubAssessor) Assess(ctx context.Context, req entity.AssessmentRequest) (*entity.Assessment, error) {
	s.req = req
	return s.out, s.err
}

func newRouter(t *testing.T, assessor port.Assessor, maxUpload int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, assessor, Options{MaxUploadSize: maxUpload, ScorerName: "heuristic"}, zap.NewNop())
	return router
}

func realAssessor(t *testing.T) *app.AssessmentService {
	t.Helper()
	scorer, err := scoring.NewHeuristicScorer(scoring.DefaultHeuristicConfig())
	require.NoError(t, err)
	return app.NewAssessmentService(
		imaging.NewDecoder(imaging.DefaultMaxPixels),
		imaging.NewPreprocessor(imaging.CanonicalSize, imaging.NewBilinearResizer()),
		scorer,
		zap.NewNop(),
	)
}

func grayPNG(t *testing.T, v uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 20, 10))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "fruit.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func doAssess(t *testing.T, router *gin.Engine, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, image)
	req := httptest.NewRequest(http.MethodPost, "/v1/assessments", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealth(t *testing.T) {
	router := newRouter(t, &stubAssessor{}, 0)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"status":"ok","scorer":"heuristic"}`, resp.Body.String())
}

func TestAssess_UniformGray(t *testing.T) {
	router := newRouter(t, realAssessor(t), 0)

	resp := doAssess(t, router, map[string]string{"source": "camera"}, grayPNG(t, 128))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var got assessmentResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.NotEmpty(t, got.RequestID)
	require.Equal(t, "NOT_GOOD", got.Label)
	require.InDelta(t, 0.694, got.Confidence, 1e-9)
	require.InDelta(t, 69.4, got.ConfidencePercent, 1e-9)
	require.Equal(t, "Moderate", got.Tier)
	require.Equal(t, "Live Camera", got.CaptureMode)
	require.Equal(t, imageResponse{Width: 20, Height: 10, Format: "png", Mode: "L", Source: "camera"}, got.Image)
}

func TestAssess_RejectsLargeUpload(t *testing.T) {
	router := newRouter(t, &stubAssessor{}, 1024)

	resp := doAssess(t, router, nil, bytes.Repeat([]byte("a"), 2048))
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestAssess_RejectsUnsupportedContentType(t *testing.T) {
	stub := &stubAssessor{}
	router := newRouter(t, stub, 0)

	resp := doAssess(t, router, nil, []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"))
	require.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
	require.Nil(t, stub.req.Data)
}

func TestAssess_CorruptBytesReachDecoder(t *testing.T) {
	router := newRouter(t, realAssessor(t), 0)

	resp := doAssess(t, router, nil, []byte("hello"))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Contains(t, resp.Body.String(), report.MsgRetry)
}

func TestAssess_ZeroByteImage(t *testing.T) {
	router := newRouter(t, realAssessor(t), 0)

	resp := doAssess(t, router, nil, []byte{})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Contains(t, resp.Body.String(), report.MsgRetry)

	// Сервер продолжает обслуживать запросы после ошибки.
	resp = doAssess(t, router, nil, grayPNG(t, 10))
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestAssess_BadRequests(t *testing.T) {
	router := newRouter(t, &stubAssessor{}, 0)

	resp := doAssess(t, router, map[string]string{"source": "fax"}, grayPNG(t, 1))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doAssess(t, router, map[string]string{"source": "upload"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/assessments", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssess_ErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: bad", entity.ErrImageProcessing), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: missing", entity.ErrModelLoad), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		stub := &stubAssessor{err: tc.err}
		resp := doAssess(t, newRouter(t, stub, 0), nil, grayPNG(t, 1))
		require.Equal(t, tc.code, resp.Code)
		require.Equal(t, entity.SourceUpload, stub.req.Source)
	}
}
