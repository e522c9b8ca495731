package rest

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
	"fruit-quality-bot/internal/logging"
	"fruit-quality-bot/internal/report"
)

// DefaultMaxUploadSize ограничение на тело запроса по умолчанию (10 МБ).
const DefaultMaxUploadSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Options параметры HTTP-обработчиков
type Options struct {
	MaxUploadSize int64
	ScorerName    string
}

type handler struct {
	assessor port.Assessor
	opts     Options
	logger   *zap.Logger
}

// RegisterRoutes регистрирует обработчики в gin.
func RegisterRoutes(router *gin.Engine, assessor port.Assessor, opts Options, logger *zap.Logger) {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = DefaultMaxUploadSize
	}
	h := &handler{assessor: assessor, opts: opts, logger: logger.Named("http")}

	router.GET("/health", h.health)
	v1 := router.Group("/v1")
	v1.POST("/assessments", h.assess)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "scorer": h.opts.ScorerName})
}

func (h *handler) assess(c *gin.Context) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(h.logger, "http.assess", requestID)

	if c.Request.ContentLength > h.opts.MaxUploadSize {
		h.tooLarge(c, requestID)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadSize)
	if err := c.Request.ParseMultipartForm(h.opts.MaxUploadSize); err != nil {
		if isTooLarge(err) {
			h.tooLarge(c, requestID)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form with an image field is required", "request_id": requestID})
		return
	}

	source, err := entity.ParseSource(c.PostForm("source"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": requestID})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required", "request_id": requestID})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image", "request_id": requestID})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		opLogger.Error("failed to read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image", "request_id": requestID})
		return
	}

	// 415 только для распознанных изображений других форматов. Всё остальное,
	// включая пустой и повреждённый файл, проверяет декодер.
	if contentType := http.DetectContentType(data); strings.HasPrefix(contentType, "image/") && !allowedContentTypes[contentType] {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{
			"error":      "unsupported image type " + contentType + ", use JPEG or PNG",
			"request_id": requestID,
		})
		return
	}

	out, err := h.assessor.Assess(c.Request.Context(), entity.AssessmentRequest{
		ID:     requestID,
		Data:   data,
		Source: source,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": report.ErrorMessage(err), "request_id": requestID})
		return
	}

	c.JSON(http.StatusOK, newAssessmentResponse(out))
}

func (h *handler) tooLarge(c *gin.Context, requestID string) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large", "request_id": requestID})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrImageDecode), errors.Is(err, entity.ErrImageProcessing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrModelLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
