package rest

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger пишет одну строку лога на запрос.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(started)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request failed", fields...)
			return
		}
		logger.Info("request handled", fields...)
	}
}

// NewEngine создаёт gin с восстановлением после паник и логированием через zap.
func NewEngine(logger *zap.Logger, maxUploadSize int64) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery())
	if maxUploadSize > 0 {
		router.MaxMultipartMemory = maxUploadSize
	}
	return router
}
