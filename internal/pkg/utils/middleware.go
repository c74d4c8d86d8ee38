package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZapLoggerMiddleware logs each HTTP request with method, path, status and
// latency through the given zap logger.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	requestLogger := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			requestLogger.Error("Request completed with errors", fields...)
			return
		}
		requestLogger.Info("Request completed", fields...)
	}
}
