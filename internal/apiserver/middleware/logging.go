package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// AccessLog emits one structured line per request.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	accessLogger := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := c.GetString(errorx.TraceIDKey); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}

		if c.Writer.Status() >= 500 {
			accessLogger.Error("request", fields...)
		} else {
			accessLogger.Info("request", fields...)
		}
	}
}
