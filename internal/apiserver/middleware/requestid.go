package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// RequestIDHeader carries the trace id on requests and responses.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a trace id, honoring one supplied by the
// caller, and echoes it on the response. Error envelopes pick it up from the
// context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(RequestIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(errorx.TraceIDKey, traceID)
		c.Header(RequestIDHeader, traceID)
		c.Next()
	}
}
