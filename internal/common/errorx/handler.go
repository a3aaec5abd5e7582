package errorx

import (
	"github.com/gin-gonic/gin"
)

// TraceIDKey is the gin context key holding the request trace id.
const TraceIDKey = "trace_id"

// Send writes err onto the gin response as a JSON error envelope, attaching
// the request trace id when one is present on the context.
func Send(c *gin.Context, err error) {
	apiErr := From(err)
	if traceID := c.GetString(TraceIDKey); traceID != "" {
		apiErr = apiErr.WithTraceID(traceID)
	}
	c.JSON(apiErr.HTTPStatus, gin.H{"error": apiErr})
}

// Abort writes err and stops the handler chain.
func Abort(c *gin.Context, err error) {
	apiErr := From(err)
	if traceID := c.GetString(TraceIDKey); traceID != "" {
		apiErr = apiErr.WithTraceID(traceID)
	}
	c.AbortWithStatusJSON(apiErr.HTTPStatus, gin.H{"error": apiErr})
}
