package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"basegraph.app/bff/common/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates the caller's X-Request-Id, or assigns a new one, and
// attaches it to the request context's log fields.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			RequestID: logger.Ptr(requestID),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
