package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/bff/internal/model"
)

// Recovery turns a panic into a 500 carrying the standard failure envelope
// and marks the request span as failed.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			ctx := c.Request.Context()
			err := fmt.Errorf("panic: %v", rec)

			span := trace.SpanFromContext(ctx)
			span.RecordError(err, trace.WithStackTrace(true))
			span.SetStatus(codes.Error, err.Error())

			slog.ErrorContext(ctx, "panic recovered",
				"error", err,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, model.Failed("An unexpected error occurred"))
		}()
		c.Next()
	}
}
