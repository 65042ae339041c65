package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/phoenix-users-web/internal/phoenix"
)

// TraceID captures the inbound X-Trace-ID header, minting a fresh
// identifier when the caller did not provide one. The same value is
// echoed back to the browser and handed to every backend call.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tid := c.Request().Header.Get(phoenix.HeaderTraceID)
			if tid == "" {
				tid = uuid.NewString()
			}

			c.Set(ContextKeyTraceID, tid)
			c.Response().Header().Set(phoenix.HeaderTraceID, tid)

			return next(c)
		}
	}
}

// TraceIDFromContext extracts the trace identifier if available.
func TraceIDFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyTraceID).(string); ok {
		return val
	}
	return ""
}
