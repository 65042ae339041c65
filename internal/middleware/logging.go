package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Logging writes one structured line per request, tagged with the trace id
// so UI and backend logs can be correlated.
func Logging(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			tid, _ := c.Get(ContextKeyTraceID).(string)
			logger.WithFields(logrus.Fields{
				"trace_id": tid,
				"method":   c.Request().Method,
				"path":     c.Request().URL.Path,
				"status":   c.Response().Status,
				"latency":  latency.String(),
			}).Info("request completed")

			return err
		}
	}
}
