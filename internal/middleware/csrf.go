package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// AntiForgery validates the _token form field on mutating requests.
// A missing token and an invalid token both come back as 403 so the
// browser surface never distinguishes the two cases.
func AntiForgery() echo.MiddlewareFunc {
	return echoMiddleware.CSRFWithConfig(echoMiddleware.CSRFConfig{
		TokenLookup: "form:_token",
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, "invalid anti-forgery token")
		},
	})
}
