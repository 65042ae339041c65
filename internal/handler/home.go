package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Home redirects the root path to the users list.
func Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/users")
}

// Healthz answers liveness probes.
func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
