package handler

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const sessionName = "phoenix_users"

// addFlash queues a one-shot message under the given kind ("success" or
// "error"). Missing session middleware degrades to a no-op.
func addFlash(c echo.Context, kind, message string) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(message, kind)
	_ = sess.Save(c.Request(), c.Response())
}

// takeFlashes drains the queued messages. Must run before the response
// body is written so the session cookie can still be set.
func takeFlashes(c echo.Context) map[string][]string {
	flashes := map[string][]string{}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return flashes
	}
	for _, kind := range []string{"success", "error"} {
		for _, raw := range sess.Flashes(kind) {
			if msg, ok := raw.(string); ok {
				flashes[kind] = append(flashes[kind], msg)
			}
		}
	}
	_ = sess.Save(c.Request(), c.Response())
	return flashes
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get("csrf").(string)
	return token
}
