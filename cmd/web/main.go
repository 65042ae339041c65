package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/octobees/phoenix-users-web/internal/config"
	"github.com/octobees/phoenix-users-web/internal/handler"
	middlewarepkg "github.com/octobees/phoenix-users-web/internal/middleware"
	"github.com/octobees/phoenix-users-web/internal/phoenix"
	"github.com/octobees/phoenix-users-web/internal/view"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.PhoenixTimeout}
	client := phoenix.NewClient(httpClient, cfg.PhoenixBaseURL, cfg.ImportToken)
	usersHandler := handler.NewUsersHandler(client)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = view.MustRenderer()
	e.HTTPErrorHandler = htmlErrorHandler

	e.Use(middlewarepkg.TraceID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.SessionSecret))))
	e.Use(middlewarepkg.AntiForgery())

	e.GET("/healthz", handler.Healthz)
	e.GET("/", handler.Home)

	e.GET("/users", usersHandler.Index)
	e.GET("/users/new", usersHandler.New)
	e.POST("/users/new", usersHandler.New)
	e.GET("/users/:id/edit", usersHandler.Edit)
	e.POST("/users/:id/edit", usersHandler.Edit)
	e.POST("/users/:id/delete", usersHandler.Delete)
	e.POST("/users/import", usersHandler.Import, middlewarepkg.ImportRateLimiter(cfg.RateLimitImport))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// htmlErrorHandler keeps error responses plain text instead of echo's
// default JSON payloads; this app talks to browsers.
func htmlErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}

	if err := c.String(code, http.StatusText(code)); err != nil {
		c.Logger().Error(err)
	}
}
