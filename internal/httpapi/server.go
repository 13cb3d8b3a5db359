package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forem/forem-sub028/internal/feed"
)

// Server hosts the feed query API. It satisfies the worker interface so
// the manager can supervise it alongside the background workers.
type Server struct {
	Feed            *feed.Service
	Addr            string
	ShutdownTimeout time.Duration

	echo *echo.Echo
}

func NewServer(svc *feed.Service, addr string, shutdownTimeout time.Duration) *Server {
	s := &Server{Feed: svc, Addr: addr, ShutdownTimeout: shutdownTimeout}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestID())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.GET("/feed", handleGetFeed(svc))

	s.echo = e
	return s
}

// requestID tags every request with an id and logs the request line.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := uuid.NewString()
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			start := time.Now()
			err := next(c)
			slog.Info("http request",
				"request_id", id,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start),
			)
			return err
		}
	}
}

// Start runs the listener until ctx is cancelled, then shuts down with the
// configured grace period.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.Addr); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()
	slog.Info("http server listening", "addr", s.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
