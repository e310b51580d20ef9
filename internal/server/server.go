// Package server exposes a small HTTP surface for health checks and
// operational introspection of live conversations.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/claudecord/claudecord/internal/convo"
)

type Server struct {
	echo *echo.Echo
	addr string
}

func NewServer(log *slog.Logger, addr string, store *convo.Store) *Server {
	if log == nil {
		log = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	h := &opsHandler{
		store:  store,
		logger: log.With(slog.String("handler", "ops")),
	}
	h.Register(e)

	return &Server{
		echo: e,
		addr: addr,
	}
}

func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type opsHandler struct {
	store  *convo.Store
	logger *slog.Logger
}

func (h *opsHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.HEAD("/health", h.PingHead)
	e.GET("/api/sessions", h.Sessions)
}

func (h *opsHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *opsHandler) PingHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *opsHandler) Sessions(c echo.Context) error {
	if h.store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "session store not available")
	}
	sessions := h.store.Stats()
	return c.JSON(http.StatusOK, map[string]any{
		"count":    len(sessions),
		"sessions": sessions,
	})
}
