// Package server wires the HTTP surface: the Slack slash-command webhook,
// the summary history view, and health reporting.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/vipsense/internal/profile"
	"github.com/hrygo/vipsense/internal/version"
	"github.com/hrygo/vipsense/plugin/slackgw"
	"github.com/hrygo/vipsense/store"
	"github.com/hrygo/vipsense/vip"
)

type Server struct {
	echo    *echo.Echo
	profile *profile.Profile
	store   *store.Store
	engine  *vip.Engine
	gateway *slackgw.Gateway
}

func NewServer(profile *profile.Profile, st *store.Store, engine *vip.Engine, gateway *slackgw.Gateway) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		profile: profile,
		store:   st,
		engine:  engine,
		gateway: gateway,
	}

	e.POST("/api/v1/commands", s.handleSlashCommand)
	e.GET("/api/v1/summaries", s.handleListSummaries)
	e.GET("/healthz", s.handleHealthz)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	slog.Info("server starting",
		"addr", s.profile.ListenAddr(),
		"version", s.profile.Version,
	)
	return s.echo.Start(s.profile.ListenAddr())
}

func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}

func (s *Server) handleListSummaries(c echo.Context) error {
	requestedBy := c.QueryParam("requested_by")
	if requestedBy == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "requested_by is required")
	}
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be 1-200")
		}
		limit = parsed
	}

	records, err := s.engine.History(c.Request().Context(), requestedBy, limit)
	if err != nil {
		slog.Error("failed to list summaries", "requested_by", requestedBy, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, vip.UserMessage(err))
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.GetCurrentVersion(s.profile.Mode),
		"gateway": s.gateway.Metrics().Snapshot(),
	})
}
