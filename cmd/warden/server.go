package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chathaven/warden/guardmod"
	"github.com/chathaven/warden/guardmod/audit"
	"github.com/chathaven/warden/guardmod/progression"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
)

// Server exposes the ingest and admin HTTP API. Read endpoints that walk
// whole ledgers (leaderboard, export) sit behind a short-lived cache so
// dashboards polling them do not become a scan per request.
type Server struct {
	logger *slog.Logger
	engine *guardmod.Engine
	store  *audit.Store // nil when audit persistence is disabled

	echo        *echo.Echo
	metrics     *http.Server
	leaderboard *expirable.LRU[int, []progression.LeaderboardEntry]
}

func NewServer(eng *guardmod.Engine, store *audit.Store, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())

	srv := &Server{
		logger:      logger,
		engine:      eng,
		store:       store,
		echo:        e,
		leaderboard: expirable.NewLRU[int, []progression.LeaderboardEntry](16, nil, 10*time.Second),
	}

	e.POST("/events/message", srv.handleMessage)
	e.POST("/events/join", srv.handleJoin)
	e.POST("/events/leave", srv.handleLeave)
	e.POST("/events/reaction", srv.handleReaction)
	e.POST("/events/invite", srv.handleInvite)
	e.POST("/events/support", srv.handleSupport)

	e.GET("/chats/:id/settings", srv.handleGetChatSettings)
	e.PUT("/chats/:id/settings", srv.handlePutChatSettings)
	e.DELETE("/chats/:id/settings", srv.handleDeleteChatSettings)

	e.GET("/leaderboard", srv.handleLeaderboard)
	e.GET("/users/:id/stats", srv.handleUserStats)
	e.GET("/users/:id/record", srv.handleUserRecord)
	e.GET("/violations/recent", srv.handleRecentViolations)
	e.GET("/export", srv.handleExport)
	e.GET("/_health", srv.handleHealth)

	return srv
}

func (srv *Server) RunAPI(ctx context.Context, bind string) error {
	srv.logger.Info("starting API server", "bind", bind)
	if err := srv.echo.Start(bind); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (srv *Server) RunMetrics(ctx context.Context, bind string) error {
	srv.logger.Info("starting metrics server", "bind", bind)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv.metrics = &http.Server{Addr: bind, Handler: mux}
	if err := srv.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (srv *Server) Shutdown() error {
	srv.logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.echo.Shutdown(ctx)
	if srv.metrics != nil {
		if merr := srv.metrics.Shutdown(ctx); err == nil {
			err = merr
		}
	}
	return err
}

func (srv *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (srv *Server) handleMessage(c echo.Context) error {
	var evt guardmod.MessageEvent
	if err := c.Bind(&evt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message event")
	}
	if evt.SenderID == 0 || evt.ChatID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "sender_id and chat_id are required")
	}
	res, err := srv.engine.ProcessMessage(c.Request().Context(), evt)
	if err != nil {
		return fmt.Errorf("processing message: %w", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (srv *Server) handleJoin(c echo.Context) error {
	var evt guardmod.JoinEvent
	if err := c.Bind(&evt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid join event")
	}
	if evt.UserID == 0 || evt.ChatID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and chat_id are required")
	}
	res, err := srv.engine.ProcessJoin(c.Request().Context(), evt)
	if err != nil {
		return fmt.Errorf("processing join: %w", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (srv *Server) handleLeave(c echo.Context) error {
	var evt guardmod.LeaveEvent
	if err := c.Bind(&evt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid leave event")
	}
	if evt.UserID == 0 || evt.ChatID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and chat_id are required")
	}
	srv.engine.ProcessLeave(c.Request().Context(), evt)
	return c.NoContent(http.StatusNoContent)
}

// rewardRequest covers the ingest endpoints that only grant XP.
type rewardRequest struct {
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (srv *Server) handleReaction(c echo.Context) error {
	return srv.handleReward(c, srv.engine.RewardReaction)
}

func (srv *Server) handleInvite(c echo.Context) error {
	return srv.handleReward(c, srv.engine.RewardInvite)
}

func (srv *Server) handleSupport(c echo.Context) error {
	return srv.handleReward(c, srv.engine.RewardSupport)
}

func (srv *Server) handleReward(c echo.Context, reward func(context.Context, int64, int64, time.Time) *progression.LevelUp) error {
	var req rewardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reward event")
	}
	if req.UserID == 0 || req.ChatID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and chat_id are required")
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}
	lu := reward(c.Request().Context(), req.UserID, req.ChatID, req.Timestamp)
	return c.JSON(http.StatusOK, map[string]any{"level_up": lu})
}

func (srv *Server) handleGetChatSettings(c echo.Context) error {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat ID")
	}
	return c.JSON(http.StatusOK, srv.engine.Settings.ForChat(chatID))
}

func (srv *Server) handlePutChatSettings(c echo.Context) error {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat ID")
	}
	var cs guardmod.ChatSettings
	if err := c.Bind(&cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid settings")
	}
	srv.engine.Settings.Override(chatID, cs)
	return c.JSON(http.StatusOK, cs)
}

func (srv *Server) handleDeleteChatSettings(c echo.Context) error {
	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat ID")
	}
	srv.engine.Settings.Clear(chatID)
	return c.JSON(http.StatusOK, srv.engine.Settings.Default())
}

func (srv *Server) handleLeaderboard(c echo.Context) error {
	limit := intQueryParam(c, "limit", 10)
	if rows, ok := srv.leaderboard.Get(limit); ok {
		return c.JSON(http.StatusOK, rows)
	}
	rows := srv.engine.Progress.Leaderboard(limit)
	srv.leaderboard.Add(limit, rows)
	return c.JSON(http.StatusOK, rows)
}

func (srv *Server) handleUserStats(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	return c.JSON(http.StatusOK, srv.engine.Progress.Stats(userID))
}

func (srv *Server) handleUserRecord(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	rec, ok := srv.engine.Strikes.Get(userID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no moderation record")
	}
	return c.JSON(http.StatusOK, rec)
}

func (srv *Server) handleRecentViolations(c echo.Context) error {
	if srv.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "audit persistence is disabled")
	}
	limit := intQueryParam(c, "limit", 50)
	since := time.Now().Add(-24 * time.Hour)
	if raw := c.QueryParam("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "since must be RFC 3339")
		}
		since = t
	}
	entries, err := srv.store.RecentViolations(c.Request().Context(), since, limit)
	if err != nil {
		return fmt.Errorf("querying violations: %w", err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (srv *Server) handleExport(c echo.Context) error {
	if srv.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "audit persistence is disabled")
	}
	switch c.QueryParam("format") {
	case "csv":
		out, err := srv.store.ExportCSV(c.Request().Context())
		if err != nil {
			return fmt.Errorf("exporting audit log: %w", err)
		}
		return c.Blob(http.StatusOK, "text/csv", out)
	case "", "json":
		out, err := srv.store.ExportJSON(c.Request().Context())
		if err != nil {
			return fmt.Errorf("exporting audit log: %w", err)
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, out)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "format must be json or csv")
	}
}

func intQueryParam(c echo.Context, name string, dflt int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return dflt
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return dflt
	}
	return n
}
