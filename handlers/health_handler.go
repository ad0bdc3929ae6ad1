package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type dbPinger interface {
	PingContext(ctx context.Context) error
}

type cachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports database, Valkey and session store health.
type HealthHandler struct {
	db           dbPinger
	cache        cachePinger
	sessionStore string
	checkTimeout time.Duration
}

// NewHealthHandler accepts a nil cache when Valkey is not configured.
func NewHealthHandler(db dbPinger, cache cachePinger, sessionStore string) *HealthHandler {
	return &HealthHandler{
		db:           db,
		cache:        cache,
		sessionStore: sessionStore,
		checkTimeout: 2 * time.Second,
	}
}

type componentStatus struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// Health returns overall status and per-component results.
// @Summary Health check
// @Description Returns overall status with DB, Valkey and session store results
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overall := "ok"

	database := componentStatus{Status: "up"}
	if h.db == nil || h.db.PingContext(ctx) != nil {
		database.Status = "down"
		overall = "down"
	}

	redis := componentStatus{Status: "disabled"}
	if h.cache != nil {
		redis.Status = "up"
		if err := h.cache.Ping(ctx); err != nil {
			redis.Status = "down"
		}
	}

	// Sessions live in Valkey when that store is selected, so they share its
	// fate; the memory store is always up.
	sessions := componentStatus{Status: "up", Store: h.sessionStore}
	if h.sessionStore == "valkey" && redis.Status != "up" {
		sessions.Status = "down"
	}

	if overall == "ok" && (redis.Status == "down" || sessions.Status == "down") {
		overall = "degraded"
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    overall,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": map[string]componentStatus{
			"database": database,
			"redis":    redis,
			"sessions": sessions,
		},
	})
}
