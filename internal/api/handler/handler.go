// Package handler provides HTTP handlers for the admin API: health, the
// seen record, manual poll triggers and recap previews.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/dci-recap/internal/api/respond"
	"github.com/albapepper/dci-recap/internal/cache"
	"github.com/albapepper/dci-recap/internal/config"
	"github.com/albapepper/dci-recap/internal/poll"
	"github.com/albapepper/dci-recap/internal/seen"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	cfg    *config.Config
	store  seen.Store
	runner *poll.Runner
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(cfg *config.Config, store seen.Store, runner *poll.Runner, c *cache.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		store:  store,
		runner: runner,
		cache:  c,
		logger: logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns service name, version, target participant and docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"name":        "DCI Recap",
		"version":     "2.0.0",
		"status":      "running",
		"docs":        "/docs",
		"participant": h.cfg.TargetParticipant,
		"year":        h.cfg.Year,
		"store":       h.cfg.StoreDriver,
		"publisher":   h.cfg.Publisher,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.Health(w, true, nil)
}

// HealthCheckStore verifies the seen store is reachable.
// @Summary Store health check
// @Description Verifies the configured seen store (csv, sqlite or postgres) is reachable.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/store [get]
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	fields := map[string]any{"store": h.cfg.StoreDriver}
	err := h.store.Ping(r.Context())
	if err != nil {
		h.logger.Warn("store health check failed", "error", err)
		fields["error"] = "Store check failed"
	}
	respond.Health(w, err == nil, fields)
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.Health(w, true, map[string]any{"cache": h.cache.Stats()})
}

// HealthCheckPoll reports the outcome of the most recent poll cycle.
// @Summary Poll health check
// @Description Returns the last cycle's summary; 503 if it failed.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/poll [get]
func (h *Handler) HealthCheckPoll(w http.ResponseWriter, r *http.Request) {
	last := h.runner.Last()
	fields := map[string]any{"last_run": nil}
	if last.Result != nil {
		fields["last_run"] = map[string]any{
			"run_id":      last.Result.RunID,
			"summary":     last.Result.Summary(),
			"finished_at": last.At.UTC().Format(time.RFC3339),
		}
	}
	if last.Err != nil {
		fields["error"] = last.Err.Error()
	}
	respond.Health(w, last.Err == nil, fields)
}
