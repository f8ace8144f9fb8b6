// Package api wires the admin HTTP router.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/dci-recap/internal/api/handler"
	"github.com/albapepper/dci-recap/internal/cache"
	"github.com/albapepper/dci-recap/internal/config"
	"github.com/albapepper/dci-recap/internal/metrics"
	"github.com/albapepper/dci-recap/internal/poll"
	"github.com/albapepper/dci-recap/internal/seen"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(cfg *config.Config, store seen.Store, runner *poll.Runner, appCache *cache.Cache, m *metrics.Metrics, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware(m))
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(cfg, store, runner, appCache, logger.With("component", "api"))

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/store", h.HealthCheckStore)
		r.Get("/cache", h.HealthCheckCache)
		r.Get("/poll", h.HealthCheckPoll)
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", m.Handler())

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Seen record
		r.Get("/seen", h.ListSeen)

		// Poll cycles
		r.Post("/poll", h.RunPoll)
		r.Get("/poll/last", h.LastPoll)

		// Upstream events
		r.Get("/events", h.ListEvents)
		r.Get("/events/{eventID}/recap", h.GetRecap)
	})

	return r
}
