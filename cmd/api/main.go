// Command api is the DCI Recap admin server. It runs the poll worker and an
// HTTP surface for health, metrics, the seen record and recap previews.
//
// Usage:
//
//	recap-api
//	API_PORT=8080 POLL_INTERVAL=5m recap-api

// @title DCI Recap Admin API
// @version 2.0.0
// @description Admin surface for the recap poller: health, seen record, manual poll triggers and recap previews.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name DCI Recap
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/albapepper/dci-recap/internal/api"
	"github.com/albapepper/dci-recap/internal/cache"
	"github.com/albapepper/dci-recap/internal/config"
	"github.com/albapepper/dci-recap/internal/metrics"
	"github.com/albapepper/dci-recap/internal/poll"
	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
	"github.com/albapepper/dci-recap/internal/publish"
	"github.com/albapepper/dci-recap/internal/seen"

	_ "github.com/albapepper/dci-recap/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Open the seen store
	store, err := seen.Open(ctx, cfg, logger.With("component", "seen"))
	if err != nil {
		return fmt.Errorf("open seen store: %w", err)
	}
	defer store.Close()

	publisher, err := publish.New(cfg, logger.With("component", "publish"))
	if err != nil {
		return err
	}

	m := metrics.New(metrics.WithRuntimeCollectors())

	fetcher := competitionsuite.NewClient(cfg.UpstreamBaseURL, cfg.UserAgent, cfg.UpstreamRequestsPerMinute,
		logger.With("component", "competitionsuite"))
	cycle := poll.NewCycle(fetcher, store, publisher, poll.OptionsFromConfig(cfg),
		logger.With("component", "poll"), m)
	runner := poll.NewRunner(cycle)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Create router
	router := api.NewRouter(cfg, store, runner, appCache, m, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // POST /poll waits for a full cycle
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting DCI Recap admin API",
			"addr", addr,
			"environment", cfg.Environment,
			"participant", cfg.TargetParticipant,
			"year", cfg.Year,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		poll.StartWorker(gctx, runner, cfg.PollInterval, logger.With("component", "worker"))
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
