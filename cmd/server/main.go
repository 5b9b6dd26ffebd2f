// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/edufeed/internal/api"
	"github.com/tomtom215/edufeed/internal/auth"
	"github.com/tomtom215/edufeed/internal/config"
	"github.com/tomtom215/edufeed/internal/database"
	"github.com/tomtom215/edufeed/internal/engagement"
	"github.com/tomtom215/edufeed/internal/eventbus"
	"github.com/tomtom215/edufeed/internal/history"
	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/reconcile"
	"github.com/tomtom215/edufeed/internal/supervisor"
	"github.com/tomtom215/edufeed/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(start())
}

// start opens the stores, runs the service tree and returns the exit code.
// Stores are closed by deferred calls before the code is returned.
func start() int {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("events_transport", cfg.Events.Transport).
		Msg("Starting Edufeed with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize database")
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock data seeding enabled (SEED_MOCK_DATA=true)")
		if err := db.SeedMockData(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Failed to seed mock data")
			return 1
		}
	}

	hist, err := history.Open(&cfg.History)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open history store")
		return 1
	}
	defer func() {
		if err := hist.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing history store")
		}
	}()
	logging.Info().
		Bool("in_memory", cfg.History.InMemory).
		Int("max_entries", cfg.History.MaxEntries).
		Msg("History store opened")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, db, hist); err != nil {
		logging.Error().Err(err).Msg("Edufeed stopped with error")
		return 1
	}
	logging.Info().Msg("Application stopped gracefully")
	return 0
}

// run wires every service into the supervisor tree and blocks until ctx is
// canceled or the tree gives up. It returns only after the tree has stopped.
//
//nolint:gocyclo // Sequential wiring of every component
func run(ctx context.Context, cfg *config.Config, db *database.DB, hist *history.Store) error {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// Side effects refresh rolling stats and append viewing history.
	events, err := InitEvents(cfg.Events, eventbus.NewSideEffects(db, hist))
	if err != nil {
		return err
	}
	defer func() {
		if err := events.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event pipeline")
		}
	}()
	events.AddToSupervisor(tree)

	recorder := engagement.NewRecorder(db, events.Publisher(), cfg.Engagement)

	recommender, err := initRecommend(cfg, db, hist)
	if err != nil {
		return err
	}

	if cfg.Reconcile.Enabled {
		scheduler := reconcile.NewScheduler(cfg.Reconcile, db, hist)
		tree.AddMessagingService(services.NewSchedulerService("reconcile-scheduler", scheduler))
		logging.Info().
			Str("schedule", cfg.Reconcile.Schedule).
			Float64("rate_per_second", cfg.Reconcile.RatePerSecond).
			Msg("Reconcile scheduler added to supervisor tree")
	} else {
		logging.Info().Msg("Reconcile scheduler disabled (RECONCILE_ENABLED=false)")
	}

	handler := api.NewHandler(api.Deps{
		Recorder:    recorder,
		Recommender: recommender,
		History:     hist,
		Stats:       db,
		Checks: map[string]api.HealthCheck{
			"database":        db.Ping,
			"history":         hist.Ping,
			"event_router":    events.RouterCheck,
			"event_publisher": events.PublisherCheck,
		},
		HistoryLimit:   cfg.History.MaxEntries,
		RequestTimeout: cfg.Feed.RequestTimeout,
		Version:        version,
	})

	identity, err := initIdentity(&cfg.Security)
	if err != nil {
		return err
	}

	chiMW := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(handler, identity, chiMW)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	treeErr := awaitTree(ctx, errCh)

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return treeErr
}

// awaitTree blocks until the tree has stopped. The channel returned by
// ServeBackground carries exactly one value and is never closed, so it is
// received once: on a signal after the tree finishes unwinding, otherwise
// as soon as the tree exits on its own.
func awaitTree(ctx context.Context, errCh <-chan error) error {
	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		err = <-errCh
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}

// initIdentity enables bearer-token identity when a JWT secret is set.
// Without one every request is anonymous and feeds take the user from the
// query string.
func initIdentity(cfg *config.SecurityConfig) (*auth.Middleware, error) {
	if cfg.JWTSecret == "" {
		logging.Info().Msg("JWT identity disabled (JWT_SECRET not set)")
		return api.NewIdentityMiddleware(nil), nil
	}
	jwtManager, err := auth.NewJWTManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize JWT manager: %w", err)
	}
	logging.Info().Msg("JWT identity enabled")
	return api.NewIdentityMiddleware(jwtManager), nil
}
