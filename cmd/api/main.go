// Package main is the entry point for the GlobeTrotter API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/globetrotter/backend/internal/auth"
	"github.com/pkordes/globetrotter/backend/internal/config"
	"github.com/pkordes/globetrotter/backend/internal/handler"
	"github.com/pkordes/globetrotter/backend/internal/logging"
	"github.com/pkordes/globetrotter/backend/internal/middleware"
	"github.com/pkordes/globetrotter/backend/internal/repo"
	"github.com/pkordes/globetrotter/backend/internal/service"
	"github.com/pkordes/globetrotter/backend/internal/suggest"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger; ours is not configured yet.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run owns every resource opened after configuration. Returning instead of
// exiting lets its deferred cleanups, the store in particular, always run.
func run(cfg config.Config, logger *slog.Logger) error {
	// --- Store ------------------------------------------------------------
	// Migrations are applied while opening; the server does not start on a
	// schema it does not know.
	store, err := openStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	// --- Services ---------------------------------------------------------
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("invalid token settings: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ownership := service.WithNestedOwnership(cfg.EnforceNestedOwnership)
	tripSvc := service.NewTripService(store.Trips, ownership)
	shareSvc := service.NewShareService(store.Trips, ownership)
	authSvc := service.NewAuthService(store.Users, tokens)
	aiSvc := service.NewSuggestionService(suggest.NewClient(suggest.Config{
		APIKey:  cfg.SuggestionAPIKey,
		BaseURL: cfg.SuggestionBaseURL,
		Model:   cfg.SuggestionModel,
		Timeout: cfg.SuggestionTimeout,
	}), logger, reg)

	if cfg.SuggestionAPIKey == "" {
		slog.Warn("SUGGESTION_API_KEY not set; /ai endpoints will return default payloads")
	}
	if cfg.SeedDemoUser {
		if err := authSvc.SeedDemoUser(context.Background(), logger); err != nil {
			return fmt.Errorf("seed demo user: %w", err)
		}
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → Metrics → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMetrics(reg))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Get("/healthz", handler.NewHealthHandler(store.Ping).GetHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srvHandler := handler.NewServer(tripSvc, shareSvc, authSvc, aiSvc, logger)
	srvHandler.Routes(r, middleware.RequireAuth(tokens))

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a slow suggestion provider call.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.SuggestionTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-stop:
	}
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// openStore opens the backend named by cfg.StoreDriver.
func openStore(ctx context.Context, cfg config.Config) (*repo.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return repo.OpenPostgres(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		return repo.OpenSQLite(ctx, cfg.SQLitePath)
	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		return repo.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
