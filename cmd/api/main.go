// Package main is the entry point for the flight-compare API server.
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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/skyhopper/flight-compare/backend/internal/cache"
	"github.com/skyhopper/flight-compare/backend/internal/config"
	"github.com/skyhopper/flight-compare/backend/internal/handler"
	"github.com/skyhopper/flight-compare/backend/internal/metrics"
	"github.com/skyhopper/flight-compare/backend/internal/middleware"
	"github.com/skyhopper/flight-compare/backend/internal/relay"
	"github.com/skyhopper/flight-compare/backend/internal/repo"
	"github.com/skyhopper/flight-compare/backend/internal/service"
	"github.com/skyhopper/flight-compare/backend/internal/state"
	"github.com/skyhopper/flight-compare/backend/internal/storefront"
	"github.com/skyhopper/flight-compare/backend/migrations"
)

// maxBodyBytes caps request bodies; the largest is the contact form.
const maxBodyBytes = 64 << 10

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	m := metrics.New()

	// --- Catalog ----------------------------------------------------------
	catalog := storefront.New(storefront.Config{
		Domain:     cfg.ShopifyDomain,
		Token:      cfg.ShopifyToken,
		APIVersion: cfg.ShopifyAPIVersion,
		Timeout:    cfg.UpstreamTimeout,
		Observer:   m,
		Logger:     logger,
	})
	if !catalog.Enabled() {
		slog.Warn("catalog credentials not set; flight search and destinations are disabled")
	}

	// --- Shared cache (optional) ------------------------------------------
	airports := service.NewAirportService(catalog, cfg.CollectionHandle, cfg.AirportCacheTTL, logger).
		WithObserver(m)
	if cfg.SharedCacheEnabled() {
		rc, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rc.Close()
		airports.WithCache(rc, cache.AirportKey(cfg.CollectionHandle))
		slog.Info("redis connection established")
	}

	// --- Contact form -----------------------------------------------------
	var formRelay service.Relay
	if cfg.ContactRelayURL != "" {
		formRelay = relay.NewFormRelay(cfg.ContactRelayURL, nil, cfg.UpstreamTimeout)
	}
	contact := service.NewContactService(formRelay, cfg.RecaptchaSiteKey, logger).WithObserver(m)
	if cfg.CaptchaVerificationEnabled() {
		contact.WithVerifier(relay.NewRecaptcha(cfg.RecaptchaSecretKey, "", nil, cfg.UpstreamTimeout))
	}

	// --- Database (optional) ----------------------------------------------
	// pgxpool manages a pool of Postgres connections. It is only opened when
	// DATABASE_URL is set, for the contact log.
	if cfg.ContactLogEnabled() {
		pool, err := openDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		contact.WithLog(repo.NewContactRepo(pool))
		slog.Info("database connection established")
	}

	// --- Services ---------------------------------------------------------
	flights := service.NewFlightService(catalog, service.EnquiryConfig{
		ContactNumber: cfg.ContactNumber,
		Host:          cfg.MessagingHost,
	}, logger)
	destinations := service.NewDestinationService(catalog, cfg.CollectionHandle, logger)
	sessions := service.NewSessionService(state.NewRegistry(cfg.SessionTTL), flights, destinations, airports, logger)

	srv := handler.NewServer(flights, destinations, airports, contact, sessions).
		WithSiteConfig(handler.SiteConfig{
			ContactNumber:  cfg.ContactNumber,
			BookingEmail:   cfg.BookingEmail,
			AppURL:         cfg.AppURL,
			CaptchaSiteKey: cfg.RecaptchaSiteKey,
			Features: handler.Features{
				Catalog:     catalog.Enabled(),
				Enquiry:     cfg.EnquiryEnabled(),
				Contact:     contact.Enabled(),
				ContactLog:  cfg.ContactLogEnabled(),
				SharedCache: cfg.SharedCacheEnabled(),
			},
		}).
		WithMetrics(m.Handler()).
		WithLogger(logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
	// Recoverer → CORS → MaxBodySize.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Write timeout leaves room for a slow catalog behind the upstream timeout.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase connects to Postgres, verifies it is reachable and applies
// the embedded migrations.
func openDatabase(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	// goose drives migrations through database/sql. The *sql.DB borrows
	// connections from the pool and is left open with it.
	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("migrations applied", "count", len(results))
	return pool, nil
}
