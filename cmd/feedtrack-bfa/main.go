package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/access"
	"github.com/equipe-feedtrack/feedtrack/internal/config"
	"github.com/equipe-feedtrack/feedtrack/internal/handler"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/cache"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/notify"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/resilience"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_url", cfg.APIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("feedback_page_size", cfg.FeedbackPageSize),
		zap.Strings("allowed_origins", cfg.AllowedOrigins),
		zap.String("expiry_schedule", cfg.ExpirySchedule),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "feedtrack-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("feedtrack-api")

	// --- Backend client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	backend := feedtrackapi.NewClient(httpClient, cfg.APIURL, cfg.APIToken, cb, resilienceCfg, metrics, logger)

	// --- Notifications ---
	hub := notify.NewHub(cfg.NotificationRing, cfg.AllowedOrigins, metrics, logger)

	// --- Services ---
	catalog := service.NewCatalog(backend, hub, cfg.FeedbackPageSize, metrics, logger)

	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
	if err := catalog.WarmAll(warmCtx); err != nil {
		// Not fatal: the dashboard shows the failed collections and can reload.
		logger.Warn("initial load incomplete", zap.Error(err))
	}
	cancelWarm()

	creds, err := service.DefaultCredentials()
	if err != nil {
		logger.Fatal("failed to hash credentials", zap.Error(err))
	}
	revoked := cache.New[bool](time.Minute)
	defer revoked.Stop()
	authSvc := service.NewAuthService(creds, cfg.JWTSecret, cfg.JWTAccessTTL, revoked, metrics, logger)

	var sweeper *service.ExpirySweeper
	if cfg.ExpirySchedule != "" {
		sweeper, err = service.NewExpirySweeper(cfg.ExpirySchedule, catalog.Campaigns, logger)
		if err != nil {
			logger.Fatal("invalid campaign expiry schedule", zap.Error(err))
		}
		sweeper.Start()
	}

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Catalog:        catalog,
		Auth:           authSvc,
		Policy:         access.Default(),
		Hub:            hub,
		Backend:        backend,
		AllowedOrigins: cfg.AllowedOrigins,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if sweeper != nil {
		sweeper.Stop(ctx)
	}
	hub.Close()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
