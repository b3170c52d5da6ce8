// Command feedtrack-mockapi serves the FeedTrack REST contract from memory,
// seeded with demo data, so the BFA can run without the real backend.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/config"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/mockbackend"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"

	"go.uber.org/zap"
)

func main() {
	_ = config.LoadDotEnv(".env")

	port := 3000
	if v := os.Getenv("MOCKAPI_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &port)
	}
	logger := observability.NewLogger(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	store := mockbackend.NewStore()
	if os.Getenv("MOCKAPI_EMPTY") == "" {
		store = mockbackend.Seeded()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      observability.ZapLoggerMiddleware(logger)(mockbackend.NewServer(store, logger)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("mock api starting", zap.Int("port", port), zap.String("base_path", mockbackend.BasePath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("mock api failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("mock api forced shutdown", zap.Error(err))
	}
}
