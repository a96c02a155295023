package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/otodrive/otodrive-web/internal/app/bootstrap"
	appconfig "github.com/otodrive/otodrive-web/internal/config"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting otodrive API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"timezone", cfg.ShopTimezone,
		"calendar_enabled", cfg.CalendarEnabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	rt, err := bootstrap.NewRuntime(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		return err
	}
	if rt.Redis != nil {
		defer rt.Redis.Close()
	}
	if rt.RateLimiter != nil {
		go rt.RateLimiter.Run(ctx)
	}

	srv := newServer(cfg, rt.Handler)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func newServer(cfg *appconfig.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
