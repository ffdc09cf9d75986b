// Package main provides the entry point for the ordersight dashboard backend.
package main

import (
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ordersight/internal/cache"
	"ordersight/internal/config"
	"ordersight/internal/db"
	"ordersight/internal/server"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.App.LogLevel)
	slog.SetDefault(logger)

	store, err := db.New(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		log.Fatalf("Failed to migrate store: %v", err)
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled() {
		resultCache = cache.New(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.GetTTLDuration())
		logger.Info("Result cache enabled", "addr", cfg.Cache.Addr)
	}

	srv := server.New(cfg, store, resultCache, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-stop:
		logger.Info("Received signal", "signal", sig.String())
		if err := srv.Shutdown(); err != nil {
			log.Fatalf("Shutdown error: %v", err)
		}
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
