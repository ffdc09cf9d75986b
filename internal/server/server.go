package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ordersight/internal/cache"
	"ordersight/internal/clients/dql"
	"ordersight/internal/config"
	"ordersight/internal/db"
	"ordersight/internal/orchestrator"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg     *config.Config
	srv     *http.Server
	handler *Handler
	cache   *cache.Cache
	store   *db.DB
	logger  *slog.Logger
}

// New creates a new server instance. The SQLite store must already be
// migrated; store and resultCache may be nil.
func New(cfg *config.Config, store *db.DB, resultCache *cache.Cache, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	// Initialize the query engine client
	dqlClient := dql.NewClient(cfg.Query.URL, cfg.Query.Token, cfg.Query.GetTimeoutDuration(), logger)

	// Initialize orchestrator
	orch := orchestrator.New(dqlClient, resultCache, store, cfg, logger)

	// Create handler
	handler := NewHandler(cfg, orch, store, logger)

	// Create router
	router := SetupRouter(handler)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		cfg:     cfg,
		srv:     srv,
		handler: handler,
		cache:   resultCache,
		store:   store,
		logger:  logger,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Server listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its resources.
func (s *Server) Shutdown() error {
	s.logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Warn("Failed to close cache", "error", err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("Failed to close store", "error", err)
		}
	}
	return nil
}
