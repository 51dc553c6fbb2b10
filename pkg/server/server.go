package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"veredito-hq/veredito/pkg/config"
	"veredito-hq/veredito/pkg/store"
	"veredito-hq/veredito/pkg/telemetry/metrics"
	"veredito-hq/veredito/pkg/verify"
)

// Options configures a Server. Verifier and Batch are required; Cache,
// Store and Metrics are optional and their endpoints degrade when nil.
type Options struct {
	Config   config.ServerConfig
	Verifier *verify.Verifier
	Batch    *verify.BatchCoordinator
	Cache    *verify.ResultCache
	Store    store.Store
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

// Server is the HTTP API for the verification engine.
type Server struct {
	config       config.ServerConfig
	httpServer   *http.Server
	handlers     *handlers
	metrics      *metrics.Collector
	logger       *slog.Logger
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a new API server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	return &Server{
		config: opts.Config,
		handlers: &handlers{
			verifier: opts.Verifier,
			batch:    opts.Batch,
			cache:    opts.Cache,
			store:    opts.Store,
			logger:   logger,
		},
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Start starts the HTTP server and blocks until the context is
// cancelled, a shutdown signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(recoveryMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	r.Post("/verify", s.handlers.handleVerify)
	r.Post("/verify/batch", s.handlers.handleVerifyBatch)
	r.Get("/process", s.handlers.handleListProcesses)
	r.Get("/process/{number}", s.handlers.handleGetProcess)
	r.Get("/analytics", s.handlers.handleAnalytics)
	r.Get("/monitoring/cache", s.handlers.handleCacheStats)
	r.Delete("/monitoring/cache", s.handlers.handleCacheClear)
	r.Get("/health", s.handlers.handleHealth)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}
