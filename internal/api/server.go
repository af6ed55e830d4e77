// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves container support queries over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"github.com/ManuGH/mkvcaps/internal/api/middleware"
	"github.com/ManuGH/mkvcaps/internal/capability"
	"github.com/ManuGH/mkvcaps/internal/health"
	"github.com/ManuGH/mkvcaps/internal/log"
	"github.com/ManuGH/mkvcaps/internal/support"
)

// DecoderSource lists the decoders of a probing backend.
type DecoderSource interface {
	Decoders(ctx context.Context) ([]capability.Decoder, error)
}

// Config configures the HTTP server.
type Config struct {
	ListenAddr string
	// RateLimit is requests per RateWindow per client IP; 0 disables it.
	RateLimit  int
	RateWindow time.Duration
	// MaxConnections caps concurrently accepted connections; 0 means unlimited.
	MaxConnections int
	// TracingService enables otelhttp spans under this name when set.
	TracingService  string
	ShutdownTimeout time.Duration
	Version         string
}

type Option func(*Server)

// WithDecoders exposes the decoder inventory at /api/v1/decoders and
// adds it to the readiness checks.
func WithDecoders(d DecoderSource) Option {
	return func(s *Server) { s.decoders = d }
}

// WithReadinessCheck adds a component check to /readyz.
func WithReadinessCheck(c health.Checker) Option {
	return func(s *Server) { s.health.RegisterChecker(c) }
}

// Server is the mkvcaps HTTP API.
type Server struct {
	cfg      Config
	resolver *support.Resolver
	decoders DecoderSource
	health   *health.Manager
	logger   zerolog.Logger

	mu      sync.Mutex
	httpSrv *http.Server
	ln      net.Listener
	served  chan error
}

// New creates a server. It does not listen until Start.
func New(cfg Config, resolver *support.Resolver, opts ...Option) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		health:   health.NewManager(cfg.Version),
		logger:   log.WithComponent("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.decoders != nil {
		s.health.RegisterChecker(health.NewDecoderChecker(s.decoders))
	}
	return s
}

// Handler returns the configured HTTP handler with all routes and middleware applied.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:  true,
		EnableLogging:  true,
		TracingService: s.cfg.TracingService,
		RateLimit:      s.cfg.RateLimit,
		RateWindow:     s.cfg.RateWindow,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/canplay", s.handleCanPlay)
		r.Get("/tracks", s.handleTracks)
		r.Get("/decoders", s.handleDecoders)
	})
	return r
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpSrv != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	served := make(chan error, 1)
	s.httpSrv, s.ln, s.served = srv, ln, served

	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		served <- err
		close(served)
	}()

	s.logger.Info().
		Str(log.FieldEvent, "api.listening").
		Str(log.FieldListenAddr, ln.Addr().String()).
		Msg("http server listening")
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Shutdown gracefully stops the server and waits for Serve to return.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv, served := s.httpSrv, s.served
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.logger.Info().Str(log.FieldEvent, "api.shutdown").Msg("shutting down http server")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-served
}

// Run starts the server and blocks until ctx is cancelled or serving
// fails, then shuts down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	s.mu.Lock()
	served := s.served
	s.mu.Unlock()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
