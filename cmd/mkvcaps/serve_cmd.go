// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/mkvcaps/internal/api"
	"github.com/ManuGH/mkvcaps/internal/config"
	"github.com/ManuGH/mkvcaps/internal/health"
	xglog "github.com/ManuGH/mkvcaps/internal/log"
	"github.com/ManuGH/mkvcaps/internal/support"
	"github.com/ManuGH/mkvcaps/internal/telemetry"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve support queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.ListenAddr = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, loader, cfg)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, loader *config.Loader, cfg config.AppConfig) error {
	logger := xglog.WithComponent("daemon")

	if loader.Path() != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str(xglog.FieldPath, loader.Path()).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Str("event", "telemetry.shutdown_failed").Msg("telemetry shutdown failed")
		}
	}()

	// Feature flags are read through the holder so reloads apply to the next query.
	holder := config.NewHolder(cfg, loader)
	if err := holder.StartWatcher(ctx); err != nil {
		logger.Warn().Err(err).Str("event", "config.watcher_failed").Msg("config hot reload disabled")
	}
	defer holder.Stop()

	reloads := make(chan config.AppConfig, 1)
	holder.RegisterListener(reloads)
	go applyReloads(ctx, reloads)

	oracle, ffmpeg := buildOracle(cfg.Oracle)
	resolver := support.NewResolver(oracle, holder, support.WithLogger(xglog.WithComponent("support")))

	serverOpts := []api.Option{
		api.WithReadinessCheck(health.NewFeatureChecker(holder)),
		api.WithReadinessCheck(health.NewFileChecker("config", loader.Path())),
	}
	if ffmpeg != nil {
		serverOpts = append(serverOpts, api.WithDecoders(ffmpeg))
	}
	tracingService := ""
	if cfg.Telemetry.Enabled {
		tracingService = cfg.LogService
	}
	srv := api.New(api.Config{
		ListenAddr:      cfg.Server.ListenAddr,
		RateLimit:       cfg.Server.RateLimit,
		RateWindow:      cfg.Server.RateWindow,
		MaxConnections:  cfg.Server.MaxConnections,
		TracingService:  tracingService,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Version:         cfg.Version,
	}, resolver, serverOpts...)

	logger.Info().
		Str("event", "daemon.start").
		Str("backend", cfg.Oracle.Backend).
		Bool("matroska", cfg.Features.Matroska).
		Bool("av1", cfg.Features.AV1).
		Msg("starting mkvcaps")
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info().Str("event", "daemon.stopped").Msg("mkvcaps stopped")
	return nil
}

// applyReloads re-applies the log settings from reloaded configs.
func applyReloads(ctx context.Context, reloads <-chan config.AppConfig) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-reloads:
			xglog.Configure(xglog.Config{
				Level:   cfg.LogLevel,
				Service: cfg.LogService,
				Version: cfg.Version,
			})
		}
	}
}
