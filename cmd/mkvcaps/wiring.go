// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"strings"

	"github.com/ManuGH/mkvcaps/internal/capability"
	"github.com/ManuGH/mkvcaps/internal/config"
	xglog "github.com/ManuGH/mkvcaps/internal/log"
	"github.com/ManuGH/mkvcaps/internal/support"
)

// loadConfig loads ENV > file > defaults and configures logging from it.
func loadConfig(opts *rootOptions) (*config.Loader, config.AppConfig, error) {
	path := strings.TrimSpace(opts.configPath)
	loader := config.NewLoader(path, version)
	cfg, err := loader.Load()
	if err != nil {
		return nil, config.AppConfig{}, &exitCodeError{code: exitError, err: fmt.Errorf("load config: %w", err)}
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	return loader, cfg, nil
}

// buildOracle assembles the configured capability backend. The ffmpeg
// oracle is returned separately when in use so callers can list its decoders.
func buildOracle(cfg config.OracleConfig) (capability.Oracle, *capability.FFmpeg) {
	logger := xglog.WithComponent("capability")

	var ffmpeg *capability.FFmpeg
	if cfg.Backend == config.BackendFFmpeg || cfg.Backend == config.BackendAny {
		ffmpeg = capability.NewFFmpeg(cfg.FFmpegBin, cfg.ProbeTimeout, capability.WithLogger(logger))
	}

	switch cfg.Backend {
	case config.BackendFFmpeg:
		return capability.Instrument(config.BackendFFmpeg, ffmpeg), ffmpeg
	case config.BackendAny:
		return capability.Any{
			capability.Instrument(config.BackendStatic, capability.NewStatic(cfg.StaticRules())),
			capability.Instrument(config.BackendFFmpeg, ffmpeg),
		}, ffmpeg
	default:
		return capability.Instrument(config.BackendStatic, capability.NewStatic(cfg.StaticRules())), nil
	}
}

// buildResolver wires a resolver from cfg with fixed feature flags.
func buildResolver(cfg config.AppConfig) (*support.Resolver, *capability.FFmpeg) {
	oracle, ffmpeg := buildOracle(cfg.Oracle)
	features := support.StaticFeatures{Matroska: cfg.Features.Matroska, AV1: cfg.Features.AV1}
	return support.NewResolver(oracle, features, support.WithLogger(xglog.WithComponent("support"))), ffmpeg
}
