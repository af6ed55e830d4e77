// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteFile when the target exists and
// overwrite was not requested.
var ErrConfigExists = errors.New("config file already exists")

// ToFileConfig maps a resolved config back to its YAML layout.
func ToFileConfig(cfg AppConfig) FileConfig {
	matroska, av1 := cfg.Features.Matroska, cfg.Features.AV1
	rate := cfg.Server.RateLimit
	maxConns := cfg.Server.MaxConnections
	tracing := cfg.Telemetry.Enabled
	sampling := cfg.Telemetry.SamplingRate
	return FileConfig{
		Version:    "1",
		LogLevel:   cfg.LogLevel,
		LogService: cfg.LogService,
		Features: FeaturesFileConfig{
			Matroska: &matroska,
			AV1:      &av1,
		},
		Oracle: OracleFileConfig{
			Backend: cfg.Oracle.Backend,
			FFmpeg: FFmpegFileConfig{
				Bin:          cfg.Oracle.FFmpegBin,
				ProbeTimeout: cfg.Oracle.ProbeTimeout.String(),
			},
			Decoders: cfg.Oracle.Decoders,
		},
		Server: ServerFileConfig{
			ListenAddr:      cfg.Server.ListenAddr,
			RateLimit:       &rate,
			MaxConnections:  &maxConns,
			RateWindow:      cfg.Server.RateWindow.String(),
			ShutdownTimeout: cfg.Server.ShutdownTimeout.String(),
		},
		Telemetry: TelemetryFileConfig{
			Enabled:      &tracing,
			Exporter:     cfg.Telemetry.Exporter,
			Endpoint:     cfg.Telemetry.Endpoint,
			Environment:  cfg.Telemetry.Environment,
			SamplingRate: &sampling,
		},
	}
}

// WriteFile writes cfg as YAML to path atomically. The temp file is
// fsynced before the rename.
func WriteFile(path string, cfg AppConfig, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	data, err := yaml.Marshal(ToFileConfig(cfg))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write config data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace config file: %w", err)
	}
	return nil
}

// WriteDefault writes the built-in defaults to path.
func WriteDefault(path string, overwrite bool) error {
	return WriteFile(path, Default(), overwrite)
}
