// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/mkvcaps/internal/log"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
}

// NewLoader creates a new configuration loader. An empty configPath
// means defaults and environment only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the config file path the loader reads.
func (l *Loader) Path() string { return l.configPath }

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order: defaults, strict file parse, env overrides, validation.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Default()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if unknown := UnknownEnvKeys(os.Environ(), l.ConsumedEnvKeys); len(unknown) > 0 {
		sort.Strings(unknown)
		logger := log.WithComponent("config")
		logger.Warn().
			Str("event", "config.unknown_env").
			Strs("keys", unknown).
			Msg("ignoring unknown MKVCAPS_ environment variables")
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseFileConfig(data)
}

// ParseFileConfig strictly decodes a single YAML document.
func ParseFileConfig(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrMultipleDocuments
	}
	return &fileCfg, nil
}

// LoadFileConfig loads a YAML config file without applying defaults or env overrides.
func LoadFileConfig(path string) (*FileConfig, error) {
	return NewLoader(path, "").loadFile(path)
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) error {
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.LogService != "" {
		cfg.LogService = f.LogService
	}

	if f.Features.Matroska != nil {
		cfg.Features.Matroska = *f.Features.Matroska
	}
	if f.Features.AV1 != nil {
		cfg.Features.AV1 = *f.Features.AV1
	}

	if f.Oracle.Backend != "" {
		cfg.Oracle.Backend = f.Oracle.Backend
	}
	if f.Oracle.FFmpeg.Bin != "" {
		cfg.Oracle.FFmpegBin = f.Oracle.FFmpeg.Bin
	}
	if err := mergeDuration(&cfg.Oracle.ProbeTimeout, "oracle.ffmpeg.probeTimeout", f.Oracle.FFmpeg.ProbeTimeout); err != nil {
		return err
	}
	if len(f.Oracle.Decoders) > 0 {
		cfg.Oracle.Decoders = append([]DecoderRule(nil), f.Oracle.Decoders...)
	}

	if f.Server.ListenAddr != "" {
		cfg.Server.ListenAddr = f.Server.ListenAddr
	}
	if f.Server.RateLimit != nil {
		cfg.Server.RateLimit = *f.Server.RateLimit
	}
	if f.Server.MaxConnections != nil {
		cfg.Server.MaxConnections = *f.Server.MaxConnections
	}
	if err := mergeDuration(&cfg.Server.RateWindow, "server.rateWindow", f.Server.RateWindow); err != nil {
		return err
	}
	if err := mergeDuration(&cfg.Server.ShutdownTimeout, "server.shutdownTimeout", f.Server.ShutdownTimeout); err != nil {
		return err
	}

	if f.Telemetry.Enabled != nil {
		cfg.Telemetry.Enabled = *f.Telemetry.Enabled
	}
	if f.Telemetry.Exporter != "" {
		cfg.Telemetry.Exporter = f.Telemetry.Exporter
	}
	if f.Telemetry.Endpoint != "" {
		cfg.Telemetry.Endpoint = f.Telemetry.Endpoint
	}
	if f.Telemetry.Environment != "" {
		cfg.Telemetry.Environment = f.Telemetry.Environment
	}
	if f.Telemetry.SamplingRate != nil {
		cfg.Telemetry.SamplingRate = *f.Telemetry.SamplingRate
	}
	return nil
}

func mergeDuration(dst *time.Duration, field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
	cfg.LogService = l.envString(EnvLogService, cfg.LogService)

	cfg.Features.Matroska = l.envBool(EnvFeatureMatroska, cfg.Features.Matroska)
	cfg.Features.AV1 = l.envBool(EnvFeatureAV1, cfg.Features.AV1)

	cfg.Oracle.Backend = l.envString(EnvOracleBackend, cfg.Oracle.Backend)
	cfg.Oracle.FFmpegBin = l.envString(EnvFFmpegBin, cfg.Oracle.FFmpegBin)
	cfg.Oracle.ProbeTimeout = l.envDuration(EnvFFmpegProbeTimeout, cfg.Oracle.ProbeTimeout)

	cfg.Server.ListenAddr = l.envString(EnvListenAddr, cfg.Server.ListenAddr)
	cfg.Server.RateLimit = l.envInt(EnvRateLimit, cfg.Server.RateLimit)
	cfg.Server.MaxConnections = l.envInt(EnvMaxConnections, cfg.Server.MaxConnections)
	cfg.Server.RateWindow = l.envDuration(EnvRateWindow, cfg.Server.RateWindow)
	cfg.Server.ShutdownTimeout = l.envDuration(EnvShutdownTimeout, cfg.Server.ShutdownTimeout)

	cfg.Telemetry.Enabled = l.envBool(EnvTracingEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvTracingExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvTracingEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.Environment = l.envString(EnvTracingEnvironment, cfg.Telemetry.Environment)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvTracingSamplingRate, cfg.Telemetry.SamplingRate)
}
