// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// Oracle backends.
const (
	BackendStatic = "static"
	BackendFFmpeg = "ffmpeg"
	// BackendAny consults the static table first, then ffmpeg.
	BackendAny = "any"
)

// Telemetry exporters.
const (
	ExporterNoop = "noop"
	ExporterGRPC = "grpc"
	ExporterHTTP = "http"
)

// FileConfig is the on-disk YAML layout. Pointer fields distinguish
// "absent" from the zero value.
type FileConfig struct {
	Version    string              `yaml:"version,omitempty"`
	LogLevel   string              `yaml:"logLevel,omitempty"`
	LogService string              `yaml:"logService,omitempty"`
	Features   FeaturesFileConfig  `yaml:"features,omitempty"`
	Oracle     OracleFileConfig    `yaml:"oracle,omitempty"`
	Server     ServerFileConfig    `yaml:"server,omitempty"`
	Telemetry  TelemetryFileConfig `yaml:"telemetry,omitempty"`
}

type FeaturesFileConfig struct {
	Matroska *bool `yaml:"matroska,omitempty"`
	AV1      *bool `yaml:"av1,omitempty"`
}

type OracleFileConfig struct {
	Backend  string           `yaml:"backend,omitempty"`
	FFmpeg   FFmpegFileConfig `yaml:"ffmpeg,omitempty"`
	Decoders []DecoderRule    `yaml:"decoders,omitempty"`
}

type FFmpegFileConfig struct {
	Bin          string `yaml:"bin,omitempty"`
	ProbeTimeout string `yaml:"probeTimeout,omitempty"`
}

// DecoderRule declares one decoder MIME type for the static backend.
// Zero limits mean "no limit".
type DecoderRule struct {
	MIMEType    string `yaml:"mimeType"`
	MaxBitDepth int    `yaml:"maxBitDepth,omitempty"`
	MaxProfile  *int   `yaml:"maxProfile,omitempty"`
	MaxWidth    int    `yaml:"maxWidth,omitempty"`
	MaxHeight   int    `yaml:"maxHeight,omitempty"`
	MaxChannels int    `yaml:"maxChannels,omitempty"`
}

type ServerFileConfig struct {
	ListenAddr      string `yaml:"listenAddr,omitempty"`
	RateLimit       *int   `yaml:"rateLimit,omitempty"`
	MaxConnections  *int   `yaml:"maxConnections,omitempty"`
	RateWindow      string `yaml:"rateWindow,omitempty"`
	ShutdownTimeout string `yaml:"shutdownTimeout,omitempty"`
}

type TelemetryFileConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	Environment  string   `yaml:"environment,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}

// AppConfig is the resolved configuration.
type AppConfig struct {
	Version    string
	LogLevel   string
	LogService string
	Features   FeatureFlags
	Oracle     OracleConfig
	Server     ServerConfig
	Telemetry  TelemetryConfig
}

type FeatureFlags struct {
	Matroska bool
	AV1      bool
}

type OracleConfig struct {
	Backend      string
	FFmpegBin    string
	ProbeTimeout time.Duration
	// Decoders is the static rule table. Empty means the built-in defaults.
	Decoders []DecoderRule
}

type ServerConfig struct {
	ListenAddr string
	// RateLimit is requests per RateWindow per client IP; 0 disables limiting.
	RateLimit int
	// MaxConnections caps concurrently accepted connections; 0 means unlimited.
	MaxConnections  int
	RateWindow      time.Duration
	ShutdownTimeout time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	Environment  string
	SamplingRate float64
}
