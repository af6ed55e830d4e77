// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "mkvcaps",
		Features: FeatureFlags{
			Matroska: true,
			AV1:      true,
		},
		Oracle: OracleConfig{
			Backend:      BackendStatic,
			FFmpegBin:    "ffmpeg",
			ProbeTimeout: 5 * time.Second,
		},
		Server: ServerConfig{
			ListenAddr:      ":8089",
			RateLimit:       120,
			MaxConnections:  256,
			RateWindow:      time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			Exporter:     ExporterGRPC,
			Endpoint:     "localhost:4317",
			Environment:  "production",
			SamplingRate: 1.0,
		},
	}
}
