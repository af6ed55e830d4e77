// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"

	"github.com/ManuGH/mkvcaps/internal/track"
	"github.com/ManuGH/mkvcaps/internal/validate"
)

var decoderMIMETypes = []string{
	track.MIMEOpus, track.MIMEVorbis, track.MIMEAAC,
	track.MIMEVP8, track.MIMEVP9, track.MIMEAVC, track.MIMEHEVC, track.MIMEAV1,
}

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
		v.AddError("LogLevel", err.Error(), cfg.LogLevel)
	}
	v.NotEmpty("LogService", cfg.LogService)

	v.OneOf("Oracle.Backend", cfg.Oracle.Backend, []string{BackendStatic, BackendFFmpeg, BackendAny})
	if cfg.Oracle.Backend == BackendFFmpeg || cfg.Oracle.Backend == BackendAny {
		v.NotEmpty("Oracle.FFmpegBin", cfg.Oracle.FFmpegBin)
		v.PositiveDuration("Oracle.ProbeTimeout", cfg.Oracle.ProbeTimeout)
	}
	for i, r := range cfg.Oracle.Decoders {
		field := fmt.Sprintf("Oracle.Decoders[%d]", i)
		v.OneOf(field+".MIMEType", r.MIMEType, decoderMIMETypes)
		if r.MaxBitDepth != 0 {
			v.OneOf(field+".MaxBitDepth", fmt.Sprint(r.MaxBitDepth), []string{"8", "10", "12"})
		}
		if r.MaxProfile != nil {
			v.Range(field+".MaxProfile", *r.MaxProfile, 0, 3)
		}
		v.NonNegative(field+".MaxWidth", r.MaxWidth)
		v.NonNegative(field+".MaxHeight", r.MaxHeight)
		v.NonNegative(field+".MaxChannels", r.MaxChannels)
	}

	v.ListenAddr("Server.ListenAddr", cfg.Server.ListenAddr)
	v.NonNegative("Server.RateLimit", cfg.Server.RateLimit)
	v.NonNegative("Server.MaxConnections", cfg.Server.MaxConnections)
	if cfg.Server.RateLimit > 0 {
		v.PositiveDuration("Server.RateWindow", cfg.Server.RateWindow)
	}
	v.PositiveDuration("Server.ShutdownTimeout", cfg.Server.ShutdownTimeout)

	if cfg.Telemetry.Enabled {
		v.OneOf("Telemetry.Exporter", cfg.Telemetry.Exporter, []string{ExporterNoop, ExporterGRPC, ExporterHTTP})
		if cfg.Telemetry.Exporter != ExporterNoop {
			v.NotEmpty("Telemetry.Endpoint", cfg.Telemetry.Endpoint)
		}
	}
	v.FloatRange("Telemetry.SamplingRate", cfg.Telemetry.SamplingRate, 0, 1)

	return v.Err()
}
