// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/mkvcaps/internal/metrics"
	"github.com/ManuGH/mkvcaps/internal/telemetry"
	"github.com/ManuGH/mkvcaps/internal/track"
)

const tracerName = "github.com/ManuGH/mkvcaps/internal/capability"

type instrumented struct {
	backend string
	next    Oracle
}

// Instrument wraps an oracle so every query is counted and timed under
// the given backend label.
func Instrument(backend string, next Oracle) Oracle {
	return &instrumented{backend: backend, next: next}
}

func (i *instrumented) Supports(ctx context.Context, info track.Info) (bool, error) {
	ctx, span := telemetry.Tracer(tracerName).Start(ctx, "capability.Supports",
		trace.WithAttributes(telemetry.OracleAttributes(i.backend, info.MIMEType)...))
	defer span.End()

	start := time.Now()
	ok, err := i.next.Supports(ctx, info)
	outcome := metrics.OracleUnsupported
	switch {
	case err != nil:
		outcome = metrics.OracleError
		span.RecordError(err)
		span.SetStatus(codes.Error, "oracle query failed")
	case ok:
		outcome = metrics.OracleSupported
	}
	span.SetAttributes(attribute.String("oracle.outcome", outcome))
	metrics.RecordOracleQuery(i.backend, info.MIMEType, outcome, time.Since(start))
	return ok, err
}
