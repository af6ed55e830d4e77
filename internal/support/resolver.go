// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package support decides whether a Matroska container type, with its
// declared codecs, can be played by the available decoders.
package support

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/mkvcaps/internal/capability"
	"github.com/ManuGH/mkvcaps/internal/log"
	"github.com/ManuGH/mkvcaps/internal/matroska"
	"github.com/ManuGH/mkvcaps/internal/mediatype"
	"github.com/ManuGH/mkvcaps/internal/telemetry"
	"github.com/ManuGH/mkvcaps/internal/track"
)

const tracerName = "github.com/ManuGH/mkvcaps/internal/support"

// Browser-style canPlayType answers.
const (
	CanPlayNo       = ""
	CanPlayMaybe    = "maybe"
	CanPlayProbably = "probably"
)

type Option func(*Resolver)

func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) { r.tracer = t }
}

// Resolver combines the codec classifier with a capability oracle. It
// holds no per-query state and is safe for concurrent use.
type Resolver struct {
	classifier *matroska.Classifier
	oracle     capability.Oracle
	features   Features
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewResolver builds a resolver. A nil features value means DefaultFeatures.
func NewResolver(oracle capability.Oracle, features Features, opts ...Option) *Resolver {
	if features == nil {
		features = DefaultFeatures
	}
	r := &Resolver{
		classifier: matroska.NewClassifier(matroska.WithAV1(features.AV1Enabled)),
		oracle:     oracle,
		features:   features,
		logger:     zerolog.Nop(),
		tracer:     telemetry.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classifier exposes the classifier the resolver uses.
func (r *Resolver) Classifier() *matroska.Classifier { return r.classifier }

// Resolve computes the full verdict. The returned error is non-nil only
// when the oracle could not answer; every expected rejection is carried
// in the verdict.
func (r *Resolver) Resolve(ctx context.Context, ct mediatype.ContainerType) (Verdict, error) {
	ctx, span := r.tracer.Start(ctx, "support.Resolve",
		trace.WithAttributes(telemetry.ContainerAttributes(ct.Type, ct.Codecs)...))
	defer span.End()

	v, err := r.resolve(ctx, ct)
	rejected := ""
	if v.Rejected != nil {
		rejected = v.Rejected.MIMEType
	}
	span.SetAttributes(telemetry.VerdictAttributes(v.Supported, string(v.Reason), len(v.Tracks), rejected)...)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes("oracle_unavailable")...)
		span.SetStatus(codes.Error, "oracle unavailable")
		r.logger.Warn().Err(err).
			Str(log.FieldEvent, "support.oracle_failed").
			Str(log.FieldContainerType, ct.Type).
			Msg("capability oracle failed")
		return v, err
	}

	r.logger.Debug().
		Str(log.FieldEvent, "support.resolved").
		Str(log.FieldContainerType, ct.Type).
		Strs(log.FieldCodecs, ct.Codecs).
		Bool(log.FieldSupported, v.Supported).
		Str(log.FieldReason, string(v.Reason)).
		Msg("support resolved")
	return v, nil
}

func (r *Resolver) resolve(ctx context.Context, ct mediatype.ContainerType) (Verdict, error) {
	if !r.features.MatroskaEnabled() {
		return Verdict{Reason: ReasonFeatureDisabled}, nil
	}

	tracks, err := r.classifier.GetTracksInfo(ct)
	if err != nil {
		v := Verdict{Tracks: tracks, ClassifyErr: err, Reason: ReasonUnknownCodec}
		if errors.Is(err, matroska.ErrInvalidContainerType) {
			v.Reason = ReasonInvalidContainerType
		}
		return v, nil
	}

	if len(tracks) == 0 {
		return Verdict{Supported: true, Reason: ReasonBaselineGuaranteed, Tracks: tracks}, nil
	}

	for i := range tracks {
		ok, err := r.oracle.Supports(ctx, tracks[i])
		if err != nil {
			return Verdict{Tracks: tracks}, fmt.Errorf("query %s: %w", tracks[i].MIMEType, err)
		}
		if !ok {
			rejected := tracks[i]
			return Verdict{Reason: ReasonUnsupportedCodec, Tracks: tracks, Rejected: &rejected}, nil
		}
	}
	return Verdict{Supported: true, Reason: ReasonAllTracksSupported, Tracks: tracks}, nil
}

// IsSupported reports whether the container type can be played. Only an
// oracle failure produces an error.
func (r *Resolver) IsSupported(ctx context.Context, ct mediatype.ContainerType) (bool, error) {
	v, err := r.Resolve(ctx, ct)
	if err != nil {
		return false, err
	}
	return v.Supported, nil
}

// GetTracks returns the potential tracks of the container type without
// consulting the oracle. Classification failures yield whatever was
// recognized; their cause is dropped.
func (r *Resolver) GetTracks(ct mediatype.ContainerType) []track.Info {
	tracks, _ := r.classifier.GetTracksInfo(ct)
	return tracks
}

// CanPlayType answers like HTMLMediaElement.canPlayType: "" when not
// supported, "maybe" for a supported type with no codecs, "probably" when
// the listed codecs are all supported.
func (r *Resolver) CanPlayType(ctx context.Context, ct mediatype.ContainerType) (string, error) {
	v, err := r.Resolve(ctx, ct)
	if err != nil {
		return CanPlayNo, err
	}
	return CanPlayAnswer(v, ct), nil
}

// CanPlayAnswer maps a verdict to a canPlayType answer.
func CanPlayAnswer(v Verdict, ct mediatype.ContainerType) string {
	switch {
	case !v.Supported:
		return CanPlayNo
	case !ct.HasCodecs():
		return CanPlayMaybe
	default:
		return CanPlayProbably
	}
}
