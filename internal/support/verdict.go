// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package support

import (
	"github.com/ManuGH/mkvcaps/internal/track"
)

type Reason string

const (
	ReasonFeatureDisabled      Reason = "feature_disabled"
	ReasonInvalidContainerType Reason = "invalid_container_type"
	ReasonUnknownCodec         Reason = "unknown_codec"
	ReasonUnsupportedCodec     Reason = "unsupported_codec"
	ReasonBaselineGuaranteed   Reason = "baseline_guaranteed"
	ReasonAllTracksSupported   Reason = "all_tracks_supported"
)

// Verdict is the outcome of one support query.
type Verdict struct {
	Supported bool
	Reason    Reason
	// Tracks is the classifier output. It is set even when a codec was
	// unknown, holding the tracks that were recognized.
	Tracks []track.Info
	// Rejected is the first track the oracle declined.
	Rejected *track.Info
	// ClassifyErr is the classification failure, if any.
	ClassifyErr error
}

// VerdictSummary is the flattened form of a Verdict used in logs and CLI output.
type VerdictSummary struct {
	Supported  bool     `json:"supported"`
	Reason     string   `json:"reason"`
	TrackCount int      `json:"trackCount"`
	MIMETypes  []string `json:"mimeTypes"`
	Rejected   string   `json:"rejected"`
}

func (v Verdict) Summary() VerdictSummary {
	mimes := make([]string, 0, len(v.Tracks))
	for _, t := range v.Tracks {
		mimes = append(mimes, t.MIMEType)
	}
	rejected := "none"
	if v.Rejected != nil {
		rejected = v.Rejected.MIMEType
	}
	reason := string(v.Reason)
	if reason == "" {
		reason = "unknown"
	}
	return VerdictSummary{
		Supported:  v.Supported,
		Reason:     reason,
		TrackCount: len(v.Tracks),
		MIMETypes:  mimes,
		Rejected:   rejected,
	}
}
