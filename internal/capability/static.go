// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capability

import (
	"context"

	"github.com/ManuGH/mkvcaps/internal/track"
)

// Rule declares one decoder MIME type a static backend supports. Zero
// limits mean "no limit".
type Rule struct {
	MIMEType    string
	MaxBitDepth int
	// MaxProfile is ignored when nil.
	MaxProfile  *int
	MaxWidth    int
	MaxHeight   int
	MaxChannels int
}

// Static answers from a fixed rule table. It never fails.
type Static struct {
	rules map[string]Rule
}

// NewStatic builds a Static oracle. A later rule for the same MIME type
// replaces an earlier one.
func NewStatic(rules []Rule) *Static {
	m := make(map[string]Rule, len(rules))
	for _, r := range rules {
		m[r.MIMEType] = r
	}
	return &Static{rules: m}
}

// DefaultRules is the decoder set assumed when no rules are configured.
func DefaultRules() []Rule {
	return []Rule{
		{MIMEType: track.MIMEOpus, MaxChannels: 8},
		{MIMEType: track.MIMEVorbis, MaxChannels: 8},
		{MIMEType: track.MIMEAAC, MaxChannels: 8},
		{MIMEType: track.MIMEVP8, MaxBitDepth: 8},
		{MIMEType: track.MIMEVP9, MaxBitDepth: 12},
		{MIMEType: track.MIMEAVC, MaxBitDepth: 8},
		{MIMEType: track.MIMEHEVC, MaxBitDepth: 10},
		{MIMEType: track.MIMEAV1, MaxBitDepth: 10},
	}
}

func (s *Static) Supports(_ context.Context, info track.Info) (bool, error) {
	r, ok := s.rules[info.MIMEType]
	if !ok {
		return false, nil
	}
	if v := info.Video; v != nil {
		if r.MaxBitDepth > 0 && info.BitDepth() > r.MaxBitDepth {
			return false, nil
		}
		if r.MaxProfile != nil && v.Profile > *r.MaxProfile {
			return false, nil
		}
		if r.MaxWidth > 0 && v.Width > r.MaxWidth {
			return false, nil
		}
		if r.MaxHeight > 0 && v.Height > r.MaxHeight {
			return false, nil
		}
	}
	if a := info.Audio; a != nil {
		if r.MaxChannels > 0 && a.Channels > r.MaxChannels {
			return false, nil
		}
	}
	return true, nil
}

// MIMETypes returns the configured MIME types (unordered).
func (s *Static) MIMETypes() []string {
	out := make([]string, 0, len(s.rules))
	for m := range s.rules {
		out = append(out, m)
	}
	return out
}
