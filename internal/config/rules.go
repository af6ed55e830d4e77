// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "github.com/ManuGH/mkvcaps/internal/capability"

// StaticRules converts the configured decoder table for the static
// backend, falling back to the built-in table when none is configured.
func (o OracleConfig) StaticRules() []capability.Rule {
	if len(o.Decoders) == 0 {
		return capability.DefaultRules()
	}
	out := make([]capability.Rule, 0, len(o.Decoders))
	for _, d := range o.Decoders {
		r := capability.Rule{
			MIMEType:    d.MIMEType,
			MaxBitDepth: d.MaxBitDepth,
			MaxWidth:    d.MaxWidth,
			MaxHeight:   d.MaxHeight,
			MaxChannels: d.MaxChannels,
		}
		if d.MaxProfile != nil {
			p := *d.MaxProfile
			r.MaxProfile = &p
		}
		out = append(out, r)
	}
	return out
}
