// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ManuGH/mkvcaps/internal/capability"
)

// DecoderLister lists the decoders of a probing capability backend.
type DecoderLister interface {
	Decoders(ctx context.Context) ([]capability.Decoder, error)
}

// DecoderChecker reports whether the probed backend found any decoder for
// a Matroska track MIME type.
type DecoderChecker struct {
	lister DecoderLister
}

func NewDecoderChecker(lister DecoderLister) *DecoderChecker {
	return &DecoderChecker{lister: lister}
}

func (c *DecoderChecker) Name() string { return "decoders" }

func (c *DecoderChecker) Check(ctx context.Context) CheckResult {
	decoders, err := c.lister.Decoders(ctx)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}

	seen := map[string]bool{}
	for _, d := range decoders {
		if m := d.MIMEType(); m != "" && !d.Experimental {
			seen[m] = true
		}
	}
	if len(seen) == 0 {
		return CheckResult{Status: StatusDegraded, Message: "no decoder for any Matroska track type"}
	}
	mimes := make([]string, 0, len(seen))
	for m := range seen {
		mimes = append(mimes, m)
	}
	sort.Strings(mimes)
	return CheckResult{Status: StatusHealthy, Message: strings.Join(mimes, ",")}
}

// FeatureSource reports the live container feature flags.
type FeatureSource interface {
	MatroskaEnabled() bool
	AV1Enabled() bool
}

// FeatureChecker reports a disabled Matroska container as degraded: the
// server is up but every query will be answered "not supported".
type FeatureChecker struct {
	features FeatureSource
}

func NewFeatureChecker(features FeatureSource) *FeatureChecker {
	return &FeatureChecker{features: features}
}

func (c *FeatureChecker) Name() string { return "features" }

func (c *FeatureChecker) Check(_ context.Context) CheckResult {
	msg := fmt.Sprintf("matroska=%t av1=%t", c.features.MatroskaEnabled(), c.features.AV1Enabled())
	if !c.features.MatroskaEnabled() {
		return CheckResult{Status: StatusDegraded, Message: msg}
	}
	return CheckResult{Status: StatusHealthy, Message: msg}
}
