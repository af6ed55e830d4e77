// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package support

// Features is the read-only feature configuration consulted on every
// query. Implementations must be safe for concurrent reads.
type Features interface {
	// MatroskaEnabled gates the container format as a whole.
	MatroskaEnabled() bool
	// AV1Enabled gates recognition of AV1 codec tokens.
	AV1Enabled() bool
}

// StaticFeatures is a fixed Features value.
type StaticFeatures struct {
	Matroska bool
	AV1      bool
}

func (f StaticFeatures) MatroskaEnabled() bool { return f.Matroska }
func (f StaticFeatures) AV1Enabled() bool      { return f.AV1 }

// DefaultFeatures enables the container with AV1 recognition on.
var DefaultFeatures = StaticFeatures{Matroska: true, AV1: true}
