// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codecs

import (
	"strconv"
	"strings"
)

// VPXDetails are the fields of a vp08/vp09 codec string:
//
//	<4CC>.<profile>.<level>.<bitDepth>[.<chroma>.<primaries>.<transfer>.<matrix>.<fullRange>]
type VPXDetails struct {
	Profile           int
	Level             int
	BitDepth          int
	ChromaSubsampling int
	ColorPrimaries    int
	Transfer          int
	Matrix            int
	FullRange         bool
}

// DefaultVPXDetails is what a bare "vp8"/"vp9" token implies.
func DefaultVPXDetails() VPXDetails {
	return VPXDetails{
		BitDepth:          8,
		ChromaSubsampling: 1,
		ColorPrimaries:    1,
		Transfer:          1,
		Matrix:            1,
	}
}

var validVPXLevels = map[int]bool{
	10: true, 11: true, 20: true, 21: true, 30: true, 31: true, 40: true,
	41: true, 50: true, 51: true, 52: true, 60: true, 61: true, 62: true,
}

// IsVP9 reports whether codec names VP9 and returns its parameters.
func IsVP9(codec string) (VPXDetails, bool) {
	return matchVPX(codec, "vp9", "vp09")
}

// IsVP8 reports whether codec names VP8 and returns its parameters.
func IsVP8(codec string) (VPXDetails, bool) {
	return matchVPX(codec, "vp8", "vp08")
}

func matchVPX(codec, short, fourCC string) (VPXDetails, bool) {
	if codec == short || codec == short+".0" {
		return DefaultVPXDetails(), true
	}
	if !strings.HasPrefix(codec, fourCC) {
		return VPXDetails{}, false
	}
	return ParseVPX(codec)
}

// ParseVPX decodes and validates the dotted vp08/vp09 form. The first three
// numeric fields are mandatory; the remaining five are optional in order.
func ParseVPX(codec string) (VPXDetails, bool) {
	fields := strings.Split(codec, ".")
	if fields[0] != "vp09" && fields[0] != "vp08" {
		return VPXDetails{}, false
	}
	fields = fields[1:]
	if len(fields) < 3 || len(fields) > 8 {
		return VPXDetails{}, false
	}

	values := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return VPXDetails{}, false
		}
		values[i] = int(n)
	}

	d := DefaultVPXDetails()
	d.Profile, d.Level, d.BitDepth = values[0], values[1], values[2]

	if d.Profile > 3 || !validVPXLevels[d.Level] {
		return VPXDetails{}, false
	}
	if d.BitDepth != 8 && d.BitDepth != 10 && d.BitDepth != 12 {
		return VPXDetails{}, false
	}
	if len(values) == 3 {
		return d, true
	}

	d.ChromaSubsampling = values[3]
	if d.ChromaSubsampling > 3 {
		return VPXDetails{}, false
	}
	if len(values) == 4 {
		return d, true
	}

	d.ColorPrimaries = values[4]
	if !validColorPrimaries(d.ColorPrimaries) {
		return VPXDetails{}, false
	}
	if len(values) == 5 {
		return d, true
	}

	d.Transfer = values[5]
	if !validTransfer(d.Transfer) {
		return VPXDetails{}, false
	}
	if len(values) == 6 {
		return d, true
	}

	d.Matrix = values[6]
	if d.Matrix == 3 || d.Matrix > 11 {
		return VPXDetails{}, false
	}
	// identity matrix (RGB) is only defined for 4:4:4
	if d.Matrix == 0 && d.ChromaSubsampling != 3 {
		return VPXDetails{}, false
	}
	if len(values) == 7 {
		return d, true
	}

	if values[7] > 1 {
		return VPXDetails{}, false
	}
	d.FullRange = values[7] == 1
	return d, true
}

// 0 and 3 are reserved, 13..21 unassigned.
func validColorPrimaries(v int) bool {
	switch {
	case v == 0 || v == 3:
		return false
	case v > 12 && v < 22:
		return false
	case v > 22:
		return false
	}
	return true
}

func validTransfer(v int) bool {
	return v != 0 && v != 3 && v <= 18
}
