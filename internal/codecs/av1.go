// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codecs

import (
	"strconv"
	"strings"
)

// AV1Details are the fields of an av01 codec string:
//
//	av01.<P>.<LL><T>.<DD>[.<M>.<CCC>.<cp>.<tc>.<mc>.<F>]
type AV1Details struct {
	Profile              int
	Level                int
	HighTier             bool
	BitDepth             int
	Monochrome           bool
	SubsamplingX         bool
	SubsamplingY         bool
	ChromaSamplePosition int
	ColorPrimaries       int
	Transfer             int
	Matrix               int
	FullRange            bool
}

// DefaultAV1Details is what a bare "av1"/"av01" token implies: main
// profile, 8-bit 4:2:0, BT.709 colour.
func DefaultAV1Details() AV1Details {
	return AV1Details{
		BitDepth:       8,
		SubsamplingX:   true,
		SubsamplingY:   true,
		ColorPrimaries: 1,
		Transfer:       1,
		Matrix:         1,
	}
}

// IsAV1 reports whether codec names AV1 and returns its parameters.
func IsAV1(codec string) (AV1Details, bool) {
	if codec == "av1" || codec == "av01" {
		return DefaultAV1Details(), true
	}
	if !strings.HasPrefix(codec, "av01.") {
		return AV1Details{}, false
	}
	return ParseAV1(codec)
}

// ParseAV1 decodes and validates the dotted av01 form. Profile, level/tier
// and bit depth are mandatory; the colour group is all-or-nothing.
func ParseAV1(codec string) (AV1Details, bool) {
	fields := strings.Split(codec, ".")
	if fields[0] != "av01" {
		return AV1Details{}, false
	}
	fields = fields[1:]
	if len(fields) != 3 && len(fields) != 9 {
		return AV1Details{}, false
	}

	d := DefaultAV1Details()

	profile, ok := fixedDigits(fields[0], 1)
	if !ok || profile > 2 {
		return AV1Details{}, false
	}
	d.Profile = profile

	lt := fields[1]
	if len(lt) != 3 {
		return AV1Details{}, false
	}
	level, ok := fixedDigits(lt[:2], 2)
	if !ok || (level > 23 && level != 31) {
		return AV1Details{}, false
	}
	d.Level = level
	switch lt[2] {
	case 'M':
	case 'H':
		d.HighTier = true
	default:
		return AV1Details{}, false
	}

	depth, ok := fixedDigits(fields[2], 2)
	if !ok || (depth != 8 && depth != 10 && depth != 12) {
		return AV1Details{}, false
	}
	d.BitDepth = depth

	if len(fields) == 9 {
		mono, ok := fixedDigits(fields[3], 1)
		if !ok || mono > 1 {
			return AV1Details{}, false
		}
		d.Monochrome = mono == 1

		ccc := fields[4]
		if len(ccc) != 3 {
			return AV1Details{}, false
		}
		x, okX := fixedDigits(ccc[0:1], 1)
		y, okY := fixedDigits(ccc[1:2], 1)
		pos, okP := fixedDigits(ccc[2:3], 1)
		if !okX || !okY || !okP || x > 1 || y > 1 || pos > 3 {
			return AV1Details{}, false
		}
		// sample position is only meaningful for 4:2:0
		if pos != 0 && (x != 1 || y != 1) {
			return AV1Details{}, false
		}
		d.SubsamplingX, d.SubsamplingY, d.ChromaSamplePosition = x == 1, y == 1, pos

		cp, okCP := fixedDigits(fields[5], 2)
		tc, okTC := fixedDigits(fields[6], 2)
		mc, okMC := fixedDigits(fields[7], 2)
		if !okCP || !okTC || !okMC {
			return AV1Details{}, false
		}
		if !validColorPrimaries(cp) || !validTransfer(tc) || mc == 3 || mc > 14 {
			return AV1Details{}, false
		}
		d.ColorPrimaries, d.Transfer, d.Matrix = cp, tc, mc

		full, ok := fixedDigits(fields[8], 1)
		if !ok || full > 1 {
			return AV1Details{}, false
		}
		d.FullRange = full == 1
	}

	if !validAV1Profile(d) {
		return AV1Details{}, false
	}
	return d, true
}

func validAV1Profile(d AV1Details) bool {
	switch d.Profile {
	case 0:
		if d.BitDepth == 12 {
			return false
		}
		return d.Monochrome || (d.SubsamplingX && d.SubsamplingY)
	case 1:
		if d.BitDepth == 12 || d.Monochrome {
			return false
		}
		return !d.SubsamplingX && !d.SubsamplingY
	case 2:
		if d.BitDepth == 12 {
			return true
		}
		return d.Monochrome || (d.SubsamplingX && !d.SubsamplingY)
	}
	return false
}

// fixedDigits parses s as exactly n decimal digits.
func fixedDigits(s string, n int) (int, bool) {
	if len(s) != n {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
