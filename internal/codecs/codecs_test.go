// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codecs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/mkvcaps/internal/track"
)

func TestAudioMIMEType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		codec  string
		want   string
		wantOK bool
	}{
		{"opus", track.MIMEOpus, true},
		{"vorbis", track.MIMEVorbis, true},
		{"mp4a", track.MIMEAAC, true},
		{"mp4a.40.2", track.MIMEAAC, true},
		{"aac", track.MIMEAAC, true},
		{"aac.whatever", track.MIMEAAC, true},
		{"opus.1", "", false},
		{"mp4av", "", false},
		{"aacx", "", false},
		{"Opus", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			got, ok := AudioMIMEType(tt.codec)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVideoFamilies(t *testing.T) {
	t.Parallel()

	avc := []string{"avc1", "avc1.640028", "h264", "h264.1"}
	for _, c := range avc {
		assert.True(t, IsAVC(c), c)
		assert.False(t, IsHEVC(c), c)
	}
	hevc := []string{"hvc1", "hvc1.1.6.L120.90", "hev1", "hev1.2", "hevc", "hevc.x"}
	for _, c := range hevc {
		assert.True(t, IsHEVC(c), c)
		assert.False(t, IsAVC(c), c)
	}
	for _, c := range []string{"avc3", "avc1x", "h265", "hvc", "AVC1"} {
		assert.False(t, IsAVC(c), c)
		assert.False(t, IsHEVC(c), c)
	}
}

func TestIsVP9(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		codec  string
		wantOK bool
		want   VPXDetails
	}{
		{name: "bare", codec: "vp9", wantOK: true, want: DefaultVPXDetails()},
		{name: "bare with zero", codec: "vp9.0", wantOK: true, want: DefaultVPXDetails()},
		{
			name:   "mandatory fields",
			codec:  "vp09.00.10.08",
			wantOK: true,
			want:   VPXDetails{Profile: 0, Level: 10, BitDepth: 8, ChromaSubsampling: 1, ColorPrimaries: 1, Transfer: 1, Matrix: 1},
		},
		{
			name:   "profile 2 ten bit",
			codec:  "vp09.02.41.10",
			wantOK: true,
			want:   VPXDetails{Profile: 2, Level: 41, BitDepth: 10, ChromaSubsampling: 1, ColorPrimaries: 1, Transfer: 1, Matrix: 1},
		},
		{
			name:   "all fields HDR",
			codec:  "vp09.02.10.10.01.09.16.09.01",
			wantOK: true,
			want:   VPXDetails{Profile: 2, Level: 10, BitDepth: 10, ChromaSubsampling: 1, ColorPrimaries: 9, Transfer: 16, Matrix: 9, FullRange: true},
		},
		{
			name:   "identity matrix with 444",
			codec:  "vp09.01.20.08.03.01.01.00",
			wantOK: true,
			want:   VPXDetails{Profile: 1, Level: 20, BitDepth: 8, ChromaSubsampling: 3, ColorPrimaries: 1, Transfer: 1, Matrix: 0},
		},
		{name: "too few fields", codec: "vp09.00.10", wantOK: false},
		{name: "too many fields", codec: "vp09.00.10.08.01.01.01.01.00.00", wantOK: false},
		{name: "profile out of range", codec: "vp09.04.10.08", wantOK: false},
		{name: "invalid level", codec: "vp09.00.12.08", wantOK: false},
		{name: "invalid bit depth", codec: "vp09.00.10.09", wantOK: false},
		{name: "non numeric field", codec: "vp09.00.1a.08", wantOK: false},
		{name: "reserved chroma", codec: "vp09.00.10.08.04", wantOK: false},
		{name: "reserved primaries", codec: "vp09.00.10.08.01.03", wantOK: false},
		{name: "unassigned primaries", codec: "vp09.00.10.08.01.15", wantOK: false},
		{name: "reserved transfer", codec: "vp09.00.10.08.01.01.19", wantOK: false},
		{name: "reserved matrix", codec: "vp09.00.10.08.01.01.01.03", wantOK: false},
		{name: "identity matrix without 444", codec: "vp09.00.10.08.01.01.01.00", wantOK: false},
		{name: "full range flag out of range", codec: "vp09.00.10.08.01.01.01.01.02", wantOK: false},
		{name: "vp8 four cc", codec: "vp08.00.10.08", wantOK: false},
		{name: "bare four cc", codec: "vp09", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IsVP9(tt.codec)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsVP8(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"vp8", "vp8.0", "vp08.00.10.08", "vp08.00.41.08.01"} {
		_, ok := IsVP8(c)
		assert.True(t, ok, c)
	}
	for _, c := range []string{"vp8.1", "vp08", "vp09.00.10.08", "vp9", "VP8"} {
		_, ok := IsVP8(c)
		assert.False(t, ok, c)
	}
}

func TestIsAV1(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		codec  string
		wantOK bool
		check  func(t *testing.T, d AV1Details)
	}{
		{name: "bare av1", codec: "av1", wantOK: true, check: func(t *testing.T, d AV1Details) {
			assert.Equal(t, DefaultAV1Details(), d)
		}},
		{name: "bare av01", codec: "av01", wantOK: true},
		{name: "main profile 8 bit", codec: "av01.0.04M.08", wantOK: true, check: func(t *testing.T, d AV1Details) {
			assert.Equal(t, 0, d.Profile)
			assert.Equal(t, 4, d.Level)
			assert.False(t, d.HighTier)
			assert.Equal(t, 8, d.BitDepth)
		}},
		{name: "high tier 10 bit", codec: "av01.0.13H.10", wantOK: true, check: func(t *testing.T, d AV1Details) {
			assert.True(t, d.HighTier)
			assert.Equal(t, 13, d.Level)
			assert.Equal(t, 10, d.BitDepth)
		}},
		{name: "full form HDR", codec: "av01.0.09M.10.0.110.09.16.09.0", wantOK: true, check: func(t *testing.T, d AV1Details) {
			assert.Equal(t, 9, d.ColorPrimaries)
			assert.Equal(t, 16, d.Transfer)
			assert.Equal(t, 9, d.Matrix)
			assert.False(t, d.FullRange)
			assert.True(t, d.SubsamplingX)
			assert.True(t, d.SubsamplingY)
		}},
		{name: "full form full range", codec: "av01.0.04M.08.0.112.01.01.01.1", wantOK: true, check: func(t *testing.T, d AV1Details) {
			assert.True(t, d.FullRange)
			assert.Equal(t, 2, d.ChromaSamplePosition)
		}},
		{name: "high profile 444", codec: "av01.1.08M.10.0.000.01.01.01.0", wantOK: true},
		{name: "professional 12 bit", codec: "av01.2.08M.12", wantOK: true},
		{name: "level 31", codec: "av01.0.31M.08", wantOK: true},
		{name: "profile out of range", codec: "av01.3.04M.08", wantOK: false},
		{name: "level out of range", codec: "av01.0.24M.08", wantOK: false},
		{name: "bad tier", codec: "av01.0.04X.08", wantOK: false},
		{name: "bad bit depth", codec: "av01.0.04M.09", wantOK: false},
		{name: "main profile 12 bit", codec: "av01.0.04M.12", wantOK: false},
		{name: "partial optional group", codec: "av01.0.04M.08.0", wantOK: false},
		{name: "sample position without 420", codec: "av01.1.08M.10.0.001.01.01.01.0", wantOK: false},
		{name: "high profile with 420", codec: "av01.1.08M.10.0.110.01.01.01.0", wantOK: false},
		{name: "single digit level", codec: "av01.0.4M.08", wantOK: false},
		{name: "not av1", codec: "av02.0.04M.08", wantOK: false},
		{name: "case sensitive", codec: "AV01", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IsAV1(tt.codec)
			assert.Equal(t, tt.wantOK, ok)
			if ok && tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
