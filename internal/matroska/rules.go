// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package matroska

import (
	"github.com/ManuGH/mkvcaps/internal/codecs"
	"github.com/ManuGH/mkvcaps/internal/mediatype"
	"github.com/ManuGH/mkvcaps/internal/track"
)

// RuleName identifies one classification rule.
type RuleName string

const (
	RuleAudio RuleName = "audio"
	RuleVP9   RuleName = "vp9"
	RuleVP8   RuleName = "vp8"
	RuleAVC   RuleName = "avc"
	RuleHEVC  RuleName = "hevc"
	RuleAV1   RuleName = "av1"
)

// rule is one entry of the ordered classification table. The first rule
// whose match succeeds produces the descriptor; later rules are not tried.
type rule struct {
	name RuleName
	// videoOnly rules are skipped for audio-only container types.
	videoOnly bool
	// gate reports whether the rule is enabled for this classifier.
	gate  func(c *Classifier) bool
	match func(codec string, ct mediatype.ContainerType) (track.Info, bool)
}

// rules is evaluated top to bottom: audio, then VP9, VP8, AVC, HEVC, AV1.
var rules = []rule{
	{
		name: RuleAudio,
		match: func(codec string, ct mediatype.ContainerType) (track.Info, bool) {
			mimeType, ok := codecs.AudioMIMEType(codec)
			if !ok {
				return track.Info{}, false
			}
			return track.NewAudio(mimeType, codec, ct), true
		},
	},
	{
		name:      RuleVP9,
		videoOnly: true,
		match: func(codec string, ct mediatype.ContainerType) (track.Info, bool) {
			d, ok := codecs.IsVP9(codec)
			if !ok {
				return track.Info{}, false
			}
			return vpxTrack(track.MIMEVP9, codec, ct, d), true
		},
	},
	{
		name:      RuleVP8,
		videoOnly: true,
		match: func(codec string, ct mediatype.ContainerType) (track.Info, bool) {
			d, ok := codecs.IsVP8(codec)
			if !ok {
				return track.Info{}, false
			}
			return vpxTrack(track.MIMEVP8, codec, ct, d), true
		},
	},
	{
		name:      RuleAVC,
		videoOnly: true,
		match: func(codec string, ct mediatype.ContainerType) (track.Info, bool) {
			if !codecs.IsAVC(codec) {
				return track.Info{}, false
			}
			return track.NewVideo(track.MIMEAVC, codec, ct), true
		},
	},
	{
		name:      RuleHEVC,
		videoOnly: true,
		match: func(codec string, ct mediatype.ContainerType) (track.Info, bool) {
			if !codecs.IsHEVC(codec) {
				return track.Info{}, false
			}
			return track.NewVideo(track.MIMEHEVC, codec, ct), true
		},
	},
	{
		name:      RuleAV1,
		videoOnly: true,
		gate:      func(c *Classifier) bool { return c.av1Enabled() },
		match: func(codec string, ct mediatype.ContainerType) (track.Info, bool) {
			d, ok := codecs.IsAV1(codec)
			if !ok {
				return track.Info{}, false
			}
			return av1Track(codec, ct, d), true
		},
	},
}

// Order returns the rule names in evaluation order.
func Order() []RuleName {
	out := make([]RuleName, len(rules))
	for i, r := range rules {
		out[i] = r.name
	}
	return out
}

func vpxTrack(mimeType, codec string, ct mediatype.ContainerType, d codecs.VPXDetails) track.Info {
	info := track.NewVideo(mimeType, codec, ct)
	info.Video.Profile = d.Profile
	info.Video.Level = d.Level
	info.Video.BitDepth = d.BitDepth
	info.Video.Color = &track.ColorInfo{
		Primaries:       d.ColorPrimaries,
		Transfer:        d.Transfer,
		Matrix:          d.Matrix,
		FullRange:       d.FullRange,
		ChromaSubsample: d.ChromaSubsampling,
	}
	return info
}

func av1Track(codec string, ct mediatype.ContainerType, d codecs.AV1Details) track.Info {
	info := track.NewVideo(track.MIMEAV1, codec, ct)
	v := info.Video
	v.Profile = d.Profile
	v.Level = d.Level
	v.BitDepth = d.BitDepth
	v.Tier = track.TierMain
	if d.HighTier {
		v.Tier = track.TierHigh
	}
	v.Monochrome = d.Monochrome
	v.SubsamplingX = d.SubsamplingX
	v.SubsamplingY = d.SubsamplingY
	v.ChromaSamplePosition = d.ChromaSamplePosition
	v.Color = &track.ColorInfo{
		Primaries: d.ColorPrimaries,
		Transfer:  d.Transfer,
		Matrix:    d.Matrix,
		FullRange: d.FullRange,
	}
	return info
}
