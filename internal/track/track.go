// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package track describes the elementary stream a codec token would decode into.
package track

import "github.com/ManuGH/mkvcaps/internal/mediatype"

type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Canonical decoder MIME types.
const (
	MIMEOpus   = "audio/opus"
	MIMEVorbis = "audio/vorbis"
	MIMEAAC    = "audio/mp4a-latm"
	MIMEVP8    = "video/vp8"
	MIMEVP9    = "video/vp9"
	MIMEAVC    = "video/avc"
	MIMEHEVC   = "video/hevc"
	MIMEAV1    = "video/av1"
)

// Tier is the AV1 tier flag.
type Tier string

const (
	TierMain Tier = "M"
	TierHigh Tier = "H"
)

// ColorInfo carries the ISO/IEC 23091-2 colour description fields.
type ColorInfo struct {
	Primaries       int  `json:"primaries"`
	Transfer        int  `json:"transfer"`
	Matrix          int  `json:"matrix"`
	FullRange       bool `json:"fullRange"`
	ChromaSubsample int  `json:"chromaSubsampling"`
}

// Video holds the decoded video parameters. Profile/Level/BitDepth are only
// filled for codec families whose token carries them (VP8, VP9, AV1).
type Video struct {
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Framerate float64 `json:"framerate,omitempty"`
	Bitrate   int     `json:"bitrate,omitempty"`

	Profile  int `json:"profile"`
	Level    int `json:"level"`
	BitDepth int `json:"bitDepth,omitempty"`

	// AV1 only.
	Tier                 Tier `json:"tier,omitempty"`
	Monochrome           bool `json:"monochrome,omitempty"`
	SubsamplingX         bool `json:"subsamplingX,omitempty"`
	SubsamplingY         bool `json:"subsamplingY,omitempty"`
	ChromaSamplePosition int  `json:"chromaSamplePosition,omitempty"`

	Color *ColorInfo `json:"color,omitempty"`
}

type Audio struct {
	Channels   int `json:"channels,omitempty"`
	Samplerate int `json:"samplerate,omitempty"`
	Bitrate    int `json:"bitrate,omitempty"`
}

// Info is one potential track of a container. It is built once by the
// classifier and treated as read-only afterwards.
type Info struct {
	Kind     Kind   `json:"kind"`
	MIMEType string `json:"mimeType"`
	Codec    string `json:"codec"`
	Video    *Video `json:"video,omitempty"`
	Audio    *Audio `json:"audio,omitempty"`
}

func (i Info) IsVideo() bool { return i.Kind == KindVideo }
func (i Info) IsAudio() bool { return i.Kind == KindAudio }

// BitDepth returns the declared video bit depth, 8 when unknown, 0 for audio.
func (i Info) BitDepth() int {
	if i.Video == nil {
		return 0
	}
	if i.Video.BitDepth == 0 {
		return 8
	}
	return i.Video.BitDepth
}

// NewAudio creates an audio descriptor carrying the container's audio parameters.
func NewAudio(mimeType, codec string, ct mediatype.ContainerType) Info {
	return Info{
		Kind:     KindAudio,
		MIMEType: mimeType,
		Codec:    codec,
		Audio: &Audio{
			Channels:   ct.Params.Channels,
			Samplerate: ct.Params.Samplerate,
			Bitrate:    ct.Params.Bitrate,
		},
	}
}

// NewVideo creates a video descriptor carrying the container's video
// parameters. Codec-specific fields are filled by the caller.
func NewVideo(mimeType, codec string, ct mediatype.ContainerType) Info {
	return Info{
		Kind:     KindVideo,
		MIMEType: mimeType,
		Codec:    codec,
		Video: &Video{
			Width:     ct.Params.Width,
			Height:    ct.Params.Height,
			Framerate: ct.Params.Framerate,
			Bitrate:   ct.Params.Bitrate,
		},
	}
}
