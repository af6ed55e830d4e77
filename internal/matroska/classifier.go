// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package matroska classifies the codecs declared for a Matroska container
// type into the elementary tracks they would decode into.
package matroska

import (
	"github.com/ManuGH/mkvcaps/internal/mediatype"
	"github.com/ManuGH/mkvcaps/internal/track"
)

// Registered Matroska container MIME types.
const (
	TypeVideoXMatroska = "video/x-matroska"
	TypeVideoMKV       = "video/mkv"
	TypeAudioXMatroska = "audio/x-matroska"
	TypeAudioMKV       = "audio/mkv"
)

var registeredTypes = map[string]bool{
	TypeVideoXMatroska: true,
	TypeVideoMKV:       true,
	TypeAudioXMatroska: true,
	TypeAudioMKV:       true,
}

// IsRegisteredType reports whether typ is one of the Matroska MIME types.
func IsRegisteredType(typ string) bool {
	return registeredTypes[typ]
}

// Classifier maps container codec lists to track descriptors. It holds no
// per-call state and is safe for concurrent use.
type Classifier struct {
	av1 func() bool
}

type Option func(*Classifier)

// WithAV1 injects the predicate gating AV1 recognition. It is consulted on
// every call, so a hot-reloaded flag takes effect on the next query.
func WithAV1(enabled func() bool) Option {
	return func(c *Classifier) {
		c.av1 = enabled
	}
}

// NewClassifier returns a Classifier. AV1 is disabled unless WithAV1 says otherwise.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) av1Enabled() bool {
	return c.av1 != nil && c.av1()
}

// GetTracksInfo returns one descriptor per recognized codec, in input
// order. An unregistered container type yields no tracks and a
// *ClassifyError wrapping ErrInvalidContainerType. Unknown codecs do not
// stop classification of later tokens; the recognized tracks are returned
// together with a *ClassifyError wrapping ErrUnknownCodec.
//
// An empty codec list yields no tracks and no error.
func (c *Classifier) GetTracksInfo(ct mediatype.ContainerType) ([]track.Info, error) {
	if !IsRegisteredType(ct.Type) {
		return nil, &ClassifyError{Kind: ErrInvalidContainerType, Input: ct.Type}
	}

	var (
		tracks  []track.Info
		unknown []string
	)
	isVideo := ct.IsVideo()
	for _, codec := range ct.Codecs {
		info, ok := c.classify(codec, ct, isVideo)
		if !ok {
			unknown = append(unknown, codec)
			continue
		}
		tracks = append(tracks, info)
	}

	if len(unknown) > 0 {
		return tracks, &ClassifyError{Kind: ErrUnknownCodec, Input: unknown[0], Unknown: unknown}
	}
	return tracks, nil
}

// Classify reports which rule, if any, a single codec token matches under ct.
func (c *Classifier) Classify(codec string, ct mediatype.ContainerType) (RuleName, bool) {
	isVideo := ct.IsVideo()
	for _, r := range rules {
		if !c.applies(r, isVideo) {
			continue
		}
		if _, ok := r.match(codec, ct); ok {
			return r.name, true
		}
	}
	return "", false
}

func (c *Classifier) classify(codec string, ct mediatype.ContainerType, isVideo bool) (track.Info, bool) {
	for _, r := range rules {
		if !c.applies(r, isVideo) {
			continue
		}
		if info, ok := r.match(codec, ct); ok {
			return info, true
		}
	}
	return track.Info{}, false
}

func (c *Classifier) applies(r rule, isVideo bool) bool {
	if r.videoOnly && !isVideo {
		return false
	}
	return r.gate == nil || r.gate(c)
}
