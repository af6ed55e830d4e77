// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package mediatype models a declared container type: the MIME type/subtype,
// the ordered codec tokens from its codecs= parameter, and the optional
// extra parameters a caller may attach (dimensions, framerate, bitrate,
// channel layout).
package mediatype

import (
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"
)

// ErrEmptyType is returned by Parse when no type/subtype is present.
var ErrEmptyType = errors.New("empty media type")

// Params holds the optional extra container parameters. Zero means absent.
type Params struct {
	Width      int
	Height     int
	Framerate  float64
	Bitrate    int
	Channels   int
	Samplerate int
}

// ContainerType is a declared container MIME type plus its codec list.
// Codec order and duplicates are preserved.
type ContainerType struct {
	Type   string
	Codecs []string
	Params Params
}

// New builds a ContainerType from an already split type and codec list.
func New(typ string, codecs ...string) ContainerType {
	ct := ContainerType{Type: normalizeType(typ)}
	for _, c := range codecs {
		ct.Codecs = append(ct.Codecs, strings.TrimSpace(c))
	}
	return ct
}

// Category returns the top-level MIME category ("audio", "video", ...).
func (ct ContainerType) Category() string {
	category, _, _ := strings.Cut(ct.Type, "/")
	return category
}

// IsVideo reports whether the declared category can carry video tracks.
func (ct ContainerType) IsVideo() bool {
	return ct.Category() == "video"
}

// HasCodecs reports whether an explicit codec list was declared.
func (ct ContainerType) HasCodecs() bool {
	return len(ct.Codecs) > 0
}

// String renders the container type in canonical MIME form.
func (ct ContainerType) String() string {
	if ct.Type == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(ct.Type)
	if len(ct.Codecs) > 0 {
		b.WriteString(`; codecs="`)
		b.WriteString(strings.Join(ct.Codecs, ","))
		b.WriteString(`"`)
	}
	p := ct.Params
	writeInt := func(key string, v int) {
		if v > 0 {
			fmt.Fprintf(&b, "; %s=%d", key, v)
		}
	}
	writeInt("width", p.Width)
	writeInt("height", p.Height)
	if p.Framerate > 0 {
		fmt.Fprintf(&b, "; framerate=%s", strconv.FormatFloat(p.Framerate, 'f', -1, 64))
	}
	writeInt("bitrate", p.Bitrate)
	writeInt("channels", p.Channels)
	writeInt("samplerate", p.Samplerate)
	return b.String()
}

// Parse parses a MIME string such as
//
//	video/x-matroska; codecs="vp09.00.10.08, opus"; width=1920; height=1080
//
// Type and subtype are lower-cased; codec tokens keep their case.
// Malformed numeric parameters are treated as absent.
func Parse(s string) (ContainerType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ContainerType{}, ErrEmptyType
	}
	typ, params, err := mime.ParseMediaType(s)
	if err != nil {
		return ContainerType{}, fmt.Errorf("parse media type %q: %w", s, err)
	}

	ct := ContainerType{Type: normalizeType(typ)}
	if raw, ok := params["codecs"]; ok {
		ct.Codecs = SplitCodecs(raw)
	}
	ct.Params = Params{
		Width:      parseInt(params["width"]),
		Height:     parseInt(params["height"]),
		Framerate:  parseFloat(params["framerate"]),
		Bitrate:    parseInt(params["bitrate"]),
		Channels:   parseInt(params["channels"]),
		Samplerate: parseInt(params["samplerate"]),
	}
	return ct, nil
}

// SplitCodecs splits a codecs= parameter value into trimmed tokens.
// Empty entries are dropped.
func SplitCodecs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizeType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseInt(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFloat(v string) float64 {
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
