// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package codecs recognizes RFC 6381 style codec tokens. Matching is
// case-sensitive: "avc1" matches, "AVC1" does not.
package codecs

import (
	"strings"

	"github.com/ManuGH/mkvcaps/internal/track"
)

// AudioMIMEType maps an audio-family token to its decoder MIME type.
// ok is false when the token is not an audio-family token.
func AudioMIMEType(codec string) (string, bool) {
	switch {
	case codec == "opus":
		return track.MIMEOpus, true
	case codec == "vorbis":
		return track.MIMEVorbis, true
	case isFamily(codec, "mp4a"), isFamily(codec, "aac"):
		return track.MIMEAAC, true
	}
	return "", false
}

// IsAVC matches avc1, h264 and their dotted forms.
func IsAVC(codec string) bool {
	return isFamily(codec, "avc1") || isFamily(codec, "h264")
}

// IsHEVC matches hvc1, hev1, hevc and their dotted forms.
func IsHEVC(codec string) bool {
	return isFamily(codec, "hvc1") || isFamily(codec, "hev1") || isFamily(codec, "hevc")
}

// isFamily matches the bare name or the name followed by a dotted suffix.
func isFamily(codec, name string) bool {
	return codec == name || strings.HasPrefix(codec, name+".")
}
