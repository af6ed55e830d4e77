// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package matroska

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mkvcaps/internal/mediatype"
	"github.com/ManuGH/mkvcaps/internal/track"
)

var (
	videoTypes = []string{TypeVideoXMatroska, TypeVideoMKV}
	audioTypes = []string{TypeAudioXMatroska, TypeAudioMKV}

	audioCodecs = []string{"opus", "vorbis", "mp4a", "mp4a.40.2", "aac", "aac.2"}
	videoCodecs = []string{"vp8", "vp8.0", "vp9", "vp9.0", "vp09.00.10.08", "vp08.00.10.08", "avc1", "avc1.640028", "h264", "hvc1", "hev1.1.6.L93.B0", "hevc"}
)

func av1On() bool  { return true }
func av1Off() bool { return false }

func TestGetTracksInfo_InvalidContainerType(t *testing.T) {
	t.Parallel()

	c := NewClassifier(WithAV1(av1On))
	for _, typ := range []string{"text/plain", "video/webm", "video/mp4", "application/x-matroska", ""} {
		t.Run(typ, func(t *testing.T) {
			tracks, err := c.GetTracksInfo(mediatype.New(typ, "opus"))
			assert.Empty(t, tracks)
			require.ErrorIs(t, err, ErrInvalidContainerType)

			var ce *ClassifyError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, typ, ce.Input)
		})
	}
}

func TestGetTracksInfo_EmptyCodecsIsSuccess(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	for _, typ := range append(append([]string{}, videoTypes...), audioTypes...) {
		tracks, err := c.GetTracksInfo(mediatype.New(typ))
		assert.NoError(t, err, typ)
		assert.Empty(t, tracks, typ)
	}
}

func TestGetTracksInfo_AudioCodecsUnderEveryType(t *testing.T) {
	t.Parallel()

	want := map[string]string{
		"opus":      track.MIMEOpus,
		"vorbis":    track.MIMEVorbis,
		"mp4a":      track.MIMEAAC,
		"mp4a.40.2": track.MIMEAAC,
		"aac":       track.MIMEAAC,
		"aac.2":     track.MIMEAAC,
	}
	c := NewClassifier()
	for _, typ := range append(append([]string{}, videoTypes...), audioTypes...) {
		for _, codec := range audioCodecs {
			tracks, err := c.GetTracksInfo(mediatype.New(typ, codec))
			require.NoError(t, err, "%s %s", typ, codec)
			require.Len(t, tracks, 1)
			assert.Equal(t, track.KindAudio, tracks[0].Kind)
			assert.Equal(t, want[codec], tracks[0].MIMEType)
			assert.Equal(t, codec, tracks[0].Codec)
		}
	}
}

func TestGetTracksInfo_VideoCodecsRequireVideoType(t *testing.T) {
	t.Parallel()

	c := NewClassifier(WithAV1(av1On))
	for _, codec := range append(videoCodecs, "av01", "av01.0.04M.08") {
		for _, typ := range videoTypes {
			tracks, err := c.GetTracksInfo(mediatype.New(typ, codec))
			require.NoError(t, err, "%s %s", typ, codec)
			require.Len(t, tracks, 1)
			assert.Equal(t, track.KindVideo, tracks[0].Kind)
		}
		for _, typ := range audioTypes {
			tracks, err := c.GetTracksInfo(mediatype.New(typ, codec))
			assert.ErrorIs(t, err, ErrUnknownCodec, "%s %s", typ, codec)
			assert.Empty(t, tracks)
		}
	}
}

func TestGetTracksInfo_VideoMIMETypes(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"vp8":              track.MIMEVP8,
		"vp08.00.10.08":    track.MIMEVP8,
		"vp9":              track.MIMEVP9,
		"vp09.00.10.08":    track.MIMEVP9,
		"avc1":             track.MIMEAVC,
		"h264.42E01E":      track.MIMEAVC,
		"hvc1.1.6.L120.90": track.MIMEHEVC,
		"hev1":             track.MIMEHEVC,
		"hevc":             track.MIMEHEVC,
		"av1":              track.MIMEAV1,
		"av01.0.08M.10":    track.MIMEAV1,
	}
	c := NewClassifier(WithAV1(av1On))
	for codec, want := range tests {
		tracks, err := c.GetTracksInfo(mediatype.New(TypeVideoXMatroska, codec))
		require.NoError(t, err, codec)
		require.Len(t, tracks, 1, codec)
		assert.Equal(t, want, tracks[0].MIMEType, codec)
	}
}

func TestGetTracksInfo_VP9Parameters(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	tracks, err := c.GetTracksInfo(mediatype.New(TypeVideoXMatroska, "vp09.00.10.08"))
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	v := tracks[0].Video
	require.NotNil(t, v)
	assert.Equal(t, track.MIMEVP9, tracks[0].MIMEType)
	assert.Equal(t, 0, v.Profile)
	assert.Equal(t, 10, v.Level)
	assert.Equal(t, 8, v.BitDepth)
}

func TestGetTracksInfo_AV1Gate(t *testing.T) {
	t.Parallel()

	ct := mediatype.New(TypeVideoMKV, "av01")

	on := NewClassifier(WithAV1(av1On))
	tracks, err := on.GetTracksInfo(ct)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, track.MIMEAV1, tracks[0].MIMEType)

	for name, c := range map[string]*Classifier{
		"explicitly off": NewClassifier(WithAV1(av1Off)),
		"default":        NewClassifier(),
	} {
		tracks, err := c.GetTracksInfo(ct)
		assert.ErrorIs(t, err, ErrUnknownCodec, name)
		assert.Empty(t, tracks, name)
	}
}

func TestGetTracksInfo_AV1Parameters(t *testing.T) {
	t.Parallel()

	c := NewClassifier(WithAV1(av1On))
	tracks, err := c.GetTracksInfo(mediatype.New(TypeVideoXMatroska, "av01.0.13H.10.0.110.09.16.09.0"))
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	v := tracks[0].Video
	assert.Equal(t, 0, v.Profile)
	assert.Equal(t, 13, v.Level)
	assert.Equal(t, 10, v.BitDepth)
	assert.Equal(t, track.TierHigh, v.Tier)
	require.NotNil(t, v.Color)
	assert.Equal(t, 9, v.Color.Primaries)
	assert.Equal(t, 16, v.Color.Transfer)
}

func TestGetTracksInfo_UnknownCodecKeepsSiblings(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	tracks, err := c.GetTracksInfo(mediatype.New(TypeVideoXMatroska, "xyz", "vorbis", "abc", "vp9"))
	require.ErrorIs(t, err, ErrUnknownCodec)

	var ce *ClassifyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"xyz", "abc"}, ce.Unknown)

	require.Len(t, tracks, 2)
	assert.Equal(t, track.MIMEVorbis, tracks[0].MIMEType)
	assert.Equal(t, track.MIMEVP9, tracks[1].MIMEType)
}

func TestGetTracksInfo_DuplicatesPreserved(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	tracks, err := c.GetTracksInfo(mediatype.New(TypeVideoMKV, "opus", "vp9", "opus"))
	require.NoError(t, err)

	got := make([]string, 0, len(tracks))
	for _, tr := range tracks {
		got = append(got, tr.MIMEType)
	}
	assert.Equal(t, []string{track.MIMEOpus, track.MIMEVP9, track.MIMEOpus}, got)
}

func TestGetTracksInfo_ContainerParamsCopied(t *testing.T) {
	t.Parallel()

	ct, err := mediatype.Parse(`video/x-matroska; codecs="vp9,opus"; width=1280; height=720; framerate=30; bitrate=3000000; channels=2; samplerate=48000`)
	require.NoError(t, err)

	tracks, err := NewClassifier().GetTracksInfo(ct)
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	assert.Equal(t, 1280, tracks[0].Video.Width)
	assert.Equal(t, 720, tracks[0].Video.Height)
	assert.Equal(t, 30.0, tracks[0].Video.Framerate)
	assert.Equal(t, 3000000, tracks[0].Video.Bitrate)
	assert.Nil(t, tracks[0].Audio)

	assert.Equal(t, 2, tracks[1].Audio.Channels)
	assert.Equal(t, 48000, tracks[1].Audio.Samplerate)
	assert.Nil(t, tracks[1].Video)
}

func TestGetTracksInfo_Idempotent(t *testing.T) {
	t.Parallel()

	c := NewClassifier(WithAV1(av1On))
	ct := mediatype.New(TypeVideoXMatroska, "vp09.02.10.10.01.09.16.09.01", "opus", "av01.0.04M.08", "hvc1", "mp4a.40.2")

	first, err1 := c.GetTracksInfo(ct)
	second, err2 := c.GetTracksInfo(ct)
	require.NoError(t, err1)
	require.NoError(t, err2)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("classification not idempotent (-first +second):\n%s", diff)
	}
}

func TestClassify_RuleOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []RuleName{RuleAudio, RuleVP9, RuleVP8, RuleAVC, RuleHEVC, RuleAV1}, Order())

	c := NewClassifier(WithAV1(av1On))
	video := mediatype.New(TypeVideoXMatroska)
	audio := mediatype.New(TypeAudioMKV)

	tests := []struct {
		codec string
		ct    mediatype.ContainerType
		want  RuleName
		ok    bool
	}{
		{"opus", audio, RuleAudio, true},
		{"aac", video, RuleAudio, true},
		{"vp9.0", video, RuleVP9, true},
		{"vp8", video, RuleVP8, true},
		{"h264", video, RuleAVC, true},
		{"hev1", video, RuleHEVC, true},
		{"av1", video, RuleAV1, true},
		{"av1", audio, "", false},
		{"vp9", audio, "", false},
		{"xyz", video, "", false},
	}
	for _, tt := range tests {
		got, ok := c.Classify(tt.codec, tt.ct)
		assert.Equal(t, tt.ok, ok, tt.codec)
		assert.Equal(t, tt.want, got, tt.codec)
	}
}

func TestClassifyError_Message(t *testing.T) {
	t.Parallel()

	single := &ClassifyError{Kind: ErrUnknownCodec, Input: "xyz", Unknown: []string{"xyz"}}
	assert.Equal(t, "unknown codec: xyz", single.Error())

	multi := &ClassifyError{Kind: ErrUnknownCodec, Input: "xyz", Unknown: []string{"xyz", "abc"}}
	assert.Contains(t, multi.Error(), "all unknown: xyz, abc")

	invalid := &ClassifyError{Kind: ErrInvalidContainerType, Input: "text/plain"}
	assert.Equal(t, "invalid container type: text/plain", invalid.Error())
}
