// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mkvcaps/internal/capability"
	"github.com/ManuGH/mkvcaps/internal/health"
	"github.com/ManuGH/mkvcaps/internal/support"
	"github.com/ManuGH/mkvcaps/internal/track"
)

func newTestServer(t *testing.T, oracle capability.Oracle, opts ...Option) http.Handler {
	t.Helper()
	r := support.NewResolver(oracle, support.DefaultFeatures)
	return New(Config{ListenAddr: "127.0.0.1:0", Version: "test"}, r, opts...).Handler()
}

func staticOracle(mimes ...string) capability.Oracle {
	rules := make([]capability.Rule, 0, len(mimes))
	for _, m := range mimes {
		rules = append(rules, capability.Rule{MIMEType: m})
	}
	return capability.NewStatic(rules)
}

func get(t *testing.T, h http.Handler, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if query != nil {
		target += "?" + query.Encode()
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestCanPlay(t *testing.T) {
	h := newTestServer(t, staticOracle(track.MIMEOpus, track.MIMEVP9))

	tests := []struct {
		name      string
		typ       string
		supported bool
		canPlay   string
		reason    support.Reason
		tracks    int
	}{
		{"vp9 and opus", `video/x-matroska; codecs="vp09.00.10.08, opus"`, true, "probably", support.ReasonAllTracksSupported, 2},
		{"no codecs", "video/x-matroska", true, "maybe", support.ReasonBaselineGuaranteed, 0},
		{"hevc unsupported", `video/x-matroska; codecs="hev1.1.6.L93.B0"`, false, "", support.ReasonUnsupportedCodec, 1},
		{"video under audio", `audio/x-matroska; codecs="avc1"`, false, "", support.ReasonUnknownCodec, 0},
		{"not matroska", "text/plain", false, "", support.ReasonInvalidContainerType, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h, "/api/v1/canplay", url.Values{"type": {tt.typ}})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			resp := decode[CanPlayResponse](t, w)
			assert.Equal(t, tt.supported, resp.Supported)
			assert.Equal(t, tt.canPlay, resp.CanPlay)
			assert.Equal(t, string(tt.reason), resp.Reason)
			assert.Len(t, resp.Tracks, tt.tracks)
		})
	}
}

func TestCanPlay_ReportsRejectedAndUnknown(t *testing.T) {
	h := newTestServer(t, staticOracle(track.MIMEOpus))

	w := get(t, h, "/api/v1/canplay", url.Values{"type": {"video/mkv"}, "codecs": {"opus,vp8"}})
	resp := decode[CanPlayResponse](t, w)
	require.NotNil(t, resp.Rejected)
	assert.Equal(t, track.MIMEVP8, resp.Rejected.MIMEType)
	assert.Equal(t, `video/mkv; codecs="opus,vp8"`, resp.Type)

	w = get(t, h, "/api/v1/canplay", url.Values{"type": {`video/mkv; codecs="opus, flac, theora"`}})
	resp = decode[CanPlayResponse](t, w)
	assert.Equal(t, []string{"flac", "theora"}, resp.UnknownCodecs)
}

func TestCanPlay_BadType(t *testing.T) {
	h := newTestServer(t, staticOracle())

	for _, q := range []url.Values{nil, {"type": {""}}, {"type": {"video/"}}} {
		w := get(t, h, "/api/v1/canplay", q)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[errorResponse](t, w)
		assert.Equal(t, "invalid_type", body.Error)
		assert.NotEmpty(t, body.RequestID)
	}
}

func TestCanPlay_OracleUnavailable(t *testing.T) {
	failing := capability.OracleFunc(func(context.Context, track.Info) (bool, error) {
		return false, capability.ErrUnavailable
	})
	h := newTestServer(t, failing)

	w := get(t, h, "/api/v1/canplay", url.Values{"type": {`video/x-matroska; codecs="vp9"`}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "oracle_unavailable", decode[errorResponse](t, w).Error)

	// The baseline answer never needs the oracle.
	w = get(t, h, "/api/v1/canplay", url.Values{"type": {"video/x-matroska"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTracks(t *testing.T) {
	h := newTestServer(t, staticOracle())

	w := get(t, h, "/api/v1/tracks", url.Values{"type": {`video/x-matroska; codecs="vp09.00.10.08, opus, bogus"; width=1920`}})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[TracksResponse](t, w)

	require.Len(t, resp.Tracks, 2)
	vp9 := resp.Tracks[0]
	assert.Equal(t, track.MIMEVP9, vp9.MIMEType)
	require.NotNil(t, vp9.Video)
	assert.Equal(t, 10, vp9.Video.Level)
	assert.Equal(t, 8, vp9.Video.BitDepth)
	assert.Equal(t, 1920, vp9.Video.Width)
	assert.Equal(t, track.MIMEOpus, resp.Tracks[1].MIMEType)
	assert.Equal(t, []string{"bogus"}, resp.UnknownCodecs)
	assert.NotEmpty(t, resp.Error)

	w = get(t, h, "/api/v1/tracks", url.Values{"type": {"text/plain"}})
	resp = decode[TracksResponse](t, w)
	assert.Empty(t, resp.Tracks)
	assert.NotNil(t, resp.Tracks, "tracks must encode as []")
	assert.Contains(t, resp.Error, "invalid container type")
}

type fakeDecoders struct {
	decoders []capability.Decoder
	err      error
}

func (f fakeDecoders) Decoders(context.Context) ([]capability.Decoder, error) {
	return f.decoders, f.err
}

func TestDecoders(t *testing.T) {
	h := newTestServer(t, staticOracle())
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/decoders", nil).Code)

	src := fakeDecoders{decoders: []capability.Decoder{
		{Name: "libdav1d", Codec: "av1", Kind: 'V'},
		{Name: "h264", Codec: "h264", Kind: 'V'},
		{Name: "h264_cuvid", Codec: "h264", Kind: 'V'},
		{Name: "vorbis", Codec: "vorbis", Kind: 'A', Experimental: true},
		{Name: "ass", Codec: "ass", Kind: 'S'},
	}}
	h = newTestServer(t, staticOracle(), WithDecoders(src))
	w := get(t, h, "/api/v1/decoders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[DecodersResponse](t, w)
	assert.Equal(t, map[string][]string{
		track.MIMEAV1: {"libdav1d"},
		track.MIMEAVC: {"h264", "h264_cuvid"},
	}, resp.MIMETypes)

	h = newTestServer(t, staticOracle(), WithDecoders(fakeDecoders{err: errors.New("no ffmpeg")}))
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/v1/decoders", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/readyz", nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, staticOracle(track.MIMEOpus))

	w := get(t, h, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hr := decode[health.HealthResponse](t, w)
	assert.Equal(t, health.StatusHealthy, hr.Status)
	assert.Equal(t, "test", hr.Version)

	w = get(t, h, "/readyz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[health.ReadinessResponse](t, w).Ready)

	_ = get(t, h, "/api/v1/canplay", url.Values{"type": {`audio/x-matroska; codecs="opus"`}})
	w = get(t, h, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mkvcaps_support_decision_total")
	assert.Contains(t, w.Body.String(), "mkvcaps_http_request_duration_seconds")
}

// decisionCount sums mkvcaps_support_decision_total for one surface and
// container type across the other labels.
func decisionCount(t *testing.T, surface, containerType string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != "mkvcaps_support_decision_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["surface"] == surface && labels["container_type"] == containerType {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestCanPlay_RecordsHTTPSurface(t *testing.T) {
	h := newTestServer(t, staticOracle(track.MIMEOpus))

	httpBefore := decisionCount(t, "http", "audio/mkv")
	unknownBefore := decisionCount(t, "unknown", "audio/mkv")

	w := get(t, h, "/api/v1/canplay", url.Values{"type": {`audio/mkv; codecs="opus"`}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, httpBefore+1, decisionCount(t, "http", "audio/mkv"))
	assert.Equal(t, unknownBefore, decisionCount(t, "unknown", "audio/mkv"))
}
