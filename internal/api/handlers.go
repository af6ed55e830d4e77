// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/ManuGH/mkvcaps/internal/log"
	"github.com/ManuGH/mkvcaps/internal/matroska"
	"github.com/ManuGH/mkvcaps/internal/mediatype"
	"github.com/ManuGH/mkvcaps/internal/metrics"
	"github.com/ManuGH/mkvcaps/internal/support"
	"github.com/ManuGH/mkvcaps/internal/track"
)

const metricsSurface = "http"

// CanPlayResponse is the body of GET /api/v1/canplay.
type CanPlayResponse struct {
	Type          string       `json:"type"`
	Supported     bool         `json:"supported"`
	CanPlay       string       `json:"canPlay"`
	Reason        string       `json:"reason"`
	Tracks        []track.Info `json:"tracks"`
	Rejected      *track.Info  `json:"rejected,omitempty"`
	UnknownCodecs []string     `json:"unknownCodecs,omitempty"`
}

// TracksResponse is the body of GET /api/v1/tracks.
type TracksResponse struct {
	Type          string       `json:"type"`
	Tracks        []track.Info `json:"tracks"`
	UnknownCodecs []string     `json:"unknownCodecs,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// DecodersResponse is the body of GET /api/v1/decoders.
type DecodersResponse struct {
	Backend   string              `json:"backend"`
	MIMETypes map[string][]string `json:"mimeTypes"`
}

// containerTypeFromRequest reads ?type= and an optional ?codecs= list
// that is appended to any codecs= parameter inside type.
func containerTypeFromRequest(r *http.Request) (mediatype.ContainerType, error) {
	q := r.URL.Query()
	ct, err := mediatype.Parse(q.Get("type"))
	if err != nil {
		return ct, err
	}
	if raw := q.Get("codecs"); raw != "" {
		ct.Codecs = append(ct.Codecs, mediatype.SplitCodecs(raw)...)
	}
	return ct, nil
}

func (s *Server) handleCanPlay(w http.ResponseWriter, r *http.Request) {
	ct, err := containerTypeFromRequest(r)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	v, err := s.resolver.Resolve(r.Context(), ct)
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().Err(err).
			Str(log.FieldEvent, "api.canplay_oracle_failed").
			Str(log.FieldContainerType, ct.Type).
			Msg("capability oracle unavailable")
		writeServiceUnavailable(w, r, err)
		return
	}
	metrics.RecordSupportDecision(metricsSurface, ct.Type, v.Supported, string(v.Reason))

	writeJSON(w, http.StatusOK, CanPlayResponse{
		Type:          ct.String(),
		Supported:     v.Supported,
		CanPlay:       support.CanPlayAnswer(v, ct),
		Reason:        string(v.Reason),
		Tracks:        nonNilTracks(v.Tracks),
		Rejected:      v.Rejected,
		UnknownCodecs: unknownCodecs(v.ClassifyErr),
	})
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	ct, err := containerTypeFromRequest(r)
	if err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}

	tracks, cerr := s.resolver.Classifier().GetTracksInfo(ct)
	resp := TracksResponse{
		Type:   ct.String(),
		Tracks: nonNilTracks(tracks),
	}
	if cerr != nil {
		resp.Error = cerr.Error()
		resp.UnknownCodecs = unknownCodecs(cerr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecoders(w http.ResponseWriter, r *http.Request) {
	if s.decoders == nil {
		writeNotFound(w, r, "decoder inventory requires the ffmpeg backend")
		return
	}
	decoders, err := s.decoders.Decoders(r.Context())
	if err != nil {
		writeServiceUnavailable(w, r, err)
		return
	}
	byMIME := map[string][]string{}
	for _, d := range decoders {
		if d.Experimental {
			continue
		}
		if m := d.MIMEType(); m != "" {
			byMIME[m] = append(byMIME[m], d.Name)
		}
	}
	for _, names := range byMIME {
		sort.Strings(names)
	}
	writeJSON(w, http.StatusOK, DecodersResponse{Backend: "ffmpeg", MIMETypes: byMIME})
}

func unknownCodecs(err error) []string {
	var ce *matroska.ClassifyError
	if errors.As(err, &ce) && errors.Is(err, matroska.ErrUnknownCodec) {
		return ce.Unknown
	}
	return nil
}

func nonNilTracks(t []track.Info) []track.Info {
	if t == nil {
		return []track.Info{}
	}
	return t
}
