package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Oracle query outcomes.
const (
	OracleSupported   = "supported"
	OracleUnsupported = "unsupported"
	OracleError       = "error"
)

var (
	oracleQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mkvcaps_oracle_queries_total",
		Help: "Total number of capability oracle queries by backend, decoder MIME type and outcome",
	}, []string{"backend", "mime_type", "outcome"})

	oracleQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mkvcaps_oracle_query_duration_seconds",
		Help:    "Capability oracle query latency in seconds",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"backend"})

	decoderProbeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mkvcaps_decoder_probe_total",
		Help: "Total number of ffmpeg decoder probes by result",
	}, []string{"result"})

	decodersDetected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mkvcaps_decoder_families_detected",
		Help: "Number of decoder MIME types detected by the last successful ffmpeg probe",
	})
)

// RecordOracleQuery records one oracle answer and its latency.
func RecordOracleQuery(backend, mimeType, outcome string, d time.Duration) {
	backend = normalizeBackendLabel(backend)
	oracleQueriesTotal.WithLabelValues(backend, normalizeMIMELabel(mimeType), normalizeOutcomeLabel(outcome)).Inc()
	oracleQueryDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// RecordDecoderProbe records the result of an ffmpeg decoder probe.
func RecordDecoderProbe(ok bool, families int) {
	if !ok {
		decoderProbeTotal.WithLabelValues("failure").Inc()
		return
	}
	decoderProbeTotal.WithLabelValues("success").Inc()
	decodersDetected.Set(float64(families))
}

func normalizeBackendLabel(backend string) string {
	switch b := strings.ToLower(strings.TrimSpace(backend)); b {
	case "static", "ffmpeg":
		return b
	default:
		return "other"
	}
}

func normalizeMIMELabel(mimeType string) string {
	switch m := strings.ToLower(strings.TrimSpace(mimeType)); m {
	case "audio/opus", "audio/vorbis", "audio/mp4a-latm", "video/vp8", "video/vp9", "video/avc", "video/hevc", "video/av1":
		return m
	default:
		return "other"
	}
}

func normalizeOutcomeLabel(outcome string) string {
	switch o := strings.ToLower(strings.TrimSpace(outcome)); o {
	case OracleSupported, OracleUnsupported, OracleError:
		return o
	default:
		return "unknown"
	}
}
