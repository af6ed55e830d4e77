package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	supportDecisionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mkvcaps_support_decision_total",
		Help: "Total number of container support decisions by verdict, reason, container type and surface",
	}, []string{"supported", "reason", "container_type", "surface"})
)

// RecordSupportDecision records one container support decision.
func RecordSupportDecision(surface, containerType string, supported bool, reason string) {
	supportDecisionTotal.WithLabelValues(
		strconv.FormatBool(supported),
		normalizeReasonLabel(reason),
		normalizeContainerTypeLabel(containerType),
		normalizeSurfaceLabel(surface),
	).Inc()
}

func normalizeReasonLabel(reason string) string {
	switch r := strings.ToLower(strings.TrimSpace(reason)); r {
	case "feature_disabled", "invalid_container_type", "unknown_codec", "unsupported_codec", "baseline_guaranteed", "all_tracks_supported":
		return r
	default:
		return "unknown"
	}
}

// Unregistered types are collapsed so arbitrary client input cannot blow up cardinality.
func normalizeContainerTypeLabel(containerType string) string {
	switch t := strings.ToLower(strings.TrimSpace(containerType)); t {
	case "video/x-matroska", "video/mkv", "audio/x-matroska", "audio/mkv":
		return t
	default:
		return "other"
	}
}

func normalizeSurfaceLabel(surface string) string {
	switch s := strings.ToLower(strings.TrimSpace(surface)); s {
	case "http", "cli":
		return s
	default:
		return "unknown"
	}
}
