// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// Container attributes
	ContainerTypeKey   = "container.type"
	ContainerCodecsKey = "container.codecs"

	// Support attributes
	SupportSupportedKey  = "support.supported"
	SupportReasonKey     = "support.reason"
	SupportTrackCountKey = "support.track_count"
	SupportRejectedKey   = "support.rejected_mime_type"

	// Oracle attributes
	OracleBackendKey  = "oracle.backend"
	OracleMIMETypeKey = "oracle.mime_type"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// ContainerAttributes describes the queried container type.
func ContainerAttributes(containerType string, codecs []string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ContainerTypeKey, containerType),
		attribute.StringSlice(ContainerCodecsKey, codecs),
	}
}

// VerdictAttributes describes a support verdict. rejected is omitted when empty.
func VerdictAttributes(supported bool, reason string, trackCount int, rejected string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Bool(SupportSupportedKey, supported),
		attribute.String(SupportReasonKey, reason),
		attribute.Int(SupportTrackCountKey, trackCount),
	}
	if rejected != "" {
		attrs = append(attrs, attribute.String(SupportRejectedKey, rejected))
	}
	return attrs
}

// OracleAttributes describes one capability oracle query.
func OracleAttributes(backend, mimeType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(OracleBackendKey, backend),
		attribute.String(OracleMIMETypeKey, mimeType),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
