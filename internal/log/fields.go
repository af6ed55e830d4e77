// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService       = "service"
	FieldVersion       = "version"
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldTraceID       = "trace_id"
	FieldSpanID        = "span_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Media fields
	FieldContainerType = "container_type"
	FieldCodec         = "codec"
	FieldCodecs        = "codecs"
	FieldMIMEType      = "mime_type"
	FieldTrackCount    = "track_count"
	FieldReason        = "reason"
	FieldSupported     = "supported"
	FieldDecoder       = "decoder"

	// Path / network fields
	FieldPath       = "path"
	FieldListenAddr = "listen_addr"
)
