// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package matroska

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidContainerType classifies a declared type that is not a
	// registered Matroska MIME type. No codec was looked at.
	ErrInvalidContainerType = errors.New("invalid container type")

	// ErrUnknownCodec classifies a codec token that matched no rule.
	// Recognized sibling tokens are still classified.
	ErrUnknownCodec = errors.New("unknown codec")
)

// ClassifyError carries the offending input of a failed classification.
// Use errors.Is against the sentinels above rather than inspecting Kind.
type ClassifyError struct {
	Kind error
	// Input is the rejected container type, or the first unknown codec.
	Input string
	// Unknown lists every unrecognized codec token in input order.
	Unknown []string
}

func (e *ClassifyError) Error() string {
	if len(e.Unknown) > 1 {
		return fmt.Sprintf("%v: %s (all unknown: %s)", e.Kind, e.Input, strings.Join(e.Unknown, ", "))
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Input)
}

func (e *ClassifyError) Unwrap() error {
	return e.Kind
}
