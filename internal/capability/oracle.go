// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package capability answers whether a decoder backend can handle a track.
package capability

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuGH/mkvcaps/internal/track"
)

// ErrUnavailable marks an oracle that could not answer at all (as opposed
// to answering "unsupported"). Callers must not fold it into a false verdict.
var ErrUnavailable = errors.New("capability oracle unavailable")

// Oracle reports whether some decoder backend supports a track. A false
// answer with a nil error means "no backend claims support".
type Oracle interface {
	Supports(ctx context.Context, info track.Info) (bool, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, info track.Info) (bool, error)

func (f OracleFunc) Supports(ctx context.Context, info track.Info) (bool, error) {
	return f(ctx, info)
}

// Any combines backends: a track is supported when at least one backend
// supports it. Backends are asked in order and the first yes wins. An
// error is returned only if no backend said yes and at least one failed.
type Any []Oracle

func (a Any) Supports(ctx context.Context, info track.Info) (bool, error) {
	var errs []error
	for _, o := range a {
		ok, err := o.Supports(ctx, info)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return true, nil
		}
	}
	if len(errs) > 0 {
		return false, fmt.Errorf("%d of %d backends failed: %w", len(errs), len(a), errors.Join(errs...))
	}
	return false, nil
}
