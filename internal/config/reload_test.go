// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHolder_ImplementsFeatures(t *testing.T) {
	cfg := Default()
	cfg.Features.AV1 = false
	h := NewHolder(cfg, NewLoader("", ""))

	assert.True(t, h.MatroskaEnabled())
	assert.False(t, h.AV1Enabled())
}

func TestHolder_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "features:\n  av1: false\n")
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(initial, loader)
	ch := make(chan AppConfig, 1)
	h.RegisterListener(ch)
	require.False(t, h.AV1Enabled())

	writeConfig(t, dir, "features:\n  av1: true\n")
	require.NoError(t, h.Reload(context.Background()))
	assert.True(t, h.AV1Enabled())

	select {
	case got := <-ch:
		assert.True(t, got.Features.AV1)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestHolder_ReloadKeepsOldOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "features:\n  av1: false\n")
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	writeConfig(t, dir, "features:\n  av1: true\noracle:\n  backend: nope\n")
	require.Error(t, h.Reload(context.Background()))
	assert.False(t, h.AV1Enabled())

	writeConfig(t, dir, "bogus: 1\n")
	require.ErrorIs(t, h.Reload(context.Background()), ErrUnknownConfigField)
	assert.False(t, h.AV1Enabled())
}

func TestHolder_WatcherReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := writeConfig(t, dir, "features:\n  matroska: true\n")
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))
	defer h.Stop()

	writeConfig(t, dir, "features:\n  matroska: false\n")
	require.Eventually(t, func() bool { return !h.MatroskaEnabled() }, 5*time.Second, 50*time.Millisecond)

	h.Stop()
	// Let a pending debounce timer run out before the leak check.
	time.Sleep(2 * reloadDebounce)
}

func TestHolder_WatcherDisabledWithoutFile(t *testing.T) {
	h := NewHolder(Default(), NewLoader("", ""))
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()
}
