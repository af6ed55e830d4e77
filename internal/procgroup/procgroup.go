// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package procgroup runs child processes in their own process group so a
// cancelled probe takes its helpers down with it.
package procgroup

import (
	"context"
	"os/exec"
	"time"
)

// waitDelay bounds how long Output waits for pipes after the group is killed.
const waitDelay = 2 * time.Second

// CommandContext returns a command that starts in a new process group and
// kills the whole group when ctx is done.
func CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	// #nosec G204 -- callers pass trusted binaries from config
	cmd := exec.CommandContext(ctx, name, args...)
	Set(cmd)
	cmd.Cancel = func() error { return Kill(cmd) }
	cmd.WaitDelay = waitDelay
	return cmd
}
