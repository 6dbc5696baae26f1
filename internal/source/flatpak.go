package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
)

// Flatpak updates sandboxed applications via flatpak
type Flatpak struct {
	runner run.CommandRunner
	log    *logger.Logger
}

// NewFlatpak creates the sandboxed-apps adapter
func NewFlatpak(runner run.CommandRunner, log *logger.Logger) *Flatpak {
	return &Flatpak{runner: runner, log: log}
}

// Kind returns the source category
func (f *Flatpak) Kind() Kind { return KindSandbox }

// Name returns the display name
func (f *Flatpak) Name() string { return "Flatpak" }

// Check reports whether flatpak updates are pending by listing
// updatable refs on the configured remotes.
func (f *Flatpak) Check(ctx context.Context) (bool, error) {
	f.log.Debug("checking updates for flatpak")
	out, err := f.runner.Output(ctx, "flatpak", "remote-ls", "--updates")
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}

	if strings.TrimSpace(out) == "" {
		output.StatusLine(output.UpToDate, "Already up to date", f.Name())
		return false, nil
	}

	output.StatusLine(output.Available, "Available", f.Name())
	return true, nil
}

// Apply updates sandboxed apps when the check reports pending updates
func (f *Flatpak) Apply(ctx context.Context, opts ApplyOptions) Outcome {
	out := Outcome{Kind: KindSandbox, Name: f.Name()}

	pending, err := f.Check(ctx)
	if err != nil {
		out.Err = errors.Join(ErrCheckFailed, err)
		return out
	}
	out.Pending = pending
	if !pending {
		return out
	}

	f.log.Info("updating flatpak")
	if err := f.runner.Run(ctx, "flatpak", "update", "-y"); err != nil {
		output.PrintError("Error updating %s", f.Name())
		f.log.Error("error updating flatpak: %v", err)
		out.Err = fmt.Errorf("%w: %v", ErrApplyFailed, err)
		return out
	}

	output.StatusLine(output.Updated, "Updated", f.Name())
	out.Updated = true
	out.Items = 1
	return out
}

// Ensure Flatpak implements Adapter
var _ Adapter = (*Flatpak)(nil)
