package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
)

// Pacman updates system packages via pacman.
// Pending updates are detected with checkupdates (pacman-contrib), which
// works without refreshing the system databases as root.
type Pacman struct {
	runner run.CommandRunner
	log    *logger.Logger
}

// NewPacman creates the system-packages adapter
func NewPacman(runner run.CommandRunner, log *logger.Logger) *Pacman {
	return &Pacman{runner: runner, log: log}
}

// Kind returns the source category
func (p *Pacman) Kind() Kind { return KindSystem }

// Name returns the display name
func (p *Pacman) Name() string { return "Pacman" }

// Check reports whether pacman updates are pending.
// checkupdates exits non-zero when nothing is pending; that is a normal
// result, not an error.
func (p *Pacman) Check(ctx context.Context) (bool, error) {
	p.log.Debug("checking updates for pacman")
	if _, err := p.runner.Output(ctx, "checkupdates"); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		output.StatusLine(output.UpToDate, "Already up to date", p.Name())
		return false, nil
	}

	output.StatusLine(output.Available, "Available", p.Name())
	return true, nil
}

// Apply updates system packages when the check reports pending updates
func (p *Pacman) Apply(ctx context.Context, opts ApplyOptions) Outcome {
	out := Outcome{Kind: KindSystem, Name: p.Name()}

	pending, err := p.Check(ctx)
	if err != nil {
		out.Err = errors.Join(ErrCheckFailed, err)
		return out
	}
	out.Pending = pending
	if !pending {
		return out
	}

	args := []string{"pacman", "-Syu"}
	if opts.NoConfirm {
		args = append(args, "--noconfirm")
	}

	p.log.Info("updating pacman")
	if err := p.runner.Run(ctx, "sudo", args...); err != nil {
		output.PrintError("Error updating %s", p.Name())
		p.log.Error("error updating pacman: %v", err)
		out.Err = fmt.Errorf("%w: %v", ErrApplyFailed, err)
		return out
	}

	output.StatusLine(output.Updated, "Updated", p.Name())
	out.Updated = true
	out.Items = 1
	return out
}

// Ensure Pacman implements Adapter
var _ Adapter = (*Pacman)(nil)
