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

// SupportedHelpers is the fixed pair of AUR helper programs probed for
// availability, in probe order.
var SupportedHelpers = []string{"yay", "paru"}

// Helper updates AUR packages through one helper program.
// Multiple available helpers each get their own adapter; the engine
// merges them into a single logical AUR source when counting updates.
type Helper struct {
	helper string
	runner run.CommandRunner
	log    *logger.Logger
}

// NewHelper creates an adapter for one AUR helper program
func NewHelper(helper string, runner run.CommandRunner, log *logger.Logger) *Helper {
	return &Helper{helper: helper, runner: runner, log: log}
}

// Kind returns the source category
func (h *Helper) Kind() Kind { return KindHelper }

// Name returns the capitalized helper name
func (h *Helper) Name() string {
	return strings.ToUpper(h.helper[:1]) + h.helper[1:]
}

// Check reports whether AUR updates are pending for this helper.
// "<helper> -Qua" exits non-zero when nothing is pending.
func (h *Helper) Check(ctx context.Context) (bool, error) {
	h.log.Debug("checking updates for %s", h.helper)
	if _, err := h.runner.Output(ctx, h.helper, "-Qua"); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		output.StatusLine(output.UpToDate, "Already up to date", h.Name())
		return false, nil
	}

	output.StatusLine(output.Available, "Available", h.Name())
	return true, nil
}

// Apply updates AUR packages when the check reports pending updates
func (h *Helper) Apply(ctx context.Context, opts ApplyOptions) Outcome {
	out := Outcome{Kind: KindHelper, Name: h.Name()}

	pending, err := h.Check(ctx)
	if err != nil {
		out.Err = errors.Join(ErrCheckFailed, err)
		return out
	}
	out.Pending = pending
	if !pending {
		return out
	}

	args := []string{"-Syu"}
	if opts.NoConfirm {
		args = append(args, "--noconfirm")
	}

	h.log.Info("updating %s", h.helper)
	if err := h.runner.Run(ctx, h.helper, args...); err != nil {
		output.PrintError("Error updating %s", h.Name())
		h.log.Error("error updating %s: %v", h.helper, err)
		out.Err = fmt.Errorf("%w: %v", ErrApplyFailed, err)
		return out
	}

	output.StatusLine(output.Updated, "Updated", h.Name())
	out.Updated = true
	out.Items = 1
	return out
}

// Ensure Helper implements Adapter
var _ Adapter = (*Helper)(nil)
