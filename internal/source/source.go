// Package source defines the update sources known to sysup and the
// adapter contract the engine drives them through. Each adapter wraps one
// externally-managed source (pacman, an AUR helper, flatpak, or the
// tracked git checkouts) behind a check/apply capability pair.
package source

import (
	"context"
	"errors"
)

var (
	// ErrApplyFailed indicates the external update command exited non-zero
	ErrApplyFailed = errors.New("update command failed")
	// ErrTimeout indicates a per-source bound was exceeded in concurrent mode
	ErrTimeout = errors.New("update timed out")
	// ErrCheckFailed indicates the pending-update check could not run
	ErrCheckFailed = errors.New("update check failed")
)

// Kind identifies a source category. The declared order is the fixed
// enumeration order used for execution and reporting.
type Kind int

const (
	// KindSystem is the system package manager (pacman)
	KindSystem Kind = iota
	// KindHelper is an AUR helper (yay, paru); each available helper is
	// its own adapter but the pair reports as one logical source
	KindHelper
	// KindSandbox is the sandboxed-app package manager (flatpak)
	KindSandbox
	// KindCheckouts is the batch of user-tracked git checkouts
	KindCheckouts
)

// String returns the kind's display label
func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindHelper:
		return "aur"
	case KindSandbox:
		return "flatpak"
	case KindCheckouts:
		return "git-repos"
	default:
		return "unknown"
	}
}

// ApplyOptions carries the per-invocation settings an adapter honors
type ApplyOptions struct {
	// NoConfirm skips interactive confirmation prompts
	NoConfirm bool
}

// Outcome is the recorded result of attempting one source's update
type Outcome struct {
	// Kind identifies the source category
	Kind Kind
	// Name is the adapter's display name ("Pacman", "Yay", ...)
	Name string
	// Updated reports whether the source applied any updates
	Updated bool
	// Items is the number of updated items: 0/1 for single-target
	// sources, the count of updated checkouts for the batch
	Items int
	// Pending is the last check result (used for dry-run previews)
	Pending bool
	// Err holds the failure, if any; an errored source still produces
	// an outcome rather than disappearing from the run
	Err error
}

// Adapter is the capability wrapper for one update source.
// Check must complete before Apply is attempted; Apply is skipped
// entirely when Check reports nothing pending.
type Adapter interface {
	// Kind returns the source category
	Kind() Kind

	// Name returns the display name for status lines and reports
	Name() string

	// Check reports whether updates are pending
	Check(ctx context.Context) (bool, error)

	// Apply checks and applies pending updates, returning the outcome.
	// Adapter failures are captured in the outcome, never panicked.
	Apply(ctx context.Context, opts ApplyOptions) Outcome
}
