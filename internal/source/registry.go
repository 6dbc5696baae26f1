package source

import (
	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/common/run"
)

// Enabled selects which source kinds participate in a run. It is derived
// from user configuration and the per-run disable flags.
type Enabled struct {
	System    bool
	Helpers   bool
	Sandbox   bool
	Checkouts bool
}

// Probe reports whether a program is available on the host.
// run.CommandRunner satisfies it; tests inject predicates directly.
type Probe interface {
	LookPath(name string) bool
}

// Registry assembles the ordered adapter list for one run. A kind that is
// disabled or whose program is not on the host is silently omitted; an
// empty registry is a valid (empty) run.
//
// The output order is fixed: system packages, AUR helpers in probe order,
// sandboxed apps, then the checkout batch. Concurrent execution may finish
// out of this order but results are always reported in it.
func Registry(enabled Enabled, probe Probe, checkoutPaths []string, runner run.CommandRunner, log *logger.Logger) []Adapter {
	var adapters []Adapter

	if enabled.System && probe.LookPath("pacman") && probe.LookPath("checkupdates") {
		adapters = append(adapters, NewPacman(runner, log))
	}

	if enabled.Helpers {
		for _, helper := range SupportedHelpers {
			if probe.LookPath(helper) {
				adapters = append(adapters, NewHelper(helper, runner, log))
			}
		}
	}

	if enabled.Sandbox && probe.LookPath("flatpak") {
		adapters = append(adapters, NewFlatpak(runner, log))
	}

	if enabled.Checkouts && probe.LookPath("git") {
		adapters = append(adapters, NewCheckouts(checkoutPaths, runner, log))
	}

	return adapters
}
