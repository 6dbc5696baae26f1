// Package engine orchestrates one end-to-end update run: it sequences
// backup, hooks, source execution, statistics, and notification around the
// registry's adapters, and aggregates per-source outcomes into one result.
package engine

import (
	"time"

	"github.com/sysup/sysup/internal/source"
)

// Defaults for concurrent execution
const (
	// DefaultTimeout bounds each pooled adapter's apply in parallel mode
	DefaultTimeout = 600 * time.Second
	// DefaultWorkers is the fixed worker-pool size in parallel mode
	DefaultWorkers = 4
)

// Options describes a single invocation. Values are fixed for the run;
// nothing survives between runs.
type Options struct {
	// DryRun previews pending updates without applying anything
	DryRun bool
	// NoConfirm skips interactive confirmation prompts
	NoConfirm bool
	// Parallel runs package sources through the worker pool
	Parallel bool
	// Timeout bounds each pooled adapter in parallel mode
	Timeout time.Duration
	// Workers is the worker-pool size in parallel mode
	Workers int
}

// timeout returns the effective per-source timeout
func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// workers returns the effective worker-pool size
func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return DefaultWorkers
}

// RunOutcome aggregates per-source outcomes for one run. Sources are
// always ordered by the registry's fixed enumeration order, independent of
// the execution mode and of completion order.
type RunOutcome struct {
	Sources []source.Outcome
}

// TotalUpdated counts the updated sources. The AUR helper pair counts as
// one logical source (OR across its adapters) and the checkout batch
// contributes its updated-item count instead of 1.
func (r *RunOutcome) TotalUpdated() int {
	total := 0
	helperUpdated := false

	for _, out := range r.Sources {
		switch out.Kind {
		case source.KindHelper:
			helperUpdated = helperUpdated || out.Updated
		case source.KindCheckouts:
			total += out.Items
		default:
			if out.Updated {
				total++
			}
		}
	}

	if helperUpdated {
		total++
	}
	return total
}

// Failed returns the outcomes that carry an error
func (r *RunOutcome) Failed() []source.Outcome {
	var failed []source.Outcome
	for _, out := range r.Sources {
		if out.Err != nil {
			failed = append(failed, out)
		}
	}
	return failed
}
