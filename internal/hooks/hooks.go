// Package hooks executes user-provided pre-update and post-update scripts.
package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
)

// Hook phases
const (
	PhasePreUpdate  = "pre-update"
	PhasePostUpdate = "post-update"
)

// scriptTimeout bounds each hook script independently
const scriptTimeout = 5 * time.Minute

// Result describes the outcome of one hook script
type Result struct {
	Name     string
	Err      error
	TimedOut bool
}

// Runner executes hook scripts from a hooks directory.
// Hooks are observational: failures are reported, never fatal.
type Runner struct {
	dir     string
	runner  run.CommandRunner
	timeout time.Duration
}

// NewRunner creates a hook runner rooted at dir
func NewRunner(dir string, runner run.CommandRunner) *Runner {
	return &Runner{
		dir:     dir,
		runner:  runner,
		timeout: scriptTimeout,
	}
}

// SetTimeout overrides the per-script timeout (used in tests)
func (r *Runner) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Execute runs all executable scripts for a phase in name order.
// Each script runs with its own timeout; a non-zero exit or timeout is
// captured in its Result and does not stop the remaining scripts.
func (r *Runner) Execute(ctx context.Context, phase string) []Result {
	scripts := r.discover(phase)
	if len(scripts) == 0 {
		return nil
	}

	results := make([]Result, 0, len(scripts))
	for _, script := range scripts {
		results = append(results, r.runScript(ctx, script))
	}
	return results
}

// RunHooks executes a phase and reports each script's outcome to the
// operator. Failures are printed, never propagated.
func (r *Runner) RunHooks(ctx context.Context, phase string) {
	results := r.Execute(ctx, phase)
	if len(results) == 0 {
		return
	}

	output.PrintInfo("Running %s hooks...", phase)
	for _, res := range results {
		switch {
		case res.TimedOut:
			output.PrintError("Hook timed out: %s", res.Name)
		case res.Err != nil:
			output.PrintError("Hook failed: %s: %v", res.Name, res.Err)
		default:
			output.PrintSuccess("Hook completed: %s", res.Name)
		}
	}
}

// discover returns the executable scripts for a phase, sorted by name
func (r *Runner) discover(phase string) []string {
	phaseDir := filepath.Join(r.dir, phase)
	entries, err := os.ReadDir(phaseDir)
	if err != nil {
		return nil
	}

	var scripts []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode()&0111 == 0 {
			continue
		}
		scripts = append(scripts, filepath.Join(phaseDir, entry.Name()))
	}

	sort.Strings(scripts)
	return scripts
}

// runScript executes a single hook script under the per-script timeout
func (r *Runner) runScript(ctx context.Context, script string) Result {
	scriptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result := Result{Name: filepath.Base(script)}
	_, err := r.runner.Output(scriptCtx, script)
	if err != nil {
		result.Err = err
		if errors.Is(scriptCtx.Err(), context.DeadlineExceeded) {
			result.TimedOut = true
		}
	}
	return result
}
