package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/source"
)

var (
	// ErrCancelled is returned when the operator interrupts the run
	ErrCancelled = errors.New("update cancelled")
)

// BackupCreator creates a pre-update backup
type BackupCreator interface {
	Create(ctx context.Context) (string, error)
}

// HookRunner executes the hook scripts for a phase
type HookRunner interface {
	RunHooks(ctx context.Context, phase string)
}

// Notifier delivers the run summary notification
type Notifier interface {
	Send(ctx context.Context, title, message, urgency string)
}

// StatsRecorder records one successful source update
type StatsRecorder interface {
	RecordUpdate(component string, itemCount int) error
}

// Hook phase names passed to the HookRunner
const (
	phasePreUpdate  = "pre-update"
	phasePostUpdate = "post-update"
)

// Pipeline sequences one full update run:
// backup, pre-hooks, execution, statistics, post-hooks, notification.
// Collaborators are injected explicitly; a nil collaborator disables its
// phase. Backup and hooks are best-effort and never abort the run.
type Pipeline struct {
	Adapters []source.Adapter
	Strategy *Strategy

	Backup   BackupCreator
	Hooks    HookRunner
	Stats    StatsRecorder
	Notifier Notifier

	Log *logger.Logger
}

// Run executes the pipeline. The returned RunOutcome contains exactly one
// entry per registry adapter, errored or not. The only failure Run itself
// reports is operator cancellation.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*RunOutcome, error) {
	p.Log.Info("starting system update")

	if opts.DryRun {
		output.Heading("DRY RUN MODE")
		output.PrintInfo("No actual changes will be made")
	}

	// Backup phase: best-effort, skipped on dry run
	if p.Backup != nil && !opts.DryRun {
		if err := p.cancelled(ctx); err != nil {
			return nil, err
		}
		if path, err := p.Backup.Create(ctx); err != nil {
			p.Log.Error("failed to create backup: %v", err)
		} else {
			output.PrintSuccess("Backup created: %s", path)
		}
	}

	// Pre-hook phase: observational, skipped on dry run
	if p.Hooks != nil && !opts.DryRun {
		if err := p.cancelled(ctx); err != nil {
			return nil, err
		}
		p.Hooks.RunHooks(ctx, phasePreUpdate)
	}

	// Execution phase
	if err := p.cancelled(ctx); err != nil {
		return nil, err
	}
	result, err := p.Strategy.Execute(ctx, p.Adapters, opts)
	if err != nil {
		return nil, ErrCancelled
	}

	// Statistics are recorded by the pipeline, outside the adapters,
	// once per successfully-updated source.
	if p.Stats != nil && !opts.DryRun {
		p.recordStats(result)
	}

	// Post-hook phase: observational, skipped on dry run
	if p.Hooks != nil && !opts.DryRun {
		if err := p.cancelled(ctx); err != nil {
			return nil, err
		}
		p.Hooks.RunHooks(ctx, phasePostUpdate)
	}

	// Notify phase: at most one summary, only when something updated
	if err := p.cancelled(ctx); err != nil {
		return nil, err
	}
	if p.Notifier != nil && !opts.DryRun {
		if total := result.TotalUpdated(); total > 0 {
			p.Notifier.Send(ctx, "System Update Complete",
				formatSummary(total), "normal")
		}
	}

	p.Log.Info("system update completed")
	return result, nil
}

// cancelled maps context cancellation to the pipeline's terminal error
func (p *Pipeline) cancelled(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	return nil
}

// recordStats records one entry per updated source. Recording failures
// are logged only; statistics never gate the run.
func (p *Pipeline) recordStats(result *RunOutcome) {
	for _, out := range result.Sources {
		if !out.Updated {
			continue
		}
		if err := p.Stats.RecordUpdate(componentLabel(out), out.Items); err != nil {
			p.Log.Error("failed to record statistics for %s: %v", out.Name, err)
		}
	}
}

// componentLabel maps an outcome to its stats-history component name.
// The checkout batch records under its kind; package sources record under
// their program name.
func componentLabel(out source.Outcome) string {
	if out.Kind == source.KindCheckouts {
		return out.Kind.String()
	}
	return strings.ToLower(out.Name)
}

// formatSummary renders the notification body
func formatSummary(total int) string {
	if total == 1 {
		return "Successfully updated 1 component"
	}
	return fmt.Sprintf("Successfully updated %d components", total)
}
