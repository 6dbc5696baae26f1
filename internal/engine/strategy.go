package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/source"
)

// Strategy executes a registry's adapters and collects a RunOutcome.
// It never fails for an adapter-level reason: every adapter error is
// captured in its outcome. The only error it returns is cancellation.
type Strategy struct {
	log *logger.Logger
}

// NewStrategy creates an execution strategy
func NewStrategy(log *logger.Logger) *Strategy {
	return &Strategy{log: log}
}

// Execute runs the adapters under the mode selected by opts and returns
// outcomes in the adapters' registry order.
func (s *Strategy) Execute(ctx context.Context, adapters []source.Adapter, opts Options) (*RunOutcome, error) {
	if opts.DryRun {
		return s.preview(ctx, adapters)
	}
	if opts.Parallel {
		return s.concurrent(ctx, adapters, opts)
	}
	return s.sequential(ctx, adapters, opts)
}

// preview checks every adapter without applying anything. The preview is
// derived solely from Check; no host state is touched.
func (s *Strategy) preview(ctx context.Context, adapters []source.Adapter) (*RunOutcome, error) {
	result := &RunOutcome{}

	for _, adapter := range adapters {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		pending, err := adapter.Check(ctx)
		out := source.Outcome{
			Kind:    adapter.Kind(),
			Name:    adapter.Name(),
			Pending: pending,
			Err:     err,
		}
		if pending {
			output.PrintInfo("Would update: %s", adapter.Name())
		}
		result.Sources = append(result.Sources, out)
	}

	return result, nil
}

// sequential runs adapters one at a time in registry order, each to
// completion before the next starts. No timeout applies: the operator is
// watching interactively, and a hanging adapter blocks the run by design
// of the interactive mode.
func (s *Strategy) sequential(ctx context.Context, adapters []source.Adapter, opts Options) (*RunOutcome, error) {
	result := &RunOutcome{}
	applyOpts := source.ApplyOptions{NoConfirm: opts.NoConfirm}

	for _, adapter := range adapters {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Sources = append(result.Sources, s.apply(ctx, adapter, applyOpts))
	}

	return result, nil
}

// concurrent submits the package sources to a fixed-size worker pool with
// a per-adapter timeout, then runs the checkout batch sequentially after
// the pool drains. Outcomes keep registry order regardless of completion
// order.
func (s *Strategy) concurrent(ctx context.Context, adapters []source.Adapter, opts Options) (*RunOutcome, error) {
	var pooled []source.Adapter
	var batches []source.Adapter
	for _, adapter := range adapters {
		if adapter.Kind() == source.KindCheckouts {
			batches = append(batches, adapter)
		} else {
			pooled = append(pooled, adapter)
		}
	}

	applyOpts := source.ApplyOptions{NoConfirm: opts.NoConfirm}
	outcomes := make([]chan source.Outcome, len(pooled))
	sem := make(chan struct{}, opts.workers())

	output.PrintInfo("Running parallel updates...")

	for i, adapter := range pooled {
		ch := make(chan source.Outcome, 1)
		outcomes[i] = ch

		go func(adapter source.Adapter, ch chan<- source.Outcome) {
			sem <- struct{}{}
			defer func() { <-sem }()
			ch <- s.applyWithTimeout(ctx, adapter, applyOpts, opts.timeout())
		}(adapter, ch)
	}

	result := &RunOutcome{}
	for i := range pooled {
		select {
		case out := <-outcomes[i]:
			result.Sources = append(result.Sources, out)
		case <-ctx.Done():
			// In-flight workers are abandoned; their results are
			// discarded rather than waited for.
			return nil, ctx.Err()
		}
	}

	// Checkout batches always run sequentially, after the pool: the
	// per-repository git operations must not interleave.
	for _, adapter := range batches {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Sources = append(result.Sources, s.apply(ctx, adapter, applyOpts))
	}

	return result, nil
}

// applyWithTimeout bounds one pooled adapter's apply. A timeout downgrades
// the outcome to ErrTimeout without cancelling the external process; the
// run is advisory, not transactional, so a detached updater finishing late
// is acceptable.
func (s *Strategy) applyWithTimeout(ctx context.Context, adapter source.Adapter, opts source.ApplyOptions, timeout time.Duration) source.Outcome {
	done := make(chan source.Outcome, 1)
	go func() {
		done <- s.apply(ctx, adapter, opts)
	}()

	select {
	case out := <-done:
		return out
	case <-time.After(timeout):
		s.log.Error("%s timed out after %s", adapter.Name(), timeout)
		return source.Outcome{
			Kind: adapter.Kind(),
			Name: adapter.Name(),
			Err:  source.ErrTimeout,
		}
	}
}

// apply runs one adapter, converting a panic into a failed outcome so a
// misbehaving adapter can never abort its siblings.
func (s *Strategy) apply(ctx context.Context, adapter source.Adapter, opts source.ApplyOptions) (out source.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("%s update panicked: %v", adapter.Name(), r)
			out = source.Outcome{
				Kind: adapter.Kind(),
				Name: adapter.Name(),
				Err:  fmt.Errorf("%w: panic: %v", source.ErrApplyFailed, r),
			}
		}
	}()

	out = adapter.Apply(ctx, opts)
	if out.Err != nil {
		s.log.Error("error updating %s: %v", adapter.Name(), out.Err)
	}
	return out
}
