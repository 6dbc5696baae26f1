package engine

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/source"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelQuiet)
}

// fakeAdapter is a controllable source.Adapter for engine tests
type fakeAdapter struct {
	kind    source.Kind
	name    string
	pending bool

	checks  atomic.Int32
	applies atomic.Int32

	applyFn func(ctx context.Context) source.Outcome
}

func (f *fakeAdapter) Kind() source.Kind { return f.kind }
func (f *fakeAdapter) Name() string      { return f.name }

func (f *fakeAdapter) Check(ctx context.Context) (bool, error) {
	f.checks.Add(1)
	return f.pending, nil
}

func (f *fakeAdapter) Apply(ctx context.Context, opts source.ApplyOptions) source.Outcome {
	f.applies.Add(1)
	if f.applyFn != nil {
		return f.applyFn(ctx)
	}
	return source.Outcome{
		Kind:    f.kind,
		Name:    f.name,
		Pending: f.pending,
		Updated: f.pending,
		Items:   boolToItems(f.pending),
	}
}

func boolToItems(b bool) int {
	if b {
		return 1
	}
	return 0
}

// randomAdapters builds a deterministic adapter set from a seed, with
// random per-adapter work durations to shuffle completion order. The
// checkout batch, when present, is last, matching registry order.
func randomAdapters(seed int64, n int) []source.Adapter {
	rng := rand.New(rand.NewSource(seed))
	kinds := []source.Kind{source.KindSystem, source.KindHelper, source.KindSandbox}
	names := []string{"Pacman", "Yay", "Flatpak"}

	adapters := make([]source.Adapter, 0, n)
	for i := 0; i < n; i++ {
		k := rng.Intn(len(kinds))
		if i == n-1 && rng.Intn(2) == 0 {
			adapters = append(adapters, &fakeAdapter{
				kind: source.KindCheckouts,
				name: "Git repositories",
				applyFn: func(ctx context.Context) source.Outcome {
					return source.Outcome{Kind: source.KindCheckouts, Name: "Git repositories", Updated: true, Items: 2}
				},
			})
			break
		}
		delay := time.Duration(rng.Intn(3)) * time.Millisecond
		adapters = append(adapters, &fakeAdapter{
			kind:    kinds[k],
			name:    names[k],
			pending: rng.Intn(2) == 0,
			applyFn: func(ctx context.Context) source.Outcome {
				time.Sleep(delay)
				return source.Outcome{Kind: kinds[k], Name: names[k], Updated: true, Items: 1}
			},
		})
	}
	return adapters
}

// TestExecutionOrderIndependentOfMode verifies that sequential and
// concurrent execution report outcomes in the same adapter order even
// though concurrent completion order is arbitrary.
func TestExecutionOrderIndependentOfMode(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("outcome order matches adapter order in both modes", prop.ForAll(
		func(seed int64, n int) bool {
			s := NewStrategy(testLogger())
			ctx := context.Background()

			seqResult, err := s.Execute(ctx, randomAdapters(seed, n), Options{})
			if err != nil {
				return false
			}
			conResult, err := s.Execute(ctx, randomAdapters(seed, n), Options{Parallel: true})
			if err != nil {
				return false
			}

			if len(seqResult.Sources) != n || len(conResult.Sources) != n {
				return false
			}
			for i := range seqResult.Sources {
				if seqResult.Sources[i].Kind != conResult.Sources[i].Kind {
					return false
				}
				if seqResult.Sources[i].Name != conResult.Sources[i].Name {
					return false
				}
			}
			return true
		},
		gen.Int64(), gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

// TestDryRunNeverApplies verifies the preview only checks: no adapter's
// Apply runs and every adapter still gets an outcome.
func TestDryRunNeverApplies(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("preview produces one outcome per adapter without applying", prop.ForAll(
		func(pendings []bool, parallel bool) bool {
			adapters := make([]source.Adapter, 0, len(pendings))
			fakes := make([]*fakeAdapter, 0, len(pendings))
			for _, p := range pendings {
				f := &fakeAdapter{kind: source.KindSystem, name: "Pacman", pending: p}
				adapters = append(adapters, f)
				fakes = append(fakes, f)
			}

			s := NewStrategy(testLogger())
			result, err := s.Execute(context.Background(), adapters, Options{DryRun: true, Parallel: parallel})
			if err != nil {
				return false
			}

			if len(result.Sources) != len(adapters) {
				return false
			}
			for i, f := range fakes {
				if f.applies.Load() != 0 {
					return false
				}
				if result.Sources[i].Pending != f.pending {
					return false
				}
				if result.Sources[i].Updated {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()), gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestConcurrentTimeoutDowngradesOutcome verifies a slow adapter gets an
// ErrTimeout outcome while its siblings complete normally.
func TestConcurrentTimeoutDowngradesOutcome(t *testing.T) {
	slow := &fakeAdapter{kind: source.KindSystem, name: "Pacman", applyFn: func(ctx context.Context) source.Outcome {
		time.Sleep(500 * time.Millisecond)
		return source.Outcome{Kind: source.KindSystem, Name: "Pacman", Updated: true}
	}}
	fast := &fakeAdapter{kind: source.KindSandbox, name: "Flatpak", pending: true}

	s := NewStrategy(testLogger())
	result, err := s.Execute(context.Background(), []source.Adapter{slow, fast},
		Options{Parallel: true, Timeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Sources) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(result.Sources))
	}
	if !errors.Is(result.Sources[0].Err, source.ErrTimeout) {
		t.Errorf("expected ErrTimeout for slow adapter, got %v", result.Sources[0].Err)
	}
	if result.Sources[0].Updated {
		t.Error("timed-out adapter must not report Updated")
	}
	if !result.Sources[1].Updated {
		t.Error("fast adapter should have completed normally")
	}
}

// TestSequentialCancellationStopsRun verifies cancellation between
// adapters aborts the run without producing a partial result.
func TestSequentialCancellationStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	first := &fakeAdapter{kind: source.KindSystem, name: "Pacman", applyFn: func(context.Context) source.Outcome {
		cancel()
		return source.Outcome{Kind: source.KindSystem, Name: "Pacman", Updated: true}
	}}
	second := &fakeAdapter{kind: source.KindSandbox, name: "Flatpak", pending: true}

	s := NewStrategy(testLogger())
	result, err := s.Execute(ctx, []source.Adapter{first, second}, Options{})

	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if result != nil {
		t.Error("cancelled run must not return a partial result")
	}
	if second.applies.Load() != 0 {
		t.Error("adapter after the cancellation point must not run")
	}
}

// TestConcurrentCancellationDiscardsInFlight verifies cancellation during
// collection discards in-flight results instead of waiting for them.
func TestConcurrentCancellationDiscardsInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	defer close(release)

	blocked := &fakeAdapter{kind: source.KindSystem, name: "Pacman", applyFn: func(context.Context) source.Outcome {
		cancel()
		<-release
		return source.Outcome{Kind: source.KindSystem, Name: "Pacman", Updated: true}
	}}

	s := NewStrategy(testLogger())
	done := make(chan struct{})
	var result *RunOutcome
	var err error
	go func() {
		result, err = s.Execute(ctx, []source.Adapter{blocked}, Options{Parallel: true})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return after cancellation")
	}

	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if result != nil {
		t.Error("cancelled run must not return a partial result")
	}
}

// TestPanickingAdapterIsCaptured verifies a panic becomes a failed
// outcome and the remaining adapters still run.
func TestPanickingAdapterIsCaptured(t *testing.T) {
	bad := &fakeAdapter{kind: source.KindSystem, name: "Pacman", applyFn: func(context.Context) source.Outcome {
		panic("boom")
	}}
	good := &fakeAdapter{kind: source.KindSandbox, name: "Flatpak", pending: true}

	s := NewStrategy(testLogger())
	result, err := s.Execute(context.Background(), []source.Adapter{bad, good}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !errors.Is(result.Sources[0].Err, source.ErrApplyFailed) {
		t.Errorf("expected ErrApplyFailed for panicking adapter, got %v", result.Sources[0].Err)
	}
	if good.applies.Load() != 1 {
		t.Error("adapter after the panicking one must still run")
	}
}

// TestConcurrentRunsCheckoutBatchLast verifies the checkout batch runs
// after the pooled sources and its outcome stays last.
func TestConcurrentRunsCheckoutBatchLast(t *testing.T) {
	var poolDone atomic.Bool
	pkg := &fakeAdapter{kind: source.KindSystem, name: "Pacman", applyFn: func(context.Context) source.Outcome {
		time.Sleep(10 * time.Millisecond)
		poolDone.Store(true)
		return source.Outcome{Kind: source.KindSystem, Name: "Pacman", Updated: true}
	}}

	var batchSawPoolDone bool
	batch := &fakeAdapter{kind: source.KindCheckouts, name: "Git repositories", applyFn: func(context.Context) source.Outcome {
		batchSawPoolDone = poolDone.Load()
		return source.Outcome{Kind: source.KindCheckouts, Name: "Git repositories", Updated: true, Items: 2}
	}}

	s := NewStrategy(testLogger())
	result, err := s.Execute(context.Background(), []source.Adapter{batch, pkg}, Options{Parallel: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !batchSawPoolDone {
		t.Error("checkout batch ran before the worker pool drained")
	}
	last := result.Sources[len(result.Sources)-1]
	if last.Kind != source.KindCheckouts {
		t.Errorf("expected checkout batch outcome last, got %v", last.Kind)
	}
}
