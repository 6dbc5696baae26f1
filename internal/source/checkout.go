package source

import (
	"context"

	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
	"github.com/sysup/sysup/internal/repos"
)

// Checkouts updates the tracked git checkouts as one batch source.
// Repositories are always pulled one at a time: concurrent git operations
// against the same clone set are unsafe and interleaved git output is
// useless to the operator.
type Checkouts struct {
	paths  []string
	runner run.CommandRunner
	log    *logger.Logger
}

// NewCheckouts creates the checkout-batch adapter over the given paths
func NewCheckouts(paths []string, runner run.CommandRunner, log *logger.Logger) *Checkouts {
	return &Checkouts{paths: paths, runner: runner, log: log}
}

// Kind returns the source category
func (c *Checkouts) Kind() Kind { return KindCheckouts }

// Name returns the display name
func (c *Checkouts) Name() string { return "Git repositories" }

// Paths returns the tracked checkout paths in order
func (c *Checkouts) Paths() []string { return c.paths }

// Check reports whether any checkouts are tracked.
// Per-repository pending state is only determined during Apply; probing
// every remote just to answer Check would double the fetch traffic.
func (c *Checkouts) Check(ctx context.Context) (bool, error) {
	return len(c.paths) > 0, nil
}

// Apply pulls each tracked checkout in order. An invalid or missing path
// is skipped with a warning and never aborts the batch; Items counts the
// checkouts that received new commits.
func (c *Checkouts) Apply(ctx context.Context, opts ApplyOptions) Outcome {
	out := Outcome{Kind: KindCheckouts, Name: c.Name()}
	if len(c.paths) == 0 {
		return out
	}
	out.Pending = true

	output.Heading("Updating Git Repositories")

	for _, path := range c.paths {
		if ctx.Err() != nil {
			out.Err = ctx.Err()
			return out
		}

		if err := repos.ValidateRepo(path); err != nil {
			output.PrintWarning("Skipping (invalid): %s", path)
			c.log.Warn("invalid repository %s: %v", path, err)
			continue
		}

		if c.updateRepo(ctx, repos.NewRepo(path, c.runner)) {
			out.Items++
		}
	}

	out.Updated = out.Items > 0
	return out
}

// updateRepo brings one checkout up to date, reporting its status line
func (c *Checkouts) updateRepo(ctx context.Context, repo *repos.Repo) bool {
	pending, err := repo.HasNewCommits(ctx)
	if err != nil {
		output.PrintError("Error updating %s", repo.Name())
		c.log.Error("error checking %s: %v", repo.Path(), err)
		return false
	}

	if !pending {
		output.StatusLine(output.UpToDate, "Already up to date", repo.Name())
		return false
	}

	output.StatusLine(output.Available, "Available", repo.Name())
	c.log.Info("pulling updates for %s", repo.Path())

	if err := repo.Pull(ctx); err != nil {
		output.PrintError("Error updating %s", repo.Name())
		c.log.Error("error pulling %s: %v", repo.Path(), err)
		return false
	}

	output.StatusLine(output.Updated, "Updated", repo.Name())
	return true
}

// Ensure Checkouts implements Adapter
var _ Adapter = (*Checkouts)(nil)
