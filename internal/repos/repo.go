package repos

import (
	"context"
	"strconv"
	"strings"

	"github.com/sysup/sysup/internal/common/run"
)

// Repo wraps git operations for a single tracked checkout
type Repo struct {
	path   string
	runner run.CommandRunner
}

// NewRepo creates a Repo for the given checkout path
func NewRepo(path string, runner run.CommandRunner) *Repo {
	return &Repo{path: path, runner: runner}
}

// Path returns the checkout path
func (r *Repo) Path() string {
	return r.path
}

// Name returns the display name of the checkout
func (r *Repo) Name() string {
	return DisplayName(r.path)
}

// HasNewCommits fetches the remote and reports whether the upstream branch
// has commits not present locally.
func (r *Repo) HasNewCommits(ctx context.Context) (bool, error) {
	if _, err := r.runner.OutputIn(ctx, r.path, "git", "fetch"); err != nil {
		return false, err
	}

	out, err := r.runner.OutputIn(ctx, r.path, "git", "rev-list", "--count", "HEAD..@{u}")
	if err != nil {
		return false, err
	}

	count, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Pull fast-forwards the checkout to the upstream branch
func (r *Repo) Pull(ctx context.Context) error {
	_, err := r.runner.OutputIn(ctx, r.path, "git", "pull")
	return err
}
