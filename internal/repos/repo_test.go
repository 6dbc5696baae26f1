package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysup/sysup/internal/common/run"
)

func TestHasNewCommits(t *testing.T) {
	tests := []struct {
		name     string
		revCount string
		want     bool
	}{
		{"behind upstream", "4\n", true},
		{"up to date", "0\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &run.MockRunner{
				OutputInFunc: func(ctx context.Context, dir, name string, args ...string) (string, error) {
					if len(args) > 0 && args[0] == "rev-list" {
						return tt.revCount, nil
					}
					return "", nil
				},
			}

			repo := NewRepo("/home/user/dotfiles", mock)
			got, err := repo.HasNewCommits(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// fetch must run before rev-list
			require.GreaterOrEqual(t, len(mock.Calls), 2)
			assert.Equal(t, []string{"git", "fetch"}, mock.Calls[0])
			assert.Equal(t, []string{"git", "rev-list", "--count", "HEAD..@{u}"}, mock.Calls[1])
		})
	}
}

func TestHasNewCommitsFetchError(t *testing.T) {
	fetchErr := errors.New("could not resolve host")
	mock := &run.MockRunner{
		OutputInFunc: func(ctx context.Context, dir, name string, args ...string) (string, error) {
			return "", fetchErr
		},
	}

	_, err := NewRepo("/home/user/dotfiles", mock).HasNewCommits(context.Background())
	assert.ErrorIs(t, err, fetchErr)
}

func TestHasNewCommitsUnparsableCount(t *testing.T) {
	mock := &run.MockRunner{
		OutputInFunc: func(ctx context.Context, dir, name string, args ...string) (string, error) {
			if len(args) > 0 && args[0] == "rev-list" {
				return "fatal: no upstream\n", nil
			}
			return "", nil
		},
	}

	_, err := NewRepo("/home/user/dotfiles", mock).HasNewCommits(context.Background())
	assert.Error(t, err)
}

func TestPull(t *testing.T) {
	mock := &run.MockRunner{}
	repo := NewRepo("/home/user/dotfiles", mock)

	require.NoError(t, repo.Pull(context.Background()))
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, []string{"git", "pull"}, mock.Calls[0])
}

func TestRepoName(t *testing.T) {
	repo := NewRepo("/home/user/dotfiles", &run.MockRunner{})
	assert.Equal(t, "Dotfiles", repo.Name())
	assert.Equal(t, "/home/user/dotfiles", repo.Path())
}
