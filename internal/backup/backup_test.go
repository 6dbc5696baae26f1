package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysup/sysup/internal/common/run"
)

func TestCreateWritesPackageList(t *testing.T) {
	dir := t.TempDir()
	mock := &run.MockRunner{
		OutputFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "base\nlinux\nvim\n", nil
		},
	}
	fixed := time.Date(2026, 8, 28, 2, 0, 0, 0, time.UTC)
	m := NewManager(dir, mock, WithNowFunc(func() time.Time { return fixed }))

	path, err := m.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "packages_20260828_020000.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "base\nlinux\nvim\n", string(data))

	require.NotEmpty(t, mock.Calls)
	assert.Equal(t, []string{"pacman", "-Qqe"}, mock.Calls[0])
}

func TestCreateWithoutPacman(t *testing.T) {
	mock := &run.MockRunner{
		LookPathFunc: func(name string) bool { return false },
	}
	m := NewManager(t.TempDir(), mock)

	_, err := m.Create(context.Background())
	assert.ErrorIs(t, err, ErrPacmanUnavailable)
}

func TestCreateRotatesOldBackups(t *testing.T) {
	dir := t.TempDir()
	mock := &run.MockRunner{
		OutputFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "base\n", nil
		},
	}

	now := time.Date(2026, 8, 1, 2, 0, 0, 0, time.UTC)
	m := NewManager(dir, mock, WithNowFunc(func() time.Time {
		now = now.Add(time.Hour)
		return now
	}))

	for i := 0; i < keepBackups+3; i++ {
		_, err := m.Create(context.Background())
		require.NoError(t, err)
	}

	entries, err := m.List()
	require.NoError(t, err)
	assert.Len(t, entries, keepBackups)
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"packages_20260801_020000.txt", "packages_20260802_020000.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("base\n"), 0644))
		mtime := time.Date(2026, 8, 1+i, 2, 0, 0, 0, time.UTC)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	m := NewManager(dir, &run.MockRunner{})
	entries, err := m.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "packages_20260802_020000.txt", entries[0].Name)
	assert.Equal(t, "packages_20260801_020000.txt", entries[1].Name)
}

func TestListIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "packages_20260801_020000.txt"), []byte("base\n"), 0644))

	m := NewManager(dir, &run.MockRunner{})
	entries, err := m.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "packages_20260801_020000.txt", entries[0].Name)
}

func TestCreateCommandFailure(t *testing.T) {
	mock := &run.MockRunner{
		OutputFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", fmt.Errorf("database locked")
		},
	}
	m := NewManager(t.TempDir(), mock)

	_, err := m.Create(context.Background())
	assert.Error(t, err)
}
