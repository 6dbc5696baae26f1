// Package backup creates and rotates package-list backups.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sysup/sysup/internal/common/run"
)

var (
	// ErrPacmanUnavailable is returned when pacman is not on the host
	ErrPacmanUnavailable = errors.New("pacman not available")
)

// keepBackups is the number of backups retained after rotation
const keepBackups = 10

// Entry describes one stored backup file
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Manager creates backups of the explicitly-installed package list
type Manager struct {
	dir     string
	runner  run.CommandRunner
	nowFunc func() time.Time
}

// Option is a functional option for configuring Manager
type Option func(*Manager)

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) Option {
	return func(m *Manager) {
		m.nowFunc = fn
	}
}

// NewManager creates a backup manager storing backups in dir
func NewManager(dir string, runner run.CommandRunner, opts ...Option) *Manager {
	m := &Manager{
		dir:     dir,
		runner:  runner,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create writes a backup of the explicitly-installed package list and
// rotates old backups, keeping the newest ten. Returns the backup path.
func (m *Manager) Create(ctx context.Context) (string, error) {
	if !m.runner.LookPath("pacman") {
		return "", ErrPacmanUnavailable
	}

	out, err := m.runner.Output(ctx, "pacman", "-Qqe")
	if err != nil {
		return "", fmt.Errorf("failed to list installed packages: %w", err)
	}

	name := fmt.Sprintf("packages_%s.txt", m.nowFunc().Format("20060102_150405"))
	path := filepath.Join(m.dir, name)
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	m.rotate()
	return path, nil
}

// rotate removes old backups beyond the retention count.
// Rotation failures are ignored; the new backup already exists.
func (m *Manager) rotate() {
	entries, err := m.List()
	if err != nil {
		return
	}

	for _, e := range entries[min(keepBackups, len(entries)):] {
		os.Remove(filepath.Join(m.dir, e.Name))
	}
}

// List returns stored backups, newest first
func (m *Manager) List() ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, "packages_*.txt"))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:    filepath.Base(path),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})

	return entries, nil
}
