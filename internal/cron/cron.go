// Package cron installs and removes the scheduled-update crontab entry.
package cron

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sysup/sysup/internal/common/run"
)

var (
	// ErrInvalidFrequency is returned for frequencies other than daily/weekly
	ErrInvalidFrequency = errors.New("invalid frequency: use 'daily' or 'weekly'")
	// ErrNoCrontab is returned when no crontab exists for the user
	ErrNoCrontab = errors.New("no crontab found")
	// ErrNotScheduled is returned when no sysup entry exists to remove
	ErrNotScheduled = errors.New("no scheduled updates found")
)

// Cron times: 2 AM daily, 2 AM every Sunday
var cronTimes = map[string]string{
	"daily":  "0 2 * * *",
	"weekly": "0 2 * * 0",
}

// Manager edits the user crontab to schedule automatic updates
type Manager struct {
	binPath string
	runner  run.CommandRunner
}

// NewManager creates a cron manager scheduling the given sysup binary
func NewManager(binPath string, runner run.CommandRunner) *Manager {
	return &Manager{binPath: binPath, runner: runner}
}

// Schedule installs a crontab entry for automatic updates.
// An existing sysup entry is replaced.
func (m *Manager) Schedule(ctx context.Context, frequency string) error {
	cronTime, ok := cronTimes[frequency]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, frequency)
	}

	entry := fmt.Sprintf("%s %s update --noconfirm", cronTime, m.binPath)

	// crontab -l exits non-zero when no crontab exists; treat as empty
	current, _ := m.runner.Output(ctx, "crontab", "-l")
	kept := RemoveEntry(current, m.binPath)

	newCron := strings.TrimRight(kept, "\n")
	if newCron != "" {
		newCron += "\n"
	}
	newCron += entry + "\n"

	return m.runner.RunInput(ctx, newCron, "crontab", "-")
}

// Unschedule removes the sysup crontab entry
func (m *Manager) Unschedule(ctx context.Context) error {
	current, err := m.runner.Output(ctx, "crontab", "-l")
	if err != nil {
		return ErrNoCrontab
	}

	if !strings.Contains(current, m.binPath) {
		return ErrNotScheduled
	}

	newCron := RemoveEntry(current, m.binPath)
	return m.runner.RunInput(ctx, newCron, "crontab", "-")
}

// RemoveEntry strips every crontab line referencing the given binary path
func RemoveEntry(crontab, binPath string) string {
	if crontab == "" {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(crontab, "\n") {
		if strings.Contains(line, binPath) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
