// Package sysinfo gathers a short host information report.
package sysinfo

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/sysup/sysup/internal/common/run"
)

// Field is one labeled item of the host report
type Field struct {
	Label string
	Value string
}

// Collect gathers host information. Items that cannot be determined are
// reported as "Unknown" rather than failing the report.
func Collect(ctx context.Context, runner run.CommandRunner) []Field {
	fields := []Field{
		{"OS", osRelease()},
		{"Kernel", commandValue(ctx, runner, "uname", "-r")},
		{"Architecture", runtime.GOARCH},
		{"Hostname", hostname()},
		{"CPU", cpuModel(ctx, runner)},
		{"RAM", commandField(ctx, runner, 1, "free", "-h")},
		{"Disk (root)", commandField(ctx, runner, 1, "df", "-h", "/")},
		{"Package Manager", "pacman"},
		{"User", envOr("USER", "Unknown")},
	}
	return fields
}

// osRelease reads the pretty name from /etc/os-release
func osRelease() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return "Unknown"
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), `"`)
		}
	}
	return "Unknown"
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "Unknown"
	}
	return name
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// commandValue returns the trimmed output of a command, "Unknown" on error
func commandValue(ctx context.Context, runner run.CommandRunner, name string, args ...string) string {
	out, err := runner.Output(ctx, name, args...)
	if err != nil {
		return "Unknown"
	}
	return strings.TrimSpace(out)
}

// commandField returns the second column of line `line` of the command output
func commandField(ctx context.Context, runner run.CommandRunner, line int, name string, args ...string) string {
	out, err := runner.Output(ctx, name, args...)
	if err != nil {
		return "Unknown"
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) <= line {
		return "Unknown"
	}
	cols := strings.Fields(lines[line])
	if len(cols) < 2 {
		return "Unknown"
	}
	return cols[1]
}

// cpuModel extracts the CPU model name from lscpu output
func cpuModel(ctx context.Context, runner run.CommandRunner) string {
	out, err := runner.Output(ctx, "lscpu")
	if err != nil {
		return "Unknown"
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Model name:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Model name:"))
		}
	}
	return "Unknown"
}
