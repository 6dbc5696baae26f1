// Package run executes external commands on behalf of the update engine.
// Every package-manager, git, and notification invocation goes through the
// CommandRunner interface so the engine can be tested without a live host.
package run

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

var (
	// ErrCommandFailed indicates the external command exited non-zero
	ErrCommandFailed = errors.New("command failed")
)

// CommandRunner defines the interface for external command execution.
// This interface allows for mocking subprocess calls in tests.
type CommandRunner interface {
	// Run executes a command with inherited stdio. Used for interactive
	// commands such as "sudo pacman -Syu" that may prompt the operator.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its captured stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// OutputIn executes a command in the given working directory and
	// returns its captured stdout.
	OutputIn(ctx context.Context, dir, name string, args ...string) (string, error)

	// RunInput executes a command feeding the given string to stdin.
	RunInput(ctx context.Context, input, name string, args ...string) error

	// LookPath reports whether a program is available on PATH.
	LookPath(name string) bool
}

// ExecRunner executes commands via os/exec
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command with inherited stdio
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return wrapExitError(err, nil)
	}
	return nil
}

// Output executes a command and returns its captured stdout
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return r.OutputIn(ctx, "", name, args...)
}

// OutputIn executes a command in dir and returns its captured stdout
func (r *ExecRunner) OutputIn(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err != nil {
		return stdoutBuf.String(), wrapExitError(err, &stderrBuf)
	}
	return stdoutBuf.String(), nil
}

// RunInput executes a command feeding input to stdin
func (r *ExecRunner) RunInput(ctx context.Context, input, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return wrapExitError(err, &stderrBuf)
	}
	return nil
}

// LookPath reports whether a program is available on PATH
func (r *ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// wrapExitError wraps a command failure with captured stderr for context
func wrapExitError(err error, stderr *bytes.Buffer) error {
	if stderr != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.Join(ErrCommandFailed, errors.New(msg))
		}
	}
	return errors.Join(ErrCommandFailed, err)
}

// Ensure ExecRunner implements CommandRunner interface
var _ CommandRunner = (*ExecRunner)(nil)
