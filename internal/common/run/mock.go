package run

import "context"

// MockRunner implements CommandRunner for testing.
// Each method can be configured with a custom function to control behavior.
type MockRunner struct {
	RunFunc      func(ctx context.Context, name string, args ...string) error
	OutputFunc   func(ctx context.Context, name string, args ...string) (string, error)
	OutputInFunc func(ctx context.Context, dir, name string, args ...string) (string, error)
	RunInputFunc func(ctx context.Context, input, name string, args ...string) error
	LookPathFunc func(name string) bool

	// Calls records every invocation as the command name followed by args
	Calls [][]string
}

// Run executes a command with inherited stdio
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.record(name, args)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}
	return nil
}

// Output executes a command and returns its captured stdout
func (m *MockRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	m.record(name, args)
	if m.OutputFunc != nil {
		return m.OutputFunc(ctx, name, args...)
	}
	return "", nil
}

// OutputIn executes a command in dir and returns its captured stdout
func (m *MockRunner) OutputIn(ctx context.Context, dir, name string, args ...string) (string, error) {
	m.record(name, args)
	if m.OutputInFunc != nil {
		return m.OutputInFunc(ctx, dir, name, args...)
	}
	return "", nil
}

// RunInput executes a command feeding input to stdin
func (m *MockRunner) RunInput(ctx context.Context, input, name string, args ...string) error {
	m.record(name, args)
	if m.RunInputFunc != nil {
		return m.RunInputFunc(ctx, input, name, args...)
	}
	return nil
}

// LookPath reports whether a program is available on PATH
func (m *MockRunner) LookPath(name string) bool {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(name)
	}
	return true
}

func (m *MockRunner) record(name string, args []string) {
	call := append([]string{name}, args...)
	m.Calls = append(m.Calls, call)
}

// Ensure MockRunner implements CommandRunner interface
var _ CommandRunner = (*MockRunner)(nil)
