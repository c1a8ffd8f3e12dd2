package helpers

import (
	"context"
	"os/exec"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	CommandExistsFunc        func(name string) bool
	RunCommandWithOutputFunc func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
	PrepareCommandFunc       func(ctx context.Context, name string, args ...string) *exec.Cmd
	StartDetachedFunc        func(ctx context.Context, dir string, name string, args ...string) error
}

// CommandExists implements CommandRunner.CommandExists
func (m *MockCommandRunner) CommandExists(name string) bool {
	if m.CommandExistsFunc != nil {
		return m.CommandExistsFunc(name)
	}
	return false
}

// RunCommandWithOutput implements CommandRunner.RunCommandWithOutput
func (m *MockCommandRunner) RunCommandWithOutput(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	if m.RunCommandWithOutputFunc != nil {
		return m.RunCommandWithOutputFunc(ctx, name, args...)
	}
	return "", "", nil
}

// PrepareCommand implements CommandRunner.PrepareCommand
func (m *MockCommandRunner) PrepareCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	if m.PrepareCommandFunc != nil {
		return m.PrepareCommandFunc(ctx, name, args...)
	}
	return nil
}

// StartDetached implements CommandRunner.StartDetached
func (m *MockCommandRunner) StartDetached(ctx context.Context, dir string, name string, args ...string) error {
	if m.StartDetachedFunc != nil {
		return m.StartDetachedFunc(ctx, dir, name, args...)
	}
	return nil
}
