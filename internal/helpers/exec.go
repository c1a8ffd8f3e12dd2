package helpers

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// CommandRunner defines an interface for executing system commands
// This allows for mocking in tests and dependency injection
type CommandRunner interface {
	// CommandExists checks if a command is available in PATH
	CommandExists(name string) bool

	// RunCommandWithOutput runs a command and returns both stdout and stderr
	RunCommandWithOutput(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

	// PrepareCommand prepares a command but does not execute it
	PrepareCommand(ctx context.Context, name string, args ...string) *exec.Cmd

	// StartDetached starts a command in its own session and does not wait for it
	StartDetached(ctx context.Context, dir string, name string, args ...string) error
}

// OSCommandRunner is the default implementation using os/exec
type OSCommandRunner struct {
	commandCache sync.Map // map[string]bool
}

// NewOSCommandRunner creates a new OSCommandRunner instance
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// CommandExists checks if a command is available in PATH. Names containing
// a slash are checked directly.
func (r *OSCommandRunner) CommandExists(name string) bool {
	if cached, ok := r.commandCache.Load(name); ok {
		if exists, ok := cached.(bool); ok {
			return exists
		}
		r.commandCache.Delete(name)
	}

	_, err := exec.LookPath(name)
	exists := err == nil
	r.commandCache.Store(name, exists)
	return exists
}

// RunCommandWithOutput runs a command and returns both stdout and stderr
func (r *OSCommandRunner) RunCommandWithOutput(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		err = fmt.Errorf("command %q failed: %w", name, err)
	}

	return stdout, stderr, err
}

// PrepareCommand prepares a command but does not execute it
// Callers can configure Stdout/Stderr/Stdin and other settings before calling Run() or Start()
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) PrepareCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// StartDetached starts a command that outlives gerard. Cancelling ctx
// before the start aborts it; cancelling afterwards does not kill the child.
func (r *OSCommandRunner) StartDetached(ctx context.Context, dir string, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := r.PrepareCommand(context.WithoutCancel(ctx), name, args...)
	cmd.Dir = dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", name, err)
	}

	return cmd.Process.Release()
}

// ValidateDesktopFile validates a .desktop file with desktop-file-validate
// and returns its output. Returns (validationOutput, isValid, error); a
// missing validator counts as valid.
func ValidateDesktopFile(runner CommandRunner, desktopFilePath string) (string, bool, error) {
	if !runner.CommandExists("desktop-file-validate") {
		return "", true, nil // Tool not available, skip validation
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stdout, stderr, err := runner.RunCommandWithOutput(ctx, "desktop-file-validate", desktopFilePath)

	// Combine stdout and stderr for validation output
	output := stdout
	if stderr != "" {
		if output != "" {
			output += "\n"
		}
		output += stderr
	}

	// desktop-file-validate returns non-zero for errors/warnings
	if err != nil {
		return output, false, nil // Invalid but not a command execution error
	}

	return output, true, nil
}
