// Package launch starts the program behind a launcher entry.
package launch

import (
	"context"
	"fmt"
	"os"

	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/helpers"
	"github.com/quantmind-br/gerard/internal/security"
	"github.com/rs/zerolog"
)

// Launcher starts the program described by a launch target
type Launcher interface {
	Launch(ctx context.Context, target core.LaunchTarget) error
}

// Func adapts a function to the Launcher interface
type Func func(ctx context.Context, target core.LaunchTarget) error

// Launch implements Launcher
func (f Func) Launch(ctx context.Context, target core.LaunchTarget) error {
	return f(ctx, target)
}

// ExecLauncher launches desktop entries as detached child processes
type ExecLauncher struct {
	runner   helpers.CommandRunner
	terminal string
	getenv   func(string) string
	log      *zerolog.Logger
}

// Option configures an ExecLauncher
type Option func(*ExecLauncher)

// WithTerminal sets the terminal command used for Terminal=true entries
func WithTerminal(terminal string) Option {
	return func(l *ExecLauncher) {
		l.terminal = terminal
	}
}

// WithEnv replaces the environment lookup used for $TERMINAL
func WithEnv(getenv func(string) string) Option {
	return func(l *ExecLauncher) {
		l.getenv = getenv
	}
}

// NewExecLauncher creates an ExecLauncher
func NewExecLauncher(runner helpers.CommandRunner, log *zerolog.Logger, opts ...Option) *ExecLauncher {
	l := &ExecLauncher{
		runner: runner,
		getenv: os.Getenv,
		log:    log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Command returns the argument vector Launch would start for target
func (l *ExecLauncher) Command(target core.LaunchTarget) ([]string, error) {
	argv, err := ExpandExec(target)
	if err != nil {
		return nil, err
	}

	if target.TryExec != "" && !l.runner.CommandExists(target.TryExec) {
		return nil, fmt.Errorf("TryExec %q not found", target.TryExec)
	}
	if !l.runner.CommandExists(argv[0]) {
		return nil, fmt.Errorf("program %q not found", argv[0])
	}

	if target.Terminal {
		prefix, err := TerminalCommand(l.terminal, l.getenv, l.runner)
		if err != nil {
			return nil, err
		}
		argv = append(prefix, argv...)
	}

	if err := security.ValidateArgv(argv); err != nil {
		return nil, err
	}

	return argv, nil
}

// Launch starts target without waiting for it. Every failure is a
// *core.LaunchError wrapping core.ErrLaunchFailed.
func (l *ExecLauncher) Launch(ctx context.Context, target core.LaunchTarget) error {
	argv, err := l.Command(target)
	if err != nil {
		return &core.LaunchError{Name: target.Name, Err: err}
	}

	if err := security.ValidateWorkDir(target.WorkDir); err != nil {
		return &core.LaunchError{Name: target.Name, Err: err}
	}

	l.log.Debug().
		Str("name", target.Name).
		Strs("argv", argv).
		Str("dir", target.WorkDir).
		Bool("terminal", target.Terminal).
		Msg("launching")

	if err := l.runner.StartDetached(ctx, target.WorkDir, argv[0], argv[1:]...); err != nil {
		return &core.LaunchError{Name: target.Name, Err: err}
	}

	l.log.Info().Str("name", target.Name).Str("program", argv[0]).Msg("launched")
	return nil
}
