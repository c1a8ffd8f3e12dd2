package launch

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kballard/go-shellquote"
	"github.com/quantmind-br/gerard/internal/helpers"
)

type terminalEmulator struct {
	name     string
	execFlag string
}

// probed in order when no terminal is configured
var knownTerminals = []terminalEmulator{
	{name: "x-terminal-emulator", execFlag: "-e"},
	{name: "foot"},
	{name: "kitty"},
	{name: "alacritty", execFlag: "-e"},
	{name: "xterm", execFlag: "-e"},
}

// ErrNoTerminal is returned when a terminal application is launched and no
// terminal emulator can be found
var ErrNoTerminal = errors.New("no terminal emulator found")

// TerminalCommand returns the argv prefix used to run a program inside a
// terminal. A configured command is used verbatim; otherwise $TERMINAL is
// tried, then the known emulators in order.
func TerminalCommand(configured string, getenv func(string) string, runner helpers.CommandRunner) ([]string, error) {
	if configured != "" {
		argv, err := shellquote.Split(configured)
		if err != nil {
			return nil, fmt.Errorf("parse terminal %q: %w", configured, err)
		}
		if len(argv) == 0 {
			return nil, ErrNoTerminal
		}
		return argv, nil
	}

	if env := getenv("TERMINAL"); env != "" {
		argv, err := shellquote.Split(env)
		if err == nil && len(argv) > 0 && runner.CommandExists(argv[0]) {
			if len(argv) == 1 {
				argv = append(argv, execFlagFor(argv[0])...)
			}
			return argv, nil
		}
	}

	for _, term := range knownTerminals {
		if runner.CommandExists(term.name) {
			return append([]string{term.name}, execFlagFor(term.name)...), nil
		}
	}

	return nil, ErrNoTerminal
}

func execFlagFor(program string) []string {
	base := filepath.Base(program)
	for _, term := range knownTerminals {
		if term.name == base {
			if term.execFlag == "" {
				return nil
			}
			return []string{term.execFlag}
		}
	}
	return []string{"-e"}
}
