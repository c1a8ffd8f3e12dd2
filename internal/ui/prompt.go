package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("cancelled by user")

// SelectOption is one row of a detailed selection list
type SelectOption struct {
	Label  string
	Detail string
	Value  string
}

// Prompter asks the user for input
type Prompter interface {
	Input(label, defaultValue string) (string, error)
	Select(label string, options []SelectOption) (int, error)
	Confirm(label string) (bool, error)
}

// TerminalPrompter prompts on a terminal with promptui. Nil streams mean
// the process's stdin and stdout.
type TerminalPrompter struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
	// Size is the number of visible rows in selection lists
	Size int
}

// Input asks for free text; empty input is allowed
func (p *TerminalPrompter) Input(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
		Stdin:   p.Stdin,
		Stdout:  p.Stdout,
	}

	result, err := prompt.Run()
	if err != nil {
		return "", cancelled(err, "input")
	}

	return result, nil
}

// Select presents options with details. Typing "/" filters the list with
// a fuzzy match on the label.
func (p *TerminalPrompter) Select(label string, options []SelectOption) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Label | cyan }} {{ .Detail | faint }}",
		Inactive: "  {{ .Label }} {{ .Detail | faint }}",
		Selected: "▸ {{ .Label | green }}",
	}

	size := p.Size
	if size <= 0 {
		size = 10
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: templates,
		Size:      min(size, max(len(options), 1)),
		Searcher:  optionSearcher(options),
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return -1, cancelled(err, "selection")
	}

	return index, nil
}

// Confirm asks a yes/no confirmation question
func (p *TerminalPrompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}

	result, err := prompt.Run()
	if err != nil {
		// promptui reports "no" as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, cancelled(err, "confirmation")
	}

	// promptui returns "y" for yes
	return strings.EqualFold(result, "y"), nil
}

func optionSearcher(options []SelectOption) func(input string, index int) bool {
	return func(input string, index int) bool {
		if index < 0 || index >= len(options) {
			return false
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return true
		}
		return fuzzy.MatchNormalizedFold(input, options[index].Label)
	}
}

func cancelled(err error, what string) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		return fmt.Errorf("%s %w", what, ErrCancelled)
	}
	return err
}

// MockPrompter is a scripted Prompter for tests
type MockPrompter struct {
	InputFunc   func(label, defaultValue string) (string, error)
	SelectFunc  func(label string, options []SelectOption) (int, error)
	ConfirmFunc func(label string) (bool, error)
}

// Input implements Prompter.Input
func (m *MockPrompter) Input(label, defaultValue string) (string, error) {
	if m.InputFunc != nil {
		return m.InputFunc(label, defaultValue)
	}
	return defaultValue, nil
}

// Select implements Prompter.Select
func (m *MockPrompter) Select(label string, options []SelectOption) (int, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(label, options)
	}
	return 0, nil
}

// Confirm implements Prompter.Confirm
func (m *MockPrompter) Confirm(label string) (bool, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(label)
	}
	return false, nil
}
