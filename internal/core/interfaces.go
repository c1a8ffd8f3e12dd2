package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntry is returned when an entry cannot be accepted into the collection
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrLaunchFailed is returned when the launch collaborator could not start a program
	ErrLaunchFailed = errors.New("launch failed")
)

// EntryError describes why an entry was rejected
type EntryError struct {
	DesktopFile string
	Reason      string
}

func (e *EntryError) Error() string {
	if e.DesktopFile == "" {
		return fmt.Sprintf("invalid entry: %s", e.Reason)
	}
	return fmt.Sprintf("invalid entry %s: %s", e.DesktopFile, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidEntry
func (e *EntryError) Unwrap() error {
	return ErrInvalidEntry
}

// LaunchError describes a failed launch attempt
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Name, e.Err)
}

// Unwrap exposes both ErrLaunchFailed and the underlying cause
func (e *LaunchError) Unwrap() []error {
	return []error{ErrLaunchFailed, e.Err}
}
