// Package launcher ties the ranking pipeline to activation: picking an
// entry from the current view, launching it, and recording the launch.
package launcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/launch"
	"github.com/quantmind-br/gerard/internal/ranking"
	"github.com/rs/zerolog"
)

// ErrNoSelection is returned when activating an index outside the current view
var ErrNoSelection = errors.New("no entry at selection")

// Recorder stores launches that succeeded
type Recorder interface {
	Record(ctx context.Context, entry *core.Entry) error
}

// RecorderFunc adapts a function to the Recorder interface
type RecorderFunc func(ctx context.Context, entry *core.Entry) error

// Record implements Recorder
func (f RecorderFunc) Record(ctx context.Context, entry *core.Entry) error {
	return f(ctx, entry)
}

// Session is one launcher run: a pipeline the user queries and the
// collaborators that act on the chosen entry
type Session struct {
	pipeline *ranking.Pipeline
	launcher launch.Launcher
	recorder Recorder
	log      *zerolog.Logger
}

// Option configures a Session
type Option func(*Session)

// WithRecorder records each successful launch
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// NewSession creates a Session
func NewSession(p *ranking.Pipeline, l launch.Launcher, log *zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		pipeline: p,
		launcher: l,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pipeline returns the session's ranking pipeline
func (s *Session) Pipeline() *ranking.Pipeline {
	return s.pipeline
}

// Activate launches entry. A launch failure is returned wrapping
// core.ErrLaunchFailed and is never retried. After a successful launch the
// caller is expected to exit.
func (s *Session) Activate(ctx context.Context, entry *core.Entry) error {
	if entry == nil {
		return ErrNoSelection
	}

	if err := s.launcher.Launch(ctx, entry.Target()); err != nil {
		if !errors.Is(err, core.ErrLaunchFailed) {
			err = &core.LaunchError{Name: entry.Name(), Err: err}
		}
		s.log.Error().Err(err).Str("name", entry.Name()).Msg("activation failed")
		return err
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("name", entry.Name()).Msg("failed to record launch")
		}
	}

	return nil
}

// ActivateSelection activates the i-th entry of the current view
func (s *Session) ActivateSelection(ctx context.Context, i int) (*core.Entry, error) {
	view := s.pipeline.View()
	if i < 0 || i >= len(view) {
		return nil, fmt.Errorf("%w: index %d, view has %d entries", ErrNoSelection, i, len(view))
	}

	entry := view[i].Entry
	return entry, s.Activate(ctx, entry)
}

// ActivateBest sets query and activates the top-ranked entry
func (s *Session) ActivateBest(ctx context.Context, query string) (*core.Entry, error) {
	s.pipeline.SetQuery(query)
	return s.ActivateSelection(ctx, 0)
}
