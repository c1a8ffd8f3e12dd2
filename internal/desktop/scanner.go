package desktop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/gerard/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Scanner enumerates launchable entries from application directories
type Scanner struct {
	fs            afero.Fs
	dirs          []string
	locale        string
	includeHidden bool
	log           *zerolog.Logger
	onFile        func(path string)
}

// ScannerOption configures a Scanner
type ScannerOption func(*Scanner)

// WithLocale selects which translated names are preferred
func WithLocale(locale string) ScannerOption {
	return func(s *Scanner) {
		s.locale = locale
	}
}

// WithHidden also returns entries marked Hidden or NoDisplay
func WithHidden(include bool) ScannerOption {
	return func(s *Scanner) {
		s.includeHidden = include
	}
}

// WithProgress registers a callback invoked for each .desktop file visited
func WithProgress(fn func(path string)) ScannerOption {
	return func(s *Scanner) {
		s.onFile = fn
	}
}

// NewScanner creates a Scanner reading dirs (in priority order) from fs
func NewScanner(fs afero.Fs, dirs []string, log *zerolog.Logger, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		fs:   fs,
		dirs: dirs,
		log:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the entries found, in directory order and then file-name
// order. Entries sharing a name across directories are all kept. Per-file
// failures are joined into the returned error alongside whatever was found;
// missing directories are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]*core.Entry, error) {
	entries := make([]*core.Entry, 0, 128)
	seen := make(map[string]struct{})
	var errs []error

	for _, dir := range s.dirs {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		infos, err := afero.ReadDir(s.fs, dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			errs = append(errs, fmt.Errorf("read dir %s: %w", dir, err))
			continue
		}

		for _, info := range infos {
			if info.IsDir() || !strings.HasSuffix(info.Name(), ".desktop") {
				continue
			}

			path := filepath.Join(dir, info.Name())
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}

			if s.onFile != nil {
				s.onFile(path)
			}

			entry, err := s.load(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if entry != nil {
				entries = append(entries, entry)
			}
		}
	}

	s.log.Debug().
		Int("dirs", len(s.dirs)).
		Int("entries", len(entries)).
		Int("errors", len(errs)).
		Msg("scanned application directories")

	return entries, errors.Join(errs...)
}

// load parses one desktop file. A nil entry with nil error means the file
// was skipped on purpose.
func (s *Scanner) load(path string) (*core.Entry, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	de, err := ParseLocale(f, s.locale)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if !Launchable(de, s.includeHidden) {
		s.log.Trace().Str("path", path).Str("type", de.Type).Msg("skipping non-launchable entry")
		return nil, nil
	}

	entry, err := de.ToEntry(path)
	if err != nil {
		if errors.Is(err, core.ErrInvalidEntry) {
			s.log.Debug().Err(err).Msg("skipping invalid entry")
			return nil, nil
		}
		return nil, err
	}

	return entry, nil
}
