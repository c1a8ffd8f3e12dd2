package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/db"
	"github.com/quantmind-br/gerard/internal/desktop"
	"github.com/quantmind-br/gerard/internal/helpers"
	"github.com/quantmind-br/gerard/internal/launch"
	"github.com/quantmind-br/gerard/internal/launcher"
	"github.com/quantmind-br/gerard/internal/logging"
	"github.com/quantmind-br/gerard/internal/matcher"
	"github.com/quantmind-br/gerard/internal/paths"
	"github.com/quantmind-br/gerard/internal/ranking"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	// ErrNoMatch is returned when a query leaves nothing to act on
	ErrNoMatch = errors.New("no matching application")
	// ErrUsage wraps invalid flags and missing arguments
	ErrUsage = errors.New("invalid usage")
)

// usageError reports err and marks it as a usage error
func usageError(err error) error {
	ui.PrintError("%v", err)
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

// requireQuery is a cobra.PositionalArgs demanding at least one query word
func requireQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(fmt.Errorf("%s requires a query", cmd.Name()))
	}
	return nil
}

func algorithmUsage() string {
	return fmt.Sprintf("matching algorithm (%s)", strings.Join(matcher.Algorithms(), ", "))
}

// loadPipeline scans the application directories and returns a ranking
// pipeline over what was found. An empty algorithm uses the configured one.
func loadPipeline(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log *zerolog.Logger, algorithm string) (*ranking.Pipeline, error) {
	if algorithm == "" {
		algorithm = cfg.Search.Algorithm
	}
	m, err := matcher.New(algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	resolver := paths.NewResolver(cfg)
	dirs := resolver.ApplicationDirs()

	stderr := cmd.ErrOrStderr()
	progress := ui.NewScanProgress(stderr, ui.IsTerminal(stderr))

	scanner := desktop.NewScanner(afero.NewOsFs(), dirs, logging.Component(log, "desktop"),
		desktop.WithLocale(resolver.Locale()),
		desktop.WithHidden(cfg.Desktop.IncludeHidden),
		desktop.WithProgress(progress.Visit),
	)

	entries, err := scanner.Scan(ctx)
	progress.Done()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn().Err(err).Msg("some desktop files could not be read")
	}

	log.Debug().
		Int("files", progress.Count()).
		Int("entries", len(entries)).
		Str("algorithm", algorithm).
		Msg("loaded applications")

	return ranking.New(m,
		ranking.WithLogger(logging.Component(log, "ranking")),
		ranking.WithEntries(entries...),
	), nil
}

// newLauncher builds the process launcher from the launch config
func newLauncher(cfg *config.Config, log *zerolog.Logger, runner helpers.CommandRunner) *launch.ExecLauncher {
	return launch.NewExecLauncher(runner, logging.Component(log, "launch"),
		launch.WithTerminal(cfg.Launch.Terminal),
	)
}

// newSession wires a pipeline to a launcher and, when enabled, the launch
// history. The returned close function releases the history database.
func newSession(ctx context.Context, cfg *config.Config, log *zerolog.Logger, p *ranking.Pipeline, l launch.Launcher) (*launcher.Session, func()) {
	closeFn := func() {}
	var opts []launcher.Option

	if cfg.Launch.RecordHistory && cfg.Paths.DBFile != "" {
		database, err := db.New(ctx, cfg.Paths.DBFile)
		if err != nil {
			log.Warn().Err(err).Msg("launch history unavailable")
		} else {
			opts = append(opts, launcher.WithRecorder(database))
			closeFn = func() { _ = database.Close() }
		}
	}

	return launcher.NewSession(p, l, logging.Component(log, "session"), opts...), closeFn
}

// writeJSON writes v to the command's output as indented JSON
func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// queryArg joins positional arguments into one query
func queryArg(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// entryJSON is the machine-readable form of an entry
type entryJSON struct {
	Rank       int               `json:"rank,omitempty"`
	Name       string            `json:"name"`
	Score      *int              `json:"score,omitempty"`
	Comment    string            `json:"comment,omitempty"`
	Icon       string            `json:"icon,omitempty"`
	Categories []string          `json:"categories,omitempty"`
	Keywords   []string          `json:"keywords,omitempty"`
	Target     core.LaunchTarget `json:"target"`
}

func toEntryJSON(e *core.Entry) entryJSON {
	return entryJSON{
		Name:       e.Name(),
		Comment:    e.Comment(),
		Icon:       string(e.Icon()),
		Categories: e.Categories(),
		Keywords:   e.Keywords(),
		Target:     e.Target(),
	}
}

func resultsJSON(results []ranking.Result) []entryJSON {
	out := make([]entryJSON, 0, len(results))
	for i, r := range results {
		item := toEntryJSON(r.Entry)
		score := r.Score
		item.Rank = i + 1
		item.Score = &score
		out = append(out, item)
	}
	return out
}

func noMatch(query string) error {
	return fmt.Errorf("%w for %q", ErrNoMatch, query)
}
