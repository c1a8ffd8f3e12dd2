package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/desktop"
	"github.com/quantmind-br/gerard/internal/helpers"
	"github.com/quantmind-br/gerard/internal/icons"
	"github.com/quantmind-br/gerard/internal/logging"
	"github.com/quantmind-br/gerard/internal/paths"
	"github.com/quantmind-br/gerard/internal/ranking"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// appInfo is everything info reports about one application
type appInfo struct {
	entryJSON
	Command          []string `json:"command,omitempty"`
	CommandError     string   `json:"command_error,omitempty"`
	IconFile         string   `json:"icon_file,omitempty"`
	IconSize         string   `json:"icon_size,omitempty"`
	Valid            bool     `json:"valid"`
	ValidationOutput string   `json:"validation_output,omitempty"`
}

// NewInfoCmd creates the info command
func NewInfoCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return newInfoCmd(cfg, log, helpers.NewOSCommandRunner(), afero.NewOsFs())
}

func newInfoCmd(cfg *config.Config, log *zerolog.Logger, runner helpers.CommandRunner, fs afero.Fs) *cobra.Command {
	var (
		jsonOutput bool
		rawEntry   bool
		algorithm  string
	)

	cmd := &cobra.Command{
		Use:   "info <query>",
		Short: "Show application information",
		Long: `Show detailed information about the best match for a query: how it
would be launched, where its icon lives and whether its desktop file is valid.`,
		Args: requireQuery,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := queryArg(args)

			pipeline, err := loadPipeline(cmd.Context(), cmd, cfg, log, algorithm)
			if err != nil {
				ui.PrintError("failed to load applications: %v", err)
				return fmt.Errorf("load applications: %w", err)
			}

			pipeline.SetQuery(query)
			view := pipeline.View()
			if len(view) == 0 {
				ui.PrintError("application not found: %s", query)
				ui.PrintInfo("Use 'gerard list' to see installed applications")
				return noMatch(query)
			}

			if rawEntry {
				locale := paths.NewResolver(cfg).Locale()
				return writeDesktopEntry(fs, cmd.OutOrStdout(), view[0].Entry.Target().DesktopFile, locale)
			}

			info := describe(cfg, log, runner, fs, view[0])

			log.Debug().
				Str("query", query).
				Str("name", info.Name).
				Msg("displayed application info")

			if jsonOutput {
				return writeJSON(cmd, info)
			}

			printAppInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&rawEntry, "desktop", false, "print the normalized desktop entry")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", algorithmUsage())
	cmd.MarkFlagsMutuallyExclusive("json", "desktop")

	return cmd
}

// writeDesktopEntry re-renders a desktop file with the keys gerard understands
func writeDesktopEntry(fs afero.Fs, w io.Writer, path, locale string) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("open desktop file: %w", err)
	}
	defer f.Close()

	de, err := desktop.ParseLocale(f, locale)
	if err != nil {
		return fmt.Errorf("parse desktop file: %w", err)
	}
	return desktop.Write(w, de)
}

// describe gathers launch, icon and validation details for a ranked entry
func describe(cfg *config.Config, log *zerolog.Logger, runner helpers.CommandRunner, fs afero.Fs, r ranking.Result) appInfo {
	e := r.Entry
	target := e.Target()
	score := r.Score

	info := appInfo{entryJSON: toEntryJSON(e), Valid: true}
	info.Score = &score

	argv, err := newLauncher(cfg, log, runner).Command(target)
	if err != nil {
		info.CommandError = err.Error()
	} else {
		info.Command = argv
	}

	if e.Icon() != "" {
		resolver := icons.NewResolver(fs, paths.NewResolver(cfg).IconDirs(), logging.Component(log, "icons"))
		if file, ok := resolver.Lookup(e.Icon(), target.DesktopFile); ok {
			info.IconFile = file.Path
			info.IconSize = file.Size
			if info.IconSize == "" {
				info.IconSize = icons.DetectIconSize(fs, file.Path)
			}
		}
	}

	if target.DesktopFile != "" {
		info.Valid, info.ValidationOutput = validate(runner, fs, log, target.DesktopFile)
	}

	return info
}

// validate checks a desktop file with desktop-file-validate, or with the
// built-in required-key check when the tool is not installed
func validate(runner helpers.CommandRunner, fs afero.Fs, log *zerolog.Logger, path string) (bool, string) {
	if runner.CommandExists("desktop-file-validate") {
		output, valid, err := helpers.ValidateDesktopFile(runner, path)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("desktop file validation failed to run")
		}
		return valid, strings.TrimSpace(output)
	}

	f, err := fs.Open(path)
	if err != nil {
		return false, err.Error()
	}
	defer f.Close()

	de, err := desktop.Parse(f)
	if err != nil {
		return false, err.Error()
	}
	if err := desktop.Validate(de); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// printAppInfo displays detailed application information
func printAppInfo(w io.Writer, info appInfo) {
	ui.FprintHeader(w, fmt.Sprintf("Application: %s", ui.DisplayText(info.Name, 0)))
	fmt.Fprintln(w)

	ui.FprintKeyValue(w, "Name", ui.DisplayText(info.Name, 0))
	if info.Comment != "" {
		ui.FprintKeyValue(w, "Comment", ui.DisplayText(info.Comment, 0))
	}
	if len(info.Categories) > 0 {
		ui.FprintKeyValue(w, "Categories", strings.Join(info.Categories, ", "))
	}
	if len(info.Keywords) > 0 {
		ui.FprintKeyValue(w, "Keywords", ui.DisplayText(strings.Join(info.Keywords, ", "), 0))
	}
	if info.Score != nil {
		ui.FprintKeyValue(w, "Score", fmt.Sprintf("%d", *info.Score))
	}

	fmt.Fprintln(w)
	ui.FprintSubheader(w, "Launch")

	ui.FprintKeyValue(w, "Exec", ui.DisplayText(info.Target.Exec, 0))
	if info.CommandError != "" {
		ui.FprintKeyValue(w, "Command", ui.SprintError("%s", info.CommandError))
	} else {
		ui.FprintKeyValue(w, "Command", shellquote.Join(info.Command...))
	}
	ui.FprintKeyValue(w, "Terminal", yesNo(info.Target.Terminal))
	if info.Target.WorkDir != "" {
		ui.FprintKeyValue(w, "Working Dir", info.Target.WorkDir)
	}

	fmt.Fprintln(w)
	ui.FprintSubheader(w, "Files")

	desktopFile := info.Target.DesktopFile
	if desktopFile == "" {
		desktopFile = "(none)"
	}
	ui.FprintKeyValue(w, "Desktop File", desktopFile)
	ui.FprintKeyValue(w, "Icon", iconSummary(info))

	if !info.Valid {
		ui.FprintKeyValue(w, "Validation", ui.SprintError("desktop file has problems"))
		if info.ValidationOutput != "" {
			ui.FprintList(w, strings.Split(info.ValidationOutput, "\n"))
		}
	}

	fmt.Fprintln(w)
}

func iconSummary(info appInfo) string {
	switch {
	case info.Icon == "":
		return "(none)"
	case info.IconFile == "":
		return fmt.Sprintf("%s (not found)", info.Icon)
	case info.IconSize != "":
		return fmt.Sprintf("%s (%s)", info.IconFile, info.IconSize)
	default:
		return info.IconFile
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

