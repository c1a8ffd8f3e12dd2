package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/db"
	"github.com/quantmind-br/gerard/internal/fsops"
	"github.com/quantmind-br/gerard/internal/helpers"
	"github.com/quantmind-br/gerard/internal/launch"
	"github.com/quantmind-br/gerard/internal/matcher"
	"github.com/quantmind-br/gerard/internal/paths"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// diagnosis collects the outcome of doctor checks
type diagnosis struct {
	w        io.Writer
	issues   []string
	warnings []string
}

func (d *diagnosis) ok(format string, args ...interface{}) {
	fmt.Fprintln(d.w, ui.SprintSuccess(format, args...))
}

func (d *diagnosis) note(format string, args ...interface{}) {
	fmt.Fprintf(d.w, "%s %s\n", ui.Arrow, fmt.Sprintf(format, args...))
}

func (d *diagnosis) warn(summary, format string, args ...interface{}) {
	fmt.Fprintln(d.w, ui.Warning.Sprintf("! %s", fmt.Sprintf(format, args...)))
	d.warnings = append(d.warnings, summary)
}

func (d *diagnosis) fail(summary, format string, args ...interface{}) {
	fmt.Fprintln(d.w, ui.SprintError(format, args...))
	d.issues = append(d.issues, summary)
}

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return newDoctorCmd(cfg, log, helpers.NewOSCommandRunner(), afero.NewOsFs(), os.Getenv)
}

func newDoctorCmd(cfg *config.Config, log *zerolog.Logger, runner helpers.CommandRunner, fs afero.Fs, getenv func(string) string) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the launcher setup",
		Long: `Check where applications and icons are read from, whether a terminal is
available for terminal applications, and whether launch history can be stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			d := &diagnosis{w: w}
			resolver := paths.NewResolver(cfg)

			ui.FprintHeader(w, "System Diagnostics")
			fmt.Fprintln(w)

			// 1. Application directories
			ui.FprintSubheader(w, "Application Directories")
			found := 0
			for _, dir := range resolver.ApplicationDirs() {
				n, err := fsops.CountFiles(fs, dir, ".desktop")
				switch {
				case err != nil:
					d.warn("Unreadable directory: "+dir, "%s: %v", dir, err)
				case !fsops.IsDir(fs, dir):
					if verbose {
						d.note("%s: not present", dir)
					}
				default:
					found++
					d.ok("%s: %d desktop files", dir, n)
				}
			}
			if found == 0 {
				d.fail("No application directory found", "no application directory found")
			}

			fmt.Fprintln(w)

			// 2. Applications
			ui.FprintSubheader(w, "Applications")
			pipeline, err := loadPipeline(cmd.Context(), cmd, cfg, log, "")
			if err != nil {
				d.fail(fmt.Sprintf("Cannot load applications: %v", err), "cannot load applications: %v", err)
			} else if pipeline.Len() == 0 {
				d.fail("No launchable applications", "no launchable applications found")
			} else {
				d.ok("%d launchable applications", pipeline.Len())
			}

			fmt.Fprintln(w)

			// 3. Icons
			ui.FprintSubheader(w, "Icon Directories")
			iconDirs := 0
			for _, dir := range resolver.IconDirs() {
				if fsops.IsDir(fs, dir) {
					iconDirs++
					if verbose {
						d.ok("%s", dir)
					}
				}
			}
			if iconDirs == 0 {
				d.warn("No icon directory found", "no icon directory found, icons will not resolve")
			} else {
				d.ok("%d icon directories", iconDirs)
			}

			fmt.Fprintln(w)

			// 4. Launching
			ui.FprintSubheader(w, "Launching")
			if term, err := launch.TerminalCommand(cfg.Launch.Terminal, getenv, runner); err != nil {
				d.warn("No terminal emulator", "terminal: %v (terminal applications cannot start)", err)
			} else {
				d.ok("terminal: %s", strings.Join(term, " "))
			}
			if runner.CommandExists("desktop-file-validate") {
				d.ok("desktop-file-validate: found")
			} else {
				d.warn("Optional dependency missing: desktop-file-validate", "desktop-file-validate: not found (optional - validate desktop files)")
			}

			fmt.Fprintln(w)

			// 5. Matching
			ui.FprintSubheader(w, "Matching")
			if _, err := matcher.New(cfg.Search.Algorithm); err != nil {
				d.fail(fmt.Sprintf("Invalid search.algorithm %q", cfg.Search.Algorithm), "%v", err)
			} else {
				algorithm := cfg.Search.Algorithm
				if algorithm == "" {
					algorithm = matcher.AlgorithmFZF
				}
				d.ok("algorithm: %s", algorithm)
			}

			fmt.Fprintln(w)

			// 6. History
			ui.FprintSubheader(w, "History")
			checkHistory(cmd, cfg, fs, d)

			fmt.Fprintln(w)

			// Summary
			ui.FprintHeader(w, "Summary")
			fmt.Fprintln(w)

			if len(d.issues) == 0 {
				d.ok("All critical checks passed!")
			} else {
				fmt.Fprintln(w, ui.SprintError("Found %d issue(s):", len(d.issues)))
				ui.FprintList(w, d.issues)
			}

			if len(d.warnings) > 0 {
				fmt.Fprintln(w, ui.Warning.Sprintf("Found %d warning(s):", len(d.warnings)))
				ui.FprintList(w, d.warnings)
			}

			log.Debug().
				Int("issues", len(d.issues)).
				Int("warnings", len(d.warnings)).
				Msg("doctor finished")

			if len(d.issues) > 0 {
				return fmt.Errorf("system check failed with %d issue(s)", len(d.issues))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also list missing and icon directories")

	return cmd
}

// checkHistory verifies the history database location is usable
func checkHistory(cmd *cobra.Command, cfg *config.Config, fs afero.Fs, d *diagnosis) {
	if !cfg.Launch.RecordHistory {
		d.note("history recording disabled")
		return
	}
	if cfg.Paths.DBFile == "" {
		d.warn("No history database configured", "paths.db_file is empty")
		return
	}

	dir := fsops.NearestExisting(fs, filepath.Dir(cfg.Paths.DBFile))
	if err := fsops.CheckWritable(fs, dir); err != nil {
		d.fail("History directory not writable: "+dir, "%s: %v", dir, err)
		return
	}

	if !fsops.Exists(fs, cfg.Paths.DBFile) {
		d.ok("database: %s (created on first launch)", cfg.Paths.DBFile)
		return
	}

	database, err := db.New(cmd.Context(), cfg.Paths.DBFile)
	if err != nil {
		d.fail(fmt.Sprintf("Cannot open database: %v", err), "database: %v", err)
		return
	}
	defer func() { _ = database.Close() }()

	launches, err := database.List(cmd.Context(), 0)
	if err != nil {
		d.warn("Cannot read launch history", "cannot read launch history: %v", err)
		return
	}
	d.ok("database: %s (%d launches)", cfg.Paths.DBFile, len(launches))
}
