package cmd

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/helpers"
	"github.com/quantmind-br/gerard/internal/launcher"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command
func NewRunCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return newRunCmd(cfg, log, helpers.NewOSCommandRunner())
}

func newRunCmd(cfg *config.Config, log *zerolog.Logger, runner helpers.CommandRunner) *cobra.Command {
	var (
		algorithm string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "run <query>",
		Short: "Launch the best match for a query",
		Long:  `Rank the installed applications against a query and launch the top result.`,
		Args:  requireQuery,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := queryArg(args)

			pipeline, err := loadPipeline(ctx, cmd, cfg, log, algorithm)
			if err != nil {
				ui.PrintError("failed to load applications: %v", err)
				return fmt.Errorf("load applications: %w", err)
			}

			l := newLauncher(cfg, log, runner)

			if dryRun {
				pipeline.SetQuery(query)
				view := pipeline.View()
				if len(view) == 0 {
					ui.PrintError("no application matches %q", query)
					return noMatch(query)
				}
				argv, err := l.Command(view[0].Entry.Target())
				if err != nil {
					ui.PrintError("%v", err)
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), shellquote.Join(argv...))
				return nil
			}

			session, closeSession := newSession(ctx, cfg, log, pipeline, l)
			defer closeSession()

			entry, err := session.ActivateBest(ctx, query)
			if err != nil {
				if errors.Is(err, launcher.ErrNoSelection) {
					ui.PrintError("no application matches %q", query)
					return noMatch(query)
				}
				ui.PrintError("%v", err)
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.SprintSuccess("Launched %s", entry.Name()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", algorithmUsage())
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the command instead of launching it")

	return cmd
}
