package cmd

import (
	"errors"
	"fmt"

	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/helpers"
	"github.com/quantmind-br/gerard/internal/launch"
	"github.com/quantmind-br/gerard/internal/ranking"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const refineLabel = "↻ Refine search…"

// NewPickCmd creates the interactive pick command
func NewPickCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return newPickCmd(cfg, log, &ui.TerminalPrompter{Size: 12}, newLauncher(cfg, log, helpers.NewOSCommandRunner()))
}

func newPickCmd(cfg *config.Config, log *zerolog.Logger, prompter ui.Prompter, l launch.Launcher) *cobra.Command {
	var (
		algorithm string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "pick [query]",
		Short: "Interactively choose an application to launch",
		Long: `Prompt for a query, show the ranked matches and launch the one you pick.
An empty query lists every application. Choose "Refine search" to change
the query without leaving the picker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pipeline, err := loadPipeline(ctx, cmd, cfg, log, algorithm)
			if err != nil {
				ui.PrintError("failed to load applications: %v", err)
				return fmt.Errorf("load applications: %w", err)
			}
			if pipeline.Len() == 0 {
				ui.PrintWarning("No applications found")
				return ErrNoMatch
			}

			var view []ranking.Result
			unsubscribe := pipeline.Subscribe(func(v []ranking.Result) {
				view = v
			})
			defer unsubscribe()

			session, closeSession := newSession(ctx, cfg, log, pipeline, l)
			defer closeSession()

			query := queryArg(args)
			asked := len(args) > 0
			for {
				if err := ctx.Err(); err != nil {
					return err
				}

				if !asked {
					query, err = prompter.Input("Search", query)
					if err != nil {
						return promptError(err)
					}
				}
				asked = false

				pipeline.SetQuery(query)
				shown := view
				if limit > 0 && len(shown) > limit {
					shown = shown[:limit]
				}

				if len(shown) == 0 {
					ui.PrintWarning("No applications match %q", query)
					continue
				}

				idx, err := prompter.Select(pickLabel(query, len(view)), pickOptions(shown))
				if err != nil {
					return promptError(err)
				}
				if idx == len(shown) {
					continue
				}

				entry, err := session.ActivateSelection(ctx, idx)
				if err != nil {
					if !errors.Is(err, ui.ErrCancelled) {
						ui.PrintError("%v", err)
					}
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), ui.SprintSuccess("Launched %s", entry.Name()))
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", algorithmUsage())
	cmd.Flags().IntVarP(&limit, "limit", "n", cfg.Search.Limit, "maximum number of choices shown (0 = all)")

	return cmd
}

func pickLabel(query string, matches int) string {
	if query == "" {
		return fmt.Sprintf("All applications (%d)", matches)
	}
	return fmt.Sprintf("Matches for %q (%d)", query, matches)
}

// pickOptions turns results into select options followed by the refine item
func pickOptions(results []ranking.Result) []ui.SelectOption {
	options := make([]ui.SelectOption, 0, len(results)+1)
	for _, r := range results {
		options = append(options, ui.SelectOption{
			Label:  ui.DisplayText(r.Entry.Name(), 40),
			Detail: ui.DisplayText(r.Entry.Comment(), 60),
			Value:  r.Entry.Name(),
		})
	}
	return append(options, ui.SelectOption{Label: refineLabel})
}

// promptError reports prompt failures other than the user cancelling
func promptError(err error) error {
	if !errors.Is(err, ui.ErrCancelled) {
		ui.PrintError("prompt failed: %v", err)
	}
	return err
}
