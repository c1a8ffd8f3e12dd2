package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/db"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return newHistoryCmd(cfg, log, &ui.TerminalPrompter{})
}

func newHistoryCmd(cfg *config.Config, log *zerolog.Logger, prompter ui.Prompter) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
		clearAll   bool
		deleteID   string
		yes        bool
		top        bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently launched applications",
		Long: `Show the applications gerard launched, newest first. History is only
kept while launch.record_history is enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Open database
			database, err := db.New(ctx, cfg.Paths.DBFile)
			if err != nil {
				ui.PrintError("failed to open database: %v", err)
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			if deleteID != "" {
				if err := database.Delete(ctx, deleteID); err != nil {
					ui.PrintError("failed to delete launch record: %v", err)
					return fmt.Errorf("delete launch: %w", err)
				}
				log.Info().Str("launch_id", deleteID).Msg("deleted launch record")
				fmt.Fprintln(cmd.OutOrStdout(), ui.SprintSuccess("Removed launch record %s", deleteID))
				return nil
			}

			if clearAll {
				if !yes {
					ok, err := prompter.Confirm("Delete all launch history")
					if err != nil {
						return err
					}
					if !ok {
						ui.PrintInfo("History kept")
						return nil
					}
				}

				n, err := database.Clear(ctx)
				if err != nil {
					ui.PrintError("failed to clear history: %v", err)
					return fmt.Errorf("clear history: %w", err)
				}

				log.Info().Int64("deleted", n).Msg("cleared launch history")
				fmt.Fprintln(cmd.OutOrStdout(), ui.SprintSuccess("Removed %d launch records", n))
				return nil
			}

			if top {
				usage, err := database.MostLaunched(ctx, limit)
				if err != nil {
					ui.PrintError("failed to read history: %v", err)
					return fmt.Errorf("most launched: %w", err)
				}
				if jsonOutput {
					return writeJSON(cmd, usage)
				}
				if len(usage) == 0 {
					ui.PrintInfo("No launches recorded yet")
					return nil
				}
				printUsageTable(cmd, usage)
				return nil
			}

			launches, err := database.List(ctx, limit)
			if err != nil {
				ui.PrintError("failed to read history: %v", err)
				return fmt.Errorf("list launches: %w", err)
			}
			if jsonOutput {
				if launches == nil {
					launches = []db.Launch{}
				}
				return writeJSON(cmd, launches)
			}
			if len(launches) == 0 {
				ui.PrintInfo("No launches recorded yet")
				return nil
			}
			printLaunchTable(cmd, launches)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of records (0 = all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all launch history")
	cmd.Flags().StringVar(&deleteID, "delete", "", "delete one launch record by ID")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&top, "top", false, "show the most launched applications")

	cmd.MarkFlagsMutuallyExclusive("clear", "delete", "top")

	return cmd
}

// printLaunchTable prints launches newest first
func printLaunchTable(cmd *cobra.Command, launches []db.Launch) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"ID", "Launched", "Name", "Exec"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, l := range launches {
		table.Append(
			l.LaunchID,
			l.LaunchedAt.Local().Format("2006-01-02 15:04"),
			ui.DisplayText(l.Name, 40),
			ui.DisplayText(l.Exec, 50),
		)
	}

	table.Render()
}

// printUsageTable prints per-application launch counts
func printUsageTable(cmd *cobra.Command, usage []db.Usage) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Name", "Launches", "Last Launch"}),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, u := range usage {
		table.Append(
			ui.DisplayText(u.Name, 40),
			strconv.Itoa(u.Count),
			u.LastLaunch.Local().Format("2006-01-02 15:04"),
		)
	}

	table.Render()
}
