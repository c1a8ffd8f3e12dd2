package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/ranking"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command
func NewSearchCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
		algorithm  string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank applications against a query",
		Long: `Rank the installed applications against a query and print the matches,
best first. Applications whose names do not contain the query letters in
order are left out.`,
		Args: requireQuery,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := queryArg(args)

			pipeline, err := loadPipeline(cmd.Context(), cmd, cfg, log, algorithm)
			if err != nil {
				ui.PrintError("failed to load applications: %v", err)
				return fmt.Errorf("load applications: %w", err)
			}

			pipeline.SetQuery(query)
			results := pipeline.Top(limit)

			if jsonOutput {
				return writeJSON(cmd, resultsJSON(results))
			}

			if len(results) == 0 {
				ui.PrintWarning("No applications match %q", query)
				return nil
			}

			printResultsTable(cmd, results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().IntVarP(&limit, "limit", "n", cfg.Search.Limit, "maximum number of results (0 = all)")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", algorithmUsage())

	return cmd
}

// printResultsTable prints ranked results with their scores
func printResultsTable(cmd *cobra.Command, results []ranking.Result) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"#", "Name", "Score", "Comment"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	best := results[0].Score
	for i, r := range results {
		table.Append(
			strconv.Itoa(i+1),
			ui.DisplayText(r.Entry.Name(), 40),
			ui.ColorizeScore(r.Score, best),
			ui.DisplayText(r.Entry.Comment(), 50),
		)
	}

	table.Render()
}
