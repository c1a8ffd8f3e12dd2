package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput  bool
		category    string
		showDetails bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed applications",
		Long: `List every launchable application in scan order: user applications
first, then system, flatpak and snap ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := loadPipeline(cmd.Context(), cmd, cfg, log, "")
			if err != nil {
				ui.PrintError("failed to load applications: %v", err)
				return fmt.Errorf("load applications: %w", err)
			}

			entries := filterByCategory(pipeline.Entries(), category)

			// JSON output
			if jsonOutput {
				out := make([]entryJSON, 0, len(entries))
				for _, e := range entries {
					out = append(out, toEntryJSON(e))
				}
				return writeJSON(cmd, out)
			}

			if len(entries) == 0 {
				if category != "" {
					ui.PrintWarning("No applications found in category %q", category)
				} else {
					ui.PrintWarning("No applications found")
				}
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Total: %d applications", pipeline.Len())
			if len(entries) != pipeline.Len() {
				fmt.Fprintf(w, " (showing %d in %s)", len(entries), category)
			}
			fmt.Fprintln(w)

			if showDetails {
				printDetailedEntries(cmd, entries)
			} else {
				printCompactEntries(cmd, entries)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list applications in this category")
	cmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show detailed information")

	return cmd
}

// filterByCategory keeps entries listing category (case-insensitive)
func filterByCategory(entries []*core.Entry, category string) []*core.Entry {
	if category == "" {
		return entries
	}

	filtered := make([]*core.Entry, 0, len(entries))
	for _, e := range entries {
		for _, c := range e.Categories() {
			if strings.EqualFold(c, category) {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered
}

// printCompactEntries prints a compact table view
func printCompactEntries(cmd *cobra.Command, entries []*core.Entry) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Name", "Comment"}),
		tablewriter.WithAlignment(tw.MakeAlign(2, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, e := range entries {
		table.Append(
			ui.DisplayText(e.Name(), 40),
			ui.DisplayText(e.Comment(), 60),
		)
	}

	table.Render()
}

// printDetailedEntries prints a detailed table view
func printDetailedEntries(cmd *cobra.Command, entries []*core.Entry) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Name", "Exec", "Terminal", "Desktop File"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, e := range entries {
		target := e.Target()

		terminal := "no"
		if target.Terminal {
			terminal = "yes"
		}

		// Truncate path if too long
		path := target.DesktopFile
		if len(path) > 40 {
			path = "..." + path[len(path)-37:]
		}

		table.Append(
			ui.DisplayText(e.Name(), 30),
			ui.DisplayText(target.Exec, 40),
			terminal,
			path,
		)
	}

	table.Render()
}
