package cmd

import (
	"github.com/quantmind-br/gerard/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gerard",
		Short: "Fuzzy application launcher",
		Long: `gerard finds the desktop applications installed on this system and
launches them by fuzzy name. Type a few letters, get the best match.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	// Add subcommands
	cmd.AddCommand(NewSearchCmd(cfg, log))
	cmd.AddCommand(NewPickCmd(cfg, log))
	cmd.AddCommand(NewRunCmd(cfg, log))
	cmd.AddCommand(NewListCmd(cfg, log))
	cmd.AddCommand(NewInfoCmd(cfg, log))
	cmd.AddCommand(NewHistoryCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
