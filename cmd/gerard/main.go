package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/gerard/internal/cmd"
	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/db"
	"github.com/quantmind-br/gerard/internal/launcher"
	"github.com/quantmind-br/gerard/internal/logging"
	"github.com/quantmind-br/gerard/internal/ui"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration; GERARD_CONFIG points at an explicit file
	cfg, err := config.LoadFile(os.Getenv("GERARD_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(core.ExitGeneral)
	}

	ui.ConfigureColors(cfg.Logging.Color)

	// Initialize logger
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		Color:   cfg.Logging.Color,
	})

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code := exitCode(ctx, err)
		log.Debug().Err(err).Int("exit_code", code).Msg("command failed")
		stop()
		os.Exit(code)
	}
}

// exitCode maps a command error onto the process exit status
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return core.ExitSuccess
	case errors.Is(err, ui.ErrCancelled), errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return core.ExitInterrupted
	case errors.Is(err, core.ErrLaunchFailed):
		return core.ExitLaunchFailed
	case errors.Is(err, cmd.ErrNoMatch), errors.Is(err, launcher.ErrNoSelection):
		return core.ExitNoMatch
	case errors.Is(err, db.ErrUnavailable):
		return core.ExitDatabase
	case errors.Is(err, cmd.ErrUsage):
		return core.ExitInvalidArgs
	default:
		return core.ExitGeneral
	}
}
