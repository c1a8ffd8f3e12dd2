package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quantmind-br/gerard/internal/cmd"
	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/db"
	"github.com/quantmind-br/gerard/internal/launcher"
	"github.com/quantmind-br/gerard/internal/logging"
	"github.com/quantmind-br/gerard/internal/matcher"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{"success", context.Background(), nil, core.ExitSuccess},
		{"general", context.Background(), errors.New("boom"), core.ExitGeneral},
		{"usage", context.Background(), fmt.Errorf("%w: bad flag", cmd.ErrUsage), core.ExitInvalidArgs},
		{"unknown algorithm", context.Background(), fmt.Errorf("load applications: %w: %w", cmd.ErrUsage, matcher.ErrUnknownAlgorithm), core.ExitInvalidArgs},
		{"launch failed", context.Background(), &core.LaunchError{Name: "Firefox", Err: errors.New("x")}, core.ExitLaunchFailed},
		{"no match", context.Background(), fmt.Errorf("%w for %q", cmd.ErrNoMatch, "zz"), core.ExitNoMatch},
		{"no selection", context.Background(), launcher.ErrNoSelection, core.ExitNoMatch},
		{"database", context.Background(), fmt.Errorf("open database: %w", db.ErrUnavailable), core.ExitDatabase},
		{"prompt cancelled", context.Background(), fmt.Errorf("input %w", ui.ErrCancelled), core.ExitInterrupted},
		{"signal", cancelled, fmt.Errorf("scan: %w", context.Canceled), core.ExitInterrupted},
		{"canceled without signal", context.Background(), context.Canceled, core.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.ctx, tt.err))
		})
	}
}

func TestCommandExecution(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := config.LoadFile("")
	require.NoError(t, err, "Configuration should load without error")

	log := logging.NewLogger(logging.Config{
		Level: cfg.Logging.Level,
		Color: "never",
	})
	assert.NotNil(t, log, "Logger should not be nil")

	rootCmd := cmd.NewRootCmd(cfg, log, version)
	rootCmd.SetArgs([]string{"version"})
	err = rootCmd.ExecuteContext(context.Background())
	assert.NoError(t, err, "Command execution should not return an error")
}
