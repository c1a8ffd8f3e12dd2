package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/db"
	"github.com/quantmind-br/gerard/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCmd_LaunchesBestMatch(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	var calls []started

	out, err := execute(t, newRunCmd(cfg, discardLogger(), recordingRunner(&calls)), "firefox")
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, "firefox", calls[0].name)
	assert.Empty(t, calls[0].args)
	assert.Contains(t, out, "Launched Firefox")

	database, err := db.New(context.Background(), cfg.Paths.DBFile)
	require.NoError(t, err)
	defer database.Close()

	launches, err := database.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, launches, 1)
	assert.Equal(t, "Firefox", launches[0].Name)
	assert.Equal(t, "firefox %u", launches[0].Exec)
}

func TestRunCmd_TerminalApplication(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Launch.RecordHistory = false
	var calls []started

	_, err := execute(t, newRunCmd(cfg, discardLogger(), recordingRunner(&calls)), "htop")
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, "xterm", calls[0].name)
	assert.Equal(t, []string{"-e", "htop"}, calls[0].args)
}

func TestRunCmd_DryRun(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	var calls []started

	out, err := execute(t, newRunCmd(cfg, discardLogger(), recordingRunner(&calls)), "--dry-run", "gimp")
	require.NoError(t, err)

	assert.Equal(t, "gimp-2.10\n", out)
	assert.Empty(t, calls)
}

func TestRunCmd_NoMatch(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	var calls []started

	_, err := execute(t, newRunCmd(cfg, discardLogger(), recordingRunner(&calls)), "qqqq")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Empty(t, calls)

	_, err = execute(t, newRunCmd(cfg, discardLogger(), recordingRunner(&calls)), "--dry-run", "qqqq")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestRunCmd_LaunchFailure(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)

	runner := &helpers.MockCommandRunner{
		CommandExistsFunc: func(string) bool { return true },
		StartDetachedFunc: func(context.Context, string, string, ...string) error {
			return errors.New("exec format error")
		},
	}

	_, err := execute(t, newRunCmd(cfg, discardLogger(), runner), "files")
	assert.ErrorIs(t, err, core.ErrLaunchFailed)

	database, err := db.New(context.Background(), cfg.Paths.DBFile)
	require.NoError(t, err)
	defer database.Close()

	launches, err := database.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, launches)
}

func TestRunCmd_MissingProgram(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)

	runner := &helpers.MockCommandRunner{
		CommandExistsFunc: func(name string) bool { return name != "nautilus" },
	}

	_, err := execute(t, newRunCmd(cfg, discardLogger(), runner), "files")
	assert.ErrorIs(t, err, core.ErrLaunchFailed)
}
