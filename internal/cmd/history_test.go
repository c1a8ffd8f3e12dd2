package cmd

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/db"
	"github.com/quantmind-br/gerard/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistory(t *testing.T, cfg *config.Config) {
	t.Helper()

	ctx := context.Background()
	database, err := db.New(ctx, cfg.Paths.DBFile)
	require.NoError(t, err)
	defer database.Close()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Firefox", "Files", "Firefox"} {
		require.NoError(t, database.Create(ctx, &db.Launch{
			Name:       name,
			Exec:       name + " --new",
			LaunchedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
}

func TestHistoryCmd_List(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	seedHistory(t, cfg)

	out, err := execute(t, newHistoryCmd(cfg, discardLogger(), &ui.MockPrompter{}), "--json")
	require.NoError(t, err)

	var launches []db.Launch
	require.NoError(t, json.Unmarshal([]byte(out), &launches))
	require.Len(t, launches, 3)
	assert.Equal(t, "Firefox", launches[0].Name)
	assert.Equal(t, "Files", launches[1].Name)

	out, err = execute(t, newHistoryCmd(cfg, discardLogger(), &ui.MockPrompter{}), "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Firefox --new")
	assert.NotContains(t, out, "Files --new")
}

func TestHistoryCmd_Top(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	seedHistory(t, cfg)

	out, err := execute(t, newHistoryCmd(cfg, discardLogger(), &ui.MockPrompter{}), "--top", "--json")
	require.NoError(t, err)

	var usage []db.Usage
	require.NoError(t, json.Unmarshal([]byte(out), &usage))
	require.Len(t, usage, 2)
	assert.Equal(t, "Firefox", usage[0].Name)
	assert.Equal(t, 2, usage[0].Count)
	assert.Equal(t, 1, usage[1].Count)
}

func TestHistoryCmd_Empty(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)

	out, err := execute(t, newHistoryCmd(cfg, discardLogger(), &ui.MockPrompter{}), "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestHistoryCmd_Clear(t *testing.T) {
	t.Parallel()

	t.Run("declined", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		seedHistory(t, cfg)

		asked := false
		prompter := &ui.MockPrompter{ConfirmFunc: func(string) (bool, error) {
			asked = true
			return false, nil
		}}

		_, err := execute(t, newHistoryCmd(cfg, discardLogger(), prompter), "--clear")
		require.NoError(t, err)
		assert.True(t, asked)

		out, err := execute(t, newHistoryCmd(cfg, discardLogger(), prompter), "--json")
		require.NoError(t, err)
		var launches []db.Launch
		require.NoError(t, json.Unmarshal([]byte(out), &launches))
		assert.Len(t, launches, 3)
	})

	t.Run("confirmed with --yes", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		seedHistory(t, cfg)

		prompter := &ui.MockPrompter{ConfirmFunc: func(string) (bool, error) {
			t.Fatal("confirmation should be skipped")
			return false, nil
		}}

		out, err := execute(t, newHistoryCmd(cfg, discardLogger(), prompter), "--clear", "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed 3 launch records")
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)

		prompter := &ui.MockPrompter{ConfirmFunc: func(string) (bool, error) {
			return false, ui.ErrCancelled
		}}

		_, err := execute(t, newHistoryCmd(cfg, discardLogger(), prompter), "--clear")
		assert.ErrorIs(t, err, ui.ErrCancelled)
	})
}

func TestHistoryCmd_Delete(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	seedHistory(t, cfg)

	ctx := context.Background()
	database, err := db.New(ctx, cfg.Paths.DBFile)
	require.NoError(t, err)
	launches, err := database.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, launches, 3)
	require.NoError(t, database.Close())

	out, err := execute(t, newHistoryCmd(cfg, discardLogger(), &ui.MockPrompter{}), "--delete", launches[0].LaunchID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed launch record "+launches[0].LaunchID)

	_, err = execute(t, newHistoryCmd(cfg, discardLogger(), &ui.MockPrompter{}), "--delete", launches[0].LaunchID)
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
