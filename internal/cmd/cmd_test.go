package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/gerard/internal/config"
	"github.com/quantmind-br/gerard/internal/helpers"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var fixtureApps = map[string]string{
	"firefox.desktop": `[Desktop Entry]
Type=Application
Name=Firefox
Comment=Web Browser
Exec=firefox %u
Categories=Network;WebBrowser;
`,
	"files.desktop": `[Desktop Entry]
Type=Application
Name=Files
Comment=Access and organize files
Exec=nautilus --new-window
Categories=System;FileManager;
`,
	"gimp.desktop": `[Desktop Entry]
Type=Application
Name=GNU Image Manipulation Program
Exec=gimp-2.10 %U
Categories=Graphics;
`,
	"htop.desktop": `[Desktop Entry]
Type=Application
Name=Htop
Comment=Process viewer
Exec=htop
Terminal=true
`,
	"secret.desktop": `[Desktop Entry]
Type=Application
Name=Secret
Exec=secret
NoDisplay=true
`,
}

// testConfig writes the fixture applications to a temp dir and returns a
// config reading only from it
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	appDir := filepath.Join(root, "applications")
	require.NoError(t, os.MkdirAll(appDir, 0755))
	for name, content := range fixtureApps {
		require.NoError(t, os.WriteFile(filepath.Join(appDir, name), []byte(content), 0644))
	}

	return &config.Config{
		Paths: config.PathsConfig{
			DataDir: filepath.Join(root, "data"),
			DBFile:  filepath.Join(root, "data", "history.db"),
		},
		Search:  config.SearchConfig{Algorithm: "fzf"},
		Desktop: config.DesktopConfig{Dirs: []string{appDir}},
		Launch:  config.LaunchConfig{Terminal: "xterm -e", RecordHistory: true},
	}
}

func discardLogger() *zerolog.Logger {
	log := zerolog.New(io.Discard)
	return &log
}

type started struct {
	dir  string
	name string
	args []string
}

// recordingRunner finds every command and records detached starts
func recordingRunner(calls *[]started) *helpers.MockCommandRunner {
	return &helpers.MockCommandRunner{
		CommandExistsFunc: func(name string) bool { return name != "desktop-file-validate" },
		StartDetachedFunc: func(_ context.Context, dir string, name string, args ...string) error {
			*calls = append(*calls, started{dir: dir, name: name, args: args})
			return nil
		},
	}
}

// execute runs cmd with args and returns its standard output
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
