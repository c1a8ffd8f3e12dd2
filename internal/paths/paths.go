package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/gerard/internal/config"
)

const defaultDataDirs = "/usr/local/share:/usr/share"

// Resolver computes the freedesktop data locations gerard reads from.
// Environment lookups go through getenv so tests can pin them.
type Resolver struct {
	homeDir string
	cfg     *config.Config
	getenv  func(string) string
}

// NewResolver creates a Resolver for the current user
func NewResolver(cfg *config.Config) *Resolver {
	homeDir, _ := os.UserHomeDir()
	return NewResolverWithEnv(cfg, homeDir, os.Getenv)
}

// NewResolverWithEnv creates a Resolver with an explicit home directory and
// environment lookup
func NewResolverWithEnv(cfg *config.Config, homeDir string, getenv func(string) string) *Resolver {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
		getenv:  getenv,
	}
}

// HomeDir returns the resolved home directory
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// DataHome returns $XDG_DATA_HOME or ~/.local/share
func (r *Resolver) DataHome() string {
	if dataHome := r.getenv("XDG_DATA_HOME"); dataHome != "" {
		return dataHome
	}
	return filepath.Join(r.homeDir, ".local", "share")
}

// DataDirs returns $XDG_DATA_DIRS split into its components
func (r *Resolver) DataDirs() []string {
	raw := r.getenv("XDG_DATA_DIRS")
	if raw == "" {
		raw = defaultDataDirs
	}

	var dirs []string
	for _, dir := range strings.Split(raw, ":") {
		dir = strings.TrimSpace(dir)
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// ApplicationDirs returns the directories scanned for .desktop files, highest
// priority first: the user's data home, the system data dirs, flatpak and
// snap exports, then any configured extra dirs. A configured desktop.dirs
// list replaces everything but the extra dirs. Duplicates are dropped.
func (r *Resolver) ApplicationDirs() []string {
	if r.cfg != nil && len(r.cfg.Desktop.Dirs) > 0 {
		dirs := append([]string(nil), r.cfg.Desktop.Dirs...)
		return dedupe(append(dirs, r.cfg.Desktop.ExtraDirs...))
	}

	dirs := []string{filepath.Join(r.DataHome(), "applications")}
	for _, dir := range r.DataDirs() {
		dirs = append(dirs, filepath.Join(dir, "applications"))
	}
	dirs = append(dirs,
		filepath.Join(r.DataHome(), "flatpak", "exports", "share", "applications"),
		"/var/lib/flatpak/exports/share/applications",
		"/var/lib/snapd/desktop/applications",
	)
	if r.cfg != nil {
		dirs = append(dirs, r.cfg.Desktop.ExtraDirs...)
	}

	return dedupe(dirs)
}

// IconDirs returns the directories searched when resolving icon names
func (r *Resolver) IconDirs() []string {
	dirs := []string{
		filepath.Join(r.DataHome(), "icons"),
		filepath.Join(r.homeDir, ".icons"),
	}
	for _, dir := range r.DataDirs() {
		dirs = append(dirs, filepath.Join(dir, "icons"), filepath.Join(dir, "pixmaps"))
	}
	dirs = append(dirs, "/usr/share/pixmaps")

	return dedupe(dirs)
}

// Locale returns the message locale from LC_ALL, LC_MESSAGES or LANG
func (r *Resolver) Locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := r.getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// DataDir returns gerard's own data directory
func (r *Resolver) DataDir() string {
	if r.cfg != nil && r.cfg.Paths.DataDir != "" {
		return r.cfg.Paths.DataDir
	}
	return filepath.Join(r.DataHome(), "gerard")
}

func dedupe(dirs []string) []string {
	seen := make(map[string]struct{}, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		clean := filepath.Clean(dir)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}
