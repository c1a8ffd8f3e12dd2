package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Search  SearchConfig  `mapstructure:"search"`
	Desktop DesktopConfig `mapstructure:"desktop"`
	Launch  LaunchConfig  `mapstructure:"launch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	DataDir string `mapstructure:"data_dir"`
	DBFile  string `mapstructure:"db_file"`
	LogFile string `mapstructure:"log_file"`
}

// SearchConfig controls the ranking pipeline
type SearchConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	Limit     int    `mapstructure:"limit"`
}

// DesktopConfig controls application discovery
type DesktopConfig struct {
	// Dirs replaces the XDG application directories when set
	Dirs          []string `mapstructure:"dirs"`
	ExtraDirs     []string `mapstructure:"extra_dirs"`
	IncludeHidden bool     `mapstructure:"include_hidden"`
}

// LaunchConfig controls how entries are started
type LaunchConfig struct {
	Terminal      string `mapstructure:"terminal"`
	RecordHistory bool   `mapstructure:"record_history"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from the default locations and the environment
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from the default search
// locations when path is empty. A missing default config file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "gerard"))
		}
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("GERARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	for i, dir := range cfg.Desktop.Dirs {
		cfg.Desktop.Dirs[i] = expandPath(dir)
	}
	for i, dir := range cfg.Desktop.ExtraDirs {
		cfg.Desktop.ExtraDirs[i] = expandPath(dir)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}

	dataDir := filepath.Join(homeDir, ".local", "share", "gerard")
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		dataDir = filepath.Join(dataHome, "gerard")
	}

	v.SetDefault("paths.data_dir", dataDir)
	v.SetDefault("paths.db_file", filepath.Join(dataDir, "history.db"))
	v.SetDefault("paths.log_file", filepath.Join(dataDir, "gerard.log"))

	v.SetDefault("search.algorithm", "fzf")
	v.SetDefault("search.limit", 0)

	v.SetDefault("desktop.dirs", []string{})
	v.SetDefault("desktop.extra_dirs", []string{})
	v.SetDefault("desktop.include_hidden", false)

	v.SetDefault("launch.terminal", "")
	v.SetDefault("launch.record_history", true)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}
