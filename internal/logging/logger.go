package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level   string
	LogFile string
	// Color is one of "auto", "always" or "never"
	Color string
	// Console is where human-readable output goes; defaults to os.Stderr
	Console io.Writer
}

// NewLogger creates a zerolog logger writing to the console and, when
// LogFile is set, to a rotating file.
func NewLogger(cfg Config) *zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: "15:04:05",
			NoColor:    noColor(cfg.Color, console),
		},
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    5, // MB
				MaxBackups: 2,
				MaxAge:     14, // days
				Compress:   true,
			})
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &logger
}

// Component returns a child logger tagged with the component name
func Component(log *zerolog.Logger, name string) *zerolog.Logger {
	child := log.With().Str("component", name).Logger()
	return &child
}

// parseLevel maps a config string onto a zerolog level, falling back to info
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zerolog.WarnLevel
	case "", "disabled":
		return zerolog.InfoLevel
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// noColor decides whether console output should be plain
func noColor(mode string, w io.Writer) bool {
	switch mode {
	case "never":
		return true
	case "always":
		return false
	}

	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return true
	}

	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd())
}

// NewTestLogger creates a logger for testing that writes to a buffer
func NewTestLogger(w io.Writer) *zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &logger
}
