package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/quantmind-br/gerard/internal/security"
)

// Color scheme for gerard
var (
	// Primary actions
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	// Secondary actions
	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)

	// Status indicators
	CheckMark = color.GreenString("✓")
	CrossMark = color.RedString("✗")
	Arrow     = color.CyanString("→")
	Bullet    = color.HiBlackString("•")

	// Score colors
	ScoreHigh = color.New(color.FgGreen, color.Bold)
	ScoreMid  = color.New(color.FgYellow)
	ScoreLow  = color.New(color.Faint)
)

// InitColors initializes color settings based on environment
func InitColors() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	// Respect TERM environment variable
	if os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// ConfigureColors applies the logging.color setting ("auto", "always",
// "never") to terminal output
func ConfigureColors(mode string) {
	switch strings.ToLower(mode) {
	case "always":
		EnableColors()
	case "never":
		DisableColors()
	default:
		InitColors()
	}
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "%s Error: %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(os.Stderr, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(os.Stdout, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// FprintKeyValue writes a key-value pair to w
func FprintKeyValue(w io.Writer, key, value string) {
	Bold.Fprintf(w, "%s: ", key)
	fmt.Fprintln(w, value)
}

// FprintHeader writes a section header to w
func FprintHeader(w io.Writer, text string) {
	fmt.Fprintln(w)
	Bold.Fprintln(w, text)
	Muted.Fprintln(w, "────────────────────────────────────────")
}

// FprintSubheader writes a subsection header to w
func FprintSubheader(w io.Writer, text string) {
	Highlight.Fprintln(w, text)
}

// FprintList writes a bulleted list to w
func FprintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", Bullet, item)
	}
}

// ColorizeScore returns score colored relative to the best score of a view
func ColorizeScore(score, best int) string {
	text := fmt.Sprintf("%d", score)
	switch {
	case best <= 0 || score <= 0:
		return ScoreLow.Sprint(text)
	case score*2 >= best:
		return ScoreHigh.Sprint(text)
	default:
		return ScoreMid.Sprint(text)
	}
}

// DisplayText makes text from desktop files safe to print: control
// characters are removed and the result is cut to max runes (0 = no limit)
func DisplayText(text string, max int) string {
	text = strings.Join(strings.Fields(security.SanitizeString(text)), " ")
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// SprintSuccess returns a success string without printing
func SprintSuccess(format string, args ...interface{}) string {
	return fmt.Sprintf("%s %s", CheckMark, fmt.Sprintf(format, args...))
}

// SprintError returns an error string without printing
func SprintError(format string, args ...interface{}) string {
	return fmt.Sprintf("%s Error: %s", CrossMark, fmt.Sprintf(format, args...))
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}

// AreColorsEnabled returns whether colors are currently enabled
func AreColorsEnabled() bool {
	return !color.NoColor
}
