package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps progressbar/v3 with gerard styling
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewIndeterminateProgressBar creates a spinner for unknown-length operations
func NewIndeterminateProgressBar(w io.Writer, description string) *ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(10),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Add increments the progress bar by n
func (p *ProgressBar) Add(n int) error {
	return p.bar.Add(n)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() error {
	return p.bar.Finish()
}

// Describe changes the description of the progress bar
func (p *ProgressBar) Describe(description string) {
	p.bar.Describe(description)
}

// IsFinished returns true if the progress bar is finished
func (p *ProgressBar) IsFinished() bool {
	return p.bar.IsFinished()
}

// ScanProgress reports desktop files visited during a scan. It renders
// nothing when disabled, so callers can use it unconditionally.
type ScanProgress struct {
	bar   *ProgressBar
	count int
}

// NewScanProgress creates a scan spinner on w when enabled
func NewScanProgress(w io.Writer, enabled bool) *ScanProgress {
	if !enabled {
		return &ScanProgress{}
	}
	return &ScanProgress{bar: NewIndeterminateProgressBar(w, "Scanning applications")}
}

// Visit records one visited file
func (s *ScanProgress) Visit(string) {
	s.count++
	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

// Count returns how many files were visited
func (s *ScanProgress) Count() int {
	return s.count
}

// Done stops the spinner
func (s *ScanProgress) Done() {
	if s.bar != nil && !s.bar.IsFinished() {
		_ = s.bar.Finish()
	}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
