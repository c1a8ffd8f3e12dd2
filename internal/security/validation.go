package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

const maxPathLength = 4096

// ValidatePath performs general path validation
func ValidatePath(path string) error {
	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains null bytes: %q", path)
	}

	// Check for excessive length
	if len(path) > maxPathLength {
		return fmt.Errorf("path too long: %d characters", len(path))
	}

	return nil
}

// ValidateWorkDir validates the working directory of a launch. An empty
// directory means "inherit" and is accepted.
func ValidateWorkDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := ValidatePath(dir); err != nil {
		return err
	}
	if !filepath.IsAbs(dir) {
		return fmt.Errorf("working directory must be absolute, got %q", dir)
	}
	return nil
}

// ValidateArgv validates an argument vector before it is handed to exec.
// Arguments are passed without a shell, so only what exec itself cannot
// carry is rejected.
func ValidateArgv(argv []string) error {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return fmt.Errorf("command line is empty")
	}

	for i, arg := range argv {
		if strings.Contains(arg, "\x00") {
			return fmt.Errorf("argument %d contains null byte", i)
		}
	}

	if len(argv[0]) > maxPathLength {
		return fmt.Errorf("program path too long: %d characters", len(argv[0]))
	}

	return nil
}

// SanitizeString removes null bytes and control characters other than
// tab, newline and carriage return, then trims surrounding whitespace
func SanitizeString(input string) string {
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			return -1 // Drop character
		}
		if r == 0x7f {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(result)
}
