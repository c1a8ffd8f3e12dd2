package launch

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/quantmind-br/gerard/internal/core"
)

// field codes that stand for files or URLs; gerard never passes any
var droppedFieldCodes = map[byte]bool{
	'f': true, 'F': true, 'u': true, 'U': true,
	'd': true, 'D': true, 'n': true, 'N': true,
	'v': true, 'm': true,
}

// ExpandExec turns a desktop Exec line into an argument vector. Quoting
// follows shell rules. Field codes are expanded from the target: %i becomes
// "--icon <icon>", %c the name, %k the desktop file and %% a literal percent.
// File and URL codes are dropped.
func ExpandExec(target core.LaunchTarget) ([]string, error) {
	words, err := shellquote.Split(target.Exec)
	if err != nil {
		return nil, fmt.Errorf("parse Exec %q: %w", target.Exec, err)
	}

	argv := make([]string, 0, len(words)+2)
	for _, word := range words {
		switch word {
		case "%i":
			if target.Icon != "" {
				argv = append(argv, "--icon", target.Icon)
			}
			continue
		case "%c":
			argv = append(argv, target.Name)
			continue
		case "%k":
			if target.DesktopFile != "" {
				argv = append(argv, target.DesktopFile)
			}
			continue
		}

		if len(word) == 2 && word[0] == '%' && droppedFieldCodes[word[1]] {
			continue
		}

		expanded, err := expandInline(word, target)
		if err != nil {
			return nil, err
		}
		if expanded != "" || !strings.Contains(word, "%") {
			argv = append(argv, expanded)
		}
	}

	if len(argv) == 0 {
		return nil, fmt.Errorf("exec line %q has no program", target.Exec)
	}

	return argv, nil
}

// expandInline expands field codes embedded in a larger word such as
// "--class=%c"
func expandInline(word string, target core.LaunchTarget) (string, error) {
	if !strings.Contains(word, "%") {
		return word, nil
	}

	var b strings.Builder
	for i := 0; i < len(word); i++ {
		if word[i] != '%' {
			b.WriteByte(word[i])
			continue
		}
		if i+1 >= len(word) {
			return "", fmt.Errorf("dangling %% in exec argument %q", word)
		}
		i++
		switch code := word[i]; {
		case code == '%':
			b.WriteByte('%')
		case code == 'c':
			b.WriteString(target.Name)
		case code == 'k':
			b.WriteString(target.DesktopFile)
		case code == 'i':
			b.WriteString(target.Icon)
		case droppedFieldCodes[code]:
		default:
			return "", fmt.Errorf("unknown field code %%%c in %q", code, word)
		}
	}
	return b.String(), nil
}
