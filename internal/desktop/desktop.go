package desktop

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/quantmind-br/gerard/internal/core"
)

const desktopEntryGroup = "[Desktop Entry]"

// Parse parses a .desktop file from a reader using unlocalized keys
func Parse(r io.Reader) (*core.DesktopEntry, error) {
	return ParseLocale(r, "")
}

// ParseLocale parses a .desktop file, preferring Name/Comment/GenericName
// values localized for locale (e.g. "pt_BR.UTF-8"). Only the
// [Desktop Entry] group is read.
func ParseLocale(r io.Reader, locale string) (*core.DesktopEntry, error) {
	de := &core.DesktopEntry{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	inDesktopEntry := false
	localized := make(map[string]localizedValue)
	// first translated Name, used only when the plain Name key is missing
	fallbackName := ""
	candidates := localeCandidates(locale)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inDesktopEntry = line == desktopEntryGroup
			continue
		}

		if !inDesktopEntry {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if base, loc, isLocalized := splitLocaleKey(key); isLocalized {
			rank := localeRank(candidates, loc)
			if current, seen := localized[base]; rank >= 0 && (!seen || rank < current.rank) {
				localized[base] = localizedValue{value: unescape(value), rank: rank}
			}
			if base == "Name" && fallbackName == "" {
				fallbackName = unescape(value)
			}
			continue
		}

		switch key {
		case "Type":
			de.Type = value
		case "Version":
			de.Version = value
		case "Name":
			de.Name = unescape(value)
		case "GenericName":
			de.GenericName = unescape(value)
		case "Comment":
			de.Comment = unescape(value)
		case "Icon":
			de.Icon = value
		case "Exec":
			de.Exec = value
		case "TryExec":
			de.TryExec = value
		case "Path":
			de.Path = value
		case "Terminal":
			de.Terminal = parseBool(value)
		case "Categories":
			de.Categories = parseSemicolonList(value)
		case "MimeType":
			de.MimeType = parseSemicolonList(value)
		case "Keywords":
			de.Keywords = parseSemicolonList(value)
		case "StartupWMClass":
			de.StartupWMClass = value
		case "NoDisplay":
			de.NoDisplay = parseBool(value)
		case "Hidden":
			de.Hidden = parseBool(value)
		case "StartupNotify":
			de.StartupNotify = parseBool(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan desktop file: %w", err)
	}

	if v, ok := localized["Name"]; ok {
		de.Name = v.value
	} else if de.Name == "" {
		de.Name = fallbackName
	}
	if v, ok := localized["Comment"]; ok {
		de.Comment = v.value
	}
	if v, ok := localized["GenericName"]; ok {
		de.GenericName = v.value
	}

	return de, nil
}

// Write writes a .desktop file to a writer
func Write(w io.Writer, de *core.DesktopEntry) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, desktopEntryGroup)
	fmt.Fprintf(bw, "Type=%s\n", de.Type)
	fmt.Fprintf(bw, "Name=%s\n", de.Name)
	if de.GenericName != "" {
		fmt.Fprintf(bw, "GenericName=%s\n", de.GenericName)
	}
	if de.Comment != "" {
		fmt.Fprintf(bw, "Comment=%s\n", de.Comment)
	}
	fmt.Fprintf(bw, "Exec=%s\n", de.Exec)
	if de.TryExec != "" {
		fmt.Fprintf(bw, "TryExec=%s\n", de.TryExec)
	}
	if de.Path != "" {
		fmt.Fprintf(bw, "Path=%s\n", de.Path)
	}
	if de.Icon != "" {
		fmt.Fprintf(bw, "Icon=%s\n", de.Icon)
	}
	if len(de.Categories) > 0 {
		fmt.Fprintf(bw, "Categories=%s;\n", strings.Join(de.Categories, ";"))
	}
	if len(de.Keywords) > 0 {
		fmt.Fprintf(bw, "Keywords=%s;\n", strings.Join(de.Keywords, ";"))
	}
	if de.Terminal {
		fmt.Fprintln(bw, "Terminal=true")
	}
	if de.NoDisplay {
		fmt.Fprintln(bw, "NoDisplay=true")
	}
	if de.Hidden {
		fmt.Fprintln(bw, "Hidden=true")
	}
	if de.StartupWMClass != "" {
		fmt.Fprintf(bw, "StartupWMClass=%s\n", de.StartupWMClass)
	}

	return bw.Flush()
}

// Validate checks if the desktop entry has required fields
func Validate(de *core.DesktopEntry) error {
	if de.Type == "" {
		return fmt.Errorf("Type field is required")
	}
	if de.Name == "" {
		return fmt.Errorf("Name field is required")
	}
	if de.Type == "Application" && de.Exec == "" {
		return fmt.Errorf("Exec field is required for applications")
	}
	return nil
}

// Launchable reports whether the entry should be offered to the user
func Launchable(de *core.DesktopEntry, includeHidden bool) bool {
	if de.Type != "Application" || de.Exec == "" {
		return false
	}
	if !includeHidden && (de.Hidden || de.NoDisplay) {
		return false
	}
	return true
}

type localizedValue struct {
	value string
	rank  int
}

// splitLocaleKey splits "Name[de_DE]" into ("Name", "de_DE")
func splitLocaleKey(key string) (string, string, bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// localeCandidates returns the lookup order for a POSIX locale string:
// lang_COUNTRY@MODIFIER, lang_COUNTRY, lang@MODIFIER, lang.
func localeCandidates(locale string) []string {
	if locale == "" || locale == "C" || locale == "POSIX" {
		return nil
	}

	if i := strings.IndexByte(locale, '.'); i >= 0 {
		// strip the encoding but keep a trailing @modifier
		rest := locale[i:]
		locale = locale[:i]
		if at := strings.IndexByte(rest, '@'); at >= 0 {
			locale += rest[at:]
		}
	}

	lang, modifier, _ := strings.Cut(locale, "@")
	base, country, hasCountry := strings.Cut(lang, "_")

	var out []string
	if hasCountry && modifier != "" {
		out = append(out, base+"_"+country+"@"+modifier)
	}
	if hasCountry {
		out = append(out, base+"_"+country)
	}
	if modifier != "" {
		out = append(out, base+"@"+modifier)
	}
	return append(out, base)
}

func localeRank(candidates []string, loc string) int {
	for i, c := range candidates {
		if c == loc {
			return i
		}
	}
	return -1
}

func parseBool(value string) bool {
	return strings.EqualFold(value, "true")
}

// parseSemicolonList parses semicolon-separated list
func parseSemicolonList(value string) []string {
	value = strings.TrimSuffix(value, ";")
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

var valueUnescaper = strings.NewReplacer(`\s`, " ", `\n`, "\n", `\t`, "\t", `\r`, "\r", `\\`, `\`)

// unescape resolves the escape sequences allowed in string values
func unescape(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	return valueUnescaper.Replace(value)
}
