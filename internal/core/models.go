package core

import "strings"

// IconRef is an opaque reference to an icon: either an icon-theme name
// ("firefox") or an absolute path to an image file.
type IconRef string

// IsPath reports whether the reference points at a file rather than a theme name
func (r IconRef) IsPath() bool {
	return strings.HasPrefix(string(r), "/")
}

// LaunchTarget carries what the launch collaborator needs to start a program.
// The ranking core never looks inside it.
type LaunchTarget struct {
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	DesktopFile string `json:"desktop_file,omitempty"`
	Exec        string `json:"exec"`
	TryExec     string `json:"try_exec,omitempty"`
	WorkDir     string `json:"work_dir,omitempty"`
	Terminal    bool   `json:"terminal,omitempty"`
}

// Entry is one launchable application. It is immutable after creation;
// relevance scores are tracked by the ranking pipeline, not here.
type Entry struct {
	name       string
	icon       IconRef
	target     LaunchTarget
	comment    string
	categories []string
	keywords   []string
}

// EntryOption sets an optional display attribute on a new Entry
type EntryOption func(*Entry)

// WithComment sets the entry's tooltip/comment text
func WithComment(comment string) EntryOption {
	return func(e *Entry) {
		e.comment = comment
	}
}

// WithCategories sets the entry's freedesktop categories
func WithCategories(categories ...string) EntryOption {
	return func(e *Entry) {
		e.categories = append([]string(nil), categories...)
	}
}

// WithKeywords sets the entry's keywords
func WithKeywords(keywords ...string) EntryOption {
	return func(e *Entry) {
		e.keywords = append([]string(nil), keywords...)
	}
}

// NewEntry creates an Entry. It fails with ErrInvalidEntry when name is empty.
// The target's Name and Icon default to the entry's own.
func NewEntry(name string, icon IconRef, target LaunchTarget, opts ...EntryOption) (*Entry, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &EntryError{DesktopFile: target.DesktopFile, Reason: "display name is empty"}
	}

	if target.Name == "" {
		target.Name = name
	}
	if target.Icon == "" {
		target.Icon = string(icon)
	}

	e := &Entry{
		name:   name,
		icon:   icon,
		target: target,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Name returns the display name, which is also the match candidate
func (e *Entry) Name() string { return e.name }

// Icon returns the icon reference
func (e *Entry) Icon() IconRef { return e.icon }

// Target returns the launch target
func (e *Entry) Target() LaunchTarget { return e.target }

// Comment returns the comment text, if any
func (e *Entry) Comment() string { return e.comment }

// Categories returns a copy of the entry's categories
func (e *Entry) Categories() []string { return append([]string(nil), e.categories...) }

// Keywords returns a copy of the entry's keywords
func (e *Entry) Keywords() []string { return append([]string(nil), e.keywords...) }

// String implements fmt.Stringer
func (e *Entry) String() string { return e.name }

// DesktopEntry represents a .desktop file
type DesktopEntry struct {
	Type           string   `ini:"Type"`
	Version        string   `ini:"Version,omitempty"`
	Name           string   `ini:"Name"`
	GenericName    string   `ini:"GenericName,omitempty"`
	Comment        string   `ini:"Comment,omitempty"`
	Icon           string   `ini:"Icon,omitempty"`
	Exec           string   `ini:"Exec"`
	TryExec        string   `ini:"TryExec,omitempty"`
	Path           string   `ini:"Path,omitempty"`
	Terminal       bool     `ini:"Terminal,omitempty"`
	Categories     []string `ini:"Categories,omitempty"`
	MimeType       []string `ini:"MimeType,omitempty"`
	StartupWMClass string   `ini:"StartupWMClass,omitempty"`
	NoDisplay      bool     `ini:"NoDisplay,omitempty"`
	Hidden         bool     `ini:"Hidden,omitempty"`
	Keywords       []string `ini:"Keywords,omitempty"`
	StartupNotify  bool     `ini:"StartupNotify,omitempty"`
}

// ToEntry converts a parsed desktop file into a launcher Entry
func (de *DesktopEntry) ToEntry(desktopFile string) (*Entry, error) {
	target := LaunchTarget{
		DesktopFile: desktopFile,
		Exec:        de.Exec,
		TryExec:     de.TryExec,
		WorkDir:     de.Path,
		Terminal:    de.Terminal,
	}

	return NewEntry(de.Name, IconRef(de.Icon), target,
		WithComment(de.Comment),
		WithCategories(de.Categories...),
		WithKeywords(de.Keywords...),
	)
}

// IconFile represents an icon resolved on disk
type IconFile struct {
	Path string // Absolute path to icon file
	Size string // "256x256", "scalable", etc.
	Ext  string // "png", "svg", "ico", "xpm"
}

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneral      = 1
	ExitInvalidArgs  = 2
	ExitLaunchFailed = 3
	ExitNoMatch      = 4
	ExitDatabase     = 5
	ExitInterrupted  = 130
)
