package icons

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/quantmind-br/gerard/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/webp" // Register WebP format
)

var sizePattern = regexp.MustCompile(`(\d+)x(\d+)`)

// extensions in order of preference
var iconExts = []string{"png", "svg", "xpm"}

// Resolver turns icon references into files on disk. The theme index is
// built on first use and kept for the Resolver's lifetime.
type Resolver struct {
	fs    afero.Fs
	dirs  []string
	log   *zerolog.Logger
	index map[string]candidate
}

type candidate struct {
	file    core.IconFile
	inApps  bool
	extRank int
	pixels  int
	dirRank int
}

// NewResolver creates a Resolver searching dirs in priority order
func NewResolver(fs afero.Fs, dirs []string, log *zerolog.Logger) *Resolver {
	return &Resolver{
		fs:   fs,
		dirs: dirs,
		log:  log,
	}
}

// Lookup resolves ref to an icon file. Absolute references must exist.
// Names are looked up next to the desktop file first, then in the icon
// directories.
func (r *Resolver) Lookup(ref core.IconRef, desktopPath string) (core.IconFile, bool) {
	if ref == "" {
		return core.IconFile{}, false
	}

	if ref.IsPath() {
		path := string(ref)
		if !r.isFile(path) {
			return core.IconFile{}, false
		}
		return r.iconFile(path), true
	}

	name := trimIconExt(string(ref))

	if desktopPath != "" {
		dir := filepath.Dir(desktopPath)
		for _, ext := range iconExts {
			path := filepath.Join(dir, name+"."+ext)
			if r.isFile(path) {
				return r.iconFile(path), true
			}
		}
	}

	if r.index == nil {
		r.buildIndex()
	}

	c, ok := r.index[name]
	if !ok {
		return core.IconFile{}, false
	}
	return c.file, true
}

func (r *Resolver) iconFile(path string) core.IconFile {
	return core.IconFile{
		Path: path,
		Size: DetectIconSize(r.fs, path),
		Ext:  strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (r *Resolver) buildIndex() {
	r.index = make(map[string]candidate)

	for dirRank, dir := range r.dirs {
		_ = afero.Walk(r.fs, dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if !os.IsNotExist(err) {
					r.log.Debug().Err(err).Str("path", path).Msg("skipping unreadable icon path")
				}
				return nil
			}
			if info.IsDir() {
				return nil
			}

			ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
			extRank := extPreference(ext)
			if extRank < 0 {
				return nil
			}

			c := candidate{
				file: core.IconFile{
					Path: path,
					Size: sizeFromPath(path, ext),
					Ext:  ext,
				},
				inApps:  strings.Contains(path, string(filepath.Separator)+"apps"+string(filepath.Separator)),
				extRank: extRank,
				pixels:  pixelsFromSize(sizeFromPath(path, ext)),
				dirRank: dirRank,
			}

			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if current, ok := r.index[name]; !ok || c.better(current) {
				r.index[name] = c
			}
			return nil
		})
	}

	r.log.Debug().Int("icons", len(r.index)).Msg("built icon index")
}

func (c candidate) better(other candidate) bool {
	if c.inApps != other.inApps {
		return c.inApps
	}
	if c.extRank != other.extRank {
		return c.extRank < other.extRank
	}
	if c.pixels != other.pixels {
		return c.pixels > other.pixels
	}
	if c.dirRank != other.dirRank {
		return c.dirRank < other.dirRank
	}
	return len(c.file.Path) < len(other.file.Path)
}

func extPreference(ext string) int {
	for i, e := range iconExts {
		if e == ext {
			return i
		}
	}
	return -1
}

// trimIconExt strips a file extension some desktop files put on icon names
func trimIconExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if extPreference(strings.TrimPrefix(ext, ".")) >= 0 {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

func sizeFromPath(path, ext string) string {
	if m := sizePattern.FindString(path); m != "" {
		return m
	}
	if ext == "svg" || strings.Contains(strings.ToLower(path), "scalable") {
		return "scalable"
	}
	return ""
}

func pixelsFromSize(size string) int {
	if size == "scalable" {
		return 0
	}
	m := sizePattern.FindStringSubmatch(size)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// DetectIconSize detects icon size from the path or, failing that, from the
// image header. It returns "" when the size cannot be determined.
func DetectIconSize(fs afero.Fs, iconPath string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(iconPath)), ".")
	if size := sizeFromPath(iconPath, ext); size != "" {
		return size
	}
	return imageDimensions(fs, iconPath)
}

// imageDimensions reads actual dimensions from image file
func imageDimensions(fs afero.Fs, imagePath string) string {
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp":
	default:
		return ""
	}

	file, err := fs.Open(imagePath)
	if err != nil {
		return ""
	}
	defer file.Close()

	// Decode only the config (dimensions) without loading full image
	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return ""
	}

	// hicolor sizes are square; report the larger side
	side := max(config.Width, config.Height)
	return fmt.Sprintf("%dx%d", side, side)
}
