package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// CheckWritable checks that files can be created inside dir
func CheckWritable(fs afero.Fs, dir string) error {
	f, err := afero.TempFile(fs, dir, ".gerard-write-")
	if err != nil {
		return fmt.Errorf("path not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	if err := fs.Remove(name); err != nil {
		return fmt.Errorf("remove write probe: %w", err)
	}
	return nil
}

// EnsureDir ensures a directory exists with the given permissions
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CountFiles counts regular files directly inside dir whose name ends
// with suffix. A missing directory counts as zero.
func CountFiles(fs afero.Fs, dir, suffix string) (int, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read dir %s: %w", dir, err)
	}

	n := 0
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), suffix) {
			continue
		}
		n++
	}
	return n, nil
}

// NearestExisting walks up from path to the first ancestor that exists,
// which is where a not-yet-created file would be written.
func NearestExisting(fs afero.Fs, path string) string {
	dir := filepath.Clean(path)
	for {
		if IsDir(fs, dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
