package fsops

import (
	"testing"

	"github.com/spf13/afero"
)

func TestEnsureDir(t *testing.T) {
	fs := afero.NewMemMapFs()

	path := "/test/nested/dir"
	if err := EnsureDir(fs, path, 0755); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	if !IsDir(fs, path) {
		t.Error("expected directory to exist and be a directory")
	}
}

func TestExists(t *testing.T) {
	fs := afero.NewMemMapFs()

	if Exists(fs, "/apps/firefox.desktop") {
		t.Error("expected file not to exist")
	}

	afero.WriteFile(fs, "/apps/firefox.desktop", []byte("[Desktop Entry]"), 0644)

	if !Exists(fs, "/apps/firefox.desktop") {
		t.Error("expected file to exist")
	}
	if IsDir(fs, "/apps/firefox.desktop") {
		t.Error("expected file not to be a directory")
	}
}

func TestCheckWritable(t *testing.T) {
	fs := afero.NewMemMapFs()
	fs.MkdirAll("/data", 0755)

	if err := CheckWritable(fs, "/data"); err != nil {
		t.Errorf("CheckWritable() error = %v", err)
	}

	infos, _ := afero.ReadDir(fs, "/data")
	if len(infos) != 0 {
		t.Errorf("expected write probe to be removed, found %d files", len(infos))
	}

	ro := afero.NewReadOnlyFs(fs)
	if err := CheckWritable(ro, "/data"); err == nil {
		t.Error("expected read-only filesystem to be reported as not writable")
	}
}

func TestCountFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/apps/a.desktop", nil, 0644)
	afero.WriteFile(fs, "/apps/b.desktop", nil, 0644)
	afero.WriteFile(fs, "/apps/mimeinfo.cache", nil, 0644)
	fs.MkdirAll("/apps/sub.desktop", 0755)

	n, err := CountFiles(fs, "/apps", ".desktop")
	if err != nil {
		t.Fatalf("CountFiles() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountFiles() = %d, want 2", n)
	}

	n, err = CountFiles(fs, "/missing", ".desktop")
	if err != nil || n != 0 {
		t.Errorf("CountFiles(missing) = %d, %v; want 0, nil", n, err)
	}
}

func TestNearestExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	fs.MkdirAll("/home/ana/.local", 0755)

	tests := []struct {
		path string
		want string
	}{
		{"/home/ana/.local/share/gerard/history.db", "/home/ana/.local"},
		{"/home/ana/.local", "/home/ana/.local"},
		{"/nowhere/at/all", "/"},
	}

	for _, tt := range tests {
		if got := NearestExisting(fs, tt.path); got != tt.want {
			t.Errorf("NearestExisting(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
