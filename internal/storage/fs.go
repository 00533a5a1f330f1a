package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const defaultMode fs.FileMode = 0o644

// FS implements Provider for journal files kept side by side in one
// directory.
type FS struct {
	dir string // absolute path of the journal directory
}

// NewFS returns an FS over dir, which must already exist.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: not a directory: %s", abs)
	}
	return &FS{dir: abs}, nil
}

// Dir returns the absolute journal directory.
func (f *FS) Dir() string { return f.dir }

// file maps a journal file name to its absolute path. Only plain names are
// accepted.
func (f *FS) file(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("storage: invalid journal name %q", name)
	}
	return filepath.Join(f.dir, name), nil
}

// Read returns the contents of the named journal.
func (f *FS) Read(name string) ([]byte, error) {
	path, err := f.file(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Exists reports whether name is a regular file.
func (f *FS) Exists(name string) bool {
	path, err := f.file(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Write replaces the named journal through a hidden temp file, fsync and
// rename. An existing file keeps its permission bits.
func (f *FS) Write(name string, content []byte) error {
	path, err := f.file(name)
	if err != nil {
		return err
	}

	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: stat %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: replace %s: %w", name, err)
	}
	committed = true
	return nil
}
