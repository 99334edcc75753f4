// Package storage persists downloaded media. Local writes go through a temporary file in the destination
// directory and are renamed into place, so a reader never sees a partially written file under its final name.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Temporary files carry this suffix until they are renamed into place.
const partialSuffix = ".partial"

var ErrInvalidName = errors.New("invalid file name")

type Local struct {
	dir string
}

// NewLocal creates dir if needed and returns storage rooted there.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %v: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Dir() string {
	return l.dir
}

// Path returns the full path of name within the storage directory.
func (l *Local) Path(name string) string {
	return filepath.Join(l.dir, name)
}

func (l *Local) Exists(name string) bool {
	_, err := os.Stat(l.Path(name))
	return err == nil
}

// List returns the names of the regular files in the storage directory. Hidden files, which include partially
// written ones, are skipped.
func (l *Local) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Save writes the contents of r to name, returning the number of bytes written. The file only appears under name
// once it is complete; on error nothing is left behind.
func (l *Local) Save(name string, r io.Reader) (n int64, err error) {
	if err := validName(name); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(l.dir, "."+name+".*"+partialSuffix)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if n, err = io.Copy(tmp, r); err != nil {
		return n, err
	}
	if err = tmp.Sync(); err != nil {
		return n, err
	}
	if err = tmp.Close(); err != nil {
		return n, err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return n, err
	}
	return n, os.Rename(tmp.Name(), l.Path(name))
}

// Move renames name to target (relative to the storage directory), creating target's parent directory. It refuses
// to replace an existing file.
func (l *Local) Move(name, target string) error {
	if err := validName(name); err != nil {
		return err
	}
	dst := l.Path(target)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%v: %w", target, fs.ErrExist)
	}
	return os.Rename(l.Path(name), dst)
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
