package storage

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Exists reports whether path can be stat'ed
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ModeOf returns the permission bits of path, or fallback when it is missing
func ModeOf(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}

// WriteAtomic writes data to a temporary sibling of path and renames it into
// place, so readers see either the old or the new content.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temporary file")
	}
	name := tmp.Name()
	defer os.Remove(name) // no-op once renamed

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, "write %s", name)
	}

	if err := os.Chmod(name, perm); err != nil {
		return errors.Wrapf(err, "chmod %s", name)
	}
	if err := os.Rename(name, path); err != nil {
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}
