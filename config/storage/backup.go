package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// DefaultBackupRetention is how many backups of the active document are kept
const DefaultBackupRetention = 3

const (
	backupInfix      = ".backup-"
	backupTimeFormat = "20060102150405.000"
)

// Rotation keeps the newest Keep copies of a file, named
// <file>.backup-<timestamp>-<pid> next to it.
type Rotation struct {
	Keep int
}

// NewRotation returns a Rotation keeping keep backups (DefaultBackupRetention when keep <= 0)
func NewRotation(keep int) *Rotation {
	if keep <= 0 {
		keep = DefaultBackupRetention
	}
	return &Rotation{Keep: keep}
}

// Replace writes data to path atomically. An existing path is copied to a
// new backup first and surplus backups are pruned afterwards.
func (r *Rotation) Replace(path string, data []byte, perm os.FileMode) error {
	existed := Exists(path)
	if existed {
		if _, err := r.Snapshot(path); err != nil {
			return err
		}
	}

	if err := WriteAtomic(path, data, perm); err != nil {
		return err
	}

	if existed {
		if err := r.Prune(path); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("failed to prune backups")
		}
	}
	return nil
}

// Snapshot copies path to a new backup and returns the backup's path
func (r *Rotation) Snapshot(path string) (string, error) {
	// step past a backup taken within the same millisecond
	now := time.Now()
	backup := backupName(path, now)
	for Exists(backup) {
		now = now.Add(time.Millisecond)
		backup = backupName(path, now)
	}

	if err := copyFile(path, backup); err != nil {
		return "", errors.Wrapf(err, "back up %s", filepath.Base(path))
	}
	return backup, nil
}

func backupName(path string, t time.Time) string {
	return fmt.Sprintf("%s%s%s-%d", path, backupInfix, t.Format(backupTimeFormat), os.Getpid())
}

// Backups lists the backups of path, oldest first
func (r *Rotation) Backups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "list backups in %s", dir)
	}

	prefix := filepath.Base(path) + backupInfix
	var backups []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), prefix) {
			backups = append(backups, filepath.Join(dir, e.Name()))
		}
	}
	// timestamps sort lexically
	sort.Strings(backups)
	return backups, nil
}

// Prune removes all but the newest Keep backups of path
func (r *Rotation) Prune(path string) error {
	backups, err := r.Backups(path)
	if err != nil {
		return err
	}
	if len(backups) <= r.Keep {
		return nil
	}

	for _, old := range backups[:len(backups)-r.Keep] {
		if err := os.Remove(old); err != nil {
			return errors.Wrapf(err, "remove backup %s", filepath.Base(old))
		}
	}
	return nil
}

// Latest returns the newest backup of path, or "" when there is none
func (r *Rotation) Latest(path string) (string, error) {
	backups, err := r.Backups(path)
	if err != nil || len(backups) == 0 {
		return "", err
	}
	return backups[len(backups)-1], nil
}

// Restore writes the newest backup over path and returns the backup used.
// The current content of path is backed up first, so a restore can itself
// be undone. Without backups the error wraps os.ErrNotExist.
func (r *Rotation) Restore(path string) (string, error) {
	latest, err := r.Latest(path)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", errors.Wrapf(os.ErrNotExist, "no backups of %s", filepath.Base(path))
	}

	data, err := os.ReadFile(latest)
	if err != nil {
		return "", errors.Wrapf(err, "read backup %s", filepath.Base(latest))
	}
	if err := r.Replace(path, data, ModeOf(path, ModeOf(latest, 0600))); err != nil {
		return "", errors.Wrapf(err, "restore %s", filepath.Base(path))
	}
	return latest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
