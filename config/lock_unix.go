//go:build !windows

package config

import (
	"os"

	"golang.org/x/sys/unix"
)

// acquireLock opens path and blocks until it holds an exclusive flock on it
func acquireLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// releaseLock drops the flock and closes f
func releaseLock(f *os.File) error {
	defer f.Close()
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
