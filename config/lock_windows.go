//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
)

// whole-file range for LockFileEx
const lockRange = ^uint32(0)

// acquireLock opens path and blocks until it holds an exclusive LockFileEx lock on it
func acquireLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	ol := new(windows.Overlapped)
	if err := windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, lockRange, lockRange, ol); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// releaseLock unlocks and closes f
func releaseLock(f *os.File) error {
	defer f.Close()
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockRange, lockRange, ol)
}
