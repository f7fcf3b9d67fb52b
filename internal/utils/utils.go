package utils

import (
	"os"
	"strings"
)

// MaskSecret masks a token or API key for display, keeping the first and
// last four characters of anything longer than eight.
func MaskSecret(secret string) string {
	r := []rune(strings.TrimSpace(secret))
	if len(r) <= 8 {
		return "****"
	}
	return string(r[:4]) + "****" + string(r[len(r)-4:])
}

// HomeDir resolves the user's home directory: USERPROFILE, then HOME, then
// whatever the OS reports. It returns "" only when all three fail.
func HomeDir() string {
	for _, key := range []string{"USERPROFILE", "HOME"} {
		if dir := strings.TrimSpace(os.Getenv(key)); dir != "" {
			return dir
		}
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return dir
}

// IsDir reports whether path names an existing directory
func IsDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
