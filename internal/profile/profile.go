// Package profile resolves named profiles to their configuration directories.
// A profile named "dev" lives in <base>/profile_dev; a name that is itself a
// path to an existing directory is used as-is.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirPrefix is prepended to a profile name to form its directory name.
const DirPrefix = "profile_"

// ErrNotFound is returned when no directory exists for the requested profile.
var ErrNotFound = errors.New("profile directory not found")

// FindDir resolves name to a profile directory under base. The name may also
// be an absolute or relative path to an existing directory, which bypasses
// the base entirely.
func FindDir(base, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty profile name", ErrNotFound)
	}

	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("absolute path: %w", err)
		}
		if isDir(abs) {
			return abs, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
	}

	candidate := filepath.Join(base, DirPrefix+name)
	if isDir(candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %s under %s", ErrNotFound, name, base)
}

func isDir(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return stat.IsDir()
}
