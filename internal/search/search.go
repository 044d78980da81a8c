// Package search locates configuration files on an ordered list of candidate
// directories.
package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when every candidate directory has been exhausted.
var ErrNotFound = errors.New("configuration file not found")

// FindFile returns the first existing regular file named name on the ordered
// candidate directories. A name that already carries a path separator (or is
// absolute) is checked directly and the directories are ignored. An empty
// directory list defaults to the working directory.
func FindFile(name string, dirs []string) (string, error) {
	expanded, err := expandUser(name)
	if err != nil {
		return "", err
	}

	if filepath.IsAbs(expanded) || strings.ContainsRune(expanded, os.PathSeparator) {
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", fmt.Errorf("absolute path: %w", err)
		}
		if isFile(abs) {
			return abs, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
	}

	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		dir, err := expandUser(dir)
		if err != nil {
			return "", err
		}
		candidate := filepath.Join(dir, expanded)
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", fmt.Errorf("absolute path: %w", err)
		}
		if isFile(abs) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrNotFound, name, strings.Join(dirs, string(os.PathListSeparator)))
}

func expandUser(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func isFile(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !stat.IsDir()
}
