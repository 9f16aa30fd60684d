package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates path (and parents) unless it is already a directory.
func EnsureDir(path string) error {
	if DirExists(path) {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// SafeFileName turns an identifier (species code, metric name) into something
// usable as a file name.
func SafeFileName(name string) string {
	replacer := strings.NewReplacer(string(filepath.Separator), "_", " ", "_", ":", "_")
	return replacer.Replace(name)
}
