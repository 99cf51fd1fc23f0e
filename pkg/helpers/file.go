package helpers

import (
	"os"
	"path/filepath"
)

func FileExists(filename string) bool {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return false
	}

	return true
}

// FirstExisting returns the first of names that exists in dir, joined onto dir.
func FirstExisting(dir string, names ...string) (string, bool) {
	for _, n := range names {
		if p := filepath.Join(dir, n); FileExists(p) {
			return p, true
		}
	}

	return "", false
}
