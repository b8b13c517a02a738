package plugin

import (
	"os"
	"path/filepath"
)

// MarkerFile identifies a Lume project root.
const MarkerFile = "package.json"

// FindProjectRoot walks upward from start until a directory containing the
// marker file is found. The walk is a bounded loop that terminates at the
// filesystem root; ok is false when no project was found, and callers fall
// back to the working directory.
func FindProjectRoot(start string) (root string, ok bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, MarkerFile)); err == nil && !info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
