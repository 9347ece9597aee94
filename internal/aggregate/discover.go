package aggregate

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discover lists the regular files in dir whose name matches pattern,
// returned as paths joined with dir.
//
// The returned order is the os.ReadDir order, which is sorted by file name.
// This makes discovery deterministic across runs and platforms; concatenation
// order in the combined output follows this order.
//
// A missing or unreadable directory returns an error wrapping ErrDirNotFound.
// An empty result is not an error here; the caller decides how to treat it.
func Discover(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if matched {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
