package outputs

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter returns the entries whose slash-form relative path matches at least
// one include pattern and no exclude pattern. An empty include list includes
// everything. Patterns use doublestar glob syntax ("**" spans directories).
// Entry order is preserved; directories are subject to the same patterns as
// files.
func Filter(entries []FileEntry, include, exclude []string) ([]FileEntry, error) {
	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	kept := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		rel := filepath.ToSlash(e.RelPath)
		if len(include) > 0 && !matchesAny(include, rel) {
			continue
		}
		if matchesAny(exclude, rel) {
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}
