// Package outputs enumerates and packages the extra files a test leaves in
// its undeclared outputs directory: a depth-limited walk, archive entry path
// construction, zip packaging and manifest rendering.
package outputs

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/bebsworthy/testwrap/internal/debug"
)

// FileEntry describes one node found below a walk root.
type FileEntry struct {
	// RelPath is the node's path relative to the walk root, in the
	// platform's native separator convention.
	RelPath string
	// Size is the file size in bytes, 0 for directories. Sizes beyond
	// MaxInt32 saturate; see Walk.
	Size int32
	// IsDir marks directory entries.
	IsDir bool
}

// UnlimitedDepth disables the depth limit of Walk.
const UnlimitedDepth = -1

// Walk lists every node under root. depthLimit bounds recursion below root:
// 0 lists only root's direct children (subdirectories appear as entries but
// are not entered), k > 0 enters subdirectories up to k levels down, and a
// negative limit means unlimited depth.
//
// Order is the underlying directory enumeration order (lexical per
// directory, parents before children), so repeated walks of an unchanged
// tree agree. An unreadable root fails the call; so does a failing stat on
// any child, because a partial listing must not pass for a complete one.
//
// File sizes saturate at MaxInt32 rather than wrap; files of 2 GiB and more
// are a known reporting limitation.
func Walk(root string, depthLimit int) ([]FileEntry, error) {
	var entries []FileEntry
	if err := walkDir(root, "", depthLimit, &entries); err != nil {
		return nil, err
	}
	debug.LogWalk(root, depthLimit, len(entries))
	return entries, nil
}

func walkDir(root, rel string, depthLimit int, out *[]FileEntry) error {
	dir := root
	if rel != "" {
		dir = filepath.Join(root, rel)
	}
	children, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading output directory: %w", err)
	}
	for _, child := range children {
		childRel := child.Name()
		if rel != "" {
			childRel = filepath.Join(rel, child.Name())
		}
		if child.IsDir() {
			*out = append(*out, FileEntry{RelPath: childRel, IsDir: true})
			if depthLimit != 0 {
				next := depthLimit
				if next > 0 {
					next--
				}
				if err := walkDir(root, childRel, next, out); err != nil {
					return err
				}
			}
			continue
		}
		info, err := child.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", filepath.Join(dir, child.Name()), err)
		}
		*out = append(*out, FileEntry{RelPath: childRel, Size: clampSize(info.Size())})
	}
	return nil
}

func clampSize(n int64) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}
