package outputs

import "path/filepath"

// entryPair couples the filesystem location of one archive member with the
// path it is stored under inside the archive.
type entryPair struct {
	source string // OS-native path the bytes are read from
	entry  string // forward-slash path inside the archive
}

// EntryPaths owns the source/archive path pairs handed to an archive writer.
// It is immutable after construction; the two list views are derived on
// demand and stay index-aligned with each other and with the input entries.
type EntryPaths struct {
	pairs []entryPair
}

// BuildEntryPaths maps entries rooted at root to path pairs. Pure: no I/O,
// no reordering, no filtering, no deduplication. Archive paths always use
// forward slashes regardless of platform, and directory entries carry a
// trailing slash so the container preserves empty directories.
func BuildEntryPaths(root string, entries []FileEntry) *EntryPaths {
	pairs := make([]entryPair, 0, len(entries))
	for _, e := range entries {
		entry := filepath.ToSlash(e.RelPath)
		if e.IsDir {
			entry += "/"
		}
		pairs = append(pairs, entryPair{
			source: filepath.Join(root, e.RelPath),
			entry:  entry,
		})
	}
	return &EntryPaths{pairs: pairs}
}

// Len returns the number of path pairs.
func (p *EntryPaths) Len() int {
	return len(p.pairs)
}

// SourcePaths returns the filesystem paths, index-aligned with ArchivePaths.
func (p *EntryPaths) SourcePaths() []string {
	paths := make([]string, len(p.pairs))
	for i, pair := range p.pairs {
		paths[i] = pair.source
	}
	return paths
}

// ArchivePaths returns the in-archive paths, index-aligned with SourcePaths.
func (p *EntryPaths) ArchivePaths() []string {
	paths := make([]string, len(p.pairs))
	for i, pair := range p.pairs {
		paths[i] = pair.entry
	}
	return paths
}
