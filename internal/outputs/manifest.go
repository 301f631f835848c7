package outputs

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// MimeClassifier resolves the MIME type reported for a file name. It is a
// collaborator: the manifest never inspects file contents itself, and the
// file does not need to exist.
type MimeClassifier func(name string) string

// knownTypes covers the extensions test outputs commonly use. The platform
// MIME table is consulted for anything else, so results for exotic
// extensions can differ between machines; the common cases cannot.
var knownTypes = map[string]string{
	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".json": "application/json",
	".log":  "text/plain",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".xml":  "text/xml",
	".zip":  "application/zip",
}

// DefaultMimeType classifies by file extension, falling back to
// application/octet-stream for unknown extensions.
func DefaultMimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return "application/octet-stream"
	}
	// the manifest carries the bare type, not charset parameters
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// RenderManifest renders one line per entry, in input order. Files render as
// path, size and MIME type separated by tabs; directories render as their
// path with a trailing slash. The text is advisory, for humans retrieving
// the outputs, and is not parsed by anything in this module.
func RenderManifest(entries []FileEntry, classify MimeClassifier) string {
	if classify == nil {
		classify = DefaultMimeType
	}
	var sb strings.Builder
	for _, e := range entries {
		rel := filepath.ToSlash(e.RelPath)
		if e.IsDir {
			sb.WriteString(rel)
			sb.WriteString("/\n")
			continue
		}
		fmt.Fprintf(&sb, "%s\t%d\t%s\n", rel, e.Size, classify(e.RelPath))
	}
	return sb.String()
}
