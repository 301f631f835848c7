package outputs

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/bebsworthy/testwrap/internal/debug"
)

// EntryWriter writes a set of files into an archive container. It receives
// two index-aligned path lists: where to read each member's bytes and the
// path to store them under. The container's byte format belongs to the
// implementation, not to this package.
type EntryWriter interface {
	WriteEntries(sourcePaths, archivePaths []string) error
}

// Archiver packages walked entries through an EntryWriter.
type Archiver struct {
	newWriter func(out io.Writer) EntryWriter
}

// NewArchiver returns an Archiver backed by the zip container writer.
func NewArchiver() *Archiver {
	return &Archiver{newWriter: newZipEntryWriter}
}

// Create builds the path pairs for entries rooted at root and delegates
// container production to the entry writer, creating the archive file at
// outPath. A writer failure fails the call; whether a partial archive is
// left on disk is the collaborator's concern, not cleaned up here.
func (a *Archiver) Create(root string, entries []FileEntry, outPath string) error {
	paths := BuildEntryPaths(root, entries)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	if err := a.newWriter(out).WriteEntries(paths.SourcePaths(), paths.ArchivePaths()); err != nil {
		_ = out.Close() //nolint:errcheck
		return fmt.Errorf("archiving %s: %w", root, err)
	}
	debug.LogArchive(outPath, paths.Len())
	return out.Close()
}

// CreateArchive packages entries rooted at root into a zip at outPath.
func CreateArchive(root string, entries []FileEntry, outPath string) error {
	return NewArchiver().Create(root, entries, outPath)
}

// zipEntryWriter produces a zip container. Deflate comes from
// klauspost/compress, which is considerably faster than the standard
// library's on large test logs.
type zipEntryWriter struct {
	out io.Writer
}

func newZipEntryWriter(out io.Writer) EntryWriter {
	return &zipEntryWriter{out: out}
}

func (z *zipEntryWriter) WriteEntries(sourcePaths, archivePaths []string) error {
	zw := zip.NewWriter(z.out)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	for i, src := range sourcePaths {
		entry := archivePaths[i]
		if strings.HasSuffix(entry, "/") {
			if _, err := zw.Create(entry); err != nil {
				return fmt.Errorf("adding directory %s: %w", entry, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: entry, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("adding %s: %w", entry, err)
		}
		if err := copyFile(w, src); err != nil {
			return fmt.Errorf("adding %s: %w", entry, err)
		}
	}
	return zw.Close()
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck
	_, err = io.Copy(w, f)
	return err
}
