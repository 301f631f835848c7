package outputs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// annotationSuffix marks the partial annotation files a test may drop into
// its annotations directory.
const annotationSuffix = ".part"

// MergeAnnotations concatenates every *.part file directly inside dir (no
// recursion) into a single file at outPath, in directory enumeration order.
// A missing annotations directory is a no-op; when no *.part files exist,
// no output file is created.
func MergeAnnotations(dir, outPath string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	entries, err := Walk(dir, 0)
	if err != nil {
		return fmt.Errorf("listing annotations: %w", err)
	}

	var parts []string
	for _, e := range entries {
		if !e.IsDir && strings.HasSuffix(e.RelPath, annotationSuffix) {
			parts = append(parts, filepath.Join(dir, e.RelPath))
		}
	}
	if len(parts) == 0 {
		return nil
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating annotations file: %w", err)
	}
	for _, part := range parts {
		if err := appendFile(out, part); err != nil {
			_ = out.Close() //nolint:errcheck
			return fmt.Errorf("merging %s: %w", part, err)
		}
	}
	return out.Close()
}

func appendFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck
	_, err = io.Copy(w, f)
	return err
}
