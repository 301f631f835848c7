package testutil

import "io"

// FailingWriter accepts up to Limit bytes, then returns Err on every
// subsequent write. Written bytes are retained for inspection.
type FailingWriter struct {
	Limit int
	Err   error

	written []byte
}

// Write implements io.Writer.
func (fw *FailingWriter) Write(p []byte) (int, error) {
	if len(fw.written)+len(p) > fw.Limit {
		return 0, fw.Err
	}
	fw.written = append(fw.written, p...)
	return len(p), nil
}

// Written returns everything accepted so far.
func (fw *FailingWriter) Written() []byte {
	return fw.written
}

// FailingReader yields Data, then returns Err instead of io.EOF.
type FailingReader struct {
	Data []byte
	Err  error

	off int
}

// Read implements io.Reader.
func (fr *FailingReader) Read(p []byte) (int, error) {
	if fr.off >= len(fr.Data) {
		return 0, fr.Err
	}
	n := copy(p, fr.Data[fr.off:])
	fr.off += n
	return n, nil
}

var _ io.Reader = (*FailingReader)(nil)
