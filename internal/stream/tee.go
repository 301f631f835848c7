package stream

import (
	"fmt"
	"io"
)

// teeChunkSize is the read granularity of a tee session.
const teeChunkSize = 0x10000

// Tee mirrors bytes from one source to two sinks, preserving source order in
// both. Modeled after tee(1).
//
// The source and sinks are borrowed handles: the caller owns them, keeps them
// open for the lifetime of the session, and closes them afterwards.
type Tee struct {
	src       io.Reader
	primary   io.Writer
	secondary io.Writer
}

// NewTee returns a tee session over the given source and sinks.
func NewTee(src io.Reader, primary, secondary io.Writer) *Tee {
	return &Tee{src: src, primary: primary, secondary: secondary}
}

// WriteThrough copies one chunk to both sinks. The policy is fail-fast: if
// the primary sink's write fails, the secondary is not attempted for that
// chunk.
func (t *Tee) WriteThrough(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := t.primary.Write(p); err != nil {
		return fmt.Errorf("tee: primary sink: %w", err)
	}
	if _, err := t.secondary.Write(p); err != nil {
		return fmt.Errorf("tee: secondary sink: %w", err)
	}
	return nil
}

// Run pumps the source into both sinks until it is drained. A drained source
// ends the session cleanly; a sink or source failure ends it with an error.
func (t *Tee) Run() error {
	buf := make([]byte, teeChunkSize)
	for {
		n, err := t.src.Read(buf)
		if n > 0 {
			if werr := t.WriteThrough(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tee: source: %w", err)
		}
	}
}
