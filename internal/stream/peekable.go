// Package stream provides the byte-stream primitives used to mirror and
// re-read test process output.
package stream

import (
	"fmt"
	"io"
)

// MaxPeek is the deepest lookahead Peek supports.
const MaxPeek = 3

const (
	defaultPageSize = 4096
	minPageSize     = MaxPeek + 1
)

// Peekable is a buffered, forward-only cursor over an io.Reader with up to
// MaxPeek bytes of lookahead past the cursor.
//
// The lookahead buffer is owned by the Peekable and never escapes it. The
// underlying reader is borrowed: the caller keeps ownership and must keep it
// open for the lifetime of the Peekable.
type Peekable struct {
	src io.Reader
	buf []byte // buf[pos] is the byte under the cursor
	pos int
	eof bool // src is drained (clean EOF or read failure)
	err error
}

// NewPeekable returns a Peekable positioned on the first byte of src, if any.
// pageSize is the read granularity; values too small to hold the cursor byte
// plus the lookahead fall back to a default.
func NewPeekable(src io.Reader, pageSize int) *Peekable {
	if pageSize < minPageSize {
		pageSize = defaultPageSize
	}
	s := &Peekable{src: src, buf: make([]byte, 0, pageSize)}
	s.fill(1)
	return s
}

// Current returns the byte under the cursor. It reports false, with no side
// effect, once the stream is exhausted or if the source was empty.
func (s *Peekable) Current() (byte, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	return s.buf[s.pos], true
}

// Advance moves the cursor one byte forward, pulling more data from the
// source as needed. It reports false if no further byte exists; the stream is
// then terminally exhausted and repeated calls keep reporting false. A read
// failure looks like end-of-data here; Err carries the distinction.
func (s *Peekable) Advance() bool {
	s.fill(2)
	if s.pos+1 >= len(s.buf) {
		s.pos = len(s.buf)
		return false
	}
	s.pos++
	return true
}

// Peek returns the byte n positions past the cursor without moving it,
// reading ahead from the source only as far as n requires. It reports false
// if fewer than n bytes remain. n outside 1..MaxPeek is a contract violation.
func (s *Peekable) Peek(n int) (byte, bool) {
	if n < 1 || n > MaxPeek {
		panic(fmt.Sprintf("stream: peek depth %d outside 1..%d", n, MaxPeek))
	}
	s.fill(n + 1)
	if s.pos+n >= len(s.buf) {
		return 0, false
	}
	return s.buf[s.pos+n], true
}

// Err reports the read failure, if any, that ended the stream. A nil result
// after Advance or Peek reported false means clean end-of-data.
func (s *Peekable) Err() error {
	return s.err
}

// fill makes at least want bytes available at the cursor, or drains the
// source trying. Consumed bytes before the cursor are recycled in place.
func (s *Peekable) fill(want int) {
	for !s.eof && len(s.buf)-s.pos < want {
		if len(s.buf) == cap(s.buf) {
			kept := copy(s.buf, s.buf[s.pos:])
			s.buf = s.buf[:kept]
			s.pos = 0
		}
		n, err := s.src.Read(s.buf[len(s.buf):cap(s.buf)])
		s.buf = s.buf[:len(s.buf)+n]
		if err != nil {
			s.eof = true
			if err != io.EOF {
				s.err = err
			}
		}
	}
}
