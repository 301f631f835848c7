// Package cdata encodes raw process output for embedding inside XML CDATA
// sections.
//
// CDATA content is literal except for the terminator sequence "]]>". The
// encoder splits the section whenever that sequence appears in the input:
// it closes the open section, emits the three bytes as escaped text, and
// reopens a new section. Decoding the resulting markup reconstructs the
// original bytes exactly.
package cdata

import (
	"bufio"
	"bytes"
	"io"

	"github.com/bebsworthy/testwrap/internal/stream"
)

const sectionSplit = "]]>]]&gt;<![CDATA["

// Encode writes the CDATA-interior-safe form of src to w. Control bytes that
// are illegal in XML character data (below 0x20, except TAB, LF and CR) are
// replaced with '?'. A trailing "]" or "]]" is not a terminator and passes
// through verbatim.
func Encode(w io.Writer, src *stream.Peekable) error {
	bw := bufio.NewWriter(w)
	for {
		b, ok := src.Current()
		if !ok {
			break
		}
		if b == ']' {
			p1, ok1 := src.Peek(1)
			p2, ok2 := src.Peek(2)
			if ok1 && ok2 && p1 == ']' && p2 == '>' {
				if _, err := bw.WriteString(sectionSplit); err != nil {
					return err
				}
				if !(src.Advance() && src.Advance() && src.Advance()) {
					break
				}
				continue
			}
		}
		if err := bw.WriteByte(legalize(b)); err != nil {
			return err
		}
		if !src.Advance() {
			break
		}
	}
	if err := src.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

// EncodeBytes encodes an in-memory buffer.
func EncodeBytes(w io.Writer, b []byte) error {
	return Encode(w, stream.NewPeekable(bytes.NewReader(b), 0))
}

// WriteSection writes a complete CDATA section for src, opening and closing
// markers included.
func WriteSection(w io.Writer, src *stream.Peekable) error {
	if _, err := io.WriteString(w, "<![CDATA["); err != nil {
		return err
	}
	if err := Encode(w, src); err != nil {
		return err
	}
	_, err := io.WriteString(w, "]]>")
	return err
}

func legalize(b byte) byte {
	if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
		return '?'
	}
	return b
}
