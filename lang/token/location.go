package token

import (
	"encoding/binary"
	"fmt"
)

// Location is a 1-based line/column pair, grounded on
// original_source/crates/location/src/lib.rs. Unlike the teacher's
// lang/token.Pos (a single bit-packed byte offset resolved against a
// token.FileSet), Syphon keeps a plain line/column pair: the source
// language has no multi-file chunks to disambiguate, so there is no need
// for the teacher's FileSet indirection.
type Location struct {
	Line, Column int
}

// DefaultLocation is the location of the start of a source, matching the
// original's Default impl ({1, 1}).
var DefaultLocation = Location{Line: 1, Column: 1}

func (l Location) String() string { return fmt.Sprintf("%d:%d", l.Line, l.Column) }

// Bytes encodes l as two big-endian 64-bit integers, matching
// original_source/crates/location/src/lib.rs's to_bytes.
func (l Location) Bytes() []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], uint64(l.Line))
	binary.BigEndian.PutUint64(buf[8:16], uint64(l.Column))
	return buf
}

// DecodeLocation reads a Location written by Bytes, returning the
// remaining, unconsumed bytes.
func DecodeLocation(b []byte) (Location, []byte, error) {
	if len(b) < 16 {
		return Location{}, nil, fmt.Errorf("token: short location encoding: %d bytes", len(b))
	}
	line := binary.BigEndian.Uint64(b[0:8])
	col := binary.BigEndian.Uint64(b[8:16])
	return Location{Line: int(line), Column: int(col)}, b[16:], nil
}

// Span is a half-open byte range [Start, End) into the source buffer a
// Lexer was initialized with.
type Span struct {
	Start, End int
}

// Location resolves s against src, counting newlines up to s.Start. It is
// the inverse of the byte-offset-only Span the lexer produces; the
// conversion happens lazily, at the point an error or AST node needs to
// report a human-readable position, matching the teacher's File.Position
// convention (computed on demand, not kept per-token).
func (s Span) Location(src []byte) Location {
	line, col := 1, 1
	end := s.Start
	if end > len(src) {
		end = len(src)
	}
	for i := 0; i < end; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Location{Line: line, Column: col}
}
