package format

import (
	"bytes"
	"errors"
	"fmt"
)

// DefaultMaxEscapedCellSize bounds the scratch buffer used for escaped cells.
const DefaultMaxEscapedCellSize = 64 << 20

var ErrEscapeBuffer = errors.New("unable to build escaped cell")

// tsvSpecial reports whether c must be escaped in tab-delimited output.
func tsvSpecial(c byte) bool {
	return c == '\t' || c == '\n' || c == '\r' || c == '\\'
}

// ContainsTSVSpecial reports whether b holds a tab, newline, carriage return
// or backslash.
func ContainsTSVSpecial(b []byte) bool {
	return bytes.IndexByte(b, '\t') >= 0 ||
		bytes.IndexByte(b, '\n') >= 0 ||
		bytes.IndexByte(b, '\r') >= 0 ||
		bytes.IndexByte(b, '\\') >= 0
}

// AppendEscapedTSV appends cell to dst, replacing tab, newline, carriage
// return and backslash with \t, \n, \r and \\.
func AppendEscapedTSV(dst, cell []byte) []byte {
	for _, c := range cell {
		switch c {
		case '\t':
			dst = append(dst, '\\', 't')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\\':
			dst = append(dst, '\\', '\\')
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

// UnescapeTSV reverses AppendEscapedTSV. A backslash followed by any other
// byte, or a trailing backslash, is kept as is.
func UnescapeTSV(escaped []byte) []byte {
	out := make([]byte, 0, len(escaped))
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c != '\\' || i+1 == len(escaped) {
			out = append(out, c)
			continue
		}

		switch escaped[i+1] {
		case 't':
			out = append(out, '\t')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case '\\':
			out = append(out, '\\')
		default:
			out = append(out, c, escaped[i+1])
		}
		i++
	}
	return out
}

// tsvEscaper builds escaped cells in a reusable buffer.
type tsvEscaper struct {
	buf   []byte
	limit int
}

// escape returns the escaped form of cell. When the cell has nothing to
// escape, it returns (nil, false, nil) and the caller writes the cell as is.
// The returned slice is only valid until the next call.
func (e *tsvEscaper) escape(cell []byte) ([]byte, bool, error) {
	special := 0
	for _, c := range cell {
		if tsvSpecial(c) {
			special++
		}
	}
	if special == 0 {
		return nil, false, nil
	}

	size := len(cell) + special
	if e.limit > 0 && size > e.limit {
		return nil, false, fmt.Errorf("%w: escaped size %d exceeds limit of %d bytes", ErrEscapeBuffer, size, e.limit)
	}
	if cap(e.buf) < size {
		e.buf = make([]byte, 0, size)
	}

	e.buf = AppendEscapedTSV(e.buf[:0], cell)
	return e.buf, true, nil
}
