// Package parser turns delimited text into rows for a core.RowHandler.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/kndndrj/rowconv/core"
)

const (
	DefaultChunkSize   = 256 * 1024
	DefaultMaxCellSize = 64 * 1024
	DefaultMaxColumns  = 1024
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	_ core.RowSource = (*CSV)(nil)
	_ core.Row       = (*row)(nil)
	_ core.Spanner   = (*row)(nil)
)

// row stores the cells of one record back to back in buf. ends holds the
// end offset of every cell.
type row struct {
	buf  []byte
	ends []int
}

func (r *row) ColumnCount() int {
	return len(r.ends)
}

// Cell panics if i is out of range.
func (r *row) Cell(i int) []byte {
	start := 0
	if i > 0 {
		start = r.ends[i-1]
	}
	end := r.ends[i]
	return r.buf[start:end:end]
}

func (r *row) Span() []byte {
	if len(r.ends) == 0 {
		return nil
	}
	end := r.ends[len(r.ends)-1]
	return r.buf[:end:end]
}

type state int

const (
	stateFieldStart state = iota
	stateUnquoted
	stateQuoted
	// a quote was seen inside a quoted field
	stateQuote
)

// CSV is a streaming RFC 4180 reader. Quoted fields may contain delimiters,
// line breaks and doubled quotes. Rows end with LF, CR or CRLF; an empty line
// is reported as a row without columns.
type CSV struct {
	r     io.Reader
	chunk []byte

	delim      byte
	maxCell    int
	maxColumns int

	row          row
	state        state
	cellStart    int
	inRow        bool
	cellOverflow bool
	dropCell     bool
	skipLF       bool
	started      bool
	done         bool
}

type Option func(*CSV)

func WithDelimiter(delim byte) Option {
	return func(p *CSV) {
		p.delim = delim
	}
}

// WithMaxCellSize sets the size after which cell content is cut off and
// reported as overflow.
func WithMaxCellSize(size int) Option {
	return func(p *CSV) {
		if size > 0 {
			p.maxCell = size
		}
	}
}

// WithMaxColumns sets the maximum number of columns per row. Extra cells
// are dropped.
func WithMaxColumns(n int) Option {
	return func(p *CSV) {
		if n > 0 {
			p.maxColumns = n
		}
	}
}

// WithChunkSize sets how many bytes a single ParseMore call reads.
func WithChunkSize(size int) Option {
	return func(p *CSV) {
		if size > 0 {
			p.chunk = make([]byte, size)
		}
	}
}

func NewCSV(r io.Reader, opts ...Option) *CSV {
	p := &CSV{
		r:          r,
		delim:      ',',
		maxCell:    DefaultMaxCellSize,
		maxColumns: DefaultMaxColumns,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.chunk == nil {
		p.chunk = make([]byte, DefaultChunkSize)
	}

	return p
}

// ParseMore reads the next chunk of input and hands every row completed by
// it to h. It returns io.EOF after the last row has been handled. An error
// returned by h stops parsing and is returned as is.
func (p *CSV) ParseMore(h core.RowHandler) error {
	if p.done {
		return io.EOF
	}

	n, err := p.r.Read(p.chunk)
	if n > 0 {
		data := p.chunk[:n]
		if !p.started {
			p.started = true
			data = bytes.TrimPrefix(data, utf8BOM)
		}
		if perr := p.parse(data, h); perr != nil {
			return perr
		}
	}

	if errors.Is(err, io.EOF) {
		p.done = true
		if ferr := p.finish(h); ferr != nil {
			return ferr
		}
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("p.r.Read: %w", err)
	}

	return nil
}

func (p *CSV) parse(data []byte, h core.RowHandler) error {
	for _, c := range data {
		if p.skipLF {
			p.skipLF = false
			if c == '\n' {
				continue
			}
		}

		switch p.state {
		case stateFieldStart:
			switch {
			case c == '"':
				p.inRow = true
				p.state = stateQuoted
			case c == p.delim:
				p.inRow = true
				p.endCell(h)
			case c == '\n' || c == '\r':
				if err := p.endRow(h, c); err != nil {
					return err
				}
			default:
				p.inRow = true
				p.appendByte(c)
				p.state = stateUnquoted
			}

		case stateUnquoted:
			switch {
			case c == p.delim:
				p.endCell(h)
				p.state = stateFieldStart
			case c == '\n' || c == '\r':
				if err := p.endRow(h, c); err != nil {
					return err
				}
			default:
				p.appendByte(c)
			}

		case stateQuoted:
			if c == '"' {
				p.state = stateQuote
			} else {
				p.appendByte(c)
			}

		case stateQuote:
			switch {
			case c == '"':
				p.appendByte('"')
				p.state = stateQuoted
			case c == p.delim:
				p.endCell(h)
				p.state = stateFieldStart
			case c == '\n' || c == '\r':
				if err := p.endRow(h, c); err != nil {
					return err
				}
			default:
				// lenient: text after a closing quote belongs to the cell
				p.appendByte(c)
				p.state = stateUnquoted
			}
		}
	}

	return nil
}

// finish flushes a last row that is not terminated by a line break.
func (p *CSV) finish(h core.RowHandler) error {
	if !p.inRow {
		return nil
	}
	return p.endRow(h, 0)
}

func (p *CSV) appendByte(c byte) {
	if p.dropCell {
		return
	}
	if len(p.row.buf)-p.cellStart >= p.maxCell {
		p.cellOverflow = true
		return
	}
	p.row.buf = append(p.row.buf, c)
}

func (p *CSV) endCell(h core.RowHandler) {
	switch {
	case p.dropCell:
		p.row.buf = p.row.buf[:p.cellStart]
	default:
		if p.cellOverflow {
			h.HandleOverflow(p.row.buf[p.cellStart:])
		}
		p.row.ends = append(p.row.ends, len(p.row.buf))
	}

	p.cellStart = len(p.row.buf)
	p.cellOverflow = false
	p.dropCell = len(p.row.ends) >= p.maxColumns
}

func (p *CSV) endRow(h core.RowHandler, terminator byte) error {
	if p.inRow {
		p.endCell(h)
	}
	err := h.HandleRow(&p.row)

	p.row.buf = p.row.buf[:0]
	p.row.ends = p.row.ends[:0]
	p.cellStart = 0
	p.inRow = false
	p.cellOverflow = false
	p.dropCell = false
	p.state = stateFieldStart
	p.skipLF = terminator == '\r'

	return err
}
