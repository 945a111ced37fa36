package format

import (
	"fmt"
	"io"

	"github.com/kndndrj/rowconv/core"
)

var _ core.Transcoder = (*TSV)(nil)

// TSV converts rows to tab-delimited text.
type TSV struct {
	sink     *core.Sink
	escaper  tsvEscaper
	overflow overflowWarner
}

type TSVOption func(*tsvConfig)

type tsvConfig struct {
	bufferSize    int
	maxEscapedLen int
	log           core.Logger
}

// WithTSVBufferSize sets the size of the output buffer.
func WithTSVBufferSize(size int) TSVOption {
	return func(c *tsvConfig) {
		c.bufferSize = size
	}
}

// WithMaxEscapedCellSize bounds the size of a single escaped cell. Cells
// that would grow past it fail the run.
func WithMaxEscapedCellSize(size int) TSVOption {
	return func(c *tsvConfig) {
		c.maxEscapedLen = size
	}
}

// WithTSVLogger sets the logger used for overflow warnings.
func WithTSVLogger(log core.Logger) TSVOption {
	return func(c *tsvConfig) {
		c.log = log
	}
}

func NewTSV(w io.Writer, opts ...TSVOption) *TSV {
	config := tsvConfig{
		bufferSize:    core.DefaultSinkSize,
		maxEscapedLen: DefaultMaxEscapedCellSize,
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &TSV{
		sink:     core.NewSink(w, config.bufferSize),
		escaper:  tsvEscaper{limit: config.maxEscapedLen},
		overflow: overflowWarner{log: config.log},
	}
}

func (t *TSV) HandleRow(row core.Row) error {
	cols := row.ColumnCount()
	if cols == 0 {
		return nil
	}

	// cells of a spanned row are contiguous, so a single scan tells whether
	// any of them needs escaping
	verbatim := false
	if cols > 1 {
		if sp, ok := row.(core.Spanner); ok {
			verbatim = !ContainsTSVSpecial(sp.Span())
		}
	}

	if err := t.cell(row.Cell(0), verbatim); err != nil {
		return err
	}
	for i := 1; i < cols; i++ {
		if err := t.sink.WriteByte('\t'); err != nil {
			return err
		}
		if err := t.cell(row.Cell(i), verbatim); err != nil {
			return err
		}
	}

	return t.sink.WriteByte('\n')
}

func (t *TSV) HandleOverflow(value []byte) {
	t.overflow.warn(value)
}

func (t *TSV) Finish() error {
	return t.sink.Flush()
}

func (t *TSV) cell(value []byte, verbatim bool) error {
	if len(value) == 0 {
		return nil
	}

	if !verbatim {
		escaped, changed, err := t.escaper.escape(value)
		if err != nil {
			return fmt.Errorf("t.escaper.escape: %w", err)
		}
		if changed {
			value = escaped
		}
	}

	_, err := t.sink.Write(value)
	return err
}
