package core

type (
	// Row is a single parsed row. Cells returned by Cell are views into the
	// row source's buffer and are valid only until the handler returns.
	Row interface {
		ColumnCount() int
		Cell(i int) []byte
	}

	// Spanner is an optional interface for rows whose cells are stored back
	// to back in one buffer. Span returns the bytes from the start of the
	// first cell to the end of the last one.
	Spanner interface {
		Span() []byte
	}

	// RowHandler receives rows and overflow notifications from a RowSource.
	RowHandler interface {
		HandleRow(Row) error
		HandleOverflow(value []byte)
	}

	// RowSource produces rows from raw input. ParseMore consumes the next
	// chunk of input, calling the handler once per completed row, and
	// returns io.EOF once the input is exhausted.
	RowSource interface {
		ParseMore(h RowHandler) error
	}

	// Transcoder is a RowHandler that owns an output. Finish flushes or
	// closes whatever the transcoder has pending and is called exactly once.
	Transcoder interface {
		RowHandler
		Finish() error
	}
)

// DocumentWriter emits nested JSON structures. Write errors are sticky and
// reported by Err and EndAll.
type DocumentWriter interface {
	StartArray()
	EndArray()
	StartObject()
	EndObject()
	Key(name string)
	String(value []byte)
	Bool(value bool)
	Null()
	// EndAll closes every open structure and flushes the output.
	EndAll() error
	Err() error
}

// Logger is the logging interface used across the module.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type (
	// Record and Header are attributes of ResultStream iterator
	Record []any
	Header []string

	// ResultStream is a result from an executed query in a form of an iterator
	ResultStream interface {
		Header() Header
		Next() (Record, error)
		HasNext() bool
		// Err reports the error, if any, that ended the iteration early.
		Err() error
		Close()
	}
)
