package format

import (
	"github.com/kndndrj/rowconv/core"
)

var _ core.Transcoder = (*JSON)(nil)

// JSON converts rows to one of the JSON layouts selected by core.Schema.
type JSON struct {
	w        core.DocumentWriter
	schema   core.Schema
	noHeader bool
	noEmpty  bool
	indexes  []index

	// rows handled so far, header row included
	rows    int
	headers []string
	// whether the outer array of the object schema is open
	opened   bool
	overflow overflowWarner
}

// NewJSON creates a JSON transcoder. Options must have been validated.
func NewJSON(w core.DocumentWriter, opts *core.JSONOptions, log core.Logger) *JSON {
	if opts == nil {
		opts = &core.JSONOptions{}
	}

	return &JSON{
		w:        w,
		schema:   opts.Schema,
		noHeader: opts.NoHeader,
		noEmpty:  opts.NoEmpty,
		indexes:  parseIndexes(opts.Indexes),
		overflow: overflowWarner{log: log},
	}
}

func (j *JSON) HandleRow(row core.Row) error {
	cols := row.ColumnCount()
	if cols == 0 {
		return nil
	}

	header := j.rows == 0 && !j.noHeader

	switch j.schema {
	case core.SchemaObjects:
		if header {
			j.captureHeaders(row)
		} else {
			j.objectRow(row)
		}
	case core.SchemaDatabase:
		if header {
			j.databaseHeader(row)
		} else {
			if j.rows == 1 {
				// table data
				j.w.StartArray()
			}
			j.arrayRow(row)
		}
	default:
		if j.rows == 0 {
			j.w.StartArray()
		}
		j.arrayRow(row)
	}

	j.rows++
	return j.w.Err()
}

func (j *JSON) HandleOverflow(value []byte) {
	j.overflow.warn(value)
}

// Finish closes all open structures.
func (j *JSON) Finish() error {
	if j.schema == core.SchemaObjects && j.rows > 0 && !j.opened {
		// header only input is an empty array of objects
		j.w.StartArray()
	}
	return j.w.EndAll()
}

func (j *JSON) captureHeaders(row core.Row) {
	cols := row.ColumnCount()
	j.headers = make([]string, cols)
	for i := 0; i < cols; i++ {
		j.headers[i] = string(row.Cell(i))
	}
}

func (j *JSON) arrayRow(row core.Row) {
	j.w.StartArray()
	for i := 0; i < row.ColumnCount(); i++ {
		j.w.String(row.Cell(i))
	}
	j.w.EndArray()
}

func (j *JSON) objectRow(row core.Row) {
	if !j.opened {
		j.w.StartArray()
		j.opened = true
	}

	j.w.StartObject()
	for i := 0; i < row.ColumnCount(); i++ {
		// cells past the last header are not named
		if i >= len(j.headers) {
			break
		}

		cell := row.Cell(i)
		if len(cell) == 0 && j.noEmpty {
			continue
		}
		j.w.Key(j.headers[i])
		j.w.String(cell)
	}
	j.w.EndObject()
}

func (j *JSON) databaseHeader(row core.Row) {
	j.w.StartArray()
	j.w.StartObject()

	writeIndexes(j.w, j.indexes)

	j.w.Key("columns")
	j.w.StartArray()
	for i := 0; i < row.ColumnCount(); i++ {
		j.w.String(row.Cell(i))
	}
	j.w.EndArray()

	j.w.EndObject()
}
