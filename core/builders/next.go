package builders

import (
	"errors"

	"github.com/kndndrj/rowconv/core"
)

var errNoNextRecord = errors.New("no next record")

// NextRecords iterates over records that are already in memory. Records are
// handed out as is, without copying.
func NextRecords(records ...core.Record) (func() (core.Record, error), func() bool) {
	pos := 0

	hasNext := func() bool {
		return pos < len(records)
	}

	next := func() (core.Record, error) {
		if !hasNext() {
			return nil, errNoNextRecord
		}
		rec := records[pos]
		pos++
		return rec, nil
	}

	return next, hasNext
}

// NextNil iterates over nothing. Used for statements without a result set.
func NextNil() (func() (core.Record, error), func() bool) {
	return NextRecords()
}
