package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNoTable = errors.New("no table name provided, and none found")

// TableSource is a database that can list its tables and stream their rows.
type TableSource interface {
	// Tables lists the base tables of the current database/schema.
	Tables(ctx context.Context) ([]string, error)
	// TableRows streams every row of the given table.
	TableRows(ctx context.Context, table string) (ResultStream, error)
	Close()
}

// ExportTable writes the table's column names followed by all of its rows to
// w as an array of arrays. If table is empty, the first table reported by the
// source is used. The exported table name is returned.
func ExportTable(ctx context.Context, src TableSource, table string, w DocumentWriter) (string, error) {
	if table == "" {
		tables, err := src.Tables(ctx)
		if err != nil {
			return "", fmt.Errorf("src.Tables: %w", err)
		}
		if len(tables) < 1 {
			return "", ErrNoTable
		}
		table = tables[0]
	}

	rows, err := src.TableRows(ctx, table)
	if err != nil {
		return table, fmt.Errorf("src.TableRows(%q): %w", table, err)
	}
	defer rows.Close()

	w.StartArray()

	w.StartArray()
	for _, name := range rows.Header() {
		w.String([]byte(name))
	}
	w.EndArray()

	for rows.HasNext() {
		if err := ctx.Err(); err != nil {
			_ = w.EndAll()
			return table, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
		}

		record, err := rows.Next()
		if err != nil {
			_ = w.EndAll()
			return table, fmt.Errorf("rows.Next: %w", err)
		}
		// drained iterators may signal the end with an empty record
		if record == nil {
			break
		}

		w.StartArray()
		for _, val := range record {
			writeValue(w, val)
		}
		w.EndArray()

		if err := w.Err(); err != nil {
			return table, fmt.Errorf("w.Err: %w", err)
		}
	}

	// the iterator also stops on driver failures and cancellation
	if err := rows.Err(); err != nil {
		_ = w.EndAll()
		if ctx.Err() != nil {
			return table, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
		}
		return table, fmt.Errorf("rows.Err: %w", err)
	}

	if err := w.EndAll(); err != nil {
		return table, fmt.Errorf("w.EndAll: %w", err)
	}

	return table, nil
}

func writeValue(w DocumentWriter, val any) {
	switch v := val.(type) {
	case nil:
		w.Null()
	case []byte:
		w.String(v)
	case string:
		w.String([]byte(v))
	case time.Time:
		w.String([]byte(v.Format(time.RFC3339Nano)))
	case fmt.Stringer:
		w.String([]byte(v.String()))
	default:
		w.String([]byte(fmt.Sprint(v)))
	}
}

// Adapter opens a TableSource from a connection url.
type Adapter interface {
	Connect(url string) (TableSource, error)
}
