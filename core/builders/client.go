package builders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kndndrj/rowconv/core"
)

// default sql client used by other specific implementations
type Client struct {
	db             *sql.DB
	typeProcessors map[string]func(any) any
}

func NewClient(db *sql.DB, opts ...ClientOption) *Client {
	config := clientConfig{
		typeProcessors: make(map[string]func(any) any),
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Client{
		db:             db,
		typeProcessors: config.typeProcessors,
	}
}

// Ping verifies the database can be reached.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// FirstColumn executes a query and collects the first column of every
// returned row as a string.
func (c *Client) FirstColumn(ctx context.Context, query string) ([]string, error) {
	result, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	var out []string
	for result.HasNext() {
		rec, err := result.Next()
		if err != nil {
			return nil, fmt.Errorf("result.Next: %w", err)
		}
		if len(rec) < 1 {
			continue
		}

		switch v := rec[0].(type) {
		case string:
			out = append(out, v)
		case nil:
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("result.Err: %w", err)
	}

	return out, nil
}

func (c *Client) Close() {
	c.db.Close()
}

func (c *Client) getTypeProcessor(typ string) func(any) any {
	proc, ok := c.typeProcessors[strings.ToLower(typ)]
	if ok {
		return proc
	}

	return func(val any) any {
		valb, ok := val.([]byte)
		if ok {
			return string(valb)
		}
		return val
	}
}

// Query executes a query and returns a result stream.
func (c *Client) Query(ctx context.Context, query string) (*ResultStream, error) {
	dbRows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	header, err := dbRows.Columns()
	if err != nil {
		_ = dbRows.Close()
		return nil, err
	}
	if len(header) == 0 {
		_ = dbRows.Close()
		return NewResultStreamBuilder().
			WithNextFunc(NextNil()).
			Build(), nil
	}

	dbCols, err := dbRows.ColumnTypes()
	if err != nil {
		_ = dbRows.Close()
		return nil, err
	}
	procs := make([]func(any) any, len(dbCols))
	for i := range dbCols {
		procs[i] = c.getTypeProcessor(dbCols[i].DatabaseTypeName())
	}

	// advance lazily: HasNext moves the cursor, Next reads the current row
	advanced, has := false, false
	hasNextFunc := func() bool {
		if !advanced {
			has = dbRows.Next()
			advanced = true
		}
		return has
	}

	nextFunc := func() (core.Record, error) {
		if !hasNextFunc() {
			if err := dbRows.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		advanced = false

		columns := make([]any, len(dbCols))
		columnPointers := make([]any, len(dbCols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := dbRows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		rec := make(core.Record, len(dbCols))
		for i := range dbCols {
			rec[i] = procs[i](columns[i])
		}

		return rec, nil
	}

	rows := NewResultStreamBuilder().
		WithNextFunc(nextFunc, hasNextFunc).
		WithHeader(header).
		WithCloseFunc(func() {
			_ = dbRows.Close()
		}).
		WithErrFunc(dbRows.Err).
		Build()

	return rows, nil
}
