package core_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
	"github.com/kndndrj/rowconv/jsonwriter"
)

type tableSource struct {
	tables  map[string][]core.Record
	order   []string
	headers map[string]core.Header
	closed  bool
}

func (s *tableSource) Tables(context.Context) ([]string, error) {
	return s.order, nil
}

func (s *tableSource) TableRows(_ context.Context, table string) (core.ResultStream, error) {
	records, ok := s.tables[table]
	if !ok {
		return nil, errors.New("no such table")
	}

	next, hasNext := builders.NextRecords(records...)
	return builders.NewResultStreamBuilder().
		WithNextFunc(next, hasNext).
		WithHeader(s.headers[table]).
		Build(), nil
}

func (s *tableSource) Close() { s.closed = true }

// clientSource serves every table through a builders.Client.
type clientSource struct {
	c *builders.Client
}

func (s *clientSource) Tables(context.Context) ([]string, error) { return []string{"t"}, nil }

func (s *clientSource) TableRows(ctx context.Context, table string) (core.ResultStream, error) {
	return s.c.Query(ctx, "SELECT * FROM "+table)
}

func (s *clientSource) Close() { s.c.Close() }

func newTableSource() *tableSource {
	return &tableSource{
		order: []string{"people", "pets"},
		tables: map[string][]core.Record{
			"people": {
				{int64(1), "ada", nil},
				{int64(2), []byte("bob \"b\""), time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
			},
			"pets": {},
		},
		headers: map[string]core.Header{
			"people": {"id", "name", "born"},
			"pets":   {"id", "owner"},
		},
	}
}

func TestExportTable(t *testing.T) {
	tests := []struct {
		name      string
		table     string
		wantTable string
		want      string
	}{
		{
			name:      "should use the first table when none is given",
			wantTable: "people",
			want:      `[["id","name","born"],["1","ada",null],["2","bob \"b\"","2024-01-02T03:04:05Z"]]` + "\n",
		},
		{
			name:      "should export an empty table",
			table:     "pets",
			wantTable: "pets",
			want:      `[["id","owner"]]` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			var out bytes.Buffer
			table, err := core.ExportTable(context.Background(), newTableSource(), tt.table, jsonwriter.New(&out))
			r.NoError(err)
			r.Equal(tt.wantTable, table)
			r.Equal(tt.want, out.String())
		})
	}
}

func TestExportTable_NoTables(t *testing.T) {
	r := require.New(t)

	src := &tableSource{}
	var out bytes.Buffer

	_, err := core.ExportTable(context.Background(), src, "", jsonwriter.New(&out))
	r.ErrorIs(err, core.ErrNoTable)
	r.Empty(out.String())
}

func TestExportTable_UnknownTable(t *testing.T) {
	var out bytes.Buffer

	table, err := core.ExportTable(context.Background(), newTableSource(), "cars", jsonwriter.New(&out))
	require.Error(t, err)
	require.Equal(t, "cars", table)
	require.Empty(t, out.String())
}

func TestExportTable_Interrupted(t *testing.T) {
	r := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := core.ExportTable(ctx, newTableSource(), "people", jsonwriter.New(&out))
	r.ErrorIs(err, core.ErrInterrupted)
	// the document is still closed
	r.Equal(`[["id","name","born"]]`+"\n", out.String())
}

func TestExportTable_DriverError(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	r.NoError(err)
	defer db.Close()

	rowErr := errors.New("connection lost")
	mock.ExpectQuery("SELECT * FROM t").WillReturnRows(
		sqlmock.NewRows([]string{"a"}).
			AddRow("1").
			AddRow("2").
			AddRow("3").
			RowError(1, rowErr),
	)

	var out bytes.Buffer
	table, err := core.ExportTable(context.Background(), &clientSource{c: builders.NewClient(db)}, "t", jsonwriter.New(&out))
	r.ErrorIs(err, rowErr)
	r.NotErrorIs(err, core.ErrInterrupted)
	r.Equal("t", table)
	// rows before the failure are kept in a closed document
	r.Equal(`[["a"],["1"]]`+"\n", out.String())
}
