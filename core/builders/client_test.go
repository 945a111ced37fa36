package builders_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
)

func setupClient(t *testing.T, opts ...builders.ClientOption) (*builders.Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return builders.NewClient(db, opts...), mock
}

func drain(t *testing.T, rows core.ResultStream) []core.Record {
	t.Helper()

	var out []core.Record
	for rows.HasNext() {
		rec, err := rows.Next()
		require.NoError(t, err)
		if rec == nil {
			break
		}
		out = append(out, rec)
	}
	return out
}

func TestClient_Query(t *testing.T) {
	r := require.New(t)

	c, mock := setupClient(t)
	mock.ExpectQuery("SELECT * FROM people").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "note"}).
			AddRow(int64(1), []byte("ann"), nil).
			AddRow(int64(2), "bob", "x"),
	)

	rows, err := c.Query(context.Background(), "SELECT * FROM people")
	r.NoError(err)
	r.Equal(core.Header{"id", "name", "note"}, rows.Header())

	r.Equal([]core.Record{
		{int64(1), "ann", nil},
		{int64(2), "bob", "x"},
	}, drain(t, rows))

	// the stream closes itself once drained
	r.False(rows.HasNext())
	r.NoError(mock.ExpectationsWereMet())
}

func TestClient_QueryError(t *testing.T) {
	c, mock := setupClient(t)
	mock.ExpectQuery("SELECT broken").WillReturnError(sql.ErrConnDone)

	rows, err := c.Query(context.Background(), "SELECT broken")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Nil(t, rows)
}

func TestClient_QueryRowError(t *testing.T) {
	r := require.New(t)

	rowErr := errors.New("lost connection")
	c, mock := setupClient(t)
	mock.ExpectQuery("SELECT * FROM t").WillReturnRows(
		sqlmock.NewRows([]string{"a"}).
			AddRow("1").
			AddRow("2").
			RowError(1, rowErr),
	)

	rows, err := c.Query(context.Background(), "SELECT * FROM t")
	r.NoError(err)

	r.True(rows.HasNext())
	rec, err := rows.Next()
	r.NoError(err)
	r.Equal(core.Record{"1"}, rec)

	r.False(rows.HasNext())
	r.ErrorIs(rows.Err(), rowErr)
	_, err = rows.Next()
	r.ErrorIs(err, rowErr)

	// still reported after the stream closed itself
	r.ErrorIs(rows.Err(), rowErr)
}

func TestClient_CustomTypeProcessor(t *testing.T) {
	r := require.New(t)

	c, mock := setupClient(t,
		builders.WithCustomTypeProcessor("JSONB", func(a any) any {
			return "json:" + string(a.([]byte))
		}),
	)
	mock.ExpectQuery("SELECT doc FROM docs").WillReturnRows(
		mock.NewRowsWithColumnDefinition(
			mock.NewColumn("doc").OfType("jsonb", []byte(nil)),
		).AddRow([]byte(`{"a":1}`)),
	)

	rows, err := c.Query(context.Background(), "SELECT doc FROM docs")
	r.NoError(err)
	r.Equal([]core.Record{{`json:{"a":1}`}}, drain(t, rows))
}

func TestClient_FirstColumn(t *testing.T) {
	r := require.New(t)

	c, mock := setupClient(t)
	mock.ExpectQuery("SELECT name FROM tables").WillReturnRows(
		sqlmock.NewRows([]string{"name", "extra"}).
			AddRow("alpha", 1).
			AddRow(nil, 2).
			AddRow(int64(42), 3),
	)

	got, err := c.FirstColumn(context.Background(), "SELECT name FROM tables")
	r.NoError(err)
	r.Equal([]string{"alpha", "42"}, got)
}

func TestClient_FirstColumnRowError(t *testing.T) {
	r := require.New(t)

	rowErr := errors.New("lost connection")
	c, mock := setupClient(t)
	mock.ExpectQuery("SELECT name FROM tables").WillReturnRows(
		sqlmock.NewRows([]string{"name"}).
			AddRow("alpha").
			AddRow("beta").
			RowError(1, rowErr),
	)

	got, err := c.FirstColumn(context.Background(), "SELECT name FROM tables")
	r.ErrorIs(err, rowErr)
	r.Nil(got)
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		name        string
		open, close string
		want        string
	}{
		{name: `plain`, open: `"`, close: `"`, want: `"plain"`},
		{name: `we"ird`, open: `"`, close: `"`, want: `"we""ird"`},
		{name: "back`tick", open: "`", close: "`", want: "`back``tick`"},
		{name: "br]acket", open: "[", close: "]", want: "[br]]acket]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, builders.QuoteIdent(tt.name, tt.open, tt.close))
		})
	}
}
