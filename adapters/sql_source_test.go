package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/kndndrj/rowconv/core/builders"
)

func TestSQLSource(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	r.NoError(err)
	t.Cleanup(func() { db.Close() })

	src, err := newSQLSource(builders.NewClient(db), "SHOW TABLES", quoteBacktick)
	r.NoError(err)

	mock.ExpectQuery("SHOW TABLES").WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow("a`b").AddRow("c"),
	)
	tables, err := src.Tables(context.Background())
	r.NoError(err)
	r.Equal([]string{"a`b", "c"}, tables)

	mock.ExpectQuery("SELECT * FROM `a``b`").WillReturnRows(
		sqlmock.NewRows([]string{"x"}).AddRow("1"),
	)
	rows, err := src.TableRows(context.Background(), "a`b")
	r.NoError(err)
	r.True(rows.HasNext())
	rec, err := rows.Next()
	r.NoError(err)
	r.Equal("1", rec[0])
	rows.Close()

	r.NoError(mock.ExpectationsWereMet())
}

func TestSQLSource_PingFailure(t *testing.T) {
	pingErr := errors.New("connection refused")

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(pingErr)

	_, err = newSQLSource(builders.NewClient(db), "", quoteDouble)
	require.ErrorIs(t, err, pingErr)
}
