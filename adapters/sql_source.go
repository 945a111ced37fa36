package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
)

const pingTimeout = 10 * time.Second

var _ core.TableSource = (*sqlSource)(nil)

// sqlSource is the table source shared by all database/sql based adapters.
type sqlSource struct {
	c *builders.Client
	// query listing base tables, first column is the table name
	tablesQuery string
	quote       func(string) string
}

func newSQLSource(c *builders.Client, tablesQuery string, quote func(string) string) (*sqlSource, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return &sqlSource{
		c:           c,
		tablesQuery: tablesQuery,
		quote:       quote,
	}, nil
}

func (s *sqlSource) Tables(ctx context.Context) ([]string, error) {
	return s.c.FirstColumn(ctx, s.tablesQuery)
}

func (s *sqlSource) TableRows(ctx context.Context, table string) (core.ResultStream, error) {
	return s.c.Query(ctx, fmt.Sprintf("SELECT * FROM %s", s.quote(table)))
}

func (s *sqlSource) Close() { s.c.Close() }

func quoteDouble(name string) string {
	return builders.QuoteIdent(name, `"`, `"`)
}

func quoteBacktick(name string) string {
	return builders.QuoteIdent(name, "`", "`")
}

func quoteBracket(name string) string {
	return builders.QuoteIdent(name, "[", "]")
}
