package adapters

import (
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
)

// Register client
func init() {
	_ = register(&Clickhouse{}, "clickhouse")
}

var _ core.Adapter = (*Clickhouse)(nil)

type Clickhouse struct{}

func (c *Clickhouse) Connect(url string) (core.TableSource, error) {
	options, err := clickhouse.ParseDSN(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse db connection string: %w", err)
	}

	src, err := newClickhouseSource(clickhouse.OpenDB(options))
	if err != nil {
		return nil, fmt.Errorf("pinging connection failed with %w", err)
	}

	return src, nil
}

const clickhouseTablesQuery = "SELECT name FROM system.tables WHERE database = currentDatabase() AND NOT is_temporary ORDER BY name"

func newClickhouseSource(db *sql.DB) (*sqlSource, error) {
	return newSQLSource(builders.NewClient(db), clickhouseTablesQuery, quoteBacktick)
}
