package adapters

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
)

// Register client
func init() {
	_ = register(&MySQL{}, "mysql")
}

var _ core.Adapter = (*MySQL)(nil)

type MySQL struct{}

func (m *MySQL) Connect(url string) (core.TableSource, error) {
	db, err := sql.Open("mysql", url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mysql database: %w", err)
	}

	src, err := newMySQLSource(db)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mysql database: %w", err)
	}

	return src, nil
}

const mysqlTablesQuery = `SELECT table_name FROM information_schema.tables
	WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
	ORDER BY table_name`

func newMySQLSource(db *sql.DB) (*sqlSource, error) {
	return newSQLSource(builders.NewClient(db), mysqlTablesQuery, quoteBacktick)
}
