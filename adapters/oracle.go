package adapters

import (
	"database/sql"
	"fmt"

	_ "github.com/sijms/go-ora/v2"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
)

// Register client
func init() {
	_ = register(&Oracle{}, "oracle")
}

var _ core.Adapter = (*Oracle)(nil)

type Oracle struct{}

func (o *Oracle) Connect(url string) (core.TableSource, error) {
	db, err := sql.Open("oracle", url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to oracle database: %w", err)
	}

	src, err := newOracleSource(db)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to oracle database: %w", err)
	}

	return src, nil
}

const oracleTablesQuery = "SELECT table_name FROM user_tables ORDER BY table_name"

func newOracleSource(db *sql.DB) (*sqlSource, error) {
	return newSQLSource(builders.NewClient(db), oracleTablesQuery, quoteDouble)
}
