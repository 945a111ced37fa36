package adapters

import (
	"database/sql"
	"errors"
	"fmt"
	nurl "net/url"
	"strings"

	_ "github.com/databricks/databricks-sql-go"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
)

var errMissingCatalog = errors.New("required parameter '?catalog=<catalog>' is missing")

// Register client
func init() {
	_ = register(&Databricks{}, "databricks")
}

var _ core.Adapter = (*Databricks)(nil)

type Databricks struct{}

// Connect opens a databricks sql warehouse. url is a DSN in the format of:
//
// token:[my_token]@[hostname]:[port]/[endpoint http path]?catalog=[catalog]&param=value
//
// The catalog parameter is required, tables are listed from its current schema.
func (d *Databricks) Connect(url string) (core.TableSource, error) {
	u, err := nurl.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse db connection string: %w", err)
	}

	catalog := u.Query().Get("catalog")
	if catalog == "" {
		return nil, errMissingCatalog
	}

	db, err := sql.Open("databricks", u.String())
	if err != nil {
		return nil, fmt.Errorf("invalid databricks connection string: %w", err)
	}

	src, err := newDatabricksSource(db, catalog)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to databricks: %w", err)
	}

	return src, nil
}

func newDatabricksSource(db *sql.DB, catalog string) (*sqlSource, error) {
	return newSQLSource(builders.NewClient(db), databricksTablesQuery(catalog), quoteBacktick)
}

// databricksTablesQuery lists managed and external tables of the current
// schema in catalog.
func databricksTablesQuery(catalog string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(catalog)

	return fmt.Sprintf(`SELECT table_name FROM system.information_schema.tables
		WHERE table_catalog = '%s' AND table_schema = current_schema()
		AND table_type IN ('MANAGED', 'EXTERNAL')
		ORDER BY table_name`, escaped)
}
