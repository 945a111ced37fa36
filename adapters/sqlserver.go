package adapters

import (
	"database/sql"
	"fmt"
	nurl "net/url"

	"github.com/google/uuid"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
)

// Register client
func init() {
	_ = register(&SQLServer{}, "sqlserver", "mssql")
}

var _ core.Adapter = (*SQLServer)(nil)

type SQLServer struct{}

func (s *SQLServer) Connect(url string) (core.TableSource, error) {
	u, err := nurl.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse db connection string: %w", err)
	}

	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		return nil, fmt.Errorf("unable to connect to sqlserver database: %w", err)
	}

	src, err := newSQLServerSource(db)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to sqlserver database: %w", err)
	}

	return src, nil
}

const sqlserverTablesQuery = `SELECT table_name FROM information_schema.tables
	WHERE table_schema = SCHEMA_NAME() AND table_type = 'BASE TABLE'
	ORDER BY table_name`

func newSQLServerSource(db *sql.DB) (*sqlSource, error) {
	return newSQLSource(
		builders.NewClient(db,
			builders.WithCustomTypeProcessor("uniqueidentifier", processUniqueIdentifier),
		),
		sqlserverTablesQuery,
		quoteBracket,
	)
}

// processUniqueIdentifier renders raw uniqueidentifier bytes as a uuid.
// sqlserver stores the first three groups little endian.
func processUniqueIdentifier(a any) any {
	b, ok := a.([]byte)
	if !ok || len(b) != 16 {
		return a
	}

	swapped := make([]byte, 16)
	copy(swapped, b)
	swapped[0], swapped[1], swapped[2], swapped[3] = b[3], b[2], b[1], b[0]
	swapped[4], swapped[5] = b[5], b[4]
	swapped[6], swapped[7] = b[7], b[6]

	id, err := uuid.FromBytes(swapped)
	if err != nil {
		return a
	}
	return id.String()
}
