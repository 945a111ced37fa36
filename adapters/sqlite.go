//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package adapters

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/builders"
)

// Register client
func init() {
	_ = register(&SQLite{}, "sqlite", "sqlite3")
}

var _ core.Adapter = (*SQLite)(nil)

type SQLite struct{}

func (s *SQLite) Connect(url string) (core.TableSource, error) {
	db, err := sql.Open("sqlite", sqliteReadOnlyDSN(url))
	if err != nil {
		return nil, fmt.Errorf("unable to open db at %s: %w", url, err)
	}

	src, err := newSQLSource(
		builders.NewClient(db),
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
		quoteDouble,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to open db at %s: %w", url, err)
	}

	return src, nil
}

// sqliteReadOnlyDSN turns a plain file path into a read-only uri. Uris are
// passed through unchanged.
func sqliteReadOnlyDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?mode=ro"
}
