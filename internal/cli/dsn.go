package cli

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/syssam/sqlcraft/dialect"
)

var sqliteSuffixes = []string{".db", ".sqlite", ".sqlite3"}

// DetectDialect returns the dialect a data source name points at. It
// accepts postgres URLs and keyword/value strings, go-sql-driver/mysql
// DSNs (optionally prefixed with mysql://) and SQLite file names.
func DetectDialect(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", fmt.Errorf("empty dsn")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		if _, err := pq.ParseURL(dsn); err != nil {
			return "", fmt.Errorf("parsing postgres dsn: %w", err)
		}
		return dialect.Postgres, nil
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return dialect.SQLite, nil
	case strings.HasPrefix(dsn, "mysql://"):
		if _, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql://")); err != nil {
			return "", fmt.Errorf("parsing mysql dsn: %w", err)
		}
		return dialect.MySQL, nil
	}
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for _, s := range sqliteSuffixes {
		if strings.HasSuffix(path, s) {
			return dialect.SQLite, nil
		}
	}
	if _, err := mysql.ParseDSN(dsn); err == nil {
		return dialect.MySQL, nil
	}
	if strings.Contains(dsn, "dbname=") || strings.Contains(dsn, "host=") {
		return dialect.Postgres, nil
	}
	return "", fmt.Errorf("cannot detect dialect from dsn %q", dsn)
}
