package sql

import (
	"strings"

	"github.com/jackc/pgx/v5"
)

// sqliteSyntax implements the SQLite lexical rules. Identifiers follow the
// same double-quote rules as PostgreSQL; strings only double quotes since
// SQLite has no backslash escapes.
type sqliteSyntax struct{}

func (sqliteSyntax) quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

func (s sqliteSyntax) literal(v Value) string {
	return literal(v, quoteSQLiteString, func(b []byte) string {
		return "X'" + hexString(b) + "'"
	}, s.boolean)
}

func (sqliteSyntax) placeholder(int) string { return "?" }

func (sqliteSyntax) boolean(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func quoteSQLiteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
