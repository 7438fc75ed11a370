package sql

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// postgresSyntax implements the PostgreSQL lexical rules.
type postgresSyntax struct{}

func (postgresSyntax) quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

func (s postgresSyntax) literal(v Value) string {
	return literal(v, quotePostgresString, func(b []byte) string {
		return `'\x` + hexString(b) + "'"
	}, s.boolean)
}

func (postgresSyntax) placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresSyntax) boolean(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// quotePostgresString quotes s as a string constant. Strings holding a
// backslash become escape string constants (E'...').
func quotePostgresString(s string) string {
	return strings.TrimPrefix(pq.QuoteLiteral(s), " ")
}
