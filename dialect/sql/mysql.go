package sql

import "strings"

// mysqlSyntax implements the MySQL/MariaDB lexical rules.
type mysqlSyntax struct{}

func (mysqlSyntax) quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (s mysqlSyntax) literal(v Value) string {
	return literal(v, quoteMySQLString, func(b []byte) string {
		return "x'" + hexString(b) + "'"
	}, s.boolean)
}

func (mysqlSyntax) placeholder(int) string { return "?" }

func (mysqlSyntax) boolean(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func quoteMySQLString(s string) string {
	return "'" + escapeStringValue(s) + "'"
}

// escapeStringValue escapes a string value for safe use in MySQL.
// It escapes both single quotes (by doubling) and backslashes.
func escapeStringValue(s string) string {
	// Fast path: if no escaping needed, return as-is
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	// Escape backslashes first, then single quotes
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}
