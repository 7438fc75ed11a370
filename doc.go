// Package sqlcraft holds the error taxonomy shared by the sqlcraft query
// and schema builders.
//
// The builders live in sub-packages:
//
//   - dialect: dialect names and per-dialect feature support
//   - dialect/sql: expressions, conditions and SELECT/INSERT/UPDATE/DELETE builders
//   - dialect/sql/schema: CREATE/ALTER/DROP builders for tables, indexes and foreign keys
//
// Builders record construction errors instead of returning them from
// every chained call. Errors surface from Err on the statement and from
// its rendering methods, and can be classified with the Is helpers:
//
//	q, err := sql.Select().Column("id").FromTable("users").BuildSQL(dialect.SQLite)
//	if sqlcraft.IsUnsupportedFeature(err) {
//		// the clause cannot be expressed in the target dialect
//	}
package sqlcraft
