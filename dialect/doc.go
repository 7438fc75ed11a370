// Package dialect names the database dialects sqlcraft renders SQL for and
// records which optional SQL features each of them can express.
//
// # Supported Dialects
//
// The following dialects are supported:
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Feature Gating
//
// Renderers consult Supports before emitting an optional clause and fail
// with an UnsupportedFeatureError when the target dialect cannot express it:
//
//	dialect.Supports(dialect.SQLite, dialect.Returning)     // true
//	dialect.Supports(dialect.MySQL, dialect.Returning)      // false
//	dialect.Supports(dialect.SQLite, dialect.LockSkipLocked) // false
//
// # Sub-packages
//
//   - dialect/sql: expressions, conditions and DML statement builders
//   - dialect/sql/schema: DDL builders, type mapping and schema validation
package dialect
