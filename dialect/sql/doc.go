// Package sql provides dialect-aware SQL statement builders.
//
// Statements are built with a fluent API and rendered for MySQL, PostgreSQL
// or SQLite. Rendering never touches the database and never mutates the
// statement, so a statement can be rendered for several dialects.
//
// # Builder Types
//
//   - Builder: low-level SQL string builder with identifier quoting
//   - SelectStatement: SELECT with joins, grouping, unions and row locks
//   - InsertStatement: INSERT with VALUES rows, a SELECT source, ON CONFLICT and RETURNING
//   - UpdateStatement: UPDATE with SET, WHERE, LIMIT and RETURNING
//   - DeleteStatement: DELETE with WHERE, LIMIT and RETURNING
//
// # Dialect Support
//
// Every statement renders for an explicit dialect:
//
//	import "github.com/syssam/sqlcraft/dialect"
//
//	q := sql.Select().Column("id").FromTable("users").AndWhere(sql.Column("age").Gte(18))
//	q.BuildSQL(dialect.Postgres) // SELECT "id" FROM "users" WHERE "age" >= 18
//	q.BuildSQL(dialect.MySQL)    // SELECT `id` FROM `users` WHERE `age` >= 18
//	q.Build(dialect.Postgres)    // SELECT "id" FROM "users" WHERE "age" >= $1, [18]
//
// or binds one up front:
//
//	sql.Dialect(dialect.SQLite).Select().All().FromTable("users").Query()
//
// Features a dialect lacks (RETURNING on MySQL, row locks on SQLite, ...)
// fail with an error matching sqlcraft.ErrUnsupportedFeature.
//
// # Conditions
//
//	sql.Any(
//		sql.Column("a").Eq(1),
//		sql.All(sql.Column("b").Eq(2), sql.Column("c").Eq(3)),
//	) // "a" = 1 OR ("b" = 2 AND "c" = 3)
//
// # Predicates
//
//	sql.EQ("name", "john")          // "name" = 'john'
//	sql.Contains("name", "jo")      // "name" LIKE '%jo%'
//	sql.In("status", "a", "b")      // "status" IN ('a', 'b')
//	sql.Field[int]("age").GTE(18)   // "age" >= 18
//
// # Errors
//
// Construction errors are recorded at the offending call and reported by
// Err and by every render method; a statement never panics on bad input.
package sql
