// Package schema builds DDL statements: CREATE, ALTER, DROP, RENAME and
// TRUNCATE TABLE, CREATE and DROP INDEX, and foreign key constraints.
//
//	users := schema.CreateTable("users").
//		Column(schema.Column("id").BigInteger().PrimaryKey().AutoIncrement()).
//		Column(schema.Column("name").StringLen(128).NotNull().Default(""))
//
//	users.BuildSQL(dialect.Postgres)
//	// CREATE TABLE "users" ( "id" bigserial PRIMARY KEY, "name" varchar(128) NOT NULL DEFAULT '' )
//
// Column types map to the closest native type of each dialect. DDL is
// always rendered with values inlined.
//
// Table definitions can be checked with ValidateTable, ValidateSchema and
// ValidateDiff, and converted to atlas tables with ToAtlas for migration
// planning.
package schema
