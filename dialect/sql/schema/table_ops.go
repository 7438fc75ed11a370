package schema

import (
	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
)

// TableDropStatement is a DROP TABLE statement builder.
type TableDropStatement struct {
	stmt
	tables   []string
	ifExists bool
	restrict bool
	cascade  bool
}

// DropTable returns a DROP TABLE statement for the given tables.
func DropTable(tables ...string) *TableDropStatement {
	return &TableDropStatement{tables: tables}
}

// Table appends a table to drop.
func (t *TableDropStatement) Table(name string) *TableDropStatement {
	t.tables = append(t.tables, name)
	return t
}

// IfExists adds IF EXISTS.
func (t *TableDropStatement) IfExists() *TableDropStatement {
	t.ifExists = true
	return t
}

// Restrict adds RESTRICT, replacing CASCADE. SQLite omits it.
func (t *TableDropStatement) Restrict() *TableDropStatement {
	t.restrict, t.cascade = true, false
	return t
}

// Cascade adds CASCADE, replacing RESTRICT.
func (t *TableDropStatement) Cascade() *TableDropStatement {
	t.restrict, t.cascade = false, true
	return t
}

// BuildSQL renders the statement for d.
func (t *TableDropStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, t)
}

// Render writes the statement into b.
func (t *TableDropStatement) Render(b *sql.Builder) {
	if len(t.tables) == 0 {
		b.AddError(sqlcraft.NewInvalidStateError("DROP TABLE", "no tables"))
		return
	}
	b.WriteString("DROP TABLE ")
	if t.ifExists {
		b.WriteString("IF EXISTS ")
	}
	b.IdentComma(t.tables...)
	switch {
	case t.cascade && b.Supports(dialect.DropCascade):
		b.WriteString(" CASCADE")
	case t.restrict && b.Dialect() != dialect.SQLite:
		b.WriteString(" RESTRICT")
	}
}

// TableRenameStatement renames a table.
type TableRenameStatement struct {
	stmt
	from, to string
}

// RenameTable returns a statement renaming from to to.
func RenameTable(from, to string) *TableRenameStatement {
	return &TableRenameStatement{from: from, to: to}
}

// BuildSQL renders the statement for d.
func (t *TableRenameStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, t)
}

// Render writes the statement into b.
func (t *TableRenameStatement) Render(b *sql.Builder) {
	const kind = "RENAME TABLE"
	if !requireName(b, kind, "source table", t.from) || !requireName(b, kind, "target table", t.to) {
		return
	}
	if b.Dialect() == dialect.MySQL {
		b.WriteString("RENAME TABLE ").Ident(t.from).WriteString(" TO ").Ident(t.to)
		return
	}
	b.WriteString("ALTER TABLE ").Ident(t.from).WriteString(" RENAME TO ").Ident(t.to)
}

// TableTruncateStatement empties a table. SQLite has no TRUNCATE.
type TableTruncateStatement struct {
	stmt
	table string
}

// TruncateTable returns a TRUNCATE TABLE statement for table.
func TruncateTable(table string) *TableTruncateStatement {
	return &TableTruncateStatement{table: table}
}

// BuildSQL renders the statement for d.
func (t *TableTruncateStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, t)
}

// Render writes the statement into b.
func (t *TableTruncateStatement) Render(b *sql.Builder) {
	if !requireName(b, "TRUNCATE TABLE", "table name", t.table) || !b.Supports(dialect.TruncateTable) {
		return
	}
	b.WriteString("TRUNCATE TABLE ").Ident(t.table)
}
