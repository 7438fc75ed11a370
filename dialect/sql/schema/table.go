package schema

import (
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
)

// TableCreateStatement is a CREATE TABLE statement builder.
//
//	schema.CreateTable("users").
//		IfNotExists().
//		Column(schema.Column("id").BigInteger().PrimaryKey().AutoIncrement()).
//		Column(schema.Column("name").StringLen(128).NotNull())
type TableCreateStatement struct {
	stmt
	name        string
	ifNotExists bool
	columns     []*ColumnDef
	primaryKey  []string
	indexes     []*IndexCreateStatement
	foreignKeys []*ForeignKeyCreateStatement
	checks      []sql.SimpleExpr
	comment     *string
}

// CreateTable returns a CREATE TABLE statement for the table name.
func CreateTable(name string) *TableCreateStatement {
	return &TableCreateStatement{name: name}
}

// Name sets the table name.
func (t *TableCreateStatement) Name(name string) *TableCreateStatement {
	t.name = name
	return t
}

// IfNotExists adds IF NOT EXISTS.
func (t *TableCreateStatement) IfNotExists() *TableCreateStatement {
	t.ifNotExists = true
	return t
}

// Column appends a column definition. The definition is owned by the
// statement afterwards.
func (t *TableCreateStatement) Column(c *ColumnDef) *TableCreateStatement {
	t.columns = append(t.columns, c)
	return t
}

// Columns appends several column definitions.
func (t *TableCreateStatement) Columns(cs ...*ColumnDef) *TableCreateStatement {
	t.columns = append(t.columns, cs...)
	return t
}

// PrimaryKey sets a table level primary key over cols.
func (t *TableCreateStatement) PrimaryKey(cols ...string) *TableCreateStatement {
	t.primaryKey = cols
	return t
}

// Index adds an inline index. Postgres and SQLite only accept unique ones.
func (t *TableCreateStatement) Index(i *IndexCreateStatement) *TableCreateStatement {
	t.indexes = append(t.indexes, i)
	return t
}

// ForeignKey adds an inline foreign key. Its FromTable is ignored.
func (t *TableCreateStatement) ForeignKey(fk *ForeignKeyCreateStatement) *TableCreateStatement {
	t.foreignKeys = append(t.foreignKeys, fk)
	return t
}

// Check adds a table CHECK constraint.
func (t *TableCreateStatement) Check(e sql.SimpleExpr) *TableCreateStatement {
	if !t.addError(e.Err()) {
		t.checks = append(t.checks, e)
	}
	return t
}

// Comment sets the table comment.
func (t *TableCreateStatement) Comment(text string) *TableCreateStatement {
	t.comment = &text
	return t
}

// TableInfo describes a table definition.
type TableInfo struct {
	Name        string
	Columns     []ColumnInfo
	PrimaryKey  []string
	Indexes     []IndexInfo
	ForeignKeys []ForeignKeyInfo
	Comment     string
}

// Info returns a description of the table. Inline foreign keys report
// the table as their FromTable.
func (t *TableCreateStatement) Info() TableInfo {
	info := TableInfo{
		Name:       t.name,
		PrimaryKey: append([]string(nil), t.primaryKey...),
	}
	for _, c := range t.columns {
		info.Columns = append(info.Columns, c.Info())
	}
	for _, i := range t.indexes {
		ii := i.Info()
		ii.Table = t.name
		info.Indexes = append(info.Indexes, ii)
	}
	for _, fk := range t.foreignKeys {
		fi := fk.Info()
		fi.FromTable = t.name
		info.ForeignKeys = append(info.ForeignKeys, fi)
	}
	if t.comment != nil {
		info.Comment = *t.comment
	}
	return info
}

// Clone returns a deep copy of the statement.
func (t *TableCreateStatement) Clone() *TableCreateStatement {
	c := *t
	c.errs = append([]error(nil), t.errs...)
	c.primaryKey = append([]string(nil), t.primaryKey...)
	c.checks = append([]sql.SimpleExpr(nil), t.checks...)
	c.columns = make([]*ColumnDef, len(t.columns))
	for i, col := range t.columns {
		c.columns[i] = col.clone()
	}
	c.indexes = make([]*IndexCreateStatement, len(t.indexes))
	for i, idx := range t.indexes {
		c.indexes[i] = idx.Clone()
	}
	c.foreignKeys = make([]*ForeignKeyCreateStatement, len(t.foreignKeys))
	for i, fk := range t.foreignKeys {
		c.foreignKeys[i] = fk.Clone()
	}
	return &c
}

// BuildSQL renders the statement for d. On Postgres, comments follow as
// separate COMMENT ON statements.
func (t *TableCreateStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, t)
}

// Render writes the statement into b.
func (t *TableCreateStatement) Render(b *sql.Builder) {
	const kind = "CREATE TABLE"
	if err := t.Err(); err != nil {
		b.AddError(err)
		return
	}
	if !requireName(b, kind, "table name", t.name) {
		return
	}
	b.WriteString("CREATE TABLE ")
	if t.ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.Ident(t.name).WriteString(" ( ")
	var (
		comments []comment
		n        int
	)
	sep := func() {
		if n > 0 {
			b.Comma()
		}
		n++
	}
	for _, c := range t.columns {
		sep()
		comments = append(comments, c.render(b, t.name)...)
	}
	if len(t.primaryKey) > 0 {
		sep()
		b.WriteString("PRIMARY KEY (").IdentComma(t.primaryKey...).WriteString(")")
	}
	for _, i := range t.indexes {
		sep()
		i.renderInline(b)
	}
	for _, fk := range t.foreignKeys {
		sep()
		fk.render(b, kind)
	}
	for _, e := range t.checks {
		sep()
		b.WriteString("CHECK (")
		e.Render(b)
		b.WriteString(")")
	}
	b.WriteString(" )")
	if t.comment != nil {
		switch {
		case b.Dialect() == dialect.MySQL:
			b.WriteString(" COMMENT ").Literal(sql.String(*t.comment))
		case b.Supports(dialect.ColumnComment):
			comments = append([]comment{{table: t.name, text: *t.comment}}, comments...)
		}
	}
	writeComments(b, comments)
}
