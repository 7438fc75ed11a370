package schema

import (
	"fmt"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
)

// IndexType is the access method of an index.
type IndexType uint8

// Index types.
const (
	BTree IndexType = iota
	FullText
	Hash
)

func (t IndexType) String() string {
	switch t {
	case BTree:
		return "BTREE"
	case FullText:
		return "FULLTEXT"
	case Hash:
		return "HASH"
	default:
		return fmt.Sprintf("IndexType(%d)", uint8(t))
	}
}

// ParseIndexType returns the index type spelled s.
func ParseIndexType(s string) (IndexType, error) {
	for _, t := range []IndexType{BTree, FullText, Hash} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("schema: unknown index type %q", s)
}

// IndexColumn is one key part of an index.
type IndexColumn struct {
	Name  string
	Order *sql.Order
}

// IndexCreateStatement is a CREATE INDEX statement. Passed to a table
// statement it renders as an inline key instead.
//
//	schema.CreateIndex("idx_users_email").
//		Table("users").
//		Column("email").
//		Unique()
type IndexCreateStatement struct {
	stmt
	name             string
	table            string
	columns          []IndexColumn
	unique           bool
	primary          bool
	typ              *IndexType
	ifNotExists      bool
	nullsNotDistinct bool
}

// CreateIndex returns a new index named name.
func CreateIndex(name string) *IndexCreateStatement {
	return &IndexCreateStatement{name: name}
}

// Name sets the index name.
func (i *IndexCreateStatement) Name(name string) *IndexCreateStatement {
	i.name = name
	return i
}

// Table sets the indexed table.
func (i *IndexCreateStatement) Table(table string) *IndexCreateStatement {
	i.table = table
	return i
}

// Column appends a key column.
func (i *IndexCreateStatement) Column(name string) *IndexCreateStatement {
	i.columns = append(i.columns, IndexColumn{Name: name})
	return i
}

// ColumnOrder appends a key column with an explicit sort direction.
func (i *IndexCreateStatement) ColumnOrder(name string, o sql.Order) *IndexCreateStatement {
	if o != sql.Asc && o != sql.Desc {
		i.addError(sqlcraft.NewMalformedExpressionError("index column order", fmt.Sprintf("invalid value %s", o)))
		return i
	}
	i.columns = append(i.columns, IndexColumn{Name: name, Order: &o})
	return i
}

// Unique makes the index unique.
func (i *IndexCreateStatement) Unique() *IndexCreateStatement {
	i.unique = true
	return i
}

// Primary makes the index the primary key of the table.
func (i *IndexCreateStatement) Primary() *IndexCreateStatement {
	i.primary = true
	return i
}

// FullText is a shorthand for IndexType(FullText).
func (i *IndexCreateStatement) FullText() *IndexCreateStatement {
	return i.IndexType(FullText)
}

// IndexType sets the access method.
func (i *IndexCreateStatement) IndexType(t IndexType) *IndexCreateStatement {
	if t > Hash {
		i.addError(sqlcraft.NewMalformedExpressionError("index type", fmt.Sprintf("invalid value %s", t)))
		return i
	}
	i.typ = &t
	return i
}

// IfNotExists adds IF NOT EXISTS.
func (i *IndexCreateStatement) IfNotExists() *IndexCreateStatement {
	i.ifNotExists = true
	return i
}

// NullsNotDistinct adds the Postgres NULLS NOT DISTINCT option.
func (i *IndexCreateStatement) NullsNotDistinct() *IndexCreateStatement {
	i.nullsNotDistinct = true
	return i
}

// IndexInfo describes an index.
type IndexInfo struct {
	Name             string
	Table            string
	Columns          []IndexColumn
	Unique           bool
	Primary          bool
	Type             *IndexType
	NullsNotDistinct bool
}

// Info returns a description of the index.
func (i *IndexCreateStatement) Info() IndexInfo {
	return IndexInfo{
		Name:             i.name,
		Table:            i.table,
		Columns:          append([]IndexColumn(nil), i.columns...),
		Unique:           i.unique,
		Primary:          i.primary,
		Type:             i.typ,
		NullsNotDistinct: i.nullsNotDistinct,
	}
}

// Clone returns a copy of the statement.
func (i *IndexCreateStatement) Clone() *IndexCreateStatement {
	c := *i
	c.errs = append([]error(nil), i.errs...)
	c.columns = append([]IndexColumn(nil), i.columns...)
	return &c
}

// BuildSQL renders the statement for d.
func (i *IndexCreateStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, i)
}

// Render writes the statement into b. A primary index is added with
// ALTER TABLE ... ADD PRIMARY KEY.
func (i *IndexCreateStatement) Render(b *sql.Builder) {
	const kind = "CREATE INDEX"
	if err := i.Err(); err != nil {
		b.AddError(err)
		return
	}
	if !requireName(b, kind, "table", i.table) || !i.requireColumns(b, kind) {
		return
	}
	if i.primary {
		if !b.Supports(dialect.AlterPrimaryKey) {
			return
		}
		b.WriteString("ALTER TABLE ").Ident(i.table).WriteString(" ADD ")
		if i.name != "" {
			b.WriteString("CONSTRAINT ").Ident(i.name).Pad()
		}
		b.WriteString("PRIMARY KEY ")
		i.writeColumns(b)
		return
	}
	if !requireName(b, kind, "index name", i.name) {
		return
	}
	d := b.Dialect()
	b.WriteString("CREATE ")
	switch {
	case i.unique:
		b.WriteString("UNIQUE ")
	case i.fullText() && d == dialect.MySQL:
		b.WriteString("FULLTEXT ")
	}
	b.WriteString("INDEX ")
	if i.ifNotExists && b.Supports(dialect.IndexIfNotExists) {
		b.WriteString("IF NOT EXISTS ")
	}
	b.Ident(i.name).WriteString(" ON ").Ident(i.table).Pad()
	if i.typ != nil && b.Supports(dialect.IndexType) && d == dialect.Postgres {
		b.WriteString("USING ")
		if *i.typ == FullText {
			b.WriteString("GIN ")
		} else {
			b.WriteString(i.typ.String() + " ")
		}
	}
	i.writeColumns(b)
	if d == dialect.MySQL && i.typ != nil && !i.fullText() {
		b.WriteString(" USING " + i.typ.String())
	}
	if i.nullsNotDistinct && b.Supports(dialect.IndexNullsNotDistinct) {
		b.WriteString(" NULLS NOT DISTINCT")
	}
}

// renderInline writes the index as an element of CREATE TABLE. Only
// MySQL has inline non-unique keys.
func (i *IndexCreateStatement) renderInline(b *sql.Builder) {
	const kind = "CREATE TABLE"
	if err := i.Err(); err != nil {
		b.AddError(err)
		return
	}
	if !i.requireColumns(b, kind) {
		return
	}
	switch {
	case i.primary:
		b.WriteString("PRIMARY KEY ")
	case b.Dialect() == dialect.MySQL:
		switch {
		case i.unique:
			b.WriteString("UNIQUE ")
		case i.fullText():
			b.WriteString("FULLTEXT ")
		}
		b.WriteString("KEY ")
		if i.name != "" {
			b.Ident(i.name).Pad()
		}
	case i.unique:
		if i.name != "" {
			b.WriteString("CONSTRAINT ").Ident(i.name).Pad()
		}
		b.WriteString("UNIQUE ")
	default:
		b.Supports(dialect.InlineIndex)
		return
	}
	i.writeColumns(b)
	if b.Dialect() == dialect.MySQL && i.typ != nil && !i.fullText() {
		b.WriteString(" USING " + i.typ.String())
	}
}

func (i *IndexCreateStatement) fullText() bool {
	return i.typ != nil && *i.typ == FullText
}

func (i *IndexCreateStatement) requireColumns(b *sql.Builder, kind string) bool {
	if len(i.columns) == 0 {
		b.AddError(sqlcraft.NewInvalidStateError(kind, fmt.Sprintf("index %q has no columns", i.name)))
		return false
	}
	return true
}

func (i *IndexCreateStatement) writeColumns(b *sql.Builder) {
	b.Wrap(func(b *sql.Builder) {
		for j, c := range i.columns {
			if j > 0 {
				b.Comma()
			}
			b.Ident(c.Name)
			if c.Order != nil {
				b.Pad().WriteString(c.Order.String())
			}
		}
	})
}

// IndexDropStatement is a DROP INDEX statement.
type IndexDropStatement struct {
	stmt
	name     string
	table    string
	ifExists bool
}

// DropIndex returns a statement dropping the index name.
func DropIndex(name string) *IndexDropStatement {
	return &IndexDropStatement{name: name}
}

// Table sets the indexed table. MySQL requires it.
func (i *IndexDropStatement) Table(table string) *IndexDropStatement {
	i.table = table
	return i
}

// IfExists adds IF EXISTS.
func (i *IndexDropStatement) IfExists() *IndexDropStatement {
	i.ifExists = true
	return i
}

// BuildSQL renders the statement for d.
func (i *IndexDropStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, i)
}

// Render writes the statement into b.
func (i *IndexDropStatement) Render(b *sql.Builder) {
	const kind = "DROP INDEX"
	if !requireName(b, kind, "index name", i.name) {
		return
	}
	b.WriteString("DROP INDEX ")
	if i.ifExists && b.Supports(dialect.DropIndexIfExists) {
		b.WriteString("IF EXISTS ")
	}
	b.Ident(i.name)
	if b.Dialect() == dialect.MySQL && requireName(b, kind, "table", i.table) {
		b.WriteString(" ON ").Ident(i.table)
	}
}
