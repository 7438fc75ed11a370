package schema

import (
	"fmt"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
)

type alterKind uint8

const (
	alterAddColumn alterKind = iota
	alterModifyColumn
	alterRenameColumn
	alterDropColumn
	alterAddForeignKey
	alterDropForeignKey
)

type alterAction struct {
	kind        alterKind
	column      *ColumnDef
	ifNotExists bool
	name        string
	to          string
	fk          *ForeignKeyCreateStatement
}

// TableAlterStatement is an ALTER TABLE statement builder. Actions are
// rendered in the order they were added, separated by commas. SQLite
// accepts a single action per statement.
//
//	schema.AlterTable("users").
//		AddColumn(schema.Column("email").StringLen(128)).
//		DropColumn("legacy")
type TableAlterStatement struct {
	stmt
	table   string
	actions []alterAction
}

// AlterTable returns an ALTER TABLE statement for table.
func AlterTable(table string) *TableAlterStatement {
	return &TableAlterStatement{table: table}
}

// Table sets the altered table.
func (a *TableAlterStatement) Table(table string) *TableAlterStatement {
	a.table = table
	return a
}

// AddColumn adds `ADD COLUMN def`.
func (a *TableAlterStatement) AddColumn(c *ColumnDef) *TableAlterStatement {
	a.actions = append(a.actions, alterAction{kind: alterAddColumn, column: c})
	return a
}

// AddColumnIfNotExists adds `ADD COLUMN IF NOT EXISTS def`.
func (a *TableAlterStatement) AddColumnIfNotExists(c *ColumnDef) *TableAlterStatement {
	a.actions = append(a.actions, alterAction{kind: alterAddColumn, column: c, ifNotExists: true})
	return a
}

// ModifyColumn changes the definition of an existing column. Postgres
// expresses the type, NOT NULL, NULL and DEFAULT parts as separate
// ALTER COLUMN actions and rejects the other constraints.
func (a *TableAlterStatement) ModifyColumn(c *ColumnDef) *TableAlterStatement {
	a.actions = append(a.actions, alterAction{kind: alterModifyColumn, column: c})
	return a
}

// RenameColumn adds `RENAME COLUMN from TO to`.
func (a *TableAlterStatement) RenameColumn(from, to string) *TableAlterStatement {
	a.actions = append(a.actions, alterAction{kind: alterRenameColumn, name: from, to: to})
	return a
}

// DropColumn adds `DROP COLUMN name`.
func (a *TableAlterStatement) DropColumn(name string) *TableAlterStatement {
	a.actions = append(a.actions, alterAction{kind: alterDropColumn, name: name})
	return a
}

// AddForeignKey adds `ADD CONSTRAINT ... FOREIGN KEY`.
func (a *TableAlterStatement) AddForeignKey(fk *ForeignKeyCreateStatement) *TableAlterStatement {
	a.actions = append(a.actions, alterAction{kind: alterAddForeignKey, fk: fk})
	return a
}

// DropForeignKey drops the named foreign key constraint.
func (a *TableAlterStatement) DropForeignKey(name string) *TableAlterStatement {
	a.actions = append(a.actions, alterAction{kind: alterDropForeignKey, name: name})
	return a
}

// Clone returns a copy of the statement.
func (a *TableAlterStatement) Clone() *TableAlterStatement {
	c := *a
	c.errs = append([]error(nil), a.errs...)
	c.actions = make([]alterAction, len(a.actions))
	for i, act := range a.actions {
		if act.column != nil {
			act.column = act.column.clone()
		}
		if act.fk != nil {
			act.fk = act.fk.Clone()
		}
		c.actions[i] = act
	}
	return &c
}

// BuildSQL renders the statement for d.
func (a *TableAlterStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, a)
}

// Render writes the statement into b.
func (a *TableAlterStatement) Render(b *sql.Builder) {
	const kind = "ALTER TABLE"
	if err := a.Err(); err != nil {
		b.AddError(err)
		return
	}
	if !requireName(b, kind, "table name", a.table) {
		return
	}
	switch {
	case len(a.actions) == 0:
		b.AddError(sqlcraft.NewInvalidStateError(kind, "no alter actions"))
		return
	case len(a.actions) > 1 && !b.Supports(dialect.AlterMultiple):
		return
	}
	b.WriteString("ALTER TABLE ").Ident(a.table).Pad()
	var comments []comment
	for i, act := range a.actions {
		if i > 0 {
			b.Comma()
		}
		switch act.kind {
		case alterAddColumn:
			b.WriteString("ADD COLUMN ")
			if act.ifNotExists && b.Supports(dialect.AddColumnIfNotExists) {
				b.WriteString("IF NOT EXISTS ")
			}
			comments = append(comments, act.column.render(b, a.table)...)
		case alterModifyColumn:
			if !b.Supports(dialect.AlterModifyColumn) {
				continue
			}
			if b.Dialect() == dialect.Postgres {
				comments = append(comments, a.alterColumn(b, act.column)...)
				continue
			}
			b.WriteString("MODIFY COLUMN ")
			comments = append(comments, act.column.render(b, a.table)...)
		case alterRenameColumn:
			b.WriteString("RENAME COLUMN ").Ident(act.name).WriteString(" TO ").Ident(act.to)
		case alterDropColumn:
			b.WriteString("DROP COLUMN ").Ident(act.name)
		case alterAddForeignKey:
			if b.Supports(dialect.AlterForeignKey) {
				b.WriteString("ADD ")
				act.fk.render(b, kind)
			}
		case alterDropForeignKey:
			renderDropForeignKey(b, kind, act.name)
		}
	}
	writeComments(b, comments)
}

// alterColumn renders a modified column as Postgres ALTER COLUMN actions.
func (a *TableAlterStatement) alterColumn(b *sql.Builder, c *ColumnDef) []comment {
	if err := c.Err(); err != nil {
		b.AddError(err)
		return nil
	}
	var (
		comments []comment
		n        int
	)
	next := func() *sql.Builder {
		if n > 0 {
			b.Comma()
		}
		n++
		return b.WriteString("ALTER COLUMN ").Ident(c.name).Pad()
	}
	if c.typ != TypeNone {
		next().WriteString("TYPE " + typeSQL(dialect.Postgres, c))
	}
	for _, s := range c.specs {
		switch s.kind {
		case specNotNull:
			next().WriteString("SET NOT NULL")
		case specNull:
			next().WriteString("DROP NOT NULL")
		case specDefault:
			next().WriteString("SET DEFAULT ")
			s.expr.Render(b)
		case specComment:
			comments = append(comments, comment{table: a.table, column: c.name, text: s.text})
		default:
			unsupported(b, fmt.Sprintf("ALTER COLUMN with %s", s.kind))
		}
	}
	if n == 0 {
		b.AddError(sqlcraft.NewInvalidStateError("ALTER TABLE", fmt.Sprintf("nothing to modify on column %q", c.name)))
	}
	return comments
}

func (k specKind) String() string {
	switch k {
	case specNotNull:
		return "NOT NULL"
	case specNull:
		return "NULL"
	case specDefault:
		return "DEFAULT"
	case specUnique:
		return "UNIQUE"
	case specPrimaryKey:
		return "PRIMARY KEY"
	case specAutoIncrement:
		return "auto-increment"
	case specCheck:
		return "CHECK"
	default:
		return "COMMENT"
	}
}
