package schema

import (
	"fmt"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
)

// ForeignKeyAction is the referential action of ON DELETE and ON UPDATE.
type ForeignKeyAction uint8

// Referential actions.
const (
	Cascade ForeignKeyAction = iota
	SetNull
	Restrict
	SetDefault
	NoAction
)

var actionNames = [...]string{
	Cascade:    "CASCADE",
	SetNull:    "SET NULL",
	Restrict:   "RESTRICT",
	SetDefault: "SET DEFAULT",
	NoAction:   "NO ACTION",
}

func (a ForeignKeyAction) String() string {
	if a.valid() {
		return actionNames[a]
	}
	return fmt.Sprintf("ForeignKeyAction(%d)", uint8(a))
}

func (a ForeignKeyAction) valid() bool { return int(a) < len(actionNames) }

// ParseForeignKeyAction returns the action spelled s, e.g. "SET NULL".
func ParseForeignKeyAction(s string) (ForeignKeyAction, error) {
	for i, name := range actionNames {
		if name == s {
			return ForeignKeyAction(i), nil
		}
	}
	return 0, fmt.Errorf("schema: unknown foreign key action %q", s)
}

// ForeignKeyCreateStatement is a foreign key constraint. On its own it
// renders as ALTER TABLE ... ADD CONSTRAINT; passed to a table statement
// it renders inline.
//
//	schema.CreateForeignKey("fk_orders_customer").
//		FromTable("orders").FromColumns("customer_id").
//		ToTable("customers").ToColumns("id").
//		OnDelete(schema.Cascade)
type ForeignKeyCreateStatement struct {
	stmt
	name        string
	fromTable   string
	fromColumns []string
	toTable     string
	toColumns   []string
	onDelete    *ForeignKeyAction
	onUpdate    *ForeignKeyAction
}

// CreateForeignKey returns a new foreign key named name.
func CreateForeignKey(name string) *ForeignKeyCreateStatement {
	return &ForeignKeyCreateStatement{name: name}
}

// Name sets the constraint name.
func (f *ForeignKeyCreateStatement) Name(name string) *ForeignKeyCreateStatement {
	f.name = name
	return f
}

// FromTable sets the referencing table.
func (f *ForeignKeyCreateStatement) FromTable(table string) *ForeignKeyCreateStatement {
	f.fromTable = table
	return f
}

// FromColumns appends referencing columns.
func (f *ForeignKeyCreateStatement) FromColumns(cols ...string) *ForeignKeyCreateStatement {
	f.fromColumns = append(f.fromColumns, cols...)
	return f
}

// ToTable sets the referenced table.
func (f *ForeignKeyCreateStatement) ToTable(table string) *ForeignKeyCreateStatement {
	f.toTable = table
	return f
}

// ToColumns appends referenced columns.
func (f *ForeignKeyCreateStatement) ToColumns(cols ...string) *ForeignKeyCreateStatement {
	f.toColumns = append(f.toColumns, cols...)
	return f
}

// OnDelete sets the ON DELETE action.
func (f *ForeignKeyCreateStatement) OnDelete(a ForeignKeyAction) *ForeignKeyCreateStatement {
	f.onDelete = f.action("ON DELETE", a)
	return f
}

// OnUpdate sets the ON UPDATE action.
func (f *ForeignKeyCreateStatement) OnUpdate(a ForeignKeyAction) *ForeignKeyCreateStatement {
	f.onUpdate = f.action("ON UPDATE", a)
	return f
}

func (f *ForeignKeyCreateStatement) action(op string, a ForeignKeyAction) *ForeignKeyAction {
	if !a.valid() {
		f.addError(sqlcraft.NewMalformedExpressionError(op, fmt.Sprintf("invalid value %s", a)))
		return nil
	}
	return &a
}

// ForeignKeyInfo describes a foreign key.
type ForeignKeyInfo struct {
	Name        string
	FromTable   string
	FromColumns []string
	ToTable     string
	ToColumns   []string
	OnDelete    *ForeignKeyAction
	OnUpdate    *ForeignKeyAction
}

// Info returns a description of the foreign key.
func (f *ForeignKeyCreateStatement) Info() ForeignKeyInfo {
	return ForeignKeyInfo{
		Name:        f.name,
		FromTable:   f.fromTable,
		FromColumns: append([]string(nil), f.fromColumns...),
		ToTable:     f.toTable,
		ToColumns:   append([]string(nil), f.toColumns...),
		OnDelete:    f.onDelete,
		OnUpdate:    f.onUpdate,
	}
}

// Clone returns a copy of the statement.
func (f *ForeignKeyCreateStatement) Clone() *ForeignKeyCreateStatement {
	c := *f
	c.errs = append([]error(nil), f.errs...)
	c.fromColumns = append([]string(nil), f.fromColumns...)
	c.toColumns = append([]string(nil), f.toColumns...)
	return &c
}

// BuildSQL renders the statement for d.
func (f *ForeignKeyCreateStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, f)
}

// Render writes `ALTER TABLE from ADD CONSTRAINT ...` into b.
func (f *ForeignKeyCreateStatement) Render(b *sql.Builder) {
	const kind = "CREATE FOREIGN KEY"
	if err := f.Err(); err != nil {
		b.AddError(err)
		return
	}
	if !requireName(b, kind, "table", f.fromTable) || !b.Supports(dialect.AlterForeignKey) {
		return
	}
	b.WriteString("ALTER TABLE ").Ident(f.fromTable).WriteString(" ADD ")
	f.render(b, kind)
}

// render writes the constraint definition. SQLite does not name inline
// foreign keys.
func (f *ForeignKeyCreateStatement) render(b *sql.Builder, kind string) {
	if err := f.Err(); err != nil {
		b.AddError(err)
		return
	}
	if !requireName(b, kind, "referenced table", f.toTable) {
		return
	}
	if len(f.fromColumns) == 0 || len(f.fromColumns) != len(f.toColumns) {
		b.AddError(sqlcraft.NewInvalidStateError(kind, fmt.Sprintf(
			"foreign key needs matching column lists, got %d referencing and %d referenced",
			len(f.fromColumns), len(f.toColumns),
		)))
		return
	}
	if f.name != "" && b.Dialect() != dialect.SQLite {
		b.WriteString("CONSTRAINT ").Ident(f.name).Pad()
	}
	b.WriteString("FOREIGN KEY (").IdentComma(f.fromColumns...).WriteString(") REFERENCES ")
	b.Ident(f.toTable).WriteString(" (").IdentComma(f.toColumns...).WriteString(")")
	if f.onDelete != nil {
		b.WriteString(" ON DELETE " + f.onDelete.String())
	}
	if f.onUpdate != nil {
		b.WriteString(" ON UPDATE " + f.onUpdate.String())
	}
}

// ForeignKeyDropStatement drops a named foreign key constraint.
type ForeignKeyDropStatement struct {
	stmt
	name  string
	table string
}

// DropForeignKey returns a statement dropping the constraint name.
func DropForeignKey(name string) *ForeignKeyDropStatement {
	return &ForeignKeyDropStatement{name: name}
}

// Table sets the table owning the constraint.
func (f *ForeignKeyDropStatement) Table(table string) *ForeignKeyDropStatement {
	f.table = table
	return f
}

// BuildSQL renders the statement for d.
func (f *ForeignKeyDropStatement) BuildSQL(d string) (string, error) {
	return buildSQL(d, f)
}

// Render writes the statement into b.
func (f *ForeignKeyDropStatement) Render(b *sql.Builder) {
	const kind = "DROP FOREIGN KEY"
	if !requireName(b, kind, "table", f.table) {
		return
	}
	b.WriteString("ALTER TABLE ").Ident(f.table).Pad()
	renderDropForeignKey(b, kind, f.name)
}

func renderDropForeignKey(b *sql.Builder, kind, name string) {
	if !requireName(b, kind, "constraint name", name) || !b.Supports(dialect.AlterForeignKey) {
		return
	}
	if b.Dialect() == dialect.MySQL {
		b.WriteString("DROP FOREIGN KEY ").Ident(name)
		return
	}
	b.WriteString("DROP CONSTRAINT ").Ident(name)
}
