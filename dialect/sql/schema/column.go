package schema

import (
	"fmt"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
)

// ColumnDef is a column definition used by CREATE TABLE and ALTER TABLE.
// Constraints render in the order they were added.
//
//	schema.Column("id").BigInteger().PrimaryKey().AutoIncrement()
type ColumnDef struct {
	stmt
	name      string
	typ       ColumnType
	length    *uint32
	precision *[2]uint32
	specs     []colSpec
}

type specKind uint8

const (
	specNotNull specKind = iota
	specNull
	specDefault
	specUnique
	specPrimaryKey
	specAutoIncrement
	specCheck
	specComment
)

type colSpec struct {
	kind specKind
	expr sql.Renderer
	text string
}

// Column returns a new column definition without a type.
func Column(name string) *ColumnDef {
	return &ColumnDef{name: name}
}

// ColumnWithType returns a new column definition of type t.
func ColumnWithType(name string, t ColumnType) *ColumnDef {
	return Column(name).Type(t)
}

// Type sets the column type, replacing any previous type.
func (c *ColumnDef) Type(t ColumnType) *ColumnDef {
	if int(t) >= len(typeNames) {
		c.addError(sqlcraft.NewMalformedExpressionError("column type", fmt.Sprintf("invalid value %s", t)))
		return c
	}
	c.typ, c.length, c.precision = t, nil, nil
	return c
}

// Char sets the type to char.
func (c *ColumnDef) Char() *ColumnDef { return c.Type(TypeChar) }

// CharLen sets the type to char(n).
func (c *ColumnDef) CharLen(n uint32) *ColumnDef {
	c.Type(TypeChar).length = &n
	return c
}

// String sets the type to varchar.
func (c *ColumnDef) String() *ColumnDef { return c.Type(TypeString) }

// StringLen sets the type to varchar(n).
func (c *ColumnDef) StringLen(n uint32) *ColumnDef {
	c.Type(TypeString).length = &n
	return c
}

// Text sets the type to text.
func (c *ColumnDef) Text() *ColumnDef { return c.Type(TypeText) }

// TinyInteger sets the type to a 1-byte integer.
func (c *ColumnDef) TinyInteger() *ColumnDef { return c.Type(TypeTinyInteger) }

// SmallInteger sets the type to a 2-byte integer.
func (c *ColumnDef) SmallInteger() *ColumnDef { return c.Type(TypeSmallInteger) }

// Integer sets the type to a 4-byte integer.
func (c *ColumnDef) Integer() *ColumnDef { return c.Type(TypeInteger) }

// BigInteger sets the type to an 8-byte integer.
func (c *ColumnDef) BigInteger() *ColumnDef { return c.Type(TypeBigInteger) }

// TinyUnsigned sets the type to an unsigned 1-byte integer.
func (c *ColumnDef) TinyUnsigned() *ColumnDef { return c.Type(TypeTinyUnsigned) }

// SmallUnsigned sets the type to an unsigned 2-byte integer.
func (c *ColumnDef) SmallUnsigned() *ColumnDef { return c.Type(TypeSmallUnsigned) }

// Unsigned sets the type to an unsigned 4-byte integer.
func (c *ColumnDef) Unsigned() *ColumnDef { return c.Type(TypeUnsigned) }

// BigUnsigned sets the type to an unsigned 8-byte integer.
func (c *ColumnDef) BigUnsigned() *ColumnDef { return c.Type(TypeBigUnsigned) }

// Float sets the type to a single precision float.
func (c *ColumnDef) Float() *ColumnDef { return c.Type(TypeFloat) }

// Double sets the type to a double precision float.
func (c *ColumnDef) Double() *ColumnDef { return c.Type(TypeDouble) }

// Decimal sets the type to decimal.
func (c *ColumnDef) Decimal() *ColumnDef { return c.Type(TypeDecimal) }

// DecimalLen sets the type to decimal(precision, scale).
func (c *ColumnDef) DecimalLen(precision, scale uint32) *ColumnDef {
	c.Type(TypeDecimal).precision = &[2]uint32{precision, scale}
	return c
}

// DateTime sets the type to a date and time without time zone.
func (c *ColumnDef) DateTime() *ColumnDef { return c.Type(TypeDateTime) }

// Timestamp sets the type to timestamp.
func (c *ColumnDef) Timestamp() *ColumnDef { return c.Type(TypeTimestamp) }

// TimestampWithTZ sets the type to a timestamp with time zone.
func (c *ColumnDef) TimestampWithTZ() *ColumnDef { return c.Type(TypeTimestampTZ) }

// Date sets the type to date.
func (c *ColumnDef) Date() *ColumnDef { return c.Type(TypeDate) }

// Time sets the type to time of day.
func (c *ColumnDef) Time() *ColumnDef { return c.Type(TypeTime) }

// Blob sets the type to binary data.
func (c *ColumnDef) Blob() *ColumnDef { return c.Type(TypeBlob) }

// Boolean sets the type to boolean.
func (c *ColumnDef) Boolean() *ColumnDef { return c.Type(TypeBoolean) }

// JSON sets the type to json.
func (c *ColumnDef) JSON() *ColumnDef { return c.Type(TypeJSON) }

// JSONB sets the type to binary json. MySQL and SQLite fall back to json.
func (c *ColumnDef) JSONB() *ColumnDef { return c.Type(TypeJSONB) }

// UUID sets the type to uuid. MySQL stores it as binary(16) and SQLite as text.
func (c *ColumnDef) UUID() *ColumnDef { return c.Type(TypeUUID) }

// NotNull adds NOT NULL, replacing a previous NULL.
func (c *ColumnDef) NotNull() *ColumnDef {
	c.drop(specNull)
	return c.set(colSpec{kind: specNotNull})
}

// Null adds NULL, replacing a previous NOT NULL.
func (c *ColumnDef) Null() *ColumnDef {
	c.drop(specNotNull)
	return c.set(colSpec{kind: specNull})
}

// Default sets the DEFAULT value. v is a Go value or an expression such
// as sql.Raw("CURRENT_TIMESTAMP").
func (c *ColumnDef) Default(v any) *ColumnDef {
	r, ok := v.(sql.Renderer)
	if !ok {
		r = sql.Val(v)
	}
	if e, ok := r.(interface{ Err() error }); ok && c.addError(e.Err()) {
		return c
	}
	return c.set(colSpec{kind: specDefault, expr: r})
}

// AutoIncrement marks the column as auto-incrementing.
func (c *ColumnDef) AutoIncrement() *ColumnDef {
	return c.set(colSpec{kind: specAutoIncrement})
}

// Unique adds a UNIQUE constraint.
func (c *ColumnDef) Unique() *ColumnDef {
	return c.set(colSpec{kind: specUnique})
}

// PrimaryKey marks the column as the primary key.
func (c *ColumnDef) PrimaryKey() *ColumnDef {
	return c.set(colSpec{kind: specPrimaryKey})
}

// Check adds a column CHECK constraint.
func (c *ColumnDef) Check(e sql.SimpleExpr) *ColumnDef {
	if c.addError(e.Err()) {
		return c
	}
	return c.set(colSpec{kind: specCheck, expr: e})
}

// Comment sets the column comment.
func (c *ColumnDef) Comment(text string) *ColumnDef {
	return c.set(colSpec{kind: specComment, text: text})
}

// set adds s, or replaces a constraint of the same kind in place.
func (c *ColumnDef) set(s colSpec) *ColumnDef {
	for i := range c.specs {
		if c.specs[i].kind == s.kind {
			c.specs[i] = s
			return c
		}
	}
	c.specs = append(c.specs, s)
	return c
}

func (c *ColumnDef) drop(k specKind) {
	for i := range c.specs {
		if c.specs[i].kind == k {
			c.specs = append(c.specs[:i:i], c.specs[i+1:]...)
			return
		}
	}
}

func (c *ColumnDef) spec(k specKind) (colSpec, bool) {
	for _, s := range c.specs {
		if s.kind == k {
			return s, true
		}
	}
	return colSpec{}, false
}

func (c *ColumnDef) has(k specKind) bool {
	_, ok := c.spec(k)
	return ok
}

func (c *ColumnDef) clone() *ColumnDef {
	n := *c
	n.errs = append([]error(nil), c.errs...)
	n.specs = append([]colSpec(nil), c.specs...)
	return &n
}

// ColumnInfo describes a column definition.
type ColumnInfo struct {
	Name          string
	Type          ColumnType
	Length        uint32 // Zero when unset.
	Precision     uint32
	Scale         uint32
	Nullable      bool
	Default       sql.Renderer
	Unique        bool
	PrimaryKey    bool
	AutoIncrement bool
	Check         sql.Renderer
	Comment       string
}

// Info returns a description of the column.
func (c *ColumnDef) Info() ColumnInfo {
	info := ColumnInfo{
		Name:          c.name,
		Type:          c.typ,
		Unique:        c.has(specUnique),
		PrimaryKey:    c.has(specPrimaryKey),
		AutoIncrement: c.has(specAutoIncrement),
	}
	info.Nullable = !c.has(specNotNull) && !info.PrimaryKey
	if c.length != nil {
		info.Length = *c.length
	}
	if c.precision != nil {
		info.Precision, info.Scale = c.precision[0], c.precision[1]
	}
	if s, ok := c.spec(specDefault); ok {
		info.Default = s.expr
	}
	if s, ok := c.spec(specCheck); ok {
		info.Check = s.expr
	}
	if s, ok := c.spec(specComment); ok {
		info.Comment = s.text
	}
	return info
}

// Render writes the column definition into b. A column comment on
// Postgres needs the enclosing table statement and is rejected here.
func (c *ColumnDef) Render(b *sql.Builder) {
	c.render(b, "")
}

// render writes `name type constraints` and returns the Postgres
// comments that must follow the enclosing statement.
func (c *ColumnDef) render(b *sql.Builder, table string) []comment {
	if err := c.Err(); err != nil {
		b.AddError(err)
		return nil
	}
	d := b.Dialect()
	autoInc := c.has(specAutoIncrement)
	b.Ident(c.name)
	switch {
	case autoInc && d == dialect.Postgres:
		s, ok := serialType(c.typ)
		if !ok {
			unsupported(b, fmt.Sprintf("auto-increment %s column", c.typ))
			return nil
		}
		b.WriteString(" " + s)
	case autoInc && d == dialect.SQLite:
		if !c.has(specPrimaryKey) {
			unsupported(b, "AUTOINCREMENT without PRIMARY KEY")
			return nil
		}
		b.WriteString(" integer")
	case c.typ == TypeNone:
		if d != dialect.SQLite {
			b.AddError(sqlcraft.NewInvalidStateError("COLUMN", fmt.Sprintf("column %q has no type", c.name)))
			return nil
		}
	default:
		b.WriteString(" " + typeSQL(d, c))
	}
	var comments []comment
	for _, s := range c.specs {
		switch s.kind {
		case specNotNull:
			b.WriteString(" NOT NULL")
		case specNull:
			b.WriteString(" NULL")
		case specDefault:
			b.WriteString(" DEFAULT ")
			s.expr.Render(b)
		case specUnique:
			b.WriteString(" UNIQUE")
		case specPrimaryKey:
			b.WriteString(" PRIMARY KEY")
			if autoInc && d == dialect.SQLite {
				b.WriteString(" AUTOINCREMENT")
			}
		case specAutoIncrement:
			if d == dialect.MySQL {
				b.WriteString(" AUTO_INCREMENT")
			}
		case specCheck:
			b.WriteString(" CHECK (")
			s.expr.Render(b)
			b.WriteString(")")
		case specComment:
			switch {
			case d == dialect.MySQL:
				b.WriteString(" COMMENT ").Literal(sql.String(s.text))
			case !b.Supports(dialect.ColumnComment):
			case table == "":
				unsupported(b, "column COMMENT outside a table statement")
			default:
				comments = append(comments, comment{table: table, column: c.name, text: s.text})
			}
		}
	}
	return comments
}
