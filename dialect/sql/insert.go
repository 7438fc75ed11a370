package sql

import (
	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
)

// InsertStatement is an INSERT statement builder.
//
//	sql.Insert().
//		Into("users").
//		Columns("name", "age").
//		Values("a8m", 30).
//		ReturningColumn("id")
type InsertStatement struct {
	stmt
	table     string
	columns   []string
	rows      [][]node
	source    *SelectStatement
	conflict  *OnConflict
	returning *returning
}

// Insert returns a new INSERT statement.
func Insert() *InsertStatement {
	return &InsertStatement{}
}

// Into sets the target table.
func (i *InsertStatement) Into(table string) *InsertStatement {
	i.table = table
	return i
}

// Columns appends target columns. Rows added before must match the new
// column count.
func (i *InsertStatement) Columns(cols ...string) *InsertStatement {
	i.columns = append(i.columns, cols...)
	for n, row := range i.rows {
		if len(row) != len(i.columns) {
			i.addError(sqlcraft.NewValueArityMismatchError(i.table, n, len(i.columns), len(row)))
		}
	}
	return i
}

// Values appends a row. The number of values must equal the number of
// declared columns. Values and SelectFrom are mutually exclusive.
func (i *InsertStatement) Values(vs ...any) *InsertStatement {
	if i.source != nil {
		i.addError(sqlcraft.NewInvalidStateError("INSERT", "VALUES and SELECT source are mutually exclusive"))
		return i
	}
	if len(vs) != len(i.columns) {
		i.addError(sqlcraft.NewValueArityMismatchError(i.table, len(i.rows), len(i.columns), len(vs)))
		return i
	}
	if len(vs) == 0 {
		i.addError(sqlcraft.NewMalformedExpressionError("VALUES", "row has no values"))
		return i
	}
	row := make([]node, len(vs))
	for n, v := range vs {
		vn, err := operand("VALUES", v)
		if i.addError(err) {
			return i
		}
		row[n] = vn
	}
	i.rows = append(i.rows, row)
	return i
}

// SelectFrom uses a SELECT statement as the row source.
func (i *InsertStatement) SelectFrom(sel *SelectStatement) *InsertStatement {
	switch {
	case sel == nil:
		i.addError(sqlcraft.NewMalformedExpressionError("INSERT SELECT", "nil statement"))
	case len(i.rows) > 0 || i.source != nil:
		i.addError(sqlcraft.NewInvalidStateError("INSERT", "VALUES and SELECT source are mutually exclusive"))
	default:
		i.addError(sel.Err())
		i.source = sel.Clone()
	}
	return i
}

// OnConflict sets the conflict resolution clause.
func (i *InsertStatement) OnConflict(oc *OnConflict) *InsertStatement {
	if oc == nil {
		i.conflict = nil
		return i
	}
	c := *oc
	c.columns = append([]string(nil), oc.columns...)
	c.update = append([]string(nil), oc.update...)
	i.conflict = &c
	return i
}

// ReturningAll adds `RETURNING *`.
func (i *InsertStatement) ReturningAll() *InsertStatement {
	i.returning = &returning{all: true}
	return i
}

// ReturningColumn adds a column to the RETURNING clause.
func (i *InsertStatement) ReturningColumn(col string) *InsertStatement {
	return i.ReturningColumns(col)
}

// ReturningColumns adds columns to the RETURNING clause.
func (i *InsertStatement) ReturningColumns(cols ...string) *InsertStatement {
	i.returning = i.returning.addColumns(cols...)
	return i
}

// Clone returns a copy of the statement.
func (i *InsertStatement) Clone() *InsertStatement {
	c := *i
	c.stmt = i.stmt.clone()
	c.columns = append([]string(nil), i.columns...)
	c.rows = append([][]node(nil), i.rows...)
	c.source = i.source.Clone()
	if i.conflict != nil {
		c.OnConflict(i.conflict)
	}
	if i.returning != nil {
		r := *i.returning
		r.columns = append([]string(nil), i.returning.columns...)
		c.returning = &r
	}
	return &c
}

// BuildSQL renders the statement with values inlined as literals.
func (i *InsertStatement) BuildSQL(d string) (string, error) {
	return Render(d, i)
}

// Build renders parameterized SQL and its driver arguments.
func (i *InsertStatement) Build(d string) (string, []any, error) {
	return RenderArgs(d, i)
}

// SQL renders the statement for the dialect bound with Dialect.
func (i *InsertStatement) SQL() (string, error) {
	d, err := i.boundDialect("INSERT")
	if err != nil {
		return "", err
	}
	return i.BuildSQL(d)
}

// Query renders parameterized SQL for the dialect bound with Dialect.
func (i *InsertStatement) Query() (string, []any, error) {
	d, err := i.boundDialect("INSERT")
	if err != nil {
		return "", nil, err
	}
	return i.Build(d)
}

// Render writes the statement into b.
func (i *InsertStatement) Render(b *Builder) {
	if err := i.Err(); err != nil {
		b.AddError(err)
		return
	}
	b.WriteString("INSERT INTO ").Ident(i.table)
	switch {
	case i.source != nil:
		if len(i.columns) > 0 {
			b.Pad().Wrap(func(b *Builder) { b.IdentComma(i.columns...) })
		}
		b.Pad()
		i.source.Render(b)
	case len(i.rows) > 0:
		b.Pad().Wrap(func(b *Builder) { b.IdentComma(i.columns...) })
		b.WriteString(" VALUES ")
		for n, row := range i.rows {
			if n > 0 {
				b.Comma()
			}
			b.Wrap(func(b *Builder) {
				for k, v := range row {
					if k > 0 {
						b.Comma()
					}
					v.render(b)
				}
			})
		}
	case len(i.columns) > 0:
		b.AddError(sqlcraft.NewInvalidStateError("INSERT", "columns declared without VALUES or SELECT source"))
		return
	case b.Dialect() == dialect.MySQL:
		b.WriteString(" () VALUES ()")
	default:
		b.WriteString(" DEFAULT VALUES")
	}
	if i.conflict != nil {
		i.conflict.render(b, i.columns)
	}
	i.returning.render(b)
}

// OnConflict describes the conflict target columns and the resolution
// action of an INSERT.
type OnConflict struct {
	columns []string
	update  []string
}

// OnConflictColumns returns an OnConflict targeting the given columns.
// The default action is DO NOTHING.
func OnConflictColumns(cols ...string) *OnConflict {
	return &OnConflict{columns: cols}
}

// Column adds a target column.
func (oc *OnConflict) Column(col string) *OnConflict {
	oc.columns = append(oc.columns, col)
	return oc
}

// DoNothing ignores conflicting rows.
func (oc *OnConflict) DoNothing() *OnConflict {
	oc.update = nil
	return oc
}

// UpdateColumns overwrites the given columns with the values of the
// conflicting row.
func (oc *OnConflict) UpdateColumns(cols ...string) *OnConflict {
	oc.update = append(oc.update, cols...)
	return oc
}

func (oc *OnConflict) render(b *Builder, insertCols []string) {
	if b.Dialect() == dialect.MySQL {
		oc.renderMySQL(b, insertCols)
		return
	}
	b.WriteString(" ON CONFLICT")
	if len(oc.columns) > 0 {
		b.Pad().Wrap(func(b *Builder) { b.IdentComma(oc.columns...) })
	}
	if len(oc.update) == 0 {
		b.WriteString(" DO NOTHING")
		return
	}
	if len(oc.columns) == 0 {
		b.AddError(sqlcraft.NewInvalidStateError("INSERT", "ON CONFLICT DO UPDATE requires conflict target columns"))
		return
	}
	b.WriteString(" DO UPDATE SET ")
	for n, c := range oc.update {
		if n > 0 {
			b.Comma()
		}
		b.Ident(c).WriteString(" = ").Ident("excluded").WriteString(".").Ident(c)
	}
}

// renderMySQL emulates the clause with ON DUPLICATE KEY UPDATE. DO NOTHING
// becomes a self-assignment of the first target column.
func (oc *OnConflict) renderMySQL(b *Builder, insertCols []string) {
	b.WriteString(" ON DUPLICATE KEY UPDATE ")
	if len(oc.update) > 0 {
		for n, c := range oc.update {
			if n > 0 {
				b.Comma()
			}
			b.Ident(c).WriteString(" = VALUES(").Ident(c).WriteString(")")
		}
		return
	}
	col := ""
	switch {
	case len(oc.columns) > 0:
		col = oc.columns[0]
	case len(insertCols) > 0:
		col = insertCols[0]
	default:
		b.AddError(sqlcraft.NewUnsupportedFeatureError(b.Dialect(), "ON CONFLICT DO NOTHING without columns"))
		return
	}
	b.Ident(col).WriteString(" = ").Ident(col)
}
