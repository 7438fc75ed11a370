package sql

import "github.com/syssam/sqlcraft/dialect"

// DeleteStatement is a DELETE statement builder.
//
//	sql.Delete().
//		FromTable("users").
//		AndWhere(sql.Column("id").Eq(1))
type DeleteStatement struct {
	stmt
	table     string
	where     Condition
	limit     *uint64
	returning *returning
}

// Delete returns a new DELETE statement.
func Delete() *DeleteStatement {
	return &DeleteStatement{}
}

// FromTable sets the table to delete from.
func (d *DeleteStatement) FromTable(table string) *DeleteStatement {
	d.table = table
	return d
}

// AndWhere appends a conjunct to the WHERE clause.
func (d *DeleteStatement) AndWhere(e SimpleExpr) *DeleteStatement {
	d.where = d.andCond(d.where, e)
	return d
}

// CondWhere AND-merges a condition tree into the WHERE clause.
func (d *DeleteStatement) CondWhere(c Condition) *DeleteStatement {
	d.where = d.andCond(d.where, c)
	return d
}

// Limit sets the LIMIT. Postgres does not support it.
func (d *DeleteStatement) Limit(n uint64) *DeleteStatement {
	d.limit = &n
	return d
}

// ReturningAll adds `RETURNING *`.
func (d *DeleteStatement) ReturningAll() *DeleteStatement {
	d.returning = &returning{all: true}
	return d
}

// ReturningColumns adds columns to the RETURNING clause.
func (d *DeleteStatement) ReturningColumns(cols ...string) *DeleteStatement {
	d.returning = d.returning.addColumns(cols...)
	return d
}

// Clone returns a copy of the statement.
func (d *DeleteStatement) Clone() *DeleteStatement {
	c := *d
	c.stmt = d.stmt.clone()
	if d.returning != nil {
		r := *d.returning
		r.columns = append([]string(nil), d.returning.columns...)
		c.returning = &r
	}
	return &c
}

// BuildSQL renders the statement with values inlined as literals.
func (d *DeleteStatement) BuildSQL(dl string) (string, error) {
	return Render(dl, d)
}

// Build renders parameterized SQL and its driver arguments.
func (d *DeleteStatement) Build(dl string) (string, []any, error) {
	return RenderArgs(dl, d)
}

// SQL renders the statement for the dialect bound with Dialect.
func (d *DeleteStatement) SQL() (string, error) {
	dl, err := d.boundDialect("DELETE")
	if err != nil {
		return "", err
	}
	return d.BuildSQL(dl)
}

// Query renders parameterized SQL for the dialect bound with Dialect.
func (d *DeleteStatement) Query() (string, []any, error) {
	dl, err := d.boundDialect("DELETE")
	if err != nil {
		return "", nil, err
	}
	return d.Build(dl)
}

// Render writes the statement into b.
func (d *DeleteStatement) Render(b *Builder) {
	if err := d.Err(); err != nil {
		b.AddError(err)
		return
	}
	b.WriteString("DELETE FROM ").Ident(d.table)
	writeCondClause(b, " WHERE ", d.where)
	d.returning.render(b)
	writeLimit(b, d.limit, dialect.DeleteLimit)
}
