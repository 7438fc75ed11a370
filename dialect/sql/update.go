package sql

import (
	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
)

// UpdateStatement is an UPDATE statement builder.
//
//	sql.Update().
//		Table("users").
//		Value("name", "a8m").
//		AndWhere(sql.Column("id").Eq(1))
type UpdateStatement struct {
	stmt
	table     string
	sets      []assignment
	where     Condition
	limit     *uint64
	returning *returning
}

type assignment struct {
	column string
	value  node
}

// Update returns a new UPDATE statement.
func Update() *UpdateStatement {
	return &UpdateStatement{}
}

// Table sets the table to update.
func (u *UpdateStatement) Table(table string) *UpdateStatement {
	u.table = table
	return u
}

// Value appends a `column = value` assignment. v may be a plain Go value
// or an expression.
func (u *UpdateStatement) Value(col string, v any) *UpdateStatement {
	n, err := operand("SET", v)
	if !u.addError(err) {
		u.sets = append(u.sets, assignment{column: col, value: n})
	}
	return u
}

// Values appends one assignment per column. The number of values must
// equal the number of columns.
func (u *UpdateStatement) Values(cols []string, vs ...any) *UpdateStatement {
	if len(cols) != len(vs) {
		u.addError(sqlcraft.NewValueArityMismatchError(u.table, 0, len(cols), len(vs)))
		return u
	}
	for i, c := range cols {
		u.Value(c, vs[i])
	}
	return u
}

// AndWhere appends a conjunct to the WHERE clause.
func (u *UpdateStatement) AndWhere(e SimpleExpr) *UpdateStatement {
	u.where = u.andCond(u.where, e)
	return u
}

// CondWhere AND-merges a condition tree into the WHERE clause.
func (u *UpdateStatement) CondWhere(c Condition) *UpdateStatement {
	u.where = u.andCond(u.where, c)
	return u
}

// Limit sets the LIMIT. Postgres does not support it.
func (u *UpdateStatement) Limit(n uint64) *UpdateStatement {
	u.limit = &n
	return u
}

// ReturningAll adds `RETURNING *`.
func (u *UpdateStatement) ReturningAll() *UpdateStatement {
	u.returning = &returning{all: true}
	return u
}

// ReturningColumns adds columns to the RETURNING clause.
func (u *UpdateStatement) ReturningColumns(cols ...string) *UpdateStatement {
	u.returning = u.returning.addColumns(cols...)
	return u
}

// Clone returns a copy of the statement.
func (u *UpdateStatement) Clone() *UpdateStatement {
	c := *u
	c.stmt = u.stmt.clone()
	c.sets = append([]assignment(nil), u.sets...)
	if u.returning != nil {
		r := *u.returning
		r.columns = append([]string(nil), u.returning.columns...)
		c.returning = &r
	}
	return &c
}

// BuildSQL renders the statement with values inlined as literals.
func (u *UpdateStatement) BuildSQL(d string) (string, error) {
	return Render(d, u)
}

// Build renders parameterized SQL and its driver arguments.
func (u *UpdateStatement) Build(d string) (string, []any, error) {
	return RenderArgs(d, u)
}

// SQL renders the statement for the dialect bound with Dialect.
func (u *UpdateStatement) SQL() (string, error) {
	d, err := u.boundDialect("UPDATE")
	if err != nil {
		return "", err
	}
	return u.BuildSQL(d)
}

// Query renders parameterized SQL for the dialect bound with Dialect.
func (u *UpdateStatement) Query() (string, []any, error) {
	d, err := u.boundDialect("UPDATE")
	if err != nil {
		return "", nil, err
	}
	return u.Build(d)
}

// Render writes the statement into b.
func (u *UpdateStatement) Render(b *Builder) {
	if err := u.Err(); err != nil {
		b.AddError(err)
		return
	}
	if len(u.sets) == 0 {
		b.AddError(sqlcraft.NewInvalidStateError("UPDATE", "no values to set"))
		return
	}
	b.WriteString("UPDATE ").Ident(u.table).WriteString(" SET ")
	for i, s := range u.sets {
		if i > 0 {
			b.Comma()
		}
		b.Ident(s.column).WriteString(" = ")
		s.value.render(b)
	}
	writeCondClause(b, " WHERE ", u.where)
	u.returning.render(b)
	writeLimit(b, u.limit, dialect.UpdateLimit)
}

// writeLimit writes the LIMIT of an UPDATE or DELETE.
func writeLimit(b *Builder, limit *uint64, f dialect.Feature) {
	if limit == nil || !b.Supports(f) {
		return
	}
	b.WriteString(" LIMIT ").Uint(*limit)
}
