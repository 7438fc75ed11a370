package sql

import (
	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
)

// stmt holds the state shared by all statement builders: the dialect
// bound through Dialect and the errors recorded during construction.
type stmt struct {
	dialect string
	errs    []error
}

// Err returns the errors recorded while building the statement.
func (s *stmt) Err() error {
	return sqlcraft.NewAggregateError(s.errs...)
}

// addError records err and reports whether it was non-nil.
func (s *stmt) addError(err error) bool {
	if err == nil {
		return false
	}
	s.errs = append(s.errs, err)
	return true
}

func (s *stmt) andCond(c Condition, item CondItem) Condition {
	if s.addError(condItemErr(item)) {
		return c
	}
	return c.and(item)
}

// boundDialect returns the dialect bound through Dialect.
func (s *stmt) boundDialect(kind string) (string, error) {
	if s.dialect == "" {
		return "", sqlcraft.NewInvalidStateError(kind, "no dialect bound; use Dialect(d) or pass the dialect to Build")
	}
	return s.dialect, nil
}

func (s *stmt) clone() stmt {
	return stmt{dialect: s.dialect, errs: append([]error(nil), s.errs...)}
}

// DialectBuilder creates statements bound to one dialect, so they can be
// rendered with SQL and Query without repeating it.
//
//	query, args, err := sql.Dialect(dialect.Postgres).
//		Select().
//		All().
//		FromTable("users").
//		Query()
type DialectBuilder struct {
	dialect string
}

// Dialect returns a DialectBuilder for d.
func Dialect(d string) *DialectBuilder {
	return &DialectBuilder{dialect: d}
}

// Select returns a SELECT statement bound to the dialect.
func (d *DialectBuilder) Select() *SelectStatement {
	s := Select()
	s.dialect = d.dialect
	return s
}

// Insert returns an INSERT statement bound to the dialect.
func (d *DialectBuilder) Insert() *InsertStatement {
	s := Insert()
	s.dialect = d.dialect
	return s
}

// Update returns an UPDATE statement bound to the dialect.
func (d *DialectBuilder) Update() *UpdateStatement {
	s := Update()
	s.dialect = d.dialect
	return s
}

// Delete returns a DELETE statement bound to the dialect.
func (d *DialectBuilder) Delete() *DeleteStatement {
	s := Delete()
	s.dialect = d.dialect
	return s
}

// returning is the RETURNING clause shared by INSERT, UPDATE and DELETE.
type returning struct {
	all     bool
	columns []string
}

func (r *returning) render(b *Builder) {
	if r == nil || (!r.all && len(r.columns) == 0) {
		return
	}
	if !b.Supports(dialect.Returning) {
		return
	}
	b.WriteString(" RETURNING ")
	if r.all {
		b.WriteString("*")
		return
	}
	b.IdentComma(r.columns...)
}

func (r *returning) addColumns(cols ...string) *returning {
	if r == nil {
		r = &returning{}
	}
	r.columns = append(r.columns, cols...)
	return r
}
