package schema

import (
	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect/sql"
)

// stmt holds the construction errors shared by all DDL statements.
type stmt struct {
	errs []error
}

// Err returns the errors recorded while building the statement.
func (s *stmt) Err() error {
	return sqlcraft.NewAggregateError(s.errs...)
}

func (s *stmt) addError(err error) bool {
	if err == nil {
		return false
	}
	s.errs = append(s.errs, err)
	return true
}

// comment is a Postgres COMMENT ON statement emitted after the DDL
// statement it belongs to.
type comment struct {
	table  string
	column string
	text   string
}

func writeComments(b *sql.Builder, cs []comment) {
	for _, c := range cs {
		b.WriteString("; COMMENT ON ")
		if c.column == "" {
			b.WriteString("TABLE ").Ident(c.table)
		} else {
			b.WriteString("COLUMN ").Ident(c.table).WriteString(".").Ident(c.column)
		}
		b.WriteString(" IS ").Literal(sql.String(c.text))
	}
}

// requireName records an InvalidState error when a mandatory name is empty.
func requireName(b *sql.Builder, kind, what, name string) bool {
	if name == "" {
		b.AddError(sqlcraft.NewInvalidStateError(kind, what+" is required"))
		return false
	}
	return true
}

// buildSQL renders r for d. DDL is never parameterized.
func buildSQL(d string, r sql.Renderer) (string, error) {
	return sql.Render(d, r)
}

// unsupported records an UnsupportedFeature error for a clause that has
// no entry in the dialect feature table.
func unsupported(b *sql.Builder, clause string) {
	b.AddError(sqlcraft.NewUnsupportedFeatureError(b.Dialect(), clause))
}
