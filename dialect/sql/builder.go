package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
)

// Renderer is implemented by every node that can write itself as a SQL
// fragment: expressions, conditions and statements. Statements nest into
// expressions (EXISTS, subqueries) through this interface.
type Renderer interface {
	Render(b *Builder)
}

// Builder is the low-level SQL string builder. It owns the output buffer,
// the dialect syntax rules, and the collected driver arguments.
//
// A Builder is created per render call and discarded afterwards, so
// rendering never touches statement state.
type Builder struct {
	sb      strings.Builder
	dialect string
	syntax  syntax
	inline  bool  // write values as literals instead of placeholders
	args    []any // collected arguments in placeholder order
	errs    []error
}

// NewBuilder returns a Builder that inlines values as literals, as used
// for DDL and for BuildSQL.
func NewBuilder(d string) (*Builder, error) {
	return newBuilder(d, true)
}

func newBuilder(d string, inline bool) (*Builder, error) {
	s, err := syntaxFor(d)
	if err != nil {
		return nil, err
	}
	return &Builder{dialect: d, syntax: s, inline: inline}, nil
}

// Dialect returns the dialect the builder renders for.
func (b *Builder) Dialect() string { return b.dialect }

// WriteString appends s verbatim.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Comma appends ", ".
func (b *Builder) Comma() *Builder {
	return b.WriteString(", ")
}

// Pad appends a single space.
func (b *Builder) Pad() *Builder {
	return b.WriteString(" ")
}

// Ident appends a quoted identifier. The wildcard "*" is written as is.
func (b *Builder) Ident(s string) *Builder {
	if s == "*" {
		return b.WriteString("*")
	}
	return b.WriteString(b.syntax.quote(s))
}

// IdentComma appends the quoted identifiers separated by commas.
func (b *Builder) IdentComma(names ...string) *Builder {
	for i, n := range names {
		if i > 0 {
			b.Comma()
		}
		b.Ident(n)
	}
	return b
}

// Wrap wraps the output of f with parentheses.
func (b *Builder) Wrap(f func(*Builder)) *Builder {
	b.WriteString("(")
	f(b)
	return b.WriteString(")")
}

// Join renders the fragments separated by sep.
func (b *Builder) Join(sep string, rs ...Renderer) *Builder {
	for i, r := range rs {
		if i > 0 {
			b.WriteString(sep)
		}
		r.Render(b)
	}
	return b
}

// Arg appends v as a placeholder bound to a driver argument, or as a
// literal when the builder inlines values.
func (b *Builder) Arg(v Value) *Builder {
	if b.inline {
		return b.Literal(v)
	}
	b.args = append(b.args, v.Interface())
	return b.WriteString(b.syntax.placeholder(len(b.args)))
}

// Literal appends v as a dialect literal regardless of the builder mode.
func (b *Builder) Literal(v Value) *Builder {
	return b.WriteString(b.syntax.literal(v))
}

// Bool appends the dialect spelling of a boolean constant.
func (b *Builder) Bool(v bool) *Builder {
	return b.WriteString(b.syntax.boolean(v))
}

// Uint appends an unsigned integer.
func (b *Builder) Uint(n uint64) *Builder {
	return b.WriteString(strconv.FormatUint(n, 10))
}

// Supports reports whether the dialect can render f. When it cannot, an
// UnsupportedFeatureError naming the dialect and clause is recorded.
func (b *Builder) Supports(f dialect.Feature) bool {
	if dialect.Supports(b.dialect, f) {
		return true
	}
	b.AddError(sqlcraft.NewUnsupportedFeatureError(b.dialect, f.String()))
	return false
}

// AddError records a render error. Rendering continues so every problem
// is reported, but the output is discarded.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Err returns the errors recorded while rendering.
func (b *Builder) Err() error {
	return sqlcraft.NewAggregateError(b.errs...)
}

// String returns the accumulated SQL.
func (b *Builder) String() string {
	return b.sb.String()
}

// Args returns the collected driver arguments.
func (b *Builder) Args() []any {
	return b.args
}

// Render renders r into a fresh builder and returns the SQL text with
// values inlined.
func Render(d string, r Renderer) (string, error) {
	query, _, err := render(d, true, r)
	return query, err
}

// RenderArgs renders r into a fresh builder and returns parameterized SQL
// together with its driver arguments.
func RenderArgs(d string, r Renderer) (string, []any, error) {
	return render(d, false, r)
}

func render(d string, inline bool, r Renderer) (string, []any, error) {
	b, err := newBuilder(d, inline)
	if err != nil {
		return "", nil, err
	}
	r.Render(b)
	if err := b.Err(); err != nil {
		return "", nil, err
	}
	return b.String(), b.Args(), nil
}
