package sql

import (
	"strings"

	"github.com/syssam/sqlcraft/dialect"
)

// EQ returns `name = v`.
func EQ(name string, v any) SimpleExpr { return Column(name).Eq(v) }

// NEQ returns `name <> v`.
func NEQ(name string, v any) SimpleExpr { return Column(name).Ne(v) }

// GT returns `name > v`.
func GT(name string, v any) SimpleExpr { return Column(name).Gt(v) }

// GTE returns `name >= v`.
func GTE(name string, v any) SimpleExpr { return Column(name).Gte(v) }

// LT returns `name < v`.
func LT(name string, v any) SimpleExpr { return Column(name).Lt(v) }

// LTE returns `name <= v`.
func LTE(name string, v any) SimpleExpr { return Column(name).Lte(v) }

// In returns `name IN (vs...)`.
func In[T any](name string, vs ...T) SimpleExpr { return Column(name).IsIn(anys(vs)...) }

// NotIn returns `name NOT IN (vs...)`.
func NotIn[T any](name string, vs ...T) SimpleExpr { return Column(name).IsNotIn(anys(vs)...) }

// IsNull returns `name IS NULL`.
func IsNull(name string) SimpleExpr { return Column(name).IsNull() }

// NotNull returns `name IS NOT NULL`.
func NotNull(name string) SimpleExpr { return Column(name).IsNotNull() }

// Contains returns `name LIKE '%v%'` with LIKE wildcards in v escaped.
func Contains(name, v string) SimpleExpr {
	return like(Column(name), "%"+escapeLike(v)+"%")
}

// HasPrefix returns `name LIKE 'v%'`.
func HasPrefix(name, v string) SimpleExpr {
	return like(Column(name), escapeLike(v)+"%")
}

// HasSuffix returns `name LIKE '%v'`.
func HasSuffix(name, v string) SimpleExpr {
	return like(Column(name), "%"+escapeLike(v))
}

// ContainsFold is the case-insensitive form of Contains.
func ContainsFold(name, v string) SimpleExpr {
	lower := ExprOf(Func("LOWER", Column(name)))
	return like(lower, "%"+escapeLike(strings.ToLower(v))+"%")
}

// EqualFold returns `LOWER(name) = LOWER(v)`.
func EqualFold(name, v string) SimpleExpr {
	return ExprOf(Func("LOWER", Column(name))).Eq(strings.ToLower(v))
}

// Not returns the negation of a condition tree.
func Not(item CondItem) Condition {
	return All(item).Not()
}

func anys[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = vs[i]
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// like builds a LIKE predicate with a backslash-escaped pattern. SQLite has
// no default escape character, so it gets an explicit ESCAPE clause.
func like(e Expr, pattern string) SimpleExpr {
	return SimpleExpr{node: &likeNode{left: e.node, pattern: String(pattern)}, err: e.Err()}
}

type likeNode struct {
	left    node
	pattern Value
}

func (n *likeNode) render(b *Builder) {
	writeArg(b, n.left)
	b.WriteString(" LIKE ").Arg(n.pattern)
	if b.Dialect() == dialect.SQLite && strings.Contains(n.pattern.String(), `\`) {
		b.WriteString(" ESCAPE ").Literal(String(`\`))
	}
}

// Field is a typed column name. It gives predicate methods that only
// accept values of the column's Go type.
//
//	var Age = sql.Field[int]("age")
//	sql.Select().All().FromTable("users").AndWhere(Age.GTE(18))
type Field[T any] string

// Name returns the column name.
func (f Field[T]) Name() string { return string(f) }

// Expr returns the column as an expression.
func (f Field[T]) Expr() Expr { return Column(string(f)) }

// EQ returns `f = v`.
func (f Field[T]) EQ(v T) SimpleExpr { return EQ(string(f), v) }

// NEQ returns `f <> v`.
func (f Field[T]) NEQ(v T) SimpleExpr { return NEQ(string(f), v) }

// GT returns `f > v`.
func (f Field[T]) GT(v T) SimpleExpr { return GT(string(f), v) }

// GTE returns `f >= v`.
func (f Field[T]) GTE(v T) SimpleExpr { return GTE(string(f), v) }

// LT returns `f < v`.
func (f Field[T]) LT(v T) SimpleExpr { return LT(string(f), v) }

// LTE returns `f <= v`.
func (f Field[T]) LTE(v T) SimpleExpr { return LTE(string(f), v) }

// In returns `f IN (vs...)`.
func (f Field[T]) In(vs ...T) SimpleExpr { return In(string(f), vs...) }

// NotIn returns `f NOT IN (vs...)`.
func (f Field[T]) NotIn(vs ...T) SimpleExpr { return NotIn(string(f), vs...) }

// Between returns `f BETWEEN lo AND hi`.
func (f Field[T]) Between(lo, hi T) SimpleExpr { return f.Expr().Between(lo, hi) }

// IsNull returns `f IS NULL`.
func (f Field[T]) IsNull() SimpleExpr { return IsNull(string(f)) }

// NotNull returns `f IS NOT NULL`.
func (f Field[T]) NotNull() SimpleExpr { return NotNull(string(f)) }

// StringField is a Field[string] with pattern matching predicates.
type StringField string

// Name returns the column name.
func (f StringField) Name() string { return string(f) }

// Field returns the generic typed field.
func (f StringField) Field() Field[string] { return Field[string](f) }

// EQ returns `f = v`.
func (f StringField) EQ(v string) SimpleExpr { return EQ(string(f), v) }

// NEQ returns `f <> v`.
func (f StringField) NEQ(v string) SimpleExpr { return NEQ(string(f), v) }

// In returns `f IN (vs...)`.
func (f StringField) In(vs ...string) SimpleExpr { return In(string(f), vs...) }

// Contains returns `f LIKE '%v%'`.
func (f StringField) Contains(v string) SimpleExpr { return Contains(string(f), v) }

// ContainsFold is the case-insensitive form of Contains.
func (f StringField) ContainsFold(v string) SimpleExpr { return ContainsFold(string(f), v) }

// HasPrefix returns `f LIKE 'v%'`.
func (f StringField) HasPrefix(v string) SimpleExpr { return HasPrefix(string(f), v) }

// HasSuffix returns `f LIKE '%v'`.
func (f StringField) HasSuffix(v string) SimpleExpr { return HasSuffix(string(f), v) }

// EqualFold returns `LOWER(f) = LOWER(v)`.
func (f StringField) EqualFold(v string) SimpleExpr { return EqualFold(string(f), v) }

// IsNull returns `f IS NULL`.
func (f StringField) IsNull() SimpleExpr { return IsNull(string(f)) }

// NotNull returns `f IS NOT NULL`.
func (f StringField) NotNull() SimpleExpr { return NotNull(string(f)) }
