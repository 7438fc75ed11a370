package sql

import (
	"testing"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprOperators(t *testing.T) {
	tests := []struct {
		name string
		expr SimpleExpr
		want string
	}{
		{name: "eq", expr: Column("column").Eq(1), want: `"column" = 1`},
		{name: "ne", expr: Column("column").Ne(1), want: `"column" <> 1`},
		{name: "gt", expr: Column("column").Gt(1), want: `"column" > 1`},
		{name: "gte", expr: Column("column").Gte(1), want: `"column" >= 1`},
		{name: "lt", expr: Column("column").Lt(1), want: `"column" < 1`},
		{name: "lte", expr: Column("column").Lte(1), want: `"column" <= 1`},
		{name: "is", expr: Column("column").Is(true), want: `"column" IS TRUE`},
		{name: "is not", expr: Column("column").IsNot(nil), want: `"column" IS NOT NULL`},
		{name: "in", expr: Column("column").IsIn(1, 2, 3), want: `"column" IN (1, 2, 3)`},
		{name: "not in", expr: Column("column").IsNotIn(1, 2, 3), want: `"column" NOT IN (1, 2, 3)`},
		{name: "between", expr: Column("column").Between(1, 2), want: `"column" BETWEEN 1 AND 2`},
		{name: "not between", expr: Column("column").NotBetween(1, 2), want: `"column" NOT BETWEEN 1 AND 2`},
		{name: "like", expr: Column("column").Like("abc%"), want: `"column" LIKE 'abc%'`},
		{name: "not like", expr: Column("column").NotLike("abc%"), want: `"column" NOT LIKE 'abc%'`},
		{name: "is null", expr: Column("column").IsNull(), want: `"column" IS NULL`},
		{name: "is not null", expr: Column("column").IsNotNull(), want: `"column" IS NOT NULL`},
		{name: "max", expr: Column("column").Max(), want: `MAX("column")`},
		{name: "min", expr: Column("column").Min(), want: `MIN("column")`},
		{name: "sum", expr: Column("column").Sum(), want: `SUM("column")`},
		{name: "count", expr: Column("column").Count(), want: `COUNT("column")`},
		{name: "count distinct", expr: Column("column").CountDistinct(), want: `COUNT(DISTINCT "column")`},
		{name: "if null", expr: Column("column").IfNull(1), want: `COALESCE("column", 1)`},
		{name: "equals", expr: TableColumn("t1", "a").Equals(TableColumn("t2", "b")), want: `"t1"."a" = "t2"."b"`},
		{name: "not equals", expr: Column("a").NotEquals(Column("b")), want: `"a" <> "b"`},
		{name: "func", expr: Func("LOWER", Column("name")), want: `LOWER("name")`},
		{name: "raw", expr: Raw("CURRENT_TIMESTAMP"), want: `CURRENT_TIMESTAMP`},
		{name: "value operand", expr: Val(1).Lt(Column("a")), want: `1 < "a"`},
		{name: "nested", expr: ExprOf(Column("a").Max()).Gt(10), want: `MAX("a") > 10`},
		{name: "nested comparison", expr: ExprOf(Column("a").Eq(1)).Eq(Column("b").Eq(2)), want: `("a" = 1) = ("b" = 2)`},
		{name: "nested not", expr: ExprOf(Column("a").Eq(1).Not()).IsNull(), want: `(NOT "a" = 1) IS NULL`},
		{name: "nested is null", expr: Column("a").Equals(Column("b").IsNull()), want: `"a" = ("b" IS NULL)`},
		{name: "nested between", expr: ExprOf(Column("a").Between(1, 2)).IsIn(true, false), want: `("a" BETWEEN 1 AND 2) IN (TRUE, FALSE)`},
		{name: "nested like", expr: ExprOf(Column("a").Like("x%")).Eq(false), want: `("a" LIKE 'x%') = FALSE`},
		{name: "nested in", expr: ExprOf(Column("a").IsIn(1, 2)).Between(false, true), want: `("a" IN (1, 2)) BETWEEN FALSE AND TRUE`},
		{name: "nested condition", expr: ExprOf(All(Column("a").Eq(1))).Ne(true), want: `("a" = 1) <> TRUE`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.expr.Err())
			got, err := Render(dialect.Postgres, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExprLogical(t *testing.T) {
	a, b, c, d := Column("a").Eq(1), Column("b").Eq(2), Column("c").Eq(3), Column("d").Eq(4)
	tests := []struct {
		name string
		expr SimpleExpr
		want string
	}{
		{name: "and", expr: a.And(b), want: `"a" = 1 AND "b" = 2`},
		{name: "or", expr: a.Or(b), want: `"a" = 1 OR "b" = 2`},
		{name: "and chain", expr: a.And(b).And(c), want: `"a" = 1 AND "b" = 2 AND "c" = 3`},
		{name: "mixed", expr: a.And(b).Or(c.Or(d)), want: `("a" = 1 AND "b" = 2) OR ("c" = 3 OR "d" = 4)`},
		{name: "right nested", expr: a.And(b.Or(c)), want: `"a" = 1 AND ("b" = 2 OR "c" = 3)`},
		{name: "not", expr: a.Not(), want: `NOT "a" = 1`},
		{name: "not compound", expr: a.And(b).Not(), want: `NOT ("a" = 1 AND "b" = 2)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(dialect.Postgres, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExprReusable(t *testing.T) {
	col := Column("age")
	gt := col.Gt(18)
	lt := col.Lt(65)
	got, err := Render(dialect.MySQL, gt.And(lt))
	require.NoError(t, err)
	assert.Equal(t, "`age` > 18 AND `age` < 65", got)
	got, err = Render(dialect.MySQL, gt)
	require.NoError(t, err)
	assert.Equal(t, "`age` > 18", got)
}

func TestExprErrors(t *testing.T) {
	tests := []struct {
		name string
		expr SimpleExpr
	}{
		{name: "empty in", expr: Column("a").IsIn()},
		{name: "empty not in", expr: Column("a").IsNotIn()},
		{name: "nil between", expr: Column("a").Between(nil, 1)},
		{name: "unsupported value", expr: Column("a").Eq(struct{}{})},
		{name: "zero expr", expr: Expr{}.Eq(1)},
		{name: "zero simple expr", expr: SimpleExpr{}},
		{name: "propagated", expr: Column("a").Eq(1).And(Column("b").IsIn())},
		{name: "nil subquery", expr: Column("a").InQuery(nil)},
		{name: "nil exists", expr: Exists(nil)},
		{name: "nil expr operand", expr: ExprOf(nil).Eq(1)},
		{name: "case without when", expr: ExprOf(Case().Else(1)).Eq(1)},
		{name: "nil case", expr: ExprOf((*CaseExpr)(nil)).Eq(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expr.Err()
			require.Error(t, err)
			assert.True(t, sqlcraft.IsMalformedExpression(err))
			_, err = Render(dialect.Postgres, tt.expr)
			assert.True(t, sqlcraft.IsMalformedExpression(err))
		})
	}
}

func TestExprErrorNamesOperator(t *testing.T) {
	err := Column("a").IsIn().Err()
	var me *sqlcraft.MalformedExpressionError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "IN", me.Op)

	err = Column("a").Gt(struct{}{}).Err()
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ">", me.Op)
}

func TestExists(t *testing.T) {
	query := Select().
		FromTable("table").
		Expr(Exists(
			Select().Column("column").FromTable("table").AndWhere(Column("column").Eq(1)),
		))
	got, err := query.BuildSQL(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `SELECT EXISTS(SELECT "column" FROM "table" WHERE "column" = 1) FROM "table"`, got)
}

func TestInQuery(t *testing.T) {
	sub := Select().Column("user_id").FromTable("orders")
	in := Column("id").InQuery(sub)
	got, err := Render(dialect.SQLite, in)
	require.NoError(t, err)
	assert.Equal(t, `"id" IN (SELECT "user_id" FROM "orders")`, got)

	// The subquery is copied when attached.
	sub.AndWhere(Column("total").Gt(1))
	got, err = Render(dialect.SQLite, in)
	require.NoError(t, err)
	assert.Equal(t, `"id" IN (SELECT "user_id" FROM "orders")`, got)

	got, err = Render(dialect.SQLite, Column("id").NotInQuery(sub))
	require.NoError(t, err)
	assert.Equal(t, `"id" NOT IN (SELECT "user_id" FROM "orders" WHERE "total" > 1)`, got)
}

func TestCase(t *testing.T) {
	tests := []struct {
		name string
		expr *CaseExpr
		want string
	}{
		{
			name: "single",
			expr: Case().When(Column("column1").Eq(1), Val(1)).Else(Val(0)),
			want: `SELECT (CASE WHEN ("column1" = 1) THEN 1 ELSE 0 END) AS "case_column" FROM "table"`,
		},
		{
			name: "multiple",
			expr: Case().When(Column("column1").Eq(1), 1).When(Column("column1").Eq(2), 2).Else(0),
			want: `SELECT (CASE WHEN ("column1" = 1) THEN 1 WHEN ("column1" = 2) THEN 2 ELSE 0 END) AS "case_column" FROM "table"`,
		},
		{
			name: "no else",
			expr: Case().When(Any(Column("a").Eq(1), Column("b").Eq(2)), "x"),
			want: `SELECT (CASE WHEN ("a" = 1 OR "b" = 2) THEN 'x' END) AS "case_column" FROM "table"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select().ExprAs(tt.expr, "case_column").FromTable("table").BuildSQL(dialect.Postgres)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredicates(t *testing.T) {
	age := Field[int]("age")
	name := StringField("name")
	tests := []struct {
		name    string
		expr    SimpleExpr
		dialect string
		want    string
	}{
		{name: "eq", expr: EQ("name", "john"), dialect: dialect.Postgres, want: `"name" = 'john'`},
		{name: "neq", expr: NEQ("status", "deleted"), dialect: dialect.Postgres, want: `"status" <> 'deleted'`},
		{name: "in", expr: In("status", "a", "b"), dialect: dialect.Postgres, want: `"status" IN ('a', 'b')`},
		{name: "not in", expr: NotIn("id", 1, 2), dialect: dialect.Postgres, want: `"id" NOT IN (1, 2)`},
		{name: "is null", expr: IsNull("deleted_at"), dialect: dialect.Postgres, want: `"deleted_at" IS NULL`},
		{name: "not null", expr: NotNull("email"), dialect: dialect.Postgres, want: `"email" IS NOT NULL`},
		{name: "field gte", expr: age.GTE(18), dialect: dialect.MySQL, want: "`age` >= 18"},
		{name: "field between", expr: age.Between(18, 65), dialect: dialect.MySQL, want: "`age` BETWEEN 18 AND 65"},
		{name: "field in", expr: age.In(1, 2), dialect: dialect.MySQL, want: "`age` IN (1, 2)"},
		{name: "contains", expr: name.Contains("jo"), dialect: dialect.Postgres, want: `"name" LIKE '%jo%'`},
		{name: "has prefix", expr: name.HasPrefix("jo"), dialect: dialect.Postgres, want: `"name" LIKE 'jo%'`},
		{name: "has suffix", expr: name.HasSuffix("jo"), dialect: dialect.Postgres, want: `"name" LIKE '%jo'`},
		{name: "contains fold", expr: name.ContainsFold("JO"), dialect: dialect.Postgres, want: `LOWER("name") LIKE '%jo%'`},
		{name: "equal fold", expr: name.EqualFold("JO"), dialect: dialect.Postgres, want: `LOWER("name") = 'jo'`},
		{name: "escaped mysql", expr: Contains("name", "50%"), dialect: dialect.MySQL, want: "`name` LIKE '%50\\\\%%'"},
		{name: "escaped sqlite", expr: Contains("name", "a_b"), dialect: dialect.SQLite, want: `"name" LIKE '%a\_b%' ESCAPE '\'`},
		{name: "unescaped sqlite", expr: Contains("name", "ab"), dialect: dialect.SQLite, want: `"name" LIKE '%ab%'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.dialect, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotPredicate(t *testing.T) {
	got, err := Select().All().FromTable("users").CondWhere(Not(Any(EQ("a", 1), EQ("b", 2)))).BuildSQL(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE NOT ("a" = 1 OR "b" = 2)`, got)
}
