package sql

import (
	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
)

// SelectStatement is a SELECT query builder. Methods mutate the statement
// and return it for chaining; construction errors are recorded at the
// offending call and reported by Err and by every render method.
//
//	q := sql.Select().
//		Column("id").
//		FromTable("users").
//		AndWhere(sql.Column("age").Gte(18)).
//		OrderBy("id", sql.Asc).
//		Limit(10)
//	query, err := q.BuildSQL(dialect.Postgres)
type SelectStatement struct {
	stmt
	distinct bool
	columns  []selectExpr
	from     *tableRef
	joins    []join
	where    Condition
	groupBy  []node
	having   Condition
	orders   []orderExpr
	limit    *uint64
	offset   *uint64
	unions   []union
	lock     *lockClause
}

type selectExpr struct {
	node  node
	alias string
}

type tableRef struct {
	name  string
	alias string
	sub   *SelectStatement
}

type joinKind uint8

const (
	crossJoin joinKind = iota
	leftJoin
	rightJoin
	innerJoin
	fullOuterJoin
)

func (k joinKind) String() string {
	switch k {
	case crossJoin:
		return "CROSS JOIN"
	case leftJoin:
		return "LEFT JOIN"
	case rightJoin:
		return "RIGHT JOIN"
	case innerJoin:
		return "INNER JOIN"
	default:
		return "FULL OUTER JOIN"
	}
}

type join struct {
	kind  joinKind
	table string
	on    Condition
}

type orderExpr struct {
	node  node
	order Order
	nulls *NullsOrder
}

type union struct {
	typ UnionType
	sel *SelectStatement
}

type lockClause struct {
	typ      LockType
	tables   []string
	behavior *LockBehavior
}

// Select returns a new SELECT statement.
func Select() *SelectStatement {
	return &SelectStatement{}
}

// Distinct adds the DISTINCT modifier.
func (s *SelectStatement) Distinct() *SelectStatement {
	s.distinct = true
	return s
}

// All projects `*`.
func (s *SelectStatement) All() *SelectStatement {
	s.columns = append(s.columns, selectExpr{node: &columnNode{name: "*"}})
	return s
}

// Column projects a column.
func (s *SelectStatement) Column(name string) *SelectStatement {
	s.columns = append(s.columns, selectExpr{node: &columnNode{name: name}})
	return s
}

// TableColumn projects a table-qualified column.
func (s *SelectStatement) TableColumn(table, name string) *SelectStatement {
	s.columns = append(s.columns, selectExpr{node: &columnNode{table: table, name: name}})
	return s
}

// Columns projects the given columns.
func (s *SelectStatement) Columns(names ...string) *SelectStatement {
	for _, n := range names {
		s.Column(n)
	}
	return s
}

// Expr projects a computed expression.
func (s *SelectStatement) Expr(e Exprer) *SelectStatement {
	return s.ExprAs(e, "")
}

// ExprAs projects a computed expression under an alias.
func (s *SelectStatement) ExprAs(e Exprer, alias string) *SelectStatement {
	n, err := exprNodeOf("SELECT", e)
	if s.addError(err) {
		return s
	}
	s.columns = append(s.columns, selectExpr{node: n, alias: alias})
	return s
}

// FromTable sets the source table. It is mutually exclusive with FromSubquery.
func (s *SelectStatement) FromTable(name string) *SelectStatement {
	return s.setFrom(&tableRef{name: name})
}

// FromTableAs sets an aliased source table.
func (s *SelectStatement) FromTableAs(name, alias string) *SelectStatement {
	return s.setFrom(&tableRef{name: name, alias: alias})
}

// FromSubquery sets a subquery source. It is mutually exclusive with FromTable.
func (s *SelectStatement) FromSubquery(sub *SelectStatement, alias string) *SelectStatement {
	if sub == nil {
		s.addError(sqlcraft.NewMalformedExpressionError("FROM", "nil subquery"))
		return s
	}
	s.addError(sub.Err())
	return s.setFrom(&tableRef{sub: sub.Clone(), alias: alias})
}

func (s *SelectStatement) setFrom(ref *tableRef) *SelectStatement {
	if s.from != nil {
		s.addError(sqlcraft.NewInvalidStateError("SELECT", "FROM is already set; FromTable and FromSubquery are mutually exclusive"))
		return s
	}
	s.from = ref
	return s
}

// AndWhere appends a conjunct to the WHERE clause.
func (s *SelectStatement) AndWhere(e SimpleExpr) *SelectStatement {
	s.where = s.andCond(s.where, e)
	return s
}

// CondWhere AND-merges a condition tree into the WHERE clause.
func (s *SelectStatement) CondWhere(c Condition) *SelectStatement {
	s.where = s.andCond(s.where, c)
	return s
}

// GroupBy appends a column to GROUP BY.
func (s *SelectStatement) GroupBy(name string) *SelectStatement {
	s.groupBy = append(s.groupBy, &columnNode{name: name})
	return s
}

// GroupByTable appends a table-qualified column to GROUP BY.
func (s *SelectStatement) GroupByTable(table, name string) *SelectStatement {
	s.groupBy = append(s.groupBy, &columnNode{table: table, name: name})
	return s
}

// GroupByExpr appends an expression to GROUP BY.
func (s *SelectStatement) GroupByExpr(e Exprer) *SelectStatement {
	n, err := exprNodeOf("GROUP BY", e)
	if !s.addError(err) {
		s.groupBy = append(s.groupBy, n)
	}
	return s
}

// AndHaving appends a conjunct to the HAVING clause.
func (s *SelectStatement) AndHaving(e SimpleExpr) *SelectStatement {
	s.having = s.andCond(s.having, e)
	return s
}

// CondHaving AND-merges a condition tree into the HAVING clause.
func (s *SelectStatement) CondHaving(c Condition) *SelectStatement {
	s.having = s.andCond(s.having, c)
	return s
}

// OrderBy appends a column ORDER BY term.
func (s *SelectStatement) OrderBy(name string, o Order) *SelectStatement {
	return s.order(&columnNode{name: name}, o, nil)
}

// OrderByWithNulls appends a column ORDER BY term with NULLS placement.
// MySQL has no NULLS FIRST/LAST syntax; it is emulated by sorting on
// `column IS NULL` first.
func (s *SelectStatement) OrderByWithNulls(name string, o Order, nulls NullsOrder) *SelectStatement {
	if !nulls.valid() {
		s.addError(invalidEnum("ORDER BY", nulls))
		return s
	}
	return s.order(&columnNode{name: name}, o, &nulls)
}

// OrderByExpr appends an expression ORDER BY term.
func (s *SelectStatement) OrderByExpr(e Exprer, o Order) *SelectStatement {
	n, err := exprNodeOf("ORDER BY", e)
	if s.addError(err) {
		return s
	}
	return s.order(n, o, nil)
}

func (s *SelectStatement) order(n node, o Order, nulls *NullsOrder) *SelectStatement {
	if !o.valid() {
		s.addError(invalidEnum("ORDER BY", o))
		return s
	}
	s.orders = append(s.orders, orderExpr{node: n, order: o, nulls: nulls})
	return s
}

// Limit sets the LIMIT.
func (s *SelectStatement) Limit(n uint64) *SelectStatement {
	s.limit = &n
	return s
}

// Offset sets the OFFSET.
func (s *SelectStatement) Offset(n uint64) *SelectStatement {
	s.offset = &n
	return s
}

// CrossJoin adds a CROSS JOIN. Pass an empty All() to omit the ON clause.
func (s *SelectStatement) CrossJoin(table string, on CondItem) *SelectStatement {
	return s.join(crossJoin, table, on)
}

// LeftJoin adds a LEFT JOIN.
func (s *SelectStatement) LeftJoin(table string, on CondItem) *SelectStatement {
	return s.join(leftJoin, table, on)
}

// RightJoin adds a RIGHT JOIN.
func (s *SelectStatement) RightJoin(table string, on CondItem) *SelectStatement {
	return s.join(rightJoin, table, on)
}

// InnerJoin adds an INNER JOIN.
func (s *SelectStatement) InnerJoin(table string, on CondItem) *SelectStatement {
	return s.join(innerJoin, table, on)
}

// FullOuterJoin adds a FULL OUTER JOIN.
func (s *SelectStatement) FullOuterJoin(table string, on CondItem) *SelectStatement {
	return s.join(fullOuterJoin, table, on)
}

func (s *SelectStatement) join(kind joinKind, table string, on CondItem) *SelectStatement {
	if s.addError(condItemErr(on)) {
		return s
	}
	s.joins = append(s.joins, join{kind: kind, table: table, on: All().and(on)})
	return s
}

// Union appends a set operation with another SELECT.
func (s *SelectStatement) Union(typ UnionType, other *SelectStatement) *SelectStatement {
	switch {
	case !typ.valid():
		s.addError(invalidEnum("UNION", typ))
	case other == nil:
		s.addError(sqlcraft.NewMalformedExpressionError(typ.String(), "nil statement"))
	default:
		s.addError(other.Err())
		s.unions = append(s.unions, union{typ: typ, sel: other.Clone()})
	}
	return s
}

// Lock adds a row locking clause.
func (s *SelectStatement) Lock(typ LockType) *SelectStatement {
	return s.setLock(typ, nil, nil)
}

// LockWithTables adds a row locking clause restricted to tables.
func (s *SelectStatement) LockWithTables(typ LockType, tables ...string) *SelectStatement {
	return s.setLock(typ, tables, nil)
}

// LockWithBehavior adds a row locking clause with NOWAIT or SKIP LOCKED.
func (s *SelectStatement) LockWithBehavior(typ LockType, behavior LockBehavior) *SelectStatement {
	return s.setLock(typ, nil, &behavior)
}

// LockWithTablesBehavior combines LockWithTables and LockWithBehavior.
func (s *SelectStatement) LockWithTablesBehavior(typ LockType, tables []string, behavior LockBehavior) *SelectStatement {
	return s.setLock(typ, tables, &behavior)
}

// LockShared is shorthand for Lock(LockShare).
func (s *SelectStatement) LockShared() *SelectStatement {
	return s.Lock(LockShare)
}

// LockExclusive is shorthand for Lock(LockUpdate).
func (s *SelectStatement) LockExclusive() *SelectStatement {
	return s.Lock(LockUpdate)
}

func (s *SelectStatement) setLock(typ LockType, tables []string, behavior *LockBehavior) *SelectStatement {
	switch {
	case !typ.valid():
		s.addError(invalidEnum("lock", typ))
	case behavior != nil && !behavior.valid():
		s.addError(invalidEnum("lock", *behavior))
	default:
		s.lock = &lockClause{typ: typ, tables: append([]string(nil), tables...), behavior: behavior}
	}
	return s
}

// Clone returns a deep copy of the statement. Expression nodes are
// immutable and shared.
func (s *SelectStatement) Clone() *SelectStatement {
	if s == nil {
		return nil
	}
	c := *s
	c.stmt = s.stmt.clone()
	c.columns = append([]selectExpr(nil), s.columns...)
	if s.from != nil {
		from := *s.from
		from.sub = s.from.sub.Clone()
		c.from = &from
	}
	c.joins = append([]join(nil), s.joins...)
	c.groupBy = append([]node(nil), s.groupBy...)
	c.orders = append([]orderExpr(nil), s.orders...)
	c.unions = make([]union, len(s.unions))
	for i, u := range s.unions {
		c.unions[i] = union{typ: u.typ, sel: u.sel.Clone()}
	}
	if s.lock != nil {
		l := *s.lock
		l.tables = append([]string(nil), s.lock.tables...)
		c.lock = &l
	}
	return &c
}

// BuildSQL renders the statement with values inlined as literals.
func (s *SelectStatement) BuildSQL(d string) (string, error) {
	return Render(d, s)
}

// Build renders parameterized SQL and its driver arguments.
func (s *SelectStatement) Build(d string) (string, []any, error) {
	return RenderArgs(d, s)
}

// SQL renders the statement for the dialect bound with Dialect.
func (s *SelectStatement) SQL() (string, error) {
	d, err := s.boundDialect("SELECT")
	if err != nil {
		return "", err
	}
	return s.BuildSQL(d)
}

// Query renders parameterized SQL for the dialect bound with Dialect.
func (s *SelectStatement) Query() (string, []any, error) {
	d, err := s.boundDialect("SELECT")
	if err != nil {
		return "", nil, err
	}
	return s.Build(d)
}

// Render writes the statement into b.
func (s *SelectStatement) Render(b *Builder) {
	if err := s.Err(); err != nil {
		b.AddError(err)
		return
	}
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	for i, c := range s.columns {
		if i > 0 {
			b.Comma()
		}
		c.node.render(b)
		if c.alias != "" {
			b.WriteString(" AS ").Ident(c.alias)
		}
	}
	if s.from != nil {
		b.WriteString(" FROM ")
		s.from.render(b)
	}
	for _, j := range s.joins {
		j.render(b)
	}
	writeCondClause(b, " WHERE ", s.where)
	if len(s.groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, g := range s.groupBy {
			if i > 0 {
				b.Comma()
			}
			g.render(b)
		}
	}
	writeCondClause(b, " HAVING ", s.having)
	for _, u := range s.unions {
		b.Pad().WriteString(u.typ.String()).Pad()
		if b.Dialect() == dialect.SQLite {
			// SQLite compound operands cannot be parenthesized.
			if len(u.sel.orders) > 0 || u.sel.limit != nil || u.sel.offset != nil {
				b.AddError(sqlcraft.NewUnsupportedFeatureError(b.Dialect(), "ORDER BY or LIMIT in UNION operand"))
				return
			}
			u.sel.Render(b)
		} else {
			b.Wrap(u.sel.Render)
		}
	}
	if len(s.orders) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range s.orders {
			if i > 0 {
				b.Comma()
			}
			o.render(b)
		}
	}
	s.renderLimit(b)
	if s.lock != nil {
		s.lock.render(b)
	}
}

func (s *SelectStatement) renderLimit(b *Builder) {
	switch {
	case s.limit != nil:
		b.WriteString(" LIMIT ").Uint(*s.limit)
	case s.offset != nil && b.Dialect() == dialect.MySQL:
		// MySQL accepts OFFSET only after LIMIT; use the documented maximum.
		b.WriteString(" LIMIT 18446744073709551615")
	case s.offset != nil && b.Dialect() == dialect.SQLite:
		b.WriteString(" LIMIT -1")
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ").Uint(*s.offset)
	}
}

func (t *tableRef) render(b *Builder) {
	if t.sub != nil {
		b.Wrap(t.sub.Render)
	} else {
		b.Ident(t.name)
	}
	if t.alias != "" {
		b.WriteString(" AS ").Ident(t.alias)
	}
}

func (j join) render(b *Builder) {
	switch {
	case j.kind == fullOuterJoin && !b.Supports(dialect.FullOuterJoin):
		return
	case j.kind == crossJoin && j.on.Len() > 0 && !b.Supports(dialect.CrossJoinOn):
		return
	}
	b.Pad().WriteString(j.kind.String()).Pad().Ident(j.table)
	if j.kind == crossJoin && j.on.Len() == 0 {
		return
	}
	b.WriteString(" ON ")
	(&condNode{cond: j.on}).render(b)
}

func (o orderExpr) render(b *Builder) {
	if o.nulls != nil && b.Dialect() == dialect.MySQL {
		writeArg(b, o.node)
		if *o.nulls == NullsFirst {
			b.WriteString(" IS NULL DESC, ")
		} else {
			b.WriteString(" IS NULL ASC, ")
		}
	}
	writeOperand(b, o.node)
	b.Pad().WriteString(o.order.String())
	if o.nulls != nil && b.Dialect() != dialect.MySQL {
		b.Pad().WriteString(o.nulls.String())
	}
}

func (l *lockClause) render(b *Builder) {
	if !b.Supports(l.typ.feature()) {
		return
	}
	b.Pad().WriteString(l.typ.String())
	if len(l.tables) > 0 {
		if !b.Supports(dialect.LockOf) {
			return
		}
		b.WriteString(" OF ").IdentComma(l.tables...)
	}
	if l.behavior != nil {
		if !b.Supports(l.behavior.feature()) {
			return
		}
		b.Pad().WriteString(l.behavior.String())
	}
}

// writeCondClause writes keyword and c unless c is an empty conjunction.
func writeCondClause(b *Builder, keyword string, c Condition) {
	if c.Len() == 0 && !c.any && !c.negate {
		return
	}
	b.WriteString(keyword)
	(&condNode{cond: c}).render(b)
}
