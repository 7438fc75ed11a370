package sql

import (
	"errors"

	"github.com/syssam/sqlcraft"
)

// node is an immutable expression tree node. Nodes are never mutated
// after construction, so trees share subtrees freely and an Expr stays
// reusable after it was applied to an operator.
type node interface {
	render(b *Builder)
}

// Exprer is implemented by everything that can stand in an expression
// position: Expr, SimpleExpr, Condition and CaseExpr.
type Exprer interface {
	exprNode() (node, error)
}

// Expr references a column or wraps a sub-expression. Operators applied
// to an Expr return a new SimpleExpr and leave the receiver untouched.
type Expr struct {
	node node
	err  error
}

// Column returns an expression referencing a bare column.
func Column(name string) Expr {
	return Expr{node: &columnNode{name: name}}
}

// TableColumn returns an expression referencing a table-qualified column.
func TableColumn(table, name string) Expr {
	return Expr{node: &columnNode{table: table, name: name}}
}

// ExprOf wraps a sub-expression so operators can be applied to it.
func ExprOf(e Exprer) Expr {
	n, err := exprNodeOf("expression", e)
	return Expr{node: n, err: err}
}

// Val returns a literal value expression. Unsupported Go types yield an
// expression whose Err reports a MalformedExpressionError.
func Val(v any) Expr {
	n, err := operand("value", v)
	return Expr{node: n, err: err}
}

// Raw returns a verbatim SQL fragment, e.g. Raw("CURRENT_TIMESTAMP").
// The fragment is written as is in every dialect.
func Raw(sql string) SimpleExpr {
	return SimpleExpr{node: rawNode(sql)}
}

// Err returns the construction error of the expression, if any.
func (e Expr) Err() error {
	if e.err == nil && e.node == nil {
		return sqlcraft.NewMalformedExpressionError("expression", "empty expression")
	}
	return e.err
}

func (e Expr) exprNode() (node, error) { return e.node, e.Err() }

// Render writes the expression into b.
func (e Expr) Render(b *Builder) {
	if err := e.Err(); err != nil {
		b.AddError(err)
		return
	}
	e.node.render(b)
}

// Eq returns `e = v`.
func (e Expr) Eq(v any) SimpleExpr { return e.binary("=", v) }

// Ne returns `e <> v`.
func (e Expr) Ne(v any) SimpleExpr { return e.binary("<>", v) }

// Gt returns `e > v`.
func (e Expr) Gt(v any) SimpleExpr { return e.binary(">", v) }

// Gte returns `e >= v`.
func (e Expr) Gte(v any) SimpleExpr { return e.binary(">=", v) }

// Lt returns `e < v`.
func (e Expr) Lt(v any) SimpleExpr { return e.binary("<", v) }

// Lte returns `e <= v`.
func (e Expr) Lte(v any) SimpleExpr { return e.binary("<=", v) }

// Is returns `e IS v`.
func (e Expr) Is(v any) SimpleExpr { return e.binary("IS", v) }

// IsNot returns `e IS NOT v`.
func (e Expr) IsNot(v any) SimpleExpr { return e.binary("IS NOT", v) }

// Like returns `e LIKE pattern`.
func (e Expr) Like(pattern string) SimpleExpr { return e.binary("LIKE", pattern) }

// NotLike returns `e NOT LIKE pattern`.
func (e Expr) NotLike(pattern string) SimpleExpr { return e.binary("NOT LIKE", pattern) }

// Equals compares e with another column or expression, e.g.
// TableColumn("t1", "a").Equals(TableColumn("t2", "b")).
func (e Expr) Equals(other Exprer) SimpleExpr { return e.binary("=", other) }

// NotEquals is the negated form of Equals.
func (e Expr) NotEquals(other Exprer) SimpleExpr { return e.binary("<>", other) }

// IsNull returns `e IS NULL`.
func (e Expr) IsNull() SimpleExpr {
	return SimpleExpr{node: &postfixNode{operand: e.node, op: "IS NULL"}, err: e.Err()}
}

// IsNotNull returns `e IS NOT NULL`.
func (e Expr) IsNotNull() SimpleExpr {
	return SimpleExpr{node: &postfixNode{operand: e.node, op: "IS NOT NULL"}, err: e.Err()}
}

// IsIn returns `e IN (vs...)`. At least one value is required.
func (e Expr) IsIn(vs ...any) SimpleExpr { return e.list("IN", vs) }

// IsNotIn returns `e NOT IN (vs...)`. At least one value is required.
func (e Expr) IsNotIn(vs ...any) SimpleExpr { return e.list("NOT IN", vs) }

// InQuery returns `e IN (SELECT ...)`.
func (e Expr) InQuery(q *SelectStatement) SimpleExpr { return e.subquery("IN", q) }

// NotInQuery returns `e NOT IN (SELECT ...)`.
func (e Expr) NotInQuery(q *SelectStatement) SimpleExpr { return e.subquery("NOT IN", q) }

// Between returns `e BETWEEN lo AND hi`.
func (e Expr) Between(lo, hi any) SimpleExpr { return e.between(false, lo, hi) }

// NotBetween returns `e NOT BETWEEN lo AND hi`.
func (e Expr) NotBetween(lo, hi any) SimpleExpr { return e.between(true, lo, hi) }

// Max returns `MAX(e)`.
func (e Expr) Max() SimpleExpr { return e.call("MAX", false) }

// Min returns `MIN(e)`.
func (e Expr) Min() SimpleExpr { return e.call("MIN", false) }

// Sum returns `SUM(e)`.
func (e Expr) Sum() SimpleExpr { return e.call("SUM", false) }

// Count returns `COUNT(e)`.
func (e Expr) Count() SimpleExpr { return e.call("COUNT", false) }

// CountDistinct returns `COUNT(DISTINCT e)`.
func (e Expr) CountDistinct() SimpleExpr { return e.call("COUNT", true) }

// IfNull returns `COALESCE(e, v)`.
func (e Expr) IfNull(v any) SimpleExpr {
	n, err := operand("COALESCE", v)
	return SimpleExpr{
		node: &funcNode{name: "COALESCE", args: []node{e.node, n}},
		err:  firstErr(e.Err(), err),
	}
}

func (e Expr) binary(op string, v any) SimpleExpr {
	n, err := operand(op, v)
	return SimpleExpr{node: &binaryNode{op: op, left: e.node, right: n}, err: firstErr(e.Err(), err)}
}

func (e Expr) list(op string, vs []any) SimpleExpr {
	if len(vs) == 0 {
		return SimpleExpr{err: sqlcraft.NewMalformedExpressionError(op, "at least one value is required")}
	}
	items := make([]node, len(vs))
	err := e.Err()
	for i, v := range vs {
		n, verr := operand(op, v)
		items[i] = n
		err = firstErr(err, verr)
	}
	return SimpleExpr{node: &listNode{left: e.node, op: op, items: items}, err: err}
}

func (e Expr) subquery(op string, q *SelectStatement) SimpleExpr {
	if q == nil {
		return SimpleExpr{err: sqlcraft.NewMalformedExpressionError(op, "nil subquery")}
	}
	return SimpleExpr{
		node: &binaryNode{op: op, left: e.node, right: &subqueryNode{query: q.Clone()}},
		err:  firstErr(e.Err(), q.Err()),
	}
}

func (e Expr) between(not bool, lo, hi any) SimpleExpr {
	op := "BETWEEN"
	if not {
		op = "NOT BETWEEN"
	}
	if lo == nil || hi == nil {
		return SimpleExpr{err: sqlcraft.NewMalformedExpressionError(op, "both bounds are required")}
	}
	l, lerr := operand(op, lo)
	h, herr := operand(op, hi)
	return SimpleExpr{
		node: &betweenNode{left: e.node, not: not, lo: l, hi: h},
		err:  firstErr(e.Err(), lerr, herr),
	}
}

func (e Expr) call(name string, distinct bool) SimpleExpr {
	return SimpleExpr{node: &funcNode{name: name, args: []node{e.node}, distinct: distinct}, err: e.Err()}
}

// Exists returns `EXISTS(q)`.
func Exists(q *SelectStatement) SimpleExpr {
	if q == nil {
		return SimpleExpr{err: sqlcraft.NewMalformedExpressionError("EXISTS", "nil subquery")}
	}
	return SimpleExpr{node: &existsNode{query: q.Clone()}, err: q.Err()}
}

// Func returns a call of the named SQL function, e.g. Func("LOWER", Column("name")).
func Func(name string, args ...any) SimpleExpr {
	nodes := make([]node, len(args))
	var err error
	for i, a := range args {
		n, aerr := operand(name, a)
		nodes[i] = n
		err = firstErr(err, aerr)
	}
	return SimpleExpr{node: &funcNode{name: name, args: nodes}, err: err}
}

// SimpleExpr is an expression produced by an operator. It is boolean or
// scalar valued and composes through And, Or and Not.
type SimpleExpr struct {
	node node
	err  error
}

// Err returns the construction error of the expression, if any.
// A non-nil error means the expression cannot be attached or rendered.
func (e SimpleExpr) Err() error {
	if e.err == nil && e.node == nil {
		return sqlcraft.NewMalformedExpressionError("expression", "empty expression")
	}
	return e.err
}

// And returns `e AND other`.
func (e SimpleExpr) And(other SimpleExpr) SimpleExpr { return e.logical("AND", other) }

// Or returns `e OR other`.
func (e SimpleExpr) Or(other SimpleExpr) SimpleExpr { return e.logical("OR", other) }

// Not returns `NOT e`.
func (e SimpleExpr) Not() SimpleExpr {
	return SimpleExpr{node: &notNode{operand: e.node}, err: e.Err()}
}

// Render writes the expression into b.
func (e SimpleExpr) Render(b *Builder) {
	if err := e.Err(); err != nil {
		b.AddError(err)
		return
	}
	e.node.render(b)
}

func (e SimpleExpr) exprNode() (node, error) { return e.node, e.Err() }

func (SimpleExpr) condItem() {}

func (e SimpleExpr) logical(op string, other SimpleExpr) SimpleExpr {
	return SimpleExpr{node: &logicalNode{op: op, left: e.node, right: other.node}, err: firstErr(e.Err(), other.Err())}
}

// CaseExpr builds a searched CASE expression.
type CaseExpr struct {
	whens []caseWhen
	els   node
	err   error
}

type caseWhen struct {
	cond node
	then node
}

// Case starts a CASE expression.
func Case() *CaseExpr {
	return &CaseExpr{}
}

// When adds a `WHEN cond THEN then` arm.
func (c *CaseExpr) When(cond CondItem, then any) *CaseExpr {
	cn, cerr := condNodeOf(cond)
	tn, terr := operand("CASE", then)
	c.whens = append(c.whens, caseWhen{cond: cn, then: tn})
	c.err = firstErr(c.err, cerr, terr)
	return c
}

// Else sets the ELSE arm.
func (c *CaseExpr) Else(v any) *CaseExpr {
	n, err := operand("CASE", v)
	c.els = n
	c.err = firstErr(c.err, err)
	return c
}

func (c *CaseExpr) exprNode() (node, error) {
	if c == nil {
		return nil, sqlcraft.NewMalformedExpressionError("CASE", "nil expression")
	}
	if c.err != nil {
		return nil, c.err
	}
	if len(c.whens) == 0 {
		return nil, sqlcraft.NewMalformedExpressionError("CASE", "at least one WHEN arm is required")
	}
	return &caseNode{whens: append([]caseWhen(nil), c.whens...), els: c.els}, nil
}

// operand converts a Go operand into a node. Expressions are embedded as
// sub-expressions, select statements as subqueries and everything else
// goes through ValueOf.
func operand(op string, v any) (node, error) {
	switch v := v.(type) {
	case Exprer:
		return exprNodeOf(op, v)
	case *SelectStatement:
		if v == nil {
			return nil, sqlcraft.NewMalformedExpressionError(op, "nil subquery")
		}
		return &subqueryNode{query: v.Clone()}, v.Err()
	}
	val, err := ValueOf(v)
	if err != nil {
		var me *sqlcraft.MalformedExpressionError
		if errors.As(err, &me) {
			return nil, sqlcraft.NewMalformedExpressionError(op, me.Reason)
		}
		return nil, err
	}
	return &valueNode{value: val}, nil
}

// exprNodeOf resolves e, rejecting nil and empty expressions.
func exprNodeOf(op string, e Exprer) (node, error) {
	if e == nil {
		return nil, sqlcraft.NewMalformedExpressionError(op, "nil expression")
	}
	n, err := e.exprNode()
	if err == nil && n == nil {
		err = sqlcraft.NewMalformedExpressionError(op, "empty expression")
	}
	return n, err
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Node implementations.

type columnNode struct {
	table, name string
}

func (n *columnNode) render(b *Builder) {
	if n.table != "" {
		b.Ident(n.table).WriteString(".")
	}
	b.Ident(n.name)
}

type valueNode struct {
	value Value
}

func (n *valueNode) render(b *Builder) { b.Arg(n.value) }

type rawNode string

func (n rawNode) render(b *Builder) { b.WriteString(string(n)) }

// boolNode is a boolean constant in the dialect's spelling.
type boolNode bool

func (n boolNode) render(b *Builder) { b.Bool(bool(n)) }

type binaryNode struct {
	op          string
	left, right node
}

func (n *binaryNode) render(b *Builder) {
	writeArg(b, n.left)
	b.Pad().WriteString(n.op).Pad()
	writeArg(b, n.right)
}

type logicalNode struct {
	op          string // AND or OR
	left, right node
}

func (n *logicalNode) render(b *Builder) {
	// Left-associative chains of the same operator stay flat; everything
	// else nested inside a logical operator is parenthesized.
	if l, ok := n.left.(*logicalNode); ok && l.op == n.op {
		l.render(b)
	} else {
		writeOperand(b, n.left)
	}
	b.Pad().WriteString(n.op).Pad()
	writeOperand(b, n.right)
}

type notNode struct {
	operand node
}

func (n *notNode) render(b *Builder) {
	b.WriteString("NOT ")
	writeOperand(b, n.operand)
}

type postfixNode struct {
	operand node
	op      string
}

func (n *postfixNode) render(b *Builder) {
	writeArg(b, n.operand)
	b.Pad().WriteString(n.op)
}

type listNode struct {
	left  node
	op    string
	items []node
}

func (n *listNode) render(b *Builder) {
	writeArg(b, n.left)
	b.Pad().WriteString(n.op).Pad()
	b.Wrap(func(b *Builder) {
		for i, item := range n.items {
			if i > 0 {
				b.Comma()
			}
			item.render(b)
		}
	})
}

type betweenNode struct {
	left, lo, hi node
	not          bool
}

func (n *betweenNode) render(b *Builder) {
	writeArg(b, n.left)
	if n.not {
		b.WriteString(" NOT")
	}
	b.WriteString(" BETWEEN ")
	writeArg(b, n.lo)
	b.WriteString(" AND ")
	writeArg(b, n.hi)
}

type funcNode struct {
	name     string
	args     []node
	distinct bool
}

func (n *funcNode) render(b *Builder) {
	b.WriteString(n.name).WriteString("(")
	if n.distinct {
		b.WriteString("DISTINCT ")
	}
	for i, a := range n.args {
		if i > 0 {
			b.Comma()
		}
		a.render(b)
	}
	b.WriteString(")")
}

type existsNode struct {
	query *SelectStatement
}

func (n *existsNode) render(b *Builder) {
	b.WriteString("EXISTS")
	b.Wrap(n.query.Render)
}

type subqueryNode struct {
	query *SelectStatement
}

func (n *subqueryNode) render(b *Builder) {
	b.Wrap(n.query.Render)
}

type caseNode struct {
	whens []caseWhen
	els   node
}

func (n *caseNode) render(b *Builder) {
	b.WriteString("(CASE")
	for _, w := range n.whens {
		b.WriteString(" WHEN ")
		b.Wrap(w.cond.render)
		b.WriteString(" THEN ")
		w.then.render(b)
	}
	if n.els != nil {
		b.WriteString(" ELSE ")
		n.els.render(b)
	}
	b.WriteString(" END)")
}

// compound reports whether n renders as several terms joined by AND/OR
// and therefore needs parentheses when used as an operand.
func compound(n node) bool {
	switch n := n.(type) {
	case *logicalNode:
		return true
	case *condNode:
		return n.cond.compound()
	default:
		return false
	}
}

func writeOperand(b *Builder, n node) {
	if compound(n) {
		b.Wrap(n.render)
		return
	}
	n.render(b)
}

// predicate reports whether n is a boolean-valued operator expression,
// such as a comparison, NOT, IS NULL, IN, BETWEEN or LIKE.
func predicate(n node) bool {
	switch n := n.(type) {
	case *binaryNode, *notNode, *postfixNode, *listNode, *betweenNode, *likeNode:
		return true
	case *condNode:
		if n.cond.negate {
			return len(n.cond.items) > 0
		}
		if len(n.cond.items) == 1 {
			child, _ := condNodeOf(n.cond.items[0])
			return child != nil && predicate(child)
		}
		return false
	default:
		return false
	}
}

// writeArg writes n as the operand of a comparison-level operator.
// Predicates are parenthesized there since the dialects disagree on the
// precedence and associativity of comparison operators.
func writeArg(b *Builder, n node) {
	if compound(n) || predicate(n) {
		b.Wrap(n.render)
		return
	}
	n.render(b)
}
