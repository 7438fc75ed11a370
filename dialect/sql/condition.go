package sql

import "github.com/syssam/sqlcraft"

// CondItem is a child of a Condition: a nested Condition or a SimpleExpr.
type CondItem interface {
	condItem()
}

// Condition is an AND (All) or OR (Any) combinator over an ordered list
// of children. Conditions are values: Add and Not return a new Condition
// and leave the receiver unchanged.
//
// An empty All renders as the dialect's TRUE and an empty Any as FALSE.
type Condition struct {
	any    bool
	negate bool
	items  []CondItem
}

// All returns a conjunction of the given children.
func All(items ...CondItem) Condition {
	return Condition{items: append([]CondItem(nil), items...)}
}

// Any returns a disjunction of the given children.
func Any(items ...CondItem) Condition {
	return Condition{any: true, items: append([]CondItem(nil), items...)}
}

// Add returns a copy of c with item appended.
func (c Condition) Add(item CondItem) Condition {
	items := make([]CondItem, len(c.items), len(c.items)+1)
	copy(items, c.items)
	c.items = append(items, item)
	return c
}

// Not returns c with the negation of the whole subtree toggled.
func (c Condition) Not() Condition {
	c.negate = !c.negate
	return c
}

// Len returns the number of direct children.
func (c Condition) Len() int { return len(c.items) }

// IsAny reports whether c is a disjunction.
func (c Condition) IsAny() bool { return c.any }

// Err returns the first construction error found in the subtree.
func (c Condition) Err() error {
	for _, item := range c.items {
		if err := condItemErr(item); err != nil {
			return err
		}
	}
	return nil
}

// Render writes the condition into b.
func (c Condition) Render(b *Builder) {
	if err := c.Err(); err != nil {
		b.AddError(err)
		return
	}
	(&condNode{cond: c}).render(b)
}

func (Condition) condItem() {}

func (c Condition) exprNode() (node, error) {
	return &condNode{cond: c}, c.Err()
}

func (c Condition) op() string {
	if c.any {
		return "OR"
	}
	return "AND"
}

// compound reports whether the rendered condition is a bare list of
// terms joined by AND/OR.
func (c Condition) compound() bool {
	switch {
	case c.negate:
		return false
	case len(c.items) > 1:
		return true
	case len(c.items) == 1:
		n, _ := condNodeOf(c.items[0])
		return compound(n)
	default:
		return false
	}
}

// and appends item, flattening non-negated conjunctions. It backs the
// AND-merge of AndWhere and CondWhere.
func (c Condition) and(item CondItem) Condition {
	if nested, ok := item.(Condition); ok && !nested.any && !nested.negate {
		c.items = append(c.items[:len(c.items):len(c.items)], nested.items...)
		return c
	}
	return c.Add(item)
}

func condItemErr(item CondItem) error {
	switch item := item.(type) {
	case SimpleExpr:
		return item.Err()
	case Condition:
		return item.Err()
	case nil:
		return sqlcraft.NewMalformedExpressionError("condition", "nil child")
	default:
		return nil
	}
}

func condNodeOf(item CondItem) (node, error) {
	switch item := item.(type) {
	case SimpleExpr:
		return item.exprNode()
	case Condition:
		return item.exprNode()
	default:
		return nil, sqlcraft.NewMalformedExpressionError("condition", "nil child")
	}
}

// condNode renders a Condition in expression position.
type condNode struct {
	cond Condition
}

func (n *condNode) render(b *Builder) {
	c := n.cond
	if len(c.items) == 0 {
		// Empty AND is true and empty OR is false.
		b.Bool(c.any == c.negate)
		return
	}
	if c.negate {
		b.WriteString("NOT ")
		if len(c.items) > 1 {
			b.Wrap(n.renderItems)
			return
		}
		child, _ := condNodeOf(c.items[0])
		writeOperand(b, child)
		return
	}
	n.renderItems(b)
}

func (n *condNode) renderItems(b *Builder) {
	c := n.cond
	for i, item := range c.items {
		if i > 0 {
			b.Pad().WriteString(c.op()).Pad()
		}
		child, _ := condNodeOf(item)
		if len(c.items) == 1 {
			child.render(b)
			continue
		}
		switch child := child.(type) {
		case *logicalNode:
			// A chain of the same operator is associative.
			if child.op == c.op() {
				child.render(b)
			} else {
				b.Wrap(child.render)
			}
		default:
			writeOperand(b, child)
		}
	}
}
