package sql

import (
	"fmt"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
)

// Order is the sort direction of an ORDER BY term.
type Order uint8

// Sort directions.
const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	switch o {
	case Asc:
		return "ASC"
	case Desc:
		return "DESC"
	default:
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
}

func (o Order) valid() bool { return o <= Desc }

// NullsOrder places NULLs before or after other values.
type NullsOrder uint8

// NULL placements.
const (
	NullsFirst NullsOrder = iota
	NullsLast
)

func (n NullsOrder) String() string {
	switch n {
	case NullsFirst:
		return "NULLS FIRST"
	case NullsLast:
		return "NULLS LAST"
	default:
		return fmt.Sprintf("NullsOrder(%d)", uint8(n))
	}
}

func (n NullsOrder) valid() bool { return n <= NullsLast }

// UnionType is a set operation combining two SELECT statements.
type UnionType uint8

// Set operations.
const (
	UnionIntersect UnionType = iota
	UnionDistinct
	UnionExcept
	UnionAll
)

func (u UnionType) String() string {
	switch u {
	case UnionIntersect:
		return "INTERSECT"
	case UnionDistinct:
		return "UNION"
	case UnionExcept:
		return "EXCEPT"
	case UnionAll:
		return "UNION ALL"
	default:
		return fmt.Sprintf("UnionType(%d)", uint8(u))
	}
}

func (u UnionType) valid() bool { return u <= UnionAll }

// LockType is the strength of a row lock.
type LockType uint8

// Row lock strengths.
const (
	LockUpdate LockType = iota
	LockNoKeyUpdate
	LockShare
	LockKeyShare
)

func (l LockType) String() string {
	switch l {
	case LockUpdate:
		return "FOR UPDATE"
	case LockNoKeyUpdate:
		return "FOR NO KEY UPDATE"
	case LockShare:
		return "FOR SHARE"
	case LockKeyShare:
		return "FOR KEY SHARE"
	default:
		return fmt.Sprintf("LockType(%d)", uint8(l))
	}
}

func (l LockType) feature() dialect.Feature {
	switch l {
	case LockNoKeyUpdate:
		return dialect.LockNoKeyUpdate
	case LockShare:
		return dialect.LockShare
	case LockKeyShare:
		return dialect.LockKeyShare
	default:
		return dialect.LockUpdate
	}
}

func (l LockType) valid() bool { return l <= LockKeyShare }

// LockBehavior controls waiting on locked rows.
type LockBehavior uint8

// Lock waiting behaviors.
const (
	LockNowait LockBehavior = iota
	LockSkipLocked
)

func (l LockBehavior) String() string {
	switch l {
	case LockNowait:
		return "NOWAIT"
	case LockSkipLocked:
		return "SKIP LOCKED"
	default:
		return fmt.Sprintf("LockBehavior(%d)", uint8(l))
	}
}

func (l LockBehavior) feature() dialect.Feature {
	if l == LockSkipLocked {
		return dialect.LockSkipLocked
	}
	return dialect.LockNowait
}

func (l LockBehavior) valid() bool { return l <= LockSkipLocked }

func invalidEnum(op string, v fmt.Stringer) error {
	return sqlcraft.NewMalformedExpressionError(op, fmt.Sprintf("invalid value %s", v))
}
