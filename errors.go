package sqlcraft

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the builder error taxonomy.
var (
	// ErrMalformedExpression is returned when an expression is constructed
	// with invalid operands (for example, IN without values).
	ErrMalformedExpression = errors.New("sqlcraft: malformed expression")

	// ErrValueArityMismatch is returned when a row of values does not match
	// the number of declared columns.
	ErrValueArityMismatch = errors.New("sqlcraft: value arity mismatch")

	// ErrUnsupportedFeature is returned when a dialect is asked to render a
	// clause it cannot express.
	ErrUnsupportedFeature = errors.New("sqlcraft: unsupported feature")

	// ErrInvalidState is returned when mutually exclusive builder calls
	// were both invoked on the same statement.
	ErrInvalidState = errors.New("sqlcraft: invalid builder state")
)

// MalformedExpressionError describes an expression that cannot be built.
type MalformedExpressionError struct {
	Op     string // Operator or constructor, e.g. "IN"
	Reason string
}

// Error returns the error string.
func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("sqlcraft: malformed expression %s: %s", e.Op, e.Reason)
}

// Is reports whether the target error matches ErrMalformedExpression.
func (e *MalformedExpressionError) Is(err error) bool {
	return err == ErrMalformedExpression
}

// NewMalformedExpressionError returns a new MalformedExpressionError.
func NewMalformedExpressionError(op, reason string) *MalformedExpressionError {
	return &MalformedExpressionError{Op: op, Reason: reason}
}

// IsMalformedExpression returns true if the error is a MalformedExpressionError.
func IsMalformedExpression(err error) bool {
	if err == nil {
		return false
	}
	var e *MalformedExpressionError
	return errors.As(err, &e) || errors.Is(err, ErrMalformedExpression)
}

// ValueArityMismatchError reports a VALUES row whose length differs from
// the declared column list.
type ValueArityMismatchError struct {
	Table   string
	Row     int // Zero-based row index
	Columns int
	Values  int
}

// Error returns the error string.
func (e *ValueArityMismatchError) Error() string {
	return fmt.Sprintf("sqlcraft: %s: row %d has %d values, expected %d columns", e.Table, e.Row, e.Values, e.Columns)
}

// Is reports whether the target error matches ErrValueArityMismatch.
func (e *ValueArityMismatchError) Is(err error) bool {
	return err == ErrValueArityMismatch
}

// NewValueArityMismatchError returns a new ValueArityMismatchError.
func NewValueArityMismatchError(table string, row, columns, values int) *ValueArityMismatchError {
	return &ValueArityMismatchError{Table: table, Row: row, Columns: columns, Values: values}
}

// IsValueArityMismatch returns true if the error is a ValueArityMismatchError.
func IsValueArityMismatch(err error) bool {
	if err == nil {
		return false
	}
	var e *ValueArityMismatchError
	return errors.As(err, &e) || errors.Is(err, ErrValueArityMismatch)
}

// UnsupportedFeatureError names the dialect and the clause it cannot render.
type UnsupportedFeatureError struct {
	Dialect string
	Clause  string
}

// Error returns the error string.
func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("sqlcraft: %s does not support %s", e.Dialect, e.Clause)
}

// Is reports whether the target error matches ErrUnsupportedFeature.
func (e *UnsupportedFeatureError) Is(err error) bool {
	return err == ErrUnsupportedFeature
}

// NewUnsupportedFeatureError returns a new UnsupportedFeatureError.
func NewUnsupportedFeatureError(dialect, clause string) *UnsupportedFeatureError {
	return &UnsupportedFeatureError{Dialect: dialect, Clause: clause}
}

// IsUnsupportedFeature returns true if the error is an UnsupportedFeatureError.
func IsUnsupportedFeature(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedFeatureError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedFeature)
}

// InvalidStateError reports conflicting calls on one builder.
type InvalidStateError struct {
	Statement string // Statement kind, e.g. "SELECT"
	Reason    string
}

// Error returns the error string.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("sqlcraft: invalid %s state: %s", e.Statement, e.Reason)
}

// Is reports whether the target error matches ErrInvalidState.
func (e *InvalidStateError) Is(err error) bool {
	return err == ErrInvalidState
}

// NewInvalidStateError returns a new InvalidStateError.
func NewInvalidStateError(stmt, reason string) *InvalidStateError {
	return &InvalidStateError{Statement: stmt, Reason: reason}
}

// IsInvalidState returns true if the error is an InvalidStateError.
func IsInvalidState(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidStateError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidState)
}

// AggregateError represents multiple errors collected while building a statement.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "sqlcraft: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("sqlcraft: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors so errors.Is and errors.As
// can match any of them.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
