package sql

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syssam/sqlcraft"
)

// Kind classifies a Value.
type Kind uint8

// Value kinds. A null Value still carries the kind it stands in for;
// KindInvalid marks an untyped NULL.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindDate
	KindTime
	KindDateTime
	KindTimestampTZ
	KindUUID
	KindDecimal
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float",
	KindString:      "string",
	KindBytes:       "bytes",
	KindDate:        "date",
	KindTime:        "time",
	KindDateTime:    "datetime",
	KindTimestampTZ: "timestamptz",
	KindUUID:        "uuid",
	KindDecimal:     "decimal",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is an immutable typed literal used as an expression leaf.
type Value struct {
	kind Kind
	null bool
	v    any
}

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, v: v} }

// Int returns a 64-bit integer value.
func Int(v int64) Value { return Value{kind: KindInt, v: v} }

// Float returns a 64-bit floating point value.
func Float(v float64) Value { return Value{kind: KindFloat, v: v} }

// String returns a text value.
func String(v string) Value { return Value{kind: KindString, v: v} }

// Bytes returns a binary value. The slice is copied.
func Bytes(v []byte) Value {
	if v == nil {
		return Null(KindBytes)
	}
	return Value{kind: KindBytes, v: append([]byte(nil), v...)}
}

// Date returns a calendar date value.
func Date(t time.Time) Value { return Value{kind: KindDate, v: t} }

// TimeOfDay returns a time-of-day value.
func TimeOfDay(t time.Time) Value { return Value{kind: KindTime, v: t} }

// DateTime returns a date and time value without time zone.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, v: t} }

// TimestampTZ returns a timestamp value with time zone.
func TimestampTZ(t time.Time) Value { return Value{kind: KindTimestampTZ, v: t} }

// UUID returns a UUID value.
func UUID(u uuid.UUID) Value { return Value{kind: KindUUID, v: u} }

// Decimal returns an arbitrary-precision decimal value.
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, v: d} }

// Null returns a NULL of the given kind.
func Null(k Kind) Value { return Value{kind: k, null: true} }

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.null || v.kind == KindInvalid }

// Interface returns the value as a database/sql driver argument.
func (v Value) Interface() any {
	if v.IsNull() {
		return nil
	}
	return v.v
}

// String implements fmt.Stringer for debugging.
func (v Value) String() string {
	if v.IsNull() {
		return "NULL"
	}
	return fmt.Sprintf("%v", v.v)
}

func (v Value) validate() error {
	if f, ok := v.v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return sqlcraft.NewMalformedExpressionError("value", fmt.Sprintf("non-finite float %v", f))
	}
	return nil
}

// ValueOf converts a Go value into a Value. Supported inputs are Value,
// nil, booleans, integers, floats, strings, []byte, time.Time, uuid.UUID,
// decimal.Decimal, pointers to those and driver.Valuer implementations.
func ValueOf(x any) (Value, error) {
	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null(kindOf(rv.Type().Elem())), nil
		}
		return ValueOf(rv.Elem().Interface())
	}
	var v Value
	switch x := x.(type) {
	case Value:
		v = x
	case nil:
		v = Null(KindInvalid)
	case bool:
		v = Bool(x)
	case int:
		v = Int(int64(x))
	case int8:
		v = Int(int64(x))
	case int16:
		v = Int(int64(x))
	case int32:
		v = Int(int64(x))
	case int64:
		v = Int(x)
	case uint:
		return uintValue(uint64(x))
	case uint8:
		v = Int(int64(x))
	case uint16:
		v = Int(int64(x))
	case uint32:
		v = Int(int64(x))
	case uint64:
		return uintValue(x)
	case float32:
		v = Float(float64(x))
	case float64:
		v = Float(x)
	case string:
		v = String(x)
	case []byte:
		v = Bytes(x)
	case time.Time:
		v = DateTime(x)
	case uuid.UUID:
		v = UUID(x)
	case decimal.Decimal:
		v = Decimal(x)
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return Value{}, sqlcraft.NewMalformedExpressionError("value", err.Error())
		}
		return ValueOf(dv)
	default:
		return Value{}, sqlcraft.NewMalformedExpressionError("value", fmt.Sprintf("unsupported type %T", x))
	}
	if err := v.validate(); err != nil {
		return Value{}, err
	}
	return v, nil
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, sqlcraft.NewMalformedExpressionError("value", fmt.Sprintf("unsigned value %d overflows int64", u))
	}
	return Int(int64(u)), nil
}

// kindOf maps the element type of a nil pointer to a Value kind.
func kindOf(t reflect.Type) Kind {
	switch t {
	case reflect.TypeOf(time.Time{}):
		return KindDateTime
	case reflect.TypeOf(uuid.UUID{}):
		return KindUUID
	case reflect.TypeOf(decimal.Decimal{}):
		return KindDecimal
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
	}
	return KindInvalid
}
