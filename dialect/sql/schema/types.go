package schema

import (
	"fmt"
	"strconv"

	"github.com/syssam/sqlcraft/dialect"
)

// ColumnType is the portable type of a column. Each dialect maps it to
// its closest native type; types without a native equivalent degrade to
// a compatible one instead of failing.
type ColumnType uint8

// Column types.
const (
	TypeNone ColumnType = iota
	TypeChar
	TypeString
	TypeText
	TypeTinyInteger
	TypeSmallInteger
	TypeInteger
	TypeBigInteger
	TypeTinyUnsigned
	TypeSmallUnsigned
	TypeUnsigned
	TypeBigUnsigned
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeDateTime
	TypeTimestamp
	TypeTimestampTZ
	TypeDate
	TypeTime
	TypeBlob
	TypeBoolean
	TypeJSON
	TypeJSONB
	TypeUUID
)

var typeNames = [...]string{
	TypeNone:          "none",
	TypeChar:          "char",
	TypeString:        "string",
	TypeText:          "text",
	TypeTinyInteger:   "tiny_integer",
	TypeSmallInteger:  "small_integer",
	TypeInteger:       "integer",
	TypeBigInteger:    "big_integer",
	TypeTinyUnsigned:  "tiny_unsigned",
	TypeSmallUnsigned: "small_unsigned",
	TypeUnsigned:      "unsigned",
	TypeBigUnsigned:   "big_unsigned",
	TypeFloat:         "float",
	TypeDouble:        "double",
	TypeDecimal:       "decimal",
	TypeDateTime:      "datetime",
	TypeTimestamp:     "timestamp",
	TypeTimestampTZ:   "timestamp_tz",
	TypeDate:          "date",
	TypeTime:          "time",
	TypeBlob:          "blob",
	TypeBoolean:       "boolean",
	TypeJSON:          "json",
	TypeJSONB:         "jsonb",
	TypeUUID:          "uuid",
}

// String returns the portable name of the type, as accepted by ParseColumnType.
func (t ColumnType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("ColumnType(%d)", uint8(t))
}

// ParseColumnType returns the type with the given portable name.
func ParseColumnType(s string) (ColumnType, error) {
	for i, name := range typeNames {
		if name == s && ColumnType(i) != TypeNone {
			return ColumnType(i), nil
		}
	}
	return TypeNone, fmt.Errorf("schema: unknown column type %q", s)
}

// Integer reports whether t is one of the integer types.
func (t ColumnType) Integer() bool {
	return t >= TypeTinyInteger && t <= TypeBigUnsigned
}

// Unsigned reports whether t is an unsigned integer type.
func (t ColumnType) Unsigned() bool {
	return t >= TypeTinyUnsigned && t <= TypeBigUnsigned
}

// nativeType returns the dialect type name without length arguments.
func nativeType(d string, t ColumnType) string {
	switch d {
	case dialect.MySQL:
		return mysqlTypes[t]
	case dialect.Postgres:
		return postgresTypes[t]
	default:
		return sqliteTypes[t]
	}
}

var postgresTypes = map[ColumnType]string{
	TypeChar:          "char",
	TypeString:        "varchar",
	TypeText:          "text",
	TypeTinyInteger:   "smallint",
	TypeSmallInteger:  "smallint",
	TypeInteger:       "integer",
	TypeBigInteger:    "bigint",
	TypeTinyUnsigned:  "smallint",
	TypeSmallUnsigned: "smallint",
	TypeUnsigned:      "integer",
	TypeBigUnsigned:   "bigint",
	TypeFloat:         "real",
	TypeDouble:        "double precision",
	TypeDecimal:       "decimal",
	TypeDateTime:      "timestamp without time zone",
	TypeTimestamp:     "timestamp",
	TypeTimestampTZ:   "timestamp with time zone",
	TypeDate:          "date",
	TypeTime:          "time",
	TypeBlob:          "bytea",
	TypeBoolean:       "bool",
	TypeJSON:          "json",
	TypeJSONB:         "jsonb",
	TypeUUID:          "uuid",
}

var mysqlTypes = map[ColumnType]string{
	TypeChar:          "char",
	TypeString:        "varchar",
	TypeText:          "text",
	TypeTinyInteger:   "tinyint",
	TypeSmallInteger:  "smallint",
	TypeInteger:       "int",
	TypeBigInteger:    "bigint",
	TypeTinyUnsigned:  "tinyint UNSIGNED",
	TypeSmallUnsigned: "smallint UNSIGNED",
	TypeUnsigned:      "int UNSIGNED",
	TypeBigUnsigned:   "bigint UNSIGNED",
	TypeFloat:         "float",
	TypeDouble:        "double",
	TypeDecimal:       "decimal",
	TypeDateTime:      "datetime",
	TypeTimestamp:     "timestamp",
	TypeTimestampTZ:   "timestamp",
	TypeDate:          "date",
	TypeTime:          "time",
	TypeBlob:          "blob",
	TypeBoolean:       "bool",
	TypeJSON:          "json",
	TypeJSONB:         "json",
	TypeUUID:          "binary(16)",
}

// The *_text names resolve to TEXT affinity in SQLite.
var sqliteTypes = map[ColumnType]string{
	TypeChar:          "char",
	TypeString:        "varchar",
	TypeText:          "text",
	TypeTinyInteger:   "tinyint",
	TypeSmallInteger:  "smallint",
	TypeInteger:       "integer",
	TypeBigInteger:    "bigint",
	TypeTinyUnsigned:  "tinyint",
	TypeSmallUnsigned: "smallint",
	TypeUnsigned:      "integer",
	TypeBigUnsigned:   "bigint",
	TypeFloat:         "float",
	TypeDouble:        "double",
	TypeDecimal:       "real",
	TypeDateTime:      "datetime_text",
	TypeTimestamp:     "timestamp_text",
	TypeTimestampTZ:   "timestamp_with_timezone_text",
	TypeDate:          "date_text",
	TypeTime:          "time_text",
	TypeBlob:          "blob",
	TypeBoolean:       "boolean",
	TypeJSON:          "json_text",
	TypeJSONB:         "jsonb_text",
	TypeUUID:          "uuid_text",
}

// serialType returns the Postgres serial type backing an auto-increment
// integer column.
func serialType(t ColumnType) (string, bool) {
	switch t {
	case TypeTinyInteger, TypeSmallInteger, TypeTinyUnsigned, TypeSmallUnsigned:
		return "smallserial", true
	case TypeInteger, TypeUnsigned:
		return "serial", true
	case TypeBigInteger, TypeBigUnsigned:
		return "bigserial", true
	default:
		return "", false
	}
}

// typeSQL renders the full type of a column for d, including length,
// precision and the MySQL default varchar length.
func typeSQL(d string, c *ColumnDef) string {
	name := nativeType(d, c.typ)
	switch c.typ {
	case TypeChar, TypeString:
		switch {
		case c.length != nil:
			return name + "(" + strconv.FormatUint(uint64(*c.length), 10) + ")"
		case c.typ == TypeString && d == dialect.MySQL:
			return name + "(255)"
		}
	case TypeDecimal:
		if c.precision != nil {
			return fmt.Sprintf("%s(%d, %d)", name, c.precision[0], c.precision[1])
		}
	}
	return name
}
