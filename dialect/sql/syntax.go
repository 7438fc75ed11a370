package sql

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
)

// syntax holds the lexical rules of one dialect.
type syntax interface {
	quote(ident string) string
	literal(v Value) string
	placeholder(n int) string
	boolean(v bool) string
}

func syntaxFor(d string) (syntax, error) {
	switch d {
	case dialect.MySQL:
		return mysqlSyntax{}, nil
	case dialect.Postgres:
		return postgresSyntax{}, nil
	case dialect.SQLite:
		return sqliteSyntax{}, nil
	default:
		return nil, sqlcraft.NewUnsupportedFeatureError(d, "SQL rendering (unknown dialect)")
	}
}

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05.999999"
	dateTimeLayout = "2006-01-02 15:04:05.999999"
	timestampTZ    = "2006-01-02 15:04:05.999999 -07:00"
)

// literal renders the parts of a value literal that are common to all
// dialects. quoteString and bytes supply the dialect-specific escaping.
func literal(v Value, quoteString func(string) string, bytes func([]byte) string, boolean func(bool) string) string {
	if v.IsNull() {
		return "NULL"
	}
	switch x := v.v.(type) {
	case bool:
		return boolean(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return quoteString(x)
	case []byte:
		return bytes(x)
	case time.Time:
		switch v.kind {
		case KindDate:
			return quoteString(x.Format(dateLayout))
		case KindTime:
			return quoteString(x.Format(timeLayout))
		case KindTimestampTZ:
			return quoteString(x.Format(timestampTZ))
		default:
			return quoteString(x.Format(dateTimeLayout))
		}
	case uuid.UUID:
		return quoteString(x.String())
	case decimal.Decimal:
		return x.String()
	default:
		// Values are only built through the constructors above.
		return "NULL"
	}
}

func hexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
