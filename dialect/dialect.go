package dialect

import (
	"fmt"
	"slices"
	"strings"
)

// Dialect names for the supported database engines.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Names returns the supported dialect names in a stable order.
func Names() []string {
	return []string{MySQL, Postgres, SQLite}
}

// Valid reports whether name is a supported dialect.
func Valid(name string) bool {
	return slices.Contains(Names(), name)
}

// Parse normalizes a dialect name, accepting common aliases such as
// "postgresql", "pgx", "sqlite3" or "mariadb".
func Parse(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case MySQL, "mariadb":
		return MySQL, nil
	case Postgres, "postgresql", "pg", "pgx":
		return Postgres, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("dialect: unknown dialect %q", name)
	}
}

// Feature is an optional SQL capability whose availability differs per dialect.
type Feature uint

// Optional features checked by the renderers.
const (
	Returning Feature = iota + 1
	LockUpdate
	LockNoKeyUpdate
	LockShare
	LockKeyShare
	LockOf
	LockNowait
	LockSkipLocked
	FullOuterJoin
	CrossJoinOn
	UpdateLimit
	DeleteLimit
	AlterMultiple
	AlterModifyColumn
	AlterForeignKey
	AlterPrimaryKey
	AddColumnIfNotExists
	TruncateTable
	DropCascade
	IndexIfNotExists
	IndexType
	IndexNullsNotDistinct
	DropIndexIfExists
	InlineIndex
	ColumnComment
)

var featureNames = map[Feature]string{
	Returning:             "RETURNING",
	LockUpdate:            "FOR UPDATE",
	LockNoKeyUpdate:       "FOR NO KEY UPDATE",
	LockShare:             "FOR SHARE",
	LockKeyShare:          "FOR KEY SHARE",
	LockOf:                "FOR ... OF",
	LockNowait:            "NOWAIT",
	LockSkipLocked:        "SKIP LOCKED",
	FullOuterJoin:         "FULL OUTER JOIN",
	CrossJoinOn:           "CROSS JOIN ... ON",
	UpdateLimit:           "UPDATE ... LIMIT",
	DeleteLimit:           "DELETE ... LIMIT",
	AlterMultiple:         "ALTER TABLE with multiple actions",
	AlterModifyColumn:     "ALTER TABLE ... MODIFY COLUMN",
	AlterForeignKey:       "ALTER TABLE foreign key changes",
	AlterPrimaryKey:       "ALTER TABLE ... ADD PRIMARY KEY",
	AddColumnIfNotExists:  "ADD COLUMN IF NOT EXISTS",
	TruncateTable:         "TRUNCATE TABLE",
	DropCascade:           "DROP TABLE ... CASCADE",
	IndexIfNotExists:      "CREATE INDEX IF NOT EXISTS",
	IndexType:             "index type",
	IndexNullsNotDistinct: "NULLS NOT DISTINCT",
	DropIndexIfExists:     "DROP INDEX IF EXISTS",
	InlineIndex:           "inline index in CREATE TABLE",
	ColumnComment:         "column and table comments",
}

// String returns the SQL clause the feature stands for.
func (f Feature) String() string {
	if s, ok := featureNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Feature(%d)", uint(f))
}

// unsupported lists, per dialect, the features it cannot express.
// Everything not listed is supported.
var unsupported = map[string][]Feature{
	MySQL: {
		Returning,
		LockNoKeyUpdate,
		LockKeyShare,
		FullOuterJoin,
		IndexIfNotExists,
		IndexNullsNotDistinct,
		DropIndexIfExists,
	},
	Postgres: {
		CrossJoinOn,
		UpdateLimit,
		DeleteLimit,
		InlineIndex,
	},
	SQLite: {
		LockUpdate,
		LockNoKeyUpdate,
		LockShare,
		LockKeyShare,
		LockOf,
		LockNowait,
		LockSkipLocked,
		AlterMultiple,
		AlterModifyColumn,
		AlterForeignKey,
		AlterPrimaryKey,
		AddColumnIfNotExists,
		TruncateTable,
		DropCascade,
		IndexType,
		IndexNullsNotDistinct,
		InlineIndex,
		ColumnComment,
	},
}

// Supports reports whether the dialect can render the feature.
// Unknown dialects support nothing.
func Supports(d string, f Feature) bool {
	fs, ok := unsupported[d]
	if !ok {
		return false
	}
	return !slices.Contains(fs, f)
}
