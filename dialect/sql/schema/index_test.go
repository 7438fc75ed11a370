package schema

import (
	"testing"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIndex(t *testing.T) {
	tests := []struct {
		name string
		idx  *IndexCreateStatement
		want string
	}{
		{
			name: "single column",
			idx:  CreateIndex("index_name").Table("table").Column("col1"),
			want: `CREATE INDEX "index_name" ON "table" ("col1")`,
		},
		{
			name: "multiple columns",
			idx:  CreateIndex("index_name").Table("table").Column("col1").Column("col2"),
			want: `CREATE INDEX "index_name" ON "table" ("col1", "col2")`,
		},
		{
			name: "order",
			idx:  CreateIndex("index_name").Table("table").ColumnOrder("col1", sql.Asc),
			want: `CREATE INDEX "index_name" ON "table" ("col1" ASC)`,
		},
		{
			name: "orders",
			idx:  CreateIndex("index_name").Table("table").ColumnOrder("col1", sql.Asc).ColumnOrder("col2", sql.Desc),
			want: `CREATE INDEX "index_name" ON "table" ("col1" ASC, "col2" DESC)`,
		},
		{
			name: "unique",
			idx:  CreateIndex("index_name").Table("table").Column("col1").Unique(),
			want: `CREATE UNIQUE INDEX "index_name" ON "table" ("col1")`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDDL(t, tt.idx, tt.want)
		})
	}
}

func TestCreateIndexIfNotExists(t *testing.T) {
	idx := CreateIndex("index_name").Table("table").Column("col1").IfNotExists()
	for _, d := range []string{dialect.Postgres, dialect.SQLite} {
		got, err := idx.BuildSQL(d)
		require.NoError(t, err)
		assert.Equal(t, `CREATE INDEX IF NOT EXISTS "index_name" ON "table" ("col1")`, got)
	}
	_, err := idx.BuildSQL(dialect.MySQL)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))
}

func TestCreatePrimaryIndex(t *testing.T) {
	idx := CreateIndex("index_name").Table("table").Column("col1").Column("col2").Primary()
	assertPerDialect(t, idx, map[string]string{
		dialect.Postgres: `ALTER TABLE "table" ADD CONSTRAINT "index_name" PRIMARY KEY ("col1", "col2")`,
		dialect.MySQL:    "ALTER TABLE `table` ADD CONSTRAINT `index_name` PRIMARY KEY (`col1`, `col2`)",
	})
	_, err := idx.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))
}

func TestCreateIndexType(t *testing.T) {
	tests := []struct {
		typ             IndexType
		postgres, mysql string
	}{
		{
			typ:      BTree,
			postgres: `CREATE INDEX "index_name" ON "table" USING BTREE ("col1")`,
			mysql:    "CREATE INDEX `index_name` ON `table` (`col1`) USING BTREE",
		},
		{
			typ:      FullText,
			postgres: `CREATE INDEX "index_name" ON "table" USING GIN ("col1")`,
			mysql:    "CREATE FULLTEXT INDEX `index_name` ON `table` (`col1`)",
		},
		{
			typ:      Hash,
			postgres: `CREATE INDEX "index_name" ON "table" USING HASH ("col1")`,
			mysql:    "CREATE INDEX `index_name` ON `table` (`col1`) USING HASH",
		},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			idx := CreateIndex("index_name").Table("table").Column("col1").IndexType(tt.typ)
			assertPerDialect(t, idx, map[string]string{
				dialect.Postgres: tt.postgres,
				dialect.MySQL:    tt.mysql,
			})
			_, err := idx.BuildSQL(dialect.SQLite)
			assert.True(t, sqlcraft.IsUnsupportedFeature(err))
		})
	}
}

func TestCreateIndexNullsNotDistinct(t *testing.T) {
	idx := CreateIndex("index_name").Table("table").Column("col1").NullsNotDistinct()
	got, err := idx.BuildSQL(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `CREATE INDEX "index_name" ON "table" ("col1") NULLS NOT DISTINCT`, got)
	for _, d := range []string{dialect.MySQL, dialect.SQLite} {
		_, err := idx.BuildSQL(d)
		assert.True(t, sqlcraft.IsUnsupportedFeature(err), d)
	}
}

func TestCreateIndexErrors(t *testing.T) {
	_, err := CreateIndex("i").Column("a").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err), "missing table")
	_, err = CreateIndex("i").Table("t").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err), "missing columns")
	_, err = CreateIndex("").Table("t").Column("a").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err), "missing name")

	idx := CreateIndex("i").Table("t").ColumnOrder("a", sql.Order(9))
	assert.True(t, sqlcraft.IsMalformedExpression(idx.Err()))
	idx = CreateIndex("i").Table("t").Column("a").IndexType(IndexType(7))
	assert.True(t, sqlcraft.IsMalformedExpression(idx.Err()))
	_, err = idx.BuildSQL(dialect.MySQL)
	assert.True(t, sqlcraft.IsMalformedExpression(err))
}

func TestIndexInfoAndClone(t *testing.T) {
	idx := CreateIndex("idx").Table("t").ColumnOrder("a", sql.Desc).Unique().IndexType(Hash)
	c := idx.Clone().Column("b")
	info := idx.Info()
	require.Len(t, info.Columns, 1)
	assert.Equal(t, "a", info.Columns[0].Name)
	require.NotNil(t, info.Columns[0].Order)
	assert.Equal(t, sql.Desc, *info.Columns[0].Order)
	assert.True(t, info.Unique)
	require.NotNil(t, info.Type)
	assert.Equal(t, Hash, *info.Type)
	assert.Len(t, c.Info().Columns, 2)

	typ, err := ParseIndexType("FULLTEXT")
	require.NoError(t, err)
	assert.Equal(t, FullText, typ)
	_, err = ParseIndexType("GIST")
	require.Error(t, err)
}

func TestDropIndex(t *testing.T) {
	assertDDL(t,
		DropIndex("index_name").Table("table"),
		`DROP INDEX "index_name"`,
		"DROP INDEX `index_name` ON `table`",
	)

	idx := DropIndex("index_name").Table("table").IfExists()
	for _, d := range []string{dialect.Postgres, dialect.SQLite} {
		got, err := idx.BuildSQL(d)
		require.NoError(t, err)
		assert.Equal(t, `DROP INDEX IF EXISTS "index_name"`, got)
	}
	_, err := idx.BuildSQL(dialect.MySQL)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))

	_, err = DropIndex("index_name").BuildSQL(dialect.MySQL)
	assert.True(t, sqlcraft.IsInvalidState(err), "mysql needs the table")
	_, err = DropIndex("").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))
}
