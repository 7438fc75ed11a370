package schema

import (
	"testing"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateForeignKey(t *testing.T) {
	tests := []struct {
		name            string
		fk              *ForeignKeyCreateStatement
		postgres, mysql string
	}{
		{
			name: "plain",
			fk: CreateForeignKey("fk_name").
				FromTable("from_table").FromColumns("from_col").
				ToTable("to_table").ToColumns("to_col"),
			postgres: `ALTER TABLE "from_table" ADD CONSTRAINT "fk_name" FOREIGN KEY ("from_col") REFERENCES "to_table" ("to_col")`,
			mysql:    "ALTER TABLE `from_table` ADD CONSTRAINT `fk_name` FOREIGN KEY (`from_col`) REFERENCES `to_table` (`to_col`)",
		},
		{
			name: "on delete",
			fk: CreateForeignKey("fk_name").
				FromTable("orders").FromColumns("customer_id").
				ToTable("customers").ToColumns("id").
				OnDelete(Cascade),
			postgres: `ALTER TABLE "orders" ADD CONSTRAINT "fk_name" FOREIGN KEY ("customer_id") REFERENCES "customers" ("id") ON DELETE CASCADE`,
			mysql:    "ALTER TABLE `orders` ADD CONSTRAINT `fk_name` FOREIGN KEY (`customer_id`) REFERENCES `customers` (`id`) ON DELETE CASCADE",
		},
		{
			name: "on update",
			fk: CreateForeignKey("fk_name").
				FromTable("orders").FromColumns("customer_id").
				ToTable("customers").ToColumns("id").
				OnUpdate(Cascade),
			postgres: `ALTER TABLE "orders" ADD CONSTRAINT "fk_name" FOREIGN KEY ("customer_id") REFERENCES "customers" ("id") ON UPDATE CASCADE`,
			mysql:    "ALTER TABLE `orders` ADD CONSTRAINT `fk_name` FOREIGN KEY (`customer_id`) REFERENCES `customers` (`id`) ON UPDATE CASCADE",
		},
		{
			name: "on delete and update",
			fk: CreateForeignKey("fk_name").
				FromTable("orders").FromColumns("customer_id").
				ToTable("customers").ToColumns("id").
				OnDelete(Cascade).
				OnUpdate(Cascade),
			postgres: `ALTER TABLE "orders" ADD CONSTRAINT "fk_name" FOREIGN KEY ("customer_id") REFERENCES "customers" ("id") ON DELETE CASCADE ON UPDATE CASCADE`,
			mysql:    "ALTER TABLE `orders` ADD CONSTRAINT `fk_name` FOREIGN KEY (`customer_id`) REFERENCES `customers` (`id`) ON DELETE CASCADE ON UPDATE CASCADE",
		},
		{
			name: "composite",
			fk: CreateForeignKey("fk_line").
				FromTable("lines").FromColumns("order_id", "order_rev").
				ToTable("orders").ToColumns("id", "rev").
				OnDelete(SetNull).OnUpdate(NoAction),
			postgres: `ALTER TABLE "lines" ADD CONSTRAINT "fk_line" FOREIGN KEY ("order_id", "order_rev") REFERENCES "orders" ("id", "rev") ON DELETE SET NULL ON UPDATE NO ACTION`,
			mysql:    "ALTER TABLE `lines` ADD CONSTRAINT `fk_line` FOREIGN KEY (`order_id`, `order_rev`) REFERENCES `orders` (`id`, `rev`) ON DELETE SET NULL ON UPDATE NO ACTION",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPerDialect(t, tt.fk, map[string]string{
				dialect.Postgres: tt.postgres,
				dialect.MySQL:    tt.mysql,
			})
			_, err := tt.fk.BuildSQL(dialect.SQLite)
			assert.True(t, sqlcraft.IsUnsupportedFeature(err))
		})
	}
}

func TestCreateForeignKeyErrors(t *testing.T) {
	fk := CreateForeignKey("fk").FromTable("a").FromColumns("b_id").ToTable("b").ToColumns("id").OnDelete(ForeignKeyAction(42))
	assert.True(t, sqlcraft.IsMalformedExpression(fk.Err()))

	_, err := CreateForeignKey("fk").FromColumns("b_id").ToTable("b").ToColumns("id").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err), "missing from table")
	_, err = CreateForeignKey("fk").FromTable("a").FromColumns("b_id").ToColumns("id").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err), "missing to table")
	_, err = CreateForeignKey("fk").FromTable("a").ToTable("b").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err), "missing columns")
}

func TestDropForeignKey(t *testing.T) {
	fk := DropForeignKey("fk_name").Table("table")
	assertPerDialect(t, fk, map[string]string{
		dialect.Postgres: `ALTER TABLE "table" DROP CONSTRAINT "fk_name"`,
		dialect.MySQL:    "ALTER TABLE `table` DROP FOREIGN KEY `fk_name`",
	})
	_, err := fk.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))
	_, err = DropForeignKey("fk_name").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))
}

func TestForeignKeyAction(t *testing.T) {
	for _, a := range []ForeignKeyAction{Cascade, SetNull, Restrict, SetDefault, NoAction} {
		got, err := ParseForeignKeyAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseForeignKeyAction("DELETE")
	require.Error(t, err)
	assert.Equal(t, "ForeignKeyAction(9)", ForeignKeyAction(9).String())
}
