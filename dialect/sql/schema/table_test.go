package schema

import (
	"testing"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTable(t *testing.T) {
	assertDDL(t, CreateTable("users"), `CREATE TABLE "users" (  )`)
	assertDDL(t, CreateTable("users").IfNotExists(), `CREATE TABLE IF NOT EXISTS "users" (  )`)

	users := CreateTable("users").
		Column(Column("id").BigInteger().PrimaryKey().AutoIncrement()).
		Column(Column("name").String().StringLen(128).NotNull().Default("")).
		Column(Column("age").Integer().Null())
	assertPerDialect(t, users, map[string]string{
		dialect.Postgres: `CREATE TABLE "users" ( "id" bigserial PRIMARY KEY, "name" varchar(128) NOT NULL DEFAULT '', "age" integer NULL )`,
		dialect.SQLite:   `CREATE TABLE "users" ( "id" integer PRIMARY KEY AUTOINCREMENT, "name" varchar(128) NOT NULL DEFAULT '', "age" integer NULL )`,
		dialect.MySQL:    "CREATE TABLE `users` ( `id` bigint PRIMARY KEY AUTO_INCREMENT, `name` varchar(128) NOT NULL DEFAULT '', `age` int NULL )",
	})
}

func TestCreateTableCheck(t *testing.T) {
	stmt := CreateTable("users").
		Column(Column("id").BigInteger().PrimaryKey().AutoIncrement()).
		Column(Column("positive_int").Integer().Null()).
		Check(sql.Column("positive_int").Gte(0))
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `CREATE TABLE "users" ( "id" bigserial PRIMARY KEY, "positive_int" integer NULL, CHECK ("positive_int" >= 0) )`,
		dialect.SQLite:   `CREATE TABLE "users" ( "id" integer PRIMARY KEY AUTOINCREMENT, "positive_int" integer NULL, CHECK ("positive_int" >= 0) )`,
		dialect.MySQL:    "CREATE TABLE `users` ( `id` bigint PRIMARY KEY AUTO_INCREMENT, `positive_int` int NULL, CHECK (`positive_int` >= 0) )",
	})

	stmt = CreateTable("t").Check(sql.Column("a").IsIn())
	assert.True(t, sqlcraft.IsMalformedExpression(stmt.Err()))
}

func TestCreateTableIndex(t *testing.T) {
	stmt := CreateTable("users").
		Column(Column("id").BigInteger().PrimaryKey().AutoIncrement()).
		Column(Column("email").StringLen(64)).
		Index(CreateIndex("").Column("email"))
	got, err := stmt.BuildSQL(dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE `users` ( `id` bigint PRIMARY KEY AUTO_INCREMENT, `email` varchar(64), KEY (`email`) )", got)
	for _, d := range []string{dialect.Postgres, dialect.SQLite} {
		_, err := stmt.BuildSQL(d)
		assert.True(t, sqlcraft.IsUnsupportedFeature(err), d)
	}

	stmt = CreateTable("users").
		Column(Column("email").StringLen(64)).
		Index(CreateIndex("uniq_email").Column("email").Unique())
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `CREATE TABLE "users" ( "email" varchar(64), CONSTRAINT "uniq_email" UNIQUE ("email") )`,
		dialect.SQLite:   `CREATE TABLE "users" ( "email" varchar(64), CONSTRAINT "uniq_email" UNIQUE ("email") )`,
		dialect.MySQL:    "CREATE TABLE `users` ( `email` varchar(64), UNIQUE KEY `uniq_email` (`email`) )",
	})

	stmt = CreateTable("posts").
		Column(Column("body").Text()).
		Index(CreateIndex("ft_body").Column("body").FullText())
	got, err = stmt.BuildSQL(dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE `posts` ( `body` text, FULLTEXT KEY `ft_body` (`body`) )", got)
}

func TestCreateTablePrimaryKey(t *testing.T) {
	stmt := CreateTable("users").
		Column(Column("id").BigInteger().AutoIncrement()).
		Column(Column("email").StringLen(64)).
		PrimaryKey("id", "email")
	got, err := stmt.BuildSQL(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "users" ( "id" bigserial, "email" varchar(64), PRIMARY KEY ("id", "email") )`, got)
	got, err = stmt.BuildSQL(dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE `users` ( `id` bigint AUTO_INCREMENT, `email` varchar(64), PRIMARY KEY (`id`, `email`) )", got)
	_, err = stmt.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))

	stmt = CreateTable("tags").
		Column(Column("post_id").BigInteger()).
		Column(Column("tag").Text()).
		PrimaryKey("post_id", "tag")
	assertDDL(t, stmt, `CREATE TABLE "tags" ( "post_id" bigint, "tag" text, PRIMARY KEY ("post_id", "tag") )`)
}

func TestCreateTableForeignKey(t *testing.T) {
	stmt := CreateTable("profiles").
		Column(Column("id").BigInteger().AutoIncrement().PrimaryKey()).
		Column(Column("user_id").BigInteger()).
		ForeignKey(CreateForeignKey("fk_profile_user_id").
			FromTable("profiles").FromColumns("user_id").
			ToTable("users").ToColumns("id"))
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `CREATE TABLE "profiles" ( "id" bigserial PRIMARY KEY, "user_id" bigint, CONSTRAINT "fk_profile_user_id" FOREIGN KEY ("user_id") REFERENCES "users" ("id") )`,
		dialect.SQLite:   `CREATE TABLE "profiles" ( "id" integer PRIMARY KEY AUTOINCREMENT, "user_id" bigint, FOREIGN KEY ("user_id") REFERENCES "users" ("id") )`,
		dialect.MySQL:    "CREATE TABLE `profiles` ( `id` bigint AUTO_INCREMENT PRIMARY KEY, `user_id` bigint, CONSTRAINT `fk_profile_user_id` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) )",
	})
}

func TestCreateTableComment(t *testing.T) {
	stmt := CreateTable("users").
		Column(Column("id").BigInteger().Comment("row id")).
		Comment("all users")
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `CREATE TABLE "users" ( "id" bigint ); COMMENT ON TABLE "users" IS 'all users'; COMMENT ON COLUMN "users"."id" IS 'row id'`,
		dialect.MySQL:    "CREATE TABLE `users` ( `id` bigint COMMENT 'row id' ) COMMENT 'all users'",
	})
	_, err := stmt.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))
}

func TestCreateTableErrors(t *testing.T) {
	_, err := CreateTable("").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))

	_, err = CreateTable("t").
		ForeignKey(CreateForeignKey("fk").FromColumns("a", "b").ToTable("u").ToColumns("id")).
		BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))

	_, err = CreateTable("t").BuildSQL("oracle")
	require.Error(t, err)
}

func TestCreateTableCloneAndInfo(t *testing.T) {
	orig := CreateTable("users").
		Column(Column("id").BigInteger().PrimaryKey()).
		Index(CreateIndex("idx_name").Column("name")).
		ForeignKey(CreateForeignKey("fk_org").FromColumns("org_id").ToTable("orgs").ToColumns("id")).
		Comment("people")
	c := orig.Clone()
	c.Column(Column("name").Text())
	c.columns[0].NotNull()

	info := orig.Info()
	require.Len(t, info.Columns, 1)
	assert.Equal(t, "people", info.Comment)
	require.Len(t, info.Indexes, 1)
	assert.Equal(t, "users", info.Indexes[0].Table)
	require.Len(t, info.ForeignKeys, 1)
	assert.Equal(t, "users", info.ForeignKeys[0].FromTable)

	got, err := orig.BuildSQL(dialect.MySQL)
	require.NoError(t, err)
	assert.NotContains(t, got, "NOT NULL")
	assert.Len(t, c.Info().Columns, 2)
}

func TestAlterTable(t *testing.T) {
	assertDDL(t,
		AlterTable("users").AddColumn(Column("email").String().StringLen(128)),
		`ALTER TABLE "users" ADD COLUMN "email" varchar(128)`,
	)
	assertDDL(t,
		AlterTable("table").RenameColumn("old_name", "new_name"),
		`ALTER TABLE "table" RENAME COLUMN "old_name" TO "new_name"`,
	)
	assertDDL(t,
		AlterTable("table").DropColumn("column"),
		`ALTER TABLE "table" DROP COLUMN "column"`,
	)

	multi := AlterTable("users").
		AddColumn(Column("email").StringLen(128)).
		AddColumn(Column("phone").StringLen(16))
	assertPerDialect(t, multi, map[string]string{
		dialect.Postgres: `ALTER TABLE "users" ADD COLUMN "email" varchar(128), ADD COLUMN "phone" varchar(16)`,
		dialect.MySQL:    "ALTER TABLE `users` ADD COLUMN `email` varchar(128), ADD COLUMN `phone` varchar(16)",
	})
	_, err := multi.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))
}

func TestAlterTableAddColumnIfNotExists(t *testing.T) {
	stmt := AlterTable("users").AddColumnIfNotExists(Column("email").StringLen(128))
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `ALTER TABLE "users" ADD COLUMN IF NOT EXISTS "email" varchar(128)`,
		dialect.MySQL:    "ALTER TABLE `users` ADD COLUMN IF NOT EXISTS `email` varchar(128)",
	})
	_, err := stmt.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))
}

func TestAlterTableModifyColumn(t *testing.T) {
	stmt := AlterTable("table").ModifyColumn(Column("created_at").Date())
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `ALTER TABLE "table" ALTER COLUMN "created_at" TYPE date`,
		dialect.MySQL:    "ALTER TABLE `table` MODIFY COLUMN `created_at` date",
	})
	_, err := stmt.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))

	stmt = AlterTable("users").ModifyColumn(Column("name").StringLen(64).NotNull().Default("x").Comment("display name"))
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `ALTER TABLE "users" ALTER COLUMN "name" TYPE varchar(64), ALTER COLUMN "name" SET NOT NULL, ALTER COLUMN "name" SET DEFAULT 'x'; COMMENT ON COLUMN "users"."name" IS 'display name'`,
		dialect.MySQL:    "ALTER TABLE `users` MODIFY COLUMN `name` varchar(64) NOT NULL DEFAULT 'x' COMMENT 'display name'",
	})

	got, err := AlterTable("users").ModifyColumn(Column("name").Null()).BuildSQL(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "users" ALTER COLUMN "name" DROP NOT NULL`, got)

	_, err = AlterTable("users").ModifyColumn(Column("name").Text().Unique()).BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))
	_, err = AlterTable("users").ModifyColumn(Column("name")).BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))
}

func TestAlterTableForeignKey(t *testing.T) {
	stmt := AlterTable("users").AddForeignKey(
		CreateForeignKey("fk_users_id").
			FromTable("users").FromColumns("id").
			ToTable("profiles").ToColumns("user_id").
			OnDelete(Cascade),
	)
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `ALTER TABLE "users" ADD CONSTRAINT "fk_users_id" FOREIGN KEY ("id") REFERENCES "profiles" ("user_id") ON DELETE CASCADE`,
		dialect.MySQL:    "ALTER TABLE `users` ADD CONSTRAINT `fk_users_id` FOREIGN KEY (`id`) REFERENCES `profiles` (`user_id`) ON DELETE CASCADE",
	})
	_, err := stmt.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))

	drop := AlterTable("users").DropForeignKey("fk_users_id")
	assertPerDialect(t, drop, map[string]string{
		dialect.Postgres: `ALTER TABLE "users" DROP CONSTRAINT "fk_users_id"`,
		dialect.MySQL:    "ALTER TABLE `users` DROP FOREIGN KEY `fk_users_id`",
	})
	_, err = drop.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))
}

func TestAlterTableErrors(t *testing.T) {
	_, err := AlterTable("users").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))
	_, err = AlterTable("").DropColumn("a").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))

	orig := AlterTable("users").AddColumn(Column("a").Integer())
	c := orig.Clone().DropColumn("b")
	got, err := orig.BuildSQL(dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "a" integer`, got)
	got, err = c.BuildSQL(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "a" integer, DROP COLUMN "b"`, got)
}

func TestDropTable(t *testing.T) {
	assertDDL(t, DropTable("table"), `DROP TABLE "table"`)
	assertDDL(t, DropTable("table1").Table("table2"), `DROP TABLE "table1", "table2"`)
	assertDDL(t, DropTable("table").IfExists(), `DROP TABLE IF EXISTS "table"`)

	assertPerDialect(t, DropTable("table").Restrict(), map[string]string{
		dialect.Postgres: `DROP TABLE "table" RESTRICT`,
		dialect.SQLite:   `DROP TABLE "table"`,
		dialect.MySQL:    "DROP TABLE `table` RESTRICT",
	})

	cascade := DropTable("table").Cascade()
	assertPerDialect(t, cascade, map[string]string{
		dialect.Postgres: `DROP TABLE "table" CASCADE`,
		dialect.MySQL:    "DROP TABLE `table` CASCADE",
	})
	_, err := cascade.BuildSQL(dialect.SQLite)
	assert.True(t, sqlcraft.IsUnsupportedFeature(err))

	_, err = DropTable().BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))
}

func TestRenameTable(t *testing.T) {
	assertDDL(t,
		RenameTable("old_table", "new_table"),
		`ALTER TABLE "old_table" RENAME TO "new_table"`,
		"RENAME TABLE `old_table` TO `new_table`",
	)
	_, err := RenameTable("a", "").BuildSQL(dialect.Postgres)
	assert.True(t, sqlcraft.IsInvalidState(err))
}

func TestTruncateTable(t *testing.T) {
	stmt := TruncateTable("table")
	assertPerDialect(t, stmt, map[string]string{
		dialect.Postgres: `TRUNCATE TABLE "table"`,
		dialect.MySQL:    "TRUNCATE TABLE `table`",
	})
	_, err := stmt.BuildSQL(dialect.SQLite)
	require.Error(t, err)
	var uerr *sqlcraft.UnsupportedFeatureError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, dialect.SQLite, uerr.Dialect)
}
