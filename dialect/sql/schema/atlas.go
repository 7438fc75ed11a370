package schema

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
)

// ToAtlas converts a table definition into its atlas representation for
// dialect d. Referenced tables of foreign keys are stubs holding only the
// referenced columns; use ToAtlasSchema to link tables to each other.
func ToAtlas(d string, t *TableCreateStatement) (*atlas.Table, error) {
	if !dialect.Valid(d) {
		return nil, sqlcraft.NewUnsupportedFeatureError(d, "atlas conversion")
	}
	if err := t.Err(); err != nil {
		return nil, err
	}
	return toAtlas(d, t.Info(), nil)
}

// ToAtlasSchema converts the tables into an atlas schema named name.
// Foreign keys between the given tables point to the converted tables.
func ToAtlasSchema(d, name string, tables ...*TableCreateStatement) (*atlas.Schema, error) {
	if !dialect.Valid(d) {
		return nil, sqlcraft.NewUnsupportedFeatureError(d, "atlas conversion")
	}
	s := atlas.New(name)
	byName := make(map[string]*atlas.Table, len(tables))
	for _, t := range tables {
		if err := t.Err(); err != nil {
			return nil, err
		}
		at, err := toAtlas(d, t.Info(), nil)
		if err != nil {
			return nil, err
		}
		byName[at.Name] = at
		s.AddTables(at)
	}
	for _, t := range tables {
		at, err := toAtlas(d, t.Info(), byName)
		if err != nil {
			return nil, err
		}
		byName[at.Name].ForeignKeys = at.ForeignKeys
		for _, fk := range at.ForeignKeys {
			fk.Table = byName[at.Name]
			fk.Columns = lookupColumns(byName[at.Name], fk.Columns)
		}
	}
	return s, nil
}

func toAtlas(d string, info TableInfo, tables map[string]*atlas.Table) (*atlas.Table, error) {
	t := &atlas.Table{Name: info.Name}
	var pk []*atlas.Column
	for _, ci := range info.Columns {
		c, err := atlasColumn(d, info.Name, ci)
		if err != nil {
			return nil, err
		}
		t.Columns = append(t.Columns, c)
		if ci.PrimaryKey {
			pk = append(pk, c)
		}
		if ci.Unique {
			t.Indexes = append(t.Indexes, &atlas.Index{
				Name:   fmt.Sprintf("%s_%s_key", info.Name, ci.Name),
				Unique: true,
				Table:  t,
				Parts:  []*atlas.IndexPart{{SeqNo: 0, C: c}},
			})
		}
		if ci.Check != nil {
			expr, err := sql.Render(d, ci.Check)
			if err != nil {
				return nil, err
			}
			t.Attrs = append(t.Attrs, &atlas.Check{Expr: expr})
		}
	}
	for _, name := range info.PrimaryKey {
		c, ok := t.Column(name)
		if !ok {
			return nil, sqlcraft.NewInvalidStateError("CREATE TABLE", fmt.Sprintf("primary key column %q not found in table %q", name, info.Name))
		}
		pk = append(pk, c)
	}
	if len(pk) > 0 {
		t.PrimaryKey = &atlas.Index{Unique: true, Table: t}
		for i, c := range pk {
			t.PrimaryKey.Parts = append(t.PrimaryKey.Parts, &atlas.IndexPart{SeqNo: i, C: c})
		}
	}
	for _, ii := range info.Indexes {
		idx := &atlas.Index{Name: ii.Name, Unique: ii.Unique || ii.Primary, Table: t}
		for i, ic := range ii.Columns {
			c, ok := t.Column(ic.Name)
			if !ok {
				return nil, sqlcraft.NewInvalidStateError("CREATE INDEX", fmt.Sprintf("index column %q not found in table %q", ic.Name, info.Name))
			}
			idx.Parts = append(idx.Parts, &atlas.IndexPart{SeqNo: i, C: c, Desc: ic.Order != nil && *ic.Order == sql.Desc})
		}
		if ii.Type != nil {
			idx.Attrs = append(idx.Attrs, atlasIndexType(d, *ii.Type)...)
		}
		if ii.Primary {
			t.PrimaryKey = idx
			continue
		}
		t.Indexes = append(t.Indexes, idx)
	}
	for _, fi := range info.ForeignKeys {
		fk, err := atlasForeignKey(t, fi, tables)
		if err != nil {
			return nil, err
		}
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	if info.Comment != "" {
		t.Attrs = append(t.Attrs, &atlas.Comment{Text: info.Comment})
	}
	return t, nil
}

func atlasColumn(d, table string, ci ColumnInfo) (*atlas.Column, error) {
	if ci.Type == TypeNone {
		return nil, sqlcraft.NewInvalidStateError("CREATE TABLE", fmt.Sprintf("column %q of table %q has no type", ci.Name, table))
	}
	c := &atlas.Column{
		Name: ci.Name,
		Type: &atlas.ColumnType{Type: atlasType(d, ci), Null: ci.Nullable},
	}
	if ci.AutoIncrement {
		switch d {
		case dialect.Postgres:
			s, ok := serialType(ci.Type)
			if !ok {
				return nil, sqlcraft.NewUnsupportedFeatureError(d, fmt.Sprintf("auto-increment %s column", ci.Type))
			}
			c.Type.Type = &postgres.SerialType{T: s}
		case dialect.MySQL:
			c.Attrs = append(c.Attrs, &mysql.AutoIncrement{})
		case dialect.SQLite:
			c.Type.Type = &atlas.IntegerType{T: "integer"}
			c.Attrs = append(c.Attrs, &sqlite.AutoIncrement{})
		}
	}
	if ci.Default != nil {
		x, err := sql.Render(d, ci.Default)
		if err != nil {
			return nil, err
		}
		c.Default = &atlas.RawExpr{X: x}
	}
	if ci.Comment != "" {
		c.Attrs = append(c.Attrs, &atlas.Comment{Text: ci.Comment})
	}
	return c, nil
}

func atlasType(d string, ci ColumnInfo) atlas.Type {
	native := nativeType(d, ci.Type)
	switch {
	case ci.Type == TypeChar || ci.Type == TypeString:
		size := int(ci.Length)
		if size == 0 && ci.Type == TypeString && d == dialect.MySQL {
			size = 255
		}
		return &atlas.StringType{T: native, Size: size}
	case ci.Type == TypeText:
		return &atlas.StringType{T: native}
	case ci.Type.Integer():
		return &atlas.IntegerType{
			T:        strings.TrimSuffix(native, " UNSIGNED"),
			Unsigned: ci.Type.Unsigned() && d == dialect.MySQL,
		}
	case ci.Type == TypeFloat || ci.Type == TypeDouble:
		return &atlas.FloatType{T: native}
	case ci.Type == TypeDecimal && d == dialect.SQLite:
		return &atlas.FloatType{T: native}
	case ci.Type == TypeDecimal:
		return &atlas.DecimalType{T: native, Precision: int(ci.Precision), Scale: int(ci.Scale)}
	case ci.Type >= TypeDateTime && ci.Type <= TypeTime:
		return &atlas.TimeType{T: native}
	case ci.Type == TypeBlob:
		return &atlas.BinaryType{T: native}
	case ci.Type == TypeBoolean:
		return &atlas.BoolType{T: native}
	case ci.Type == TypeJSON || ci.Type == TypeJSONB:
		return &atlas.JSONType{T: native}
	case ci.Type == TypeUUID && d == dialect.MySQL:
		size := 16
		return &atlas.BinaryType{T: "binary", Size: &size}
	case ci.Type == TypeUUID:
		return &atlas.UUIDType{T: native}
	default:
		return &atlas.UnsupportedType{T: native}
	}
}

func atlasIndexType(d string, t IndexType) []atlas.Attr {
	switch d {
	case dialect.Postgres:
		if t == FullText {
			return []atlas.Attr{&postgres.IndexType{T: "GIN"}}
		}
		return []atlas.Attr{&postgres.IndexType{T: t.String()}}
	case dialect.MySQL:
		return []atlas.Attr{&mysql.IndexType{T: t.String()}}
	default:
		return nil
	}
}

var referenceOptions = map[ForeignKeyAction]atlas.ReferenceOption{
	Cascade:    atlas.Cascade,
	SetNull:    atlas.SetNull,
	Restrict:   atlas.Restrict,
	SetDefault: atlas.SetDefault,
	NoAction:   atlas.NoAction,
}

func atlasForeignKey(t *atlas.Table, fi ForeignKeyInfo, tables map[string]*atlas.Table) (*atlas.ForeignKey, error) {
	fk := &atlas.ForeignKey{Symbol: fi.Name, Table: t}
	for _, name := range fi.FromColumns {
		c, ok := t.Column(name)
		if !ok {
			return nil, sqlcraft.NewInvalidStateError("CREATE TABLE", fmt.Sprintf("foreign key column %q not found in table %q", name, t.Name))
		}
		fk.Columns = append(fk.Columns, c)
	}
	ref, ok := tables[fi.ToTable]
	switch {
	case ok:
	case fi.ToTable == t.Name:
		ref = t
	default:
		ref = &atlas.Table{Name: fi.ToTable}
		for _, name := range fi.ToColumns {
			ref.Columns = append(ref.Columns, &atlas.Column{Name: name})
		}
	}
	fk.RefTable = ref
	for _, name := range fi.ToColumns {
		c, ok := ref.Column(name)
		if !ok {
			return nil, sqlcraft.NewInvalidStateError("CREATE TABLE", fmt.Sprintf("referenced column %q not found in table %q", name, ref.Name))
		}
		fk.RefColumns = append(fk.RefColumns, c)
	}
	if fi.OnDelete != nil {
		fk.OnDelete = referenceOptions[*fi.OnDelete]
	}
	if fi.OnUpdate != nil {
		fk.OnUpdate = referenceOptions[*fi.OnUpdate]
	}
	return fk, nil
}

func lookupColumns(t *atlas.Table, cs []*atlas.Column) []*atlas.Column {
	out := make([]*atlas.Column, 0, len(cs))
	for _, c := range cs {
		if tc, ok := t.Column(c.Name); ok {
			c = tc
		}
		out = append(out, c)
	}
	return out
}

// Diff returns the atlas changes turning the table from into to, using
// the offline differ of dialect d.
func Diff(d string, from, to *TableCreateStatement) ([]atlas.Change, error) {
	differ, _, err := atlasDriver(d)
	if err != nil {
		return nil, err
	}
	cur, err := ToAtlas(d, from)
	if err != nil {
		return nil, err
	}
	want, err := ToAtlas(d, to)
	if err != nil {
		return nil, err
	}
	return differ.TableDiff(cur, want)
}

// DiffSchema returns the changes that turn the current tables into the
// desired ones, including added and dropped tables.
func DiffSchema(d string, current, desired []*TableCreateStatement) ([]atlas.Change, error) {
	differ, _, err := atlasDriver(d)
	if err != nil {
		return nil, err
	}
	from, err := ToAtlasSchema(d, "", current...)
	if err != nil {
		return nil, err
	}
	to, err := ToAtlasSchema(d, "", desired...)
	if err != nil {
		return nil, err
	}
	return differ.SchemaDiff(from, to)
}

// Plan turns changes into migration statements for dialect d, without a
// database connection.
func Plan(ctx context.Context, d, name string, changes []atlas.Change) (*migrate.Plan, error) {
	_, planner, err := atlasDriver(d)
	if err != nil {
		return nil, err
	}
	return planner.PlanChanges(ctx, name, changes)
}

func atlasDriver(d string) (atlas.Differ, migrate.PlanApplier, error) {
	switch d {
	case dialect.MySQL:
		return mysql.DefaultDiff, mysql.DefaultPlan, nil
	case dialect.Postgres:
		return postgres.DefaultDiff, postgres.DefaultPlan, nil
	case dialect.SQLite:
		return sqlite.DefaultDiff, sqlite.DefaultPlan, nil
	default:
		return nil, nil, sqlcraft.NewUnsupportedFeatureError(d, "atlas diff")
	}
}
