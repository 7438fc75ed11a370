package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlcraft/dialect/sql"
	"github.com/syssam/sqlcraft/dialect/sql/schema"
)

// SchemaFile is a YAML document describing a set of tables.
//
//	tables:
//	  - entity: User          # table name defaults to "users"
//	    columns:
//	      - {name: id, type: big_integer, primary_key: true, auto_increment: true}
//	      - {name: email, type: string, length: 255, null: false, unique: true}
//	    indexes:
//	      - {name: idx_users_email, columns: [email DESC]}
type SchemaFile struct {
	Tables []TableSpec `yaml:"tables"`
}

// TableSpec describes one table.
type TableSpec struct {
	Name        string           `yaml:"name,omitempty"`
	Entity      string           `yaml:"entity,omitempty"`
	IfNotExists bool             `yaml:"if_not_exists,omitempty"`
	Comment     string           `yaml:"comment,omitempty"`
	Columns     []ColumnSpec     `yaml:"columns"`
	PrimaryKey  []string         `yaml:"primary_key,omitempty"`
	Indexes     []IndexSpec      `yaml:"indexes,omitempty"`
	ForeignKeys []ForeignKeySpec `yaml:"foreign_keys,omitempty"`
	Checks      []string         `yaml:"checks,omitempty"`
}

// ColumnSpec describes one column. Null is tri-state: unset leaves the
// nullability to the database default.
type ColumnSpec struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type,omitempty"`
	Length        uint32 `yaml:"length,omitempty"`
	Precision     uint32 `yaml:"precision,omitempty"`
	Scale         uint32 `yaml:"scale,omitempty"`
	Null          *bool  `yaml:"null,omitempty"`
	Default       any    `yaml:"default,omitempty"`
	DefaultExpr   string `yaml:"default_expr,omitempty"`
	Unique        bool   `yaml:"unique,omitempty"`
	PrimaryKey    bool   `yaml:"primary_key,omitempty"`
	AutoIncrement bool   `yaml:"auto_increment,omitempty"`
	Check         string `yaml:"check,omitempty"`
	Comment       string `yaml:"comment,omitempty"`
}

// IndexSpec describes an index. A column may carry an ASC or DESC suffix.
type IndexSpec struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique,omitempty"`
	Type    string   `yaml:"type,omitempty"`
}

// ForeignKeySpec describes a foreign key. Actions are spelled like
// "cascade" or "set_null".
type ForeignKeySpec struct {
	Name       string   `yaml:"name,omitempty"`
	Columns    []string `yaml:"columns"`
	RefTable   string   `yaml:"ref_table"`
	RefColumns []string `yaml:"ref_columns"`
	OnDelete   string   `yaml:"on_delete,omitempty"`
	OnUpdate   string   `yaml:"on_update,omitempty"`
}

// LoadSchemaFile reads and parses the schema file at path.
func LoadSchemaFile(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSchemaFile(data)
}

// ParseSchemaFile parses a YAML schema document. Unknown keys are rejected.
func ParseSchemaFile(data []byte) (*SchemaFile, error) {
	var f SchemaFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	if len(f.Tables) == 0 {
		return nil, fmt.Errorf("schema defines no tables")
	}
	return &f, nil
}

// TableName returns the table name, derived from the entity name when
// not given explicitly ("UserProfile" becomes "user_profiles").
func (t *TableSpec) TableName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Entity == "" {
		return ""
	}
	return inflect.Underscore(inflect.Pluralize(t.Entity))
}

// BuildTables builds a CREATE TABLE statement per table, with every index
// declared inline.
func (f *SchemaFile) BuildTables() ([]*schema.TableCreateStatement, error) {
	tables := make([]*schema.TableCreateStatement, 0, len(f.Tables))
	for i := range f.Tables {
		t, _, err := f.Tables[i].build(true)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Statement is a renderable DDL statement.
type Statement interface {
	BuildSQL(dialect string) (string, error)
}

// Statements builds the DDL needed to create the schema. Unique indexes
// stay inline; other indexes become CREATE INDEX statements following
// their table, since only MySQL declares them inside CREATE TABLE.
func (f *SchemaFile) Statements() ([]Statement, error) {
	var stmts []Statement
	for i := range f.Tables {
		t, idx, err := f.Tables[i].build(false)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, t)
		for _, x := range idx {
			stmts = append(stmts, x)
		}
	}
	return stmts, nil
}

// Render renders every statement for dialect d, each terminated by ";".
func Render(d string, stmts []Statement) (string, error) {
	var b strings.Builder
	for _, s := range stmts {
		query, err := s.BuildSQL(d)
		if err != nil {
			return "", err
		}
		b.WriteString(query)
		b.WriteString(";\n")
	}
	return b.String(), nil
}

func (t *TableSpec) build(inlineIndexes bool) (*schema.TableCreateStatement, []*schema.IndexCreateStatement, error) {
	name := t.TableName()
	if name == "" {
		return nil, nil, fmt.Errorf("table requires a name or an entity")
	}
	stmt := schema.CreateTable(name)
	if t.IfNotExists {
		stmt.IfNotExists()
	}
	if t.Comment != "" {
		stmt.Comment(t.Comment)
	}
	for i := range t.Columns {
		c, err := t.Columns[i].build()
		if err != nil {
			return nil, nil, fmt.Errorf("table %s: %w", name, err)
		}
		stmt.Column(c)
	}
	if len(t.PrimaryKey) > 0 {
		stmt.PrimaryKey(t.PrimaryKey...)
	}
	var separate []*schema.IndexCreateStatement
	for i := range t.Indexes {
		idx, err := t.Indexes[i].build()
		if err != nil {
			return nil, nil, fmt.Errorf("table %s: %w", name, err)
		}
		if inlineIndexes || t.Indexes[i].Unique {
			stmt.Index(idx)
			continue
		}
		separate = append(separate, idx.Table(name))
	}
	for i := range t.ForeignKeys {
		fk, err := t.ForeignKeys[i].build()
		if err != nil {
			return nil, nil, fmt.Errorf("table %s: %w", name, err)
		}
		stmt.ForeignKey(fk)
	}
	for _, c := range t.Checks {
		stmt.Check(sql.Raw(c))
	}
	if err := stmt.Err(); err != nil {
		return nil, nil, fmt.Errorf("table %s: %w", name, err)
	}
	return stmt, separate, nil
}

func (c *ColumnSpec) build() (*schema.ColumnDef, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("column requires a name")
	}
	col := schema.Column(c.Name)
	if c.Type != "" {
		t, err := schema.ParseColumnType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		switch {
		case c.Length > 0 && t == schema.TypeString:
			col.StringLen(c.Length)
		case c.Length > 0 && t == schema.TypeChar:
			col.CharLen(c.Length)
		case c.Length > 0:
			return nil, fmt.Errorf("column %s: length is not supported for type %s", c.Name, t)
		case c.Precision > 0 && t == schema.TypeDecimal:
			col.DecimalLen(c.Precision, c.Scale)
		case c.Precision > 0:
			return nil, fmt.Errorf("column %s: precision is not supported for type %s", c.Name, t)
		default:
			col.Type(t)
		}
	}
	if c.Null != nil {
		if *c.Null {
			col.Null()
		} else {
			col.NotNull()
		}
	}
	switch {
	case c.Default != nil && c.DefaultExpr != "":
		return nil, fmt.Errorf("column %s: default and default_expr are mutually exclusive", c.Name)
	case c.Default != nil:
		col.Default(c.Default)
	case c.DefaultExpr != "":
		col.Default(sql.Raw(c.DefaultExpr))
	}
	if c.Unique {
		col.Unique()
	}
	if c.PrimaryKey {
		col.PrimaryKey()
	}
	if c.AutoIncrement {
		col.AutoIncrement()
	}
	if c.Check != "" {
		col.Check(sql.Raw(c.Check))
	}
	if c.Comment != "" {
		col.Comment(c.Comment)
	}
	if err := col.Err(); err != nil {
		return nil, fmt.Errorf("column %s: %w", c.Name, err)
	}
	return col, nil
}

func (i *IndexSpec) build() (*schema.IndexCreateStatement, error) {
	if len(i.Columns) == 0 {
		return nil, fmt.Errorf("index %s: no columns", i.Name)
	}
	idx := schema.CreateIndex(i.Name)
	for _, c := range i.Columns {
		fields := strings.Fields(c)
		switch {
		case len(fields) == 1:
			idx.Column(fields[0])
		case len(fields) == 2 && strings.EqualFold(fields[1], "asc"):
			idx.ColumnOrder(fields[0], sql.Asc)
		case len(fields) == 2 && strings.EqualFold(fields[1], "desc"):
			idx.ColumnOrder(fields[0], sql.Desc)
		default:
			return nil, fmt.Errorf("index %s: invalid column %q", i.Name, c)
		}
	}
	if i.Unique {
		idx.Unique()
	}
	if i.Type != "" {
		t, err := schema.ParseIndexType(strings.ToUpper(i.Type))
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", i.Name, err)
		}
		idx.IndexType(t)
	}
	return idx, nil
}

func (fk *ForeignKeySpec) build() (*schema.ForeignKeyCreateStatement, error) {
	stmt := schema.CreateForeignKey(fk.Name).
		FromColumns(fk.Columns...).
		ToTable(fk.RefTable).
		ToColumns(fk.RefColumns...)
	if fk.OnDelete != "" {
		a, err := parseAction(fk.OnDelete)
		if err != nil {
			return nil, err
		}
		stmt.OnDelete(a)
	}
	if fk.OnUpdate != "" {
		a, err := parseAction(fk.OnUpdate)
		if err != nil {
			return nil, err
		}
		stmt.OnUpdate(a)
	}
	return stmt, nil
}

func parseAction(s string) (schema.ForeignKeyAction, error) {
	return schema.ParseForeignKeyAction(strings.ToUpper(strings.ReplaceAll(s, "_", " ")))
}
