package cli

import (
	"fmt"
	"io"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/sqlcraft/dialect/sql/schema"
)

// GenerateConfig holds code generation settings.
type GenerateConfig struct {
	Package string
	// Source is recorded in the generated header, e.g. the schema file path.
	Source string
}

// GenerateGo writes a Go file declaring the table and column names of
// tables as constants:
//
//	const (
//		UsersTable = "users"
//		UsersID    = "id"
//	)
//
//	var UsersColumns = []string{UsersID}
func GenerateGo(w io.Writer, tables []*schema.TableCreateStatement, cfg *GenerateConfig) error {
	if cfg == nil || cfg.Package == "" {
		return fmt.Errorf("package name is required")
	}
	f := jen.NewFile(cfg.Package)
	if cfg.Source != "" {
		f.HeaderComment(fmt.Sprintf("Code generated by sqlcraft from %s. DO NOT EDIT.", cfg.Source))
	} else {
		f.HeaderComment("Code generated by sqlcraft. DO NOT EDIT.")
	}

	seen := make(map[string]string)
	for _, t := range tables {
		info := t.Info()
		prefix := identifier(info.Name)
		tableID := prefix + "Table"
		if prev, ok := seen[tableID]; ok {
			return fmt.Errorf("tables %q and %q map to the same identifier %s", prev, info.Name, tableID)
		}
		seen[tableID] = info.Name

		cols := make([]jen.Code, 0, len(info.Columns))
		f.Commentf("%s holds the name of the %q table and its columns.", tableID, info.Name)
		f.Const().DefsFunc(func(g *jen.Group) {
			g.Id(tableID).Op("=").Lit(info.Name)
			for _, c := range info.Columns {
				id := prefix + identifier(c.Name)
				g.Id(id).Op("=").Lit(c.Name)
				cols = append(cols, jen.Id(id))
			}
		})
		f.Commentf("%sColumns lists the columns of the %q table in declaration order.", prefix, info.Name)
		f.Var().Id(prefix + "Columns").Op("=").Index().String().Values(cols...)
	}
	return f.Render(w)
}

// identifier returns the exported Go name for a SQL name, keeping
// common initialisms upper-case ("user_id" becomes "UserID").
func identifier(name string) string {
	id := inflect.Camelize(name)
	for _, s := range []struct{ from, to string }{{"Id", "ID"}, {"Uuid", "UUID"}, {"Url", "URL"}, {"Json", "JSON"}} {
		if len(id) >= len(s.from) && id[len(id)-len(s.from):] == s.from {
			id = id[:len(id)-len(s.from)] + s.to
		}
	}
	return id
}
