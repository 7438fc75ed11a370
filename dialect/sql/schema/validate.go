package schema

import (
	"fmt"
	"strings"
)

// ValidationError is a problem found in a table definition or between
// two versions of it.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking marks changes that lose data or reject existing rows.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range append(r.Errors[:len(r.Errors):len(r.Errors)], r.Warnings...) {
		if e.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, es []*ValidationError) {
		if len(es) == 0 {
			return
		}
		sb.WriteString(title + ":\n")
		for _, e := range es {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) merge(o *ValidationResult) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// report adds err as an error, or as a warning when allowed is set.
func (r *ValidationResult) report(err *ValidationError, allowed bool) {
	if allowed {
		r.Warnings = append(r.Warnings, err)
	} else {
		r.Errors = append(r.Errors, err)
	}
}

func (r *ValidationResult) warn(table, column, format string, args ...any) {
	r.Warnings = append(r.Warnings, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) fail(table, column, format string, args ...any) {
	r.Errors = append(r.Errors, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...)})
}

// ValidateOption configures schema validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowDropIndex     bool
	allowNullToNotNull bool
}

// AllowDropColumn reports dropped columns as warnings.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// AllowDropTable reports dropped tables as warnings.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropTable = true
	}
}

// AllowDropIndex reports dropped indexes as warnings.
func AllowDropIndex() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropIndex = true
	}
}

// AllowNullToNotNull reports NULL to NOT NULL changes as warnings.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) {
		c.allowNullToNotNull = true
	}
}

// ValidateDiff compares the current and desired table definitions. It
// returns errors for breaking changes and warnings for changes that may
// fail on existing data. Results follow the order of the inputs.
//
//	result := schema.ValidateDiff(current, desired, schema.AllowDropIndex())
//	if result.HasBreakingChanges() {
//		return fmt.Errorf("breaking changes:\n%s", result)
//	}
func ValidateDiff(current, desired []*TableCreateStatement, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	cur, want := infos(current), infos(desired)
	wantByName := make(map[string]TableInfo, len(want))
	for _, t := range want {
		wantByName[t.Name] = t
	}
	curByName := make(map[string]TableInfo, len(cur))
	for _, t := range cur {
		curByName[t.Name] = t
		if _, ok := wantByName[t.Name]; !ok {
			result.report(&ValidationError{Table: t.Name, Message: "table will be dropped", Breaking: true}, cfg.allowDropTable)
		}
	}
	for _, t := range want {
		if c, ok := curByName[t.Name]; ok {
			validateTableDiff(c, t, cfg, result)
		}
	}
	return result
}

func validateTableDiff(current, desired TableInfo, cfg *validateConfig, result *ValidationResult) {
	desiredCols := make(map[string]bool, len(desired.Columns))
	for _, c := range desired.Columns {
		desiredCols[c.Name] = true
	}
	currentCols := make(map[string]ColumnInfo, len(current.Columns))
	for _, c := range current.Columns {
		currentCols[c.Name] = c
		if !desiredCols[c.Name] {
			result.report(&ValidationError{
				Table:    current.Name,
				Column:   c.Name,
				Message:  "column will be dropped",
				Breaking: true,
			}, cfg.allowDropColumn)
		}
	}
	for _, want := range desired.Columns {
		have, ok := currentCols[want.Name]
		if !ok {
			if !want.Nullable && want.Default == nil && !want.AutoIncrement {
				result.warn(current.Name, want.Name, "new NOT NULL column without default value may fail if table has data")
			}
			continue
		}
		if have.Type != want.Type {
			result.warn(current.Name, want.Name, "column type changing from %s to %s", have.Type, want.Type)
		}
		if have.Nullable && !want.Nullable {
			result.report(&ValidationError{
				Table:    current.Name,
				Column:   want.Name,
				Message:  "column changing from NULL to NOT NULL may fail if column has NULL values",
				Breaking: true,
			}, cfg.allowNullToNotNull)
		}
		if have.Length > 0 && want.Length > 0 && want.Length < have.Length {
			result.warn(current.Name, want.Name, "column size reducing from %d to %d may truncate data", have.Length, want.Length)
		}
		if want.Precision > 0 && (want.Precision < have.Precision || want.Scale < have.Scale) {
			result.warn(current.Name, want.Name, "decimal precision reducing from (%d, %d) to (%d, %d) may round data",
				have.Precision, have.Scale, want.Precision, want.Scale)
		}
		if !have.Unique && want.Unique {
			result.warn(current.Name, want.Name, "adding UNIQUE constraint may fail if duplicate values exist")
		}
	}
	desiredIdx := make(map[string]IndexInfo, len(desired.Indexes))
	for _, idx := range desired.Indexes {
		desiredIdx[idx.Name] = idx
	}
	for _, idx := range current.Indexes {
		if idx.Name == "" {
			continue
		}
		want, ok := desiredIdx[idx.Name]
		switch {
		case !ok:
			result.report(&ValidationError{
				Table:   current.Name,
				Message: fmt.Sprintf("index %q will be dropped", idx.Name),
			}, cfg.allowDropIndex)
		case !idx.Unique && want.Unique:
			result.warn(current.Name, "", "index %q becoming UNIQUE may fail if duplicate values exist", idx.Name)
		}
	}
}

// ValidateTable validates a single table definition.
func ValidateTable(t *TableCreateStatement) *ValidationResult {
	return validateTable(t.Info())
}

func validateTable(t TableInfo) *ValidationResult {
	result := &ValidationResult{}
	cols := make(map[string]bool, len(t.Columns))
	var pk []string
	for _, c := range t.Columns {
		if cols[c.Name] {
			result.fail(t.Name, c.Name, "duplicate column name")
		}
		cols[c.Name] = true
		if c.Type == TypeNone {
			result.warn(t.Name, c.Name, "column has no type")
		}
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	switch {
	case len(pk) > 0 && len(t.PrimaryKey) > 0:
		result.fail(t.Name, "", "primary key declared on both columns and table")
	case len(pk) > 1:
		result.fail(t.Name, "", "multiple columns declared PRIMARY KEY, use a table primary key")
	case len(pk) == 0 && len(t.PrimaryKey) == 0:
		result.warn(t.Name, "", "table has no primary key")
	}
	for _, name := range t.PrimaryKey {
		if !cols[name] {
			result.fail(t.Name, "", "primary key references non-existent column %q", name)
		}
	}
	idxNames := make(map[string]bool)
	for _, idx := range t.Indexes {
		if idx.Name != "" {
			if idxNames[idx.Name] {
				result.fail(t.Name, "", "duplicate index name: %s", idx.Name)
			}
			idxNames[idx.Name] = true
		}
		if len(idx.Columns) == 0 {
			result.fail(t.Name, "", "index %q has no columns", idx.Name)
		}
		for _, c := range idx.Columns {
			if !cols[c.Name] {
				result.fail(t.Name, "", "index %q references non-existent column %q", idx.Name, c.Name)
			}
		}
	}
	for _, fk := range t.ForeignKeys {
		if len(fk.FromColumns) != len(fk.ToColumns) {
			result.fail(t.Name, "", "foreign key %q has %d columns but references %d", fk.Name, len(fk.FromColumns), len(fk.ToColumns))
		}
		for _, c := range fk.FromColumns {
			if !cols[c] {
				result.fail(t.Name, "", "foreign key references non-existent column %q", c)
			}
		}
	}
	return result
}

// ValidateSchema validates all tables and the foreign keys between them.
func ValidateSchema(tables []*TableCreateStatement) *ValidationResult {
	result := &ValidationResult{}
	ts := infos(tables)
	byName := make(map[string]TableInfo, len(ts))
	for _, t := range ts {
		if _, ok := byName[t.Name]; ok {
			result.fail(t.Name, "", "duplicate table name")
		}
		byName[t.Name] = t
		result.merge(validateTable(t))
	}
	for _, t := range ts {
		for _, fk := range t.ForeignKeys {
			ref, ok := byName[fk.ToTable]
			if !ok {
				result.fail(t.Name, "", "foreign key references non-existent table %q", fk.ToTable)
				continue
			}
			for _, c := range fk.ToColumns {
				if !hasColumn(ref, c) {
					result.fail(t.Name, "", "foreign key references non-existent column %q in table %q", c, fk.ToTable)
				}
			}
		}
	}
	return result
}

func infos(ts []*TableCreateStatement) []TableInfo {
	out := make([]TableInfo, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Info())
	}
	return out
}

func hasColumn(t TableInfo, name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}
