package storage

import (
	"fmt"
	"strings"
)

// Column is one column of a destination table.
type Column struct {
	Name    string
	SQLType string // portable subset: TEXT, INTEGER
	NotNull bool
}

// TableDef is a fixed destination table. The schema of this system is
// closed (three data tables plus the audit table), so definitions are
// declared here rather than inferred.
type TableDef struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in declaration order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// CreateSQL renders a CREATE TABLE statement. The TEXT/INTEGER type subset
// and double-quoted identifiers are accepted by all three backends.
func (t TableDef) CreateSQL() string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		col := fmt.Sprintf("%q %s", c.Name, c.SQLType)
		if c.NotNull {
			col += " NOT NULL"
		}
		cols[i] = col
	}
	return fmt.Sprintf("CREATE TABLE %q (%s)", t.Name, strings.Join(cols, ", "))
}

// DropSQL renders the matching DROP TABLE IF EXISTS statement.
func (t TableDef) DropSQL() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %q", t.Name)
}

// The destination tables. Data columns referencing other tables are natural
// keys (film title, reviewer name); no database-level constraints are
// declared, matching the source model.
var (
	// MoviesTable is the movie catalog: one row per distinct title.
	MoviesTable = TableDef{
		Name: "movies",
		Columns: []Column{
			{Name: "film", SQLType: "TEXT", NotNull: true},
		},
	}

	// ReviewersTable has one row per survey row, in survey order.
	ReviewersTable = TableDef{
		Name: "reviewers",
		Columns: []Column{
			{Name: "reviewer_name", SQLType: "TEXT"},
			{Name: "favorite_movie", SQLType: "TEXT"},
		},
	}

	// ReviewsTable holds the long-format rating facts.
	ReviewsTable = TableDef{
		Name: "reviews",
		Columns: []Column{
			{Name: "reviewer_name", SQLType: "TEXT"},
			{Name: "film", SQLType: "TEXT", NotNull: true},
			{Name: "rating", SQLType: "TEXT", NotNull: true},
			{Name: "num_rating", SQLType: "INTEGER"},
		},
	}

	// LoadAuditTable records one row describing the run that produced the
	// current store contents.
	LoadAuditTable = TableDef{
		Name: "load_audit",
		Columns: []Column{
			{Name: "job", SQLType: "TEXT", NotNull: true},
			{Name: "source_path", SQLType: "TEXT", NotNull: true},
			{Name: "source_hash", SQLType: "TEXT", NotNull: true},
			{Name: "rows_read", SQLType: "INTEGER", NotNull: true},
			{Name: "rows_skipped", SQLType: "INTEGER", NotNull: true},
			{Name: "movies", SQLType: "INTEGER", NotNull: true},
			{Name: "reviewers", SQLType: "INTEGER", NotNull: true},
			{Name: "reviews", SQLType: "INTEGER", NotNull: true},
			{Name: "loaded_at", SQLType: "TEXT", NotNull: true},
		},
	}
)
