// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact inspects and loads the tabular output the external
// retrieval engine writes when it builds an index. The engine owns the
// table schemas; graphchat only needs to know which tables exist, that
// they parse as Parquet, and how many rows they hold.
//
// Two completeness notions apply. A build is considered complete when the
// three tables the build step is checked against exist (entities,
// communities, community reports). The query path needs all six. The
// asymmetry comes from the engine's output contract.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// Table names, in the engine's output vocabulary.
const (
	TableEntities         = "entities"
	TableCommunities      = "communities"
	TableCommunityReports = "community_reports"
	TableNodes            = "nodes"
	TableTextUnits        = "text_units"
	TableRelationships    = "relationships"
)

// buildTables are the tables whose presence marks a build as complete.
var buildTables = []string{TableEntities, TableCommunities, TableCommunityReports}

// queryTables are the tables the query path loads, in load order.
var queryTables = []string{
	TableEntities, TableCommunities, TableCommunityReports,
	TableNodes, TableTextUnits, TableRelationships,
}

// Path returns the on-disk location of a table under the engine's
// output directory.
func Path(outputDir, table string) string {
	return filepath.Join(outputDir, "create_final_"+table+".parquet")
}

// BuildComplete reports whether the three build-completeness tables
// exist under outputDir. This mirrors the engine's own skip check; it
// says nothing about whether the index is queryable.
func BuildComplete(outputDir string) bool {
	for _, t := range buildTables {
		if _, err := os.Stat(Path(outputDir, t)); err != nil {
			return false
		}
	}
	return true
}

// QueryComplete reports whether all six tables exist under outputDir.
func QueryComplete(outputDir string) bool {
	for _, t := range queryTables {
		if _, err := os.Stat(Path(outputDir, t)); err != nil {
			return false
		}
	}
	return true
}

// Table is one validated artifact table.
type Table struct {
	Name string
	Path string
	Rows int64
}

// Set is the full artifact set a query needs. Tables are read-only to
// graphchat; the engine consumes them by path.
type Set struct {
	Entities         Table
	Communities      Table
	CommunityReports Table
	Nodes            Table
	TextUnits        Table
	Relationships    Table
}

// Tables returns the set in load order.
func (s *Set) Tables() []Table {
	return []Table{
		s.Entities, s.Communities, s.CommunityReports,
		s.Nodes, s.TextUnits, s.Relationships,
	}
}

// Summary renders a one-line row-count summary, used as the retrieval
// context note attached to answers from CLI-backed engines.
func (s *Set) Summary() string {
	out := ""
	for i, t := range s.Tables() {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", t.Name, t.Rows)
	}
	return out
}

// Error reports a table that could not be loaded.
type Error struct {
	Table string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("loading artifact table %s: %v", e.Table, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load opens and validates all six query tables under outputDir. Any
// absent, unreadable, or malformed table fails the whole load with an
// *Error naming the table.
func Load(outputDir string) (*Set, error) {
	var set Set
	dst := map[string]*Table{
		TableEntities:         &set.Entities,
		TableCommunities:      &set.Communities,
		TableCommunityReports: &set.CommunityReports,
		TableNodes:            &set.Nodes,
		TableTextUnits:        &set.TextUnits,
		TableRelationships:    &set.Relationships,
	}

	for _, name := range queryTables {
		t, err := open(outputDir, name)
		if err != nil {
			return nil, &Error{Table: name, Err: err}
		}
		*dst[name] = t
	}
	return &set, nil
}

func open(outputDir, name string) (Table, error) {
	path := Path(outputDir, name)

	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Table{}, err
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return Table{}, fmt.Errorf("parsing parquet: %w", err)
	}

	return Table{Name: name, Path: path, Rows: pf.NumRows()}, nil
}
