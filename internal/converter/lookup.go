// =============================================================================
// Excel Translation Tool - Translation Table
// =============================================================================
//
// The translation table maps one source value to a set of target fields.
//
// TABLE LAYOUT:
//   | Schluessel | Country | Region  |   <- column 1 header is ignored
//   | DE         | Germany | Europe  |
//   | US         | USA     |         |   <- empty target: field not set
//   |            | lost    |         |   <- empty key: row skipped
//
// POLICY:
//   - An empty key skips the row.
//   - A key that fails the key rule is reported but still used.
//   - A repeated key replaces the earlier entry completely.
//   - A row with no target values still creates an (empty) entry.
//   - Target values run through the same column rules as source values.
//   - Target headers with the reserved prefix are ignored.
//   - A repeated target header uses only its rightmost column.
//
// =============================================================================

package converter

import (
	"fmt"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
	"github.com/ginjaninja78/excel-translation-tool/internal/validation"
)

// =============================================================================
// TRANSLATION MAP
// =============================================================================

// Entry holds the target fields for one source value.
type Entry struct {
	// Key is the source value.
	Key string

	// Row is the lookup table row that defined the entry.
	Row int

	// Targets maps target field name to replacement value, in table column
	// order. Empty target cells are not stored.
	Targets *types.Row
}

// TranslationMap is the read-only lookup used by the translator.
type TranslationMap struct {
	entries map[string]*Entry
	keys    []string

	// Fields are the target field names from the table header.
	Fields []string
}

// NewTranslationMap returns an empty map.
func NewTranslationMap() *TranslationMap {
	return &TranslationMap{entries: make(map[string]*Entry)}
}

// Lookup returns the entry for a source value.
func (m *TranslationMap) Lookup(value string) (*Entry, bool) {
	e, ok := m.entries[value]
	return e, ok
}

// Len returns the number of entries.
func (m *TranslationMap) Len() int {
	return len(m.entries)
}

// Keys returns the source values in the order they were first defined.
func (m *TranslationMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Put stores an entry, replacing any entry with the same key.
func (m *TranslationMap) Put(e *Entry) {
	if _, exists := m.entries[e.Key]; !exists {
		m.keys = append(m.keys, e.Key)
	}
	m.entries[e.Key] = e
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

// BuildTranslationMap builds the lookup from a translation table grid.
//
// PARAMETERS:
//   - grid: The table with the header in row 0 and keys in column 0.
//   - engine: Validates keys and target values.
//   - diags: Receives every finding.
//
// RETURNS:
//   - The translation map.
//   - An error wrapping ErrStructure if the table has fewer than 2 columns.
func BuildTranslationMap(grid *types.Grid, engine *validation.Engine, diags *types.Diagnostics) (*TranslationMap, error) {
	if grid.Width < 2 {
		return nil, fmt.Errorf("%w: translation table has %d column(s), need a key column and at least one target column",
			ErrStructure, grid.Width)
	}

	m := NewTranslationMap()
	columns, fields := targetColumns(grid, diags)
	m.Fields = fields

	for r := 1; r < grid.Height(); r++ {
		number := r + 1
		key := grid.Cell(r, 0)

		if key == "" {
			diags.Infof(types.StageLookup, number, "", "row skipped, source key is empty")
			continue
		}

		if !engine.ValidKey(key) {
			diags.Warnf(types.StageLookup, number, "",
				"source key '%s' has unexpected characters or is longer than 100 characters", key)
		}

		if prev, exists := m.Lookup(key); exists {
			diags.Warnf(types.StageLookup, number, "",
				"source key '%s' already defined in row %d, the earlier mapping is replaced", key, prev.Row)
		}

		targets := types.NewRow(number)
		for c, field := range columns {
			if field == "" {
				continue
			}
			if value := grid.Cell(r, c+1); value != "" {
				targets.Set(field, value)
			}
		}
		engine.Check(targets, types.StageLookup, diags)

		if targets.Len() == 0 {
			diags.Infof(types.StageLookup, number, "", "source key '%s' has no target values", key)
		}

		m.Put(&Entry{Key: key, Row: number, Targets: targets})
	}

	return m, nil
}

// targetColumns names the target columns, indexed from the second grid
// column. Blank header cells become Target<N> with N the 1-based column
// index. Columns that are never read are left as "": names with the reserved
// prefix, and every repeat of a name except the rightmost one.
//
// RETURNS:
//   - The field name per target column.
//   - The distinct field names in header order.
func targetColumns(grid *types.Grid, diags *types.Diagnostics) ([]string, []string) {
	columns := make([]string, grid.Width-1)
	last := make(map[string]int, len(columns))
	var fields []string

	for c := 1; c < grid.Width; c++ {
		name := grid.Cell(0, c)
		if name == "" {
			name = fmt.Sprintf("Target%d", c+1)
		}

		if types.IsReserved(name) {
			diags.Warnf(types.StageLookup, 1, name,
				"target field starts with the reserved prefix '%s', column %d is ignored", types.ReservedPrefix, c+1)
			continue
		}
		if _, dup := last[name]; dup {
			diags.Warnf(types.StageLookup, 1, name,
				"target field defined more than once, only the rightmost column is used, even where it is empty")
		} else {
			fields = append(fields, name)
		}

		last[name] = c
		columns[c-1] = name
	}

	for i, name := range columns {
		if name != "" && last[name] != i+1 {
			columns[i] = ""
		}
	}
	return columns, fields
}
