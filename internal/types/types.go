// =============================================================================
// Excel Translation Tool - Shared Types
// =============================================================================
//
// This package contains the data model shared by every stage of the
// translation pipeline. Types defined here are used by:
//   - xlsxparser / csvparser (Grid)
//   - validation (Row, Diagnostics)
//   - converter (Row, Dataset, Diagnostics)
//   - xlsxwriter (Dataset)
//   - report / history (Diagnostic)
//
// RESERVED KEYS:
//   Keys starting with ReservedPrefix are injected by the pipeline itself
//   (diagnostic markers). They are carried into the output but never take
//   part in translation lookups.
//
// =============================================================================

package types

import "strings"

// =============================================================================
// RESERVED KEYS
// =============================================================================

// ReservedPrefix marks pipeline-injected keys.
const ReservedPrefix = "_"

const (
	// KeyHasValidationErrors is set to FlagTrue on rows that failed at least
	// one validation rule.
	KeyHasValidationErrors = "_HasValidationErrors"

	// KeyMissingTranslation is set to FlagTrue on rows that contain at least
	// one translatable value without a lookup entry.
	KeyMissingTranslation = "_MissingTranslation"

	// FlagTrue is the value written into marker keys.
	FlagTrue = "true"
)

// IsReserved reports whether key is a synthetic pipeline key.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, ReservedPrefix)
}

// =============================================================================
// ROW
// =============================================================================

// Row is one record as an ordered mapping from column name to cell value.
// Blank cells are stored as the empty string, never omitted.
type Row struct {
	// Number is the spreadsheet row number the record came from (1-based,
	// the header being row 1). Zero for rows not read from a grid.
	Number int

	keys   []string
	values map[string]string
}

// NewRow creates an empty row for the given spreadsheet row number.
func NewRow(number int) *Row {
	return &Row{
		Number: number,
		values: make(map[string]string),
	}
}

// Set assigns value to key. New keys are appended to the column order;
// existing keys keep their position.
func (r *Row) Set(key, value string) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the key exists.
func (r *Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (r *Row) Value(key string) string {
	return r.values[key]
}

// Has reports whether key is present.
func (r *Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the column names in insertion order.
// The returned slice is a copy.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.keys)
}

// Mark sets a reserved marker key to FlagTrue.
func (r *Row) Mark(key string) {
	r.Set(key, FlagTrue)
}

// Marked reports whether a marker key is set to FlagTrue.
func (r *Row) Marked(key string) bool {
	return r.values[key] == FlagTrue
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	c := &Row{
		Number: r.Number,
		keys:   make([]string, len(r.keys)),
		values: make(map[string]string, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Map returns the row as a plain map. Order is lost.
func (r *Row) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// =============================================================================
// GRID
// =============================================================================

// Grid is a rectangular block of cell values read from a spreadsheet or CSV
// file. Row 0 is the header. Rows may be shorter than Width; missing cells
// read as "".
type Grid struct {
	// Source is the path the grid was read from.
	Source string

	// Sheet is the worksheet name, empty for CSV input.
	Sheet string

	// Rows holds the raw cell values, header first.
	Rows [][]string

	// Width is the number of columns of the widest row.
	Width int
}

// NewGrid builds a grid and computes its width.
func NewGrid(source, sheet string, rows [][]string) *Grid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return &Grid{Source: source, Sheet: sheet, Rows: rows, Width: width}
}

// Height returns the number of rows including the header.
func (g *Grid) Height() int {
	return len(g.Rows)
}

// Cell returns the value at the 0-based row and column, or "" when the
// cell is outside the stored data.
func (g *Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) {
		return ""
	}
	cells := g.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// =============================================================================
// DATASET
// =============================================================================

// Dataset is an ordered sequence of rows plus the union of their keys.
type Dataset struct {
	// Rows contains the records in input order.
	Rows []*Row

	// Header is the union of all keys of all rows in first-seen order.
	Header []string
}

// NewDataset builds a dataset and computes its header.
func NewDataset(rows []*Row) *Dataset {
	ds := &Dataset{Rows: rows}
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, key := range row.keys {
			if !seen[key] {
				seen[key] = true
				ds.Header = append(ds.Header, key)
			}
		}
	}
	return ds
}

// CountMarked returns how many rows carry the given marker key.
func (d *Dataset) CountMarked(key string) int {
	n := 0
	for _, row := range d.Rows {
		if row.Marked(key) {
			n++
		}
	}
	return n
}
