package converter

import (
	"fmt"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
	"github.com/ginjaninja78/excel-translation-tool/internal/validation"
)

// IngestSource turns a source grid into rows and validates each of them.
// Row 1 is the header; every later grid row becomes one Row, including rows
// whose cells are all blank.
func IngestSource(grid *types.Grid, engine *validation.Engine, diags *types.Diagnostics) []*types.Row {
	header := sourceHeader(grid, diags)

	rows := make([]*types.Row, 0, grid.Height())
	for r := 1; r < grid.Height(); r++ {
		row := types.NewRow(r + 1)
		for c, name := range header {
			row.Set(name, grid.Cell(r, c))
		}
		engine.Validate(row, types.StageSource, diags)
		rows = append(rows, row)
	}
	return rows
}

// sourceHeader names every grid column. Blank header cells become
// Column<N> with N the 1-based column index.
func sourceHeader(grid *types.Grid, diags *types.Diagnostics) []string {
	names := make([]string, grid.Width)
	seen := make(map[string]int, grid.Width)

	for c := 0; c < grid.Width; c++ {
		name := grid.Cell(0, c)
		if name == "" {
			name = fmt.Sprintf("Column%d", c+1)
		}

		if types.IsReserved(name) {
			diags.Warnf(types.StageSource, 1, name,
				"column name starts with the reserved prefix '%s' and is excluded from translation", types.ReservedPrefix)
		}
		if prev, dup := seen[name]; dup {
			diags.Warnf(types.StageSource, 1, name,
				"column name used by columns %d and %d, values of column %d win", prev, c+1, c+1)
		}

		seen[name] = c + 1
		names[c] = name
	}
	return names
}
