// =============================================================================
// Excel Translation Tool - Translator
// =============================================================================
//
// This module merges source rows with translation table entries.
//
// MERGE ORDER (per row):
//   1. The original row is copied, markers included.
//   2. Columns are visited in row order. A value with a table entry copies
//      all target fields into the output row.
//
//   Consequences:
//   - A target field named like an original column replaces that column.
//   - When two columns map onto the same target field, the later column wins.
//   - Lookups always use the original values; a translated value is never
//     looked up again.
//
// MISSING TRANSLATIONS:
//   A value without an entry is reported and the row marked with
//   _MissingTranslation unless it is empty, the literal "0", or sits in a
//   reserved column.
//
// =============================================================================

package converter

import (
	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

// Translate translates every row and builds the output dataset.
func Translate(rows []*types.Row, table *TranslationMap, diags *types.Diagnostics) *types.Dataset {
	out := make([]*types.Row, len(rows))
	for i, row := range rows {
		out[i] = TranslateRow(row, table, diags)
	}
	return types.NewDataset(out)
}

// TranslateRow returns the translated copy of row. row itself is not
// modified.
func TranslateRow(row *types.Row, table *TranslationMap, diags *types.Diagnostics) *types.Row {
	result := row.Clone()

	for _, column := range row.Keys() {
		if types.IsReserved(column) {
			continue
		}
		value := row.Value(column)

		if entry, ok := table.Lookup(value); ok {
			for _, field := range entry.Targets.Keys() {
				result.Set(field, entry.Targets.Value(field))
			}
			continue
		}

		if !translatable(value) {
			continue
		}
		diags.Warnf(types.StageTranslate, row.Number, column, "no translation found for value '%s'", value)
		result.Mark(types.KeyMissingTranslation)
	}

	return result
}

// translatable reports whether a value without a table entry counts as a
// missing translation.
func translatable(value string) bool {
	return value != "" && value != "0"
}
