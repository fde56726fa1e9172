// =============================================================================
// Excel Translation Tool - XLSX Writer Module
// =============================================================================
//
// This module writes the translated dataset to a new workbook.
//
// LAYOUT:
//   | Land | Country | Name | _MissingTranslation |   <- bold header row
//   | DE   | Germany | Anna |                     |
//   | XX   |         | Ben  | true                |
//
//   - Column order is the dataset header order.
//   - A row without a value for a header column gets an empty cell.
//   - Every value is written as a string cell; nothing is re-typed.
//   - Column widths are estimated from the longest value in each column.
//
// The file is only created on disk by the final SaveAs, so a failure while
// building the workbook leaves no partial output behind.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// Options contains options for workbook generation.
type Options struct {
	// SheetName is the name of the single output sheet.
	// Default: "Übersetzung"
	SheetName string

	// BoldHeader renders the header row in bold.
	// Default: true
	BoldHeader bool

	// AutoWidth sizes each column to its longest value.
	// Default: true
	AutoWidth bool

	// MinWidth and MaxWidth bound the estimated column width.
	MinWidth float64
	MaxWidth float64
}

// DefaultOptions returns the default write options.
func DefaultOptions() Options {
	return Options{
		SheetName:  "Übersetzung",
		BoldHeader: true,
		AutoWidth:  true,
		MinWidth:   8,
		MaxWidth:   80,
	}
}

// =============================================================================
// WRITER
// =============================================================================

// Write writes the dataset to path using its own header.
func Write(path string, ds *types.Dataset, options Options) error {
	return WriteGrid(path, ds.Header, ds.Rows, options)
}

// WriteGrid writes header and rows to a new workbook at path.
//
// PARAMETERS:
//   - path: The output file. An existing file is replaced.
//   - header: The column order.
//   - rows: The records. Keys not in header are not written.
//   - options: Sheet name and cosmetic settings.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func WriteGrid(path string, header []string, rows []*types.Row, options Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if options.SheetName != "" && options.SheetName != sheet {
		if err := f.SetSheetName(sheet, options.SheetName); err != nil {
			return fmt.Errorf("failed to name sheet '%s': %w", options.SheetName, err)
		}
		sheet = options.SheetName
	}

	if len(header) > 0 {
		if err := writeRows(f, sheet, header, rows); err != nil {
			return err
		}

		if options.BoldHeader {
			if err := styleHeader(f, sheet, len(header)); err != nil {
				return err
			}
		}

		if options.AutoWidth {
			if err := sizeColumns(f, sheet, header, rows, options); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRows writes the header into row 1 and the records below it.
func writeRows(f *excelize.File, sheet string, header []string, rows []*types.Row) error {
	cells := make([]interface{}, len(header))
	for i, name := range header {
		cells[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(header))
		for j, name := range header {
			cells[j] = row.Value(name)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

// styleHeader makes the header row bold.
func styleHeader(f *excelize.File, sheet string, width int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

// sizeColumns approximates Excel's autofit from character counts.
func sizeColumns(f *excelize.File, sheet string, header []string, rows []*types.Row, options Options) error {
	for i, name := range header {
		longest := utf8.RuneCountInString(name)
		for _, row := range rows {
			if n := utf8.RuneCountInString(row.Value(name)); n > longest {
				longest = n
			}
		}

		width := clamp(float64(longest)+2, options.MinWidth, options.MaxWidth)
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if lo > 0 && v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
