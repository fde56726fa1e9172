// =============================================================================
// Excel Translation Tool - XLSX Grid Reader
// =============================================================================
//
// This module reads one worksheet of an XLSX workbook into a types.Grid.
// It knows nothing about headers, rows or translations: it only returns the
// cell values as excelize formats them.
//
// SHEET SELECTION:
//   An empty sheet name selects the first sheet of the workbook, which is
//   what both the source file and the translation table use by default.
//
// DATE CELLS:
//   Cells holding a date serial with a date number format are rendered as
//   dd.MM.yyyy (dd.MM.yyyy HH:mm when a time of day is set) instead of the
//   workbook's display format, so they read like dates typed as text.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

// ReadGrid opens the workbook at path and reads the given sheet.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - sheet: The worksheet to read. Empty means the first sheet.
//
// RETURNS:
//   - The grid with the header in row 0.
//   - An error if the file cannot be opened or the sheet cannot be read.
func ReadGrid(path, sheet string) (*types.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, path, sheet)
}

// readSheet reads a sheet from an already opened workbook.
func readSheet(f *excelize.File, path, sheet string) (*types.Grid, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet '%s' not found, workbook has: %s",
			sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}

	if err := renderDates(f, sheet, rows); err != nil {
		return nil, fmt.Errorf("failed to read dates of sheet '%s': %w", sheet, err)
	}

	return types.NewGrid(path, sheet, rows), nil
}

// =============================================================================
// DATE CELLS
// =============================================================================

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
)

// renderDates replaces the formatted value of every date cell in rows.
func renderDates(f *excelize.File, sheet string, rows [][]string) error {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	isDate := make(map[int]bool)
	for r := range rows {
		if r >= len(raw) {
			break
		}
		for c, value := range rows[r] {
			if c >= len(raw[r]) || raw[r][c] == value {
				continue
			}
			serial, err := strconv.ParseFloat(raw[r][c], 64)
			if err != nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			styleID, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return err
			}
			dated, seen := isDate[styleID]
			if !seen {
				dated = dateStyle(f, styleID)
				isDate[styleID] = dated
			}
			if !dated {
				continue
			}

			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			rows[r][c] = formatDate(t)
		}
	}
	return nil
}

// dateStyle reports whether the style's number format shows a calendar date.
func dateStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return dateFormatCode(*style.CustomNumFmt)
	}
	switch {
	case style.NumFmt >= 14 && style.NumFmt <= 17, style.NumFmt == 22:
		return true
	case style.NumFmt >= 27 && style.NumFmt <= 36, style.NumFmt >= 50 && style.NumFmt <= 58:
		return true
	}
	return false
}

// dateFormatCode reports whether a custom format code has a day or year
// token outside quoted text and bracketed sections.
func dateFormatCode(code string) bool {
	quoted, bracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '\\':
			i++
		case ch == '[':
			bracket = true
		case ch == ']':
			bracket = false
		case bracket:
		case ch == 'd' || ch == 'D' || ch == 'y' || ch == 'Y':
			return true
		}
	}
	return false
}

func formatDate(t time.Time) string {
	t = t.Round(time.Second)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}
