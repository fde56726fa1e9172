// =============================================================================
// Excel Translation Tool - CSV Grid Reader
// =============================================================================
//
// Source data and translation tables are usually workbooks, but exports from
// other systems often arrive as CSV. This module reads such a file into the
// same types.Grid the XLSX reader produces, so the rest of the pipeline does
// not care which format it was given.
//
// FORMAT:
//   - Delimiter is configurable; ";" is the default for German Excel exports.
//   - Rows may have different lengths.
//   - A UTF-8 byte order mark at the start of the file is dropped.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

// Settings contains settings for parsing CSV files.
type Settings struct {
	// Delimiter separates fields. Accepts a single character or one of the
	// names "tab", "pipe", "semicolon", "comma".
	Delimiter string
}

// DefaultSettings returns semicolon-separated settings.
func DefaultSettings() Settings {
	return Settings{Delimiter: ";"}
}

// ReadGrid reads the CSV file at path.
//
// RETURNS:
//   - The grid with the header in row 0.
//   - An error if the file cannot be opened or is malformed.
func ReadGrid(path string, settings Settings) (*types.Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	grid, err := Parse(file, settings)
	if err != nil {
		return nil, err
	}
	grid.Source = path
	return grid, nil
}

// Parse reads CSV data from r.
func Parse(r io.Reader, settings Settings) (*types.Grid, error) {
	reader := bufio.NewReader(r)
	if bom, err := reader.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		reader.Discard(3)
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return types.NewGrid("", "", rows), nil
}

// configureReader applies settings to the CSV reader.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ",", "comma":
		reader.Comma = ','
	case ";", "semicolon", "":
		reader.Comma = ';'
	default:
		reader.Comma = []rune(settings.Delimiter)[0]
	}

	// Rows in hand-edited exports often have trailing cells cut off.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}
