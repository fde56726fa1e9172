package converter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-translation-tool/internal/config"
	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

// writeWorkbook saves rows to Sheet1 of a new workbook in dir.
func writeWorkbook(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, r := range rows {
		cells := make([]interface{}, len(r))
		for j, v := range r {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.InputFile = filepath.Join(dir, "Eingabedatei.xlsx")
	cfg.LookupFile = filepath.Join(dir, "Uebersetzungstabelle.xlsx")
	cfg.OutputFile = filepath.Join(dir, "Ausgabedatei.xlsx")
	cfg.LogFile = filepath.Join(dir, "Validierung.log")
	return cfg
}

func writeFixtures(t *testing.T, dir string) {
	t.Helper()
	writeWorkbook(t, dir, "Uebersetzungstabelle.xlsx", [][]string{
		{"Schluessel", "Country", "Region"},
		{"DE", "Germany", "Europe"},
		{"", "lost"},
		{"AT", "Austria", "Europe"},
	})
	writeWorkbook(t, dir, "Eingabedatei.xlsx", [][]string{
		{"Land", "Name", "Preis", "Kategorie"},
		{"DE", "Anna", "12,50", "LEER"},
		{"XX", "Ben", "abc", "0"},
		{"AT", "", "", ""},
	})
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	cfg := testConfig(dir)

	result := New(cfg, nil, nil).Run()

	require.NoError(t, result.Error)
	require.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, cfg.OutputFile, result.OutputFile)

	assert.Equal(t, 3, result.Stats.SourceRows)
	assert.Equal(t, 2, result.Stats.LookupEntries)
	assert.Equal(t, 1, result.Stats.RowsWithErrors)
	// Anna, 12,50 and LEER have no entry in row 2; XX, Ben and abc in row 3.
	assert.Equal(t, 2, result.Stats.RowsMissingTranslation)
	assert.Equal(t, len(result.Diagnostics), result.Stats.Warnings+result.Stats.Notices)

	// Lookup diagnostics come first, then source, then translation.
	var stages []types.Stage
	for _, d := range result.Diagnostics {
		if len(stages) == 0 || stages[len(stages)-1] != d.Stage {
			stages = append(stages, d.Stage)
		}
	}
	assert.Equal(t, []types.Stage{types.StageLookup, types.StageSource, types.StageTranslate}, stages)

	f, err := excelize.OpenFile(result.OutputFile)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Übersetzung"}, f.GetSheetList())
	rows, err := f.GetRows("Übersetzung")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Land", "Name", "Preis", "Kategorie", "Country", "Region",
		types.KeyMissingTranslation, types.KeyHasValidationErrors,
	}, rows[0])

	cell := func(name string) string {
		v, err := f.GetCellValue("Übersetzung", name)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Germany", cell("E2"))
	assert.Equal(t, "12,50", cell("C2"))
	assert.Equal(t, "true", cell("G2"))
	assert.Equal(t, "", cell("H2"))
	assert.Equal(t, "XX", cell("A3"))
	assert.Equal(t, "true", cell("G3"))
	assert.Equal(t, "true", cell("H3"))
	assert.Equal(t, "Austria", cell("E4"))
	assert.Equal(t, "", cell("G4"))
}

func TestCheck_DoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	cfg := testConfig(dir)

	result := New(cfg, nil, nil).Check()

	require.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.NotNil(t, result.Dataset)
	assert.NotEmpty(t, result.Diagnostics)
	assert.NoFileExists(t, cfg.OutputFile)
}

func TestRun_IsRepeatable(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	cfg := testConfig(dir)

	first := New(cfg, nil, nil).Check()
	second := New(cfg, nil, nil).Check()

	assert.Equal(t, first.Diagnostics, second.Diagnostics)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_MissingLookup(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "Eingabedatei.xlsx", [][]string{{"Land"}, {"DE"}})
	cfg := testConfig(dir)

	result := New(cfg, nil, nil).Run()

	require.False(t, result.Success)
	assert.ErrorIs(t, result.Error, ErrIO)
	assert.ErrorIs(t, result.Error, os.ErrNotExist)

	var fatal *FatalError
	require.True(t, errors.As(result.Error, &fatal))
	assert.Equal(t, types.StageLookup, fatal.Stage)
	assert.Equal(t, cfg.LookupFile, fatal.Path)
	assert.NoFileExists(t, cfg.OutputFile)
}

func TestRun_MissingSource(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "Uebersetzungstabelle.xlsx", [][]string{{"Key", "Country"}, {"DE", "Germany"}})
	cfg := testConfig(dir)

	result := New(cfg, nil, nil).Run()

	require.False(t, result.Success)
	assert.ErrorIs(t, result.Error, ErrIO)
	var fatal *FatalError
	require.True(t, errors.As(result.Error, &fatal))
	assert.Equal(t, types.StageSource, fatal.Stage)
	assert.Nil(t, result.Dataset)
	assert.NoFileExists(t, cfg.OutputFile)
}

func TestRun_LookupTooNarrow(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "Uebersetzungstabelle.xlsx", [][]string{{"Key"}, {"DE"}})
	writeWorkbook(t, dir, "Eingabedatei.xlsx", [][]string{{"Land"}, {"DE"}})
	cfg := testConfig(dir)

	result := New(cfg, nil, nil).Run()

	require.False(t, result.Success)
	assert.ErrorIs(t, result.Error, ErrStructure)
	assert.False(t, errors.Is(result.Error, ErrIO))
	assert.NoFileExists(t, cfg.OutputFile)
}

func TestRun_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := testConfig(dir)
	cfg.OutputFile = filepath.Join(blocker, "out.xlsx")

	result := New(cfg, nil, nil).Run()

	require.False(t, result.Success)
	assert.ErrorIs(t, result.Error, ErrIO)
	var fatal *FatalError
	require.True(t, errors.As(result.Error, &fatal))
	assert.Equal(t, StageOutput, fatal.Stage)
	assert.NotEmpty(t, result.Diagnostics)
}

func TestRun_CSVInputs(t *testing.T) {
	dir := t.TempDir()
	lookup := filepath.Join(dir, "tabelle.csv")
	input := filepath.Join(dir, "daten.csv")
	require.NoError(t, os.WriteFile(lookup, []byte("Key;Country\nDE;Germany\n"), 0644))
	require.NoError(t, os.WriteFile(input, []byte("Land\nDE\n"), 0644))

	cfg := testConfig(dir)
	cfg.InputFile = input
	cfg.LookupFile = lookup

	result := New(cfg, nil, nil).Run()

	require.NoError(t, result.Error)
	require.Len(t, result.Dataset.Rows, 1)
	assert.Equal(t, "Germany", result.Dataset.Rows[0].Value("Country"))
}

func TestCheck_DateCellsFollowDateRules(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeWorkbook(t, dir, "Uebersetzungstabelle.xlsx", [][]string{
		{"Schluessel", "Country"},
		{"DE", "Germany"},
	})

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"StartDatum", "EndDatum"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SaveAs(cfg.InputFile))
	require.NoError(t, f.Close())

	result := New(cfg, nil, nil).Check()
	require.NoError(t, result.Error)

	var order int
	for _, d := range result.Diagnostics {
		assert.NotContains(t, d.Message, "does not match rule Datum")
		if d.Column == "StartDatum" && d.Message == "start date '05.03.2024' is after end date '05.01.2024'" {
			order++
		}
	}
	assert.Equal(t, 1, order)
	assert.True(t, result.Dataset.Rows[0].Marked(types.KeyHasValidationErrors))
}

func TestOutputPath_Placeholders(t *testing.T) {
	cfg := config.Default()
	cfg.OutputFile = "out/Ergebnis_{date}_{uuid}.xlsx"
	cfg.LogFile = "Validierung_{timestamp}.log"
	c := New(cfg, nil, nil)

	result := Result{
		RunID:     "run-1",
		StartedAt: time.Date(2024, 3, 9, 8, 5, 1, 0, time.UTC),
	}
	assert.Equal(t, "out/Ergebnis_20240309_run-1.xlsx", c.OutputPath(result))
	assert.Equal(t, "Validierung_20240309_080501.log", c.LogPath(result))
}

func TestRun_OutputDirectoryCreated(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	cfg := testConfig(dir)
	cfg.OutputFile = filepath.Join(dir, "ausgabe", "Ausgabedatei.xlsx")

	result := New(cfg, nil, nil).Run()

	require.NoError(t, result.Error)
	assert.FileExists(t, cfg.OutputFile)
}
