// =============================================================================
// Excel Translation Tool - Converter Module
// =============================================================================
//
// This module orchestrates one translation run, from reading the workbooks
// to writing the translated output.
//
// CONVERSION PIPELINE:
//   1. Read the translation table and build the translation map
//   2. Read the source table and validate every row
//   3. Translate every row
//   4. Write the output workbook
//
// Findings in steps 1-3 never stop the run; they are collected as
// diagnostics and returned with the result. Only unreadable inputs, a
// malformed translation table or a failed write abort the run, and in that
// case no output file is produced.
//
// =============================================================================

package converter

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/excel-translation-tool/internal/config"
	"github.com/ginjaninja78/excel-translation-tool/internal/csvparser"
	"github.com/ginjaninja78/excel-translation-tool/internal/types"
	"github.com/ginjaninja78/excel-translation-tool/internal/validation"
	"github.com/ginjaninja78/excel-translation-tool/internal/xlsxparser"
	"github.com/ginjaninja78/excel-translation-tool/internal/xlsxwriter"
	"github.com/ginjaninja78/excel-translation-tool/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs, the diagnostic log and the history.
	RunID string

	// InputFile and LookupFile are the files that were read.
	InputFile  string
	LookupFile string

	// OutputFile is the path of the written workbook.
	// This is empty if the run failed or did not write output.
	OutputFile string

	// Success indicates whether the run completed without a fatal error.
	Success bool

	// Error contains the fatal error, always a *FatalError.
	// This is nil if the run was successful.
	Error error

	// Diagnostics are the findings in the order they were made.
	Diagnostics []types.Diagnostic

	// Dataset is the translated output. It is nil after a fatal error.
	Dataset *types.Dataset

	// StartedAt is the time the run began.
	StartedAt time.Time

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// SourceRows is the number of data rows read from the source table.
	SourceRows int

	// LookupEntries is the number of distinct source keys in the table.
	LookupEntries int

	// RowsWithErrors counts rows marked with _HasValidationErrors.
	RowsWithErrors int

	// RowsMissingTranslation counts rows marked with _MissingTranslation.
	RowsMissingTranslation int

	// Warnings and Notices count the diagnostics by severity.
	Warnings int
	Notices  int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the process log used by the converter. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Converter runs the translation pipeline for one configuration.
type Converter struct {
	cfg    *config.Config
	engine *validation.Engine
	logger Logger

	// now is replaceable in tests.
	now func() time.Time
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - cfg: The run configuration.
//   - engine: The validation engine. Nil selects the default rule set.
//   - logger: The process log. Nil selects slog.Default().
func New(cfg *config.Config, engine *validation.Engine, logger Logger) *Converter {
	if engine == nil {
		engine = validation.NewEngine(validation.DefaultRuleSet())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		cfg:    cfg,
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Run executes the whole pipeline and writes the output workbook.
func (c *Converter) Run() Result {
	return c.run(true)
}

// Check executes the pipeline without writing the output workbook. The
// result carries the same diagnostics and dataset as Run would.
func (c *Converter) Check() Result {
	return c.run(false)
}

func (c *Converter) run(write bool) (result Result) {
	start := c.now()
	result = Result{
		RunID:      uuid.NewString(),
		InputFile:  c.cfg.InputFile,
		LookupFile: c.cfg.LookupFile,
		StartedAt:  start,
	}
	log := c.logger
	diags := &types.Diagnostics{}

	defer func() {
		result.Diagnostics = diags.Items()
		result.Stats.Warnings = diags.Count(types.SeverityWarning)
		result.Stats.Notices = diags.Count(types.SeverityInfo)
		result.Stats.ProcessingTime = c.now().Sub(start)
		if result.Error != nil {
			log.Error("run failed", "run_id", result.RunID, "error", result.Error)
		}
	}()

	log.Info("starting run", "run_id", result.RunID, "input", c.cfg.InputFile, "lookup", c.cfg.LookupFile)

	// =========================================================================
	// STEP 1: TRANSLATION TABLE
	// =========================================================================

	lookupGrid, err := c.readGrid(c.cfg.LookupFile, c.cfg.LookupSheet)
	if err != nil {
		result.Error = &FatalError{Stage: types.StageLookup, Path: c.cfg.LookupFile, Kind: ErrIO, Err: err}
		return result
	}

	table, err := BuildTranslationMap(lookupGrid, c.engine, diags)
	if err != nil {
		result.Error = &FatalError{Stage: types.StageLookup, Path: c.cfg.LookupFile, Kind: ErrStructure, Err: err}
		return result
	}
	result.Stats.LookupEntries = table.Len()
	log.Debug("translation table loaded", "entries", table.Len(), "fields", len(table.Fields))

	// =========================================================================
	// STEP 2: SOURCE TABLE
	// =========================================================================

	sourceGrid, err := c.readGrid(c.cfg.InputFile, c.cfg.InputSheet)
	if err != nil {
		result.Error = &FatalError{Stage: types.StageSource, Path: c.cfg.InputFile, Kind: ErrIO, Err: err}
		return result
	}

	rows := IngestSource(sourceGrid, c.engine, diags)
	result.Stats.SourceRows = len(rows)
	log.Debug("source table loaded", "rows", len(rows), "columns", sourceGrid.Width)

	// =========================================================================
	// STEP 3: TRANSLATION
	// =========================================================================

	ds := Translate(rows, table, diags)
	result.Dataset = ds
	result.Stats.RowsWithErrors = ds.CountMarked(types.KeyHasValidationErrors)
	result.Stats.RowsMissingTranslation = ds.CountMarked(types.KeyMissingTranslation)

	// =========================================================================
	// STEP 4: OUTPUT
	// =========================================================================

	if write {
		outputPath := c.OutputPath(result)
		if err := c.writeOutput(outputPath, ds); err != nil {
			result.Dataset = nil
			result.Error = &FatalError{Stage: StageOutput, Path: outputPath, Kind: ErrIO, Err: err}
			return result
		}
		result.OutputFile = outputPath
		log.Info("wrote output", "path", outputPath, "rows", len(ds.Rows))
	}

	result.Success = true
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// OutputPath expands the configured output file name for a run.
func (c *Converter) OutputPath(result Result) string {
	return utils.ExpandFileName(c.cfg.OutputFile, result.StartedAt, map[string]string{"uuid": result.RunID})
}

// LogPath expands the configured diagnostic log name for a run.
func (c *Converter) LogPath(result Result) string {
	return utils.ExpandFileName(c.cfg.LogFile, result.StartedAt, map[string]string{"uuid": result.RunID})
}

// readGrid reads a table from a workbook, or from a delimited text file when
// the path ends in .csv.
func (c *Converter) readGrid(path, sheet string) (*types.Grid, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return csvparser.ReadGrid(path, csvparser.Settings{Delimiter: c.cfg.CSVDelimiter})
	}
	return xlsxparser.ReadGrid(path, sheet)
}

func (c *Converter) writeOutput(path string, ds *types.Dataset) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	options := xlsxwriter.DefaultOptions()
	options.SheetName = c.cfg.OutputSheet
	return xlsxwriter.Write(path, ds, options)
}
