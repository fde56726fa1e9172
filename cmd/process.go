// =============================================================================
// Excel Translation Tool - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs a full translation.
//
// COMMAND USAGE:
//   translator process [flags]
//
// PROCESSING PIPELINE:
//   1. Build the translation map from the translation table
//   2. Read and validate the source table
//   3. Translate every row
//   4. Write the output workbook
//   5. Write the validation log and print the summary
//   6. Record the run in the history database (if configured)
//
// EXIT STATUS:
//   0 when the output was written, even if issues were found.
//   1 when a fatal error stopped the run.
//
// =============================================================================

package cmd

import (
	"bufio"
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-translation-tool/internal/config"
	"github.com/ginjaninja78/excel-translation-tool/internal/converter"
	"github.com/ginjaninja78/excel-translation-tool/internal/history"
	"github.com/ginjaninja78/excel-translation-tool/internal/logging"
	"github.com/ginjaninja78/excel-translation-tool/internal/report"
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Translate the source workbook and write the output workbook",
	Long: `The process command translates every value of the source workbook that
appears in the first column of the translation table, adding the table's
target fields to the row. Fields are validated against the built-in rules.

Rows with issues are kept and flagged in the output:
  _HasValidationErrors  a field failed a validation rule
  _MissingTranslation   a non-empty value had no translation

All issues are written to the validation log.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		conv := converter.New(appConfig, nil, slog.Default())
		return finishRun(cmd, appConfig, conv, conv.Run())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}

// =============================================================================
// SHARED RUN HANDLING
// =============================================================================

// finishRun reports a result, records it and waits for the user if asked.
//
// RETURNS:
//   - errRunFailed if the run hit a fatal error, nil otherwise.
func finishRun(cmd *cobra.Command, cfg *config.Config, conv *converter.Converter, result converter.Result) error {
	logger := logging.WithRun(slog.Default(), result.RunID)

	printer := report.NewPrinter(cmd.OutOrStdout(), !cfg.NoColor)
	printer.Verbose = verbose

	if err := printer.Emit(result, conv.LogPath(result)); err != nil {
		logger.Error("failed to write validation log", "error", err)
	}

	if cfg.HistoryDB != "" {
		if err := recordHistory(cmd.Context(), cfg.HistoryDB, result); err != nil {
			logger.Warn("failed to record run history", "db", cfg.HistoryDB, "error", err)
		}
	}

	if cfg.WaitForKey {
		printer.Info("Press Enter to exit...")
		bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	}

	if !result.Success {
		return errRunFailed
	}
	return nil
}

// recordHistory stores result in the history database at path.
func recordHistory(ctx context.Context, path string, result converter.Result) error {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(ctx, result)
}
