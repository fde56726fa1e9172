package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-translation-tool/internal/converter"
)

// validateCmd runs the pipeline without writing the output workbook.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the source workbook and translation table without writing output",
	Long: `The validate command reads both tables, validates every field and looks up
every value exactly as 'process' does, then writes the validation log and
prints the summary. No output workbook is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		conv := converter.New(appConfig, nil, slog.Default())
		return finishRun(cmd, appConfig, conv, conv.Check())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
