// =============================================================================
// Excel Translation Tool - History Command
// =============================================================================
//
// COMMAND USAGE:
//   translator history [run-id] [flags]
//
//   Without a run ID, lists the most recent runs.
//   With a run ID, prints the diagnostics recorded for that run.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-translation-tool/internal/history"
	"github.com/ginjaninja78/excel-translation-tool/pkg/utils"
)

// historyLimit is the number of runs listed.
var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List earlier runs or show the diagnostics of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if appConfig.HistoryDB == "" {
			return errors.New("no history database configured, set history_db or --history-db")
		}

		if !utils.FileExists(appConfig.HistoryDB) {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
			return nil
		}

		store, err := history.Open(appConfig.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			return showRun(cmd, store, args[0])
		}
		return listRuns(cmd, store)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
}

func listRuns(cmd *cobra.Command, store *history.Store) error {
	runs, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tROWS\tWARNINGS\tNOTICES\tOUTPUT")
	for _, r := range runs {
		output := r.OutputFile
		if r.Status == history.StatusFailed {
			output = r.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status,
			r.SourceRows, r.Warnings, r.Notices, output)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, store *history.Store, runID string) error {
	diags, err := store.Diagnostics(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(diags) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No diagnostics recorded for run %s.\n", runID)
		return nil
	}
	for _, d := range diags {
		fmt.Fprintln(cmd.OutOrStdout(), d.String())
	}
	return nil
}
