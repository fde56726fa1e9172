// =============================================================================
// Excel Translation Tool - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (translator)
//   ├── processCmd  (translator process)
//   ├── validateCmd (translator validate)
//   ├── historyCmd  (translator history)
//   └── versionCmd  (translator version)
//
// CONFIGURATION:
//   Before any command runs, the root command
//   1. loads config.yaml (or the file given with --config),
//   2. applies the file flags on top of it,
//   3. sets up the process log.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-translation-tool/internal/config"
	"github.com/ginjaninja78/excel-translation-tool/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging and prints every diagnostic to the console.
var verbose bool

// flagValues holds the values of the flags that override config.yaml.
var flagValues struct {
	input       string
	lookup      string
	output      string
	logFile     string
	inputSheet  string
	lookupSheet string
	historyDB   string
	logFormat   string
	noColor     bool
	wait        bool
}

// appConfig is the effective configuration, set before a command runs.
var appConfig *config.Config

// errRunFailed signals a run that already reported its fatal error.
var errRunFailed = errors.New("run failed")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "translator",
	Short: "Excel Translation Tool - Translate and validate spreadsheet data",
	Long: `Excel Translation Tool reads a source workbook, translates its values
with a translation table, validates the fields and writes the result to a new
workbook. Every issue found along the way is collected in a validation log;
only unreadable input files stop a run.

Default files (working directory):
  Eingabedatei.xlsx          source data
  Uebersetzungstabelle.xlsx  translation table
  Ausgabedatei.xlsx          translated output
  Validierung.log            validation log

Example Usage:
  translator process                           # Translate with the default files
  translator process --input daten.xlsx        # Use another source workbook
  translator validate                          # Check the data, write nothing
  translator history --history-db runs.db      # List earlier runs`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", config.DefaultPath, "Path to the configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and print every diagnostic")

	flags.StringVar(&flagValues.input, "input", "", "Source workbook or .csv file")
	flags.StringVar(&flagValues.lookup, "lookup", "", "Translation table workbook or .csv file")
	flags.StringVar(&flagValues.output, "output", "", "Output workbook")
	flags.StringVar(&flagValues.logFile, "log-file", "", "Validation log file")
	flags.StringVar(&flagValues.inputSheet, "input-sheet", "", "Sheet of the source workbook (default first sheet)")
	flags.StringVar(&flagValues.lookupSheet, "lookup-sheet", "", "Sheet of the translation table (default first sheet)")
	flags.StringVar(&flagValues.historyDB, "history-db", "", "SQLite database recording every run")
	flags.StringVar(&flagValues.logFormat, "log-format", "", "Process log format: text or json")
	flags.BoolVar(&flagValues.noColor, "no-color", false, "Disable colored console output")
	flags.BoolVar(&flagValues.wait, "wait", false, "Wait for Enter before exiting")
}

// initConfig loads the configuration, applies flag overrides and sets up
// the process log.
func initConfig(cmd *cobra.Command) error {
	var cfg *config.Config
	var err error

	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadConfig(cfgFile)
	} else {
		cfg, err = config.LoadOrDefault(cfgFile)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Setup(cmd.ErrOrStderr(), level, cfg.LogFormat)
	slog.Debug("configuration loaded", "config", cfgFile, "input", cfg.InputFile, "lookup", cfg.LookupFile)

	appConfig = cfg
	return nil
}

// applyFlags copies every flag set on the command line into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("input") {
		cfg.InputFile = flagValues.input
	}
	if changed("lookup") {
		cfg.LookupFile = flagValues.lookup
	}
	if changed("output") {
		cfg.OutputFile = flagValues.output
	}
	if changed("log-file") {
		cfg.LogFile = flagValues.logFile
	}
	if changed("input-sheet") {
		cfg.InputSheet = flagValues.inputSheet
	}
	if changed("lookup-sheet") {
		cfg.LookupSheet = flagValues.lookupSheet
	}
	if changed("history-db") {
		cfg.HistoryDB = flagValues.historyDB
	}
	if changed("log-format") {
		cfg.LogFormat = flagValues.logFormat
	}
	if changed("no-color") {
		cfg.NoColor = flagValues.noColor
	}
	if changed("wait") {
		cfg.WaitForKey = flagValues.wait
	}
}
