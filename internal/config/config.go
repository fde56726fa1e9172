// =============================================================================
// Excel Translation Tool - Configuration Module
// =============================================================================
//
// This module loads the tool configuration from config.yaml. Every setting
// has a default, so the tool runs without any configuration file next to
// the three conventional workbooks.
//
// PRECEDENCE (highest first):
//   1. Command line flags (applied by the cmd package)
//   2. config.yaml
//   3. Built-in defaults
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when --config is not set.
const DefaultPath = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the settings for one translation run.
type Config struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the source workbook (or .csv file) with the data rows.
	// Default: "Eingabedatei.xlsx"
	InputFile string `yaml:"input_file"`

	// LookupFile is the translation table. Column 1 holds the source values,
	// every further column one target field.
	// Default: "Uebersetzungstabelle.xlsx"
	LookupFile string `yaml:"lookup_file"`

	// OutputFile is the workbook written on success.
	// Placeholders:
	//   {uuid}      - The run ID
	//   {timestamp} - Start time (YYYYMMDD_HHMMSS)
	//   {date}      - Start date (YYYYMMDD)
	// Default: "Ausgabedatei.xlsx"
	OutputFile string `yaml:"output_file"`

	// LogFile receives one line per diagnostic. It supports the same
	// placeholders as OutputFile.
	// Default: "Validierung.log"
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// SHEET SETTINGS
	// =========================================================================

	// InputSheet and LookupSheet select the worksheet to read. Empty means
	// the first sheet of the workbook.
	InputSheet  string `yaml:"input_sheet"`
	LookupSheet string `yaml:"lookup_sheet"`

	// OutputSheet names the single sheet of the output workbook.
	// Default: "Übersetzung"
	OutputSheet string `yaml:"output_sheet"`

	// CSVDelimiter separates fields when an input file ends in .csv.
	// Default: ";"
	CSVDelimiter string `yaml:"csv_delimiter"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of the process log.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the process log encoding: "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// CONSOLE SETTINGS
	// =========================================================================

	// WaitForKey keeps the console open after the run until Enter is pressed.
	// Default: false
	WaitForKey bool `yaml:"wait_for_key"`

	// NoColor disables ANSI colors in the console summary.
	// Default: false
	NoColor bool `yaml:"no_color"`

	// =========================================================================
	// HISTORY SETTINGS
	// =========================================================================

	// HistoryDB is the SQLite database that records every run. Empty
	// disables the history.
	HistoryDB string `yaml:"history_db"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// LoadConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied. It is not
//     validated yet: callers merge command line overrides first and then
//     call Validate.
//   - An error if the file cannot be read or parsed.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

// LoadOrDefault loads configPath if it exists and returns the defaults
// otherwise. Any other read or parse error is returned.
func LoadOrDefault(configPath string) (*Config, error) {
	config, err := LoadConfig(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.InputFile == "" {
		config.InputFile = "Eingabedatei.xlsx"
	}
	if config.LookupFile == "" {
		config.LookupFile = "Uebersetzungstabelle.xlsx"
	}
	if config.OutputFile == "" {
		config.OutputFile = "Ausgabedatei.xlsx"
	}
	if config.LogFile == "" {
		config.LogFile = "Validierung.log"
	}
	if config.OutputSheet == "" {
		config.OutputSheet = "Übersetzung"
	}
	if config.CSVDelimiter == "" {
		config.CSVDelimiter = ";"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
}

// Validate checks settings that would make a run fail later in a less
// obvious way. It runs once, on the configuration merged with flags.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	switch c.CSVDelimiter {
	case "\"", "\n", "\r":
		return fmt.Errorf("csv_delimiter %q cannot be used as a field separator", c.CSVDelimiter)
	}

	if !strings.EqualFold(filepath.Ext(c.OutputFile), ".xlsx") {
		return fmt.Errorf("output_file %q must end in .xlsx", c.OutputFile)
	}

	for _, in := range []string{c.InputFile, c.LookupFile} {
		if filepath.Clean(in) == filepath.Clean(c.OutputFile) {
			return fmt.Errorf("output_file %q would overwrite an input", c.OutputFile)
		}
	}

	return nil
}
