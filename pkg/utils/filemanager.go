// =============================================================================
// Excel Translation Tool - File Manager Utility
// =============================================================================
//
// This module provides the file helpers around a run:
//   - Output and log file naming with placeholders
//   - Diagnostic log generation
//   - Directory preparation
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE NAMING
// =============================================================================

// ExpandFileName replaces the placeholders in a file name.
//
// PARAMETERS:
//   - format: The file name with placeholders:
//               {uuid}      - params["uuid"], or a random UUID
//               {timestamp} - now as YYYYMMDD_HHMMSS
//               {date}      - now as YYYYMMDD
//               {time}      - now as HHMMSS
//   - now: The time used for the time placeholders.
//   - params: Additional placeholder values keyed without braces.
//
// RETURNS:
//   - The expanded file name. A name without placeholders is returned as is.
//
// EXAMPLE:
//   format: "Ausgabe_{date}.xlsx"
//   output: "Ausgabe_20240115.xlsx"
func ExpandFileName(format string, now time.Time, params map[string]string) string {
	if !strings.Contains(format, "{") {
		return format
	}

	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}
	if _, ok := replacements["{uuid}"]; !ok && strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}

	// One pass, so placeholders inside substituted values stay literal.
	placeholders := make([]string, 0, len(replacements))
	for placeholder := range replacements {
		placeholders = append(placeholders, placeholder)
	}
	sort.Strings(placeholders)

	pairs := make([]string, 0, 2*len(placeholders))
	for _, placeholder := range placeholders {
		pairs = append(pairs, placeholder, replacements[placeholder])
	}
	return strings.NewReplacer(pairs...).Replace(format)
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// DIAGNOSTIC LOG GENERATION
// =============================================================================

// LogHeader describes the run a diagnostic log belongs to.
type LogHeader struct {
	RunID      string
	Generated  time.Time
	InputFile  string
	LookupFile string
	Warnings   int
	Notices    int
}

// WriteDiagnosticLog writes one line per diagnostic to path, after a short
// header. An existing file is replaced.
//
// PARAMETERS:
//   - path: The log file to write.
//   - header: Run information written above the diagnostics.
//   - lines: The formatted diagnostics.
//
// RETURNS:
//   - An error if the file cannot be created or written.
func WriteDiagnosticLog(path string, header LogHeader, lines []string) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create diagnostic log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "# Excel Translation Tool - Validation Log\n"+
		"# Run:        %s\n"+
		"# Generated:  %s\n"+
		"# Input:      %s\n"+
		"# Lookup:     %s\n"+
		"# Findings:   %d (%d warnings, %d notices)\n",
		header.RunID,
		header.Generated.Format("2006-01-02 15:04:05"),
		header.InputFile,
		header.LookupFile,
		len(lines), header.Warnings, header.Notices)

	for _, line := range lines {
		writer.WriteString(line)
		writer.WriteByte('\n')
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush diagnostic log: %w", err)
	}
	return file.Close()
}
