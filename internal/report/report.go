// =============================================================================
// Excel Translation Tool - Run Report
// =============================================================================
//
// This module presents the outcome of a run to the user:
//   - the diagnostic log file, one line per diagnostic
//   - a colored console summary
//
// CONSOLE COLORS:
//   informational  cyan
//   warning        yellow
//   fatal error    red
//   success        green
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/excel-translation-tool/internal/converter"
	"github.com/ginjaninja78/excel-translation-tool/internal/types"
	"github.com/ginjaninja78/excel-translation-tool/pkg/utils"
)

// ANSI SGR sequences.
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

// Printer writes run summaries to a console.
type Printer struct {
	out   io.Writer
	color bool

	// Verbose prints every diagnostic, not only the summary line.
	Verbose bool
}

// NewPrinter creates a Printer. color false writes plain text.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	p.println(colorCyan, fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.println(colorYellow, fmt.Sprintf(format, args...))
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	p.println(colorGreen, fmt.Sprintf(format, args...))
}

// Fatal prints the terminating error of a run.
func (p *Printer) Fatal(err error) {
	p.println(colorRed, "Error: "+err.Error())
}

// Diagnostic prints one diagnostic in its severity color.
func (p *Printer) Diagnostic(d types.Diagnostic) {
	color := colorYellow
	if d.Severity == types.SeverityInfo {
		color = colorCyan
	}
	p.println(color, d.String())
}

func (p *Printer) println(color, line string) {
	if p.color {
		fmt.Fprintf(p.out, "%s%s%s\n", color, line, colorReset)
		return
	}
	fmt.Fprintln(p.out, line)
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// Emit writes the diagnostic log and prints the summary for a finished run.
//
// PARAMETERS:
//   - result: The run result.
//   - logPath: The diagnostic log file. It is only written when the run
//     produced diagnostics.
//
// RETURNS:
//   - An error if the log file cannot be written. The console summary is
//     printed either way.
func (p *Printer) Emit(result converter.Result, logPath string) error {
	var logErr error
	if len(result.Diagnostics) > 0 {
		logErr = WriteLog(logPath, result)
	}

	if result.Error != nil {
		p.Fatal(result.Error)
	}

	if len(result.Diagnostics) > 0 {
		if p.Verbose {
			for _, d := range result.Diagnostics {
				p.Diagnostic(d)
			}
		}
		p.Warn("%d issue(s) found (%d warnings, %d notices), see %s",
			len(result.Diagnostics), result.Stats.Warnings, result.Stats.Notices, logPath)
	}

	if logErr != nil {
		p.Fatal(logErr)
	}

	if result.Success {
		if result.OutputFile != "" {
			p.Success("Translation finished: %d row(s) written to %s", result.Stats.SourceRows, result.OutputFile)
		} else {
			p.Success("Check finished: %d row(s) read, nothing written", result.Stats.SourceRows)
		}
		if len(result.Diagnostics) == 0 {
			p.Success("No validation issues found")
		}
	}

	return logErr
}

// WriteLog writes the diagnostics of a run to path.
func WriteLog(path string, result converter.Result) error {
	lines := make([]string, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		lines[i] = d.String()
	}

	generated := result.StartedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	return utils.WriteDiagnosticLog(path, utils.LogHeader{
		RunID:      result.RunID,
		Generated:  generated,
		InputFile:  result.InputFile,
		LookupFile: result.LookupFile,
		Warnings:   result.Stats.Warnings,
		Notices:    result.Stats.Notices,
	}, lines)
}
