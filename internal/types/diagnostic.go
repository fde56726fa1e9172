package types

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic. There is no error level: anything that must
// stop the run is returned as a Go error instead.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARN"
	}
	return "INFO"
}

// Stage names the pipeline step that produced a diagnostic.
type Stage string

const (
	StageLookup    Stage = "lookup"
	StageSource    Stage = "source"
	StageTranslate Stage = "translate"
)

// Diagnostic is one recoverable issue found during a run.
type Diagnostic struct {
	Severity Severity
	Stage    Stage

	// Row is the spreadsheet row number (1 is the header), 0 when the issue
	// concerns the file as a whole.
	Row int

	// Column is the column name, empty when not column specific.
	Column string

	Message string
}

// String formats the diagnostic as one log line, e.g.
// "[WARN] source row 3, column 'Email': invalid value 'foo' (rule Email)".
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", d.Severity, d.Stage)
	if d.Row > 0 {
		fmt.Fprintf(&b, " row %d", d.Row)
	}
	if d.Column != "" {
		if d.Row > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, " column '%s'", d.Column)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Diagnostics collects the diagnostics of one run in order. The zero value
// is ready to use. It is not safe for concurrent use.
type Diagnostics struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (c *Diagnostics) Add(d Diagnostic) {
	c.items = append(c.items, d)
}

// Warnf appends a warning built from a format string.
func (c *Diagnostics) Warnf(stage Stage, row int, column, format string, args ...any) {
	c.Add(Diagnostic{
		Severity: SeverityWarning,
		Stage:    stage,
		Row:      row,
		Column:   column,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Infof appends an informational diagnostic built from a format string.
func (c *Diagnostics) Infof(stage Stage, row int, column, format string, args ...any) {
	c.Add(Diagnostic{
		Severity: SeverityInfo,
		Stage:    stage,
		Row:      row,
		Column:   column,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Items returns a copy of the collected diagnostics.
func (c *Diagnostics) Items() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of collected diagnostics.
func (c *Diagnostics) Len() int {
	return len(c.items)
}

// Count returns the number of diagnostics with the given severity.
func (c *Diagnostics) Count(sev Severity) int {
	n := 0
	for _, d := range c.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Lines formats every diagnostic with String.
func (c *Diagnostics) Lines() []string {
	lines := make([]string, len(c.items))
	for i, d := range c.items {
		lines[i] = d.String()
	}
	return lines
}
