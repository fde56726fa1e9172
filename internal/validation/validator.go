// =============================================================================
// Excel Translation Tool - Validation Engine
// =============================================================================
//
// This module checks row contents against the built-in rule set. It runs
// over source rows during ingestion and over translation table entries while
// the lookup map is built.
//
// CHECKS (all run, none short-circuit):
//   1. Pattern: every non-empty value whose column has a rule must match it.
//   2. Sentinel: the category column equal to the "empty" marker is reported
//      as information only.
//   3. Numeric: the price column must parse as a decimal number once a comma
//      decimal separator is replaced by a period.
//   4. Date order: start date must not be after end date when both parse.
//
// ERROR HANDLING:
//   - Findings are appended to a Diagnostics collector, never returned as
//     errors and never stop processing.
//   - Values are never modified. Validate only adds the
//     _HasValidationErrors marker to the row.
//
// =============================================================================

package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options names the columns used by the ad-hoc checks.
type Options struct {
	// PriceColumn must hold a decimal number.
	PriceColumn string

	// CategoryColumn is compared against CategorySentinel.
	CategoryColumn string

	// CategorySentinel is the reserved "no category" marker.
	CategorySentinel string

	// StartDateColumn and EndDateColumn form the ordered date pair.
	StartDateColumn string
	EndDateColumn   string

	// DateLayouts are tried in order when parsing dates.
	DateLayouts []string
}

// DefaultOptions returns the built-in column names.
func DefaultOptions() Options {
	return Options{
		PriceColumn:      "Preis",
		CategoryColumn:   "Kategorie",
		CategorySentinel: "LEER",
		StartDateColumn:  "StartDatum",
		EndDateColumn:    "EndDatum",
		DateLayouts:      []string{"02.01.2006", "2.1.2006"},
	}
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine applies a RuleSet and the ad-hoc checks to rows.
type Engine struct {
	rules   *RuleSet
	options Options
}

// NewEngine creates an Engine with the default options.
func NewEngine(rules *RuleSet) *Engine {
	return NewEngineWithOptions(rules, DefaultOptions())
}

// NewEngineWithOptions creates an Engine with custom options.
func NewEngineWithOptions(rules *RuleSet, options Options) *Engine {
	return &Engine{
		rules:   rules,
		options: options,
	}
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() *RuleSet {
	return e.rules
}

// Validate runs every check against row and, when any check fails, marks the
// row with _HasValidationErrors. Provenance comes from row.Number.
//
// RETURNS:
//   - true if at least one check failed.
func (e *Engine) Validate(row *types.Row, stage types.Stage, diags *types.Diagnostics) bool {
	failed := e.Check(row, stage, diags)
	if failed {
		row.Mark(types.KeyHasValidationErrors)
	}
	return failed
}

// Check runs every check against row without touching it.
func (e *Engine) Check(row *types.Row, stage types.Stage, diags *types.Diagnostics) bool {
	failed := false

	for _, column := range row.Keys() {
		if types.IsReserved(column) {
			continue
		}
		if e.CheckField(column, row.Value(column), row.Number, stage, diags) {
			failed = true
		}
	}

	if e.checkDateOrder(row, stage, diags) {
		failed = true
	}

	return failed
}

// CheckField runs the single-field checks (pattern, sentinel, numeric) for
// one value. Empty values are never checked.
//
// RETURNS:
//   - true if the value failed a check. The sentinel check never fails.
func (e *Engine) CheckField(column, value string, rowNumber int, stage types.Stage, diags *types.Diagnostics) bool {
	if value == "" {
		return false
	}

	failed := false

	// =========================================================================
	// PATTERN RULES
	// =========================================================================

	if rule := e.rules.ForColumn(column); rule != nil && !rule.Match(value) {
		diags.Warnf(stage, rowNumber, column, "value '%s' does not match rule %s", value, rule.Name)
		failed = true
	}

	// =========================================================================
	// SENTINEL
	// =========================================================================

	if strings.EqualFold(column, e.options.CategoryColumn) && value == e.options.CategorySentinel {
		diags.Infof(stage, rowNumber, column, "category is the reserved marker '%s'", value)
	}

	// =========================================================================
	// NUMERIC
	// =========================================================================

	if strings.EqualFold(column, e.options.PriceColumn) {
		if msg := validatePrice(value); msg != "" {
			diags.Warnf(stage, rowNumber, column, "%s", msg)
			failed = true
		}
	}

	return failed
}

// ValidKey reports whether a translation table key matches the key rule.
// A rule set without a key rule accepts everything.
func (e *Engine) ValidKey(key string) bool {
	if e.rules.Key() == nil {
		return true
	}
	return e.rules.Key().Match(key)
}

// checkDateOrder reports an error when both dates parse and start > end.
func (e *Engine) checkDateOrder(row *types.Row, stage types.Stage, diags *types.Diagnostics) bool {
	startRaw := lookupFold(row, e.options.StartDateColumn)
	endRaw := lookupFold(row, e.options.EndDateColumn)
	if startRaw == "" || endRaw == "" {
		return false
	}

	start, ok := parseDate(startRaw, e.options.DateLayouts)
	if !ok {
		return false
	}
	end, ok := parseDate(endRaw, e.options.DateLayouts)
	if !ok {
		return false
	}

	if start.After(end) {
		diags.Warnf(stage, row.Number, e.options.StartDateColumn,
			"start date '%s' is after end date '%s'", startRaw, endRaw)
		return true
	}
	return false
}

// =============================================================================
// HELPERS
// =============================================================================

// decimalPattern is plain positional notation. ParseFloat alone would also
// take NaN, Inf, exponents and hex floats.
var decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)

// validatePrice returns a message when value is not a decimal number.
func validatePrice(value string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if !decimalPattern.MatchString(normalized) {
		return "value '" + value + "' is not a valid number"
	}
	if _, err := strconv.ParseFloat(normalized, 64); err != nil {
		return "value '" + value + "' is not a valid number"
	}
	return ""
}

// parseDate tries each layout in order.
func parseDate(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// lookupFold returns the value of the first column whose name equals name
// case-insensitively.
func lookupFold(row *types.Row, name string) string {
	if name == "" {
		return ""
	}
	if v, ok := row.Get(name); ok {
		return v
	}
	for _, column := range row.Keys() {
		if strings.EqualFold(column, name) {
			return row.Value(column)
		}
	}
	return ""
}
