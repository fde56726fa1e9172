// =============================================================================
// Excel Translation Tool - Validation Rules
// =============================================================================
//
// The rule registry is a fixed, built-in set of named patterns. It is built
// once (DefaultRuleSet) and handed to the Engine; nothing in this package
// keeps it in global state.
//
// BUILT-IN RULES:
//   | Rule         | Columns                                  | Accepts                |
//   |--------------|------------------------------------------|------------------------|
//   | Name         | Name, Vorname, Nachname                  | letters, space . ' -   |
//   | Email        | Email, E-Mail                            | local@domain.tld       |
//   | Telefon      | Telefon, Telefonnummer, Mobil            | +49 (0)30 123-456      |
//   | Postleitzahl | Postleitzahl, PLZ                        | five digits            |
//   | Datum        | Datum, StartDatum, EndDatum              | d.m.yyyy               |
//
// Column names are matched case-insensitively.
//
// =============================================================================

package validation

import (
	"regexp"
	"strings"
)

// Rule is a named pattern applied to the columns it lists.
type Rule struct {
	// Name identifies the rule in diagnostics.
	Name string

	// Pattern must match the whole value.
	Pattern *regexp.Regexp

	// Columns are the column names the rule applies to.
	Columns []string
}

// Match reports whether value satisfies the rule.
func (r *Rule) Match(value string) bool {
	return r.Pattern.MatchString(value)
}

// RuleSet is an immutable registry of rules indexed by column name.
type RuleSet struct {
	rules    []*Rule
	byColumn map[string]*Rule

	// key validates translation table source keys.
	key *Rule
}

// NewRuleSet indexes the given rules by column. When two rules claim the
// same column the later one wins.
func NewRuleSet(key *Rule, rules ...*Rule) *RuleSet {
	s := &RuleSet{
		rules:    rules,
		byColumn: make(map[string]*Rule),
		key:      key,
	}
	for _, rule := range rules {
		for _, col := range rule.Columns {
			s.byColumn[strings.ToLower(col)] = rule
		}
	}
	return s
}

// DefaultRuleSet returns the built-in rule registry.
func DefaultRuleSet() *RuleSet {
	key := &Rule{
		Name:    "Schluessel",
		Pattern: regexp.MustCompile(`^[\p{L}\p{N} ._-]{1,100}$`),
	}
	return NewRuleSet(key,
		&Rule{
			Name:    "Name",
			Pattern: regexp.MustCompile(`^\p{L}[\p{L} .'-]{0,99}$`),
			Columns: []string{"Name", "Vorname", "Nachname"},
		},
		&Rule{
			Name:    "Email",
			Pattern: regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`),
			Columns: []string{"Email", "E-Mail"},
		},
		&Rule{
			Name:    "Telefon",
			Pattern: regexp.MustCompile(`^\+?[0-9][0-9 /()-]{4,24}$`),
			Columns: []string{"Telefon", "Telefonnummer", "Mobil"},
		},
		&Rule{
			Name:    "Postleitzahl",
			Pattern: regexp.MustCompile(`^[0-9]{5}$`),
			Columns: []string{"Postleitzahl", "PLZ"},
		},
		&Rule{
			Name:    "Datum",
			Pattern: regexp.MustCompile(`^(0?[1-9]|[12][0-9]|3[01])\.(0?[1-9]|1[0-2])\.[0-9]{4}$`),
			Columns: []string{"Datum", "StartDatum", "EndDatum"},
		},
	)
}

// ForColumn returns the rule for a column, or nil.
func (s *RuleSet) ForColumn(column string) *Rule {
	return s.byColumn[strings.ToLower(column)]
}

// Rules returns the registered rules in registration order.
func (s *RuleSet) Rules() []*Rule {
	out := make([]*Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Key returns the rule used for translation table keys.
func (s *RuleSet) Key() *Rule {
	return s.key
}
