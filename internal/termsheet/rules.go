package termsheet

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	msgUnknownField   = "Field not in standard validation rules but may be valid"
	msgFormatMismatch = "Value doesn't match expected format"
	msgMissingField   = "Required field is missing"

	confidenceUnknown  = 0.7
	confidenceMismatch = 0.3
	confidenceNoValue  = 0.2
	confidenceFull     = 1.0
)

// Constraint restricts the values a rule accepts. The set of implementations
// is closed: NoConstraint, PatternConstraint, EnumConstraint and PatternEnumConstraint.
type Constraint interface {
	check(value string) verdict
	// Describe renders the constraint for listings and exports.
	Describe() string
}

type verdict struct {
	valid      bool
	confidence float64
	message    string
}

var pass = verdict{valid: true, confidence: confidenceFull}

// NoConstraint accepts any non-empty value.
type NoConstraint struct{}

func (NoConstraint) check(string) verdict { return pass }
func (NoConstraint) Describe() string     { return "any value" }

// PatternConstraint requires Pattern to match. Build it with CompilePattern so
// the expression is anchored at both ends.
type PatternConstraint struct {
	Pattern *regexp.Regexp
}

func (c PatternConstraint) check(value string) verdict {
	if !c.Pattern.MatchString(value) {
		return verdict{confidence: confidenceMismatch, message: msgFormatMismatch}
	}
	return pass
}

func (c PatternConstraint) Describe() string { return "matches " + c.Pattern.String() }

// EnumConstraint requires the value to contain one of Values, ignoring case.
type EnumConstraint struct {
	Values []string
}

func (c EnumConstraint) check(value string) verdict {
	upper := strings.ToUpper(value)
	for _, v := range c.Values {
		if strings.Contains(upper, strings.ToUpper(v)) {
			return pass
		}
	}
	return verdict{
		confidence: confidenceNoValue,
		message:    "Value should contain one of: " + strings.Join(c.Values, ", "),
	}
}

func (c EnumConstraint) Describe() string { return "contains one of " + strings.Join(c.Values, ", ") }

// PatternEnumConstraint applies the pattern first; the enum check only refines
// a value that already matched.
type PatternEnumConstraint struct {
	Pattern *regexp.Regexp
	Values  []string
}

func (c PatternEnumConstraint) check(value string) verdict {
	if v := (PatternConstraint{Pattern: c.Pattern}).check(value); !v.valid {
		return v
	}
	return EnumConstraint{Values: c.Values}.check(value)
}

func (c PatternEnumConstraint) Describe() string {
	return PatternConstraint{Pattern: c.Pattern}.Describe() + " and " + EnumConstraint{Values: c.Values}.Describe()
}

// CompilePattern compiles expr, wrapping it in ^(?:...)$ unless it is already anchored.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(expr, "^") || !strings.HasSuffix(expr, "$") {
		expr = "^(?:" + expr + ")$"
	}
	return regexp.Compile(expr)
}

func mustPattern(expr string) *regexp.Regexp {
	re, err := CompilePattern(expr)
	if err != nil {
		panic(err)
	}
	return re
}

// Rule describes one canonical field.
type Rule struct {
	Field       string
	Required    bool
	Description string
	Constraint  Constraint
}

// RuleTable is an immutable, ordered set of rules keyed by field name.
// It is safe for concurrent use.
type RuleTable struct {
	rules    []Rule
	index    map[string]int
	required []int
}

// NewRuleTable validates rules and freezes them in the given order. Field names
// must be non-empty, upper case, free of surrounding space and unique.
func NewRuleTable(rules ...Rule) (*RuleTable, error) {
	t := &RuleTable{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for i, r := range rules {
		if r.Field == "" {
			return nil, fmt.Errorf("rule %d: field name is empty", i)
		}
		if strings.TrimSpace(r.Field) != r.Field {
			return nil, fmt.Errorf("rule %q: field name has surrounding whitespace", r.Field)
		}
		if strings.ToUpper(r.Field) != r.Field {
			return nil, fmt.Errorf("rule %q: field name must be upper case", r.Field)
		}
		if _, dup := t.index[r.Field]; dup {
			return nil, fmt.Errorf("rule %q: duplicate field name", r.Field)
		}
		if err := checkConstraint(r.Constraint); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Field, err)
		}
		if r.Constraint == nil {
			r.Constraint = NoConstraint{}
		}

		t.index[r.Field] = len(t.rules)
		if r.Required {
			t.required = append(t.required, len(t.rules))
		}
		t.rules = append(t.rules, r)
	}
	return t, nil
}

func checkConstraint(c Constraint) error {
	switch c := c.(type) {
	case PatternConstraint:
		if c.Pattern == nil {
			return fmt.Errorf("pattern constraint without a pattern")
		}
	case PatternEnumConstraint:
		if c.Pattern == nil {
			return fmt.Errorf("pattern constraint without a pattern")
		}
		if len(c.Values) == 0 {
			return fmt.Errorf("enum constraint without values")
		}
	case EnumConstraint:
		if len(c.Values) == 0 {
			return fmt.Errorf("enum constraint without values")
		}
	}
	return nil
}

// Lookup returns the rule for an upper-case field name.
func (t *RuleTable) Lookup(field string) (Rule, bool) {
	i, ok := t.index[field]
	if !ok {
		return Rule{}, false
	}
	return t.rules[i], true
}

// Rules returns a copy of all rules in table order.
func (t *RuleTable) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Required returns the required rules in table order.
func (t *RuleTable) Required() []Rule {
	out := make([]Rule, 0, len(t.required))
	for _, i := range t.required {
		out = append(out, t.rules[i])
	}
	return out
}

func (t *RuleTable) RequiredCount() int { return len(t.required) }

func (t *RuleTable) Len() int { return len(t.rules) }

const isoDate = `^\d{4}-\d{2}-\d{2}$`
const moneyAmount = `^([A-Z]{3})\s\d{1,3}(,\d{3})*(\.\d+)?$`

var defaultTable = func() *RuleTable {
	date := PatternConstraint{Pattern: mustPattern(isoDate)}
	money := PatternConstraint{Pattern: mustPattern(moneyAmount)}

	t, err := NewRuleTable(
		Rule{Field: "TRADE DATE", Required: true, Constraint: date,
			Description: "Date when the trade was executed (YYYY-MM-DD)"},
		Rule{Field: "EFFECTIVE DATE", Required: true, Constraint: date,
			Description: "Date when the trade becomes effective (YYYY-MM-DD)"},
		Rule{Field: "MATURITY DATE", Required: true, Constraint: date,
			Description: "Date when the trade matures (YYYY-MM-DD)"},
		Rule{Field: "TERMINATION DATE", Required: true, Constraint: date,
			Description: "Date when the trade terminates (YYYY-MM-DD)"},
		Rule{Field: "NOTIONAL AMOUNT", Required: true, Constraint: money,
			Description: "Principal amount of the trade with currency code"},
		Rule{Field: "NOTIONAL", Required: true, Constraint: money,
			Description: "Principal amount of the trade with currency code"},
		Rule{Field: "CURRENCY PAIR", Constraint: PatternConstraint{Pattern: mustPattern(`^[A-Z]{3}/[A-Z]{3}$`)},
			Description: "Currency pair for FX trades (e.g., EUR/USD)"},
		Rule{Field: "FIXED RATE", Constraint: PatternConstraint{Pattern: mustPattern(`^(\d+(\.\d+)?)%.*$`)},
			Description: "Fixed interest rate percentage"},
		Rule{Field: "FLOATING RATE",
			Constraint:  EnumConstraint{Values: []string{"LIBOR", "EURIBOR", "SOFR", "SONIA", "EONIA"}},
			Description: "Reference rate for floating payments"},
		Rule{Field: "DEALER", Required: true, Constraint: NoConstraint{},
			Description: "Financial institution acting as dealer"},
		Rule{Field: "COUNTERPARTY", Required: true, Constraint: NoConstraint{},
			Description: "Entity on the other side of the trade"},
		Rule{Field: "SETTLEMENT",
			Constraint:  EnumConstraint{Values: []string{"Cash", "Physical", "Cash settlement", "Physical settlement"}},
			Description: "How the trade will be settled"},
	)
	if err != nil {
		panic(err)
	}
	return t
}()

// DefaultRuleTable returns the built-in term-sheet rules.
func DefaultRuleTable() *RuleTable {
	return defaultTable
}
