package termsheet

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed rules.schema.json
var ruleFileSchema string

type ruleFile struct {
	Version string      `yaml:"version"`
	Rules   []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Field       string   `yaml:"field"`
	Required    bool     `yaml:"required"`
	Description string   `yaml:"description"`
	Pattern     string   `yaml:"pattern"`
	ValidValues []string `yaml:"validValues"`
}

// LoadRuleTable reads a YAML rule file. An empty path yields DefaultRuleTable.
func LoadRuleTable(path string) (*RuleTable, error) {
	if path == "" {
		return DefaultRuleTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	return ParseRuleTable(data)
}

// ParseRuleTable decodes YAML rule definitions, checks them against the rule
// file schema and builds the table. Patterns are anchored when compiled.
func ParseRuleTable(data []byte) (*RuleTable, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}
	if err := checkRuleFileSchema(doc); err != nil {
		return nil, err
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("decode rule file: %w", err)
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for _, e := range rf.Rules {
		c, err := e.constraint()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", e.Field, err)
		}
		rules = append(rules, Rule{
			Field:       strings.TrimSpace(e.Field),
			Required:    e.Required,
			Description: e.Description,
			Constraint:  c,
		})
	}
	return NewRuleTable(rules...)
}

func (e ruleEntry) constraint() (Constraint, error) {
	switch {
	case e.Pattern != "" && len(e.ValidValues) > 0:
		re, err := CompilePattern(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		return PatternEnumConstraint{Pattern: re, Values: e.ValidValues}, nil
	case e.Pattern != "":
		re, err := CompilePattern(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		return PatternConstraint{Pattern: re}, nil
	case len(e.ValidValues) > 0:
		return EnumConstraint{Values: e.ValidValues}, nil
	default:
		return NoConstraint{}, nil
	}
}

func checkRuleFileSchema(doc interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(ruleFileSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("rule file schema check: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("rule file does not match schema: %s", strings.Join(errs, "; "))
	}
	return nil
}
