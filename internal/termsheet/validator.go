package termsheet

import (
	"context"
	"math"
	"time"

	"termsheet-workers/internal/common/logger"

	"github.com/google/uuid"
)

// Validator checks extracted fields against a RuleTable. It holds no mutable
// state and may be shared between goroutines.
type Validator struct {
	table          *RuleTable
	delay          Delay
	now            func() time.Time
	threshold      float64
	log            logger.Logger
	processingTime func(time.Duration) float64
}

// Option configures a Validator.
type Option func(*Validator)

// WithDelay replaces the simulated analysis latency.
func WithDelay(d Delay) Option {
	return func(v *Validator) {
		if d != nil {
			v.delay = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithThreshold overrides PassThreshold.
func WithThreshold(threshold float64) Option {
	return func(v *Validator) { v.threshold = threshold }
}

func WithLogger(l logger.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

// WithProcessingTime sets how the measured run time is reported.
func WithProcessingTime(fn func(time.Duration) float64) Option {
	return func(v *Validator) {
		if fn != nil {
			v.processingTime = fn
		}
	}
}

func NewValidator(table *RuleTable, opts ...Option) *Validator {
	if table == nil {
		table = DefaultRuleTable()
	}
	v := &Validator{
		table:          table,
		delay:          FixedDelay(DefaultAnalysisDelay),
		now:            time.Now,
		threshold:      PassThreshold,
		log:            logger.NewNoOpLogger(),
		processingTime: seconds,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

// Table returns the rule table the validator checks against.
func (v *Validator) Table() *RuleTable { return v.table }

// Threshold returns the pass threshold in use.
func (v *Validator) Threshold() float64 { return v.threshold }

// ValidateField returns the verdict for a single field. Fields without a rule
// are accepted at reduced confidence.
func (v *Validator) ValidateField(field, value string) FieldValidation {
	rule, ok := v.table.Lookup(field)
	if !ok {
		return FieldValidation{
			Field:      field,
			Value:      value,
			IsValid:    true,
			Confidence: confidenceUnknown,
			Message:    msgUnknownField,
		}
	}

	res := rule.Constraint.check(value)
	return FieldValidation{
		Field:      field,
		Value:      value,
		IsValid:    res.valid,
		Confidence: res.confidence,
		Message:    res.message,
	}
}

// ValidateDocument waits out the analysis delay, extracts fields from text and
// builds the report. Extracted fields come first in extraction order, followed
// by one entry per missing required rule in table order. The only error is
// ctx ending during the delay.
func (v *Validator) ValidateDocument(ctx context.Context, text, documentName string, documentType DocumentType) (*ValidationResult, error) {
	start := v.now()

	if err := v.delay.Wait(ctx); err != nil {
		return nil, err
	}

	extracted := ExtractFields(text)
	fields := make([]FieldValidation, 0, extracted.Len()+v.table.RequiredCount())
	for _, key := range extracted.Keys() {
		value, _ := extracted.Get(key)
		fields = append(fields, v.ValidateField(key, value))
	}

	for _, rule := range v.table.Required() {
		if _, present := extracted.Get(rule.Field); present {
			continue
		}
		fields = append(fields, FieldValidation{
			Field:      rule.Field,
			Value:      "",
			IsValid:    false,
			Confidence: 0,
			Message:    msgMissingField,
		})
	}

	score := v.Score(fields)
	end := v.now()

	result := &ValidationResult{
		ID:             uuid.NewString(),
		Status:         statusFor(score, v.threshold),
		OverallScore:   score,
		Fields:         fields,
		Timestamp:      end.UTC(),
		DocumentName:   documentName,
		DocumentType:   documentType,
		ProcessingTime: v.processingTime(end.Sub(start)),
	}

	v.log.Debug("term sheet validated", map[string]interface{}{
		"resultId":       result.ID,
		"documentName":   documentName,
		"documentType":   string(documentType),
		"fieldCount":     len(fields),
		"extractedCount": extracted.Len(),
		"overallScore":   score,
		"status":         string(result.Status),
	})

	return result, nil
}

// Score is the confidence achieved on required rules divided by the number of
// required rules, clamped to [0,1]. Only valid fields backed by a required rule
// count, so optional and unknown fields never move the score. A table with no
// required rules scores 0.
func (v *Validator) Score(fields []FieldValidation) float64 {
	required := v.table.RequiredCount()
	if required == 0 {
		return 0
	}

	var sum float64
	for _, f := range fields {
		if !f.IsValid {
			continue
		}
		if rule, ok := v.table.Lookup(f.Field); ok && rule.Required {
			sum += f.Confidence
		}
	}

	score := sum / float64(required)
	switch {
	case score > 1:
		return 1
	case score < 0:
		return 0
	}
	return score
}
