// Package termsheet extracts "KEY: VALUE" fields from term-sheet text and
// validates them against an immutable rule table.
package termsheet

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DocumentType is the closed set of document kinds the intake step reports.
type DocumentType string

const (
	DocumentTypePDF   DocumentType = "PDF"
	DocumentTypeDOCX  DocumentType = "DOCX"
	DocumentTypeImage DocumentType = "Image"
	DocumentTypeExcel DocumentType = "Excel"
	DocumentTypeText  DocumentType = "Text"
)

// DocumentTypes lists every DocumentType in a stable order.
var DocumentTypes = []DocumentType{
	DocumentTypePDF,
	DocumentTypeDOCX,
	DocumentTypeImage,
	DocumentTypeExcel,
	DocumentTypeText,
}

// ParseDocumentType accepts any casing of a known type name.
func ParseDocumentType(s string) (DocumentType, bool) {
	for _, dt := range DocumentTypes {
		if strings.EqualFold(string(dt), strings.TrimSpace(s)) {
			return dt, true
		}
	}
	return "", false
}

// Status is the lifecycle state of a validation run. The engine only emits
// StatusSuccess and StatusError; the others belong to callers tracking uploads.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// PassThreshold is the score a report must strictly exceed to be a success.
// Notification tone uses the same boundary.
const PassThreshold = 0.7

// StatusFor maps a score to success or error using PassThreshold.
func StatusFor(score float64) Status {
	return statusFor(score, PassThreshold)
}

func statusFor(score, threshold float64) Status {
	if score > threshold {
		return StatusSuccess
	}
	return StatusError
}

// FieldValidation is the verdict for one field.
type FieldValidation struct {
	Field      string  `json:"field"`
	Value      string  `json:"value"`
	Expected   string  `json:"expected,omitempty"`
	IsValid    bool    `json:"isValid"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message,omitempty"`
}

// ValidationResult is the report for one document.
type ValidationResult struct {
	ID             string            `json:"id"`
	Status         Status            `json:"status"`
	OverallScore   float64           `json:"overallScore"`
	Fields         []FieldValidation `json:"fields"`
	Timestamp      time.Time         `json:"timestamp"`
	DocumentName   string            `json:"documentName"`
	DocumentType   DocumentType      `json:"documentType"`
	ProcessingTime float64           `json:"processingTime"`
	ErrorMessage   string            `json:"errorMessage,omitempty"`
}

// Passed reports whether the run scored above the threshold.
func (r *ValidationResult) Passed() bool {
	return r.Status == StatusSuccess
}

// InvalidFields returns the fields that failed, in report order.
func (r *ValidationResult) InvalidFields() []FieldValidation {
	var out []FieldValidation
	for _, f := range r.Fields {
		if !f.IsValid {
			out = append(out, f)
		}
	}
	return out
}

// ToMap converts the report into a job-variable friendly map.
func (r *ValidationResult) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResultFromVariable decodes a report previously stored as a job variable.
func ResultFromVariable(v interface{}) (*ValidationResult, error) {
	if v == nil {
		return nil, fmt.Errorf("validation result is empty")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode validation result: %w", err)
	}
	var r ValidationResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode validation result: %w", err)
	}
	return &r, nil
}
