// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"

	ErrCodeDocumentIntakeFailed ErrorCode = "DOCUMENT_INTAKE_FAILED"
	ErrCodeDocumentTooLarge     ErrorCode = "DOCUMENT_TOO_LARGE"

	ErrCodeRulesLoadFailed ErrorCode = "RULES_LOAD_FAILED"

	ErrCodeReportExportFailed      ErrorCode = "REPORT_EXPORT_FAILED"
	ErrCodeUnsupportedExportFormat ErrorCode = "UNSUPPORTED_EXPORT_FORMAT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeProcessingTimeout ErrorCode = "PROCESSING_TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParsingFailedError is returned when job variables cannot be decoded.
func NewInputParsingFailedError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err.Error(), false)
}

// NewValidationFailedError is returned when job variables violate the input schema.
func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

// NewDocumentIntakeFailedError marks a run that could not produce any report.
func NewDocumentIntakeFailedError(documentName string, err error) *StandardError {
	return newError(
		ErrCodeDocumentIntakeFailed,
		"Document processing failed",
		fmt.Sprintf("documentName: %s, error: %s", documentName, err.Error()),
		false,
	)
}

// NewDocumentTooLargeError creates a non-retryable size error.
func NewDocumentTooLargeError(documentName string, size, limit int64) *StandardError {
	return newError(
		ErrCodeDocumentTooLarge,
		"Document exceeds the maximum upload size",
		fmt.Sprintf("documentName: %s, size: %d, limit: %d", documentName, size, limit),
		false,
	)
}

// NewRulesLoadFailedError wraps a rule table load failure.
func NewRulesLoadFailedError(path string, err error) *StandardError {
	return newError(
		ErrCodeRulesLoadFailed,
		"Validation rules could not be loaded",
		fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		false,
	)
}

// NewReportExportFailedError creates a non-retryable export error.
func NewReportExportFailedError(format string, err error) *StandardError {
	return newError(
		ErrCodeReportExportFailed,
		"Validation report export failed",
		fmt.Sprintf("format: %s, error: %s", format, err.Error()),
		false,
	)
}

// NewUnsupportedExportFormatError creates a non-retryable format error.
func NewUnsupportedExportFormatError(format string) *StandardError {
	return newError(
		ErrCodeUnsupportedExportFormat,
		"Unsupported export format",
		fmt.Sprintf("format: %s", format),
		false,
	)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(
		ErrCodeNotificationSendFailed,
		"Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		true,
	)
}

// NewProcessingTimeoutError creates a retryable timeout error.
func NewProcessingTimeoutError(operation string, err error) *StandardError {
	return newError(
		ErrCodeProcessingTimeout,
		fmt.Sprintf("Operation '%s' timed out", operation),
		err.Error(),
		true,
	)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes modelled in the BPMN diagrams.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputParsingFailed:      "INPUT_PARSING_FAILED",
	ErrCodeValidationFailed:        "VALIDATION_FAILED",
	ErrCodeDocumentIntakeFailed:    "DOCUMENT_PROCESSING_FAILED",
	ErrCodeDocumentTooLarge:        "DOCUMENT_PROCESSING_FAILED",
	ErrCodeRulesLoadFailed:         "RULES_LOAD_FAILED",
	ErrCodeReportExportFailed:      "REPORT_EXPORT_FAILED",
	ErrCodeUnsupportedExportFormat: "REPORT_EXPORT_FAILED",
	ErrCodeNotificationSendFailed:  "NOTIFICATION_SEND_FAILED",
	ErrCodeProcessingTimeout:       "PROCESSING_TIMEOUT",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeNotificationSendFailed, "EXTERNAL_SERVICE_ERROR":
		return 3
	case ErrCodeProcessingTimeout, "TIMEOUT_ERROR":
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError, or wraps it with fallbackCode.
func AsStandardError(err error, fallbackCode ErrorCode, fallbackMessage string) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(fallbackCode, fallbackMessage, err.Error(), false)
}

// CodeOf returns the error code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) string {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return string(ErrCodeInternal)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DOCUMENT"):
		return "INTAKE"
	case strings.Contains(codeStr, "RULES"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "EXPORT"):
		return "EXPORT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
