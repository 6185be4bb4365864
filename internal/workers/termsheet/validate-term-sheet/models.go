package validatetermsheet

import (
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/common/observability"
	"termsheet-workers/internal/termsheet"
)

type Input struct {
	DocumentText string                 `json:"documentText"`
	DocumentName string                 `json:"documentName"`
	DocumentType termsheet.DocumentType `json:"documentType,omitempty"`
}

type Output struct {
	Result *termsheet.ValidationResult `json:"validationResult"`
}

// Variables is the completion payload: the full report plus its status and
// score lifted out for gateway conditions.
func (o *Output) Variables() (map[string]interface{}, error) {
	report, err := o.Result.ToMap()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"validationResult": report,
		"validationStatus": string(o.Result.Status),
		"overallScore":     o.Result.OverallScore,
	}, nil
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Rules         *termsheet.RuleTable
	Observability *observability.Observability
}
