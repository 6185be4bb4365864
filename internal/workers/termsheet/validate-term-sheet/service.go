package validatetermsheet

import (
	"context"

	"termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/common/metrics"
	"termsheet-workers/internal/common/observability"
	"termsheet-workers/internal/intake"
	"termsheet-workers/internal/termsheet"
)

type Service struct {
	config    *Config
	logger    logger.Logger
	validator *termsheet.Validator
	obs       *observability.Observability
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		validator: termsheet.NewValidator(deps.Rules,
			termsheet.WithDelay(termsheet.FixedDelay(config.AnalysisDelay)),
			termsheet.WithThreshold(config.PassThreshold),
			termsheet.WithLogger(deps.Logger),
		),
		obs: deps.Observability,
	}
}

// Execute validates the document text. A below-threshold run is a normal
// result with status error, not a failure.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	docType := input.DocumentType
	if docType == "" {
		docType = intake.DetermineDocumentType(input.DocumentName)
	}

	s.logger.Info("Validating term sheet", map[string]interface{}{
		"documentName": input.DocumentName,
		"documentType": string(docType),
		"textLength":   len(input.DocumentText),
		"rules":        s.validator.Table().Len(),
	})

	result, err := s.validator.ValidateDocument(ctx, input.DocumentText, input.DocumentName, docType)
	if err != nil {
		return nil, errors.NewProcessingTimeoutError("validate term sheet", err)
	}

	metrics.ValidationsTotal.WithLabelValues(string(result.Status)).Inc()
	metrics.OverallScore.Observe(result.OverallScore)
	for _, f := range result.Fields {
		metrics.RecordVerdict(f.Field, f.IsValid)
	}
	s.obs.RecordValidation(ctx, string(result.Status), result.OverallScore)

	s.logger.Info("Term sheet validated", map[string]interface{}{
		"resultId":      result.ID,
		"documentName":  result.DocumentName,
		"status":        string(result.Status),
		"overallScore":  result.OverallScore,
		"invalidFields": len(result.InvalidFields()),
	})

	return &Output{Result: result}, nil
}
