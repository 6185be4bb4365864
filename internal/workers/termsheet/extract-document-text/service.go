package extractdocumenttext

import (
	"context"
	stderrors "errors"

	"termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/intake"
)

type Service struct {
	config    *Config
	logger    logger.Logger
	extractor intake.Extractor
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	extractor := deps.Extractor
	if extractor == nil {
		extractor = intake.NewMockExtractor(
			intake.WithMaxBytes(config.MaxDocumentBytes),
			intake.WithLogger(deps.Logger),
		)
	}
	return &Service{
		config:    config,
		logger:    deps.Logger,
		extractor: extractor,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	size := int64(len(input.Content))
	if s.config.MaxDocumentBytes > 0 && size > s.config.MaxDocumentBytes {
		return nil, errors.NewDocumentTooLargeError(input.DocumentName, size, s.config.MaxDocumentBytes)
	}

	doc := intake.Document{Name: input.DocumentName, Content: input.Content}
	docType := doc.Type()

	s.logger.Info("Extracting document text", map[string]interface{}{
		"documentName": input.DocumentName,
		"documentType": string(docType),
		"sizeBytes":    size,
	})

	text, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		switch {
		case stderrors.Is(err, intake.ErrDocumentTooLarge):
			return nil, errors.NewDocumentTooLargeError(input.DocumentName, size, s.config.MaxDocumentBytes)
		case ctx.Err() != nil:
			return nil, errors.NewProcessingTimeoutError("extract document text", err)
		default:
			return nil, errors.NewDocumentIntakeFailedError(input.DocumentName, err)
		}
	}

	s.logger.Info("Document text extracted", map[string]interface{}{
		"documentName": input.DocumentName,
		"textLength":   len(text),
	})

	return &Output{DocumentText: text, DocumentType: docType}, nil
}
