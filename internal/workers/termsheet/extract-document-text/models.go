package extractdocumenttext

import (
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/intake"
	"termsheet-workers/internal/termsheet"
)

type Input struct {
	DocumentName string `json:"documentName"`
	Content      []byte `json:"documentContent"`
}

type Output struct {
	DocumentText string                 `json:"documentText"`
	DocumentType termsheet.DocumentType `json:"documentType"`
}

type ServiceDependencies struct {
	Logger    logger.Logger
	Extractor intake.Extractor
}
