package generatesamplereport

import (
	"time"

	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/termsheet"
)

type Input struct {
	DocumentName string `json:"documentName"`
}

type Output struct {
	Result *termsheet.ValidationResult `json:"validationResult"`
}

type ServiceDependencies struct {
	Logger logger.Logger
	Now    func() time.Time
}
