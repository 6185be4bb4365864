package exportvalidationreport

import (
	"time"

	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/export"
	"termsheet-workers/internal/termsheet"
)

type Input struct {
	Result *termsheet.ValidationResult `json:"validationResult"`
	Format export.Format               `json:"format"`
}

type Output struct {
	FileName    string `json:"reportFileName"`
	ContentType string `json:"reportContentType"`
	Content     []byte `json:"reportContent"`
}

type ServiceDependencies struct {
	Logger logger.Logger
	Now    func() time.Time
}
