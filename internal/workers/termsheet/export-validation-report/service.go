package exportvalidationreport

import (
	"context"
	stderrors "errors"
	"time"

	"termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/export"
)

type Service struct {
	config *Config
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		config: config,
		logger: deps.Logger,
		now:    now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	format := input.Format
	if format == "" {
		format = s.config.DefaultFormat
	}

	content, err := export.Render(format, input.Result)
	if err != nil {
		var unsupported *export.UnsupportedFormatError
		if stderrors.As(err, &unsupported) {
			return nil, errors.NewUnsupportedExportFormatError(unsupported.Format)
		}
		return nil, errors.NewReportExportFailedError(string(format), err)
	}

	out := &Output{
		FileName:    export.FileName(input.Result, format, s.now()),
		ContentType: format.ContentType(),
		Content:     content,
	}

	s.logger.Info("Validation report exported", map[string]interface{}{
		"resultId":  input.Result.ID,
		"fileName":  out.FileName,
		"format":    string(format),
		"sizeBytes": len(content),
	})

	return out, nil
}
