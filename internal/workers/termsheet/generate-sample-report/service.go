package generatesamplereport

import (
	"context"
	"time"

	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/termsheet"
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
	return &Service{config: config, logger: deps.Logger, now: now}
}

// Execute returns the fixed demo report. It never fails.
func (s *Service) Execute(_ context.Context, input *Input) (*Output, error) {
	result := termsheet.SampleResult(input.DocumentName, s.now)

	s.logger.Debug("Sample report generated", map[string]interface{}{
		"resultId":     result.ID,
		"documentName": input.DocumentName,
	})

	return &Output{Result: result}, nil
}
