package extractdocumenttext

import (
	"fmt"
	"time"

	"termsheet-workers/internal/intake"
)

type Config struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxJobsActive    int           `mapstructure:"max_jobs_active"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxDocumentBytes int64         `mapstructure:"max_document_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:          true,
		MaxJobsActive:    5,
		Timeout:          30 * time.Second,
		MaxDocumentBytes: intake.DefaultMaxDocumentBytes,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MaxDocumentBytes < 0 {
		return fmt.Errorf("max_document_bytes must not be negative")
	}
	return nil
}
