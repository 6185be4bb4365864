package exportvalidationreport

import (
	"fmt"
	"time"

	"termsheet-workers/internal/export"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DefaultFormat export.Format `mapstructure:"default_format"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		DefaultFormat: export.FormatCSV,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if _, err := export.ParseFormat(string(c.DefaultFormat)); err != nil {
		return fmt.Errorf("default_format: %w", err)
	}
	return nil
}
