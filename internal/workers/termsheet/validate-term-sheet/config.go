package validatetermsheet

import (
	"fmt"
	"time"

	"termsheet-workers/internal/termsheet"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	PassThreshold float64       `mapstructure:"pass_threshold"`
	AnalysisDelay time.Duration `mapstructure:"delay"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		PassThreshold: termsheet.PassThreshold,
		AnalysisDelay: termsheet.DefaultAnalysisDelay,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.PassThreshold < 0 || c.PassThreshold > 1 {
		return fmt.Errorf("pass_threshold must be within [0,1]")
	}
	if c.AnalysisDelay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if c.AnalysisDelay >= c.Timeout {
		return fmt.Errorf("delay %s leaves no room within timeout %s", c.AnalysisDelay, c.Timeout)
	}
	return nil
}
