package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultLogFile          = "logs.log"
	DefaultReportFile       = "report.log"
	DefaultTimeLayout       = "15:04:05"
	DefaultWarningThreshold = 5 * time.Minute
	DefaultErrorThreshold   = 10 * time.Minute
	DefaultSourceWindow     = 24 * time.Hour
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Environment variable names.
const (
	EnvLogFile    = "OVERRUN_LOG_FILE"
	EnvReportFile = "OVERRUN_REPORT_FILE"
	EnvTimeLayout = "OVERRUN_TIME_LAYOUT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogFile:    DefaultLogFile,
		ReportFile: DefaultReportFile,
		TimeLayout: DefaultTimeLayout,
		Thresholds: ThresholdConfig{
			Warning: DefaultWarningThreshold,
			Error:   DefaultErrorThreshold,
		},
		Source: SourceConfig{
			Type: string(SourceTypeFile),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if path := os.Getenv(EnvLogFile); path != "" {
		c.LogFile = path
	}
	if path := os.Getenv(EnvReportFile); path != "" {
		c.ReportFile = path
	}
	if layout := os.Getenv(EnvTimeLayout); layout != "" {
		c.TimeLayout = layout
	}
}
