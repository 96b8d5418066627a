// Package config provides configuration loading and validation for overrun.
package config

import (
	"time"

	"github.com/jmespath/go-jmespath"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	LogFile    string          `yaml:"log_file"`
	ReportFile string          `yaml:"report_file"`
	TimeLayout string          `yaml:"time_layout"`
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Source     SourceConfig    `yaml:"source"`
	Metrics    MetricsConfig   `yaml:"metrics,omitempty"`
	Logging    LoggingConfig   `yaml:"logging,omitempty"`
}

// ThresholdConfig holds the duration limits that trigger findings.
type ThresholdConfig struct {
	// Warning is how long a job may run before it is flagged WARNING.
	Warning time.Duration `yaml:"warning"`

	// Error is how long a job may run before it is flagged ERROR.
	// Must be at least the warning threshold.
	Error time.Duration `yaml:"error"`
}

// SourceType represents where log lines are read from.
type SourceType string

const (
	SourceTypeFile       SourceType = "file"
	SourceTypeCloudWatch SourceType = "cloudwatch"
)

// SourceConfig selects and configures the log source.
type SourceConfig struct {
	// Type is "file" or "cloudwatch". Defaults to "file".
	Type string `yaml:"type"`

	// CloudWatch configures the source when type is "cloudwatch".
	CloudWatch CloudWatchConfig `yaml:"cloudwatch,omitempty"`
}

// SourceTypeEnum returns the source type as a SourceType enum.
func (s *SourceConfig) SourceTypeEnum() SourceType {
	return SourceType(s.Type)
}

// CloudWatchConfig defines a CloudWatch Logs source.
type CloudWatchConfig struct {
	// Group is the log group name (required for cloudwatch sources).
	Group string `yaml:"group"`

	// Region overrides the AWS region from the environment.
	Region string `yaml:"region,omitempty"`

	// Profile selects a named AWS credentials profile.
	Profile string `yaml:"profile,omitempty"`

	// Window is how far back to read events. Defaults to 24h.
	Window time.Duration `yaml:"window,omitempty"`

	// MessageQuery is an optional JMESPath expression for extracting
	// the log line from JSON-wrapped messages, e.g. "log" for
	// container output. Messages it does not match pass through raw.
	MessageQuery string `yaml:"message_query,omitempty"`

	// compiledQuery is the pre-compiled expression (populated during validation).
	compiledQuery *jmespath.JMESPath
}

// CompiledQuery returns the pre-compiled message query, or nil when no
// query is configured.
func (c *CloudWatchConfig) CompiledQuery() *jmespath.JMESPath {
	return c.compiledQuery
}

// MetricsConfig controls metrics output.
type MetricsConfig struct {
	// Textfile is a path to write Prometheus textfile-collector
	// metrics after each run. Empty disables metrics output.
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig controls diagnostic logging on stderr.
type LoggingConfig struct {
	// Level is debug, info, warn, or error. Defaults to info.
	Level string `yaml:"level,omitempty"`

	// Format is text or json. Defaults to text.
	Format string `yaml:"format,omitempty"`
}
