package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jmespath/go-jmespath"
	"gopkg.in/yaml.v3"

	"github.com/stillriver/overrun/pkg/parser"
)

// Load reads and validates a configuration file. An empty path yields
// the default configuration; environment overrides apply either way.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and compiles the message
// query for CloudWatch sources.
func Validate(cfg *Config) error {
	if cfg.ReportFile == "" {
		return errors.New("report_file: a report destination is required")
	}

	if err := parser.ValidateLayout(cfg.TimeLayout); err != nil {
		return fmt.Errorf("time_layout: %w", err)
	}

	if err := validateThresholds(&cfg.Thresholds); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	if err := validateSource(cfg); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

func validateThresholds(t *ThresholdConfig) error {
	if t.Warning <= 0 {
		return errors.New("warning must be a positive duration")
	}
	if t.Error <= 0 {
		return errors.New("error must be a positive duration")
	}
	if t.Error < t.Warning {
		return fmt.Errorf("error threshold %s is below warning threshold %s", t.Error, t.Warning)
	}
	return nil
}

func validateSource(cfg *Config) error {
	if cfg.Source.Type == "" {
		cfg.Source.Type = string(SourceTypeFile)
	}

	switch cfg.Source.SourceTypeEnum() {
	case SourceTypeFile:
		if cfg.LogFile == "" {
			return errors.New("log_file is required for file sources")
		}
		return nil
	case SourceTypeCloudWatch:
		return validateCloudWatch(&cfg.Source.CloudWatch)
	default:
		return fmt.Errorf("invalid type %q (must be file or cloudwatch)", cfg.Source.Type)
	}
}

func validateCloudWatch(cw *CloudWatchConfig) error {
	if cw.Group == "" {
		return errors.New("cloudwatch.group is required for cloudwatch sources")
	}

	if cw.Window <= 0 {
		cw.Window = DefaultSourceWindow
	}

	if cw.MessageQuery != "" {
		query, err := jmespath.Compile(cw.MessageQuery)
		if err != nil {
			return fmt.Errorf("invalid cloudwatch.message_query: %w", err)
		}
		cw.compiledQuery = query
	}

	return nil
}

func validateLogging(lc *LoggingConfig) error {
	if lc.Level == "" {
		lc.Level = DefaultLogLevel
	}
	switch lc.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q (must be debug, info, warn, or error)", lc.Level)
	}

	if lc.Format == "" {
		lc.Format = DefaultLogFormat
	}
	switch lc.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", lc.Format)
	}

	return nil
}
