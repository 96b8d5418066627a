// Package output provides formatting and output generation for run results.
package output

import (
	"time"

	"github.com/stillriver/overrun/pkg/classifier"
	"github.com/stillriver/overrun/pkg/config"
	"github.com/stillriver/overrun/pkg/matcher"
	"github.com/stillriver/overrun/pkg/monitor"
)

// Report is the complete run output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary

	// Jobs contains every completed job with its severity.
	Jobs []classifier.ClassifiedJob

	// Unmatched contains jobs missing a start or end event.
	Unmatched []matcher.JobSummary

	// Lines contains the lines written to the report file.
	Lines []string

	// Metadata provides context about the run.
	Metadata Metadata
}

// Summary provides aggregate statistics.
type Summary struct {
	// LinesRead is the total number of lines read from the source.
	LinesRead int

	// LinesSkipped is the number of lines that did not parse.
	LinesSkipped int

	// JobsCompleted is the number of jobs with both events present.
	JobsCompleted int

	// JobsUnmatched is the number of jobs missing an event.
	JobsUnmatched int

	// Warnings and Errors count jobs over each threshold.
	Warnings int
	Errors   int

	// Anomalies counts jobs whose end preceded their start.
	Anomalies int
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string

	// LogSource describes where the lines came from.
	LogSource string

	// ReportFile is where the report was written.
	ReportFile string

	// WarningThreshold and ErrorThreshold are the limits applied.
	WarningThreshold time.Duration
	ErrorThreshold   time.Duration

	// AnalyzedAt is when the run completed.
	AnalyzedAt time.Time

	// Duration is how long the run took.
	Duration time.Duration
}

// NewReport creates a Report from a run result.
func NewReport(result *monitor.Result, cfg *config.Config, configFile string) *Report {
	source := cfg.LogFile
	if cfg.Source.SourceTypeEnum() == config.SourceTypeCloudWatch {
		source = "cloudwatch:" + cfg.Source.CloudWatch.Group
	}

	return &Report{
		Jobs:      result.Jobs,
		Unmatched: result.Unmatched,
		Lines:     result.Lines,
		Summary: Summary{
			LinesRead:     result.Stats.LinesRead,
			LinesSkipped:  result.Stats.LinesSkipped,
			JobsCompleted: result.Stats.JobsCompleted,
			JobsUnmatched: result.Stats.JobsUnmatched,
			Warnings:      result.Stats.Warnings,
			Errors:        result.Stats.Errors,
			Anomalies:     result.Stats.Anomalies,
		},
		Metadata: Metadata{
			ConfigFile:       configFile,
			LogSource:        source,
			ReportFile:       cfg.ReportFile,
			WarningThreshold: cfg.Thresholds.Warning,
			ErrorThreshold:   cfg.Thresholds.Error,
			AnalyzedAt:       result.Stats.EndTime,
			Duration:         result.Stats.Duration(),
		},
	}
}

// HasFindings returns true if any job exceeded a threshold.
func (r *Report) HasFindings() bool {
	return r.Summary.Warnings > 0 || r.Summary.Errors > 0
}
