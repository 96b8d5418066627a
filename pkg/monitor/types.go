package monitor

import (
	"time"

	"github.com/stillriver/overrun/pkg/classifier"
	"github.com/stillriver/overrun/pkg/matcher"
)

// Result contains the complete output of one monitoring run.
type Result struct {
	// Jobs holds every completed job with its severity, in the order
	// each job completed in the input.
	Jobs []classifier.ClassifiedJob

	// Unmatched holds jobs that were missing a start or end event.
	Unmatched []matcher.JobSummary

	// Lines holds the rendered report lines that were written.
	Lines []string

	// Stats summarizes the run.
	Stats Stats
}

// HasFindings reports whether any job exceeded a threshold.
func (r *Result) HasFindings() bool {
	return r.Stats.Warnings > 0 || r.Stats.Errors > 0
}

// Stats counts what a run saw and produced.
type Stats struct {
	// LinesRead is the total number of lines read from the source.
	LinesRead int

	// LinesSkipped is the number of lines that did not parse.
	LinesSkipped int

	// RecordsParsed is the number of well-formed event records.
	RecordsParsed int

	// JobsCompleted is the number of jobs with both events present.
	JobsCompleted int

	// JobsUnmatched is the number of jobs missing an event.
	JobsUnmatched int

	// Warnings and Errors count jobs over each threshold.
	Warnings int
	Errors   int

	// Anomalies counts completed jobs whose end precedes their start.
	Anomalies int

	// ReportLines is the number of lines written to the report.
	ReportLines int

	// StartTime is when the run began.
	StartTime time.Time

	// EndTime is when the run completed.
	EndTime time.Time
}

// Duration returns how long the run took.
func (s Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
