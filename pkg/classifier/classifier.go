// Package classifier assigns severities to job durations.
package classifier

import (
	"time"

	"github.com/stillriver/overrun/pkg/matcher"
)

// Severity is the level assigned to a job duration.
type Severity string

const (
	SeverityNone    Severity = "NONE"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Thresholds holds the duration limits a job may run before it is
// flagged. A duration must strictly exceed a limit to trip it, so a
// job that takes exactly the warning threshold is still unflagged.
type Thresholds struct {
	Warning time.Duration
	Error   time.Duration
}

// Classify returns the severity for a single duration. The error
// threshold is checked first, so a duration over both limits is an
// ERROR, not a WARNING.
func (t Thresholds) Classify(d time.Duration) Severity {
	switch {
	case d > t.Error:
		return SeverityError
	case d > t.Warning:
		return SeverityWarning
	default:
		return SeverityNone
	}
}

// ClassifiedJob is a completed job together with its severity.
type ClassifiedJob struct {
	matcher.JobSummary
	Severity Severity `json:"severity"`
}

// ClassifyAll classifies every job against the thresholds, preserving
// the input order.
func ClassifyAll(jobs []matcher.JobSummary, t Thresholds) []ClassifiedJob {
	classified := make([]ClassifiedJob, 0, len(jobs))
	for _, job := range jobs {
		classified = append(classified, ClassifiedJob{
			JobSummary: job,
			Severity:   t.Classify(job.Duration),
		})
	}
	return classified
}
