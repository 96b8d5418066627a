// Package report renders classified jobs into report lines and writes
// them to a destination.
package report

import (
	"fmt"
	"time"

	"github.com/stillriver/overrun/pkg/classifier"
)

// FormatDuration renders a duration as H:MM:SS, e.g. "0:07:06".
// Negative durations get a leading minus sign.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Round(time.Second)
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, hours, minutes, seconds)
}

// Line renders one report line for a classified job.
func Line(job classifier.ClassifiedJob) string {
	return fmt.Sprintf("%s: Job %s (%s) took %s",
		job.Severity, job.JobID, job.Description, FormatDuration(job.Duration))
}

// Render produces the report lines for a set of classified jobs,
// keeping their order. Jobs within thresholds produce no line.
func Render(jobs []classifier.ClassifiedJob) []string {
	lines := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if job.Severity == classifier.SeverityNone {
			continue
		}
		lines = append(lines, Line(job))
	}
	return lines
}
