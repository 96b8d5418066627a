package classifier

import (
	"testing"
	"time"

	"github.com/stillriver/overrun/pkg/matcher"
)

func defaultThresholds() Thresholds {
	return Thresholds{Warning: 5 * time.Minute, Error: 10 * time.Minute}
}

func TestClassify_Boundaries(t *testing.T) {
	thresholds := defaultThresholds()

	tests := []struct {
		name     string
		duration time.Duration
		want     Severity
	}{
		{"instant", 0, SeverityNone},
		{"under warning", 4*time.Minute + 59*time.Second, SeverityNone},
		{"exactly warning", 5 * time.Minute, SeverityNone},
		{"just over warning", 5*time.Minute + time.Second, SeverityWarning},
		{"exactly error", 10 * time.Minute, SeverityWarning},
		{"just over error", 10*time.Minute + time.Second, SeverityError},
		{"far over error", time.Hour, SeverityError},
		{"negative", -time.Minute, SeverityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := thresholds.Classify(tt.duration); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	jobs := []matcher.JobSummary{
		{JobID: "1", Duration: 2 * time.Minute, Complete: true},
		{JobID: "2", Duration: 12 * time.Minute, Complete: true},
		{JobID: "3", Duration: 7 * time.Minute, Complete: true},
	}

	classified := ClassifyAll(jobs, defaultThresholds())
	if len(classified) != 3 {
		t.Fatalf("ClassifyAll() returned %d jobs, want 3", len(classified))
	}

	wantSeverities := []Severity{SeverityNone, SeverityError, SeverityWarning}
	for i, job := range classified {
		if job.Severity != wantSeverities[i] {
			t.Errorf("job %s severity = %v, want %v", job.JobID, job.Severity, wantSeverities[i])
		}
	}
	if classified[1].JobID != "2" {
		t.Errorf("order changed: classified[1].JobID = %q, want %q", classified[1].JobID, "2")
	}
}

func TestClassifyAll_Empty(t *testing.T) {
	classified := ClassifyAll(nil, defaultThresholds())
	if len(classified) != 0 {
		t.Errorf("ClassifyAll(nil) returned %d jobs, want 0", len(classified))
	}
}
