package matcher

import "time"

// JobSummary describes one job assembled from its start and end events.
type JobSummary struct {
	JobID       string        `json:"job_id"`
	Description string        `json:"description"`
	StartedAt   time.Time     `json:"started_at"`
	EndedAt     time.Time     `json:"ended_at"`
	Duration    time.Duration `json:"duration"`
	Complete    bool          `json:"complete"`
}
