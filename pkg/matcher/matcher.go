// Package matcher pairs job start events with their end events.
package matcher

import (
	"github.com/stillriver/overrun/pkg/parser"
)

// jobState tracks the events observed so far for one job ID.
type jobState struct {
	start     *parser.EventRecord
	end       *parser.EventRecord
	completed bool
}

// Matcher accumulates start and end events keyed by job ID.
// A job is complete once both halves have been observed. Repeated
// events for the same half replace the earlier one, but a job is
// reported once no matter how often its events repeat.
//
// Matcher is not safe for concurrent use.
type Matcher struct {
	jobs  map[string]*jobState
	order []string // job IDs in completion order
	seen  []string // job IDs in first-appearance order
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{
		jobs: make(map[string]*jobState),
	}
}

// Observe feeds one parsed event into the matcher.
func (m *Matcher) Observe(rec parser.EventRecord) {
	state, exists := m.jobs[rec.JobID]
	if !exists {
		state = &jobState{}
		m.jobs[rec.JobID] = state
		m.seen = append(m.seen, rec.JobID)
	}

	switch rec.Kind {
	case parser.EventStart:
		state.start = &rec
	case parser.EventEnd:
		state.end = &rec
	}

	if !state.completed && state.start != nil && state.end != nil {
		state.completed = true
		m.order = append(m.order, rec.JobID)
	}
}

// Completed returns one summary per completed job, in the order each
// job first had both of its events.
func (m *Matcher) Completed() []JobSummary {
	summaries := make([]JobSummary, 0, len(m.order))
	for _, id := range m.order {
		state := m.jobs[id]
		summaries = append(summaries, JobSummary{
			JobID:       id,
			Description: state.start.Description,
			StartedAt:   state.start.Time,
			EndedAt:     state.end.Time,
			Duration:    state.end.Time.Sub(state.start.Time),
			Complete:    true,
		})
	}
	return summaries
}

// Unmatched returns summaries for jobs still missing a start or end
// event, in first-appearance order. The description comes from
// whichever half was observed.
func (m *Matcher) Unmatched() []JobSummary {
	var summaries []JobSummary
	for _, id := range m.seen {
		state := m.jobs[id]
		if state.completed {
			continue
		}
		summary := JobSummary{JobID: id}
		if state.start != nil {
			summary.Description = state.start.Description
			summary.StartedAt = state.start.Time
		} else if state.end != nil {
			summary.Description = state.end.Description
			summary.EndedAt = state.end.Time
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// Reset clears internal state for reuse.
func (m *Matcher) Reset() {
	m.jobs = make(map[string]*jobState)
	m.order = nil
	m.seen = nil
}
