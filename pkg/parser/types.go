// Package parser provides raw line sources and event record parsing.
package parser

import "time"

// EventKind identifies whether a record marks the start or end of a job.
type EventKind string

const (
	// EventStart marks the beginning of a job.
	EventStart EventKind = "START"

	// EventEnd marks the completion of a job.
	EventEnd EventKind = "END"
)

// EventRecord is one parsed log entry describing a START or END
// occurrence for a job. Records are immutable once parsed; malformed
// lines never produce a record.
type EventRecord struct {
	// Time is the time-of-day the event occurred.
	Time time.Time

	// Description is the free-text job description carried on the line.
	Description string

	// Kind is START or END.
	Kind EventKind

	// JobID is the opaque process identifier the event is tagged with.
	JobID string
}

// Line is a raw log line before event parsing.
type Line struct {
	// Text is the raw line content.
	Text string

	// Source identifies where the line came from (file path or log group).
	Source string

	// Num is the 1-based position of the line within its source.
	Num int
}
