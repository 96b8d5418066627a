package parser

import (
	"encoding/csv"
	"strings"
)

// fieldCount is the number of comma-separated fields in the input
// grammar: timestamp, description, event kind, job id.
const fieldCount = 4

// Parser converts raw log lines into event records.
//
// Malformed input is an expected condition, not a fault: ParseLine
// reports ok=false for lines that do not conform and the caller moves
// on to the next line. The parser never raises past its own boundary.
type Parser struct {
	layout string
}

// New creates a Parser that reads the timestamp field with the given
// clock layout. An empty layout falls back to DefaultTimeLayout.
func New(layout string) *Parser {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return &Parser{layout: layout}
}

// Layout returns the clock layout the parser was built with.
func (p *Parser) Layout() string {
	return p.layout
}

// ParseLine parses one comma-separated line into an EventRecord.
//
// The line must split into exactly four fields. Fields are
// whitespace-trimmed; descriptions containing commas must be quoted.
// The timestamp must conform to the configured layout, the event kind
// must be exactly "START" or "END", and the job id must be non-empty.
// Any violation yields ok=false with no record; no partial records
// exist.
func (p *Parser) ParseLine(line string) (EventRecord, bool) {
	r := csv.NewReader(strings.NewReader(line))
	fields, err := r.Read()
	if err != nil {
		return EventRecord{}, false
	}
	if len(fields) != fieldCount {
		return EventRecord{}, false
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	ts, err := ParseClock(p.layout, fields[0])
	if err != nil {
		return EventRecord{}, false
	}

	kind := EventKind(fields[2])
	if kind != EventStart && kind != EventEnd {
		return EventRecord{}, false
	}

	jobID := fields[3]
	if jobID == "" {
		return EventRecord{}, false
	}

	return EventRecord{
		Time:        ts,
		Description: fields[1],
		Kind:        kind,
		JobID:       jobID,
	}, true
}
