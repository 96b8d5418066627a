package parser

import (
	"fmt"
	"time"
)

// DefaultTimeLayout is the clock layout for the HH:MM:SS input grammar.
const DefaultTimeLayout = "15:04:05"

// ParseClock parses a time-of-day string using the given layout.
// Returns zero time and an error if the value does not conform.
func ParseClock(layout, value string) (time.Time, error) {
	ts, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}
	return ts, nil
}

// ValidateLayout checks that a clock layout round-trips a probe time.
// A layout that cannot reproduce the time it formatted is unusable for
// parsing log timestamps.
func ValidateLayout(layout string) error {
	if layout == "" {
		return fmt.Errorf("layout is empty")
	}
	probe := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	parsed, err := time.Parse(layout, probe.Format(layout))
	if err != nil {
		return fmt.Errorf("layout %q does not parse its own output: %w", layout, err)
	}
	if parsed.Hour() != probe.Hour() || parsed.Minute() != probe.Minute() || parsed.Second() != probe.Second() {
		return fmt.Errorf("layout %q loses clock precision", layout)
	}
	return nil
}
