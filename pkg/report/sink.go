package report

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// Sink receives the rendered report lines.
type Sink interface {
	// Write replaces the sink's contents with the given lines.
	Write(ctx context.Context, lines []string) error
}

// FileSink writes the report to a file, replacing any previous report.
type FileSink struct {
	Path string
}

// NewFileSink creates a sink that writes to the given path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Write truncates the file and writes one line per entry. An empty
// report still truncates, so stale findings never survive a clean run.
func (s *FileSink) Write(ctx context.Context, lines []string) error {
	file, err := os.OpenFile(s.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644) // #nosec G304 -- path comes from operator config
	if err != nil {
		return fmt.Errorf("opening report file %s: %w", s.Path, err)
	}

	w := bufio.NewWriter(file)
	for _, line := range lines {
		select {
		case <-ctx.Done():
			file.Close()
			return ctx.Err()
		default:
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			file.Close()
			return fmt.Errorf("writing report file %s: %w", s.Path, err)
		}
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("writing report file %s: %w", s.Path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing report file %s: %w", s.Path, err)
	}
	return nil
}
