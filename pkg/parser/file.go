package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource implements LineSource for reading one local log file.
type FileSource struct {
	file    *os.File
	scanner *bufio.Scanner
	path    string
	line    int
}

// NewFileSource opens the given file for line iteration.
// Returns a wrapped I/O error if the file does not exist or is
// unreadable.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided log path is expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	return &FileSource{
		file:    f,
		scanner: scanner,
		path:    path,
	}, nil
}

// Next returns the next raw line in file order.
// Returns io.EOF when the file has been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.scanner == nil {
		return nil, io.EOF
	}

	if s.scanner.Scan() {
		s.line++
		return &Line{
			Text:   s.scanner.Text(),
			Source: s.path,
			Num:    s.line,
		}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	return nil, io.EOF
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.scanner = nil
		return err
	}
	return nil
}
