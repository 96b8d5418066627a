package parser

import (
	"context"
	"errors"
	"io"
)

// SniffResult summarizes how well a sample of lines conforms to the
// event grammar.
type SniffResult struct {
	SampledLines int    // Number of non-empty lines examined
	ParsedLines  int    // Number of lines that produced an event record
	SampleParsed string // Example line that parsed
	SampleFailed string // Example line that did not
}

// Confidence returns the fraction of sampled lines that parsed,
// 0.0 to 1.0. A sample of zero lines reports 0.
func (r *SniffResult) Confidence() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.ParsedLines) / float64(r.SampledLines)
}

// Sniff reads up to limit lines from src and reports how many parse as
// event records. Diagnostics use this to judge whether a source looks
// like a job event log before a full run.
func Sniff(ctx context.Context, p *Parser, src LineSource, limit int) (*SniffResult, error) {
	if limit <= 0 {
		limit = 100
	}

	result := &SniffResult{}
	for result.SampledLines < limit {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line.Text == "" {
			continue
		}

		result.SampledLines++
		if _, ok := p.ParseLine(line.Text); ok {
			result.ParsedLines++
			if result.SampleParsed == "" {
				result.SampleParsed = line.Text
			}
		} else if result.SampleFailed == "" {
			result.SampleFailed = line.Text
		}
	}

	return result, nil
}
