// Package monitor wires parsing, event matching, and classification
// into a single batch run over a log source.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/stillriver/overrun/pkg/classifier"
	"github.com/stillriver/overrun/pkg/config"
	"github.com/stillriver/overrun/pkg/matcher"
	"github.com/stillriver/overrun/pkg/parser"
	"github.com/stillriver/overrun/pkg/report"
)

// Pipeline runs the monitoring stages over a log source.
type Pipeline struct {
	cfg    *config.Config
	parser *parser.Parser
	log    *slog.Logger
}

// New creates a pipeline from configuration. A nil logger falls back
// to slog.Default().
func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		parser: parser.New(cfg.TimeLayout),
		log:    log,
	}
}

// Run reads every line from the source, pairs job start and end
// events, classifies completed jobs against the thresholds, and
// writes the findings through the sink. The sink is written even when
// there are no findings, so a clean run clears the previous report.
func (p *Pipeline) Run(ctx context.Context, source parser.LineSource, sink report.Sink) (*Result, error) {
	result := &Result{Stats: Stats{StartTime: time.Now()}}

	thresholds := classifier.Thresholds{
		Warning: p.cfg.Thresholds.Warning,
		Error:   p.cfg.Thresholds.Error,
	}

	p.log.Info("starting run",
		"warning_threshold", thresholds.Warning,
		"error_threshold", thresholds.Error)

	jobs := matcher.NewMatcher()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log source: %w", err)
		}

		result.Stats.LinesRead++

		rec, ok := p.parser.ParseLine(line.Text)
		if !ok {
			result.Stats.LinesSkipped++
			p.log.Debug("skipping unparsable line", "source", line.Source, "line", line.Num)
			continue
		}

		result.Stats.RecordsParsed++
		jobs.Observe(rec)
	}

	completed := jobs.Completed()
	result.Jobs = classifier.ClassifyAll(completed, thresholds)
	result.Unmatched = jobs.Unmatched()
	result.Stats.JobsCompleted = len(completed)
	result.Stats.JobsUnmatched = len(result.Unmatched)

	for _, job := range result.Jobs {
		switch job.Severity {
		case classifier.SeverityWarning:
			result.Stats.Warnings++
		case classifier.SeverityError:
			result.Stats.Errors++
		}
		if job.Duration < 0 {
			result.Stats.Anomalies++
			p.log.Warn("job end precedes its start",
				"job_id", job.JobID,
				"duration", job.Duration)
		}
	}

	result.Lines = report.Render(result.Jobs)
	if err := sink.Write(ctx, result.Lines); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	result.Stats.ReportLines = len(result.Lines)
	result.Stats.EndTime = time.Now()

	p.log.Info("run complete",
		"lines_read", result.Stats.LinesRead,
		"lines_skipped", result.Stats.LinesSkipped,
		"jobs_completed", result.Stats.JobsCompleted,
		"jobs_unmatched", result.Stats.JobsUnmatched,
		"warnings", result.Stats.Warnings,
		"errors", result.Stats.Errors)

	return result, nil
}
