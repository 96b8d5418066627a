package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stillriver/overrun/pkg/classifier"
	"github.com/stillriver/overrun/pkg/matcher"
	"github.com/stillriver/overrun/pkg/report"
)

var titler = cases.Title(language.English)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions

	headerStyle  lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{
		opts:         opts,
		headerStyle:  lipgloss.NewStyle().Bold(true),
		warningStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		errorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		mutedStyle:   lipgloss.NewStyle().Faint(true),
	}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, rep *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(rep, w)
	}
	return f.formatFull(rep, w)
}

func (f *TextFormatter) formatQuiet(rep *Report, w io.Writer) error {
	fmt.Fprintf(w, "overrun: %d jobs completed, %d warning%s, %d error%s\n",
		rep.Summary.JobsCompleted,
		rep.Summary.Warnings, pluralSuffix(rep.Summary.Warnings),
		rep.Summary.Errors, pluralSuffix(rep.Summary.Errors))
	return nil
}

func (f *TextFormatter) formatFull(rep *Report, w io.Writer) error {
	fmt.Fprintln(w, f.paint(f.headerStyle, "=== Job Duration Report ==="))
	fmt.Fprintln(w)

	if len(rep.Lines) == 0 {
		fmt.Fprintln(w, "No jobs exceeded the thresholds")
	}
	for _, job := range rep.Jobs {
		if job.Severity == classifier.SeverityNone {
			continue
		}
		line := report.Line(job)
		switch job.Severity {
		case classifier.SeverityError:
			line = f.paint(f.errorStyle, line)
		case classifier.SeverityWarning:
			line = f.paint(f.warningStyle, line)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if f.opts.Verbose {
		f.formatJobDetail(rep, w)
	}

	if len(rep.Unmatched) > 0 {
		f.formatUnmatched(rep.Unmatched, w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d jobs completed, %d warning%s, %d error%s\n",
		rep.Summary.JobsCompleted,
		rep.Summary.Warnings, pluralSuffix(rep.Summary.Warnings),
		rep.Summary.Errors, pluralSuffix(rep.Summary.Errors))

	if f.opts.Verbose {
		fmt.Fprintf(w, "Thresholds: warning over %s, error over %s\n",
			report.FormatDuration(rep.Metadata.WarningThreshold),
			report.FormatDuration(rep.Metadata.ErrorThreshold))
		fmt.Fprintf(w, "Lines read: %d (%d skipped)\n", rep.Summary.LinesRead, rep.Summary.LinesSkipped)
		fmt.Fprintf(w, "Report file: %s\n", rep.Metadata.ReportFile)
		fmt.Fprintf(w, "Duration: %s\n", rep.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}

func (f *TextFormatter) formatJobDetail(rep *Report, w io.Writer) {
	if len(rep.Jobs) == 0 {
		return
	}
	fmt.Fprintln(w, "Completed jobs:")
	for _, job := range rep.Jobs {
		severity := titler.String(strings.ToLower(string(job.Severity)))
		fmt.Fprintf(w, "  - Job %s (%s): %s, took %s\n",
			job.JobID, job.Description, severity, report.FormatDuration(job.Duration))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatUnmatched(unmatched []matcher.JobSummary, w io.Writer) {
	fmt.Fprintf(w, "Unmatched jobs: %d\n", len(unmatched))
	for _, job := range unmatched {
		var detail string
		switch {
		case !job.StartedAt.IsZero():
			detail = fmt.Sprintf("started at %s, no end", job.StartedAt.Format("15:04:05"))
		case !job.EndedAt.IsZero():
			detail = fmt.Sprintf("ended at %s, no start", job.EndedAt.Format("15:04:05"))
		default:
			detail = "no events"
		}
		fmt.Fprintln(w, f.paint(f.mutedStyle, fmt.Sprintf("  - id=%s: %s", job.JobID, detail)))
	}
	fmt.Fprintln(w)
}

// paint applies the style only when color output is enabled.
func (f *TextFormatter) paint(style lipgloss.Style, s string) string {
	if !f.opts.Color {
		return s
	}
	return style.Render(s)
}

func pluralSuffix(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
