package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stillriver/overrun/internal/client"
	"github.com/stillriver/overrun/internal/logging"
	"github.com/stillriver/overrun/internal/metrics"
	"github.com/stillriver/overrun/pkg/config"
	"github.com/stillriver/overrun/pkg/monitor"
	"github.com/stillriver/overrun/pkg/output"
	"github.com/stillriver/overrun/pkg/parser"
	"github.com/stillriver/overrun/pkg/report"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// MonitorOptions holds command-line options for the monitor command.
type MonitorOptions struct {
	Output  string
	Verbose bool
	Quiet   bool
}

// NewMonitorCommand creates the monitor command.
func NewMonitorCommand() *cobra.Command {
	opts := &MonitorOptions{}

	cmd := &cobra.Command{
		Use:   "monitor [config-file]",
		Short: "Check job durations and write the report",
		Long: `Read the job log, pair START and END events per job, and report
jobs that ran longer than the configured thresholds.

With no config file, built-in defaults apply: logs.log in, report.log
out, 5m warning, 10m error. OVERRUN_LOG_FILE, OVERRUN_REPORT_FILE, and
OVERRUN_TIME_LAYOUT override the corresponding settings.

Exit codes:
  0 - No jobs over thresholds
  1 - At least one WARNING or ERROR finding
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show every completed job, not just findings")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runMonitor(cmd *cobra.Command, args []string, opts *MonitorOptions) error {
	configPath := ""
	if len(args) > 0 {
		configPath = args[0]
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Init(cfg.Logging.Format, logging.ParseLevel(cfg.Logging.Level))
	log := slog.Default().With("run_id", uuid.NewString())

	source, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	sink := report.NewFileSink(cfg.ReportFile)

	pipeline := monitor.New(cfg, log)
	result, err := pipeline.Run(ctx, source, sink)
	if err != nil {
		return fmt.Errorf("monitoring failed: %w", err)
	}

	// Metric failures are reported but never fail the run.
	if cfg.Metrics.Textfile != "" {
		recorder := metrics.NewRecorder()
		recorder.Record(result)
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("writing metrics textfile failed", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	rep := output.NewReport(result, cfg, configPath)

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, rep, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if rep.HasFindings() {
		ExitCode = 1
	}

	return nil
}

// openSource builds the configured line source.
func openSource(ctx context.Context, cfg *config.Config) (parser.LineSource, error) {
	switch cfg.Source.SourceTypeEnum() {
	case config.SourceTypeCloudWatch:
		cw := cfg.Source.CloudWatch
		logs, err := client.NewCloudWatchLogs(ctx, client.Options{
			Region:  cw.Region,
			Profile: cw.Profile,
		})
		if err != nil {
			return nil, fmt.Errorf("creating cloudwatch client: %w", err)
		}
		end := time.Now()
		return parser.NewCloudWatchSource(logs, cw.Group, end.Add(-cw.Window), end, cw.CompiledQuery()), nil
	default:
		source, err := parser.NewFileSource(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		return source, nil
	}
}

func createFormatter(opts *MonitorOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		Color:   isTTYWriter(os.Stdout) && os.Getenv("NO_COLOR") == "",
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// isTTYWriter reports whether w is attached to a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
