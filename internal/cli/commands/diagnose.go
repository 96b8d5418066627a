package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/spf13/cobra"

	"github.com/stillriver/overrun/internal/client"
	"github.com/stillriver/overrun/pkg/config"
	"github.com/stillriver/overrun/pkg/monitor"
	"github.com/stillriver/overrun/pkg/parser"
)

// diagnoseSampleLimit caps how many lines the parse check examines.
const diagnoseSampleLimit = 100

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks your configuration file for common problems:
- Config file syntax and structure
- Log source existence and accessibility
- Event grammar matching against actual log lines
- Start/end pairing on the real data
- Report and metrics file writability

Example:
  overrun diagnose config.yaml
  overrun diagnose -v config.yaml  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, configPath string, opts *DiagnoseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := []DiagnosticResult{}

	// 1. Check config file existence
	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 3. Check the log source
	sourceResults := checkSource(ctx, cfg, opts)
	results = append(results, sourceResults...)

	// 4. Check the event grammar and pairing against actual lines
	if cfg.Source.SourceTypeEnum() == config.SourceTypeFile {
		results = append(results, checkEventGrammar(ctx, cfg, opts)...)
		results = append(results, checkPairing(ctx, cfg)...)
	}

	// 5. Check output destinations
	results = append(results, checkWritable("Report File", cfg.ReportFile))
	if cfg.Metrics.Textfile != "" {
		results = append(results, checkWritable("Metrics Textfile", cfg.Metrics.Textfile))
	}

	printDiagnostics(results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Run 'overrun monitor' without arguments to use built-in defaults",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Config file is empty"
		result.Suggests = []string{
			"See README.md for a minimal config example",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		result.Suggests = []string{
			"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			"Durations take Go syntax: 5m, 10m30s, 1h",
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Source: %s", cfg.Source.SourceTypeEnum()),
		fmt.Sprintf("Warning threshold: %s", cfg.Thresholds.Warning),
		fmt.Sprintf("Error threshold: %s", cfg.Thresholds.Error),
	}
	return cfg, result
}

func checkSource(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	if cfg.Source.SourceTypeEnum() == config.SourceTypeCloudWatch {
		return checkCloudWatchSource(ctx, cfg, opts)
	}

	result := DiagnosticResult{
		Check: fmt.Sprintf("Log File: %s", cfg.LogFile),
	}

	info, err := os.Stat(cfg.LogFile)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = "File does not exist"
		result.Suggests = []string{
			"Check if the log file path is correct",
			"Use 'ls -la' to verify the file exists",
		}
	} else if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
	} else if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
	} else if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "File is empty (0 bytes)"
		result.Suggests = []string{
			"An empty log produces an empty report",
		}
	} else {
		result.Status = "ok"
		result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
	}

	return []DiagnosticResult{result}
}

func checkCloudWatchSource(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	cw := cfg.Source.CloudWatch
	result := DiagnosticResult{
		Check: fmt.Sprintf("CloudWatch Group: %s", cw.Group),
	}

	if !opts.Verbose {
		result.Status = "ok"
		result.Message = "Configured (use -v to probe the log group)"
		return []DiagnosticResult{result}
	}

	logs, err := client.NewCloudWatchLogs(ctx, client.Options{
		Region:  cw.Region,
		Profile: cw.Profile,
	})
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot build AWS client: %v", err)
		result.Suggests = []string{"Check AWS credentials and region settings"}
		return []DiagnosticResult{result}
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := logs.FilterLogEvents(probeCtx, &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(cw.Group),
		Limit:        aws.Int32(1),
	})
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read log group: %v", err)
		result.Suggests = []string{
			"Check the log group name and region",
			"Verify the credentials allow logs:FilterLogEvents",
		}
		return []DiagnosticResult{result}
	}

	if len(out.Events) == 0 {
		result.Status = "warning"
		result.Message = "Log group is reachable but returned no events"
	} else {
		result.Status = "ok"
		result.Message = "Log group is reachable"
	}

	return []DiagnosticResult{result}
}

func checkEventGrammar(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Event Grammar: %s", filepath.Base(cfg.LogFile)),
	}

	source, err := parser.NewFileSource(cfg.LogFile)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot read file: %v", err)
		return []DiagnosticResult{result}
	}
	defer source.Close()

	p := parser.New(cfg.TimeLayout)
	sample, err := parser.Sniff(ctx, p, source, diagnoseSampleLimit)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot sample file: %v", err)
		return []DiagnosticResult{result}
	}

	switch {
	case sample.SampledLines == 0:
		result.Status = "warning"
		result.Message = "No non-empty lines to sample"
	case sample.ParsedLines == 0:
		result.Status = "error"
		result.Message = "No sampled line parses as a job event"
		result.Suggests = []string{
			"Expected lines like 11:35:23,scheduled task 032,START,37980",
			fmt.Sprintf("Check the time_layout setting (currently %q)", cfg.TimeLayout),
		}
		if sample.SampleFailed != "" {
			result.Details = []string{
				"Sample line that didn't parse:",
				truncate(sample.SampleFailed, 80),
			}
		}
	case sample.Confidence() < 0.9:
		result.Status = "warning"
		result.Message = fmt.Sprintf("Only %d/%d sample lines parse as job events", sample.ParsedLines, sample.SampledLines)
		if sample.SampleFailed != "" {
			result.Details = []string{
				"Sample line that didn't parse:",
				truncate(sample.SampleFailed, 80),
			}
		}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("%d/%d sample lines parse as job events", sample.ParsedLines, sample.SampledLines)
		if opts.Verbose && sample.SampleParsed != "" {
			result.Details = []string{
				"Sample match:",
				truncate(sample.SampleParsed, 80),
			}
		}
	}

	return []DiagnosticResult{result}
}

// checkPairing runs the pipeline against the real log with a discard
// sink, so pairing problems show up before they reach a report.
func checkPairing(ctx context.Context, cfg *config.Config) []DiagnosticResult {
	result := DiagnosticResult{
		Check: "Start/End Pairing",
	}

	source, err := parser.NewFileSource(cfg.LogFile)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot read file: %v", err)
		return []DiagnosticResult{result}
	}
	defer source.Close()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	res, err := monitor.New(cfg, quiet).Run(ctx, source, discardSink{})
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Dry run failed: %v", err)
		return []DiagnosticResult{result}
	}

	details := []string{}
	for _, job := range res.Unmatched {
		details = append(details, fmt.Sprintf("Job %s (%s) never completed", job.JobID, job.Description))
	}

	switch {
	case res.Stats.JobsCompleted == 0 && res.Stats.JobsUnmatched == 0:
		result.Status = "warning"
		result.Message = "No job events found in the log"
	case res.Stats.JobsUnmatched > 0 || res.Stats.Anomalies > 0:
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d completed, %d unmatched, %d with end before start",
			res.Stats.JobsCompleted, res.Stats.JobsUnmatched, res.Stats.Anomalies)
		result.Details = details
		result.Suggests = []string{
			"Unmatched jobs never appear in the report",
		}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("All %d jobs pair cleanly", res.Stats.JobsCompleted)
	}

	return []DiagnosticResult{result}
}

// checkWritable probes the destination directory with a throwaway file.
func checkWritable(check, path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("%s: %s", check, path),
	}

	dir := filepath.Dir(path)
	probe, err := os.CreateTemp(dir, ".overrun-probe-*")
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Directory not writable: %v", err)
		result.Suggests = []string{
			fmt.Sprintf("Check permissions on %s", dir),
		}
		return result
	}
	probe.Close()
	os.Remove(probe.Name())

	result.Status = "ok"
	result.Message = "Destination is writable"
	return result
}

// discardSink satisfies report.Sink without touching the filesystem.
type discardSink struct{}

func (discardSink) Write(ctx context.Context, lines []string) error { return nil }

func printDiagnostics(results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Println("=== Overrun Configuration Diagnostics ===")
	fmt.Println()

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Printf("[%s] %s\n", icon, r.Check)
		fmt.Printf("    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Printf("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Printf("      Hint: %s\n", s)
		}

		fmt.Println()
	}

	// Summary
	fmt.Println("---")
	fmt.Printf("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Println("\nFix the errors above before running a check.")
	} else if warnCount > 0 {
		fmt.Println("\nConfiguration is usable but has warnings.")
	} else {
		fmt.Println("\nConfiguration looks good!")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
