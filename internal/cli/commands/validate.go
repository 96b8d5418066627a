package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stillriver/overrun/pkg/config"
	"github.com/stillriver/overrun/pkg/report"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an overrun configuration file without running a check.

Checks:
  - YAML syntax
  - Required fields
  - Timestamp layout validity
  - Threshold ordering (error >= warning)
  - Log file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report the resolved settings
	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Source:      %s\n", describeSource(cfg))
	fmt.Printf("  Report file: %s\n", cfg.ReportFile)
	fmt.Printf("  Time layout: %s\n", cfg.TimeLayout)
	fmt.Printf("  Warning at:  over %s\n", report.FormatDuration(cfg.Thresholds.Warning))
	fmt.Printf("  Error at:    over %s\n", report.FormatDuration(cfg.Thresholds.Error))
	if cfg.Metrics.Textfile != "" {
		fmt.Printf("  Metrics:     %s\n", cfg.Metrics.Textfile)
	}

	// Check if the log file exists (warning only)
	if cfg.Source.SourceTypeEnum() == config.SourceTypeFile {
		if _, err := os.Stat(cfg.LogFile); err != nil {
			fmt.Printf("\nWarning: Log file not readable: %v\n", err)
		}
	}

	return nil
}

// describeSource renders a one-line summary of the configured source.
func describeSource(cfg *config.Config) string {
	if cfg.Source.SourceTypeEnum() == config.SourceTypeCloudWatch {
		return fmt.Sprintf("cloudwatch group %s (last %s)", cfg.Source.CloudWatch.Group, cfg.Source.CloudWatch.Window)
	}
	return fmt.Sprintf("file %s", cfg.LogFile)
}
