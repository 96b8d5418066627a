package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewMonitorCommand(t *testing.T) {
	cmd := NewMonitorCommand()

	if cmd.Use != "monitor [config-file]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	// Check flags exist
	flags := []string{"output", "verbose", "quiet"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
}

func TestRunValidate_Success(t *testing.T) {
	// Create a valid config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	logPath := filepath.Join(tmpDir, "jobs.log")

	// Create log file
	if err := os.WriteFile(logPath, []byte("10:00:00,nightly import,START,1001\n"), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}

	config := `log_file: ` + logPath + `
report_file: ` + filepath.Join(tmpDir, "report.log") + `

thresholds:
  warning: 5m
  error: 10m
`
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	// Capture output
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// Invalid YAML
	if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunMonitor_MissingConfigFile(t *testing.T) {
	cmd := NewMonitorCommand()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunMonitor_InvalidOutputFormat(t *testing.T) {
	tmpDir := t.TempDir()
	configPath, _ := writeMonitorFixture(t, tmpDir, "10:00:00,quick job,START,1\n10:00:05,quick job,END,1\n")

	cmd := NewMonitorCommand()
	cmd.SetArgs([]string{"-o", "xml", configPath})

	err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	}, nil)
	if err == nil {
		t.Fatal("Expected error for unknown output format")
	}
	if !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("Expected 'unknown output format' error, got: %v", err)
	}
}

func TestRunMonitor_WritesReport(t *testing.T) {
	defer func() { ExitCode = 0 }()
	ExitCode = 0

	tmpDir := t.TempDir()
	log := "10:00:00,billing export,START,1001\n" +
		"10:03:00,billing export,END,1001\n" +
		"10:05:00,cache warmup,START,1002\n" +
		"10:05:30,cache warmup,END,1002\n"
	configPath, reportPath := writeMonitorFixture(t, tmpDir, log)

	// Tighten thresholds so the 3m job trips the warning
	appendToFile(t, configPath, "\nthresholds:\n  warning: 2m\n  error: 4m\n")

	cmd := NewMonitorCommand()
	cmd.SetArgs([]string{configPath})

	var stdout string
	err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	}, &stdout)
	if err != nil {
		t.Fatalf("Monitor failed: %v", err)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("Report file not written: %v", err)
	}
	if got, want := string(content), "WARNING: Job 1001 (billing export) took 0:03:00\n"; got != want {
		t.Errorf("Report content = %q, want %q", got, want)
	}
	if !strings.Contains(stdout, "WARNING: Job 1001") {
		t.Errorf("Expected finding on stdout, got: %q", stdout)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
}

func TestRunMonitor_NoFindings(t *testing.T) {
	defer func() { ExitCode = 0 }()
	ExitCode = 0

	tmpDir := t.TempDir()
	log := "10:00:00,quick job,START,7\n10:00:30,quick job,END,7\n"
	configPath, reportPath := writeMonitorFixture(t, tmpDir, log)

	cmd := NewMonitorCommand()
	cmd.SetArgs([]string{configPath})

	err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	}, nil)
	if err != nil {
		t.Fatalf("Monitor failed: %v", err)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("Report file not written: %v", err)
	}
	if len(content) != 0 {
		t.Errorf("Expected empty report, got %q", content)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
}

func TestRunMonitor_MetricsTextfile(t *testing.T) {
	defer func() { ExitCode = 0 }()
	ExitCode = 0

	tmpDir := t.TempDir()
	log := "10:00:00,quick job,START,7\n10:00:30,quick job,END,7\n"
	configPath, _ := writeMonitorFixture(t, tmpDir, log)
	metricsPath := filepath.Join(tmpDir, "overrun.prom")
	appendToFile(t, configPath, "\nmetrics:\n  textfile: "+metricsPath+"\n")

	cmd := NewMonitorCommand()
	cmd.SetArgs([]string{configPath})

	err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	}, nil)
	if err != nil {
		t.Fatalf("Monitor failed: %v", err)
	}

	content, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("Metrics textfile not written: %v", err)
	}
	if !strings.Contains(string(content), "overrun_jobs_completed 1") {
		t.Errorf("Expected jobs_completed metric, got:\n%s", content)
	}
}

func TestCreateFormatter(t *testing.T) {
	tests := []struct {
		output  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			opts := &MonitorOptions{Output: tt.output}
			_, err := createFormatter(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("createFormatter(%q) error = %v, wantErr %v", tt.output, err, tt.wantErr)
			}
		})
	}
}

func TestIsTTYWriter_NonFile(t *testing.T) {
	if isTTYWriter(&bytes.Buffer{}) {
		t.Error("Buffer should not be detected as a terminal")
	}
}

// writeMonitorFixture writes a log file and a minimal config pointing at
// it, returning the config and report paths.
func writeMonitorFixture(t *testing.T, dir, logContent string) (configPath, reportPath string) {
	t.Helper()

	logPath := filepath.Join(dir, "jobs.log")
	if err := os.WriteFile(logPath, []byte(logContent), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}

	reportPath = filepath.Join(dir, "report.log")
	configPath = filepath.Join(dir, "config.yaml")
	config := "log_file: " + logPath + "\nreport_file: " + reportPath + "\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	return configPath, reportPath
}

func appendToFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("Failed to append to %s: %v", path, err)
	}
}

// captureStdout redirects os.Stdout around fn. The captured text lands
// in *out when out is non-nil.
func captureStdout(t *testing.T, fn func() error, out *string) error {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if out != nil {
		*out = buf.String()
	}
	return runErr
}
