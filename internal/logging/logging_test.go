package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		got := ParseLevel(tt.input)
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestJSONHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewJSONHandler(&buf, opts))

	logger.Info("run complete", "jobs", 3)

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected valid JSON output, got error: %v\noutput: %s", err, buf.String())
	}
	if m["msg"] != "run complete" {
		t.Errorf("expected msg 'run complete', got %q", m["msg"])
	}
	if m["jobs"] != float64(3) {
		t.Errorf("expected jobs 3, got %v", m["jobs"])
	}
}

func TestTextHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewTextHandler(&buf, opts))

	logger.Info("run complete", "jobs", 3)

	out := buf.String()
	if !strings.Contains(out, "msg=\"run complete\"") && !strings.Contains(out, "msg=run") {
		t.Errorf("expected text output containing msg, got: %s", out)
	}
	if !strings.Contains(out, "jobs=3") {
		t.Errorf("expected text output containing jobs=3, got: %s", out)
	}
}
