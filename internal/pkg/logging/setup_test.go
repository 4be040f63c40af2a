package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
)

func TestSetupLogger_StdoutAndFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var stdout bytes.Buffer
	path := filepath.Join(t.TempDir(), "run.log")

	logger, closeFn, err := setupLogger(&config.LoggingConfig{Level: "info", Format: "text", File: path}, "handicap", &stdout)
	if err != nil {
		t.Fatalf("setupLogger: %v", err)
	}
	logger.Info("run finished", "inserted", 3)
	logger.Debug("hidden")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !strings.Contains(stdout.String(), "run finished") || !strings.Contains(stdout.String(), "service=handicap") {
		t.Errorf("stdout missing record: %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"run finished"`) || !strings.Contains(string(data), `"inserted":3`) {
		t.Errorf("file missing json record: %q", string(data))
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
