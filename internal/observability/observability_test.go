package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "info")

	logger.Debug("hidden")
	logger.Info("visible", "articles", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %s", out)
	}
	if !strings.Contains(out, `"articles":2`) {
		t.Errorf("structured field missing: %s", out)
	}
}

func TestLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.log")
	logger := NewLogger(path, "info")
	logger.Info("to file")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing record: %s", data)
	}
}

func TestMetricsFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tether_news.prom")
	m := NewMetrics(path)

	m.ObserveRun(true, 2)
	m.ObserveStage("mirror_primary", "ok")

	if err := m.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `tether_news_runs_total{result="success"} 1`) {
		t.Errorf("runs counter missing:\n%s", text)
	}
	if !strings.Contains(text, "tether_news_articles_scraped 2") {
		t.Errorf("articles gauge missing:\n%s", text)
	}
}

func TestMetricsFlushWithoutPath(t *testing.T) {
	if err := NewMetrics("").Flush(); err != nil {
		t.Errorf("Flush without path returned %v", err)
	}
}
