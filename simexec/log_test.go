package simexec

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelWarn},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerFieldsSortedAndQuoted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelDebug, &buf, "")

	logger.With(map[string]any{
		"zeta":  1,
		"alpha": "two words",
	}).Debugf("hello %s", "world")

	line := buf.String()
	if !strings.HasPrefix(line, "[DEBUG] hello world") {
		t.Errorf("Unexpected line prefix: %q", line)
	}
	if !strings.Contains(line, `alpha="two words" zeta=1`) {
		t.Errorf("Expected sorted, quoted fields, got: %q", line)
	}
}

func TestLoggerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelWarn, &buf, "")

	logger.Infof("suppressed")
	logger.Warnf("visible")

	if strings.Contains(buf.String(), "suppressed") {
		t.Error("Expected info line to be suppressed at warn level")
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Error("Expected warn line to be written")
	}
}
