package util

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
		{"", slog.LevelInfo, slog.LevelDebug},
	}

	for _, c := range cases {
		logger := NewLogger(c.level, "text")
		if logger == nil {
			t.Fatalf("NewLogger(%q) returned nil", c.level)
		}
		ctx := context.Background()
		if !logger.Enabled(ctx, c.enabled) {
			t.Errorf("NewLogger(%q): level %v should be enabled", c.level, c.enabled)
		}
		if logger.Enabled(ctx, c.muted) {
			t.Errorf("NewLogger(%q): level %v should be muted", c.level, c.muted)
		}
	}
}

func TestNewLoggerFormats(t *testing.T) {
	if NewLogger("info", "json") == nil {
		t.Fatal("NewLogger json returned nil")
	}
	if NewLogger("info", "text") == nil {
		t.Fatal("NewLogger text returned nil")
	}
	if NewLogger("info", "") == nil {
		t.Fatal("NewLogger default format returned nil")
	}
}
