package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/Carmen-Shannon/penguin-paradise/config"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := Level(tt.in); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigFormats(t *testing.T) {
	json := Config(config.LoggingConfig{Level: "warn", Format: "json"})
	if json.Encoding != "json" || json.Level.Level() != zapcore.WarnLevel {
		t.Errorf("json config = %s at %v", json.Encoding, json.Level.Level())
	}

	console := Config(config.LoggingConfig{Format: "console"})
	if console.Encoding != "console" || !console.DisableCaller || console.Level.Level() != zapcore.InfoLevel {
		t.Errorf("console config = %s caller=%v level=%v", console.Encoding, !console.DisableCaller, console.Level.Level())
	}

	logger, err := New(config.LoggingConfig{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug not enabled")
	}
}
