package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"guild-bank-ledger/internal/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		debug bool
		info  bool
	}{
		{"debug", config.LogConfig{Level: "DEBUG", Encoding: "json"}, true, true},
		{"warn", config.LogConfig{Level: "warn", Encoding: "console"}, false, false},
		{"unknown falls back to info", config.LogConfig{Level: "loud"}, false, true},
		{"sampling", config.LogConfig{Level: "info", Sampling: true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer l.Sync() //nolint:errcheck
			if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Fatalf("debug enabled = %v, want %v", got, tt.debug)
			}
			if got := l.Core().Enabled(zapcore.InfoLevel); got != tt.info {
				t.Fatalf("info enabled = %v, want %v", got, tt.info)
			}
		})
	}
}

func TestNew_BadEncoding(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "info", Encoding: "xml"}); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}
