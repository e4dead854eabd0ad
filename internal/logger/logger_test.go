package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"WARN", zapcore.WarnLevel},
		{"fatal", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNamedAndWithCarryContext(t *testing.T) {
	l, logs := Observed(zapcore.InfoLevel)

	child := Named(l, "catalog").With(String("kind", "apps"))
	child.Debug("dropped")
	child.Warn("cache read failed", Error(errors.New("boom")), Int64("id", 7))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "catalog" {
		t.Errorf("LoggerName = %q, want catalog", e.LoggerName)
	}
	ctx := e.ContextMap()
	if ctx["kind"] != "apps" || ctx["id"] != int64(7) || ctx["error"] != "boom" {
		t.Errorf("unexpected context %v", ctx)
	}
}

func TestNewBuildsBothEncoders(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		l := New(Options{Level: "error", Pretty: pretty, Service: "shelf", Version: "dev"})
		l.Info("suppressed")
		_ = l.Sync()
	}
}
