package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *zapcore.Level
	}{
		{"debug", levelPtr(zapcore.DebugLevel)},
		{"WARN", levelPtr(zapcore.WarnLevel)},
		{"fatal", nil},
		{"verbose", nil},
	}
	for _, tt := range tests {
		got := parseLevel(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := wrap(zap.New(core)).With(String("session_id", "abc"))

	log.Debug("dropped")
	log.Info("saved", Int64("service_id", 42))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session_id"] != "abc" || fields["service_id"] != int64(42) {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
