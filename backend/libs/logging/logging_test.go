package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":       zapcore.InfoLevel,
		"debug":  zapcore.DebugLevel,
		" WARN ": zapcore.WarnLevel,
		"bogus":  zapcore.InfoLevel,
		"error":  zapcore.ErrorLevel,
	}
	for value, want := range cases {
		t.Setenv(levelEnv, value)
		if got := levelFromEnv(); got != want {
			t.Errorf("LOG_LEVEL=%q: expected %s, got %s", value, want, got)
		}
	}
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	t.Setenv(formatEnv, "console")
	t.Setenv(levelEnv, "debug")

	logger, err := NewLogger("calls-service")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}
}
