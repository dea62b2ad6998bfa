package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewWithCore(core), logs
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Zap() == nil {
		t.Fatal("Zap() is nil")
	}
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"json", Options{Format: "json", Level: "debug"}},
		{"console", Options{Format: "console", Level: "warn"}},
		{"defaults", Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.opts)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if logger == nil {
				t.Fatal("New() returned nil")
			}
		})
	}
}

func TestNew_InvalidOutput(t *testing.T) {
	_, err := New(Options{Output: []string{"/nonexistent-dir/for/sure/log.txt"}})
	if err == nil {
		t.Error("expected error for an unwritable output path")
	}
}

func TestNew_EnvOverridesLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "ERROR")

	logger, err := New(Options{Level: "debug"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.Zap().Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be disabled when the environment asks for error")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected zapcore.Level
	}{
		{"debug level", "DEBUG", zapcore.DebugLevel},
		{"info level", "INFO", zapcore.InfoLevel},
		{"warn level", "WARN", zapcore.WarnLevel},
		{"warning level", "WARNING", zapcore.WarnLevel},
		{"error level", "ERROR", zapcore.ErrorLevel},
		{"lowercase debug", "debug", zapcore.DebugLevel},
		{"padded", "  warn ", zapcore.WarnLevel},
		{"invalid level", "INVALID", zapcore.InfoLevel},
		{"empty value", "", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.value); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestCorrelationID(t *testing.T) {
	t.Run("generate correlation ID", func(t *testing.T) {
		id1 := GenerateCorrelationID()
		id2 := GenerateCorrelationID()
		if id1 == "" || id1 == id2 {
			t.Errorf("GenerateCorrelationID() returned %q and %q", id1, id2)
		}
	})

	t.Run("explicit id round trips", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "abc")
		if got := GetCorrelationID(ctx); got != "abc" {
			t.Errorf("GetCorrelationID() = %q, want abc", got)
		}
	})

	t.Run("empty id generates one", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "")
		if GetCorrelationID(ctx) == "" {
			t.Error("expected a generated correlation ID")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if got := GetCorrelationID(context.Background()); got != "" {
			t.Errorf("GetCorrelationID() = %q, want empty", got)
		}
	})
}

func TestLoggerMethods(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.DebugLevel)
	ctx := WithCorrelationID(context.Background(), "corr-1")

	logger.Debug(ctx, "debug message", "tick", 3)
	logger.Info(ctx, "info message", "level", 2)
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message", errors.New("boom"), "score", 10)

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, entry := range entries {
		if entry.Level != wantLevels[i] {
			t.Errorf("entry %d level = %v, want %v", i, entry.Level, wantLevels[i])
		}
		if entry.ContextMap()["correlation_id"] != "corr-1" {
			t.Errorf("entry %d missing correlation id: %v", i, entry.ContextMap())
		}
	}

	errorFields := entries[3].ContextMap()
	if errorFields["error"] != "boom" {
		t.Errorf("error field = %v, want boom", errorFields["error"])
	}
	if errorFields["score"] != int64(10) {
		t.Errorf("score field = %v (%T), want 10", errorFields["score"], errorFields["score"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.WarnLevel)

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "hidden")
	logger.Warn(context.Background(), "shown")

	if logs.Len() != 1 || logs.All()[0].Message != "shown" {
		t.Errorf("unexpected entries: %v", logs.All())
	}
}

func TestLogger_RedactsSensitiveKeys(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	logger.Info(context.Background(), "config loaded", "api_token", "xyz", "seed", 42)

	fields := logs.All()[0].ContextMap()
	if fields["api_token"] != "[REDACTED]" {
		t.Errorf("api_token = %v, want [REDACTED]", fields["api_token"])
	}
	if fields["seed"] != int64(42) {
		t.Errorf("seed = %v, want 42", fields["seed"])
	}
}

func TestLogger_With(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	child := logger.With("session_id", "s-1")
	child.Info(context.Background(), "started")

	if got := logs.All()[0].ContextMap()["session_id"]; got != "s-1" {
		t.Errorf("session_id = %v, want s-1", got)
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Info(context.Background(), "ignored")
	if logger.Zap().Core().Enabled(zap.ErrorLevel) {
		t.Error("nop logger should have every level disabled")
	}
}

func TestWrapError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if WrapError(nil, "context") != nil {
			t.Error("WrapError(nil) should return nil")
		}
	})

	t.Run("formats context", func(t *testing.T) {
		original := errors.New("original error")
		wrapped := WrapError(original, "load %s", "game.toml")
		if wrapped.Error() != "load game.toml: original error" {
			t.Errorf("Error() = %q", wrapped.Error())
		}
		if !errors.Is(wrapped, original) {
			t.Error("wrapped error should unwrap to the original")
		}
	})
}
