package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("level = %v, want %v", logger.Level(), LevelInfo)
	}

	if logger.Format() != FormatJSON {
		t.Errorf("format = %v, want %v", logger.Format(), FormatJSON)
	}

	if logger.caller {
		t.Error("call sites enabled by default")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelDebug))
	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message dropped at debug level")
	}

	buf.Reset()

	quiet := Make(&buf, WithLevel(LevelError))
	quiet.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message emitted at error level")
	}

	quiet.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message dropped at error level")
	}
}

func TestLogger_Methods_RespectLevel(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", (Logger).Trace, LevelTrace, true},
		{"trace at debug", (Logger).Trace, LevelDebug, false},
		{"debug at debug", (Logger).Debug, LevelDebug, true},
		{"debug at info", (Logger).Debug, LevelInfo, false},
		{"info at info", (Logger).Info, LevelInfo, true},
		{"info at warn", (Logger).Info, LevelWarn, false},
		{"warn at warn", (Logger).Warn, LevelWarn, true},
		{"warn at error", (Logger).Warn, LevelError, false},
		{"error at error", (Logger).Error, LevelError, true},
		{"error at trace", (Logger).Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v", got, tt.logged)
			}
		})
	}
}

func TestLogger_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}

		if entry["msg"] != "test message" {
			t.Errorf("msg = %v", entry["msg"])
		}

		if entry["key"] != "value" {
			t.Errorf("key = %v", entry["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()

		if !strings.Contains(output, "test message") {
			t.Errorf("message missing from %q", output)
		}

		if !strings.Contains(output, "key=value") {
			t.Errorf("attribute missing from %q", output)
		}
	})
}

func TestLogger_TimeLayout(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		contains string
	}{
		{"rfc3339", "RFC3339", "T"},
		{"rfc3339 nano", "RFC3339Nano", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithTimeLayout(tt.layout), WithPretty(false))
			logger.Info("test")

			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output %q lacks %q", buf.String(), tt.contains)
			}
		})
	}
}

func TestLogger_TimeLayoutNone_OmitsTimestamp(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"), WithPretty(false))
	logger.Info("test")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("timestamp present in %q", buf.String())
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithCaller(true))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "source") {
		t.Error("call site missing when enabled")
	}

	buf.Reset()

	logger = Make(&buf, WithCaller(false))
	logger.Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Error("call site present when disabled")
	}
}

func TestLogger_PrettyText_LevelNames(t *testing.T) {
	// The trace level must render its own name rather than slog's
	// "DEBUG-4" spelling.
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...slog.Attr)
		level   string
	}{
		{"trace", Logger.Trace, "trace"},
		{"debug", Logger.Debug, "debug"},
		{"info", Logger.Info, "info"},
		{"warn", Logger.Warn, "warn"},
		{"error", Logger.Error, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf,
				WithLevel(LevelTrace),
				WithFormat(FormatText),
				WithPretty(true))

			tt.logFunc(logger, "test message")

			output := buf.String()

			if !strings.Contains(output, "test message") {
				t.Errorf("message missing from %q", output)
			}

			if !strings.Contains(output, tt.level) {
				t.Errorf("level %q missing from %q", tt.level, output)
			}
		})
	}
}

func TestLogger_Wrap_DerivesWithoutMutating(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelInfo))
	verbose := base.Wrap(WithLevel(LevelTrace))

	if base.Level() != LevelInfo {
		t.Errorf("base level changed to %v", base.Level())
	}

	if verbose.Level() != LevelTrace {
		t.Errorf("derived level = %v", verbose.Level())
	}

	verbose.Trace("trace message")

	if !strings.Contains(buf.String(), "trace message") {
		t.Error("derived logger did not emit at its own level")
	}
}

func TestLogger_With_AttachesAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
	logger = logger.With(slog.String("key", "value"))

	logger.Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...slog.Attr)
	}{
		{"debug", func(l Logger, msg string, attrs ...slog.Attr) {
			l.DebugContext(DefaultContextProvider(), msg, attrs...)
		}},
		{"info", func(l Logger, msg string, attrs ...slog.Attr) {
			l.InfoContext(DefaultContextProvider(), msg, attrs...)
		}},
		{"warn", func(l Logger, msg string, attrs ...slog.Attr) {
			l.WarnContext(DefaultContextProvider(), msg, attrs...)
		}},
		{"error", func(l Logger, msg string, attrs ...slog.Attr) {
			l.ErrorContext(DefaultContextProvider(), msg, attrs...)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(LevelDebug))
			tt.logFunc(logger, "test message")

			if !strings.Contains(buf.String(), "test message") {
				t.Errorf("message missing from %q", buf.String())
			}
		})
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var l Logger

	// None of these may panic.
	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	if derived := l.With(slog.String("key", "value")); derived.Logger != nil {
		t.Error("With on the zero logger built a backing logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero logger does not report defaults")
	}
}

func TestLogger_ConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			logger.Info("concurrent message", slog.Int("id", id))
		}(i)
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("lines = %d, want 100", len(lines))
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_WithCaller(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithCaller(true))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_Concurrent(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			logger.Info("concurrent message", slog.Int("id", i))
			i++
		}
	})
}
