package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackageFunctions_UseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	defaultLog = Make(&buf,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			output := buf.String()

			if !strings.Contains(output, "package message") {
				t.Errorf("message missing from %q", output)
			}

			if !strings.Contains(output, tt.level) {
				t.Errorf("level %q missing from %q", tt.level, output)
			}

			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("attribute missing from %q", output)
			}
		})
	}
}

func TestConfig_AdjustsDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelDebug), WithPretty(false))

	Debug("configured message")

	if !strings.Contains(buf.String(), "configured message") {
		t.Errorf("message missing from %q", buf.String())
	}

	if Default().Level() != LevelDebug {
		t.Errorf("default level = %v", Default().Level())
	}
}
