package log

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	t.Run("level", func(t *testing.T) {
		for _, level := range []Level{
			LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError,
		} {
			c := defaultConfig(nil).with(WithLevel(level))
			if c.level != level {
				t.Errorf("level = %v, want %v", c.level, level)
			}
		}
	})

	t.Run("format", func(t *testing.T) {
		for _, format := range []Format{FormatJSON, FormatText} {
			c := defaultConfig(nil).with(WithFormat(format))
			if c.format != format {
				t.Errorf("format = %v, want %v", c.format, format)
			}
		}
	})

	t.Run("caller", func(t *testing.T) {
		if c := defaultConfig(nil).with(WithCaller(true)); !c.caller {
			t.Error("caller not enabled")
		}

		if c := defaultConfig(nil).with(WithCaller(false)); c.caller {
			t.Error("caller not disabled")
		}
	})

	t.Run("options accumulate", func(t *testing.T) {
		c := defaultConfig(nil).with(
			WithLevel(LevelDebug),
			WithFormat(FormatText),
			WithPretty(false),
		)

		if c.level != LevelDebug || c.format != FormatText || c.pretty {
			t.Errorf("config = %+v", c)
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"INFO+2", LevelInfo + 2},
		{"nonsense", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{" text ", FormatText},
		{"yaml", DefaultFormat},
		{"", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimeFormatter(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name        string
		layout      string
		contains    []string
		notContains []string
	}{
		{
			name:        "rfc3339 named layout",
			layout:      "RFC3339",
			contains:    []string{"2023-10-15T14:30:45Z"},
			notContains: []string{".123"},
		},
		{
			name:     "rfc3339 nano named layout",
			layout:   "RFC3339Nano",
			contains: []string{"2023-10-15T14:30:45.123456789Z"},
		},
		{
			name:     "named layout survives punctuation",
			layout:   "rfc-3339",
			contains: []string{"2023-10-15T14:30:45Z"},
		},
		{
			name:     "custom layout passes verbatim",
			layout:   "   2006-01-02 15:04:05.000Z07:00",
			contains: []string{"   2023-10-15 14:30:45.123Z"},
		},
		{
			name:     "unknown name treated as custom layout",
			layout:   "UNKNOWN_FORMAT",
			contains: []string{"UNKNOWN_FORMAT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeFormatter(tt.layout)(now)

			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("format = %q, want substring %q", got, s)
				}
			}

			for _, s := range tt.notContains {
				if strings.Contains(got, s) {
					t.Errorf("format = %q, unwanted substring %q", got, s)
				}
			}
		})
	}
}

func TestTimeFormatter_Disabled(t *testing.T) {
	now := time.Now()

	for _, layout := range []string{"", "   \t  ", "none", "NONE"} {
		if got := timeFormatter(layout)(now); got != "" {
			t.Errorf("layout %q produced %q, want empty", layout, got)
		}
	}
}

func TestLevels_IterationOrder(t *testing.T) {
	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if len(names) != len(want) {
		t.Fatalf("levels = %v", names)
	}

	for i, name := range want {
		if names[i] != name {
			t.Errorf("levels[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestFormats_ContainsAll(t *testing.T) {
	seen := map[string]bool{}
	for name := range Formats() {
		seen[name] = true
	}

	if !seen["json"] || !seen["text"] {
		t.Errorf("formats = %v", seen)
	}
}

func BenchmarkTimeFormatter(b *testing.B) {
	format := timeFormatter("RFC3339Nano")
	now := time.Now()

	b.ResetTimer()

	for range b.N {
		_ = format(now)
	}
}
