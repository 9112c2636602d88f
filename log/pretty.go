package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles for pretty rendering. Keys are dimmed so values stand out.
var (
	styleKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleString   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleNumber   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTrue     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFalse    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleTime     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleDuration = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// levelStyle colors a level by severity.
func levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styleFalse
	case level >= slog.LevelWarn:
		return styleNumber
	case level >= slog.LevelInfo:
		return styleTrue
	}

	return styleTime
}

// prettyHandler renders records for people instead of machines: colored
// keys and unquoted values, one space-separated line per record in text
// format or one indented object in JSON format.
type prettyHandler struct {
	opts  slog.HandlerOptions
	ftime func(time.Time) string
	mu    *sync.Mutex
	w     io.Writer
	json  bool
	attrs []slog.Attr
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	ftime func(time.Time) string,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		ftime: ftime,
		mu:    &sync.Mutex{},
		w:     w,
		json:  format == FormatJSON,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return &clone
}

func (h *prettyHandler) WithGroup(string) slog.Handler {
	// Groups are flattened. Pretty output is for reading, not parsing.
	return h
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	fields := h.fields(r)

	if h.json {
		h.renderJSON(&buf, fields)
	} else {
		h.renderText(&buf, fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// fields flattens one record into ordered attributes: timestamp, level,
// call site, message, handler attributes, then the record's own.
func (h *prettyHandler) fields(r slog.Record) []slog.Attr {
	fields := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs)+4)

	if !r.Time.IsZero() {
		if ts := h.ftime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, a)

		return true
	})

	return fields
}

func (h *prettyHandler) renderText(buf *bytes.Buffer, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(styleKey.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(renderValue(a.Value))
	}
}

func (h *prettyHandler) renderJSON(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(styleKey.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(renderValue(a.Value))
	}

	buf.WriteString("\n}")
}

// renderValue colors one value by its kind. Strings are left unquoted.
func renderValue(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return styleString.Render(v.String())

	case slog.KindInt64:
		return styleNumber.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return styleNumber.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return styleNumber.Render(
			strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return styleTrue.Render("true")
		}

		return styleFalse.Render("false")

	case slog.KindDuration:
		return styleDuration.Render(v.Duration().String())

	case slog.KindTime:
		return styleTime.Render(v.Time().Format(DefaultTimeLayout))

	case slog.KindAny:
		if l, ok := v.Any().(slog.Level); ok {
			return levelStyle(l).Render(Level(l).String())
		}
	}

	return styleString.Render(v.String())
}
