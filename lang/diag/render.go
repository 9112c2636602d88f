package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for terminal diagnostic rendering.
var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)
	spanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	fixStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	gutterSty = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render writes a human-readable report for d to w. When source is
// non-empty, the offending line is echoed with a caret marker.
func Render(w io.Writer, filename string, source string, d Diagnostic) error {
	label := errorStyle.Render(fmt.Sprintf("%s[%s]", d.Severity, d.Code))
	if d.Severity == SeverityWarning {
		label = warnStyle.Render(fmt.Sprintf("%s[%s]", d.Severity, d.Code))
	}

	where := d.Span.Start.String()
	if filename != "" {
		where = filename + ":" + where
	}

	_, err := fmt.Fprintf(w, "%s %s: %s\n",
		label, spanStyle.Render(where), d.Message)
	if err != nil {
		return err
	}

	if source != "" {
		if err := renderLine(w, source, d); err != nil {
			return err
		}
	}

	if d.Fix != "" {
		_, err = fmt.Fprintf(w, "  %s %s\n",
			fixStyle.Render("help:"), d.Fix)
	}

	return err
}

// renderLine echoes the source line containing the diagnostic with a caret
// marking the span start column.
func renderLine(w io.Writer, source string, d Diagnostic) error {
	lines := strings.Split(source, "\n")

	n := d.Span.Start.Line
	if n < 1 || n > len(lines) {
		return nil
	}

	gutter := fmt.Sprintf("%4d | ", n)

	_, err := fmt.Fprintf(w, "%s%s\n",
		gutterSty.Render(gutter), lines[n-1])
	if err != nil {
		return err
	}

	col := d.Span.Start.Column
	if col < 1 {
		col = 1
	}

	width := d.Span.End.Column - col
	if d.Span.End.Line != n || width < 1 {
		width = 1
	}

	_, err = fmt.Fprintf(w, "%s%s%s\n",
		gutterSty.Render("     | "),
		strings.Repeat(" ", col-1),
		errorStyle.Render(strings.Repeat("^", width)))

	return err
}
