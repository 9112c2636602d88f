package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statementTemplates maps a leading declaration or control keyword to the
// shape of the full statement. The hint line shows the template once the
// keyword is committed with a trailing space.
var statementTemplates = map[string]string{
	"let":    "let name: Type = value",
	"var":    "var name: Type = value",
	"fn":     "fn name<T>(param: Type) -> Type { ... }",
	"async":  "async fn name(param: Type) -> Type { ... }",
	"data":   "data Name<T> { field: Type }",
	"extern": "extern \"abi\" { fn name(param: Type) -> Type }",
	"module": "module name",
	"import": "import path::to::item as alias",
	"macro":  "macro name! { ... }",
	"if":     "if cond { ... } else { ... }",
	"while":  "while cond { ... }",
	"for":    "for pattern in iterable { ... }",
	"match":  "match subject { pattern => value, _ => value }",
	"return": "return value",
}

// Template hint styles.
var (
	templateKeywordStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	templateBodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	templateCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// leadingKeyword returns the statement keyword that opens the input, or ""
// when the input does not begin with a templated keyword followed by more
// text. The cursor must sit past the keyword so completion of the keyword
// itself still wins while it is being typed.
func leadingKeyword(input string, cursor int) string {
	trimmed := strings.TrimLeft(input, " \t")
	lead := len(input) - len(trimmed)

	kw, _, found := strings.Cut(trimmed, " ")
	if !found {
		return ""
	}

	if _, ok := statementTemplates[kw]; !ok {
		return ""
	}

	if cursor <= lead+len(kw) {
		return ""
	}

	return kw
}

// templateSegment reports which whitespace-separated segment of the
// statement the cursor is editing, counting from zero at the keyword.
func templateSegment(input string, cursor int) int {
	if cursor > len(input) {
		cursor = len(input)
	}

	return len(strings.Fields(input[:cursor])) - 1
}

// renderTemplateHint renders the statement template for the input's leading
// keyword with the segment under the cursor highlighted. Returns "" when no
// template applies.
func renderTemplateHint(input string, cursor int) string {
	kw := leadingKeyword(input, cursor)
	if kw == "" {
		return ""
	}

	template := statementTemplates[kw]
	segment := templateSegment(input, cursor)

	parts := strings.Split(template, " ")

	var b strings.Builder

	for i, part := range parts {
		if i > 0 {
			b.WriteString(templateBodyStyle.Render(" "))
		}

		switch {
		case i == 0:
			b.WriteString(templateKeywordStyle.Render(part))

		case i == segment || (i == len(parts)-1 && segment >= len(parts)):
			b.WriteString(templateCurrentStyle.Render(part))

		default:
			b.WriteString(templateBodyStyle.Render(part))
		}
	}

	return b.String()
}
