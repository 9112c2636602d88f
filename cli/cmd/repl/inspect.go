package repl

import (
	"fmt"
	"strings"

	"github.com/ardnew/slate/lang"
	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
)

// renderResult builds the printed inspection of one parsed snippet in the
// model's current view. Diagnostics always render first so a broken snippet
// explains itself before the tree or token dump of whatever was recovered.
func (m model) renderResult(source string, result *lang.Result) string {
	var b strings.Builder

	for _, d := range result.Diagnostics {
		var line strings.Builder

		err := diag.Render(&line, "<repl>", source, d)
		if err != nil {
			b.WriteString(errorStyle.Render("render: " + err.Error()))
			b.WriteString("\n")

			continue
		}

		b.WriteString(strings.TrimRight(line.String(), "\n"))
		b.WriteString("\n")
	}

	if result.Truncated > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf(
			"... %d more diagnostics not shown", result.Truncated,
		)))
		b.WriteString("\n")
	}

	switch m.view {
	case viewTokens:
		b.WriteString(renderTokens(result))

	case viewDiags:
		if len(result.Diagnostics) == 0 {
			b.WriteString(resultStyle.Render("no diagnostics"))
			b.WriteString("\n")
		}

	default:
		b.WriteString(renderTree(result, m.style))
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderTree pretty-prints the recovered syntax tree in the given style.
func renderTree(result *lang.Result, style ast.BlockStyle) string {
	var b strings.Builder

	p := ast.Printer{Style: style}

	err := p.Fprint(&b, result.File)
	if err != nil {
		return errorStyle.Render("print: " + err.Error())
	}

	return resultStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderTokens lists the snippet's token stream, one token per line.
func renderTokens(result *lang.Result) string {
	var b strings.Builder

	for _, tok := range result.Tokens {
		b.WriteString(hintStyle.Render(tok.Span.Start.String()))
		b.WriteString("\t")
		b.WriteString(resultStyle.Render(tok.String()))
		b.WriteString("\n")
	}

	return b.String()
}
