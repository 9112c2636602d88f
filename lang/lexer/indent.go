package lexer

import (
	"strings"

	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
)

// scanIndent runs the indentation bookkeeping at the start of a logical
// line, queueing INDENT or DEDENT tokens and E003 diagnostics.
//
// Lines that are blank or hold only a line comment are invisible to the
// bookkeeping, as are continuation lines: lines following a token that
// cannot end a statement, and lines beginning with a member access.
func (s *Scanner) scanIndent() {
	start := s.here()

	for s.ch == ' ' || s.ch == '\t' {
		s.advance()
	}

	// Blank or comment-only line.
	if s.eof() || s.ch == '\n' || s.ch == '\r' ||
		(s.ch == '/' && s.peek() == '/') {
		return
	}

	// Continuation line: the previous line ended mid-construct, or this
	// line begins with a chained member access. A block-opening "{" is
	// not a continuation: the lines it encloses keep their indentation
	// bookkeeping so the parser can pair Indents against Dedents inside
	// the brace block.
	if s.lastKind.ContinuesLine() && s.lastKind != token.LBrace {
		return
	}

	if s.ch == '.' && isIdentStart(s.peek()) {
		return
	}

	span := s.spanFrom(start)
	prefix := s.lexeme(span)
	width := len(prefix)
	top := s.indents[len(s.indents)-1]

	switch {
	case width == top.width:
		if prefix != top.prefix {
			s.indentError(span,
				"mixed tabs and spaces in indentation")
		}

	case width > top.width:
		if !strings.HasPrefix(prefix, top.prefix) {
			s.indentError(span,
				"mixed tabs and spaces in indentation")

			return
		}

		s.indents = append(s.indents, indentLevel{
			width:  width,
			prefix: prefix,
		})

		s.pending = append(s.pending, token.Token{
			Kind: token.Indent,
			Span: span,
		})

	default:
		for width < s.indents[len(s.indents)-1].width {
			s.indents = s.indents[:len(s.indents)-1]

			s.pending = append(s.pending, token.Token{
				Kind: token.Dedent,
				Span: span,
			})
		}

		// One diagnostic per offending line, even when several levels
		// were popped above.
		rest := s.indents[len(s.indents)-1]

		switch {
		case width != rest.width:
			s.indentError(span,
				"indentation matches no enclosing block")
		case prefix != rest.prefix:
			s.indentError(span,
				"mixed tabs and spaces in indentation")
		}
	}
}

func (s *Scanner) indentError(span token.Span, msg string) {
	s.diags.Add(diag.Diagnostic{
		Code:     diag.InvalidIndentation,
		Severity: diag.SeverityError,
		Span:     span,
		Message:  msg,
		Fix:      "use a consistent indentation character and width",
		Recovery: diag.RecoverNone,
	})
}
