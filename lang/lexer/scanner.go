// Package lexer implements the slate scanner: a single forward pass over a
// UTF-8 buffer producing tokens, synthetic INDENT/DEDENT markers, and
// lexical diagnostics.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
)

// maxInterpDepth bounds the interpolation mode stack. Deeper nesting
// reports one E007 and skips to the enclosing string's closing quote.
const maxInterpDepth = 16

// Scanner tokenizes one source buffer. It is single-use: construct with
// New, drain with Next or ScanAll.
type Scanner struct {
	src      []byte
	filename string
	diags    *diag.List

	ch   rune // current character, or -1 at end of input
	pos  int  // byte offset of ch
	rd   int  // byte offset after ch
	line int  // 1-based line of ch
	col  int  // 1-based rune column of ch

	atLineStart bool
	lineClosed  bool          // a Newline was the most recent emission
	lastKind    token.Kind    // last significant token kind emitted
	indents     []indentLevel // active indentation levels, bottom first
	pending     []token.Token // queued INDENT/DEDENT tokens
	modes       []interpState // string interpolation mode stack
	brackets    int           // unclosed ( and [ depth

	fatal error
}

// indentLevel is one active entry of the indentation stack. Widths are
// strictly increasing from bottom to top; prefix records the exact
// whitespace so tab/space mixing is detectable at equal widths.
type indentLevel struct {
	width  int
	prefix string
}

// interpState tracks one suspended string while its interpolation
// expression is being tokenized.
type interpState struct {
	braceDepth int
	quote      token.Pos
}

// New creates a scanner over src, appending lexical diagnostics to diags.
// The filename is used only for diagnostics produced by callers.
func New(src []byte, diags *diag.List, opts ...Option) *Scanner {
	s := &Scanner{
		src:         src,
		diags:       diags,
		line:        1,
		atLineStart: true,
		indents:     []indentLevel{{}},
	}

	for _, opt := range opts {
		opt(s)
	}

	if !utf8.Valid(src) {
		s.fatal = ErrInvalidEncoding
	}

	s.ch = -1

	if len(src) > 0 {
		s.advance()
		s.col = 1
	}

	return s
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFilename sets the source name recorded for diagnostics.
func WithFilename(name string) Option {
	return func(s *Scanner) { s.filename = name }
}

// Filename returns the configured source name.
func (s *Scanner) Filename() string { return s.filename }

// Err returns the fatal scan error, if any. Fatal conditions abort the
// pass: unterminated block comments and invalid input encoding.
func (s *Scanner) Err() error { return s.fatal }

// ScanAll drains the scanner and returns every token through EOF.
func (s *Scanner) ScanAll() ([]token.Token, error) {
	var toks []token.Token

	for {
		tok := s.Next()

		toks = append(toks, tok)

		if tok.Kind == token.EOF {
			break
		}
	}

	return toks, s.fatal
}

// Next returns the next token. After the end of input (or a fatal error)
// it returns EOF forever.
func (s *Scanner) Next() (tok token.Token) {
	defer func() {
		switch tok.Kind {
		case token.Newline:
			s.lineClosed = true
		case token.Indent, token.Dedent:
		default:
			s.lastKind = tok.Kind
			s.lineClosed = false
		}
	}()

	for {
		if len(s.pending) > 0 {
			tok = s.pending[0]
			s.pending = s.pending[1:]

			return tok
		}

		if s.fatal != nil {
			return token.Token{Kind: token.EOF, Span: s.spanHere()}
		}

		if s.atLineStart {
			s.atLineStart = false

			if len(s.modes) == 0 && s.brackets == 0 {
				s.scanIndent()

				continue
			}
		}

		s.skipSpace()

		if s.eof() {
			s.queueEOF()

			continue
		}

		switch {
		case s.ch == '\n':
			start := s.here()
			s.advance()
			s.atLineStart = true

			return token.Token{
				Kind:   token.Newline,
				Lexeme: "\n",
				Span:   token.Span{Start: start, End: s.here()},
			}

		case s.ch == '/' && s.peek() == '/':
			s.skipLineComment()

		case s.ch == '/' && s.peek() == '*':
			if !s.skipBlockComment() {
				s.fatal = ErrUnterminatedComment

				return token.Token{Kind: token.EOF, Span: s.spanHere()}
			}

		case s.ch == '"':
			return s.scanString(false)

		case isDigit(s.ch):
			return s.scanNumber()

		case isIdentStart(s.ch):
			return s.scanIdent()

		default:
			if tok, ok := s.scanOperator(); ok {
				return tok
			}
		}
	}
}

// queueEOF terminates any open construct at end of input: a final newline
// if the last line held content, one DEDENT per open indentation level,
// unterminated-interpolation diagnostics, then EOF.
func (s *Scanner) queueEOF() {
	end := s.here()

	for range s.modes {
		s.diags.Add(diag.Diagnostic{
			Code:     diag.InvalidInterpolation,
			Severity: diag.SeverityError,
			Span:     token.Span{Start: end, End: end},
			Message:  "string interpolation is not terminated",
			Recovery: diag.RecoverNextQuote,
		})
	}

	s.modes = nil

	if s.lastKind != token.EOF && !s.lastKind.ContinuesLine() &&
		!s.lineClosed {
		s.pending = append(s.pending, token.Token{
			Kind: token.Newline,
			Span: token.Span{Start: end, End: end},
		})
	}

	for range len(s.indents) - 1 {
		s.pending = append(s.pending, token.Token{
			Kind: token.Dedent,
			Span: token.Span{Start: end, End: end},
		})
	}

	s.indents = s.indents[:1]

	s.pending = append(s.pending, token.Token{
		Kind: token.EOF,
		Span: token.Span{Start: end, End: end},
	})
}

// ----------------------------------------------------------------------
// Character plumbing

func (s *Scanner) eof() bool { return s.ch < 0 }

// advance consumes the current character.
func (s *Scanner) advance() {
	if s.ch == '\n' {
		s.line++
		s.col = 0
	}

	if s.rd >= len(s.src) {
		s.pos = len(s.src)
		s.ch = -1
		s.col++

		return
	}

	r, size := utf8.DecodeRune(s.src[s.rd:])
	s.pos = s.rd
	s.rd += size
	s.ch = r
	s.col++
}

// peek returns the character after the current one without consuming.
func (s *Scanner) peek() rune {
	if s.rd >= len(s.src) {
		return -1
	}

	r, _ := utf8.DecodeRune(s.src[s.rd:])

	return r
}

// peek2 returns the character two past the current one.
func (s *Scanner) peek2() rune {
	if s.rd >= len(s.src) {
		return -1
	}

	_, size := utf8.DecodeRune(s.src[s.rd:])
	if s.rd+size >= len(s.src) {
		return -1
	}

	r, _ := utf8.DecodeRune(s.src[s.rd+size:])

	return r
}

func (s *Scanner) here() token.Pos {
	return token.Pos{Offset: s.pos, Line: s.line, Column: s.col}
}

func (s *Scanner) spanHere() token.Span {
	p := s.here()

	return token.Span{Start: p, End: p}
}

func (s *Scanner) spanFrom(start token.Pos) token.Span {
	return token.Span{Start: start, End: s.here()}
}

func (s *Scanner) lexeme(span token.Span) string {
	end := span.End.Offset
	if end > len(s.src) {
		end = len(s.src)
	}

	return string(s.src[span.Start.Offset:end])
}

func (s *Scanner) skipSpace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\r' {
		s.advance()
	}
}

func (s *Scanner) skipLineComment() {
	for !s.eof() && s.ch != '\n' {
		s.advance()
	}
}

// skipBlockComment consumes a block comment, honoring nesting. It reports
// whether the comment was terminated; an unterminated block comment is
// fatal since no recovery point exists.
func (s *Scanner) skipBlockComment() bool {
	s.advance() // /
	s.advance() // *

	depth := 1

	for !s.eof() {
		switch {
		case s.ch == '/' && s.peek() == '*':
			depth++

			s.advance()
			s.advance()
		case s.ch == '*' && s.peek() == '/':
			depth--

			s.advance()
			s.advance()

			if depth == 0 {
				return true
			}
		default:
			s.advance()
		}
	}

	return false
}

// ----------------------------------------------------------------------
// Character classes

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// ----------------------------------------------------------------------
// Identifiers and keywords

func (s *Scanner) scanIdent() token.Token {
	start := s.here()

	for !s.eof() && isIdentContinue(s.ch) {
		s.advance()
	}

	span := s.spanFrom(start)
	name := s.lexeme(span)
	kind := token.Lookup(name)

	tok := token.Token{Kind: kind, Lexeme: name, Span: span}

	switch kind {
	case token.KwTrue:
		tok.Value = true
	case token.KwFalse:
		tok.Value = false
	}

	return tok
}
