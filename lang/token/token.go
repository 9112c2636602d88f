// Package token defines the lexical vocabulary of the slate language: token
// kinds, source positions, and the keyword and operator tables shared by the
// scanner and parser.
package token

import (
	"fmt"
	"log/slog"
)

// Pos is a position within a source buffer.
// Offset is a byte offset; Line and Column are 1-based and count runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// String returns the position in "line:col" form.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start.Offset, End.Offset) within a source
// buffer.
type Span struct {
	Start Pos
	End   Pos
}

// Extend returns the smallest span covering both s and t.
func (s Span) Extend(t Span) Span {
	if t.Start.Offset < s.Start.Offset {
		s.Start = t.Start
	}

	if t.End.Offset > s.End.Offset {
		s.End = t.End
	}

	return s
}

// String returns the span in "line:col-line:col" form.
func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// LogValue implements slog.LogValuer.
func (s Span) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Token is a single lexical element produced by the scanner.
// Tokens are immutable once produced.
//
// Value holds the decoded literal for literal kinds: int64 for Int, float64
// for Float, string for Str/StrBegin/StrMid/StrEnd (escape sequences
// resolved), and bool for True/False. It is nil for all other kinds.
type Token struct {
	Kind   Kind
	Lexeme string
	Value  any
	Span   Span
}

// String returns a compact human-readable representation of the token.
func (t Token) String() string {
	if t.Lexeme == "" {
		return t.Kind.String()
	}

	return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
}

// LogValue implements slog.LogValuer for structured trace logging.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("lexeme", t.Lexeme),
		slog.String("span", t.Span.String()),
	)
}

// Int returns the decoded integer value for Int tokens.
func (t Token) Int() int64 {
	v, _ := t.Value.(int64)

	return v
}

// Float returns the decoded floating-point value for Float tokens.
func (t Token) Float() float64 {
	v, _ := t.Value.(float64)

	return v
}

// Text returns the decoded string value for string-segment tokens.
func (t Token) Text() string {
	v, _ := t.Value.(string)

	return v
}
