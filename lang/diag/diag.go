// Package diag defines the diagnostic catalog for the slate front end and
// the ordered list that collects diagnostics during a parse.
package diag

import (
	"log/slog"
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/slate/lang/token"
)

// Code identifies a diagnostic in the error catalog.
type Code string

const (
	// UnexpectedToken is reported for any token that cannot begin or
	// continue the construct being parsed.
	UnexpectedToken Code = "E001"

	// UnterminatedString is reported when a string literal reaches end of
	// line or end of input without a closing quote.
	UnterminatedString Code = "E002"

	// InvalidIndentation is reported for an indentation width matching no
	// open block, or for mixed tabs and spaces at the same nominal level.
	InvalidIndentation Code = "E003"

	// MissingClosingBrace is reported when a brace-delimited block is
	// closed by dedentation or end of input instead of "}".
	MissingClosingBrace Code = "E004"

	// InvalidArrayLiteral is reported for a malformed or unterminated
	// array literal.
	InvalidArrayLiteral Code = "E005"

	// InvalidTupleLiteral is reported for a malformed or unterminated
	// tuple literal.
	InvalidTupleLiteral Code = "E006"

	// InvalidInterpolation is reported for an unterminated or malformed
	// interpolation span inside a string literal.
	InvalidInterpolation Code = "E007"

	// InvalidOperator is reported for operator misuse, such as chained
	// comparison or range operators.
	InvalidOperator Code = "E008"

	// InvalidIdentifier is reported when an identifier is required but a
	// reserved word or malformed name appears.
	InvalidIdentifier Code = "E009"

	// InvalidNumber is reported for malformed numeric literals.
	InvalidNumber Code = "E010"

	// InvalidEscape is a lexical-specific code for malformed escape
	// sequences inside string literals.
	InvalidEscape Code = "L001"
)

// Severity classifies how a diagnostic affects the parse result.
type Severity int

const (
	// SeverityError marks a diagnostic that invalidates the enclosing
	// construct. The parse continues after local recovery.
	SeverityError Severity = iota

	// SeverityWarning marks a diagnostic for accepted but suspect input.
	SeverityWarning
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}

	return "error"
}

// Recovery names the fixed local recovery action taken for a diagnostic so
// that parsing can continue in the same pass.
type Recovery int

const (
	// RecoverNone means no tokens were skipped.
	RecoverNone Recovery = iota

	// RecoverNextStatement skips to the next statement start.
	RecoverNextStatement

	// RecoverNextQuote skips to the next closing quote or end of line.
	RecoverNextQuote

	// RecoverBlockBoundary skips to the next block boundary.
	RecoverBlockBoundary

	// RecoverNextBracket skips to the next closing bracket.
	RecoverNextBracket
)

// String returns the recovery action name.
func (r Recovery) String() string {
	switch r {
	case RecoverNextStatement:
		return "next-statement"
	case RecoverNextQuote:
		return "next-quote"
	case RecoverBlockBoundary:
		return "block-boundary"
	case RecoverNextBracket:
		return "next-bracket"
	default:
		return "none"
	}
}

// Diagnostic is a single recoverable problem found during scanning or
// parsing. Diagnostics are produced once and never mutated.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     token.Span
	Message  string
	Fix      string // suggested replacement text, or ""
	Recovery Recovery
}

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(d.Code)),
		slog.String("severity", d.Severity.String()),
		slog.Any("span", d.Span),
		slog.String("message", d.Message),
	}

	if d.Fix != "" {
		attrs = append(attrs, slog.String("fix", d.Fix))
	}

	return slog.GroupValue(attrs...)
}

// List collects diagnostics in source order. An optional cap bounds how
// many are retained; parsing itself always runs to completion.
type List struct {
	diags []Diagnostic
	max   int
	lost  int
}

// NewList returns a List retaining at most max diagnostics.
// A max of zero or less means unlimited.
func NewList(max int) *List {
	return &List{max: max}
}

// Add appends a diagnostic, respecting the retention cap.
// It reports whether the diagnostic was retained.
func (l *List) Add(d Diagnostic) bool {
	if l.max > 0 && len(l.diags) >= l.max {
		l.lost++

		return false
	}

	l.diags = append(l.diags, d)

	return true
}

// Len returns the number of retained diagnostics.
func (l *List) Len() int { return len(l.diags) }

// Truncated returns how many diagnostics were discarded by the cap.
func (l *List) Truncated() int { return l.lost }

// Mark returns the current length for later rollback via Rewind.
func (l *List) Mark() int { return len(l.diags) }

// Rewind discards every diagnostic added since the given Mark. It is used
// by the disambiguator to drop diagnostics from an abandoned trial parse.
func (l *List) Rewind(mark int) {
	if mark >= 0 && mark <= len(l.diags) {
		l.diags = l.diags[:mark]
	}
}

// All returns the retained diagnostics ordered by source position.
// The returned slice is shared; callers must not modify it.
func (l *List) All() []Diagnostic {
	sort.SliceStable(l.diags, func(i, j int) bool {
		return l.diags[i].Span.Start.Offset < l.diags[j].Span.Start.Offset
	})

	return l.diags
}

// HasErrors reports whether any retained diagnostic has error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Suggest returns the closest match to name among candidates, or "" when
// nothing ranks close enough to be a plausible correction.
func Suggest(name string, candidates []string) string {
	if name == "" {
		return ""
	}

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}

	best := candidates[matches[0].Index]

	// Require comparable lengths so "x" does not suggest "extern".
	if len(best) > 2*len(name)+1 {
		return ""
	}

	return best
}
