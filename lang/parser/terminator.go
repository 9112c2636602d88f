// Package parser implements the slate statement parser: recursive descent
// over declarations and statements, a Pratt engine for expressions, newline
// terminator resolution, and bounded two-branch disambiguation at the three
// ambiguous grammar forms.
package parser

import (
	"github.com/ardnew/slate/lang/token"
)

// Resolver decides whether a physical newline terminates a statement.
// It is a pure function of bounded local context: the open-delimiter
// depth, the class of the last significant token, and one token of
// lookahead for leading member-access continuation.
//
// The decision is consulted by the parser per newline rather than baked
// into the token stream, so a rolled-back trial parse re-resolves
// newlines under its own state.
type Resolver struct {
	parens int // unclosed (
	bracks int // unclosed [
}

// Track updates delimiter depth for a consumed token.
//
// Braces do not route through Track: statements inside a brace block
// are newline-terminated, and a brace opened in expression position
// suppresses termination through ContinuesLine on the opener instead.
func (r *Resolver) Track(k token.Kind) {
	switch k {
	case token.LParen:
		r.parens++
	case token.RParen:
		if r.parens > 0 {
			r.parens--
		}
	case token.LBracket:
		r.bracks++
	case token.RBracket:
		if r.bracks > 0 {
			r.bracks--
		}
	}
}

// Terminates reports whether a newline encountered between prev (the last
// significant token) and next (the first significant token after the
// newline) ends the current statement.
func (r *Resolver) Terminates(prev, next token.Kind) bool {
	// Inside an unclosed bracketing construct the newline is plain
	// whitespace.
	if r.parens > 0 || r.bracks > 0 {
		return false
	}

	// The previous token still expects an operand or construct body.
	if prev.ContinuesLine() {
		return false
	}

	// A leading member access continues the previous line's expression:
	//
	//	fetch(url)
	//	    .await?
	//	    .json()
	if next == token.Dot {
		return false
	}

	return true
}
