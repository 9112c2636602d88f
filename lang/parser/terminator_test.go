package parser

import (
	"testing"

	"github.com/ardnew/slate/lang/token"
)

func TestResolver_Terminates(t *testing.T) {
	tests := []struct {
		name string
		prev token.Kind
		next token.Kind
		want bool
	}{
		{"plain statement end", token.Ident, token.Ident, true},
		{"after literal", token.Int, token.KwLet, true},
		{"after closing paren", token.RParen, token.KwLet, true},
		{"trailing plus", token.Plus, token.Ident, false},
		{"trailing comma", token.Comma, token.Ident, false},
		{"trailing arrow", token.Arrow, token.Ident, false},
		{"trailing assignment", token.Assign, token.Int, false},
		{"trailing logical and", token.AndAnd, token.Ident, false},
		{"after open brace", token.LBrace, token.Ident, false},
		{"incomplete let", token.KwLet, token.Ident, false},
		{"incomplete match", token.KwMatch, token.Ident, false},
		{"trailing try operator", token.Question, token.Ident, true},
		{"leading member access", token.Ident, token.Dot, false},
		{"leading member after call", token.RParen, token.Dot, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Resolver

			if got := r.Terminates(tt.prev, tt.next); got != tt.want {
				t.Errorf("Terminates(%v, %v) = %v, want %v",
					tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func TestResolver_OpenDelimitersSuppress(t *testing.T) {
	var r Resolver

	r.Track(token.LParen)

	if r.Terminates(token.Ident, token.Ident) {
		t.Error("newline terminated inside parentheses")
	}

	r.Track(token.RParen)

	if !r.Terminates(token.Ident, token.Ident) {
		t.Error("newline suppressed after parentheses closed")
	}

	r.Track(token.LBracket)

	if r.Terminates(token.Int, token.Int) {
		t.Error("newline terminated inside brackets")
	}

	r.Track(token.RBracket)

	if !r.Terminates(token.Ident, token.Ident) {
		t.Error("newline suppressed after brackets closed")
	}

	// Braces never suppress through depth: the block parser owns them,
	// and an expression-position opener suppresses as the previous token.
	r.Track(token.LBrace)

	if !r.Terminates(token.Ident, token.Ident) {
		t.Error("brace depth suppressed a newline")
	}
}

func TestResolver_UnderflowIsClamped(t *testing.T) {
	var r Resolver

	// Stray closers never drive the depth negative.
	r.Track(token.RParen)
	r.Track(token.RBracket)

	if !r.Terminates(token.Ident, token.Ident) {
		t.Error("underflow left the resolver suppressing newlines")
	}
}
