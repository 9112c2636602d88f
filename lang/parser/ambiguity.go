package parser

import (
	"log/slog"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/token"
)

// maxGenericLookahead bounds the trial parse of a generic argument list.
// A real argument list is short; anything longer is overwhelmingly a
// comparison, and the bound keeps the disambiguator linear.
const maxGenericLookahead = 64

// disambiguateGeneric decides whether a "<" after a postfix chain opens
// a generic argument list or is the less-than operator. It trial-parses
// the generic reading first under a checkpoint; if the reading succeeds
// and the token after ">" commits to it, the generic branch wins and the
// checkpoint is discarded. Otherwise the cursor and diagnostics are
// rolled back and the caller falls through to comparison.
//
// The second return is false when the comparison reading should handle
// the "<" instead.
func (p *Parser) disambiguateGeneric(left ast.Expr) (ast.Expr, bool) {
	if !pathLike(left) {
		return left, false
	}

	m := p.checkpoint()

	args, end, ok := p.tryTypeArgs(m)
	if !ok {
		p.restore(m)

		return left, false
	}

	follow := p.cur().Kind

	switch {
	case follow == token.LParen:
		p.logger.Trace("generic call reading selected",
			slog.String("follow", follow.String()))

		return p.parseCall(left, args), true

	case follow == token.ColonColon || closesGeneric(follow):
		// Instantiation without an immediate call: Pair<Int, Bool>
		// followed by :: or by a token no comparison could continue
		// through.
		inst := &ast.Instantiate{
			NodeSpan: spanNode(left.Span().Extend(end)),
			X:        left,
			TypeArgs: args,
		}

		return inst, true

	default:
		p.restore(m)

		return left, false
	}
}

// pathLike reports whether an expression can be the subject of a generic
// argument list: a plain name or a :: qualified name.
func pathLike(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Ident:
		return true
	case *ast.Path:
		return pathLike(v.X)
	default:
		return false
	}
}

// closesGeneric reports whether a token following ">" rules out the
// comparison reading: nothing a comparison's right operand could be
// followed by, so the angle brackets must have been delimiters.
func closesGeneric(k token.Kind) bool {
	switch k {
	case token.RParen, token.RBracket, token.RBrace, token.Comma,
		token.Semicolon, token.Newline, token.Dedent, token.EOF:
		return true
	default:
		return false
	}
}

// tryTypeArgs trial-parses <T, U, ...> with the cursor on "<". It fails
// when the list shape breaks, when a diagnostic was produced, or when
// the bounded window is exhausted, leaving restoration to the caller.
// On success it returns the span of the closing ">".
func (p *Parser) tryTypeArgs(m mark) ([]ast.Type, token.Span, bool) {
	p.advance() // <

	var args []ast.Type

	for {
		if p.pos-m.pos > maxGenericLookahead {
			return nil, token.Span{}, false
		}

		switch p.cur().Kind {
		case token.EOF, token.LBrace, token.Semicolon:
			return nil, token.Span{}, false
		}

		t, ok := p.tryType()
		if !ok {
			return nil, token.Span{}, false
		}

		args = append(args, t)

		if p.eat(token.Comma) {
			continue
		}

		break
	}

	end := p.cur().Span
	if p.cur().Kind == token.Shr {
		// Only the first half of ">>" closes this list.
		end.End = end.Start
		end.End.Offset++
		end.End.Column++
	}

	if !p.consumeGt() {
		return nil, token.Span{}, false
	}

	// A trial that produced diagnostics is not a clean generic reading.
	if p.diags.Mark() != m.diagMark {
		return nil, token.Span{}, false
	}

	return args, end, true
}
