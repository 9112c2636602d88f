package parser

import (
	"fmt"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
)

// parseType parses a type annotation, reporting E001 when no type is
// present. It always returns a usable node so callers can keep building.
func (p *Parser) parseType() ast.Type {
	t, ok := p.tryType()
	if !ok {
		tok := p.cur()

		p.report(diag.Diagnostic{
			Code:     diag.UnexpectedToken,
			Severity: diag.SeverityError,
			Span:     tok.Span,
			Message:  fmt.Sprintf("expected a type, found %s", tok),
			Recovery: diag.RecoverNone,
		})

		return &ast.NamedType{NodeSpan: spanNode(tok.Span)}
	}

	return t
}

// tryType parses a type without emitting diagnostics, reporting failure
// to the caller instead. The generic disambiguator relies on this
// silence: a failed trial must leave no trace once rolled back.
func (p *Parser) tryType() (ast.Type, bool) {
	switch p.cur().Kind {
	case token.Ident:
		return p.tryNamedType()

	case token.LBracket:
		open := p.advance()

		elem, ok := p.tryType()
		if !ok {
			return nil, false
		}

		end := p.cur()
		if !p.eat(token.RBracket) {
			return nil, false
		}

		return &ast.ArrayType{
			NodeSpan: spanNode(open.Span.Extend(end.Span)),
			Elem:     elem,
		}, true

	case token.LParen:
		return p.tryTupleType()

	case token.KwFn:
		return p.tryFnType()

	default:
		return nil, false
	}
}

func (p *Parser) tryNamedType() (ast.Type, bool) {
	first := p.advance()

	named := &ast.NamedType{
		NodeSpan: spanNode(first.Span),
		Path: []*ast.Ident{{
			NodeSpan: spanNode(first.Span),
			Name:     first.Lexeme,
		}},
	}

	for p.eat(token.ColonColon) {
		seg := p.cur()
		if !p.eat(token.Ident) {
			return nil, false
		}

		named.Path = append(named.Path, &ast.Ident{
			NodeSpan: spanNode(seg.Span),
			Name:     seg.Lexeme,
		})
		named.Loc = named.Loc.Extend(seg.Span)
	}

	if p.at(token.Lt) {
		p.advance()

		for {
			arg, ok := p.tryType()
			if !ok {
				return nil, false
			}

			named.Args = append(named.Args, arg)

			if !p.eat(token.Comma) {
				break
			}
		}

		end := p.cur().Span
		if !p.consumeGt() {
			return nil, false
		}

		named.Loc = named.Loc.Extend(end)
	}

	return named, true
}

func (p *Parser) tryTupleType() (ast.Type, bool) {
	open := p.advance()

	tup := &ast.TupleType{NodeSpan: spanNode(open.Span)}

	for !p.at(token.RParen) {
		elem, ok := p.tryType()
		if !ok {
			return nil, false
		}

		tup.Elems = append(tup.Elems, elem)

		if !p.eat(token.Comma) {
			break
		}
	}

	end := p.cur()
	if !p.eat(token.RParen) {
		return nil, false
	}

	tup.Loc = open.Span.Extend(end.Span)

	return tup, true
}

func (p *Parser) tryFnType() (ast.Type, bool) {
	kw := p.advance()

	if !p.eat(token.LParen) {
		return nil, false
	}

	fn := &ast.FnType{NodeSpan: spanNode(kw.Span)}

	for !p.at(token.RParen) {
		param, ok := p.tryType()
		if !ok {
			return nil, false
		}

		fn.Params = append(fn.Params, param)

		if !p.eat(token.Comma) {
			break
		}
	}

	end := p.cur()
	if !p.eat(token.RParen) {
		return nil, false
	}

	fn.Loc = kw.Span.Extend(end.Span)

	if p.eat(token.Arrow) {
		result, ok := p.tryType()
		if !ok {
			return nil, false
		}

		fn.Result = result
		fn.Loc = fn.Loc.Extend(result.Span())
	}

	return fn, true
}

// ----------------------------------------------------------------------
// Patterns

// parsePattern parses a match or for-loop pattern: wildcard, literal,
// binding, or destructuring with optional rest marker.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.cur()

	switch tok.Kind {
	case token.Ident:
		if tok.Lexeme == "_" {
			p.advance()

			return &ast.WildcardPat{NodeSpan: spanNode(tok.Span)}
		}

		p.advance()

		name := &ast.Ident{NodeSpan: spanNode(tok.Span), Name: tok.Lexeme}

		if p.at(token.LBrace) {
			return p.parseDestructure(name)
		}

		return &ast.BindPat{NodeSpan: spanNode(tok.Span), Name: name}

	case token.Int, token.Float, token.Str, token.KwTrue, token.KwFalse:
		p.advance()

		return &ast.LitPat{
			NodeSpan: spanNode(tok.Span),
			Lit: &ast.BasicLit{
				NodeSpan: spanNode(tok.Span),
				Kind:     tok.Kind,
				Lexeme:   tok.Lexeme,
				Value:    tok.Value,
			},
		}

	case token.Minus:
		p.advance()

		lit := p.cur()
		if lit.Kind != token.Int && lit.Kind != token.Float {
			p.unexpected("expected a numeric literal after \"-\" in pattern")

			return &ast.WildcardPat{NodeSpan: spanNode(tok.Span)}
		}

		p.advance()

		return &ast.LitPat{
			NodeSpan: spanNode(tok.Span.Extend(lit.Span)),
			Lit: &ast.Unary{
				NodeSpan: spanNode(tok.Span.Extend(lit.Span)),
				Op:       token.Minus,
				X: &ast.BasicLit{
					NodeSpan: spanNode(lit.Span),
					Kind:     lit.Kind,
					Lexeme:   lit.Lexeme,
					Value:    lit.Value,
				},
			},
		}

	default:
		p.unexpected(fmt.Sprintf("expected a pattern, found %s", tok))

		return &ast.WildcardPat{NodeSpan: spanNode(tok.Span)}
	}
}

// parseDestructure parses Name { field, field: pat, .. } with the cursor
// on the opening brace. The rest marker must be last.
func (p *Parser) parseDestructure(name *ast.Ident) ast.Pattern {
	p.advance() // {

	d := &ast.DestructurePat{
		NodeSpan: spanNode(name.Span()),
		Name:     name,
	}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.skipBlankLines() {
			continue
		}

		if p.at(token.DotDot) {
			p.advance()

			d.Rest = true

			if !p.at(token.RBrace) {
				p.unexpected(
					`".." must be the final entry of a destructuring pattern`)
				p.skipToClose(token.RBrace)
			}

			break
		}

		fname := p.parseIdent("field name")
		fp := &ast.FieldPat{
			NodeSpan: spanNode(fname.Span()),
			Name:     fname,
		}

		if p.eat(token.Colon) {
			fp.Pat = p.parsePattern()
			fp.Loc = fp.Loc.Extend(fp.Pat.Span())
		}

		d.Fields = append(d.Fields, fp)

		if !p.eat(token.Comma) {
			break
		}
	}

	end, _ := p.expect(token.RBrace, "destructuring pattern")
	d.Loc = name.Span().Extend(end.Span)

	return d
}
