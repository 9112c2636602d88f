package parser

import (
	"fmt"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
)

// Binding powers, tightest last. Assignment is absent: it is recognized
// only at statement level.
const (
	bpLowest   = 0
	bpCoalesce = 4
	bpOr       = 5
	bpAnd      = 6
	bpCompare  = 7
	bpRange    = 8
	bpBitwise  = 9
	bpShift    = 10
	bpAdd      = 11
	bpMul      = 12
	bpPrefix   = 13
	bpPostfix  = 14
	bpTry      = 15
)

// infixPower maps each infix operator to its left binding power.
var infixPower = map[token.Kind]int{
	token.Coalesce: bpCoalesce,
	token.OrOr:     bpOr,
	token.AndAnd:   bpAnd,
	token.EqEq:     bpCompare,
	token.NotEq:    bpCompare,
	token.Lt:       bpCompare,
	token.LtEq:     bpCompare,
	token.Gt:       bpCompare,
	token.GtEq:     bpCompare,
	token.DotDot:   bpRange,
	token.DotDotEq: bpRange,
	token.Amp:      bpBitwise,
	token.Caret:    bpBitwise,
	token.Pipe:     bpBitwise,
	token.Shl:      bpShift,
	token.Shr:      bpShift,
	token.Plus:     bpAdd,
	token.Minus:    bpAdd,
	token.Star:     bpMul,
	token.Slash:    bpMul,
	token.Percent:  bpMul,
}

// parseExpr parses an expression whose operators all bind at least as
// tightly as min.
func (p *Parser) parseExpr(min int) ast.Expr {
	if p.depth >= p.maxDepth {
		p.unexpected("expression nesting exceeds maximum depth")
		tok := p.advance()

		return &ast.BadExpr{NodeSpan: spanNode(tok.Span)}
	}

	p.depth++
	defer func() { p.depth-- }()

	left := p.parseUnary()

	for {
		op := p.cur().Kind

		bp, ok := infixPower[op]
		if !ok || bp < min {
			return left
		}

		switch {
		case op.IsComparison():
			left = p.parseComparison(left)
		case op.IsRange():
			left = p.parseRange(left)
		case op == token.Coalesce:
			// Right-associative: recurse at the same power.
			p.advance()

			right := p.parseExpr(bp)
			left = &ast.Binary{
				NodeSpan: spanNode(left.Span().Extend(right.Span())),
				Op:       op,
				X:        left,
				Y:        right,
			}
		default:
			p.advance()

			right := p.parseExpr(bp + 1)
			left = &ast.Binary{
				NodeSpan: spanNode(left.Span().Extend(right.Span())),
				Op:       op,
				X:        left,
				Y:        right,
			}
		}
	}
}

// parseComparison parses one comparison and diagnoses chained use, which
// the grammar forbids. The chain is still built so downstream consumers
// see every operand.
func (p *Parser) parseComparison(left ast.Expr) ast.Expr {
	opTok := p.advance()
	right := p.parseExpr(bpCompare + 1)

	bin := &ast.Binary{
		NodeSpan: spanNode(left.Span().Extend(right.Span())),
		Op:       opTok.Kind,
		X:        left,
		Y:        right,
	}

	if p.cur().Kind.IsComparison() {
		p.report(diag.Diagnostic{
			Code:     diag.InvalidOperator,
			Severity: diag.SeverityError,
			Span:     p.cur().Span,
			Message:  "comparison operators cannot be chained",
			Fix: fmt.Sprintf(
				"write (a %s b) %s c to compare the result",
				opTok.Lexeme, p.cur().Lexeme),
			Recovery: diag.RecoverNone,
		})
	}

	return bin
}

// parseRange parses low..high or low..=high. The high bound is omitted
// when no expression follows.
func (p *Parser) parseRange(low ast.Expr) ast.Expr {
	opTok := p.advance()

	rng := &ast.Range{
		NodeSpan:  spanNode(low.Span().Extend(opTok.Span)),
		Low:       low,
		Inclusive: opTok.Kind == token.DotDotEq,
	}

	if canBeginExpr(p.cur().Kind) {
		rng.High = p.parseExpr(bpRange + 1)
		rng.Loc = rng.Loc.Extend(rng.High.Span())
	}

	if p.cur().Kind.IsRange() {
		p.report(diag.Diagnostic{
			Code:     diag.InvalidOperator,
			Severity: diag.SeverityError,
			Span:     p.cur().Span,
			Message:  "range operators cannot be chained",
			Recovery: diag.RecoverNone,
		})
		p.advance()
	}

	return rng
}

// canBeginExpr reports whether a token of kind k can start an expression.
func canBeginExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.Int, token.Float, token.Str, token.StrBegin,
		token.KwTrue, token.KwFalse, token.LParen, token.LBracket,
		token.LBrace, token.KwIf, token.KwMatch, token.Minus,
		token.Plus, token.Bang, token.Tilde, token.DotDot,
		token.DotDotEq:
		return true
	default:
		return false
	}
}

// parseUnary parses prefix operators, a primary expression, and the
// postfix chain that follows it.
func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.Minus, token.Plus, token.Bang, token.Tilde:
		opTok := p.advance()
		operand := p.parseExpr(bpPrefix)

		return &ast.Unary{
			NodeSpan: spanNode(opTok.Span.Extend(operand.Span())),
			Op:       opTok.Kind,
			X:        operand,
		}
	case token.DotDot, token.DotDotEq:
		// Half-open range with no low bound.
		opTok := p.advance()

		rng := &ast.Range{
			NodeSpan:  spanNode(opTok.Span),
			Inclusive: opTok.Kind == token.DotDotEq,
		}

		if canBeginExpr(p.cur().Kind) {
			rng.High = p.parseExpr(bpRange + 1)
			rng.Loc = rng.Loc.Extend(rng.High.Span())
		}

		return rng
	}

	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix applies the postfix chain: ?, member access, .await,
// indexing, calls, path qualification, macro invocation, and generic
// instantiation.
func (p *Parser) parsePostfix(left ast.Expr) ast.Expr {
	for {
		switch p.cur().Kind {
		case token.Question:
			tok := p.advance()
			left = &ast.Try{
				NodeSpan: spanNode(left.Span().Extend(tok.Span)),
				X:        left,
			}

		case token.Dot:
			p.advance()

			if p.at(token.KwAwait) {
				tok := p.advance()
				left = &ast.Await{
					NodeSpan: spanNode(left.Span().Extend(tok.Span)),
					X:        left,
				}

				continue
			}

			name := p.parseIdent("member name")
			left = &ast.Member{
				NodeSpan: spanNode(left.Span().Extend(name.Span())),
				X:        left,
				Name:     name,
			}

		case token.ColonColon:
			p.advance()

			name := p.parseIdent("path segment")
			left = &ast.Path{
				NodeSpan: spanNode(left.Span().Extend(name.Span())),
				X:        left,
				Name:     name,
			}

		case token.LParen:
			left = p.parseCall(left, nil)

		case token.LBracket:
			p.advance()

			index := p.parseExpr(bpLowest)

			end, _ := p.expect(token.RBracket, "index expression")
			left = &ast.Index{
				NodeSpan: spanNode(left.Span().Extend(end.Span)),
				X:        left,
				Index:    index,
			}

		case token.Lt:
			next, ok := p.disambiguateGeneric(left)
			if !ok {
				return left
			}

			left = next

		case token.Bang:
			id, isIdent := left.(*ast.Ident)
			if !isIdent || !macroDelim(p.peekAfter()) {
				return left
			}

			left = p.parseMacroCall(id)

		default:
			return left
		}
	}
}

// parseCall parses the argument list of a call whose callee (and any
// generic type arguments) have already been consumed.
func (p *Parser) parseCall(fn ast.Expr, typeArgs []ast.Type) ast.Expr {
	p.advance() // (

	call := &ast.Call{
		NodeSpan: spanNode(fn.Span()),
		Fn:       fn,
		TypeArgs: typeArgs,
	}

	for !p.at(token.RParen) && !p.at(token.EOF) {
		call.Args = append(call.Args, p.parseExpr(bpLowest))

		if !p.eat(token.Comma) {
			break
		}
	}

	end, _ := p.expect(token.RParen, "call argument list")
	call.Loc = fn.Span().Extend(end.Span)

	return call
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()

	switch tok.Kind {
	case token.Ident:
		p.advance()

		return &ast.Ident{NodeSpan: spanNode(tok.Span), Name: tok.Lexeme}

	case token.Int, token.Float, token.Str, token.KwTrue, token.KwFalse:
		p.advance()

		return &ast.BasicLit{
			NodeSpan: spanNode(tok.Span),
			Kind:     tok.Kind,
			Lexeme:   tok.Lexeme,
			Value:    tok.Value,
		}

	case token.StrBegin:
		return p.parseInterpString()

	case token.LBracket:
		return p.parseArrayLit()

	case token.LParen:
		return p.parseParenOrTuple()

	case token.LBrace:
		return p.parseBlock()

	case token.KwIf:
		return p.parseIf(true)

	case token.KwMatch:
		return p.parseMatch()

	default:
		fix := ""
		if tok.Kind.IsKeyword() {
			fix = fmt.Sprintf(
				"%q cannot appear in an expression", tok.Lexeme)
		}

		p.report(diag.Diagnostic{
			Code:     diag.UnexpectedToken,
			Severity: diag.SeverityError,
			Span:     tok.Span,
			Message: fmt.Sprintf(
				"expected an expression, found %s", tok),
			Fix:      fix,
			Recovery: diag.RecoverNextStatement,
		})

		// Do not consume the offender: it may be the terminator the
		// statement layer needs to resynchronize on.
		return &ast.BadExpr{NodeSpan: spanNode(tok.Span)}
	}
}

// parseInterpString assembles an interpolated string from the scanner's
// segment tokens: StrBegin (expr (StrMid expr)* StrEnd).
func (p *Parser) parseInterpString() ast.Expr {
	begin := p.advance()

	str := &ast.InterpString{NodeSpan: spanNode(begin.Span)}
	str.Parts = append(str.Parts, ast.StringPart{
		NodeSpan: spanNode(begin.Span),
		Text:     begin.Text(),
	})

	for {
		expr := p.parseExpr(bpLowest)
		str.Parts = append(str.Parts, ast.StringPart{
			NodeSpan: spanNode(expr.Span()),
			Expr:     expr,
		})

		switch p.cur().Kind {
		case token.StrMid:
			mid := p.advance()
			str.Parts = append(str.Parts, ast.StringPart{
				NodeSpan: spanNode(mid.Span),
				Text:     mid.Text(),
			})

		case token.StrEnd:
			end := p.advance()
			str.Parts = append(str.Parts, ast.StringPart{
				NodeSpan: spanNode(end.Span),
				Text:     end.Text(),
			})
			str.Loc = begin.Span.Extend(end.Span)

			return str

		default:
			p.report(diag.Diagnostic{
				Code:     diag.InvalidInterpolation,
				Severity: diag.SeverityError,
				Span:     p.cur().Span,
				Message: "interpolated expression is not followed by " +
					"the rest of the string",
				Fix:      `close the interpolation with "}"`,
				Recovery: diag.RecoverNextStatement,
			})

			return str
		}
	}
}

// parseArrayLit parses [a, b, c]. A malformed literal yields exactly one
// E005 and resumes after the closing bracket, or at the next statement
// boundary when the bracket never closes.
func (p *Parser) parseArrayLit() ast.Expr {
	open := p.advance()

	arr := &ast.ArrayLit{NodeSpan: spanNode(open.Span)}
	reported := false

	for !p.at(token.RBracket) && !p.at(token.EOF) {
		// A token that cannot begin an element means the literal ran off
		// the end of its statement; the unterminated report below covers
		// it.
		if !canBeginExpr(p.cur().Kind) {
			break
		}

		arr.Elems = append(arr.Elems, p.parseExpr(bpLowest))

		if p.eat(token.Comma) {
			continue
		}

		if !p.at(token.RBracket) && !p.at(token.EOF) {
			p.report(diag.Diagnostic{
				Code:     diag.InvalidArrayLiteral,
				Severity: diag.SeverityError,
				Span:     p.cur().Span,
				Message: fmt.Sprintf(
					"expected \",\" or \"]\" in array literal, found %s",
					p.cur()),
				Recovery: diag.RecoverNextBracket,
			})
			p.skipToClose(token.RBracket)

			reported = true
		}

		break
	}

	end := p.cur()
	if !p.eat(token.RBracket) {
		// The bracket never closes. Rebalance the resolver so newlines
		// terminate statements again, and let finishStatement pick up
		// from the boundary without a second report.
		p.term.Track(token.RBracket)
		p.recovered = true

		if !reported {
			p.report(diag.Diagnostic{
				Code:     diag.InvalidArrayLiteral,
				Severity: diag.SeverityError,
				Span:     end.Span,
				Message:  "unterminated array literal",
				Fix:      `close the literal with "]"`,
				Recovery: diag.RecoverNextStatement,
			})
		}
	}

	arr.Loc = open.Span.Extend(end.Span)

	return arr
}

// parseParenOrTuple parses (), (x), (x,), and (a, b, ...). A lone
// parenthesized expression keeps its grouping node; one or more commas
// make a tuple.
func (p *Parser) parseParenOrTuple() ast.Expr {
	open := p.advance()

	if p.at(token.RParen) {
		end := p.advance()

		return &ast.TupleLit{NodeSpan: spanNode(open.Span.Extend(end.Span))}
	}

	first := p.parseExpr(bpLowest)

	if !p.at(token.Comma) {
		end, ok := p.expect(token.RParen, "parenthesized expression")
		if !ok {
			p.report(diag.Diagnostic{
				Code:     diag.InvalidTupleLiteral,
				Severity: diag.SeverityError,
				Span:     p.cur().Span,
				Message:  "unterminated parenthesized expression",
				Recovery: diag.RecoverNextBracket,
			})
			p.skipToClose(token.RParen)
			if !p.eat(token.RParen) {
				p.term.Track(token.RParen)
				p.recovered = true
			}
		}

		return &ast.Paren{
			NodeSpan: spanNode(open.Span.Extend(end.Span)),
			X:        first,
		}
	}

	tup := &ast.TupleLit{
		NodeSpan: spanNode(open.Span),
		Elems:    []ast.Expr{first},
	}

	for p.eat(token.Comma) {
		if p.at(token.RParen) {
			break
		}

		tup.Elems = append(tup.Elems, p.parseExpr(bpLowest))
	}

	end := p.cur()
	if !p.eat(token.RParen) {
		p.report(diag.Diagnostic{
			Code:     diag.InvalidTupleLiteral,
			Severity: diag.SeverityError,
			Span:     end.Span,
			Message: fmt.Sprintf(
				"expected \",\" or \")\" in tuple literal, found %s", end),
			Recovery: diag.RecoverNextBracket,
		})
		p.skipToClose(token.RParen)
		if !p.eat(token.RParen) {
			p.term.Track(token.RParen)
			p.recovered = true
		}
	}

	tup.Loc = open.Span.Extend(end.Span)

	return tup
}

// skipToClose advances to the given closing bracket kind, respecting
// nesting of all three bracket pairs, without consuming it. It stops at
// statement boundaries so one bad literal cannot swallow the file.
func (p *Parser) skipToClose(close token.Kind) {
	depth := 0

	for {
		switch k := p.cur().Kind; {
		case k == token.EOF || k == token.Newline || k == token.Dedent:
			return
		case k == close && depth == 0:
			return
		case k.OpensBracket():
			depth++
			p.advance()
		case k.ClosesBracket():
			if depth == 0 {
				return
			}

			depth--
			p.advance()
		default:
			p.advance()
		}
	}
}

func (p *Parser) parseMatch() *ast.Match {
	kw := p.advance()

	m := &ast.Match{
		NodeSpan: spanNode(kw.Span),
		Subject:  p.parseExpr(bpLowest),
	}

	f, ok := p.openBlock("match body")
	if !ok {
		return m
	}

	for !p.atBlockEnd(&f) {
		if p.skipBlankLines() {
			continue
		}

		if p.at(token.Indent) && f.style == ast.StyleBrace {
			f.absorbed++
			p.advance()

			continue
		}

		arm := &ast.MatchArm{
			NodeSpan: spanNode(p.cur().Span),
			Pat:      p.parsePattern(),
		}

		p.expect(token.FatArrow, "match arm")

		if p.at(token.LBrace) {
			arm.Body = p.parseBlock()
		} else {
			arm.Body = p.parseExpr(bpLowest)
		}

		arm.Loc = arm.Loc.Extend(arm.Body.Span())
		m.Arms = append(m.Arms, arm)

		if !p.eat(token.Comma) && !p.at(token.Newline) &&
			!p.atBlockEnd(&f) {
			p.unexpected("expected match arm separator")
			p.synchronize()
		}
	}

	end := p.closeBlock(&f, "match body")
	m.Loc = kw.Span.Extend(end)

	return m
}
