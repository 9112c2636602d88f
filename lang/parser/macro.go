package parser

import (
	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
)

// macroDelim reports whether k can open a macro body.
func macroDelim(k token.Kind) bool {
	return k == token.LParen || k == token.LBracket || k == token.LBrace
}

func macroCloser(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	default:
		return token.RBrace
	}
}

// parseMacroCall parses name!(...), name![...], or name!{...} with the
// cursor on the bang. The body is read as an uninterpreted token tree
// under a checkpoint; if its delimiters do not balance, the whole macro
// reading is rolled back and the bang is diagnosed, leaving the name for
// ordinary postfix parsing.
func (p *Parser) parseMacroCall(name *ast.Ident) ast.Expr {
	m := p.checkpoint()

	bang := p.advance() // !
	delim := p.cur().Kind

	tree := &ast.TokenTree{}

	root, ok := p.readTokenGroup(tree)
	if !ok {
		p.restore(m)
		p.advance() // reconsume the bang

		p.report(diag.Diagnostic{
			Code:     diag.MissingClosingBrace,
			Severity: diag.SeverityError,
			Span:     bang.Span,
			Message:  "macro body delimiters do not balance",
			Fix:      "close the macro body with the matching delimiter",
			Recovery: diag.RecoverNextStatement,
		})

		return name
	}

	tree.Root = root

	return &ast.MacroCall{
		NodeSpan: spanNode(name.Span().Extend(tree.Span())),
		Name:     name,
		Delim:    delim,
		Body:     tree,
	}
}

// parseMacroDecl parses a macro definition: macro name! { tokens }. The
// bang is conventional and optional.
func (p *Parser) parseMacroDecl() ast.Stmt {
	kw := p.advance()

	decl := &ast.MacroDecl{
		NodeSpan: spanNode(kw.Span),
		Name:     p.parseIdent("macro name"),
	}

	p.eat(token.Bang)

	if !macroDelim(p.cur().Kind) {
		p.unexpected("expected a delimited macro body")
		p.synchronize()

		return decl
	}

	decl.Delim = p.cur().Kind

	tree := &ast.TokenTree{}

	root, ok := p.readTokenGroup(tree)
	if !ok {
		p.report(diag.Diagnostic{
			Code:     diag.MissingClosingBrace,
			Severity: diag.SeverityError,
			Span:     p.cur().Span,
			Message:  "macro body delimiters do not balance",
			Recovery: diag.RecoverNextStatement,
		})
		p.synchronize()

		return decl
	}

	tree.Root = root
	decl.Body = tree
	decl.Loc = kw.Span.Extend(tree.Span())

	return decl
}

// readTokenGroup reads one delimited group into the tree arena with the
// cursor on the opening delimiter. Nested groups recurse; layout tokens
// are dropped; a wrong closer or end of input fails the read without
// reporting, since the caller decides whether the branch survives.
func (p *Parser) readTokenGroup(tree *ast.TokenTree) (ast.TreeIndex, bool) {
	open := p.advance()
	closer := macroCloser(open.Kind)

	var children []ast.TreeIndex

	for {
		switch k := p.cur().Kind; {
		case k == token.EOF:
			return 0, false

		case k == closer:
			end := p.advance()

			return tree.Group(
				open.Kind, children, open.Span.Extend(end.Span)), true

		case k.ClosesBracket():
			return 0, false

		case macroDelim(k):
			child, ok := p.readTokenGroup(tree)
			if !ok {
				return 0, false
			}

			children = append(children, child)

		case k == token.Newline || k == token.Indent || k == token.Dedent:
			p.advance()

		default:
			children = append(children, tree.Leaf(p.advance()))
		}
	}
}
