package parser

import (
	"fmt"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
)

// blockFrame tracks one open block while its statements are parsed.
//
// Inside a brace block the scanner keeps reporting indentation changes;
// those Indent tokens are absorbed here and paired against Dedents so a
// Dedent with no absorbed partner can be recognized as a delimiter
// mismatch.
type blockFrame struct {
	style    ast.BlockStyle
	start    token.Span
	absorbed int
}

// openBlock recognizes the start of a block in either style. It reports
// E001 and returns ok=false when no block follows, leaving the cursor
// untouched so statement recovery can proceed.
func (p *Parser) openBlock(in string) (blockFrame, bool) {
	switch p.cur().Kind {
	case token.LBrace:
		tok := p.advance()

		return blockFrame{style: ast.StyleBrace, start: tok.Span}, true
	case token.Newline:
		if p.peekSignificant() != token.Indent {
			break
		}

		for p.at(token.Newline) {
			p.advance()
		}

		tok := p.advance() // the Indent

		return blockFrame{style: ast.StyleIndent, start: tok.Span}, true
	}

	p.report(diag.Diagnostic{
		Code:     diag.UnexpectedToken,
		Severity: diag.SeverityError,
		Span:     p.cur().Span,
		Message:  fmt.Sprintf("expected %s, found %s", in, p.cur()),
		Fix:      "open a brace block or indent the following line",
		Recovery: diag.RecoverNextStatement,
	})

	return blockFrame{}, false
}

// atBlockEnd reports whether the cursor sits on the frame's closing
// boundary. Dedents paired with absorbed Indents inside a brace block
// are consumed here rather than ending the block.
func (p *Parser) atBlockEnd(f *blockFrame) bool {
	for {
		switch p.cur().Kind {
		case token.EOF:
			return true
		case token.RBrace:
			return true
		case token.Dedent:
			if f.style == ast.StyleBrace && f.absorbed > 0 {
				f.absorbed--
				p.advance()

				continue
			}

			return true
		default:
			return false
		}
	}
}

// closeBlock consumes the frame's closing delimiter, reporting E004 when
// the block is closed by the other style's delimiter or runs off the end
// of the input. It returns the span of the final token consumed.
func (p *Parser) closeBlock(f *blockFrame, in string) token.Span {
	tok := p.cur()

	switch f.style {
	case ast.StyleBrace:
		if tok.Kind == token.RBrace {
			p.advance()

			return tok.Span
		}

		found := "end of input"
		if tok.Kind == token.Dedent {
			found = "a dedent"
		}

		p.report(diag.Diagnostic{
			Code:     diag.MissingClosingBrace,
			Severity: diag.SeverityError,
			Span:     tok.Span,
			Message: fmt.Sprintf(
				`%s opened with "{" but closed by %s`, in, found),
			Fix:      `close the block with "}"`,
			Recovery: diag.RecoverBlockBoundary,
		})

		if tok.Kind == token.Dedent {
			p.advance()
		}

	case ast.StyleIndent:
		if tok.Kind == token.Dedent {
			p.advance()

			return tok.Span
		}

		if tok.Kind == token.RBrace {
			p.report(diag.Diagnostic{
				Code:     diag.MissingClosingBrace,
				Severity: diag.SeverityError,
				Span:     tok.Span,
				Message: fmt.Sprintf(
					`%s opened by indentation but closed by "}"`, in),
				Fix:      "end the block by dedenting instead",
				Recovery: diag.RecoverBlockBoundary,
			})
			p.advance()
		}
	}

	return tok.Span
}

// parseBlockTail parses the block that follows a construct header, in
// either delimiter style. It returns nil when no block is present.
func (p *Parser) parseBlockTail(in string) *ast.Block {
	f, ok := p.openBlock(in)
	if !ok {
		return nil
	}

	return p.parseBlockBody(f, in)
}

// parseBlock parses a freestanding brace block in statement position.
func (p *Parser) parseBlock() *ast.Block {
	tok := p.advance()
	f := blockFrame{style: ast.StyleBrace, start: tok.Span}

	return p.parseBlockBody(f, "block")
}

func (p *Parser) parseBlockBody(f blockFrame, in string) *ast.Block {
	block := &ast.Block{
		NodeSpan: spanNode(f.start),
		Style:    f.style,
	}

	for !p.atBlockEnd(&f) {
		if p.skipBlankLines() {
			continue
		}

		if p.at(token.Indent) {
			if f.style == ast.StyleBrace {
				f.absorbed++
				p.advance()

				continue
			}

			// A deeper indent with no construct header introducing it.
			p.unexpected("unexpected indentation")
			p.advance()

			continue
		}

		block.Stmts = append(block.Stmts, p.parseStatement())
		p.finishStatement()
	}

	end := p.closeBlock(&f, in)
	block.Loc = f.start.Extend(end)

	return block
}
