package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/ardnew/slate/lang/token"
)

// Printer renders a syntax tree back to source text.
//
// Style selects the block-delimiting style for statement-position blocks.
// Blocks in expression position (if-expression arms, match-arm bodies)
// always render in brace style, since indentation blocks cannot nest inside
// a single-line expression.
type Printer struct {
	Style  BlockStyle
	Indent int // spaces per level; 0 means 4
}

// Print renders n in brace style with default indentation.
func Print(n Node) string {
	var sb strings.Builder

	_ = Printer{}.Fprint(&sb, n)

	return sb.String()
}

// Fprint renders n to w.
func (p Printer) Fprint(w io.Writer, n Node) error {
	if p.Indent <= 0 {
		p.Indent = 4
	}

	pr := &printer{cfg: p, w: w}
	pr.node(n)

	return pr.err
}

type printer struct {
	cfg   Printer
	w     io.Writer
	depth int
	err   error
}

func (p *printer) write(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *printer) writef(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...))
}

func (p *printer) margin() {
	p.write(strings.Repeat(" ", p.depth*p.cfg.Indent))
}

func (p *printer) node(n Node) {
	switch v := n.(type) {
	case *File:
		for i, s := range v.Stmts {
			if i > 0 {
				p.write("\n")
			}

			p.stmt(s)
		}
	case Stmt:
		p.stmt(v)
	case Expr:
		p.expr(v, 0)
	case Pattern:
		p.pattern(v)
	case Type:
		p.typeExpr(v)
	}
}

// ----------------------------------------------------------------------
// Statements

func (p *printer) stmt(s Stmt) {
	p.margin()

	switch v := s.(type) {
	case *BadStmt:
		p.write("/* error */")
	case *ExprStmt:
		p.expr(v.X, 0)
	case *Assign:
		p.expr(v.Target, 0)
		p.writef(" %s ", v.Op)
		p.expr(v.Value, 0)
	case *Block:
		p.block(v)
	case *If:
		p.ifChain(v)
	case *Match:
		p.matchExpr(v)
	case *While:
		p.write("while ")
		p.expr(v.Cond, 0)
		p.blockSuffix(v.Body)
	case *For:
		p.write("for ")
		p.pattern(v.Pat)
		p.write(" in ")
		p.expr(v.Iter, 0)
		p.blockSuffix(v.Body)
	case *Return:
		p.write("return")

		if v.Value != nil {
			p.write(" ")
			p.expr(v.Value, 0)
		}
	case *Break:
		p.write("break")
	case *Continue:
		p.write("continue")
	case *Let:
		if v.Mutable {
			p.write("var ")
		} else {
			p.write("let ")
		}

		p.write(v.Name.Name)

		if v.Type != nil {
			p.write(": ")
			p.typeExpr(v.Type)
		}

		if v.Value != nil {
			p.write(" = ")
			p.expr(v.Value, 0)
		}
	case *Fn:
		p.fnDecl(v)
	case *Data:
		p.dataDecl(v)
	case *Extern:
		p.writef("extern %q ", v.ABI)
		p.write("{\n")
		p.depth++

		for _, d := range v.Decls {
			p.margin()
			p.fnSignature(d)
			p.write("\n")
		}

		p.depth--
		p.margin()
		p.write("}")
	case *Module:
		p.writef("module %s", v.Name.Name)
		p.blockSuffix(v.Body)
	case *Import:
		p.write("import ")

		for i, seg := range v.Path {
			if i > 0 {
				p.write("::")
			}

			p.write(seg.Name)
		}

		if v.Alias != nil {
			p.writef(" as %s", v.Alias.Name)
		}
	case *MacroDecl:
		p.writef("macro %s!", v.Name.Name)
		p.tokenTree(v.Delim, v.Body)
	}
}

// ifChain prints an if with any else-if chain at statement depth.
func (p *printer) ifChain(v *If) {
	p.write("if ")
	p.expr(v.Cond, 0)
	p.blockSuffix(v.Then)

	switch e := v.Else.(type) {
	case *Block:
		if p.cfg.Style == StyleIndent {
			p.write("\n")
			p.margin()
		} else {
			p.write(" ")
		}

		p.write("else")
		p.blockSuffix(e)
	case *If:
		if p.cfg.Style == StyleIndent {
			p.write("\n")
			p.margin()
		} else {
			p.write(" ")
		}

		p.write("else ")
		p.ifChain(e)
	}
}

// blockSuffix prints a block that follows a construct header, honoring the
// configured style.
func (p *printer) blockSuffix(b *Block) {
	if b == nil {
		return
	}

	if p.cfg.Style == StyleIndent {
		p.write("\n")
		p.depth++

		for i, s := range b.Stmts {
			if i > 0 {
				p.write("\n")
			}

			p.stmt(s)
		}

		p.depth--

		return
	}

	p.write(" ")
	p.block(b)
}

// block prints a brace-delimited block at the current depth.
func (p *printer) block(b *Block) {
	if len(b.Stmts) == 0 {
		p.write("{}")

		return
	}

	p.write("{\n")
	p.depth++

	for _, s := range b.Stmts {
		p.stmt(s)
		p.write("\n")
	}

	p.depth--
	p.margin()
	p.write("}")
}

// braceBlock prints a block inline in brace style regardless of the
// configured statement style, for expression positions.
func (p *printer) braceBlock(b *Block) {
	if len(b.Stmts) == 0 {
		p.write("{}")

		return
	}

	// Statements nested under an inline block render in brace style no
	// matter the configured statement style.
	style := p.cfg.Style
	p.cfg.Style = StyleBrace

	defer func() { p.cfg.Style = style }()

	p.write("{ ")

	for i, s := range b.Stmts {
		if i > 0 {
			p.write("; ")
		}

		// Inline: suppress the margin a stmt normally prints.
		depth := p.depth
		p.depth = 0
		p.stmt(s)
		p.depth = depth
	}

	p.write(" }")
}

func (p *printer) fnSignature(v *Fn) {
	if v.Async {
		p.write("async ")
	}

	p.writef("fn %s", v.Name.Name)

	if len(v.TypeParams) > 0 {
		p.write("<")

		for i, tp := range v.TypeParams {
			if i > 0 {
				p.write(", ")
			}

			p.write(tp.Name)
		}

		p.write(">")
	}

	p.write("(")

	for i, param := range v.Params {
		if i > 0 {
			p.write(", ")
		}

		p.write(param.Name.Name)

		if param.Type != nil {
			p.write(": ")
			p.typeExpr(param.Type)
		}
	}

	p.write(")")

	if v.Result != nil {
		p.write(" -> ")
		p.typeExpr(v.Result)
	}
}

func (p *printer) fnDecl(v *Fn) {
	p.fnSignature(v)
	p.blockSuffix(v.Body)
}

func (p *printer) dataDecl(v *Data) {
	p.writef("data %s", v.Name.Name)

	if len(v.TypeParams) > 0 {
		p.write("<")

		for i, tp := range v.TypeParams {
			if i > 0 {
				p.write(", ")
			}

			p.write(tp.Name)
		}

		p.write(">")
	}

	p.write(" {\n")
	p.depth++

	for _, f := range v.Fields {
		p.margin()
		p.write(f.Name.Name)

		if f.Type != nil {
			p.write(": ")
			p.typeExpr(f.Type)
		}

		p.write("\n")
	}

	p.depth--
	p.margin()
	p.write("}")
}

// ----------------------------------------------------------------------
// Expressions

// Binding powers mirrored from the parser's operator table so the printer
// emits parentheses exactly where reparsing would otherwise rebind.
func opPrec(op token.Kind) int {
	switch op {
	case token.Star, token.Slash, token.Percent:
		return 12
	case token.Plus, token.Minus:
		return 11
	case token.Shl, token.Shr:
		return 10
	case token.Amp, token.Caret, token.Pipe:
		return 9
	case token.DotDot, token.DotDotEq:
		return 8
	case token.EqEq, token.NotEq, token.Lt, token.LtEq,
		token.Gt, token.GtEq:
		return 7
	case token.AndAnd:
		return 6
	case token.OrOr:
		return 5
	case token.Coalesce:
		return 4
	default:
		return 0
	}
}

// expr prints e, parenthesizing when its precedence is below min.
func (p *printer) expr(e Expr, min int) {
	switch v := e.(type) {
	case *BadExpr:
		p.write("/* error */")
	case *Ident:
		p.write(v.Name)
	case *BasicLit:
		p.write(v.Lexeme)
	case *InterpString:
		p.interpString(v)
	case *ArrayLit:
		p.write("[")
		p.exprList(v.Elems)
		p.write("]")
	case *TupleLit:
		p.write("(")
		p.exprList(v.Elems)

		if len(v.Elems) == 1 {
			p.write(",")
		}

		p.write(")")
	case *Paren:
		// Redundant grouping is dropped; precedence re-derives it.
		p.expr(v.X, min)
	case *Unary:
		p.paren(13 < min, func() {
			p.write(v.Op.String())
			p.expr(v.X, 13)
		})
	case *Binary:
		prec := opPrec(v.Op)

		lmin, rmin := prec, prec+1
		if v.Op == token.Coalesce {
			lmin, rmin = prec+1, prec
		}

		if v.Op.IsComparison() {
			// Non-associative: parenthesize nested comparisons.
			lmin, rmin = prec+1, prec+1
		}

		p.paren(prec < min, func() {
			p.expr(v.X, lmin)
			p.writef(" %s ", v.Op)
			p.expr(v.Y, rmin)
		})
	case *Range:
		p.paren(8 < min, func() {
			if v.Low != nil {
				p.expr(v.Low, 9)
			}

			if v.Inclusive {
				p.write("..=")
			} else {
				p.write("..")
			}

			if v.High != nil {
				p.expr(v.High, 9)
			}
		})
	case *Try:
		p.expr(v.X, 15)
		p.write("?")
	case *Await:
		p.expr(v.X, 14)
		p.write(".await")
	case *Member:
		p.expr(v.X, 14)
		p.writef(".%s", v.Name.Name)
	case *Index:
		p.expr(v.X, 14)
		p.write("[")
		p.expr(v.Index, 0)
		p.write("]")
	case *Call:
		p.expr(v.Fn, 14)
		p.typeArgs(v.TypeArgs)
		p.write("(")
		p.exprList(v.Args)
		p.write(")")
	case *Instantiate:
		p.expr(v.X, 14)
		p.typeArgs(v.TypeArgs)
	case *Path:
		p.expr(v.X, 14)
		p.writef("::%s", v.Name.Name)
	case *If:
		p.write("if ")
		p.expr(v.Cond, 0)
		p.write(" ")
		p.braceBlock(v.Then)

		switch e := v.Else.(type) {
		case *Block:
			p.write(" else ")
			p.braceBlock(e)
		case *If:
			p.write(" else ")
			p.expr(e, 0)
		}
	case *Match:
		p.matchExpr(v)
	case *MacroCall:
		p.writef("%s!", v.Name.Name)
		p.tokenTree(v.Delim, v.Body)
	case *Block:
		p.braceBlock(v)
	}
}

func (p *printer) paren(need bool, body func()) {
	if need {
		p.write("(")
	}

	body()

	if need {
		p.write(")")
	}
}

func (p *printer) exprList(list []Expr) {
	for i, e := range list {
		if i > 0 {
			p.write(", ")
		}

		p.expr(e, 2)
	}
}

func (p *printer) typeArgs(args []Type) {
	if len(args) == 0 {
		return
	}

	p.write("<")

	for i, t := range args {
		if i > 0 {
			p.write(", ")
		}

		p.typeExpr(t)
	}

	p.write(">")
}

func (p *printer) matchExpr(v *Match) {
	p.write("match ")
	p.expr(v.Subject, 0)
	p.write(" {\n")
	p.depth++

	for _, arm := range v.Arms {
		p.margin()
		p.pattern(arm.Pat)
		p.write(" => ")
		p.expr(arm.Body, 2)
		p.write("\n")
	}

	p.depth--
	p.margin()
	p.write("}")
}

func (p *printer) interpString(v *InterpString) {
	p.write(`"`)

	for _, part := range v.Parts {
		if part.Expr != nil {
			p.write("{")
			p.expr(part.Expr, 0)
			p.write("}")

			continue
		}

		p.write(escapeText(part.Text))
	}

	p.write(`"`)
}

// escapeText escapes string content for re-emission inside double quotes.
// Braces are escaped numerically since a bare brace opens interpolation.
func escapeText(s string) string {
	var sb strings.Builder

	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		case '{':
			sb.WriteString(`\u{7b}`)
		case '}':
			sb.WriteString(`\u{7d}`)
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// ----------------------------------------------------------------------
// Patterns and types

func (p *printer) pattern(pat Pattern) {
	switch v := pat.(type) {
	case *WildcardPat:
		p.write("_")
	case *LitPat:
		p.expr(v.Lit, 0)
	case *BindPat:
		p.write(v.Name.Name)
	case *DestructurePat:
		p.write(v.Name.Name)
		p.write(" { ")

		for i, f := range v.Fields {
			if i > 0 {
				p.write(", ")
			}

			p.write(f.Name.Name)

			if f.Pat != nil {
				p.write(": ")
				p.pattern(f.Pat)
			}
		}

		if v.Rest {
			if len(v.Fields) > 0 {
				p.write(", ")
			}

			p.write("..")
		}

		p.write(" }")
	}
}

func (p *printer) typeExpr(t Type) {
	switch v := t.(type) {
	case *NamedType:
		for i, seg := range v.Path {
			if i > 0 {
				p.write("::")
			}

			p.write(seg.Name)
		}

		p.typeArgs(v.Args)
	case *ArrayType:
		p.write("[")
		p.typeExpr(v.Elem)
		p.write("]")
	case *TupleType:
		p.write("(")

		for i, e := range v.Elems {
			if i > 0 {
				p.write(", ")
			}

			p.typeExpr(e)
		}

		p.write(")")
	case *FnType:
		p.write("fn(")

		for i, param := range v.Params {
			if i > 0 {
				p.write(", ")
			}

			p.typeExpr(param)
		}

		p.write(")")

		if v.Result != nil {
			p.write(" -> ")
			p.typeExpr(v.Result)
		}
	}
}

// tokenTree prints a macro body with its delimiters.
func (p *printer) tokenTree(delim token.Kind, tree *TokenTree) {
	p.write(delim.String())

	if tree != nil && len(tree.Nodes) > 0 {
		root := tree.Nodes[tree.Root]
		for i, c := range root.Children {
			if i > 0 {
				p.write(" ")
			}

			p.treeNode(tree, c)
		}
	}

	p.write(closerFor[delim].String())
}

func (p *printer) treeNode(tree *TokenTree, i TreeIndex) {
	n := tree.Nodes[i]

	if n.Open == token.EOF {
		p.write(n.Tok.Lexeme)

		return
	}

	p.write(n.Open.String())

	for j, c := range n.Children {
		if j > 0 {
			p.write(" ")
		}

		p.treeNode(tree, c)
	}

	p.write(closerFor[n.Open].String())
}
