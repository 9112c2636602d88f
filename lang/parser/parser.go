package parser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/token"
	"github.com/ardnew/slate/log"
)

// DefaultMaxDepth bounds construct nesting so pathological input cannot
// overflow the parse stack.
const DefaultMaxDepth = 200

// Parser consumes a token stream and produces a syntax tree, reporting
// recoverable problems to its diagnostic list.
//
// The parser reads tokens through a cursor that can be checkpointed and
// restored; the disambiguator uses this to trial-parse both readings of
// an ambiguous form and roll back the loser.
type Parser struct {
	filename  string
	toks      []token.Token
	pos       int
	split     bool // the Shr at pos has had its first > consumed
	prev      token.Kind
	term      Resolver
	diags     *diag.List
	depth     int
	maxDepth  int
	recovered bool // an expression already resynchronized this statement
	logger    log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithFilename sets the source name recorded on the produced file node.
func WithFilename(name string) Option {
	return func(p *Parser) { p.filename = name }
}

// WithLogger sets the structured logger used for parse tracing.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithMaxDepth overrides the construct nesting limit.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// New creates a parser over a scanned token stream. Diagnostics are
// appended to diags.
func New(toks []token.Token, diags *diag.List, opts ...Option) *Parser {
	p := &Parser{
		toks:     toks,
		diags:    diags,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseFile parses the entire token stream as one source file.
func (p *Parser) ParseFile(ctx context.Context) *ast.File {
	file := &ast.File{Filename: p.filename}

	if len(p.toks) > 0 {
		file.Loc = p.toks[0].Span.Extend(p.toks[len(p.toks)-1].Span)
	}

	for !p.at(token.EOF) {
		if p.skipBlankLines() {
			continue
		}

		if p.at(token.Indent) || p.at(token.Dedent) {
			// Stray indentation at top level; already diagnosed by the
			// scanner when the width matched no block.
			p.advance()

			continue
		}

		if p.at(token.RBrace) {
			p.report(diag.Diagnostic{
				Code:     diag.MissingClosingBrace,
				Severity: diag.SeverityError,
				Span:     p.cur().Span,
				Message:  `unmatched "}"`,
				Recovery: diag.RecoverNextStatement,
			})
			p.advance()

			continue
		}

		file.Stmts = append(file.Stmts, p.parseStatement())
		p.finishStatement()
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statements", len(file.Stmts)),
		slog.Int("diagnostics", p.diags.Len()),
	)

	return file
}

// ----------------------------------------------------------------------
// Cursor

var eofToken = token.Token{Kind: token.EOF}

// cur returns the current token. When a Shr has been split, the second
// half is presented as a synthetic Gt.
func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return eofToken
	}

	tok := p.toks[p.pos]

	if p.split {
		half := tok.Span
		half.Start.Offset++
		half.Start.Column++

		return token.Token{Kind: token.Gt, Lexeme: ">", Span: half}
	}

	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

// advance consumes the current token and then swallows any newlines the
// terminator resolver classifies as insignificant, so expression code
// never sees a non-terminating line break.
func (p *Parser) advance() token.Token {
	tok := p.cur()

	if p.pos < len(p.toks) {
		p.pos++
	}

	p.split = false
	p.prev = tok.Kind
	p.term.Track(tok.Kind)

	p.skipInsignificant()

	return tok
}

// skipInsignificant drops newlines that do not terminate the current
// statement under the resolver's rules.
func (p *Parser) skipInsignificant() {
	for p.pos < len(p.toks) && p.toks[p.pos].Kind == token.Newline {
		if p.term.Terminates(p.prev, p.peekSignificant()) {
			return
		}

		p.pos++
	}
}

// peekSignificant returns the kind of the first non-newline token at or
// after the cursor.
func (p *Parser) peekSignificant() token.Kind {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].Kind != token.Newline {
			return p.toks[i].Kind
		}
	}

	return token.EOF
}

// peekAfter returns the kind of the token following the current one.
func (p *Parser) peekAfter() token.Kind {
	if p.pos+1 >= len(p.toks) {
		return token.EOF
	}

	return p.toks[p.pos+1].Kind
}

// eat consumes the current token when it has the given kind.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()

		return true
	}

	return false
}

// expect consumes a token of the given kind or reports E001 describing
// what construct needed it.
func (p *Parser) expect(k token.Kind, in string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}

	p.unexpected(fmt.Sprintf("expected %q in %s", k.String(), in))

	return p.cur(), false
}

// consumeGt consumes one closing angle bracket, splitting a >> token in
// half when generic argument lists are nested.
func (p *Parser) consumeGt() bool {
	switch p.cur().Kind {
	case token.Gt:
		p.advance()

		return true
	case token.Shr:
		p.split = true
		p.prev = token.Gt

		return true
	default:
		return false
	}
}

// ----------------------------------------------------------------------
// Checkpoint / restore

// mark captures the complete cursor state for a bounded trial parse.
type mark struct {
	pos       int
	split     bool
	prev      token.Kind
	term      Resolver
	recovered bool
	diagMark  int
}

func (p *Parser) checkpoint() mark {
	return mark{
		pos:       p.pos,
		split:     p.split,
		prev:      p.prev,
		term:      p.term,
		recovered: p.recovered,
		diagMark:  p.diags.Mark(),
	}
}

// restore rewinds the cursor and discards every diagnostic produced since
// the checkpoint. Nodes built by the abandoned branch become garbage; no
// reference to them survives the rollback.
func (p *Parser) restore(m mark) {
	p.pos = m.pos
	p.split = m.split
	p.prev = m.prev
	p.term = m.term
	p.recovered = m.recovered
	p.diags.Rewind(m.diagMark)
}

// ----------------------------------------------------------------------
// Diagnostics

func (p *Parser) report(d diag.Diagnostic) {
	p.diags.Add(d)
}

// unexpected reports E001 at the current token with next-statement
// recovery.
func (p *Parser) unexpected(msg string) {
	tok := p.cur()

	if msg == "" {
		msg = fmt.Sprintf("unexpected token %s", tok)
	}

	p.report(diag.Diagnostic{
		Code:     diag.UnexpectedToken,
		Severity: diag.SeverityError,
		Span:     tok.Span,
		Message:  msg,
		Recovery: diag.RecoverNextStatement,
	})
}

// statement-start keywords used as recovery anchors.
var stmtStart = map[token.Kind]bool{
	token.KwLet:      true,
	token.KwVar:      true,
	token.KwFn:       true,
	token.KwData:     true,
	token.KwExtern:   true,
	token.KwModule:   true,
	token.KwImport:   true,
	token.KwMacro:    true,
	token.KwIf:       true,
	token.KwWhile:    true,
	token.KwFor:      true,
	token.KwMatch:    true,
	token.KwReturn:   true,
	token.KwBreak:    true,
	token.KwContinue: true,
	token.KwAsync:    true,
}

// synchronize skips tokens through the next plausible statement boundary
// so one malformed statement yields one diagnostic.
func (p *Parser) synchronize() {
	for {
		switch p.cur().Kind {
		case token.EOF, token.RBrace, token.Dedent:
			return
		case token.Newline, token.Semicolon:
			p.advance()

			return
		default:
			if stmtStart[p.cur().Kind] {
				return
			}

			p.advance()
		}
	}
}

// ----------------------------------------------------------------------
// Statements

// skipBlankLines consumes statement separators and reports whether any
// were consumed.
func (p *Parser) skipBlankLines() bool {
	skipped := false

	for p.at(token.Newline) || p.at(token.Semicolon) {
		p.advance()

		skipped = true
	}

	return skipped
}

// finishStatement consumes the statement terminator following a parsed
// statement: a semicolon, a significant newline, or a block boundary
// (which terminates without being consumed here).
func (p *Parser) finishStatement() {
	// An expression-level recovery already reported the problem and left
	// the cursor at the next statement boundary.
	if p.recovered {
		p.recovered = false

		if p.at(token.Semicolon) || p.at(token.Newline) {
			p.advance()
		}

		return
	}

	switch p.cur().Kind {
	case token.Semicolon, token.Newline:
		p.advance()
	case token.RBrace, token.Dedent, token.EOF:
		// The closing delimiter terminates the statement; the block
		// parser consumes it.
	default:
		p.unexpected(fmt.Sprintf(
			"unexpected token %s after statement", p.cur()))
		p.synchronize()
	}
}

func (p *Parser) parseStatement() ast.Stmt {
	if p.depth >= p.maxDepth {
		p.unexpected("statement nesting exceeds maximum depth")
		p.advance()

		return &ast.BadStmt{NodeSpan: spanNode(p.cur().Span)}
	}

	p.depth++
	defer func() { p.depth-- }()

	switch p.cur().Kind {
	case token.KwLet, token.KwVar:
		return p.parseLet()
	case token.KwAsync, token.KwFn:
		return p.parseFn()
	case token.KwData:
		return p.parseData()
	case token.KwExtern:
		return p.parseExtern()
	case token.KwModule:
		return p.parseModule()
	case token.KwImport:
		return p.parseImport()
	case token.KwMacro:
		return p.parseMacroDecl()
	case token.KwIf:
		return p.parseIf(false)
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak:
		tok := p.advance()

		return &ast.Break{NodeSpan: spanNode(tok.Span)}
	case token.KwContinue:
		tok := p.advance()

		return &ast.Continue{NodeSpan: spanNode(tok.Span)}
	case token.LBrace:
		return p.parseBlock()
	default:
		return p.parseSimpleStatement()
	}
}

// parseSimpleStatement parses an expression statement or an assignment.
// Assignment operators are recognized only here, never inside the
// expression grammar.
func (p *Parser) parseSimpleStatement() ast.Stmt {
	start := p.cur().Span
	expr := p.parseExpr(0)

	if op := p.cur().Kind; op.IsAssign() {
		p.advance()

		if !assignable(expr) {
			p.report(diag.Diagnostic{
				Code:     diag.UnexpectedToken,
				Severity: diag.SeverityError,
				Span:     expr.Span(),
				Message:  "cannot assign to this expression",
				Fix:      "assignment targets are names, members, and indexes",
				Recovery: diag.RecoverNextStatement,
			})
		}

		value := p.parseExpr(0)

		return &ast.Assign{
			NodeSpan: spanNode(start.Extend(value.Span())),
			Op:       op,
			Target:   expr,
			Value:    value,
		}
	}

	// Two adjacent identifiers usually mean the first was a misspelled
	// keyword; offer the closest match.
	if id, ok := expr.(*ast.Ident); ok && p.at(token.Ident) {
		fix := ""

		if s := diag.Suggest(id.Name, token.Keywords()); s != "" {
			fix = fmt.Sprintf("did you mean %q?", s)
		}

		p.report(diag.Diagnostic{
			Code:     diag.UnexpectedToken,
			Severity: diag.SeverityError,
			Span:     id.Span(),
			Message:  fmt.Sprintf("unexpected identifier %q", id.Name),
			Fix:      fix,
			Recovery: diag.RecoverNextStatement,
		})
		p.synchronize()

		return &ast.BadStmt{NodeSpan: spanNode(id.Span())}
	}

	return &ast.ExprStmt{
		NodeSpan: spanNode(expr.Span()),
		X:        expr,
	}
}

// assignable reports whether an expression is a legal assignment target.
func assignable(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Ident, *ast.Member, *ast.Index, *ast.Path:
		return true
	case *ast.Paren:
		return assignable(v.X)
	default:
		return false
	}
}

func (p *Parser) parseLet() ast.Stmt {
	kw := p.advance()
	mutable := kw.Kind == token.KwVar

	name := p.parseIdent("variable name")

	decl := &ast.Let{
		NodeSpan: spanNode(kw.Span),
		Mutable:  mutable,
		Name:     name,
	}

	if p.eat(token.Colon) {
		decl.Type = p.parseType()
	}

	if p.eat(token.Assign) {
		decl.Value = p.parseExpr(0)
		decl.Loc = kw.Span.Extend(decl.Value.Span())
	} else if decl.Type != nil {
		decl.Loc = kw.Span.Extend(decl.Type.Span())
	} else {
		decl.Loc = kw.Span.Extend(name.Span())
	}

	return decl
}

func (p *Parser) parseFn() ast.Stmt {
	start := p.cur().Span
	async := p.eat(token.KwAsync)

	if _, ok := p.expect(token.KwFn, "function declaration"); !ok {
		p.synchronize()

		return &ast.BadStmt{NodeSpan: spanNode(start)}
	}

	fn := p.parseFnSignature(start, async)
	fn.Body = p.parseBlockTail("function body")

	if fn.Body != nil {
		fn.Loc = fn.Loc.Extend(fn.Body.Span())
	}

	return fn
}

// parseFnSignature parses everything from the function name through the
// optional return type. It is shared with extern blocks, whose functions
// have no bodies.
func (p *Parser) parseFnSignature(start token.Span, async bool) *ast.Fn {
	fn := &ast.Fn{
		NodeSpan: spanNode(start),
		Async:    async,
		Name:     p.parseIdent("function name"),
	}

	if p.at(token.Lt) {
		fn.TypeParams = p.parseTypeParams()
	}

	p.expect(token.LParen, "parameter list")

	for !p.at(token.RParen) && !p.at(token.EOF) {
		param := &ast.Param{
			NodeSpan: spanNode(p.cur().Span),
			Name:     p.parseIdent("parameter name"),
		}

		if p.eat(token.Colon) {
			param.Type = p.parseType()
			param.Loc = param.Loc.Extend(param.Type.Span())
		}

		fn.Params = append(fn.Params, param)

		if !p.eat(token.Comma) {
			break
		}
	}

	if end, ok := p.expect(token.RParen, "parameter list"); ok {
		fn.Loc = start.Extend(end.Span)
	}

	if p.eat(token.Arrow) {
		fn.Result = p.parseType()

		if fn.Result != nil {
			fn.Loc = fn.Loc.Extend(fn.Result.Span())
		}
	}

	return fn
}

// parseTypeParams parses <T, U, ...> in declaration position, where no
// ambiguity with comparison exists.
func (p *Parser) parseTypeParams() []*ast.Ident {
	p.expect(token.Lt, "type parameter list")

	var params []*ast.Ident

	for !p.at(token.EOF) {
		params = append(params, p.parseIdent("type parameter"))

		if !p.eat(token.Comma) {
			break
		}
	}

	if !p.consumeGt() {
		p.unexpected(`expected ">" to close type parameter list`)
	}

	return params
}

func (p *Parser) parseData() ast.Stmt {
	kw := p.advance()

	data := &ast.Data{
		NodeSpan: spanNode(kw.Span),
		Name:     p.parseIdent("data class name"),
	}

	if p.at(token.Lt) {
		data.TypeParams = p.parseTypeParams()
	}

	f, ok := p.openBlock("data class body")
	if !ok {
		return data
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

		field := &ast.Field{
			NodeSpan: spanNode(p.cur().Span),
			Name:     p.parseIdent("field name"),
		}

		if p.eat(token.Colon) {
			field.Type = p.parseType()
			field.Loc = field.Loc.Extend(field.Type.Span())
		}

		data.Fields = append(data.Fields, field)

		if !p.eat(token.Comma) && !p.skipBlankLines() &&
			!p.atBlockEnd(&f) {
			p.unexpected("expected field separator in data class body")
			p.synchronize()
		}
	}

	end := p.closeBlock(&f, "data class body")
	data.Loc = kw.Span.Extend(end)

	return data
}

func (p *Parser) parseExtern() ast.Stmt {
	kw := p.advance()

	ext := &ast.Extern{NodeSpan: spanNode(kw.Span)}

	if p.at(token.Str) {
		ext.ABI = p.cur().Text()
		p.advance()
	}

	f, ok := p.openBlock("extern block")
	if !ok {
		return ext
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

		start := p.cur().Span
		async := p.eat(token.KwAsync)

		if _, ok := p.expect(token.KwFn, "extern block"); !ok {
			p.synchronize()

			continue
		}

		ext.Decls = append(ext.Decls, p.parseFnSignature(start, async))
		p.finishStatement()
	}

	end := p.closeBlock(&f, "extern block")
	ext.Loc = kw.Span.Extend(end)

	return ext
}

func (p *Parser) parseModule() ast.Stmt {
	kw := p.advance()

	mod := &ast.Module{
		NodeSpan: spanNode(kw.Span),
		Name:     p.parseIdent("module name"),
	}

	mod.Body = p.parseBlockTail("module body")

	if mod.Body != nil {
		mod.Loc = kw.Span.Extend(mod.Body.Span())
	}

	return mod
}

func (p *Parser) parseImport() ast.Stmt {
	kw := p.advance()

	imp := &ast.Import{NodeSpan: spanNode(kw.Span)}

	for {
		seg := p.parseIdent("import path")
		imp.Path = append(imp.Path, seg)
		imp.Loc = kw.Span.Extend(seg.Span())

		if !p.eat(token.ColonColon) {
			break
		}
	}

	// "as" is not reserved; it arrives as a plain identifier.
	if p.at(token.Ident) && p.cur().Lexeme == "as" {
		p.advance()

		imp.Alias = p.parseIdent("import alias")
		imp.Loc = kw.Span.Extend(imp.Alias.Span())
	}

	return imp
}

func (p *Parser) parseIf(asExpr bool) *ast.If {
	kw := p.advance()

	stmt := &ast.If{
		NodeSpan: spanNode(kw.Span),
		Cond:     p.parseExpr(0),
	}

	stmt.Then = p.parseBlockTail("if body")

	if stmt.Then != nil {
		stmt.Loc = kw.Span.Extend(stmt.Then.Span())
	}

	switch {
	case p.eat(token.KwElse):
		if p.at(token.KwIf) {
			stmt.Else = p.parseIf(asExpr)
		} else {
			stmt.Else = p.parseBlockTail("else body")
		}

		if stmt.Else != nil {
			stmt.Loc = stmt.Loc.Extend(stmt.Else.Span())
		}

	case asExpr:
		p.report(diag.Diagnostic{
			Code:     diag.UnexpectedToken,
			Severity: diag.SeverityError,
			Span:     stmt.Loc,
			Message:  `"if" used as an expression requires an "else" arm`,
			Fix:      "add an else arm producing the alternative value",
			Recovery: diag.RecoverNone,
		})
	}

	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	kw := p.advance()

	stmt := &ast.While{
		NodeSpan: spanNode(kw.Span),
		Cond:     p.parseExpr(0),
	}

	stmt.Body = p.parseBlockTail("while body")

	if stmt.Body != nil {
		stmt.Loc = kw.Span.Extend(stmt.Body.Span())
	}

	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	kw := p.advance()

	stmt := &ast.For{
		NodeSpan: spanNode(kw.Span),
		Pat:      p.parsePattern(),
	}

	p.expect(token.KwIn, "for loop")

	stmt.Iter = p.parseExpr(0)
	stmt.Body = p.parseBlockTail("for body")

	if stmt.Body != nil {
		stmt.Loc = kw.Span.Extend(stmt.Body.Span())
	}

	return stmt
}

func (p *Parser) parseReturn() ast.Stmt {
	kw := p.advance()

	stmt := &ast.Return{NodeSpan: spanNode(kw.Span)}

	switch p.cur().Kind {
	case token.Newline, token.Semicolon, token.RBrace, token.Dedent,
		token.EOF:
	default:
		stmt.Value = p.parseExpr(0)
		stmt.Loc = kw.Span.Extend(stmt.Value.Span())
	}

	return stmt
}

// parseIdent consumes an identifier, diagnosing reserved words with a
// fuzzy suggestion when the name looks like a keyword typo.
func (p *Parser) parseIdent(in string) *ast.Ident {
	tok := p.cur()

	if tok.Kind != token.Ident {
		msg := fmt.Sprintf("expected %s, found %s", in, tok)
		fix := ""

		if tok.Kind.IsKeyword() {
			msg = fmt.Sprintf(
				"%q is a reserved word and cannot name a %s",
				tok.Lexeme, in)
		}

		p.report(diag.Diagnostic{
			Code:     diag.InvalidIdentifier,
			Severity: diag.SeverityError,
			Span:     tok.Span,
			Message:  msg,
			Fix:      fix,
			Recovery: diag.RecoverNone,
		})

		// Absorb the offender when it plausibly stood for a name, so
		// the rest of the declaration still parses.
		if tok.Kind.IsKeyword() {
			p.advance()
		}

		return &ast.Ident{
			NodeSpan: spanNode(tok.Span),
			Name:     tok.Lexeme,
		}
	}

	p.advance()

	return &ast.Ident{
		NodeSpan: spanNode(tok.Span),
		Name:     tok.Lexeme,
	}
}

func spanNode(s token.Span) ast.NodeSpan {
	return ast.NodeSpan{Loc: s}
}
