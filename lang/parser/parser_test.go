package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/lexer"
	"github.com/ardnew/slate/lang/token"
)

func parseSource(t *testing.T, src string, opts ...Option) (*ast.File, *diag.List) {
	t.Helper()

	diags := diag.NewList(0)

	toks, err := lexer.New([]byte(src), diags).ScanAll()
	if err != nil {
		t.Fatalf("scan %q: %v", src, err)
	}

	file := New(toks, diags, opts...).ParseFile(context.Background())
	if file == nil {
		t.Fatalf("parse %q: nil file", src)
	}

	return file, diags
}

// parseClean parses source expected to be free of diagnostics.
func parseClean(t *testing.T, src string) *ast.File {
	t.Helper()

	file, diags := parseSource(t, src)
	if diags.Len() != 0 {
		t.Fatalf("parse %q: unexpected diagnostics: %v", src, diags.All())
	}

	return file
}

// onlyStmt asserts the file holds exactly one statement and returns it.
func onlyStmt(t *testing.T, file *ast.File) ast.Stmt {
	t.Helper()

	if len(file.Stmts) != 1 {
		t.Fatalf("statements = %d, want 1", len(file.Stmts))
	}

	return file.Stmts[0]
}

func exprOf(t *testing.T, s ast.Stmt) ast.Expr {
	t.Helper()

	es, ok := s.(*ast.ExprStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExprStmt", s)
	}

	return es.X
}

func TestParse_Declarations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, s ast.Stmt)
	}{
		{
			name:  "immutable let",
			input: "let x = 1",
			check: func(t *testing.T, s ast.Stmt) {
				decl := s.(*ast.Let)
				if decl.Mutable {
					t.Error("let parsed as mutable")
				}

				if decl.Name.Name != "x" || decl.Value == nil {
					t.Errorf("decl = %v", ast.Print(decl))
				}
			},
		},
		{
			name:  "mutable var with type",
			input: "var count: Int = 0",
			check: func(t *testing.T, s ast.Stmt) {
				decl := s.(*ast.Let)
				if !decl.Mutable {
					t.Error("var parsed as immutable")
				}

				named, ok := decl.Type.(*ast.NamedType)
				if !ok || named.Path[0].Name != "Int" {
					t.Errorf("type = %v", decl.Type)
				}
			},
		},
		{
			name:  "let without initializer",
			input: "let buf: [Byte]",
			check: func(t *testing.T, s ast.Stmt) {
				decl := s.(*ast.Let)
				if decl.Value != nil {
					t.Errorf("value = %v", decl.Value)
				}

				if _, ok := decl.Type.(*ast.ArrayType); !ok {
					t.Errorf("type = %T, want *ast.ArrayType", decl.Type)
				}
			},
		},
		{
			name:  "function with params and result",
			input: "fn add(x: Int, y: Int) -> Int { return x + y }",
			check: func(t *testing.T, s ast.Stmt) {
				fn := s.(*ast.Fn)
				if fn.Async {
					t.Error("fn parsed as async")
				}

				if fn.Name.Name != "add" || len(fn.Params) != 2 {
					t.Errorf("signature = %v", ast.Print(fn))
				}

				if fn.Result == nil || fn.Body == nil {
					t.Errorf("result = %v, body = %v", fn.Result, fn.Body)
				}
			},
		},
		{
			name:  "async generic function",
			input: "async fn fetch<T>(url: Str) -> T { return go(url) }",
			check: func(t *testing.T, s ast.Stmt) {
				fn := s.(*ast.Fn)
				if !fn.Async {
					t.Error("async dropped")
				}

				if len(fn.TypeParams) != 1 || fn.TypeParams[0].Name != "T" {
					t.Errorf("type params = %v", fn.TypeParams)
				}
			},
		},
		{
			name:  "data class",
			input: "data Point<T> { x: T, y: T }",
			check: func(t *testing.T, s ast.Stmt) {
				data := s.(*ast.Data)
				if data.Name.Name != "Point" || len(data.TypeParams) != 1 {
					t.Errorf("decl = %v", ast.Print(data))
				}

				if len(data.Fields) != 2 {
					t.Fatalf("fields = %d, want 2", len(data.Fields))
				}

				if data.Fields[1].Name.Name != "y" {
					t.Errorf("second field = %q", data.Fields[1].Name.Name)
				}
			},
		},
		{
			name:  "extern block with ABI",
			input: `extern "C" { fn malloc(size: Int) -> Ptr }`,
			check: func(t *testing.T, s ast.Stmt) {
				ext := s.(*ast.Extern)
				if ext.ABI != "C" {
					t.Errorf("ABI = %q, want C", ext.ABI)
				}

				if len(ext.Decls) != 1 || ext.Decls[0].Body != nil {
					t.Errorf("decls = %v", ext.Decls)
				}
			},
		},
		{
			name:  "module with body",
			input: "module geometry { fn area(r: Float) -> Float { return r } }",
			check: func(t *testing.T, s ast.Stmt) {
				mod := s.(*ast.Module)
				if mod.Name.Name != "geometry" || mod.Body == nil {
					t.Errorf("module = %v", ast.Print(mod))
				}
			},
		},
		{
			name:  "import with alias",
			input: "import std::net::http as web",
			check: func(t *testing.T, s ast.Stmt) {
				imp := s.(*ast.Import)
				if len(imp.Path) != 3 || imp.Path[2].Name != "http" {
					t.Errorf("path = %v", imp.Path)
				}

				if imp.Alias == nil || imp.Alias.Name != "web" {
					t.Errorf("alias = %v", imp.Alias)
				}
			},
		},
		{
			name:  "macro declaration",
			input: "macro swap! { (a, b) => (b, a) }",
			check: func(t *testing.T, s ast.Stmt) {
				decl := s.(*ast.MacroDecl)
				if decl.Name.Name != "swap" || decl.Delim != token.LBrace {
					t.Errorf("decl = %v", ast.Print(decl))
				}

				if decl.Body == nil || len(decl.Body.Tokens()) == 0 {
					t.Error("empty macro body")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, onlyStmt(t, parseClean(t, tt.input)))
		})
	}
}

func TestParse_ControlFlow(t *testing.T) {
	t.Run("if else chain", func(t *testing.T) {
		src := "if a { x() } else if b { y() } else { z() }"
		stmt := onlyStmt(t, parseClean(t, src)).(*ast.If)

		elif, ok := stmt.Else.(*ast.If)
		if !ok {
			t.Fatalf("else arm = %T, want *ast.If", stmt.Else)
		}

		if _, ok := elif.Else.(*ast.Block); !ok {
			t.Errorf("final else = %T, want *ast.Block", elif.Else)
		}
	})

	t.Run("while", func(t *testing.T) {
		stmt := onlyStmt(t, parseClean(t, "while n > 0 { n() }")).(*ast.While)
		if stmt.Cond == nil || len(stmt.Body.Stmts) != 1 {
			t.Errorf("while = %v", ast.Print(stmt))
		}
	})

	t.Run("for over range", func(t *testing.T) {
		stmt := onlyStmt(t, parseClean(t, "for i in 0..10 { f(i) }")).(*ast.For)

		if _, ok := stmt.Pat.(*ast.BindPat); !ok {
			t.Errorf("pattern = %T, want *ast.BindPat", stmt.Pat)
		}

		rng, ok := stmt.Iter.(*ast.Range)
		if !ok || rng.Inclusive {
			t.Errorf("iterator = %v", ast.Print(stmt.Iter))
		}
	})

	t.Run("match arms", func(t *testing.T) {
		src := `match code {
    200 => ok()
    404 => missing()
    _ => other(code)
}`
		m := onlyStmt(t, parseClean(t, src)).(*ast.Match)

		if len(m.Arms) != 3 {
			t.Fatalf("arms = %d, want 3", len(m.Arms))
		}

		if _, ok := m.Arms[0].Pat.(*ast.LitPat); !ok {
			t.Errorf("first pattern = %T, want *ast.LitPat", m.Arms[0].Pat)
		}

		if _, ok := m.Arms[2].Pat.(*ast.WildcardPat); !ok {
			t.Errorf("last pattern = %T, want *ast.WildcardPat", m.Arms[2].Pat)
		}
	})

	t.Run("match with destructuring", func(t *testing.T) {
		src := `match p {
    Point { x, y: py, .. } => x
    _ => 0
}`
		m := onlyStmt(t, parseClean(t, src)).(*ast.Match)

		d, ok := m.Arms[0].Pat.(*ast.DestructurePat)
		if !ok {
			t.Fatalf("pattern = %T, want *ast.DestructurePat", m.Arms[0].Pat)
		}

		if len(d.Fields) != 2 || !d.Rest {
			t.Errorf("destructure = %v", ast.Print(d))
		}

		if d.Fields[0].Pat != nil {
			t.Error("shorthand field has a sub-pattern")
		}

		if d.Fields[1].Pat == nil {
			t.Error("renamed field lost its sub-pattern")
		}
	})

	t.Run("return break continue", func(t *testing.T) {
		file := parseClean(t, "fn f() { return 1 }\nfn g() { return }\n")

		body := file.Stmts[0].(*ast.Fn).Body
		if body.Stmts[0].(*ast.Return).Value == nil {
			t.Error("return value dropped")
		}

		body = file.Stmts[1].(*ast.Fn).Body
		if body.Stmts[0].(*ast.Return).Value != nil {
			t.Error("bare return grew a value")
		}

		file = parseClean(t, "while x { break }\nwhile y { continue }\n")

		if _, ok := file.Stmts[0].(*ast.While).Body.Stmts[0].(*ast.Break); !ok {
			t.Error("break not parsed")
		}

		if _, ok := file.Stmts[1].(*ast.While).Body.Stmts[0].(*ast.Continue); !ok {
			t.Error("continue not parsed")
		}
	})
}

func TestParse_Assignment(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		op     token.Kind
		target string
	}{
		{"simple", "x = 1", token.Assign, "*ast.Ident"},
		{"compound", "total += n", token.PlusAssign, "*ast.Ident"},
		{"member target", "cfg.port = 80", token.Assign, "*ast.Member"},
		{"index target", "xs[0] = 1", token.Assign, "*ast.Index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := onlyStmt(t, parseClean(t, tt.input)).(*ast.Assign)

			if stmt.Op != tt.op {
				t.Errorf("op = %v, want %v", stmt.Op, tt.op)
			}
		})
	}

	t.Run("invalid target", func(t *testing.T) {
		_, diags := parseSource(t, "1 = 2")

		all := diags.All()
		if len(all) != 1 || all[0].Code != diag.UnexpectedToken {
			t.Fatalf("diagnostics = %v, want one %s", all, diag.UnexpectedToken)
		}

		if all[0].Message != "cannot assign to this expression" {
			t.Errorf("message = %q", all[0].Message)
		}
	})
}

func TestParse_BlockStyleEquivalence(t *testing.T) {
	tests := []struct {
		name   string
		brace  string
		indent string
	}{
		{
			name:   "function body",
			brace:  "fn add(x: Int, y: Int) -> Int { return x + y }",
			indent: "fn add(x: Int, y: Int) -> Int\n    return x + y\n",
		},
		{
			name:   "if else",
			brace:  "if ready { start() } else { wait() }",
			indent: "if ready\n    start()\nelse\n    wait()\n",
		},
		{
			name:   "nested loops",
			brace:  "while a { while b { step() } }",
			indent: "while a\n    while b\n        step()\n",
		},
		{
			name:   "for body",
			brace:  "for x in xs { use(x) }",
			indent: "for x in xs\n    use(x)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			braced := parseClean(t, tt.brace)
			indented := parseClean(t, tt.indent)

			if !ast.Equal(braced, indented) {
				t.Errorf("trees differ:\nbrace:  %s\nindent: %s",
					ast.Print(braced), ast.Print(indented))
			}
		})
	}
}

func TestParse_LineContinuation(t *testing.T) {
	tests := []struct {
		name      string
		continued string
		oneLine   string
	}{
		{
			name:      "trailing operator",
			continued: "let total = a +\n    b",
			oneLine:   "let total = a + b",
		},
		{
			name:      "leading member access",
			continued: "let v = fetch(url)\n    .body\n    .text",
			oneLine:   "let v = fetch(url).body.text",
		},
		{
			name:      "open argument list",
			continued: "let r = max(\n    a,\n    b,\n)",
			oneLine:   "let r = max(a, b)",
		},
		{
			name:      "trailing logical operator",
			continued: "let ok = ready and\n    active",
			oneLine:   "let ok = ready and active",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseClean(t, tt.continued)
			want := parseClean(t, tt.oneLine)

			if !ast.Equal(got, want) {
				t.Errorf("continuation parsed as %s, want %s",
					ast.Print(got), ast.Print(want))
			}
		})
	}
}

func TestParse_TryOperatorEndsStatement(t *testing.T) {
	// A trailing ? is a complete expression, so the newline after it
	// terminates the statement. Chains continue through the leading-dot
	// rule instead, as in TestParse_LineContinuation.
	file := parseClean(t, "let x = a?\nb()\n")

	if len(file.Stmts) != 2 {
		t.Fatalf("statements = %d, want 2", len(file.Stmts))
	}
}

func TestParse_IndentedSourceInsideBraces(t *testing.T) {
	// Brace blocks whose bodies are also indented must parse cleanly;
	// the scanner keeps reporting indentation inside them and the parser
	// pairs every Indent with its Dedent.
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "nested if inside function",
			src:  "fn main() {\n    if a {\n        b()\n    }\n}\n",
		},
		{
			name: "statements after inner block",
			src:  "fn main() {\n    if a {\n        b()\n    }\n    c()\n}\n",
		},
		{
			name: "match inside function",
			src: "fn run(x) {\n    match x {\n        0 => done()\n" +
				"        _ => retry()\n    }\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parseClean(t, tt.src)

			if len(file.Stmts) != 1 {
				t.Errorf("statements = %d, want 1", len(file.Stmts))
			}
		})
	}
}

func TestParse_MismatchedBlockDelimiters(t *testing.T) {
	t.Run("brace block closed by dedent", func(t *testing.T) {
		_, diags := parseSource(t, "fn f() {\n    a()\nfn g() { b() }\n")

		found := false

		for _, d := range diags.All() {
			if d.Code == diag.MissingClosingBrace {
				found = true
			}
		}

		if !found {
			t.Errorf("no %s in %v", diag.MissingClosingBrace, diags.All())
		}
	})

	t.Run("unmatched closing brace", func(t *testing.T) {
		_, diags := parseSource(t, "}\n")

		all := diags.All()
		if len(all) != 1 || all[0].Code != diag.MissingClosingBrace {
			t.Fatalf("diagnostics = %v", all)
		}

		if all[0].Message != `unmatched "}"` {
			t.Errorf("message = %q", all[0].Message)
		}
	})
}

func TestParse_ReservedWordAsName(t *testing.T) {
	file, diags := parseSource(t, "let fn = 1")

	all := diags.All()
	if len(all) != 1 || all[0].Code != diag.InvalidIdentifier {
		t.Fatalf("diagnostics = %v, want one %s", all, diag.InvalidIdentifier)
	}

	if !strings.Contains(all[0].Message, "reserved word") {
		t.Errorf("message = %q", all[0].Message)
	}

	// The declaration still parses so later statements are unaffected.
	decl := onlyStmt(t, file).(*ast.Let)
	if decl.Value == nil {
		t.Error("initializer lost during recovery")
	}
}

func TestParse_KeywordTypoSuggestion(t *testing.T) {
	_, diags := parseSource(t, "contine loop")

	all := diags.All()
	if len(all) != 1 || all[0].Code != diag.UnexpectedToken {
		t.Fatalf("diagnostics = %v, want one %s", all, diag.UnexpectedToken)
	}

	if all[0].Fix != `did you mean "continue"?` {
		t.Errorf("fix = %q", all[0].Fix)
	}
}

func TestParse_RecoveryContinues(t *testing.T) {
	// One malformed statement yields one diagnostic; the statements after
	// it parse normally.
	file, diags := parseSource(t, "let = 5\nlet y = 2\nlet z = 3\n")

	if len(file.Stmts) != 3 {
		t.Fatalf("statements = %d, want 3", len(file.Stmts))
	}

	all := diags.All()
	if len(all) != 1 || all[0].Code != diag.InvalidIdentifier {
		t.Fatalf("diagnostics = %v, want one %s", all, diag.InvalidIdentifier)
	}

	if decl, ok := file.Stmts[2].(*ast.Let); !ok || decl.Name.Name != "z" {
		t.Errorf("final statement = %v", ast.Print(file.Stmts[2]))
	}
}

func TestParse_MaxDepth(t *testing.T) {
	src := "let x = " + strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)

	_, diags := parseSource(t, src, WithMaxDepth(10))

	found := false

	for _, d := range diags.All() {
		if strings.Contains(d.Message, "exceeds maximum depth") {
			found = true
		}
	}

	if !found {
		t.Errorf("no depth diagnostic in %v", diags.All())
	}
}

func TestParse_EmptyAndBlankInput(t *testing.T) {
	for _, src := range []string{"", "\n\n\n", "// nothing here\n", ";;\n"} {
		file, diags := parseSource(t, src)

		if len(file.Stmts) != 0 {
			t.Errorf("parse %q: statements = %d, want 0", src, len(file.Stmts))
		}

		if diags.Len() != 0 {
			t.Errorf("parse %q: diagnostics = %v", src, diags.All())
		}
	}
}
