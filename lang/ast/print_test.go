package ast

import (
	"strings"
	"testing"

	"github.com/ardnew/slate/lang/token"
)

func ident(name string) *Ident { return &Ident{Name: name} }

func intLit(lexeme string) *BasicLit {
	return &BasicLit{Kind: token.Int, Lexeme: lexeme}
}

func binary(op token.Kind, x, y Expr) *Binary {
	return &Binary{Op: op, X: x, Y: y}
}

func TestPrint_PrecedenceParentheses(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			name: "natural grouping needs none",
			expr: binary(token.Plus,
				ident("a"),
				binary(token.Star, ident("b"), ident("c"))),
			want: "a + b * c",
		},
		{
			name: "forced grouping is emitted",
			expr: binary(token.Star,
				binary(token.Plus, ident("a"), ident("b")),
				ident("c")),
			want: "(a + b) * c",
		},
		{
			name: "left associativity needs none",
			expr: binary(token.Minus,
				binary(token.Minus, ident("a"), ident("b")),
				ident("c")),
			want: "a - b - c",
		},
		{
			name: "right nested subtraction is grouped",
			expr: binary(token.Minus,
				ident("a"),
				binary(token.Minus, ident("b"), ident("c"))),
			want: "a - (b - c)",
		},
		{
			name: "nested comparison is grouped",
			expr: binary(token.Lt,
				binary(token.Lt, ident("a"), ident("b")),
				ident("c")),
			want: "(a < b) < c",
		},
		{
			name: "redundant paren node is dropped",
			expr: binary(token.Plus,
				&Paren{X: ident("a")},
				ident("b")),
			want: "a + b",
		},
		{
			name: "unary inside binary",
			expr: binary(token.Star,
				&Unary{Op: token.Minus, X: ident("a")},
				ident("b")),
			want: "-a * b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(tt.expr); got != tt.want {
				t.Errorf("Print = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrint_BlockStyles(t *testing.T) {
	fn := &Fn{
		Name:   ident("f"),
		Params: []*Param{{Name: ident("x")}},
		Body: &Block{Stmts: []Stmt{
			&Return{Value: ident("x")},
		}},
	}

	var brace strings.Builder
	if err := (Printer{Style: StyleBrace}).Fprint(&brace, fn); err != nil {
		t.Fatal(err)
	}

	want := "fn f(x) {\n    return x\n}"
	if brace.String() != want {
		t.Errorf("brace = %q, want %q", brace.String(), want)
	}

	var indent strings.Builder
	if err := (Printer{Style: StyleIndent}).Fprint(&indent, fn); err != nil {
		t.Fatal(err)
	}

	want = "fn f(x)\n    return x"
	if indent.String() != want {
		t.Errorf("indent = %q, want %q", indent.String(), want)
	}
}

func TestPrint_IndentWidth(t *testing.T) {
	while := &While{
		Cond: ident("go"),
		Body: &Block{Stmts: []Stmt{&Break{}}},
	}

	var sb strings.Builder
	if err := (Printer{Indent: 2}).Fprint(&sb, while); err != nil {
		t.Fatal(err)
	}

	want := "while go {\n  break\n}"
	if sb.String() != want {
		t.Errorf("output = %q, want %q", sb.String(), want)
	}
}

func TestPrint_InterpStringEscapes(t *testing.T) {
	str := &InterpString{Parts: []StringPart{
		{Text: "tab\there {brace}\n"},
		{Expr: ident("n")},
		{Text: ""},
	}}

	want := `"tab\there \u{7b}brace\u{7d}\n{n}"`
	if got := Print(str); got != want {
		t.Errorf("Print = %q, want %q", got, want)
	}
}

func TestPrint_MatchAndPatterns(t *testing.T) {
	m := &Match{
		Subject: ident("p"),
		Arms: []*MatchArm{
			{
				Pat: &DestructurePat{
					Name: ident("Point"),
					Fields: []*FieldPat{
						{Name: ident("x")},
						{Name: ident("y"), Pat: &BindPat{Name: ident("py")}},
					},
					Rest: true,
				},
				Body: ident("x"),
			},
			{Pat: &WildcardPat{}, Body: intLit("0")},
		},
	}

	want := "match p {\n" +
		"    Point { x, y: py, .. } => x\n" +
		"    _ => 0\n" +
		"}"
	if got := Print(m); got != want {
		t.Errorf("Print = %q, want %q", got, want)
	}
}

func TestPrint_Types(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{
			name: "qualified generic",
			typ: &NamedType{
				Path: []*Ident{ident("list"), ident("List")},
				Args: []Type{&NamedType{Path: []*Ident{ident("T")}}},
			},
			want: "list::List<T>",
		},
		{
			name: "array of tuples",
			typ: &ArrayType{Elem: &TupleType{Elems: []Type{
				&NamedType{Path: []*Ident{ident("A")}},
				&NamedType{Path: []*Ident{ident("B")}},
			}}},
			want: "[(A, B)]",
		},
		{
			name: "function type",
			typ: &FnType{
				Params: []Type{&NamedType{Path: []*Ident{ident("Int")}}},
				Result: &NamedType{Path: []*Ident{ident("Bool")}},
			},
			want: "fn(Int) -> Bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(tt.typ); got != tt.want {
				t.Errorf("Print = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := binary(token.Plus, ident("x"), ident("y"))
	b := binary(token.Plus, &Paren{X: ident("x")}, ident("y"))
	c := binary(token.Plus, ident("y"), ident("x"))

	if !Equal(a, b) {
		t.Error("grouping parentheses affected equality")
	}

	if Equal(a, c) {
		t.Error("operand order ignored by equality")
	}

	if !Equal(nil, nil) {
		t.Error("nil nodes are not equal")
	}

	if Equal(a, nil) {
		t.Error("node equals nil")
	}
}

func TestEqual_IgnoresSpans(t *testing.T) {
	a := &Ident{NodeSpan: NodeSpan{Loc: token.Span{
		Start: token.Pos{Offset: 10, Line: 2, Column: 3},
	}}, Name: "x"}
	b := ident("x")

	if !Equal(a, b) {
		t.Error("span information affected equality")
	}
}
