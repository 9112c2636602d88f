package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/lexer"
)

const cleanProgram = `import std::collections::list as list

data Point<T> {
    x: T
    y: T
}

fn norm(p: Point<Int>) -> Int {
    let dx = p.x * p.x
    let dy = p.y * p.y
    return dx + dy
}

fn main() {
    var total = 0
    for i in 0..10 {
        if i > 5 {
            total += i
        } else {
            total -= 1
        }
    }
    while total > 100 {
        total = total - 1
    }
    match total {
        0 => report("zero")
        _ => report("total: {total}")
    }
}
`

func TestParseString(t *testing.T) {
	result, err := ParseString(context.Background(), cleanProgram)
	if err != nil {
		t.Fatal(err)
	}

	if result.File == nil {
		t.Fatal("nil file")
	}

	if len(result.File.Stmts) != 4 {
		t.Errorf("statements = %d, want 4", len(result.File.Stmts))
	}

	if result.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", result.Diagnostics)
	}

	if result.Tokens != nil {
		t.Error("tokens retained without WithTokens")
	}
}

func TestParseString_Diagnostics(t *testing.T) {
	result, err := ParseString(context.Background(),
		"let x = \"abc\nlet fn = 1\n")
	if err != nil {
		t.Fatal(err)
	}

	if !result.HasErrors() {
		t.Fatal("expected diagnostics")
	}

	if len(result.File.Stmts) != 2 {
		t.Errorf("statements = %d, want 2 after recovery",
			len(result.File.Stmts))
	}
}

func TestParseBytes_WithTokens(t *testing.T) {
	result, err := ParseBytes(context.Background(),
		[]byte("let x = 1\n"), WithTokens())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Tokens) == 0 {
		t.Fatal("token stream not retained")
	}

	last := result.Tokens[len(result.Tokens)-1]
	if last.Kind.String() != "end of file" && last.Kind.String() != "EOF" {
		// The exact rendering is incidental; the stream must be complete.
		t.Logf("final token kind: %v", last.Kind)
	}
}

func TestParseBytes_MaxDiagnostics(t *testing.T) {
	var sb strings.Builder
	for range 10 {
		sb.WriteString("let = 1\n")
	}

	result, err := ParseBytes(context.Background(),
		[]byte(sb.String()), WithMaxDiagnostics(3))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Diagnostics) != 3 {
		t.Errorf("diagnostics = %d, want 3", len(result.Diagnostics))
	}

	if result.Truncated == 0 {
		t.Error("truncation not counted")
	}
}

func TestParseBytes_FatalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"invalid utf8", "let x = \xff\xfe\n", lexer.ErrInvalidEncoding},
		{"unterminated comment", "/* never closed", lexer.ErrUnterminatedComment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseBytes(context.Background(), []byte(tt.src))
			if err == nil {
				t.Fatalf("no error, result %v", result)
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("error %v does not wrap %v", err, tt.want)
			}
		})
	}
}

func TestParseReader(t *testing.T) {
	result, err := ParseReader(context.Background(),
		strings.NewReader("let x = 1\n"), WithFilename("input.slate"))
	if err != nil {
		t.Fatal(err)
	}

	if got := result.File.Filename; got != "input.slate" {
		t.Errorf("filename = %q", got)
	}
}

func TestParseReader_ReadFailure(t *testing.T) {
	boom := errors.New("boom")

	_, err := ParseReader(context.Background(), failReader{boom})
	if err == nil {
		t.Fatal("no error")
	}

	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap the read failure", err)
	}
}

type failReader struct{ err error }

func (r failReader) Read([]byte) (int, error) { return 0, r.err }

// Formatting a parse result and parsing the output must yield the same
// tree, in either block style.
func TestFormatRoundTrip(t *testing.T) {
	ctx := context.Background()

	first, err := ParseString(ctx, cleanProgram)
	if err != nil {
		t.Fatal(err)
	}

	if first.HasErrors() {
		t.Fatalf("seed program has diagnostics: %v", first.Diagnostics)
	}

	for _, style := range []ast.BlockStyle{ast.StyleBrace, ast.StyleIndent} {
		t.Run(style.String(), func(t *testing.T) {
			var sb strings.Builder
			if err := first.Format(ctx, &sb, style, 0); err != nil {
				t.Fatal(err)
			}

			second, err := ParseString(ctx, sb.String())
			if err != nil {
				t.Fatalf("reparse: %v\n%s", err, sb.String())
			}

			if second.HasErrors() {
				t.Fatalf("reparse diagnostics: %v\n%s",
					second.Diagnostics, sb.String())
			}

			if !ast.Equal(first.File, second.File) {
				t.Errorf("round trip changed the tree:\n%s", sb.String())
			}
		})
	}
}

func TestFormatRoundTrip_Expressions(t *testing.T) {
	sources := []string{
		"let x = a + b * c - d\n",
		"let y = (a + b) * c\n",
		"let r = 0..=len(xs)\n",
		"let t = (1, \"two\", 3.0)\n",
		"let v = vec![1, 2, 3]\n",
		"let p = Pair<Int, Bool>::new(1, true)\n",
		"let s = \"n is {n} and m is {m + 1}\"\n",
		"let q = fetch(url)?.body.await\n",
		"let c = flag and ready or fallback ?? retry\n",
	}

	ctx := context.Background()

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first, err := ParseString(ctx, src)
			if err != nil {
				t.Fatal(err)
			}

			if first.HasErrors() {
				t.Fatalf("seed diagnostics: %v", first.Diagnostics)
			}

			var sb strings.Builder
			if err := first.Format(ctx, &sb, ast.StyleBrace, 0); err != nil {
				t.Fatal(err)
			}

			second, err := ParseString(ctx, sb.String())
			if err != nil {
				t.Fatalf("reparse: %v\n%s", err, sb.String())
			}

			if !ast.Equal(first.File, second.File) {
				t.Errorf("round trip changed the tree:\n%s", sb.String())
			}
		})
	}
}
