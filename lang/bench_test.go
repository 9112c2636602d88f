package lang

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/lexer"
)

// benchSource generates a parseable program with count small functions.
func benchSource(count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "fn f%d(x: Int) -> Int {\n", i)
		fmt.Fprintf(&sb, "    let y = x * %d + 1\n", i)
		fmt.Fprintf(&sb, "    return y\n}\n")
	}

	return sb.String()
}

// BenchmarkScanAll measures scanner throughput across input sizes.
func BenchmarkScanAll(b *testing.B) {
	sizes := []struct {
		name  string
		count int
	}{
		{"small", 10},
		{"medium", 200},
		{"large", 2000},
	}

	for _, size := range sizes {
		src := []byte(benchSource(size.count))

		b.Run(size.name, func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := lexer.New(src, diag.NewList(0)).ScanAll()
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkParseBytes measures full front-end performance across input sizes.
func BenchmarkParseBytes(b *testing.B) {
	sizes := []struct {
		name  string
		count int
	}{
		{"small", 10},
		{"medium", 200},
		{"large", 2000},
	}

	ctx := context.Background()

	for _, size := range sizes {
		src := []byte(benchSource(size.count))

		b.Run(size.name, func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				result, err := ParseBytes(ctx, src)
				if err != nil {
					b.Fatal(err)
				}

				if result.HasErrors() {
					b.Fatal(result.Diagnostics)
				}
			}
		})
	}
}

// BenchmarkSourceResult measures the impact of caching on repeated parses.
func BenchmarkSourceResult(b *testing.B) {
	ClearCache()

	ctx := context.Background()
	s := NewSourceFromString(benchSource(200))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := s.Result(ctx)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFormat measures source re-emission performance.
func BenchmarkFormat(b *testing.B) {
	ctx := context.Background()

	result, err := ParseString(ctx, benchSource(200))
	if err != nil {
		b.Fatal(err)
	}

	for _, style := range []ast.BlockStyle{ast.StyleBrace, ast.StyleIndent} {
		b.Run(style.String(), func(b *testing.B) {
			var buf bytes.Buffer
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				if err := result.Format(ctx, &buf, style, 0); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
