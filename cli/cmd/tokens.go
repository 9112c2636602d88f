package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/ardnew/slate/lang"
	"github.com/ardnew/slate/lang/token"
	"github.com/ardnew/slate/log"
)

// Tokens scans each source and prints its token stream, one token per line.
// Diagnostics do not stop the dump; the scanner always produces a stream.
type Tokens struct {
	Filter string `help:"Keep only tokens matching this expression (fields: kind, lexeme, line, column, offset)." placeholder:"EXPR" short:"f"`

	Source []string `arg:"" default:"-" help:"Source input files or '-' for stdin." name:"source" optional:""`
}

// tokenEnv builds the expr-lang environment for one token.
func tokenEnv(t token.Token) map[string]any {
	return map[string]any{
		"kind":   t.Kind.String(),
		"lexeme": t.Lexeme,
		"line":   t.Span.Start.Line,
		"column": t.Span.Start.Column,
		"offset": t.Span.Start.Offset,
	}
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	keep, err := compileFilter(t.Filter, tokenEnv(token.Token{}))
	if err != nil {
		return err
	}

	srcs, err := readSources(t.Source)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)

	for _, src := range srcs {
		result, err := lang.ParseBytes(ctx, src.data,
			lang.WithFilename(src.name),
			lang.WithLogger(logger),
			lang.WithTokens(),
		)
		if err != nil {
			return err
		}

		for _, tok := range result.Tokens {
			ok, err := keep.keep(tokenEnv(tok))
			if err != nil {
				return err
			}

			if !ok {
				continue
			}

			_, err = fmt.Fprintf(out, "%s:%s\t%s\n",
				src.name, tok.Span.Start, tok,
			)
			if err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}
	}

	err = out.Flush()
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
