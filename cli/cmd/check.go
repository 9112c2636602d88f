package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/slate/lang"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/log"
)

// Check parses each source and reports its diagnostics.
// The command fails when any source contains an error-severity diagnostic.
type Check struct {
	Filter string `help:"Keep only diagnostics matching this expression (fields: code, severity, line, column, message, fix)." placeholder:"EXPR" short:"f"`

	MaxDiagnostics int `default:"64" help:"Stop collecting diagnostics per source after this many." name:"max-diagnostics"`

	Source []string `arg:"" default:"-" help:"Source input files or '-' for stdin." name:"source" optional:""`
}

// diagEnv builds the expr-lang environment for one diagnostic.
func diagEnv(d diag.Diagnostic) map[string]any {
	return map[string]any{
		"code":     string(d.Code),
		"severity": d.Severity.String(),
		"line":     d.Span.Start.Line,
		"column":   d.Span.Start.Column,
		"message":  d.Message,
		"fix":      d.Fix,
	}
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	keep, err := compileFilter(c.Filter, diagEnv(diag.Diagnostic{}))
	if err != nil {
		return err
	}

	srcs, err := readSources(c.Source)
	if err != nil {
		return err
	}

	failed := false

	for _, src := range srcs {
		result, err := lang.ParseBytes(ctx, src.data,
			lang.WithFilename(src.name),
			lang.WithLogger(logger),
			lang.WithMaxDiagnostics(c.MaxDiagnostics),
		)
		if err != nil {
			return err
		}

		logger.DebugContext(ctx, "checked source",
			slog.String("source", src.name),
			slog.Any("result", result),
		)

		for _, d := range result.Diagnostics {
			ok, err := keep.keep(diagEnv(d))
			if err != nil {
				return err
			}

			if !ok {
				continue
			}

			err = diag.Render(os.Stdout, src.name, string(src.data), d)
			if err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		if result.HasErrors() {
			failed = true
		}
	}

	if failed {
		return ErrSyntax
	}

	return nil
}
