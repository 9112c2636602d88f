package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/lang/diag"
	"github.com/ardnew/slate/lang/lexer"
	"github.com/ardnew/slate/lang/parser"
	"github.com/ardnew/slate/lang/token"
	"github.com/ardnew/slate/log"
)

// Result is the output of one parse: the file's syntax tree, every
// diagnostic produced while building it, and optionally the raw token
// stream for tooling.
type Result struct {
	// File is the parsed source file. It is never nil on a non-error
	// return, even when the source was riddled with problems.
	File *ast.File

	// Diagnostics holds every recoverable problem in position order.
	Diagnostics []diag.Diagnostic

	// Truncated counts diagnostics dropped past the configured cap.
	Truncated int

	// Tokens is the scanned token stream, retained only under
	// [WithTokens].
	Tokens []token.Token
}

// HasErrors reports whether any diagnostic is error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			return true
		}
	}

	return false
}

// LogValue implements slog.LogValuer so a Result can be logged whole.
func (r *Result) LogValue() slog.Value {
	stmts := 0
	if r.File != nil {
		stmts = len(r.File.Stmts)
	}

	return slog.GroupValue(
		slog.Int("statements", stmts),
		slog.Int("diagnostics", len(r.Diagnostics)),
		slog.Int("truncated", r.Truncated),
		slog.Bool("errors", r.HasErrors()),
	)
}

// config collects the options shared by every parse entry point.
type config struct {
	filename       string
	logger         log.Logger
	maxDiagnostics int
	maxDepth       int
	keepTokens     bool
}

// Option configures a parse.
type Option func(*config)

// WithFilename records the source name used in diagnostics and on the
// file node.
func WithFilename(name string) Option {
	return func(c *config) { c.filename = name }
}

// WithLogger sets the structured logger used for parse tracing. The
// zero logger discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxDiagnostics caps the number of retained diagnostics; further
// ones are counted in [Result.Truncated]. Zero means unlimited.
func WithMaxDiagnostics(n int) Option {
	return func(c *config) { c.maxDiagnostics = n }
}

// WithMaxDepth overrides the parser's construct nesting limit.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithTokens retains the scanned token stream on the Result.
func WithTokens() Option {
	return func(c *config) { c.keepTokens = true }
}

func makeConfig(opts ...Option) config {
	var cfg config

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// ParseReader parses slate source from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseBytes(ctx, data, opts...)
}

// ParseString parses slate source from a string.
func ParseString(ctx context.Context, s string, opts ...Option) (*Result, error) {
	return ParseBytes(ctx, []byte(s), opts...)
}

// ParseBytes parses slate source from a byte slice. Recoverable syntax
// problems land in [Result.Diagnostics]; only fatal conditions return an
// error.
func ParseBytes(
	ctx context.Context,
	src []byte,
	opts ...Option,
) (*Result, error) {
	cfg := makeConfig(opts...)
	diags := diag.NewList(cfg.maxDiagnostics)

	sc := lexer.New(src, diags, lexer.WithFilename(cfg.filename))

	toks, err := sc.ScanAll()
	if err != nil {
		return nil, scanError(err).
			With(slog.String("filename", cfg.filename))
	}

	cfg.logger.TraceContext(ctx, "scan complete",
		slog.Int("tokens", len(toks)),
	)

	popts := []parser.Option{
		parser.WithFilename(cfg.filename),
		parser.WithLogger(cfg.logger),
	}
	if cfg.maxDepth > 0 {
		popts = append(popts, parser.WithMaxDepth(cfg.maxDepth))
	}

	file := parser.New(toks, diags, popts...).ParseFile(ctx)

	result := &Result{
		File:        file,
		Diagnostics: diags.All(),
		Truncated:   diags.Truncated(),
	}

	if cfg.keepTokens {
		result.Tokens = toks
	}

	cfg.logger.DebugContext(ctx, "parse complete",
		slog.Any("result", result),
	)

	return result, nil
}

// scanError maps the scanner's fatal sentinels onto this package's.
func scanError(err error) *Error {
	switch {
	case errors.Is(err, lexer.ErrInvalidEncoding):
		return ErrInvalidEncoding.Wrap(err)
	case errors.Is(err, lexer.ErrUnterminatedComment):
		return ErrUnterminatedBlock.Wrap(err)
	default:
		return WrapError(err)
	}
}
