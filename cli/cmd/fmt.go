package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/slate/lang"
	"github.com/ardnew/slate/lang/ast"
	"github.com/ardnew/slate/log"
)

// Fmt parses input and renders the syntax tree in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Render as slate source (default)."`
	JSON   JSON   `cmd:""                    help:"Render the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Render the syntax tree as YAML."`
}

// parseSource reads and parses one source argument for a fmt subcommand.
func parseSource(
	ctx context.Context,
	logger log.Logger,
	path string,
	format string,
) (*lang.Result, error) {
	srcs, err := readSources([]string{path})
	if err != nil {
		return nil, err
	}

	src := srcs[0]

	result, err := lang.ParseBytes(ctx, src.data,
		lang.WithFilename(src.name),
		lang.WithLogger(logger),
	)
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("format", format))
	}

	logger.DebugContext(ctx, "parsed source",
		slog.String("source", src.name),
		slog.String("format", format),
		slog.Any("result", result),
	)

	return result, nil
}

// Native renders input as slate source text.
type Native struct {
	Style  string `default:"brace" enum:"brace,indent" help:"Block delimiting style for the output." short:"s"`
	Indent int    `default:"4" help:"Indent width for formatted output." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the native fmt subcommand.
func (f *Native) Run(ctx context.Context, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	result, err := parseSource(ctx, logger, f.Source, "native")
	if err != nil {
		return err
	}

	style := ast.StyleBrace
	if f.Style == "indent" {
		style = ast.StyleIndent
	}

	return result.Format(ctx, os.Stdout, style, f.Indent)
}

// JSON renders the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the json fmt subcommand.
func (j *JSON) Run(ctx context.Context, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	result, err := parseSource(ctx, logger, j.Source, "json")
	if err != nil {
		return err
	}

	return result.FormatJSON(ctx, os.Stdout, j.Indent)
}

// YAML renders the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the yaml fmt subcommand.
func (y *YAML) Run(ctx context.Context, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	result, err := parseSource(ctx, logger, y.Source, "yaml")
	if err != nil {
		return err
	}

	return result.FormatYAML(ctx, os.Stdout, y.Indent)
}
