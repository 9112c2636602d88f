package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/slate/lang/ast"
)

// Format writes the parsed file back as slate source in the given block
// style. Zero indent uses the printer's default width.
func (r *Result) Format(
	_ context.Context,
	w io.Writer,
	style ast.BlockStyle,
	indent int,
) error {
	p := ast.Printer{Style: style, Indent: indent}

	return p.Fprint(w, r.File)
}

// FormatJSON writes the syntax tree as JSON to the writer.
func (r *Result) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(r.File, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(r.File)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the syntax tree as YAML to the writer.
func (r *Result) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, r.File, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
