package cmd

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// filter is a compiled expr-lang predicate evaluated once per record.
// A nil filter keeps everything.
type filter struct {
	source  string
	program *vm.Program
}

// compileFilter compiles source against an exemplar environment so field
// references and types are checked up front. An empty source yields a nil
// filter.
func compileFilter(source string, exemplar map[string]any) (*filter, error) {
	if source == "" {
		return nil, nil
	}

	program, err := expr.Compile(source,
		expr.Env(exemplar),
		expr.AsBool(),
	)
	if err != nil {
		return nil, ErrFilterCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return &filter{source: source, program: program}, nil
}

// keep evaluates the predicate against one record environment.
func (f *filter) keep(env map[string]any) (bool, error) {
	if f == nil {
		return true, nil
	}

	result, err := vm.Run(f.program, env)
	if err != nil {
		return false, ErrFilterRun.Wrap(err).
			With(slog.String("source", f.source))
	}

	ok, isBool := result.(bool)
	if !isBool {
		return false, ErrFilterRun.
			With(slog.String("source", f.source)).
			With(slog.Any("result", result))
	}

	return ok, nil
}
