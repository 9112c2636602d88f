package cmd

import (
	"context"

	"github.com/ardnew/slate/cli/cmd/repl"
	"github.com/ardnew/slate/log"
)

// Repl starts the interactive parse-and-inspect loop.
type Repl struct {
	CacheDir string `default:"${cache}" help:"Directory for REPL history." name:"cache-dir"`

	Source string `arg:"" help:"Optional source file seeding the edit buffer." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	var initial string

	if r.Source != "" {
		srcs, err := readSources([]string{r.Source})
		if err != nil {
			return err
		}

		initial = string(srcs[0].data)
	}

	return repl.Run(ctx, initial, r.CacheDir, logger)
}
