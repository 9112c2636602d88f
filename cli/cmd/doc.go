// Package cmd implements the slate subcommands: check, fmt, tokens, and
// repl. Each command reads slate source from files or stdin, parses it with
// [github.com/ardnew/slate/lang], and presents the result.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"
)
