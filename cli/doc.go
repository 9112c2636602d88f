// Package cli contains the command line interface for slate.
//
// # Usage
//
// The default command parses source and reports diagnostics:
//
//	slate check program.slate
//	slate fmt --style indent program.slate
//	slate tokens --filter 'kind == "Ident"' program.slate
//	slate repl
//
// Every command reads from stdin when no source argument is given, so the
// tools compose in a pipeline:
//
//	cat program.slate | slate fmt json
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/slate/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	slate --log-level=debug --pprof-mode=cpu check program.slate
//
//	# Filter diagnostics down to warnings
//	slate check --filter 'severity == "warning"' program.slate
package cli
