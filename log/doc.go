// Package log provides the leveled structured logger used throughout
// slate. It builds on [log/slog], adding a trace level below debug,
// colorized pretty rendering for terminals, and functional-option
// configuration fixed at construction time.
//
// # Basic Usage
//
//	logger := log.Make(os.Stdout)
//	logger.Info("parse complete", slog.Int("statements", n))
//	logger.Error("read failed", slog.Any("error", err))
//
// # Configuration
//
// Options are applied when the logger is created; a Logger never
// changes after [Make] returns. Derive adjusted loggers with
// [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
//	verbose := logger.Wrap(log.WithLevel(log.LevelTrace))
//
// # Attributes
//
// [Logger.With] attaches attributes to every subsequent message:
//
//	logger = logger.With(slog.String("component", "parser"))
//
// # Context
//
// Each level has a context-aware method ([Logger.InfoContext] and so
// on). The context-free variants delegate to [DefaultContextProvider],
// which defaults to [context.TODO].
//
// # Levels and Formats
//
// Five levels are defined, [LevelTrace] through [LevelError], parsed by
// [ParseLevel]. Output is [FormatJSON] or [FormatText], parsed by
// [ParseFormat]. Pretty rendering (the default) colorizes either format
// for terminals; disable it with [WithPretty] for machine-readable
// output.
//
// # Timestamps
//
// [WithTimeLayout] accepts named layouts from the [time] package or a
// custom layout string. The layout "none" (or an empty string) omits
// timestamps.
package log
