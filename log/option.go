package log

import "io"

// Option adjusts one setting on a logger configuration.
type Option func(*config)

// WithOutput directs log output to w. A nil writer discards everything.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel sets the minimum level. Messages below it are discarded.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat selects the output format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout sets the timestamp layout. Named layouts from the
// [time] package ("RFC3339", "Kitchen", ...) are recognized; anything
// else passes verbatim to [time.Time.Format]. An empty or "none" layout
// omits timestamps entirely.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.formatTime = timeFormatter(layout) }
}

// WithCaller includes the file:line of the logging call site.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty toggles colorized human-oriented rendering.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}
