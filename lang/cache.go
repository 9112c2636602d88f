package lang

import (
	"context"
	"io"
	"iter"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/slate/lang/diag"
)

// resultCache stores parse results keyed by source text and options, so
// re-parsing an unchanged buffer (formatters, the REPL) is a map lookup.
var resultCache sync.Map

// cacheEntry guards a single parse so concurrent readers of the same
// source share one result.
type cacheEntry struct {
	once   sync.Once
	result *Result
	err    error
}

// Source provides cached access to the parse of one source text. The
// reader is not consumed until first access.
type Source struct {
	reader io.Reader
	source []byte
	key    string
	opts   []Option
}

// NewSource creates a cached parser from an io.Reader.
func NewSource(r io.Reader, opts ...Option) *Source {
	return &Source{reader: r, opts: opts}
}

// NewSourceFromString creates a cached parser from source text.
func NewSourceFromString(source string, opts ...Option) *Source {
	return &Source{
		source: []byte(source),
		key:    sourceKey([]byte(source), opts...),
		opts:   opts,
	}
}

// sourceKey hashes source text and the result-shaping options into a
// compact cache key, so the same text parsed under different options
// never shares an entry. The logger is excluded: it has no effect on
// the result.
func sourceKey(src []byte, opts ...Option) string {
	cfg := makeConfig(opts...)

	keep := "0"
	if cfg.keepTokens {
		keep = "1"
	}

	// The filename goes last so its own colons cannot shift the
	// fixed-width fields.
	return strings.Join([]string{
		strconv.FormatUint(xxh3.Hash(src), 36),
		strconv.Itoa(cfg.maxDiagnostics),
		strconv.Itoa(cfg.maxDepth),
		keep,
		cfg.filename,
	}, ":")
}

// ensure reads the source if needed and parses it at most once per
// distinct source text.
func (s *Source) ensure(ctx context.Context) (*Result, error) {
	if s.key == "" {
		if s.reader == nil {
			return nil, ErrReadInput
		}

		// Pre-fetch while earlier chunks are still being hashed.
		ra := readahead.NewReader(s.reader)
		defer ra.Close()

		data, err := io.ReadAll(ra)
		if err != nil {
			return nil, ErrReadInput.Wrap(err)
		}

		s.source = data
		s.key = sourceKey(data, s.opts...)
	}

	value, _ := resultCache.LoadOrStore(s.key, new(cacheEntry))
	entry := value.(*cacheEntry)

	entry.once.Do(func() {
		entry.result, entry.err = ParseBytes(ctx, s.source, s.opts...)
	})

	return entry.result, entry.err
}

// Result returns the cached parse result, parsing on first access.
func (s *Source) Result(ctx context.Context) (*Result, error) {
	return s.ensure(ctx)
}

// Diagnostics returns an iterator over the source's diagnostics in
// position order. A fatal parse yields nothing.
func (s *Source) Diagnostics(ctx context.Context) iter.Seq[diag.Diagnostic] {
	return func(yield func(diag.Diagnostic) bool) {
		result, err := s.ensure(ctx)
		if err != nil {
			return
		}

		for _, d := range result.Diagnostics {
			if !yield(d) {
				return
			}
		}
	}
}

// ClearCache removes all cached parse results. This is primarily useful
// for testing or when memory needs to be reclaimed.
func ClearCache() {
	resultCache = sync.Map{}
}
