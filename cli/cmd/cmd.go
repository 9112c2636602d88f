package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one input to a command: its display name and full contents.
type source struct {
	name string
	data []byte
}

// readSources loads each named source, deduplicating regular files by
// device and inode so symlinked or repeated paths are read once. All
// occurrences of "-" collapse into a single stdin read, placed last.
func readSources(paths []string) ([]source, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var (
		srcs     []source
		useStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		if path == stdinSource {
			useStdin = true

			continue
		}

		data, ok, err := readUniqueFile(path, seen)
		if err != nil {
			return nil, ErrReadSource.Wrap(err)
		}

		if !ok {
			continue
		}

		srcs = append(srcs, source{name: path, data: data})
	}

	if useStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, ErrReadSource.Wrap(err)
		}

		srcs = append(srcs, source{name: "<stdin>", data: data})
	}

	return srcs, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// readUniqueFile reads the file at path if it has not been seen before.
// It resolves symlinks and uses device/inode to detect duplicates; a
// duplicate returns ok=false with no error.
func readUniqueFile(
	path string,
	seen map[fileKey]struct{},
) ([]byte, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}
