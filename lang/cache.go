package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/blogmath/log"
)

// globalCache stores parsed programs keyed by the xxh3 hash of their source.
// Programs are immutable, so one *Program is shared by every caller that
// parses the same text.
var globalCache sync.Map

// state tracks the one-time parse of a source text.
type state struct {
	once sync.Once
	prog *Program
	err  error
}

// ReadSource reads all of r through an asynchronous read-ahead buffer.
// Failures are wrapped in [ErrReadInput] tagged with name.
func ReadSource(
	ctx context.Context,
	name string,
	r io.Reader,
	logger log.Logger,
) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).
			With(slog.String("source", name))
	}

	logger.TraceContext(
		ctx,
		"read input",
		slog.String("source", name),
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return string(data), nil
}

// ParseCached is like [Parse] but remembers the result, including a failure,
// for each distinct source text.
func ParseCached(
	ctx context.Context,
	source string,
	logger log.Logger,
) (*Program, error) {
	key := xxh3.HashString128(source)

	value, cacheHit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, &RuntimeError{Reason: "invalid parse cache entry"}
	}

	logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(key.Hi, 16)+strconv.FormatUint(key.Lo, 16)),
		slog.Int("source_length", len(source)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.prog, entry.err = Parse(source)
	})

	return entry.prog, entry.err
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
