package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedGenerator wraps a Generator with an LRU cache of raw completions
// keyed by prompt hash. Re-running generation on identical content skips
// the transport call entirely.
type CachedGenerator struct {
	inner  Generator
	cache  *lru.Cache[string, string]
	logger *slog.Logger
}

// NewCachedGenerator wraps the generator with a cache of the given size.
// A size of zero or less disables caching and returns the inner
// generator untouched.
func NewCachedGenerator(inner Generator, size int, logger *slog.Logger) (Generator, error) {
	if size <= 0 {
		return inner, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedGenerator{
		inner:  inner,
		cache:  cache,
		logger: logger.With("component", "completion_cache"),
	}, nil
}

// GenerateCompletion returns the cached completion for the prompt when
// present, otherwise delegates and caches the result. Errors are never
// cached.
func (g *CachedGenerator) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if text, ok := g.cache.Get(key); ok {
		g.logger.Debug("completion cache hit", "prompt_hash", key)
		return text, nil
	}

	text, err := g.inner.GenerateCompletion(ctx, prompt)
	if err != nil {
		return "", err
	}

	g.cache.Add(key, text)
	g.logger.Debug("completion cached", "prompt_hash", key, "cache_len", g.cache.Len())
	return text, nil
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
