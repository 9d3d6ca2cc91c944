package cache

import (
	"context"
	"time"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/ports"
)

// CachedEmbedder memoizes embeddings by input text. Search queries repeat
// often, and remote embedding calls are the dominant cost of a search.
type CachedEmbedder struct {
	inner ports.Embedder
	store *MemoryStore
	ttl   time.Duration
}

// NewCachedEmbedder wraps an embedder with an in-memory TTL cache.
func NewCachedEmbedder(inner ports.Embedder, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		store: NewMemoryStore(),
		ttl:   ttl,
	}
}

// Embed returns a cached vector when available, otherwise delegates and
// caches the result.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.store.Get(text); ok {
		return v, nil
	}

	v, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.store.Set(text, v, c.ttl)
	return v, nil
}

// Dimensions reports the wrapped embedder's vector length.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}
