package service

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/CE2L/ICT-Project1-KOR/pkg/ai"
)

// embeddingCache memoizes provider embeddings for a single analysis
// run, keyed by normalized text. Identical transcripts and the shared
// reference hit the provider exactly once; singleflight collapses
// concurrent lookups for the same key.
type embeddingCache struct {
	embedder ai.Embedder
	group    singleflight.Group

	mu      sync.RWMutex
	vectors map[string][]float32
}

func newEmbeddingCache(embedder ai.Embedder) *embeddingCache {
	return &embeddingCache{
		embedder: embedder,
		vectors:  make(map[string][]float32),
	}
}

func (c *embeddingCache) embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	vector, ok := c.vectors[text]
	c.mu.RUnlock()
	if ok {
		return vector, nil
	}

	result, err, _ := c.group.Do(text, func() (any, error) {
		vector, err := c.embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.vectors[text] = vector
		c.mu.Unlock()
		return vector, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]float32), nil
}
