package docstore

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached is a read-through LRU cache in front of another Documents
// backend. Writes go to the backend first; the cache entry is replaced on
// success and evicted on failure, so a failed write never leaves a stale
// body that disagrees with the backend.
type Cached struct {
	next  Documents
	cache *lru.Cache[string, []byte]
}

// NewCached wraps next with an LRU cache of the given size. A size of
// zero or less returns next unwrapped.
func NewCached(next Documents, size int) (Documents, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("docstore: cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func cacheKey(collection, userID string) string {
	return collection + "/" + userID
}

// Get serves from the cache when possible.
func (c *Cached) Get(ctx context.Context, collection, userID string) ([]byte, bool, error) {
	key := cacheKey(collection, userID)
	if body, ok := c.cache.Get(key); ok {
		return clone(body), true, nil
	}
	body, ok, err := c.next.Get(ctx, collection, userID)
	if err != nil || !ok {
		return body, ok, err
	}
	c.cache.Add(key, clone(body))
	return body, true, nil
}

// Put writes through and refreshes the cache entry.
func (c *Cached) Put(ctx context.Context, collection, userID string, body []byte) error {
	key := cacheKey(collection, userID)
	if err := c.next.Put(ctx, collection, userID, body); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, clone(body))
	return nil
}

// Delete removes the document and its cache entry.
func (c *Cached) Delete(ctx context.Context, collection, userID string) error {
	c.cache.Remove(cacheKey(collection, userID))
	return c.next.Delete(ctx, collection, userID)
}

// Len returns the number of cached documents.
func (c *Cached) Len() int {
	return c.cache.Len()
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
