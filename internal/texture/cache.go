package texture

import (
	"context"
	"image"
	"sync"

	"orrery-renderer/internal/logging"
)

// Resolver resolves a texture name to a decoded image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Failed loads are cached as nil
// so a broken file is reported once.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
	log   logging.Logger
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index, log logging.Logger) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
		log:   logging.OrNoop(log).With(logging.String("component", "texture")),
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if img, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return img
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadTexture(path)
	if err != nil {
		c.log.Warn(context.Background(), "texture unusable", logging.String("path", path), logging.Any("err", err))
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.items[path]; exists {
		return existing
	}
	c.items[path] = img
	return img
}

// Len is the number of cached paths, including failed ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
