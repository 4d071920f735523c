package memory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mcoot/ffmarket/internal/cache"
)

// Config holds settings for the in-process listing cache
type Config struct {
	// Size caps the number of cached pages
	Size int
	TTL  time.Duration
}

// DefaultConfig returns sensible defaults for the in-process cache
func DefaultConfig() Config {
	return Config{
		Size: 1024,
		TTL:  60 * time.Second,
	}
}

// Cache is an in-process listing cache backed by an expiring LRU
type Cache struct {
	pages   *expirable.LRU[string, []byte]
	version atomic.Int64
}

// New creates a new in-process cache
func New(cfg Config) *Cache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	return &Cache{
		pages: expirable.NewLRU[string, []byte](cfg.Size, nil, cfg.TTL),
	}
}

// Ensure Cache implements the interface
var _ cache.ListingCache = (*Cache)(nil)

func (c *Cache) Version(ctx context.Context) (int64, error) {
	return c.version.Load(), nil
}

// Bump advances the version and drops pages cached under older versions
func (c *Cache) Bump(ctx context.Context) error {
	c.version.Add(1)
	c.pages.Purge()
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := c.pages.Get(key)
	if !ok {
		return nil, cache.ErrMiss
	}
	return data, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	c.pages.Add(key, value)
	return nil
}
