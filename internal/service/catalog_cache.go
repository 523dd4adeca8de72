package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogCache stores serialized catalog reads under a generation.
// Invalidate starts a new generation; reads and writes tagged with an older
// generation miss or are discarded. Callers take the generation before
// reading the source so a write racing an Invalidate cannot be served.
type CatalogCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string) ([]byte, bool, error)
	Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type memoryCatalogCache struct {
	mu    sync.Mutex
	gen   int64
	items map[string]memoryCacheEntry
	now   func() time.Time
}

type memoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryCatalogCache() CatalogCache {
	return &memoryCatalogCache{
		items: make(map[string]memoryCacheEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *memoryCatalogCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memoryCatalogCache) Get(_ context.Context, gen int64, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil, false, nil
	}
	entry, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *memoryCatalogCache) Set(_ context.Context, gen int64, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || strings.TrimSpace(key) == "" || ttl <= 0 {
		return nil
	}
	c.items[key] = memoryCacheEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *memoryCatalogCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = make(map[string]memoryCacheEntry)
	return nil
}

// redisCatalogCache namespaces keys with a generation counter; Invalidate
// bumps the generation so stale keys age out through their TTL.
type redisCatalogCache struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

func NewRedisCatalogCache(client redis.UniversalClient) CatalogCache {
	if client == nil {
		return nil
	}
	return &redisCatalogCache{
		client:  client,
		prefix:  "kova:catalog:",
		timeout: 500 * time.Millisecond,
	}
}

func (c *redisCatalogCache) Generation(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	gen, err := c.client.Get(ctx, c.prefix+"gen").Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *redisCatalogCache) key(gen int64, key string) string {
	return c.prefix + strconv.FormatInt(gen, 10) + ":" + key
}

func (c *redisCatalogCache) Get(ctx context.Context, gen int64, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	val, err := c.client.Get(ctx, c.key(gen, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set writes under gen as given. A value read before an Invalidate lands in
// the superseded namespace, which no reader consults again.
func (c *redisCatalogCache) Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" || ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Set(ctx, c.key(gen, key), value, ttl).Err()
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Incr(ctx, c.prefix+"gen").Err()
}
