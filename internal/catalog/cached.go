package catalog

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"citymap_discord_bot/internal/geo"
)

const listCacheKey = "\x00list"

// Cached カタログの参照結果をキャッシュする
// 見つからなかった名前はキャッシュしない（稼働中にシードで追加される場合がある）
type Cached struct {
	inner Catalog
	cache *gocache.Cache
}

// NewCached ttl=0 の場合は期限なし
func NewCached(inner Catalog, ttl time.Duration) *Cached {
	expiration := ttl
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &Cached{
		inner: inner,
		cache: gocache.New(expiration, 10*time.Minute),
	}
}

func (c *Cached) Lookup(ctx context.Context, name string) (geo.Coordinates, bool, error) {
	key := "city:" + name
	if v, ok := c.cache.Get(key); ok {
		return v.(geo.Coordinates), true, nil
	}
	coords, found, err := c.inner.Lookup(ctx, name)
	if err != nil {
		return geo.Coordinates{}, false, err
	}
	if found {
		c.cache.SetDefault(key, coords)
	}
	return coords, found, nil
}

func (c *Cached) List(ctx context.Context) ([]string, error) {
	if v, ok := c.cache.Get(listCacheKey); ok {
		names := v.([]string)
		out := make([]string, len(names))
		copy(out, names)
		return out, nil
	}
	names, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	stored := make([]string, len(names))
	copy(stored, names)
	c.cache.SetDefault(listCacheKey, stored)
	return names, nil
}
