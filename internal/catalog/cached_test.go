package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citymap_discord_bot/internal/geo"
)

type countingCatalog struct {
	Catalog
	lookups int
	lists   int
}

func (c *countingCatalog) Lookup(ctx context.Context, name string) (geo.Coordinates, bool, error) {
	c.lookups++
	return c.Catalog.Lookup(ctx, name)
}

func (c *countingCatalog) List(ctx context.Context) ([]string, error) {
	c.lists++
	return c.Catalog.List(ctx)
}

func TestCachedCatalog(t *testing.T) {
	mc, err := NewMemoryCatalog(testCities())
	require.NoError(t, err)
	inner := &countingCatalog{Catalog: mc}
	c := NewCached(inner, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		coords, ok, err := c.Lookup(ctx, "Ankara")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 32.8, coords.Lng)

		_, ok, err = c.Lookup(ctx, "Nonexistent")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	// 見つかった名前だけがキャッシュされる
	assert.Equal(t, 4, inner.lookups)

	names, err := c.List(ctx)
	require.NoError(t, err)
	names[0] = "mutated"

	names, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Istanbul", "Ankara"}, names)
	assert.Equal(t, 1, inner.lists)
}

// growingCatalog 稼働中に都市が追加されるカタログ
type growingCatalog struct {
	cities map[string]geo.Coordinates
}

func (g *growingCatalog) Lookup(_ context.Context, name string) (geo.Coordinates, bool, error) {
	c, ok := g.cities[name]
	return c, ok, nil
}

func (g *growingCatalog) List(context.Context) ([]string, error) {
	names := make([]string, 0, len(g.cities))
	for name := range g.cities {
		names = append(names, name)
	}
	return names, nil
}

func TestCachedCatalogSeesCitiesAddedLater(t *testing.T) {
	inner := &growingCatalog{cities: map[string]geo.Coordinates{}}
	c := NewCached(inner, 0)
	ctx := context.Background()

	_, ok, err := c.Lookup(ctx, "Izmir")
	require.NoError(t, err)
	assert.False(t, ok)

	inner.cities["Izmir"] = geo.Coordinates{Lat: 38.4237, Lng: 27.1428}

	coords, ok, err := c.Lookup(ctx, "Izmir")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 38.4237, coords.Lat)
}

func TestCachedCatalogTTL(t *testing.T) {
	inner := &growingCatalog{cities: map[string]geo.Coordinates{"Ankara": {Lat: 39.9, Lng: 32.8}}}
	c := NewCached(inner, 20*time.Millisecond)
	ctx := context.Background()

	names, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 1)

	inner.cities["Izmir"] = geo.Coordinates{Lat: 38.4237, Lng: 27.1428}
	assert.Eventually(t, func() bool {
		names, err := c.List(ctx)
		return err == nil && len(names) == 2
	}, time.Second, 10*time.Millisecond)
}
