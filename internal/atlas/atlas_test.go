package atlas

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"citymap_discord_bot/internal/bookmarks"
	"citymap_discord_bot/internal/catalog"
	"citymap_discord_bot/internal/geo"
	"citymap_discord_bot/internal/mapview"
	"citymap_discord_bot/internal/metrics"
)

// recordingRenderer 受け取った点を記録する
type recordingRenderer struct {
	mu    sync.Mutex
	calls [][]geo.Point
}

func (r *recordingRenderer) Render(_ context.Context, points []geo.Point) (*mapview.Map, error) {
	if len(points) == 0 {
		return nil, mapview.ErrNoPoints
	}
	r.mu.Lock()
	r.calls = append(r.calls, points)
	r.mu.Unlock()
	return &mapview.Map{Title: mapview.Title(points)}, nil
}

type failingCatalog struct{}

func (failingCatalog) Lookup(context.Context, string) (geo.Coordinates, bool, error) {
	return geo.Coordinates{}, false, errors.New("catalog down")
}

func (failingCatalog) List(context.Context) ([]string, error) {
	return nil, errors.New("catalog down")
}

func newCatalog(t *testing.T) *catalog.MemoryCatalog {
	t.Helper()
	var cities []geo.City
	for _, c := range []struct {
		name     string
		lat, lng float64
	}{
		{"Istanbul", 41.0082, 28.9784},
		{"Ankara", 39.9334, 32.8597},
		{"New York", 40.7128, -74.0060},
	} {
		city, err := geo.NewCity(0, c.name, c.lat, c.lng)
		require.NoError(t, err)
		cities = append(cities, city)
	}
	cat, err := catalog.NewMemoryCatalog(cities)
	require.NoError(t, err)
	return cat
}

func newService(t *testing.T, r Renderer) *Service {
	t.Helper()
	cat := newCatalog(t)
	store, err := bookmarks.NewFileStore(filepath.Join(t.TempDir(), "bookmarks.json"), cat)
	require.NoError(t, err)
	return New(cat, store, r, metrics.New())
}

func TestLookupAndList(t *testing.T) {
	s := newService(t, &recordingRenderer{})
	ctx := context.Background()

	coords, ok, err := s.LookupCity(ctx, "New York")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, geo.Coordinates{Lat: 40.7128, Lng: -74.0060}, coords)

	_, ok, err = s.LookupCity(ctx, "new york")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := s.ListCities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Istanbul", "Ankara", "New York"}, names)
}

func TestCatalogTotality(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	s := New(catalog.NewCached(cat, 0), nil, &recordingRenderer{}, nil)
	ctx := context.Background()

	names, err := s.ListCities(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		_, ok, err := s.LookupCity(ctx, name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
}

func TestAddBookmark(t *testing.T) {
	s := newService(t, &recordingRenderer{})
	ctx := context.Background()

	res, err := s.AddBookmark(ctx, "u1", "Ankara")
	require.NoError(t, err)
	assert.Equal(t, bookmarks.Added, res)
	assert.True(t, res.OK())

	res, err = s.AddBookmark(ctx, "u1", "Ankara")
	require.NoError(t, err)
	assert.Equal(t, bookmarks.AlreadyBookmarked, res)
	assert.True(t, res.OK())

	res, err = s.AddBookmark(ctx, "u1", "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, bookmarks.CityNotFound, res)
	assert.False(t, res.OK())

	names, err := s.ListBookmarks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara"}, names)

	names, err = s.ListBookmarks(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRenderCities(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		wantNames []string
		wantTitle string
		wantErr   error
	}{
		{"single", []string{"Istanbul"}, []string{"Istanbul"}, "Single city: Istanbul", nil},
		{"drops unknown", []string{"Atlantis", "Ankara", "Istanbul"}, []string{"Ankara", "Istanbul"}, "2 cities", nil},
		{"all unknown", []string{"Atlantis", "El Dorado"}, nil, "", mapview.ErrNoPoints},
		{"empty", nil, nil, "", mapview.ErrNoPoints},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRenderer{}
			s := newService(t, r)
			m, err := s.RenderCities(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, r.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, m.Title)
			require.Len(t, r.calls, 1)
			var got []string
			for _, p := range r.calls[0] {
				got = append(got, p.Label)
			}
			assert.Equal(t, tt.wantNames, got)
		})
	}
}

func TestCatalogErrorsPropagate(t *testing.T) {
	s := New(failingCatalog{}, nil, &recordingRenderer{}, nil)
	ctx := context.Background()

	_, _, err := s.LookupCity(ctx, "Ankara")
	assert.Error(t, err)
	_, err = s.ListCities(ctx)
	assert.Error(t, err)
	_, err = s.RenderCities(ctx, []string{"Ankara"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, mapview.ErrNoPoints))
}

func TestBookmarksToRealMap(t *testing.T) {
	renderer, err := mapview.New(mapview.Options{Width: 360})
	require.NoError(t, err)
	s := newService(t, renderer)
	ctx := context.Background()

	for _, name := range []string{"Istanbul", "New York"} {
		_, err := s.AddBookmark(ctx, "u1", name)
		require.NoError(t, err)
	}
	names, err := s.ListBookmarks(ctx, "u1")
	require.NoError(t, err)

	m, err := s.RenderCities(ctx, names)
	require.NoError(t, err)
	assert.Equal(t, "2 cities", m.Title)
	assert.Len(t, m.Markers, 2)
	assert.NotEmpty(t, m.Data)
}

func TestConcurrentUsers(t *testing.T) {
	s := newService(t, &recordingRenderer{})
	ctx := context.Background()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		user := fmt.Sprintf("user-%d", i)
		g.Go(func() error {
			for _, name := range []string{"Istanbul", "Ankara", "Istanbul"} {
				if _, err := s.AddBookmark(ctx, user, name); err != nil {
					return err
				}
			}
			names, err := s.ListBookmarks(ctx, user)
			if err != nil {
				return err
			}
			_, err = s.RenderCities(ctx, names)
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i := 0; i < 8; i++ {
		names, err := s.ListBookmarks(context.Background(), fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
		assert.Equal(t, []string{"Istanbul", "Ankara"}, names)
	}
}
