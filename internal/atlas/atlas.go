package atlas

import (
	"context"
	"fmt"
	"time"

	"citymap_discord_bot/internal/bookmarks"
	"citymap_discord_bot/internal/catalog"
	"citymap_discord_bot/internal/geo"
	"citymap_discord_bot/internal/mapview"
	"citymap_discord_bot/internal/metrics"
)

// Renderer 点の集合から地図を作る
type Renderer interface {
	Render(ctx context.Context, points []geo.Point) (*mapview.Map, error)
}

// Service カタログ・ブックマーク・地図描画をまとめたコマンド向けのAPI
// すべてのメソッドは並行に呼び出せる
type Service struct {
	catalog   catalog.Catalog
	bookmarks bookmarks.Store
	renderer  Renderer
	metrics   *metrics.Metrics
}

// New metrics は nil でもよい
func New(cat catalog.Catalog, store bookmarks.Store, renderer Renderer, m *metrics.Metrics) *Service {
	return &Service{
		catalog:   cat,
		bookmarks: store,
		renderer:  renderer,
		metrics:   m,
	}
}

// LookupCity 完全一致で座標を返す
func (s *Service) LookupCity(ctx context.Context, name string) (geo.Coordinates, bool, error) {
	coords, ok, err := s.catalog.Lookup(ctx, name)
	if err != nil {
		return geo.Coordinates{}, false, fmt.Errorf("lookup %q: %w", name, err)
	}
	return coords, ok, nil
}

// ListCities カタログの全都市名
func (s *Service) ListCities(ctx context.Context) ([]string, error) {
	names, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return names, nil
}

// AddBookmark カタログにない都市は CityNotFound（書き込みなし）
func (s *Service) AddBookmark(ctx context.Context, user, name string) (bookmarks.AddResult, error) {
	res, err := s.bookmarks.Add(ctx, user, name)
	if err != nil {
		return bookmarks.NoResult, fmt.Errorf("add bookmark %q for %s: %w", name, user, err)
	}
	s.metrics.ObserveBookmarkAdd(res.String())
	return res, nil
}

// ListBookmarks ユーザーのブックマーク（カタログに存在するもののみ）
func (s *Service) ListBookmarks(ctx context.Context, user string) ([]string, error) {
	names, err := s.bookmarks.List(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks for %s: %w", user, err)
	}
	return names, nil
}

// RenderMap 解決済みの点を描画する。空なら mapview.ErrNoPoints
func (s *Service) RenderMap(ctx context.Context, points []geo.Point) (*mapview.Map, error) {
	start := time.Now()
	m, err := s.renderer.Render(ctx, points)
	s.metrics.ObserveRender(len(points), time.Since(start), err)
	return m, err
}

// RenderCities 名前を解決して描画する。見つからない名前は黙って除外し、
// 一つも残らなければ mapview.ErrNoPoints
func (s *Service) RenderCities(ctx context.Context, names []string) (*mapview.Map, error) {
	points, err := s.Resolve(ctx, names)
	if err != nil {
		return nil, err
	}
	return s.RenderMap(ctx, points)
}

// Resolve カタログにある名前だけを Point にする（順序は入力順）
func (s *Service) Resolve(ctx context.Context, names []string) ([]geo.Point, error) {
	points := make([]geo.Point, 0, len(names))
	for _, name := range names {
		coords, ok, err := s.LookupCity(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		points = append(points, geo.Point{Label: name, Coordinates: coords})
	}
	return points, nil
}
