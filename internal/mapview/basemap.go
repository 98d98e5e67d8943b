package mapview

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

//go:embed data/world.geojson
var defaultWorld []byte

// Ring 経度緯度の点列 ([lng, lat])
type Ring [][2]float64

// Basemap 背景地図のジオメトリ
type Basemap struct {
	Land    []Ring // 陸地ポリゴン（外周のみ）
	Water   []Ring // 湖など陸地の上に海の色で塗る領域
	Borders []Ring // 国境線
	Coasts  []Ring // 陸地ポリゴン以外で与えられた海岸線
}

// DefaultBasemap 埋め込みの低解像度世界地図
func DefaultBasemap() (*Basemap, error) {
	return ParseBasemap(defaultWorld)
}

// LoadBasemap GeoJSONファイルから読み込む
func LoadBasemap(path string) (*Basemap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read basemap: %w", err)
	}
	bm, err := ParseBasemap(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bm, nil
}

// ParseBasemap GeoJSON FeatureCollection を解析
// properties.kind: "land"(Polygonの既定) / "lake" / "border"(LineStringの既定) / "coastline"
func ParseBasemap(data []byte) (*Basemap, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("parse geojson: expected FeatureCollection, got %q", fc.Type)
	}

	bm := &Basemap{}
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		kind := f.Properties.MustString("kind", "")
		if err := bm.addGeometry(f.Geometry, kind); err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
	}
	if len(bm.Land) == 0 {
		return nil, fmt.Errorf("parse geojson: no land polygons")
	}
	return bm, nil
}

func (bm *Basemap) addGeometry(g orb.Geometry, kind string) error {
	switch g := g.(type) {
	case orb.Polygon:
		bm.addPolygon(g, kind)
	case orb.MultiPolygon:
		for _, p := range g {
			bm.addPolygon(p, kind)
		}
	case orb.LineString:
		bm.addLine(toRing(g), kind)
	case orb.MultiLineString:
		for _, line := range g {
			bm.addLine(toRing(line), kind)
		}
	case orb.Collection:
		for _, child := range g {
			if err := bm.addGeometry(child, kind); err != nil {
				return err
			}
		}
	case orb.Point, orb.MultiPoint:
		// 背景地図には使わない
	default:
		return fmt.Errorf("unsupported geometry type %q", g.GeoJSONType())
	}
	return nil
}

func toRing(points []orb.Point) Ring {
	r := make(Ring, len(points))
	for i, p := range points {
		r[i] = [2]float64(p)
	}
	return r
}

func (bm *Basemap) addPolygon(p orb.Polygon, kind string) {
	for i, ring := range p {
		if len(ring) < 3 {
			continue
		}
		r := toRing(ring)
		switch {
		case kind == "lake":
			if i == 0 {
				bm.Water = append(bm.Water, r)
			}
		case i == 0:
			bm.Land = append(bm.Land, r)
		default:
			// 穴は湖として扱う
			bm.Water = append(bm.Water, r)
		}
	}
}

func (bm *Basemap) addLine(line Ring, kind string) {
	if len(line) < 2 {
		return
	}
	if kind == "coastline" {
		bm.Coasts = append(bm.Coasts, line)
		return
	}
	bm.Borders = append(bm.Borders, line)
}
