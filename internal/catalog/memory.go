package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"citymap_discord_bot/internal/geo"
)

//go:embed seed/cities.yaml
var defaultSeed []byte

// seedFile シードファイルの形式
type seedFile struct {
	Cities []geo.City `json:"cities" yaml:"cities"`
}

// MemoryCatalog シードから読み込んだメモリ上のカタログ
// 生成後は変更されないため並行アクセスで安全
type MemoryCatalog struct {
	cities []geo.City
	index  map[string]int
}

// NewMemoryCatalog 都市一覧からカタログを作成（座標と重複を検証）
func NewMemoryCatalog(cities []geo.City) (*MemoryCatalog, error) {
	mc := &MemoryCatalog{
		cities: make([]geo.City, 0, len(cities)),
		index:  make(map[string]int, len(cities)),
	}
	for _, c := range cities {
		city, err := geo.NewCity(c.ID, c.Name, c.Lat, c.Lng)
		if err != nil {
			return nil, err
		}
		if _, exists := mc.index[city.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCity, city.Name)
		}
		if city.ID == 0 {
			city.ID = int64(len(mc.cities) + 1)
		}
		mc.index[city.Name] = len(mc.cities)
		mc.cities = append(mc.cities, city)
	}
	return mc, nil
}

// LoadDefault 埋め込みのシードからカタログを作成
func LoadDefault() (*MemoryCatalog, error) {
	return Parse(defaultSeed, "yaml")
}

// LoadFile シードファイル(.yaml/.yml/.json)からカタログを作成
func LoadFile(path string) (*MemoryCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Parse(data, format)
}

// Parse シードの内容を解析
func Parse(data []byte, format string) (*MemoryCatalog, error) {
	var seed seedFile
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("parse catalog seed: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("parse catalog seed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog seed format %q", format)
	}
	return NewMemoryCatalog(seed.Cities)
}

func (mc *MemoryCatalog) Lookup(ctx context.Context, name string) (geo.Coordinates, bool, error) {
	i, ok := mc.index[name]
	if !ok {
		return geo.Coordinates{}, false, nil
	}
	return mc.cities[i].Coordinates, true, nil
}

func (mc *MemoryCatalog) List(ctx context.Context) ([]string, error) {
	names := make([]string, len(mc.cities))
	for i, c := range mc.cities {
		names[i] = c.Name
	}
	return names, nil
}

// Cities シード順の都市一覧（コピー）
func (mc *MemoryCatalog) Cities() []geo.City {
	out := make([]geo.City, len(mc.cities))
	copy(out, mc.cities)
	return out
}
