package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates 緯度経度が範囲外
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates 緯度経度
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Validate 緯度 [-90, 90]、経度 [-180, 180] に収まっているか確認
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return fmt.Errorf("%w: NaN", ErrInvalidCoordinates)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %.6f out of range", ErrInvalidCoordinates, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %.6f out of range", ErrInvalidCoordinates, c.Lng)
	}
	return nil
}

// City カタログに登録された都市
type City struct {
	ID   int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"city" yaml:"city"`
	Coordinates `yaml:",inline"`
}

// NewCity 座標を検証してCityを作成
func NewCity(id int64, name string, lat, lng float64) (City, error) {
	if name == "" {
		return City{}, errors.New("city name is empty")
	}
	c := Coordinates{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return City{}, fmt.Errorf("city %q: %w", name, err)
	}
	return City{ID: id, Name: name, Coordinates: c}, nil
}

// Point 描画対象の点（ラベル付き）
type Point struct {
	Label string
	Coordinates
}

// NewPoint ラベルと座標からPointを作成
func NewPoint(label string, lat, lng float64) Point {
	return Point{Label: label, Coordinates: Coordinates{Lat: lat, Lng: lng}}
}

// FormatLat 緯度を 60°N 形式で表示
func FormatLat(lat float64) string {
	switch {
	case lat > 0:
		return fmt.Sprintf("%g°N", lat)
	case lat < 0:
		return fmt.Sprintf("%g°S", -lat)
	}
	return "0°"
}

// FormatLng 経度を 120°W 形式で表示
func FormatLng(lng float64) string {
	switch {
	case lng == 180 || lng == -180:
		return "180°"
	case lng > 0:
		return fmt.Sprintf("%g°E", lng)
	case lng < 0:
		return fmt.Sprintf("%g°W", -lng)
	}
	return "0°"
}
