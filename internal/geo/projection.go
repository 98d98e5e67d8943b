package geo

// Projection 経度緯度を全世界の正距円筒図法(Plate Carrée)の画素座標へ変換
// 原点は地図領域の左上 (180°W, 90°N)
type Projection struct {
	Width  float64
	Height float64
}

// NewProjection 幅から高さを決める（2:1）
func NewProjection(width int) Projection {
	return Projection{Width: float64(width), Height: float64(width) / 2}
}

// Project 経度緯度 → 画素座標
func (p Projection) Project(lng, lat float64) (x, y float64) {
	x = (lng + 180) / 360 * p.Width
	y = (90 - lat) / 180 * p.Height
	return x, y
}

// Unproject 画素座標 → 経度緯度
func (p Projection) Unproject(x, y float64) (lng, lat float64) {
	lng = x/p.Width*360 - 180
	lat = 90 - y/p.Height*180
	return lng, lat
}
