package mapview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/sync/semaphore"

	"citymap_discord_bot/internal/geo"
)

// ErrNoPoints 描画する点がない
var ErrNoPoints = errors.New("no points to render")

const (
	DefaultWidth         = 1440
	DefaultMaxConcurrent = 4

	// Discordの添付ファイル上限
	maxAttachmentBytes = 8 * 1024 * 1024

	marginTop    = 56
	marginBottom = 30
	marginLeft   = 52
	marginRight  = 24

	gridStep = 30.0

	markerRadius  = 6.0
	markerOutline = 1.5
	labelOffset   = 1.0 // 度
	labelPadding  = 4
	labelRadius   = 5.0

	titleFontSize = 22
	labelFontSize = 13
	axisFontSize  = 11
)

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorOcean      = color.RGBA{214, 236, 243, 255} // lightblue 50%
	colorLand       = color.RGBA{200, 247, 200, 255} // lightgreen 50%
	colorCoast      = color.RGBA{40, 40, 40, 255}
	colorBorder     = color.RGBA{70, 70, 70, 255}
	colorGrid       = color.NRGBA{128, 128, 128, 110}
	colorFrame      = color.RGBA{0, 0, 0, 255}
	colorAxisText   = color.RGBA{60, 60, 60, 255}
	colorTitle      = color.RGBA{20, 20, 20, 255}

	// MarkerColor マーカーの塗り色
	MarkerColor        = color.RGBA{230, 0, 0, 255}
	markerOutlineColor = color.RGBA{130, 0, 0, 255}
	// LabelBoxColor ラベル背景（半透明の黄色）
	LabelBoxColor  = color.NRGBA{255, 255, 0, 178}
	labelTextColor = color.RGBA{139, 0, 0, 255}
)

// Options レンダラー設定
type Options struct {
	Width         int      // 地図部分の幅（高さは半分）
	Basemap       *Basemap // nilなら埋め込みの世界地図
	MaxConcurrent int64    // 同時描画数の上限
	LabelFont     []byte   // ラベルとタイトルのTTF/OTF（空ならGo Bold）
}

// Marker 描画したマーカーとラベルの位置
type Marker struct {
	Label       string
	Coordinates geo.Coordinates
	X, Y        int             // マーカー中心の画素
	LabelBox    image.Rectangle // ラベル背景の矩形
}

// Map 描画結果（メモリ上のみ）
type Map struct {
	Data        []byte
	ContentType string
	Filename    string
	Title       string
	Width       int
	Height      int
	Markers     []Marker
}

// Reader 添付用
func (m *Map) Reader() *bytes.Reader {
	return bytes.NewReader(m.Data)
}

// Renderer 全世界の地図に点を描く
// 背景は生成時に一度だけラスタライズし、描画ごとに複製する
type Renderer struct {
	proj      geo.Projection
	mapRect   image.Rectangle
	base      *image.RGBA
	sem       *semaphore.Weighted
	labelFont *opentype.Font
}

// New 背景地図を準備してRendererを作成
func New(opts Options) (*Renderer, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Width < 360 {
		return nil, fmt.Errorf("map width %d is too small", opts.Width)
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	bm := opts.Basemap
	if bm == nil {
		var err error
		bm, err = DefaultBasemap()
		if err != nil {
			return nil, fmt.Errorf("load default basemap: %w", err)
		}
	}

	labelTTF := opts.LabelFont
	if len(labelTTF) == 0 {
		labelTTF = gobold.TTF
	}
	labelFont, err := opentype.Parse(labelTTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	regularFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	proj := geo.NewProjection(opts.Width)
	r := &Renderer{
		proj:      proj,
		mapRect:   image.Rect(marginLeft, marginTop, marginLeft+int(proj.Width), marginTop+int(proj.Height)),
		sem:       semaphore.NewWeighted(opts.MaxConcurrent),
		labelFont: labelFont,
	}
	base, err := r.buildBase(bm, regularFont)
	if err != nil {
		return nil, err
	}
	r.base = base
	return r, nil
}

// Size 出力画像の大きさ
func (r *Renderer) Size() (width, height int) {
	b := r.base.Bounds()
	return b.Dx(), b.Dy()
}

// Render 点の集合を描いた地図を返す
func (r *Renderer) Render(ctx context.Context, points []geo.Point) (*Map, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("point %q: %w", p.Label, err)
		}
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	// フォントフェイスはキャッシュを持つので呼び出しごとに作る
	labelFace, err := r.newFace(labelFontSize)
	if err != nil {
		return nil, err
	}
	defer labelFace.Close()
	titleFace, err := r.newFace(titleFontSize)
	if err != nil {
		return nil, err
	}
	defer titleFace.Close()

	canvas := cloneRGBA(r.base)
	markers := make([]Marker, 0, len(points))

	for _, p := range points {
		box, textX, textY := r.labelLayout(canvas.Bounds(), p, labelFace)
		fillPath(canvas, path{roundedRectPath(box, labelRadius)}, LabelBoxColor)
		drawText(canvas, p.Label, textX, textY, labelTextColor, labelFace)

		x, y := r.project(p.Lng, p.Lat)
		markers = append(markers, Marker{
			Label:       p.Label,
			Coordinates: p.Coordinates,
			X:           int(math.Floor(x)),
			Y:           int(math.Floor(y)),
			LabelBox:    box,
		})
	}

	// マーカーはラベルに隠れないよう最後に描く
	for _, m := range markers {
		x, y := r.project(m.Coordinates.Lng, m.Coordinates.Lat)
		fillPath(canvas, path{circlePath(x, y, markerRadius+markerOutline)}, markerOutlineColor)
		fillPath(canvas, path{circlePath(x, y, markerRadius)}, MarkerColor)
	}

	title := Title(points)
	width := font.MeasureString(titleFace, title).Ceil()
	ascent := titleFace.Metrics().Ascent.Ceil()
	drawText(canvas, title, (canvas.Bounds().Dx()-width)/2, (marginTop-ascent)/2+ascent, colorTitle, titleFace)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, contentType, filename, err := encodeMap(canvas)
	if err != nil {
		return nil, fmt.Errorf("encode map: %w", err)
	}
	b := canvas.Bounds()
	return &Map{
		Data:        data,
		ContentType: contentType,
		Filename:    filename,
		Title:       title,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Markers:     markers,
	}, nil
}

// Title 1都市なら "Single city: 名前"、それ以外は "N cities"
func Title(points []geo.Point) string {
	if len(points) == 1 {
		return "Single city: " + points[0].Label
	}
	return fmt.Sprintf("%d cities", len(points))
}

func (r *Renderer) newFace(size float64) (font.Face, error) {
	face, err := opentype.NewFace(r.labelFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}

// project 経度緯度 → キャンバス上の画素
func (r *Renderer) project(lng, lat float64) (float64, float64) {
	x, y := r.proj.Project(lng, lat)
	return x + float64(r.mapRect.Min.X), y + float64(r.mapRect.Min.Y)
}

// labelLayout ラベルは(+1°, +1°)の位置を左下基準に置き、画像からはみ出す場合は内側へずらす
func (r *Renderer) labelLayout(bounds image.Rectangle, p geo.Point, face font.Face) (image.Rectangle, int, int) {
	ax, ay := r.project(math.Min(p.Lng+labelOffset, 180), math.Min(p.Lat+labelOffset, 90))
	textW := font.MeasureString(face, p.Label).Ceil()
	metrics := face.Metrics()
	ascent, descent := metrics.Ascent.Ceil(), metrics.Descent.Ceil()

	textX, textY := int(math.Round(ax)), int(math.Round(ay))
	box := image.Rect(textX-labelPadding, textY-ascent-labelPadding, textX+textW+labelPadding, textY+descent+labelPadding)

	var dx, dy int
	if box.Max.X > bounds.Max.X {
		dx = bounds.Max.X - box.Max.X
	}
	if box.Min.X+dx < bounds.Min.X {
		dx = bounds.Min.X - box.Min.X
	}
	if box.Min.Y < bounds.Min.Y {
		dy = bounds.Min.Y - box.Min.Y
	}
	if box.Max.Y > bounds.Max.Y {
		dy = bounds.Max.Y - box.Max.Y
	}
	shift := image.Pt(dx, dy)
	return box.Add(shift), textX + dx, textY + dy
}

// buildBase 海・陸・湖・海岸線・国境・経緯線・目盛りを描いた背景
func (r *Renderer) buildBase(bm *Basemap, regularFont *opentype.Font) (*image.RGBA, error) {
	w := r.mapRect.Max.X + marginRight
	h := r.mapRect.Max.Y + marginBottom
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), colorBackground)
	fillRect(img, r.mapRect, colorOcean)

	land := r.projectRings(bm.Land)
	water := r.projectRings(bm.Water)
	fillPath(img, land, colorLand)
	fillPath(img, water, colorOcean)

	var coasts [][]fpoint
	for _, ring := range bm.Land {
		coasts = append(coasts, r.projectLines(splitAtFrame(ring))...)
	}
	for _, ring := range bm.Water {
		coasts = append(coasts, r.projectLines(splitAtFrame(ring))...)
	}
	coasts = append(coasts, r.projectLines(bm.Coasts)...)
	strokePath(img, coasts, 1.0, false, colorCoast)
	strokePath(img, r.projectLines(bm.Borders), 0.7, false, colorBorder)

	axisFace, err := opentype.NewFace(regularFont, &opentype.FaceOptions{
		Size:    axisFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer axisFace.Close()
	r.drawGraticule(img, axisFace)

	frame := []fpoint{
		{float64(r.mapRect.Min.X), float64(r.mapRect.Min.Y)},
		{float64(r.mapRect.Max.X), float64(r.mapRect.Min.Y)},
		{float64(r.mapRect.Max.X), float64(r.mapRect.Max.Y)},
		{float64(r.mapRect.Min.X), float64(r.mapRect.Max.Y)},
	}
	strokePath(img, [][]fpoint{frame}, 1.0, true, colorFrame)
	return img, nil
}

func (r *Renderer) drawGraticule(img *image.RGBA, face font.Face) {
	var lines [][]fpoint
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()

	for lng := -180.0; lng <= 180; lng += gridStep {
		x0, y0 := r.project(lng, 90)
		x1, y1 := r.project(lng, -90)
		if lng > -180 && lng < 180 {
			lines = append(lines, []fpoint{{x0, y0}, {x1, y1}})
		}
		label := geo.FormatLng(lng)
		tw := font.MeasureString(face, label).Ceil()
		drawText(img, label, int(x1)-tw/2, int(y1)+4+ascent, colorAxisText, face)
	}
	for lat := -90.0; lat <= 90; lat += gridStep {
		x0, y0 := r.project(-180, lat)
		x1, y1 := r.project(180, lat)
		if lat > -90 && lat < 90 {
			lines = append(lines, []fpoint{{x0, y0}, {x1, y1}})
		}
		label := geo.FormatLat(lat)
		tw := font.MeasureString(face, label).Ceil()
		drawText(img, label, int(x0)-6-tw, int(y0)+ascent/2, colorAxisText, face)
	}
	strokePath(img, lines, 0.8, false, colorGrid)
}

func (r *Renderer) projectRings(rings []Ring) path {
	out := make(path, 0, len(rings))
	for _, ring := range rings {
		pts := make([]fpoint, len(ring))
		for i, c := range ring {
			x, y := r.project(c[0], c[1])
			pts[i] = fpoint{x, y}
		}
		out = append(out, pts)
	}
	return out
}

func (r *Renderer) projectLines(lines []Ring) [][]fpoint {
	return [][]fpoint(r.projectRings(lines))
}

// splitAtFrame 閉じた輪郭を、地図の枠（±180°, ±90°）に沿う辺で切った折れ線にする
func splitAtFrame(ring Ring) []Ring {
	n := len(ring)
	if n < 2 {
		return nil
	}
	closed := ring
	if ring[0] != ring[n-1] {
		closed = append(append(Ring{}, ring...), ring[0])
	}
	var out []Ring
	current := Ring{closed[0]}
	for i := 1; i < len(closed); i++ {
		a, b := closed[i-1], closed[i]
		if onFrame(a, b) {
			if len(current) >= 2 {
				out = append(out, current)
			}
			current = Ring{b}
			continue
		}
		current = append(current, b)
	}
	if len(current) >= 2 {
		out = append(out, current)
	}
	return out
}

func onFrame(a, b [2]float64) bool {
	if a[0] == b[0] && math.Abs(a[0]) == 180 {
		return true
	}
	return a[1] == b[1] && math.Abs(a[1]) == 90
}

// encodeMap PNGで上限を超えたらJPEGにする
func encodeMap(img image.Image) ([]byte, string, string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err == nil {
		if buf.Len() <= maxAttachmentBytes {
			return buf.Bytes(), "image/png", "map.png", nil
		}
	}
	buf.Reset()
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", "", err
	}
	return buf.Bytes(), "image/jpeg", "map.jpg", nil
}
