package mapview

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type fpoint struct{ X, Y float64 }

// path 閉じた輪郭の集合
type path [][]fpoint

func (p path) bounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ring := range p {
		for _, pt := range ring {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// fillPath 輪郭をアンチエイリアス付きで塗る
// ラスタライザは呼び出しごとに作るので並行描画で共有しない
func fillPath(dst *image.RGBA, p path, c color.Color) {
	r := p.bounds().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, ring := range p {
		if len(ring) < 3 {
			continue
		}
		z.MoveTo(float32(ring[0].X-ox), float32(ring[0].Y-oy))
		for _, pt := range ring[1:] {
			z.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
		}
		z.ClosePath()
	}
	z.Draw(dst, r, image.NewUniform(c), image.Point{})
}

// strokePath 折れ線を幅widthの四角形の連なりとして塗る
func strokePath(dst *image.RGBA, lines [][]fpoint, width float64, closed bool, c color.Color) {
	var quads path
	half := width / 2
	for _, line := range lines {
		n := len(line)
		if n < 2 {
			continue
		}
		segments := n - 1
		if closed {
			segments = n
		}
		for i := 0; i < segments; i++ {
			a, b := line[i], line[(i+1)%n]
			dx, dy := b.X-a.X, b.Y-a.Y
			length := math.Hypot(dx, dy)
			if length == 0 {
				continue
			}
			nx, ny := -dy/length*half, dx/length*half
			// 継ぎ目の隙間を埋めるため線分方向にも少し延ばす
			ex, ey := dx/length*half, dy/length*half
			quads = append(quads, []fpoint{
				{a.X - ex + nx, a.Y - ey + ny},
				{b.X + ex + nx, b.Y + ey + ny},
				{b.X + ex - nx, b.Y + ey - ny},
				{a.X - ex - nx, a.Y - ey - ny},
			})
		}
	}
	fillPath(dst, quads, c)
}

// circlePath 円を多角形で近似
func circlePath(cx, cy, radius float64) []fpoint {
	const steps = 32
	ring := make([]fpoint, steps)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / steps
		ring[i] = fpoint{cx + radius*math.Cos(a), cy + radius*math.Sin(a)}
	}
	return ring
}

// roundedRectPath 角丸四角形
func roundedRectPath(r image.Rectangle, radius float64) []fpoint {
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)
	radius = math.Min(radius, math.Min((x1-x0)/2, (y1-y0)/2))
	const steps = 6
	var ring []fpoint
	corner := func(cx, cy, start float64) {
		for i := 0; i <= steps; i++ {
			a := start + (math.Pi/2)*float64(i)/steps
			ring = append(ring, fpoint{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
		}
	}
	corner(x1-radius, y0+radius, -math.Pi/2)
	corner(x1-radius, y1-radius, 0)
	corner(x0+radius, y1-radius, math.Pi/2)
	corner(x0+radius, y0+radius, math.Pi)
	return ring
}

func fillRect(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawText(img draw.Image, text string, x, y int, c color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
