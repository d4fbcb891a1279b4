package render

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

const (
	// Contours are clipped to the canvas grown by this many pixels on each
	// side, so the rasterizer only ever sees coordinates near the canvas.
	clipMarginPx = 64

	// Maximum distance, in pixels, between a curve and the chords replacing it.
	flatness = 0.1

	maxSubdivisions = 64
)

type point struct{ x, y float64 }

type box struct{ minX, minY, maxX, maxY float64 }

// path collects closed polygons in canvas coordinates. Curves are flattened
// as they are added; pieces that cannot reach the clip box are replaced by
// their chord, which leaves coverage inside the box unchanged.
type path struct {
	clip     box
	contours [][]point
	cur      []point
}

func newPath(bounds image.Rectangle) *path {
	return &path{clip: box{
		minX: float64(bounds.Min.X - clipMarginPx),
		minY: float64(bounds.Min.Y - clipMarginPx),
		maxX: float64(bounds.Max.X + clipMarginPx),
		maxY: float64(bounds.Max.Y + clipMarginPx),
	}}
}

func (p *path) moveTo(x, y float64) {
	p.closePath()
	p.cur = append(p.cur[:0:0], point{x, y})
}

func (p *path) lineTo(x, y float64) {
	p.cur = append(p.cur, point{x, y})
}

func (p *path) cubeTo(bx, by, cx, cy, dx, dy float64) {
	if len(p.cur) == 0 {
		p.cur = append(p.cur, point{bx, by})
	}
	a := p.cur[len(p.cur)-1]
	p.flatten(a, point{bx, by}, point{cx, cy}, point{dx, dy}, 0)
}

func (p *path) closePath() {
	if len(p.cur) >= 3 {
		p.contours = append(p.contours, p.cur)
	}
	p.cur = nil
}

func (p *path) flatten(a, b, c, d point, depth int) {
	if depth >= maxSubdivisions || !p.hullMayCross(a, b, c, d) || flatEnough(a, b, c, d) {
		p.cur = append(p.cur, d)
		return
	}
	// de Casteljau split at t = 0.5.
	ab, bc, cd := mid(a, b), mid(b, c), mid(c, d)
	abc, bcd := mid(ab, bc), mid(bc, cd)
	m := mid(abc, bcd)
	p.flatten(a, ab, abc, m, depth+1)
	p.flatten(m, bcd, cd, d, depth+1)
}

// hullMayCross reports whether the bounding box of the control points
// touches the clip box.
func (p *path) hullMayCross(pts ...point) bool {
	b := box{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, q := range pts {
		b.minX = math.Min(b.minX, q.x)
		b.minY = math.Min(b.minY, q.y)
		b.maxX = math.Max(b.maxX, q.x)
		b.maxY = math.Max(b.maxY, q.y)
	}
	return b.maxX >= p.clip.minX && b.minX <= p.clip.maxX && b.maxY >= p.clip.minY && b.minY <= p.clip.maxY
}

func flatEnough(a, b, c, d point) bool {
	return distToChord(b, a, d) <= flatness && distToChord(c, a, d) <= flatness
}

func distToChord(q, a, d point) float64 {
	dx, dy := d.x-a.x, d.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(q.x-a.x, q.y-a.y)
	}
	return math.Abs((q.x-a.x)*dy-(q.y-a.y)*dx) / length
}

func mid(a, b point) point { return point{(a.x + b.x) / 2, (a.y + b.y) / 2} }

// rasterize clips every contour to the clip box and adds it to z, with
// coordinates made relative to origin.
func (p *path) rasterize(z *vector.Rasterizer, origin image.Point) {
	p.closePath()
	ox, oy := float64(origin.X), float64(origin.Y)
	for _, contour := range p.contours {
		clipped := clipPolygon(contour, p.clip)
		if len(clipped) < 3 {
			continue
		}
		z.MoveTo(float32(clipped[0].x-ox), float32(clipped[0].y-oy))
		for _, q := range clipped[1:] {
			z.LineTo(float32(q.x-ox), float32(q.y-oy))
		}
		z.ClosePath()
	}
}

// clipPolygon is Sutherland-Hodgman against an axis-aligned box. Winding
// direction is preserved.
func clipPolygon(poly []point, b box) []point {
	edges := []struct {
		inside func(point) bool
		cross  func(point, point) point
	}{
		{func(q point) bool { return q.x >= b.minX }, func(s, e point) point { return atX(s, e, b.minX) }},
		{func(q point) bool { return q.x <= b.maxX }, func(s, e point) point { return atX(s, e, b.maxX) }},
		{func(q point) bool { return q.y >= b.minY }, func(s, e point) point { return atY(s, e, b.minY) }},
		{func(q point) bool { return q.y <= b.maxY }, func(s, e point) point { return atY(s, e, b.maxY) }},
	}
	out := poly
	for _, edge := range edges {
		if len(out) == 0 {
			break
		}
		in := out
		out = make([]point, 0, len(in)+4)
		s := in[len(in)-1]
		for _, e := range in {
			switch {
			case edge.inside(e):
				if !edge.inside(s) {
					out = append(out, edge.cross(s, e))
				}
				out = append(out, e)
			case edge.inside(s):
				out = append(out, edge.cross(s, e))
			}
			s = e
		}
	}
	return out
}

func atX(s, e point, x float64) point {
	t := (x - s.x) / (e.x - s.x)
	return point{x, s.y + t*(e.y-s.y)}
}

func atY(s, e point, y float64) point {
	t := (y - s.y) / (e.y - s.y)
	return point{s.x + t*(e.x-s.x), y}
}
