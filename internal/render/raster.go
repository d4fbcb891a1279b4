package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/drawingpad/internal/pad"
	"github.com/rook-computer/drawingpad/internal/render/layout"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Bezier control distance for a quarter circle.
const kappa = 0.5522847498307936

const (
	// MaxFaceSize bounds the size faces are built at; larger text sizes are
	// drawn at this size.
	MaxFaceSize = 2048

	// Faces above this size keep a single glyph mask and are not cached
	// beyond the most recent one.
	maxCachedFaceSize = 256
)

type faceKey struct {
	family string
	size   int
}

// Painter rasterizes a render list into an RGBA canvas.
// A Painter caches font faces and must not be shared between goroutines.
type Painter struct {
	fonts  map[string]*truetype.Font
	faces  map[faceKey]font.Face
	large  faceKey
	largeF font.Face
	z      *vector.Rasterizer
	Logger Logger
}

func NewPainter() (*Painter, error) {
	p := &Painter{fonts: make(map[string]*truetype.Font), faces: make(map[faceKey]font.Face)}
	if err := p.RegisterFont(pad.FontFamily, goregular.TTF); err != nil {
		return nil, err
	}
	return p, nil
}

// RegisterFont makes a TrueType font available to text primitives whose
// Font is family.
func (p *Painter) RegisterFont(family string, ttf []byte) error {
	tt, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse %s: %w", family, err)
	}
	p.fonts[family] = tt
	for key := range p.faces {
		if key.family == family {
			delete(p.faces, key)
		}
	}
	if p.large.family == family {
		p.largeF = nil
	}
	return nil
}

// Paint clears dst to background and paints prims in order.
func (p *Painter) Paint(dst *image.RGBA, background color.Color, prims []pad.Primitive) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	for _, prim := range prims {
		p.PaintPrimitive(dst, prim)
	}
}

// PaintPrimitive paints a single primitive on top of dst.
func (p *Painter) PaintPrimitive(dst *image.RGBA, prim pad.Primitive) {
	switch prim.Kind {
	case pad.KindEllipse:
		p.paintEllipse(dst, prim)
	case pad.KindRectangle:
		p.paintRectangle(dst, prim)
	case pad.KindLine:
		p.paintLine(dst, prim)
	case pad.KindText:
		p.paintText(dst, prim)
	case pad.KindImage:
		p.paintImage(dst, prim)
	}
}

func (p *Painter) rasterizer(dst *image.RGBA) *vector.Rasterizer {
	b := dst.Bounds()
	if p.z == nil {
		p.z = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		p.z.Reset(b.Dx(), b.Dy())
	}
	p.z.DrawOp = draw.Over
	return p.z
}

// fill paints the contours added by build in color c.
func (p *Painter) fill(dst *image.RGBA, c color.RGBA, build func(pth *path)) {
	if c.A == 0 {
		return
	}
	pth := newPath(dst.Bounds())
	build(pth)
	z := p.rasterizer(dst)
	pth.rasterize(z, dst.Bounds().Min)
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func (p *Painter) paintEllipse(dst *image.RGBA, prim pad.Primitive) {
	r := layout.FromSize(prim.X, prim.Y, prim.Width, prim.Height)
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry

	if rx > 0 && ry > 0 {
		p.fill(dst, prim.Style.Fill, func(pth *path) {
			ellipsePath(pth, cx, cy, rx, ry)
		})
	}
	if prim.Style.StrokeWidth <= 0 {
		return
	}
	half := float64(prim.Style.StrokeWidth) / 2
	p.fill(dst, prim.Style.Stroke, func(pth *path) {
		ellipsePath(pth, cx, cy, rx+half, ry+half)
		if rx > half && ry > half {
			// Opposite winding cuts the hole.
			ellipsePath(pth, cx, cy, rx-half, -(ry - half))
		}
	})
}

func (p *Painter) paintRectangle(dst *image.RGBA, prim pad.Primitive) {
	r := layout.FromSize(prim.X, prim.Y, prim.Width, prim.Height)
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)

	if !r.Empty() {
		p.fill(dst, prim.Style.Fill, func(pth *path) {
			rectPath(pth, x0, y0, x1, y1)
		})
	}
	if prim.Style.StrokeWidth <= 0 {
		return
	}
	half := float64(prim.Style.StrokeWidth) / 2
	p.fill(dst, prim.Style.Stroke, func(pth *path) {
		rectPath(pth, x0-half, y0-half, x1+half, y1+half)
		if x1-x0 > 2*half && y1-y0 > 2*half {
			rectPath(pth, x0+half, y1-half, x1-half, y0+half)
		}
	})
}

func (p *Painter) paintLine(dst *image.RGBA, prim pad.Primitive) {
	if prim.Style.StrokeWidth <= 0 {
		return
	}
	ax, ay := float64(prim.X), float64(prim.Y)
	bx, by := float64(prim.X2), float64(prim.Y2)
	length := math.Hypot(bx-ax, by-ay)
	if length == 0 {
		return
	}
	half := float64(prim.Style.StrokeWidth) / 2
	nx := -(by - ay) / length * half
	ny := (bx - ax) / length * half

	p.fill(dst, prim.Style.Stroke, func(pth *path) {
		pth.moveTo(ax+nx, ay+ny)
		pth.lineTo(bx+nx, by+ny)
		pth.lineTo(bx-nx, by-ny)
		pth.lineTo(ax-nx, ay-ny)
		pth.closePath()
	})
}

func (p *Painter) paintText(dst *image.RGBA, prim pad.Primitive) {
	if prim.Text == "" || prim.Style.Stroke.A == 0 || prim.Style.TextSize <= 0 {
		return
	}
	face := p.face(prim.Font, prim.Style.TextSize)
	frame := layout.FromSize(prim.X, prim.Y, prim.Width, prim.Height)
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(prim.Style.Stroke),
		Face: face,
	}
	metrics := face.Metrics()
	baseline := fixed.I(frame.Min.Y) + metrics.Ascent
	for _, line := range strings.Split(prim.Text, "\n") {
		width := drawer.MeasureString(line)
		var x fixed.Int26_6
		switch prim.Align {
		case pad.TextAlignLeft:
			x = fixed.I(frame.Min.X)
		case pad.TextAlignRight:
			x = fixed.I(frame.Max.X) - width
		default:
			x = fixed.I(frame.Min.X) + (fixed.I(frame.Dx())-width)/2
		}
		drawer.Dot = fixed.Point26_6{X: x, Y: baseline}
		drawer.DrawString(line)
		baseline += metrics.Height
	}
}

// face returns the face for family at size, falling back to the pad's font
// family for unknown names.
func (p *Painter) face(family string, size int) font.Face {
	if size > MaxFaceSize {
		size = MaxFaceSize
	}
	key := faceKey{family: family, size: size}
	if f, ok := p.faces[key]; ok {
		return f
	}
	if p.largeF != nil && p.large == key {
		return p.largeF
	}

	tt, ok := p.fonts[family]
	if !ok {
		tt = p.fonts[pad.FontFamily]
		if p.Logger != nil {
			p.Logger.Errorf("render", "unknown font %q, using %s", family, pad.FontFamily)
		}
	}
	if tt == nil {
		if p.Logger != nil {
			p.Logger.Errorf("render", "no truetype font, using basicfont")
		}
		return basicfont.Face7x13
	}

	opts := &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull}
	if size > maxCachedFaceSize {
		// The glyph mask cache is sized per entry; one entry keeps huge
		// faces affordable.
		opts.GlyphCacheEntries = 1
		p.large, p.largeF = key, truetype.NewFace(tt, opts)
		return p.largeF
	}
	f := truetype.NewFace(tt, opts)
	p.faces[key] = f
	return f
}

func (p *Painter) paintImage(dst *image.RGBA, prim pad.Primitive) {
	if prim.Image == nil {
		return
	}
	r := layout.FromSize(prim.X, prim.Y, prim.Width, prim.Height)
	if r.Empty() || prim.Image.Bounds().Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, r, prim.Image, prim.Image.Bounds(), xdraw.Over, nil)
}

// ellipsePath adds a closed ellipse. A negative ry reverses the winding.
func ellipsePath(pth *path, cx, cy, rx, ry float64) {
	ox := rx * kappa
	oy := ry * kappa

	pth.moveTo(cx+rx, cy)
	pth.cubeTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	pth.cubeTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	pth.cubeTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	pth.cubeTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	pth.closePath()
}

// rectPath adds a closed rectangle. Swapping y0 and y1 reverses the winding.
func rectPath(pth *path, x0, y0, x1, y1 float64) {
	pth.moveTo(x0, y0)
	pth.lineTo(x1, y0)
	pth.lineTo(x1, y1)
	pth.lineTo(x0, y1)
	pth.closePath()
}
