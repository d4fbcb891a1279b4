package pad

import (
	"image"
	"image/color"
	"sync"
	"time"
)

const (
	// Default surface size in logical pixels.
	DefaultWidth  = 400
	DefaultHeight = 400

	DefaultStrokeWidth = 1
	DefaultTextSize    = 20

	// FontFamily is the font family DrawText uses.
	FontFamily = "Go Regular"
)

var (
	DefaultFillColor       = color.RGBA{}
	DefaultStrokeColor     = color.RGBA{A: 0xFF}
	DefaultBackgroundColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Pad is an immediate-mode drawing surface. Draw calls append primitives to
// a render list using the style in effect at the time of the call; the list
// is only ever cleared as a whole.
//
// All methods are safe to call from the redraw callback and from other
// goroutines, e.g. a renderer taking snapshots.
type Pad struct {
	Logger Logger

	// Interval between redraw calls; zero means DefaultInterval. Read when
	// the loop starts.
	Interval time.Duration

	mu         sync.RWMutex
	bounds     image.Rectangle
	style      Style
	background color.RGBA
	prims      []Primitive

	// Last complete frame, published after each redraw callback returns.
	committed    bool
	committedBG  color.RGBA
	committedPrs []Primitive

	redrawMu sync.RWMutex
	redraw   func()
	ticker   *Ticker
	closed   bool
}

func New() *Pad {
	return NewSize(DefaultWidth, DefaultHeight)
}

func NewSize(width, height int) *Pad {
	return &Pad{
		bounds: image.Rect(0, 0, width, height),
		style: Style{
			Fill:        DefaultFillColor,
			Stroke:      DefaultStrokeColor,
			StrokeWidth: DefaultStrokeWidth,
			TextSize:    DefaultTextSize,
		},
		background: DefaultBackgroundColor,
	}
}

// Bounds is the frame of the surface; text primitives are laid out on it.
func (p *Pad) Bounds() image.Rectangle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bounds
}

func (p *Pad) FillColor() color.RGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.style.Fill
}

func (p *Pad) SetFillColor(c color.RGBA) {
	p.mu.Lock()
	p.style.Fill = c
	p.mu.Unlock()
}

func (p *Pad) StrokeColor() color.RGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.style.Stroke
}

func (p *Pad) SetStrokeColor(c color.RGBA) {
	p.mu.Lock()
	p.style.Stroke = c
	p.mu.Unlock()
}

func (p *Pad) StrokeWidth() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.style.StrokeWidth
}

// SetStrokeWidth stores w as is; zero or negative widths draw no outline.
func (p *Pad) SetStrokeWidth(w int) {
	p.mu.Lock()
	p.style.StrokeWidth = w
	p.mu.Unlock()
}

func (p *Pad) TextSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.style.TextSize
}

func (p *Pad) SetTextSize(size int) {
	p.mu.Lock()
	p.style.TextSize = size
	p.mu.Unlock()
}

func (p *Pad) BackgroundColor() color.RGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.background
}

func (p *Pad) SetBackgroundColor(c color.RGBA) {
	p.mu.Lock()
	p.background = c
	p.mu.Unlock()
}

// Style returns the current pen state.
func (p *Pad) Style() Style {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.style
}

// DrawEllipse draws an ellipse inscribed in the rectangle with top-left
// corner (x, y).
func (p *Pad) DrawEllipse(x, y, width, height int) {
	p.add(Primitive{Kind: KindEllipse, X: x, Y: y, Width: width, Height: height})
}

// DrawRectangle draws a rectangle with top-left corner (x, y).
func (p *Pad) DrawRectangle(x, y, width, height int) {
	p.add(Primitive{Kind: KindRectangle, X: x, Y: y, Width: width, Height: height})
}

// DrawLine draws a line from (x1, y1) to (x2, y2) with the stroke color and
// width. The fill color is not used.
func (p *Pad) DrawLine(x1, y1, x2, y2 int) {
	p.add(Primitive{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2})
}

// DrawText draws text in the stroke color at the current text size.
//
// The text is always centered across the whole surface frame, starting at
// its top edge; x and y are accepted but not used for placement.
func (p *Pad) DrawText(text string, x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.bounds
	p.prims = append(p.prims, Primitive{
		Kind:   KindText,
		X:      b.Min.X,
		Y:      b.Min.Y,
		Width:  b.Dx(),
		Height: b.Dy(),
		Text:   text,
		Font:   FontFamily,
		Align:  TextAlignCenter,
		Style:  p.style,
	})
}

// DrawImage draws img scaled into the rectangle with top-left corner (x, y).
func (p *Pad) DrawImage(img image.Image, x, y, width, height int) {
	p.add(Primitive{Kind: KindImage, X: x, Y: y, Width: width, Height: height, Image: img})
}

func (p *Pad) add(prim Primitive) {
	p.mu.Lock()
	prim.Style = p.style
	p.prims = append(p.prims, prim)
	p.mu.Unlock()
}

// EraseAll removes every primitive from the surface.
func (p *Pad) EraseAll() {
	p.mu.Lock()
	p.prims = nil
	p.mu.Unlock()
}

// Len returns the number of primitives on the surface.
func (p *Pad) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.prims)
}

// Primitives returns a copy of the render list in paint order.
func (p *Pad) Primitives() []Primitive {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Primitive, len(p.prims))
	copy(out, p.prims)
	return out
}

// Snapshot returns the frame a renderer should show: the background and
// render list as they were when the last redraw callback returned. Changes
// made while a callback runs become visible together once it returns.
// Before the redraw loop is started it returns the live state.
func (p *Pad) Snapshot() (color.RGBA, []Primitive) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.committed {
		out := make([]Primitive, len(p.committedPrs))
		copy(out, p.committedPrs)
		return p.committedBG, out
	}
	out := make([]Primitive, len(p.prims))
	copy(out, p.prims)
	return p.background, out
}

// commit publishes the live state as the frame Snapshot returns.
func (p *Pad) commit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.committed = true
	p.committedBG = p.background
	p.committedPrs = make([]Primitive, len(p.prims))
	copy(p.committedPrs, p.prims)
}

// SetRedraw installs the per-frame callback. The first call starts the
// redraw loop, which invokes the current callback once per Interval until
// Close. Later calls replace the callback from the next tick on.
func (p *Pad) SetRedraw(fn func()) {
	p.redrawMu.Lock()
	defer p.redrawMu.Unlock()
	p.redraw = fn
	if p.ticker != nil || p.closed {
		return
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if p.Logger != nil {
		p.Logger.Infof("pad", "redraw loop started, interval=%s", interval)
	}
	// Whatever was drawn before the loop is the first frame on screen.
	p.commit()
	p.ticker = StartTicker(interval, p.tick)
}

func (p *Pad) tick() {
	p.redrawMu.RLock()
	fn := p.redraw
	p.redrawMu.RUnlock()
	if fn != nil {
		fn()
	}
	p.commit()
}

// Running reports whether the redraw loop is active.
func (p *Pad) Running() bool {
	p.redrawMu.RLock()
	defer p.redrawMu.RUnlock()
	return p.ticker != nil && !p.closed
}

// Close stops the redraw loop. It may be called from the redraw callback.
func (p *Pad) Close() error {
	p.redrawMu.Lock()
	defer p.redrawMu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.ticker != nil {
		p.ticker.Stop()
		if p.Logger != nil {
			p.Logger.Infof("pad", "redraw loop stopped")
		}
	}
	return nil
}

// Done is closed when the redraw loop has exited. It is nil if the loop was
// never started.
func (p *Pad) Done() <-chan struct{} {
	p.redrawMu.RLock()
	defer p.redrawMu.RUnlock()
	if p.ticker == nil {
		return nil
	}
	return p.ticker.Done()
}
