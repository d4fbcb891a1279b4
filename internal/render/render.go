package render

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/rook-computer/drawingpad/internal/pad"
)

// DefaultFPS is how often renderers repaint the canvas from the pad.
const DefaultFPS = 30

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Source is what a renderer paints: a surface size plus a consistent view of
// its background and render list. *pad.Pad implements it.
type Source interface {
	Bounds() image.Rectangle
	Snapshot() (color.RGBA, []pad.Primitive)
}

type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	RunLoop(ctx context.Context, src Source)
	Redraw(src Source)
}

// Stub implementations
type NoopRenderer struct{}

func (n *NoopRenderer) Start(ctx context.Context) error         { return nil }
func (n *NoopRenderer) Stop() error                             { return nil }
func (n *NoopRenderer) RunLoop(ctx context.Context, src Source) {}
func (n *NoopRenderer) Redraw(src Source)                       {}

// canvas is the logical drawing target shared by the concrete renderers.
type canvas struct {
	mu      sync.Mutex
	img     *image.RGBA
	painter *Painter
	frames  int
}

// paint renders one frame from src, resizing the canvas to the pad if needed.
func (c *canvas) paint(src Source) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	bounds := src.Bounds()
	if c.img == nil || c.img.Bounds() != bounds {
		c.img = image.NewRGBA(bounds)
	}
	background, prims := src.Snapshot()
	c.painter.Paint(c.img, background, prims)
	c.frames++
	return c.img
}

// runLoop calls redraw at fps until ctx is done, logging a heartbeat once a second.
func runLoop(ctx context.Context, fps int, logger Logger, component string, redraw func() int) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := redraw()
			if logger != nil && time.Since(lastLog) > time.Second {
				logger.Infof(component, "heartbeat frame=%d", frame)
				lastLog = time.Now()
			}
		}
	}
}
