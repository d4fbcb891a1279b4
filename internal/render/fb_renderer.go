package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync/atomic"

	fb "github.com/gonutz/framebuffer"
)

// DefaultFBDevice is the framebuffer the FBRenderer opens when Device is empty.
const DefaultFBDevice = "/dev/fb0"

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas
// the size of the pad, scaled to the device.
type FBRenderer struct {
	Device string
	FPS    int
	Logger Logger
	Debug  bool

	fbDev   *fb.Device
	running atomic.Bool
	canvas
}

func NewFBRenderer() *FBRenderer { return &FBRenderer{Device: DefaultFBDevice, FPS: DefaultFPS} }

func (r *FBRenderer) Start(ctx context.Context) error {
	path := r.Device
	if path == "" {
		path = DefaultFBDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		return err
	}
	r.fbDev = dev
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", path, bounds.Dx(), bounds.Dy())
	}

	painter, err := NewPainter()
	if err != nil {
		dev.Close()
		r.fbDev = nil
		return err
	}
	painter.Logger = r.Logger
	r.painter = painter

	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

// Redraw paints the pad and pushes the frame to the framebuffer.
func (r *FBRenderer) Redraw(src Source) {
	if !r.running.Load() || src == nil || r.fbDev == nil {
		return
	}
	img := r.paint(src)
	blitToFB(r.fbDev, img)
	if r.Debug && r.Logger != nil {
		r.Logger.Infof("fb", "redraw done, frame=%d", r.frames)
	}
}

// RunLoop continuously redraws until the context is done.
func (r *FBRenderer) RunLoop(ctx context.Context, src Source) {
	runLoop(ctx, r.FPS, r.Logger, "fb", func() int {
		r.Redraw(src)
		return r.frames
	})
}

// Helper: blit canvas to framebuffer via nearest-neighbor scaling.
func blitToFB(dst draw.Image, canvas *image.RGBA) {
	if dst == nil || canvas == nil {
		return
	}
	bounds := dst.Bounds()
	src := canvas.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	if fbWidth == 0 || fbHeight == 0 || src.Empty() {
		return
	}
	for y := 0; y < fbHeight; y++ {
		sy := src.Min.Y + (y*src.Dy())/fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := src.Min.X + (x*src.Dx())/fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dst.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
