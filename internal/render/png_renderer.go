package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
)

// PNGRenderer paints frames off screen and writes the last one to Path when
// stopped. It is used when no framebuffer is available.
type PNGRenderer struct {
	Path   string
	FPS    int
	Logger Logger

	canvas
}

func NewPNGRenderer(path string) *PNGRenderer { return &PNGRenderer{Path: path, FPS: DefaultFPS} }

func (r *PNGRenderer) Start(ctx context.Context) error {
	painter, err := NewPainter()
	if err != nil {
		return err
	}
	painter.Logger = r.Logger
	r.painter = painter
	return nil
}

func (r *PNGRenderer) Redraw(src Source) {
	if src == nil || r.painter == nil {
		return
	}
	r.paint(src)
}

func (r *PNGRenderer) RunLoop(ctx context.Context, src Source) {
	runLoop(ctx, r.FPS, r.Logger, "png", func() int {
		r.Redraw(src)
		return r.frames
	})
}

// Frame returns the most recently painted frame, or nil.
func (r *PNGRenderer) Frame() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.img
}

// Frames returns how many frames have been painted.
func (r *PNGRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *PNGRenderer) Stop() error {
	img := r.Frame()
	if img == nil || r.Path == "" {
		return nil
	}
	if err := WritePNG(r.Path, img); err != nil {
		return err
	}
	if r.Logger != nil {
		r.Logger.Infof("png", "wrote %s after %d frames", r.Path, r.Frames())
	}
	return nil
}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
