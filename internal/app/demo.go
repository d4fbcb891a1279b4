package app

import (
	"image"
	"image/color"

	"github.com/rook-computer/drawingpad/internal/pad"
	"github.com/rook-computer/drawingpad/internal/render"
	"github.com/rook-computer/drawingpad/internal/render/layout"
)

// Sketch is a host program for a pad: Setup runs once before the redraw loop
// starts, Draw runs on every tick.
type Sketch interface {
	Setup(p *pad.Pad) error
	Draw(p *pad.Pad)
}

const (
	ballSize   = 40
	qrSizePx   = 96
	qrMarginPx = 8
)

var (
	demoBackground = color.RGBA{R: 0xFF, G: 0xDC, B: 0x00, A: 0xFF} // #ffdc00
	demoForeground = color.RGBA{R: 0x90, G: 0x00, B: 0xFF, A: 0xFF} // #9000ff
)

// BouncingBall redraws a ball bouncing off the pad's edges, a title and,
// when QRPayload is set, a QR code in the bottom-right corner.
type BouncingBall struct {
	Title     string
	QRPayload string

	x, y   int
	dx, dy int
	qr     image.Image
	frames int
}

func NewBouncingBall(title, qrPayload string) *BouncingBall {
	return &BouncingBall{Title: title, QRPayload: qrPayload, x: 20, y: 60, dx: 3, dy: 2}
}

func (b *BouncingBall) Setup(p *pad.Pad) error {
	p.SetBackgroundColor(demoBackground)
	qr, err := render.GenerateQRCodeImage(b.QRPayload, qrSizePx, demoForeground, color.Transparent)
	if err != nil {
		return err
	}
	b.qr = qr
	return nil
}

func (b *BouncingBall) Draw(p *pad.Pad) {
	bounds := p.Bounds()
	b.step(bounds)

	p.EraseAll()

	p.SetStrokeColor(demoForeground)
	p.SetStrokeWidth(2)
	p.SetFillColor(color.RGBA{})
	p.DrawRectangle(bounds.Min.X+1, bounds.Min.Y+1, bounds.Dx()-2, bounds.Dy()-2)

	p.SetTextSize(24)
	p.DrawText(b.Title, 0, 0)

	// Shadow, then the ball.
	p.SetStrokeWidth(0)
	p.SetFillColor(color.RGBA{A: 0x40})
	p.DrawEllipse(b.x+4, b.y+4, ballSize, ballSize)
	p.SetFillColor(demoForeground)
	p.SetStrokeColor(color.RGBA{A: 0xFF})
	p.SetStrokeWidth(1)
	p.DrawEllipse(b.x, b.y, ballSize, ballSize)

	p.SetStrokeColor(demoForeground)
	p.DrawLine(bounds.Min.X, bounds.Max.Y-1, b.x+ballSize/2, b.y+ballSize)

	if b.qr != nil {
		r := layout.AnchorBottomRight(layout.Inset(bounds, qrMarginPx), qrSizePx, qrSizePx)
		p.DrawImage(b.qr, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	}
	b.frames++
}

// Frames returns how many times Draw has run.
func (b *BouncingBall) Frames() int { return b.frames }

func (b *BouncingBall) step(bounds image.Rectangle) {
	b.x += b.dx
	b.y += b.dy
	if b.x < bounds.Min.X {
		b.x, b.dx = bounds.Min.X, -b.dx
	}
	if b.x+ballSize > bounds.Max.X {
		b.x, b.dx = bounds.Max.X-ballSize, -b.dx
	}
	if b.y < bounds.Min.Y {
		b.y, b.dy = bounds.Min.Y, -b.dy
	}
	if b.y+ballSize > bounds.Max.Y {
		b.y, b.dy = bounds.Max.Y-ballSize, -b.dy
	}
}
