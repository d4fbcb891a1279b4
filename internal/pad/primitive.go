package pad

import (
	"image"
	"image/color"
)

type Kind int

const (
	KindEllipse Kind = iota
	KindRectangle
	KindLine
	KindText
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindEllipse:
		return "ellipse"
	case KindRectangle:
		return "rectangle"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Style is the pen state copied into every primitive when it is drawn.
type Style struct {
	Fill        color.RGBA
	Stroke      color.RGBA
	StrokeWidth int
	TextSize    int
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// Primitive is one entry of the render list.
//
// Shapes and images use X, Y, Width and Height. Width and Height are kept
// exactly as given, so negative values mirror the shape around (X, Y).
// Lines use (X, Y) to (X2, Y2).
type Primitive struct {
	Kind   Kind
	X, Y   int
	Width  int
	Height int
	X2, Y2 int

	Text string
	// Font names the family the renderer draws Text with.
	Font  string
	Align TextAlign

	Image image.Image

	Style Style
}

// Frame returns the rectangle the primitive was drawn in, not normalized.
func (p Primitive) Frame() (x, y, width, height int) {
	return p.X, p.Y, p.Width, p.Height
}
