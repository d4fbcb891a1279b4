package layout

import "image"

// FromSize returns the rectangle at (x, y) with the given size. Negative
// sizes extend the rectangle left or up from (x, y).
func FromSize(x, y, widthPx, heightPx int) image.Rectangle {
	return Normalize(image.Rectangle{
		Min: image.Point{X: x, Y: y},
		Max: image.Point{X: x + widthPx, Y: y + heightPx},
	})
}

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// AnchorBottomRight returns a rectangle of size (widthPx,heightPx) placed in the bottom-right of rect.
// The size is clamped to rect.
func AnchorBottomRight(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, rect.Dx())
	heightPx = clamp(heightPx, rect.Dy())
	return image.Rect(rect.Max.X-widthPx, rect.Max.Y-heightPx, rect.Max.X, rect.Max.Y)
}

// FitSquare returns the largest square that fits into rect, anchored at the top-left.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := rect.Dx()
	if rect.Dy() < size {
		size = rect.Dy()
	}
	return image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+size, rect.Min.Y+size)
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
