package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromSizeMirrorsNegativeSizes(t *testing.T) {
	assert.Equal(t, image.Rect(10, 20, 40, 60), FromSize(10, 20, 30, 40))
	assert.Equal(t, image.Rect(-20, -20, 10, 20), FromSize(10, 20, -30, -40))
	assert.True(t, FromSize(5, 5, 0, 10).Empty())
}

func TestInset(t *testing.T) {
	r := image.Rect(0, 0, 100, 50)
	assert.Equal(t, r, Inset(r, 0))
	assert.Equal(t, image.Rect(10, 10, 90, 40), Inset(r, 10))
	// Over-inset flips and is normalized rather than inverted.
	got := Inset(r, 30)
	assert.LessOrEqual(t, got.Min.Y, got.Max.Y)
}

func TestAnchorBottomRight(t *testing.T) {
	r := image.Rect(0, 0, 400, 400)
	assert.Equal(t, image.Rect(300, 350, 400, 400), AnchorBottomRight(r, 100, 50))
	assert.Equal(t, r, AnchorBottomRight(r, 1000, 1000))
	assert.True(t, AnchorBottomRight(r, -5, 10).Empty())
}

func TestFitSquare(t *testing.T) {
	assert.Equal(t, image.Rect(5, 5, 25, 25), FitSquare(image.Rect(5, 5, 45, 25)))
	assert.Equal(t, image.Rect(0, 0, 10, 10), FitSquare(image.Rect(10, 0, 0, 30)))
}
