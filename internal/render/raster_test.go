package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-designs/internal/core"
)

var red = color.RGBA{R: 255, A: 255}

func newSurface(t *testing.T, w, h, ratio float64) *core.Surface {
	t.Helper()
	s := core.NewSurface()
	s.Configure(core.Size{W: w, H: h}, ratio)
	return s
}

func assertNear(t *testing.T, want, got color.RGBA) {
	t.Helper()
	d := func(a, b uint8) float64 { return math.Abs(float64(a) - float64(b)) }
	if d(want.R, got.R) > 2 || d(want.G, got.G) > 2 || d(want.B, got.B) > 2 || d(want.A, got.A) > 2 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRasterCanvasScalesLogicalCoordinates(t *testing.T) {
	c := NewRasterCanvas(newSurface(t, 10, 10, 2))
	require.Equal(t, image.Rect(0, 0, 20, 20), c.Image().Bounds())
	assert.Equal(t, core.Size{W: 10, H: 10}, c.Size())

	c.FillRect(0, 0, 5, 5, red)
	assertNear(t, red, c.Image().RGBAAt(0, 0))
	assertNear(t, red, c.Image().RGBAAt(9, 9))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(10, 10))
}

func TestRasterCanvasClearReplacesPixels(t *testing.T) {
	c := NewRasterCanvas(newSurface(t, 4, 4, 1))
	c.FillRect(0, 0, 4, 4, red)
	c.Clear(color.Transparent)
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(2, 2))
	c.Clear(color.White)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c.Image().RGBAAt(3, 3))
}

func TestRasterCanvasClipsOffscreenShapes(t *testing.T) {
	c := NewRasterCanvas(newSurface(t, 8, 8, 1))
	c.FillCircle(-100, -100, 5, red)
	c.FillRect(20, 20, 4, 4, red)
	c.StrokeLine(-10, -10, -5, -5, 2, red)
	c.FillRect(math.NaN(), 0, 4, 4, red)
	for _, v := range c.Image().Pix {
		if v != 0 {
			t.Fatalf("expected untouched canvas, found non-zero pixel data")
		}
	}

	// A circle straddling the corner only paints the visible quarter.
	c.FillCircle(0, 0, 4, red)
	assertNear(t, red, c.Image().RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(7, 7))
}

func TestRasterCanvasCircleAndLine(t *testing.T) {
	c := NewRasterCanvas(newSurface(t, 20, 20, 1))
	c.FillCircle(10, 10, 5, red)
	assertNear(t, red, c.Image().RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(1, 1))

	c.Clear(color.Transparent)
	c.StrokeLine(0, 5.5, 20, 5.5, 1, red)
	assertNear(t, red, c.Image().RGBAAt(10, 5))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(10, 8))
}

func TestRasterCanvasStrokeRectLeavesInteriorEmpty(t *testing.T) {
	c := NewRasterCanvas(newSurface(t, 20, 20, 1))
	c.StrokeRect(2, 2, 16, 16, 2, red)
	assertNear(t, red, c.Image().RGBAAt(2, 10))
	assertNear(t, red, c.Image().RGBAAt(10, 17))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(10, 10))
}

func TestRasterCanvasDrawImageWithAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	c := NewRasterCanvas(newSurface(t, 8, 8, 1))
	c.DrawImage(src, 0, 0, 4, 4, 1)
	assertNear(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c.Image().RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(6, 6))

	c.Clear(color.Transparent)
	c.DrawImage(src, 0, 0, 8, 8, 0.5)
	got := c.Image().RGBAAt(4, 4)
	assert.InDelta(t, 128, float64(got.A), 2)
}

func TestRasterCanvasDrawField(t *testing.T) {
	g := core.NewFieldGrid(2, 1)
	g.Cells()[1] = 1
	c := NewRasterCanvas(newSurface(t, 8, 4, 1))
	c.DrawField(g, 0, 0, 8, 4, color.RGBA{A: 255}, red)
	assertNear(t, color.RGBA{A: 255}, c.Image().RGBAAt(0, 2))
	assertNear(t, red, c.Image().RGBAAt(7, 2))
}

func TestRasterCanvasIgnoresDrawsAfterDispose(t *testing.T) {
	c := NewRasterCanvas(newSurface(t, 4, 4, 1))
	c.Dispose()
	require.Nil(t, c.Image())
	c.Clear(color.White)
	c.FillRect(0, 0, 4, 4, red)
	c.FillCircle(2, 2, 1, red)
	c.StrokeLine(0, 0, 4, 4, 1, red)
	c.DrawImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), 0, 0, 1, 1, 1)
	c.DrawField(core.NewFieldGrid(1, 1), 0, 0, 1, 1, red, red)
}

func TestRasterFactoryMatchesBackingSize(t *testing.T) {
	s := newSurface(t, 0, 0, 3)
	c, err := RasterFactory(s)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), c.(*RasterCanvas).Image().Bounds())
}

func TestRasterCanvasDrawText(t *testing.T) {
	c := NewRasterCanvas(newSurface(t, 40, 20, 1))
	var _ core.TextCanvas = c
	c.DrawText("Hi", 2, 15, red)

	inked := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if c.Image().RGBAAt(x, y).R > 0 {
				inked++
				assert.Less(t, x, 2+2*7, "two glyphs are 14px wide")
			}
		}
	}
	assert.Positive(t, inked)

	c.Dispose()
	c.DrawText("ignored", 0, 10, red)
}
