package gridboxes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

func boxes(t *testing.T, w, h float64) (*Boxes, *core.Surface) {
	t.Helper()
	s := core.NewSurface()
	s.Configure(core.Size{W: w, H: h}, 1)
	b := New(DefaultConfig())
	b.Layout(s)
	return b, s
}

func TestClickSpawnsRippleThatPrunesItself(t *testing.T) {
	b, _ := boxes(t, 400, 400)
	require.False(t, b.Step(core.Frame{}), "no ripples, nothing to repaint")

	require.True(t, b.Step(core.Frame{Clicks: []core.Point{{X: 60, Y: 60}}}))
	require.Equal(t, 1, b.Field().Len())
	r := b.Field().Ripples[0]
	assert.GreaterOrEqual(t, r.MaxRadius, 80.0)
	assert.Less(t, r.MaxRadius, 200.0)
	assert.Greater(t, b.BoxOpacity(1, 1), 0.0)

	ticks := 1
	for b.Field().Len() > 0 {
		b.Step(core.Frame{})
		ticks++
		require.Less(t, ticks, 100)
	}
	assert.Equal(t, b.Field().MaxAge(r)+1, ticks)
	assert.False(t, b.Step(core.Frame{}))
}

func TestOpacityStaysClampedUnderManyClicks(t *testing.T) {
	b, _ := boxes(t, 400, 400)
	clicks := make([]core.Point, 8)
	for i := range clicks {
		clicks[i] = core.Point{X: 180, Y: 180}
	}
	b.Step(core.Frame{Clicks: clicks})
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			op := b.BoxOpacity(i, j)
			assert.GreaterOrEqual(t, op, 0.0)
			assert.LessOrEqual(t, op, 1.0)
		}
	}
	assert.Equal(t, 1.0, b.BoxOpacity(4, 4))
}

func TestBoxAt(t *testing.T) {
	b, _ := boxes(t, 100, 100)
	col, row, ok := b.BoxAt(core.PointerState{X: 45, Y: 85, Active: true})
	assert.True(t, ok)
	assert.Equal(t, 1, col)
	assert.Equal(t, 2, row)

	_, _, ok = b.BoxAt(core.PointerState{X: 45, Y: 85})
	assert.False(t, ok, "inactive pointer hovers nothing")
	_, _, ok = b.BoxAt(core.PointerState{X: -1, Y: 5, Active: true})
	assert.False(t, ok)
}

func TestPaintHighlightsHoveredBox(t *testing.T) {
	b, s := boxes(t, 120, 120)
	c := render.NewRasterCanvas(s)
	b.Step(core.Frame{Pointer: core.PointerState{X: 60, Y: 60, Active: true}})
	b.Paint(c)
	hovered := c.Image().RGBAAt(60, 60)
	other := c.Image().RGBAAt(20, 20)
	assert.NotEqual(t, hovered, other)
	assert.Greater(t, hovered.B, other.B)

	b.SetDark(false)
	b.Step(core.Frame{})
	b.Paint(c)
	assert.Equal(t, render.Hex("#f0f0f0"), c.Image().RGBAAt(20, 20))
	assert.Equal(t, c.Image().RGBAAt(60, 60), c.Image().RGBAAt(20, 20))
}

func TestSetFloatParameterUpdatesField(t *testing.T) {
	b, _ := boxes(t, 100, 100)
	assert.True(t, b.SetFloatParameter("speed", 100))
	assert.Equal(t, 30.0, b.Field().Config.Speed)
	assert.False(t, b.SetFloatParameter("box_size", 10))
	p, ok := b.Parameters().Lookup("speed")
	require.True(t, ok)
	assert.Equal(t, "30", p.Value)
}
