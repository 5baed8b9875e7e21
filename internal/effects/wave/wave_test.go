package wave

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

func surface(w, h float64) *core.Surface {
	s := core.NewSurface()
	s.Configure(core.Size{W: w, H: h}, 1)
	return s
}

func TestLatticeIsCentred(t *testing.T) {
	w := New(DefaultConfig())
	require.Len(t, w.Points(), 2500)
	assert.Equal(t, Vec3{X: -5000, Z: -5000}, w.Points()[0])
	assert.Equal(t, Vec3{X: 4800, Z: 4800}, w.Points()[2499])
}

func TestStepHeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Side = 8
	w := New(cfg)
	require.True(t, w.Step(core.Frame{}))
	assert.InDelta(t, 1500, w.Points()[0].Y, 1e-9)
	// x=1 sits a quarter period in: sin = 1, cos(0) = 1.
	assert.InDelta(t, 2550, w.Points()[1].Y, 1e-9)
	assert.InDelta(t, 0.03, w.counter, 1e-12)
	assert.InDelta(t, 0.005, w.rotX, 1e-12)
}

func TestRotateAndProject(t *testing.T) {
	r := Vec3{X: 1}.Rotate(math.Pi/2, 0)
	assert.InDelta(t, 0, r.X, 1e-12)
	assert.InDelta(t, -1, r.Z, 1e-12)

	w := New(DefaultConfig())
	w.Layout(surface(400, 300))
	x, y, ok := w.Project(Vec3{Y: 100})
	require.True(t, ok)
	assert.Equal(t, 200.0, x)
	assert.Equal(t, 250.0, y)

	_, _, ok = w.Project(Vec3{Z: -100})
	assert.False(t, ok, "points on the camera plane are culled")
}

func TestColorByHeight(t *testing.T) {
	w := New(DefaultConfig())
	assert.Equal(t, color.RGBA{R: 100, G: 20, B: 155, A: 0xff}, w.Color(1500))
	assert.Equal(t, color.RGBA{R: 200, G: 20, B: 55, A: 0xff}, w.Color(3000))
}

func TestPaintLeavesTrail(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Side = 1
	cfg.Spacing = 0
	cfg.MaxAmplitude = 50
	w := New(cfg)
	s := surface(100, 200)
	w.Layout(s)
	w.Step(core.Frame{})

	c := render.NewRasterCanvas(s)
	w.Paint(c)
	px := c.Image().RGBAAt(50, 150)
	assert.InDelta(t, 100, px.R, 1)
	assert.InDelta(t, 155, px.B, 1)

	c.FillRect(0, 0, 10, 10, color.White)
	w.Paint(c)
	assert.InDelta(t, 127, c.Image().RGBAAt(5, 5).R, 2, "previous frame fades instead of clearing")

	w.SetDark(false)
	w.Paint(c)
	assert.Equal(t, uint8(0xff), c.Image().RGBAAt(5, 5).R)
}

func TestControls(t *testing.T) {
	w := New(FromMap(map[string]string{"side": "10", "speed": "0.1"}))
	assert.Len(t, w.Points(), 100)
	assert.True(t, w.SetIntParameter("side", 1))
	assert.Len(t, w.Points(), 25)
	assert.True(t, w.SetFloatParameter("trail", 2))
	assert.Equal(t, 1.0, w.cfg.Trail)
	assert.False(t, w.SetFloatParameter("side", 2))

	p, ok := w.Parameters().Lookup("speed")
	require.True(t, ok)
	assert.Equal(t, "0.1", p.Value)
}

func TestRegistered(t *testing.T) {
	e, ok := core.Lookup("wave")
	require.True(t, ok)
	assert.Equal(t, "Particle Wave", e.Info.Title)
}
