package meshgrid

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

func mesh(t *testing.T, cfg Config, w, h float64) (*Mesh, *core.Surface) {
	t.Helper()
	s := core.NewSurface()
	s.Configure(core.Size{W: w, H: h}, 1)
	m := New(cfg)
	m.Layout(s)
	return m, s
}

func TestLayoutCoversSurface(t *testing.T) {
	m, _ := mesh(t, DefaultConfig(), 100, 61)
	assert.Equal(t, 5, m.Grid().Cols)
	assert.Equal(t, 4, m.Grid().Rows)
}

func TestStepSettlesAndStopsRepainting(t *testing.T) {
	m, _ := mesh(t, DefaultConfig(), 300, 300)
	active := core.Frame{Pointer: core.PointerState{X: 150, Y: 150, Active: true}}
	require.True(t, m.Step(active), "nodes start moving toward the pointer")

	changed := true
	for i := 0; i < 2000 && changed; i++ {
		changed = m.Step(active)
	}
	assert.False(t, changed, "mesh settles under a still pointer")

	require.True(t, m.Step(core.Frame{}), "leaving releases the springs")
	for i := 0; i < 2000; i++ {
		m.Step(core.Frame{})
	}
	for _, n := range m.Grid().Nodes {
		assert.InDelta(t, 0, n.Displacement(), 1e-6)
	}
}

func TestGradient(t *testing.T) {
	p := core.PointerState{X: 0, Y: 0, Active: true}
	assert.Equal(t, 1.0, Gradient(p, core.Point{}))
	assert.InDelta(t, 0.5, Gradient(p, core.Point{X: 100}), 1e-12)
	assert.Zero(t, Gradient(p, core.Point{X: 500}))
	assert.Zero(t, Gradient(core.PointerState{}, core.Point{}), "inactive pointer highlights nothing")
}

func TestPaintDrawsDots(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrawLines = true
	m, s := mesh(t, cfg, 90, 90)
	c := render.NewRasterCanvas(s)
	m.Paint(c)
	assert.Equal(t, color.RGBA{A: 255}, c.Image().RGBAAt(15, 15))
	// A link runs between (30,30) and (60,30).
	assert.NotEqual(t, color.RGBA{A: 255}, c.Image().RGBAAt(45, 30))
	dot := c.Image().RGBAAt(30, 30)
	assert.InDelta(t, 180, float64(dot.R), 2)

	m.SetDark(false)
	m.Paint(c)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c.Image().RGBAAt(15, 15))
}

func TestSetFloatParameter(t *testing.T) {
	m, _ := mesh(t, DefaultConfig(), 100, 100)
	assert.True(t, m.SetFloatParameter("friction", 5))
	assert.Equal(t, 0.99, m.Grid().Config.Friction)
	assert.False(t, m.SetFloatParameter("spacing", 10))

	p, ok := m.Parameters().Lookup("friction")
	require.True(t, ok)
	assert.Equal(t, "0.99", p.Value)
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{"draw_lines": "1", "friction": "1.5", "radius": "90"})
	assert.True(t, c.DrawLines)
	assert.Equal(t, 0.92, c.Spring.Friction)
	assert.Equal(t, 90.0, c.Spring.Radius)
	assert.False(t, math.IsNaN(c.Spacing))
}
