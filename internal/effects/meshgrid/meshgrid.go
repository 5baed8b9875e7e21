// Package meshgrid renders a lattice of dots on damped springs that bulge
// toward the pointer.
package meshgrid

import (
	"image/color"
	"math"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
	"canvas-designs/internal/sim"
)

const (
	// gradientRadius is the pointer distance at which dot highlighting fades out.
	gradientRadius = 200
	// settleSpeed is the node speed below which the mesh counts as at rest.
	settleSpeed = 1e-3
	lineWidth   = 0.5
)

// Config holds mesh parameters.
type Config struct {
	Spacing   float64
	DotRadius float64
	DrawLines bool
	Dark      bool
	Spring    sim.SpringConfig
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Spacing: 30, DotRadius: 2, Dark: true, Spring: sim.DefaultSpringConfig()}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Spacing = core.ParseFloat(cfg, "spacing", c.Spacing, 4, 400)
	c.DotRadius = core.ParseFloat(cfg, "dot_radius", c.DotRadius, 0.5, 20)
	c.DrawLines = core.ParseBool(cfg, "draw_lines", c.DrawLines)
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	c.Spring.Radius = core.ParseFloat(cfg, "radius", c.Spring.Radius, 1, 2000)
	c.Spring.MaxDistortion = core.ParseFloat(cfg, "max_distortion", c.Spring.MaxDistortion, 0, 200)
	c.Spring.Dampening = core.ParseFloat(cfg, "dampening", c.Spring.Dampening, 0.001, 1)
	c.Spring.Friction = core.ParseFloat(cfg, "friction", c.Spring.Friction, 0, 0.999)
	return c
}

// Mesh owns a SpringGrid sized to the surface.
type Mesh struct {
	cfg     Config
	size    core.Size
	grid    *sim.SpringGrid
	pointer core.PointerState
}

// New creates the effect.
func New(cfg Config) *Mesh {
	return &Mesh{cfg: cfg, grid: sim.NewSpringGrid(cfg.Spring)}
}

// Name returns the effect identifier.
func (m *Mesh) Name() string { return "meshgrid" }

// Grid exposes the spring lattice.
func (m *Mesh) Grid() *sim.SpringGrid { return m.grid }

// SetDark switches palettes.
func (m *Mesh) SetDark(dark bool) { m.cfg.Dark = dark }

// Layout rebuilds the lattice for the new size.
func (m *Mesh) Layout(s *core.Surface) {
	m.size = s.Logical()
	m.grid.LayoutFor(m.size, m.cfg.Spacing)
}

// Step advances the springs. The mesh repaints until every node settles.
func (m *Mesh) Step(f core.Frame) bool {
	m.pointer = f.Pointer
	return m.grid.Step(f.Pointer) > settleSpeed
}

// Gradient is the highlight of a dot at pos: 1 under the pointer falling
// to 0 at gradientRadius, and 0 when the pointer is inactive.
func Gradient(p core.PointerState, pos core.Point) float64 {
	return 1 - math.Min(1, p.DistanceTo(pos.X, pos.Y)/gradientRadius)
}

func (m *Mesh) dotColor(g float64) color.RGBA {
	if m.cfg.Dark {
		base := math.Floor(180 + g*60)
		return color.RGBA{R: uint8(base), G: uint8(base), B: uint8(math.Min(255, base+20)), A: 0xff}
	}
	base := math.Floor(40 + g*200)
	return color.RGBA{R: uint8(base), G: uint8(base), B: uint8(math.Min(255, base+40)), A: 0xff}
}

func (m *Mesh) lineColor(g float64) color.NRGBA {
	if m.cfg.Dark {
		return render.Alpha(color.RGBA{R: 200, G: 200, B: 240, A: 0xff}, 0.15+g*0.2)
	}
	return render.Alpha(color.RGBA{R: 100, G: 100, B: 140, A: 0xff}, 0.1+g*0.2)
}

// Paint draws nodes at their current positions and, optionally, links to
// the right and lower neighbours that are still close.
func (m *Mesh) Paint(c core.Canvas) {
	if m.cfg.Dark {
		c.Clear(color.Black)
	} else {
		c.Clear(color.White)
	}
	nodes := m.grid.Nodes
	cols := m.grid.Cols
	maxLink := m.cfg.Spacing * 1.5
	for i := range nodes {
		n := nodes[i]
		g := Gradient(m.pointer, n.Pos)
		if m.cfg.DrawLines {
			col := m.lineColor(g)
			if i+1 < len(nodes) && (i+1)%cols != 0 && n.Pos.Dist(nodes[i+1].Pos) < maxLink {
				next := nodes[i+1].Pos
				c.StrokeLine(n.Pos.X, n.Pos.Y, next.X, next.Y, lineWidth, col)
			}
			if i+cols < len(nodes) && n.Pos.Dist(nodes[i+cols].Pos) < maxLink {
				below := nodes[i+cols].Pos
				c.StrokeLine(n.Pos.X, n.Pos.Y, below.X, below.Y, lineWidth, col)
			}
		}
		c.FillCircle(n.Pos.X, n.Pos.Y, m.cfg.DotRadius+g*1.5, m.dotColor(g))
	}
}

// Parameters returns the current configuration.
func (m *Mesh) Parameters() core.ParameterSnapshot {
	sp := m.grid.Config
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.FloatParam("spacing", "Spacing", m.cfg.Spacing),
				core.FloatParam("dot_radius", "Dot radius", m.cfg.DotRadius),
				core.BoolParam("draw_lines", "Draw lines", m.cfg.DrawLines),
			},
		},
		{
			Name: "Spring",
			Params: []core.Parameter{
				core.FloatParam("radius", "Influence radius", sp.Radius),
				core.FloatParam("max_distortion", "Max distortion", sp.MaxDistortion),
				core.FloatParam("dampening", "Dampening", sp.Dampening),
				core.FloatParam("friction", "Friction", sp.Friction),
			},
		},
	}}
}

// ParameterControls lists the HUD controls.
func (m *Mesh) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "max_distortion", Label: "Max distortion", Type: core.ParamTypeFloat, Step: 1, Min: 0, Max: 60, HasMin: true, HasMax: true},
		{Key: "dampening", Label: "Dampening", Type: core.ParamTypeFloat, Step: 0.01, Min: 0.01, Max: 0.5, HasMin: true, HasMax: true},
		{Key: "friction", Label: "Friction", Type: core.ParamTypeFloat, Step: 0.01, Min: 0.5, Max: 0.99, HasMin: true, HasMax: true},
		{Key: "radius", Label: "Influence radius", Type: core.ParamTypeFloat, Step: 10, Min: 20, Max: 600, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a spring parameter in place.
func (m *Mesh) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(m.ParameterControls(), key)
	if !ok {
		return false
	}
	v = ctrl.Clamp(v)
	sp := &m.grid.Config
	switch key {
	case "max_distortion":
		sp.MaxDistortion = v
	case "dampening":
		sp.Dampening = v
	case "friction":
		sp.Friction = v
	case "radius":
		sp.Radius = v
	}
	m.cfg.Spring = *sp
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "meshgrid",
		Title:       "Mesh Grid",
		Description: "Spring mesh that bulges toward the cursor",
		Order:       20,
	}, func(cfg map[string]string) core.Effect {
		return New(FromMap(cfg))
	})
}
