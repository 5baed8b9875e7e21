// Package rings draws a dot grid whose dots swell and take on a palette
// colour in concentric rings around the pointer.
package rings

import (
	"image/color"
	"math"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

var (
	lightPalette = render.Palette(
		"#1a1a1a", "#304ffe", "#00b8d4", "#00c853", "#ffd600",
		"#ff9100", "#ff1744", "#7b1fa2", "#455a64", "#9e9e9e",
	)
	darkPalette = render.Palette(
		"#e0e0e0", "#82b1ff", "#80d8ff", "#69f0ae", "#ffff8d",
		"#ffd180", "#ff8a80", "#ea80fc", "#90a4ae", "#bdbdbd",
	)
)

// minRingRadius is the smallest radius a dot inside a ring is drawn at.
const minRingRadius = 1.5

// Config holds the dot grid layout.
type Config struct {
	BaseRadius float64
	Spacing    float64
	Padding    float64
	MaxRings   int
	Dark       bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{BaseRadius: 1.5, Spacing: 20, Padding: 20, MaxRings: 10}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.BaseRadius = core.ParseFloat(cfg, "base_radius", c.BaseRadius, 0.5, 20)
	c.Spacing = core.ParseFloat(cfg, "spacing", c.Spacing, 1, 200)
	c.Padding = core.ParseFloat(cfg, "padding", c.Padding, 0, 500)
	c.MaxRings = core.ParseInt(cfg, "max_rings", c.MaxRings, 1)
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	return c
}

// Pitch is the distance between neighbouring dot centres.
func (c Config) Pitch() float64 { return 2*c.BaseRadius + c.Spacing }

// Rings is purely reactive: nothing moves unless the pointer does, so Step
// never asks for a repaint and idle frames are skipped.
type Rings struct {
	cfg     Config
	size    core.Size
	points  []core.Point
	pointer core.PointerState
}

// New creates the effect.
func New(cfg Config) *Rings {
	return &Rings{cfg: cfg}
}

// Name returns the effect identifier.
func (r *Rings) Name() string { return "rings" }

// Points exposes the dot centres.
func (r *Rings) Points() []core.Point { return r.points }

// SetDark switches palettes.
func (r *Rings) SetDark(dark bool) { r.cfg.Dark = dark }

// Layout rebuilds the padded dot grid.
func (r *Rings) Layout(s *core.Surface) {
	r.size = s.Logical()
	r.layout()
}

func (r *Rings) layout() {
	r.points = r.points[:0]
	pitch := r.cfg.Pitch()
	start := r.cfg.Padding + r.cfg.BaseRadius
	endX := r.size.W - start
	endY := r.size.H - start
	for x := start; x <= endX+0.001; x += pitch {
		for y := start; y <= endY+0.001; y += pitch {
			r.points = append(r.points, core.Point{X: x, Y: y})
		}
	}
}

// Step records the pointer. Input events already mark the loop dirty.
func (r *Rings) Step(f core.Frame) bool {
	r.pointer = f.Pointer
	return false
}

// Ring returns the ring index of a dot and the radius it is drawn at.
// ok is false when the pointer is inactive or the dot is beyond MaxRings.
func (r *Rings) Ring(p core.Point) (ring int, radius float64, ok bool) {
	d := r.pointer.DistanceTo(p.X, p.Y)
	if math.IsInf(d, 1) {
		return 0, r.cfg.BaseRadius, false
	}
	ring = int(math.Floor(d / r.cfg.Pitch()))
	if ring >= r.cfg.MaxRings {
		return ring, r.cfg.BaseRadius, false
	}
	return ring, math.Max(float64(r.cfg.MaxRings-ring)/1.6, minRingRadius), true
}

func (r *Rings) palette() []color.RGBA {
	if r.cfg.Dark {
		return darkPalette
	}
	return lightPalette
}

// Paint draws every dot.
func (r *Rings) Paint(c core.Canvas) {
	bg := render.Hex("#ffffff")
	if r.cfg.Dark {
		bg = render.Hex("#0b0b0b")
	}
	c.Clear(bg)
	pal := r.palette()
	for _, p := range r.points {
		ring, radius, ok := r.Ring(p)
		col := pal[0]
		if ok || ring > 0 {
			col = pal[min(ring, len(pal)-1)]
		}
		c.FillCircle(p.X, p.Y, radius, col)
	}
}

// Parameters returns the current configuration.
func (r *Rings) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Grid",
		Params: []core.Parameter{
			core.FloatParam("base_radius", "Base radius", r.cfg.BaseRadius),
			core.FloatParam("spacing", "Spacing", r.cfg.Spacing),
			core.FloatParam("padding", "Padding", r.cfg.Padding),
			core.IntParam("max_rings", "Max rings", r.cfg.MaxRings),
			core.BoolParam("dark", "Dark", r.cfg.Dark),
		},
	}}}
}

// ParameterControls lists the HUD controls.
func (r *Rings) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "spacing", Label: "Spacing", Type: core.ParamTypeFloat, Step: 2, Min: 4, Max: 80, HasMin: true, HasMax: true},
		{Key: "max_rings", Label: "Max rings", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 20, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a float control and re-lays the grid.
func (r *Rings) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(r.ParameterControls(), key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	r.cfg.Spacing = ctrl.Clamp(v)
	r.layout()
	return true
}

// SetIntParameter updates an integer control.
func (r *Rings) SetIntParameter(key string, v int) bool {
	ctrl, ok := core.FindControl(r.ParameterControls(), key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	r.cfg.MaxRings = int(ctrl.Clamp(float64(v)))
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "rings",
		Title:       "Canvas Rings",
		Description: "Dot grid with palette rings around the cursor",
		Order:       10,
	}, func(cfg map[string]string) core.Effect {
		return New(FromMap(cfg))
	})
}
