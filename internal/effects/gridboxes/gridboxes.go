// Package gridboxes draws a box grid that highlights the hovered box and
// sends rippling waves of lit boxes out from every click.
package gridboxes

import (
	"image/color"
	"math"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
	"canvas-designs/internal/sim"
)

type palette struct {
	bg, line, highlight, activeLine color.Color
	wave, waveLine                  color.RGBA
}

var (
	darkTheme = palette{
		bg:         render.Hex("#111"),
		line:       render.Alpha(color.White, 0.1),
		highlight:  render.Alpha(color.RGBA{R: 100, G: 200, B: 255, A: 255}, 0.2),
		activeLine: render.Alpha(color.RGBA{R: 100, G: 200, B: 255, A: 255}, 0.5),
		wave:       color.RGBA{R: 100, G: 200, B: 255, A: 255},
		waveLine:   color.RGBA{R: 150, G: 220, B: 255, A: 255},
	}
	lightTheme = palette{
		bg:         render.Hex("#f0f0f0"),
		line:       render.Alpha(color.Black, 0.1),
		highlight:  render.Alpha(color.RGBA{G: 100, B: 255, A: 255}, 0.1),
		activeLine: render.Alpha(color.RGBA{G: 100, B: 255, A: 255}, 0.4),
		wave:       color.RGBA{G: 100, B: 255, A: 255},
		waveLine:   color.RGBA{R: 50, G: 150, B: 255, A: 255},
	}
)

// Config holds grid and ripple parameters.
type Config struct {
	BoxSize float64
	// MinReach and MaxReach bound a ripple's maximum radius in boxes.
	MinReach float64
	MaxReach float64
	Dark     bool
	Seed     int64
	Ripple   sim.RippleConfig
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{BoxSize: 40, MinReach: 2, MaxReach: 5, Dark: true, Seed: 1, Ripple: sim.DefaultRippleConfig()}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.BoxSize = core.ParseFloat(cfg, "box_size", c.BoxSize, 4, 400)
	c.MinReach = core.ParseFloat(cfg, "min_reach", c.MinReach, 0.5, 50)
	c.MaxReach = core.ParseFloat(cfg, "max_reach", c.MaxReach, c.MinReach, 50)
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	c.Seed = int64(core.ParseInt(cfg, "seed", int(c.Seed), math.MinInt))
	c.Ripple.Speed = core.ParseFloat(cfg, "speed", c.Ripple.Speed, 0.1, 100)
	c.Ripple.Width = core.ParseFloat(cfg, "wave_width", c.Ripple.Width, 1, 400)
	c.Ripple.Strength = core.ParseFloat(cfg, "strength", c.Ripple.Strength, 0, 1)
	return c
}

// Boxes owns the ripple field and the hover state.
type Boxes struct {
	cfg        Config
	size       core.Size
	cols, rows int
	pointer    core.PointerState
	field      *sim.RippleField
	rng        *core.RNG
}

// New creates the effect.
func New(cfg Config) *Boxes {
	return &Boxes{cfg: cfg, field: sim.NewRippleField(cfg.Ripple), rng: core.NewRNG(cfg.Seed)}
}

// Name returns the effect identifier.
func (b *Boxes) Name() string { return "gridboxes" }

// Field exposes the live ripples.
func (b *Boxes) Field() *sim.RippleField { return b.field }

// SetDark switches palettes.
func (b *Boxes) SetDark(dark bool) { b.cfg.Dark = dark }

// Layout recomputes the grid extent.
func (b *Boxes) Layout(s *core.Surface) {
	b.size = s.Logical()
	b.cols = int(math.Ceil(b.size.W / b.cfg.BoxSize))
	b.rows = int(math.Ceil(b.size.H / b.cfg.BoxSize))
}

// Step spawns a ripple per click and ages the field.
func (b *Boxes) Step(f core.Frame) bool {
	b.pointer = f.Pointer
	for _, c := range f.Clicks {
		b.field.Spawn(c, b.cfg.BoxSize*b.rng.Range(b.cfg.MinReach, b.cfg.MaxReach))
	}
	return b.field.Step()
}

// BoxAt returns the box under an active pointer.
func (b *Boxes) BoxAt(p core.PointerState) (col, row int, ok bool) {
	if !p.Active {
		return 0, 0, false
	}
	col = int(math.Floor(p.X / b.cfg.BoxSize))
	row = int(math.Floor(p.Y / b.cfg.BoxSize))
	return col, row, col >= 0 && col < b.cols && row >= 0 && row < b.rows
}

// BoxOpacity is the clamped ripple opacity at the centre of a box.
func (b *Boxes) BoxOpacity(col, row int) float64 {
	s := b.cfg.BoxSize
	return b.field.Opacity(core.Point{X: float64(col)*s + s/2, Y: float64(row)*s + s/2})
}

// Paint draws the grid, the hovered box and lit ripple boxes.
func (b *Boxes) Paint(c core.Canvas) {
	pal := lightTheme
	if b.cfg.Dark {
		pal = darkTheme
	}
	s := b.cfg.BoxSize
	w, h := b.size.W, b.size.H
	c.Clear(pal.bg)
	for i := 0; i <= b.cols; i++ {
		x := float64(i) * s
		c.StrokeLine(x, 0, x, h, 1, pal.line)
	}
	for j := 0; j <= b.rows; j++ {
		y := float64(j) * s
		c.StrokeLine(0, y, w, y, 1, pal.line)
	}

	if col, row, ok := b.BoxAt(b.pointer); ok {
		x, y := float64(col)*s, float64(row)*s
		c.FillRect(x, y, s, s, pal.highlight)
		c.StrokeRect(x, y, s, s, 1, pal.activeLine)
	}

	if b.field.Len() == 0 {
		return
	}
	for i := 0; i < b.cols; i++ {
		for j := 0; j < b.rows; j++ {
			op := b.BoxOpacity(i, j)
			if op <= 0 {
				continue
			}
			x, y := float64(i)*s, float64(j)*s
			c.FillRect(x, y, s, s, render.Alpha(pal.wave, op))
			c.StrokeRect(x, y, s, s, 1, render.Alpha(pal.waveLine, op*0.5))
		}
	}
}

// Parameters returns the current configuration.
func (b *Boxes) Parameters() core.ParameterSnapshot {
	r := b.field.Config
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.FloatParam("box_size", "Box size", b.cfg.BoxSize),
				core.IntParam("live_ripples", "Live ripples", b.field.Len()),
			},
		},
		{
			Name: "Ripple",
			Params: []core.Parameter{
				core.FloatParam("speed", "Speed", r.Speed),
				core.FloatParam("wave_width", "Wave width", r.Width),
				core.FloatParam("strength", "Strength", r.Strength),
				core.FloatParam("min_reach", "Min reach", b.cfg.MinReach),
				core.FloatParam("max_reach", "Max reach", b.cfg.MaxReach),
			},
		},
	}}
}

// ParameterControls lists the HUD controls.
func (b *Boxes) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "speed", Label: "Speed", Type: core.ParamTypeFloat, Step: 0.5, Min: 0.5, Max: 30, HasMin: true, HasMax: true},
		{Key: "strength", Label: "Strength", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a ripple parameter. Live ripples pick it up on
// the next tick.
func (b *Boxes) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(b.ParameterControls(), key)
	if !ok {
		return false
	}
	switch key {
	case "speed":
		b.field.Config.Speed = ctrl.Clamp(v)
	case "strength":
		b.field.Config.Strength = ctrl.Clamp(v)
	}
	b.cfg.Ripple = b.field.Config
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "gridboxes",
		Title:       "Grid Boxes",
		Description: "Box grid with hover highlight and click ripples",
		Order:       30,
	}, func(cfg map[string]string) core.Effect {
		return New(FromMap(cfg))
	})
}
