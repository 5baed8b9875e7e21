// Package wave projects a rotating lattice of particles riding a standing
// sine wave.
package wave

import (
	"image/color"
	"math"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

// Config holds the lattice and camera parameters.
type Config struct {
	Side         int
	Spacing      float64
	FOV          float64
	Distance     float64
	MaxAmplitude float64
	ParticleSize float64
	// Trail is the opacity of the background wash painted each frame.
	Trail float64
	Speed float64
	Spin  float64
	Dark  bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Side:         50,
		Spacing:      200,
		FOV:          100,
		Distance:     100,
		MaxAmplitude: 1500,
		ParticleSize: 2,
		Trail:        0.5,
		Speed:        0.03,
		Spin:         0.005,
		Dark:         true,
	}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Side = core.ParseInt(cfg, "side", c.Side, 2)
	c.Spacing = core.ParseFloat(cfg, "spacing", c.Spacing, 1, 2000)
	c.FOV = core.ParseFloat(cfg, "fov", c.FOV, 1, 1000)
	c.Distance = core.ParseFloat(cfg, "distance", c.Distance, 1, 10000)
	c.MaxAmplitude = core.ParseFloat(cfg, "amplitude", c.MaxAmplitude, 1, 10000)
	c.ParticleSize = core.ParseFloat(cfg, "particle_size", c.ParticleSize, 0.5, 20)
	c.Trail = core.ParseFloat(cfg, "trail", c.Trail, 0.01, 1)
	c.Speed = core.ParseFloat(cfg, "speed", c.Speed, 0, 1)
	c.Spin = core.ParseFloat(cfg, "spin", c.Spin, 0, 0.1)
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	return c
}

// Vec3 is a point in world space.
type Vec3 struct{ X, Y, Z float64 }

// Rotate applies the lattice's X then Y rotation.
func (v Vec3) Rotate(rx, ry float64) Vec3 {
	sx, cx := math.Sincos(rx)
	v = Vec3{X: v.Z*sx + v.X*cx, Y: v.Y, Z: v.Z*cx - v.X*sx}
	sy, cy := math.Sincos(ry)
	return Vec3{X: v.X, Y: v.Y*cy - v.Z*sy, Z: v.Y*sy + v.Z*cy}
}

// Wave animates continuously; it ignores the pointer.
type Wave struct {
	cfg     Config
	size    core.Size
	points  []Vec3
	counter float64
	rotX    float64
	rotY    float64
	fresh   bool
}

// New creates the effect.
func New(cfg Config) *Wave {
	w := &Wave{cfg: cfg}
	w.build()
	return w
}

// Name returns the effect identifier.
func (w *Wave) Name() string { return "wave" }

// SetDark switches the trail colour.
func (w *Wave) SetDark(dark bool) {
	w.cfg.Dark = dark
	w.fresh = true
}

func (w *Wave) build() {
	n := w.cfg.Side
	w.points = make([]Vec3, n*n)
	start := -float64(n) * w.cfg.Spacing / 2
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			w.points[z*n+x] = Vec3{X: start + float64(x)*w.cfg.Spacing, Z: start + float64(z)*w.cfg.Spacing}
		}
	}
}

// Points exposes the lattice in world space.
func (w *Wave) Points() []Vec3 { return w.points }

// Layout records the surface size. The next paint starts from a clean
// background.
func (w *Wave) Layout(s *core.Surface) {
	w.size = s.Logical()
	w.fresh = true
}

// Step recomputes heights and advances the phase and rotation.
func (w *Wave) Step(core.Frame) bool {
	n := w.cfg.Side
	a := w.cfg.MaxAmplitude
	amp := a - a*0.3
	for i := range w.points {
		x, z := i%n, i/n
		xf := math.Sin(float64(x)/float64(n)*4*math.Pi + w.counter)
		zf := math.Cos(float64(z)/float64(n)*4*math.Pi + w.counter)
		w.points[i].Y = a + xf*zf*amp
	}
	w.counter += w.cfg.Speed
	w.rotX += w.cfg.Spin
	w.rotY += w.cfg.Spin
	return true
}

// Project maps a world point to logical screen space. ok is false for
// points at or behind the camera plane.
func (w *Wave) Project(v Vec3) (x, y float64, ok bool) {
	r := v.Rotate(w.rotX, w.rotY)
	depth := w.cfg.Distance + r.Z
	if depth <= 0 {
		return 0, 0, false
	}
	f := w.cfg.FOV / depth
	return r.X*f + w.size.W/2, r.Y*f + w.size.H/2, true
}

// Color returns a particle's colour for its height.
func (w *Wave) Color(y float64) color.RGBA {
	frac := y / w.cfg.MaxAmplitude
	ch := func(v float64) uint8 { return uint8(math.Max(0, math.Min(255, math.Floor(v)))) }
	return color.RGBA{R: ch(frac * 100), G: 20, B: ch(255 - frac*100), A: 0xff}
}

func (w *Wave) background() color.RGBA {
	if w.cfg.Dark {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// Paint washes the previous frame with the trail colour and draws every
// visible particle.
func (w *Wave) Paint(c core.Canvas) {
	bg := w.background()
	if w.fresh {
		c.Clear(bg)
		w.fresh = false
	}
	c.FillRect(0, 0, w.size.W, w.size.H, render.Alpha(bg, w.cfg.Trail))
	s := w.cfg.ParticleSize
	for _, p := range w.points {
		x, y, ok := w.Project(p)
		if !ok || x < -s || y < -s || x > w.size.W || y > w.size.H {
			continue
		}
		c.FillRect(x, y, s, s, w.Color(p.Y))
	}
}

// Parameters returns the current configuration.
func (w *Wave) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Wave",
		Params: []core.Parameter{
			core.IntParam("side", "Side", w.cfg.Side),
			core.FloatParam("speed", "Speed", w.cfg.Speed),
			core.FloatParam("spin", "Spin", w.cfg.Spin),
			core.FloatParam("trail", "Trail", w.cfg.Trail),
		},
	}}}
}

// ParameterControls lists the HUD controls.
func (w *Wave) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "speed", Label: "Speed", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 0.2, HasMin: true, HasMax: true},
		{Key: "spin", Label: "Spin", Type: core.ParamTypeFloat, Step: 0.001, Min: 0, Max: 0.05, HasMin: true, HasMax: true},
		{Key: "trail", Label: "Trail", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, Max: 1, HasMin: true, HasMax: true},
		{Key: "side", Label: "Side", Type: core.ParamTypeInt, Step: 5, Min: 5, Max: 100, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates speed, spin or trail.
func (w *Wave) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(w.ParameterControls(), key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	v = ctrl.Clamp(v)
	switch key {
	case "speed":
		w.cfg.Speed = v
	case "spin":
		w.cfg.Spin = v
	case "trail":
		w.cfg.Trail = v
	}
	return true
}

// SetIntParameter resizes the lattice.
func (w *Wave) SetIntParameter(key string, v int) bool {
	ctrl, ok := core.FindControl(w.ParameterControls(), key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	w.cfg.Side = int(ctrl.Clamp(float64(v)))
	w.build()
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "wave",
		Title:       "Particle Wave",
		Description: "Rotating lattice on a standing sine wave",
		Order:       70,
	}, func(cfg map[string]string) core.Effect {
		return New(FromMap(cfg))
	})
}
