// Package ghost leaves a fading glow trail behind a lagging cursor, with an
// optional grain texture fetched at start-up.
package ghost

import (
	"context"
	"image"
	"image/color"
	"math"

	"go.uber.org/zap"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

// DefaultNoiseURL is the grain texture the design was drawn with.
const DefaultNoiseURL = "https://s3-us-west-2.amazonaws.com/s.cdpn.io/982762/noise.png"

// Config holds trail parameters.
type Config struct {
	// Downsample is the number of logical pixels per trail cell.
	Downsample int
	Decay      float64
	// Smoothing is the fraction of the remaining distance the cursor
	// covers each tick.
	Smoothing float64
	// Radius is the stamp radius in logical pixels.
	Radius   float64
	Strength float64
	NoiseURL string
	Grain    float64
	Dark     bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Downsample: 5,
		Decay:      0.95,
		Smoothing:  0.1,
		Radius:     40,
		Strength:   0.5,
		Grain:      0.12,
		Dark:       true,
	}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Downsample = core.ParseInt(cfg, "downsample", c.Downsample, 1)
	c.Decay = core.ParseFloat(cfg, "decay", c.Decay, 0, 0.999)
	c.Smoothing = core.ParseFloat(cfg, "smoothing", c.Smoothing, 0.01, 1)
	c.Radius = core.ParseFloat(cfg, "radius", c.Radius, 1, 1000)
	c.Strength = core.ParseFloat(cfg, "strength", c.Strength, 0, 1)
	c.Grain = core.ParseFloat(cfg, "grain", c.Grain, 0, 1)
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	if v, ok := cfg["noise_url"]; ok {
		c.NoiseURL = v
	}
	return c
}

// Ghost owns the trail field and the smoothed cursor.
type Ghost struct {
	cfg    Config
	size   core.Size
	trail  *core.FieldGrid
	cursor core.Point
	placed bool

	noise   image.Image
	noiseCh chan image.Image
}

// New creates the effect.
func New(cfg Config) *Ghost {
	return &Ghost{cfg: cfg, trail: core.NewFieldGrid(1, 1), noiseCh: make(chan image.Image, 1)}
}

// Name returns the effect identifier.
func (g *Ghost) Name() string { return "ghost" }

// Trail exposes the intensity field.
func (g *Ghost) Trail() *core.FieldGrid { return g.trail }

// Cursor returns the smoothed cursor position.
func (g *Ghost) Cursor() core.Point { return g.cursor }

// HasNoise reports whether the grain texture arrived.
func (g *Ghost) HasNoise() bool { return g.noise != nil }

// SetDark switches palettes.
func (g *Ghost) SetDark(dark bool) { g.cfg.Dark = dark }

// Init starts the one-shot texture fetch. A failed fetch only costs the
// grain.
func (g *Ghost) Init(_ context.Context, host core.Host) error {
	if g.cfg.NoiseURL == "" {
		return nil
	}
	log := host.Log().With(zap.String("url", g.cfg.NoiseURL))
	if host.Textures == nil {
		log.Warn("no texture loader, rendering without grain")
		return nil
	}
	host.Go(func(ctx context.Context) error {
		img, err := host.Textures.Load(ctx, g.cfg.NoiseURL)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("noise texture unavailable, rendering without grain", zap.Error(err))
			}
			return nil
		}
		select {
		case g.noiseCh <- img:
		default:
		}
		return nil
	})
	return nil
}

// Layout resizes the trail to the surface.
func (g *Ghost) Layout(s *core.Surface) {
	g.size = s.Logical()
	d := float64(g.cfg.Downsample)
	g.trail.Resize(int(math.Ceil(g.size.W/d)), int(math.Ceil(g.size.H/d)))
	if !g.placed {
		g.cursor = core.Point{X: g.size.W / 2, Y: g.size.H / 2}
	}
}

// Step eases the cursor toward the pointer, stamps it into the trail and
// decays the trail. It asks for a repaint while anything is still glowing.
func (g *Ghost) Step(f core.Frame) bool {
	gotNoise := false
	select {
	case img := <-g.noiseCh:
		g.noise = img
		gotNoise = true
	default:
	}

	g.trail.Scale(float32(g.cfg.Decay))
	if f.Pointer.Active {
		g.placed = true
		k := g.cfg.Smoothing
		g.cursor.X += (f.Pointer.X - g.cursor.X) * k
		g.cursor.Y += (f.Pointer.Y - g.cursor.Y) * k
		d := float64(g.cfg.Downsample)
		g.trail.Stamp(g.cursor.X/d, g.cursor.Y/d, g.cfg.Radius/d, float32(g.cfg.Strength))
	}
	return gotNoise || g.glowing()
}

func (g *Ghost) glowing() bool {
	for _, v := range g.trail.Cells() {
		if v > 0 {
			return true
		}
	}
	return false
}

func (g *Ghost) colors() (bg, glow color.RGBA) {
	if g.cfg.Dark {
		return color.RGBA{A: 0xff}, render.Hex("#e0f7ff")
	}
	return render.Hex("#f5f5f5"), render.Hex("#263238")
}

// Paint draws the trail stretched over the surface, then the grain.
func (g *Ghost) Paint(c core.Canvas) {
	bg, glow := g.colors()
	if fc, ok := c.(core.FieldCanvas); ok {
		fc.DrawField(g.trail, 0, 0, g.size.W, g.size.H, bg, glow)
	} else {
		c.Clear(bg)
		d := float64(g.cfg.Downsample)
		for y := 0; y < g.trail.H; y++ {
			for x := 0; x < g.trail.W; x++ {
				if v := g.trail.At(x, y); v > 0 {
					c.FillRect(float64(x)*d, float64(y)*d, d, d, render.Lerp(bg, glow, float64(v)))
				}
			}
		}
	}
	if g.noise == nil || g.cfg.Grain <= 0 {
		return
	}
	if ic, ok := c.(core.ImageCanvas); ok {
		ic.DrawImage(g.noise, 0, 0, g.size.W, g.size.H, g.cfg.Grain)
	}
}

// Parameters returns the current configuration.
func (g *Ghost) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Trail",
		Params: []core.Parameter{
			core.IntParam("downsample", "Downsample", g.cfg.Downsample),
			core.FloatParam("decay", "Decay", g.cfg.Decay),
			core.FloatParam("smoothing", "Smoothing", g.cfg.Smoothing),
			core.FloatParam("radius", "Radius", g.cfg.Radius),
			core.FloatParam("grain", "Grain", g.cfg.Grain),
			core.BoolParam("noise", "Noise loaded", g.HasNoise()),
		},
	}}}
}

// ParameterControls lists the HUD controls.
func (g *Ghost) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "decay", Label: "Decay", Type: core.ParamTypeFloat, Step: 0.01, Min: 0.5, Max: 0.99, HasMin: true, HasMax: true},
		{Key: "smoothing", Label: "Smoothing", Type: core.ParamTypeFloat, Step: 0.02, Min: 0.02, Max: 1, HasMin: true, HasMax: true},
		{Key: "radius", Label: "Radius", Type: core.ParamTypeFloat, Step: 5, Min: 5, Max: 200, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a trail parameter.
func (g *Ghost) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(g.ParameterControls(), key)
	if !ok {
		return false
	}
	v = ctrl.Clamp(v)
	switch key {
	case "decay":
		g.cfg.Decay = v
	case "smoothing":
		g.cfg.Smoothing = v
	case "radius":
		g.cfg.Radius = v
	}
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "ghost",
		Title:       "Ghost Mouse",
		Description: "Fading glow trail behind a lagging cursor",
		Order:       50,
	}, func(cfg map[string]string) core.Effect {
		c := FromMap(cfg)
		if _, ok := cfg["noise_url"]; !ok {
			c.NoiseURL = DefaultNoiseURL
		}
		return New(c)
	})
}
