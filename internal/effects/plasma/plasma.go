// Package plasma renders layered sine plasma, on the GPU through a Kage
// shader when the host can compile one and per block on the CPU otherwise.
package plasma

import (
	"context"
	_ "embed"
	"fmt"
	"image/color"
	"math"

	"go.uber.org/zap"

	"canvas-designs/internal/core"
)

//go:embed plasma.kage
var shaderSource []byte

// Source returns the Kage program source.
func Source() []byte { return shaderSource }

// RGB is a colour with components in [0, 1].
type RGB [3]float64

// Palette is a named colour triple.
type Palette struct {
	Name   string
	Colors [3]RGB
}

// Palettes lists the selectable colour schemes. The first is the default.
var Palettes = []Palette{
	{"Vibrant", [3]RGB{{0.4, 0.1, 0.9}, {0.1, 0.6, 1.0}, {1.0, 0.2, 0.5}}},
	{"Sunset", [3]RGB{{1.0, 0.4, 0.2}, {0.8, 0.1, 0.5}, {0.2, 0.1, 0.4}}},
	{"Ocean", [3]RGB{{0.0, 0.4, 0.8}, {0.0, 0.9, 0.7}, {0.1, 0.2, 0.5}}},
	{"Aurora", [3]RGB{{0.1, 0.8, 0.3}, {0.2, 0.4, 0.9}, {0.5, 0.1, 0.8}}},
	{"Midnight", [3]RGB{{0.05, 0.05, 0.2}, {0.3, 0.1, 0.5}, {0.1, 0.0, 0.1}}},
}

// Config holds plasma parameters.
type Config struct {
	Zoom      float64
	Speed     float64
	Intensity float64
	Palette   int
	// Block is the CPU fallback cell size in logical pixels.
	Block float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Zoom: 4, Speed: 1, Intensity: 1, Block: 8}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Zoom = core.ParseFloat(cfg, "zoom", c.Zoom, 0.1, 50)
	c.Speed = core.ParseFloat(cfg, "speed", c.Speed, 0, 20)
	c.Intensity = core.ParseFloat(cfg, "intensity", c.Intensity, 0, 4)
	c.Palette = core.ParseInt(cfg, "palette", c.Palette, 0)
	if c.Palette >= len(Palettes) {
		c.Palette = 0
	}
	c.Block = core.ParseFloat(cfg, "block", c.Block, 1, 64)
	return c
}

// Plasma animates continuously.
type Plasma struct {
	cfg     Config
	size    core.Size
	time    float64
	program core.Program
	log     *zap.Logger
}

// New creates the effect.
func New(cfg Config) *Plasma {
	return &Plasma{cfg: cfg, log: zap.NewNop()}
}

// Name returns the effect identifier.
func (p *Plasma) Name() string { return "plasma" }

// Init compiles the shader when the host offers a compiler. A compile error
// fails the mount; a missing compiler selects the CPU path.
func (p *Plasma) Init(_ context.Context, host core.Host) error {
	p.log = host.Log()
	if host.Shaders == nil {
		p.log.Debug("no shader compiler, using CPU plasma")
		return nil
	}
	prog, err := host.Shaders.Compile("plasma", shaderSource)
	if err != nil {
		return fmt.Errorf("plasma shader: %w", err)
	}
	p.program = prog
	return nil
}

// Dispose releases the shader program.
func (p *Plasma) Dispose() error {
	if p.program != nil {
		p.program.Release()
		p.program = nil
	}
	return nil
}

// GPU reports whether a compiled program is in use.
func (p *Plasma) GPU() bool { return p.program != nil }

// Layout records the surface size.
func (p *Plasma) Layout(s *core.Surface) { p.size = s.Logical() }

// Time returns the animation clock.
func (p *Plasma) Time() float64 { return p.time }

// Step advances the clock by a fixed amount per tick.
func (p *Plasma) Step(core.Frame) bool {
	p.time += 0.01 * p.cfg.Speed
	return true
}

func (p *Plasma) uniforms() core.Uniforms {
	pal := Palettes[p.cfg.Palette].Colors
	vec := func(c RGB) []float32 { return []float32{float32(c[0]), float32(c[1]), float32(c[2])} }
	return core.Uniforms{
		"Time":      float32(p.time),
		"Color1":    vec(pal[0]),
		"Color2":    vec(pal[1]),
		"Color3":    vec(pal[2]),
		"Intensity": float32(p.cfg.Intensity),
		"Zoom":      float32(p.cfg.Zoom),
	}
}

// Paint draws with the shader when possible, per block otherwise.
func (p *Plasma) Paint(c core.Canvas) {
	if sc, ok := c.(core.ShaderCanvas); ok && p.program != nil {
		err := sc.DrawShader(p.program, p.uniforms())
		if err == nil {
			return
		}
		p.log.Warn("shader draw failed, using CPU plasma", zap.Error(err))
		p.Dispose()
	}
	b := p.cfg.Block
	for y := 0.0; y < p.size.H; y += b {
		for x := 0.0; x < p.size.W; x += b {
			// Sample block centres with the y axis pointing up.
			col := p.At((x+b/2)/p.size.W, 1-(y+b/2)/p.size.H)
			c.FillRect(x, y, b, b, col)
		}
	}
}

// At evaluates the plasma at normalised coordinates (u, v) in [0, 1].
func (p *Plasma) At(u, v float64) color.RGBA {
	aspect := 1.0
	if p.size.H > 0 {
		aspect = p.size.W / p.size.H
	}
	px := u * aspect * p.cfg.Zoom
	py := v * p.cfg.Zoom
	t := p.time * 0.5

	w := math.Sin(px + t)
	w += math.Sin((py + t) * 0.5)
	w += math.Sin((px + py + t) * 0.5)
	cx := px + 0.5*math.Sin(t/3)
	cy := py + 0.5*math.Cos(t/5)
	w += math.Sin(math.Sqrt(cx*cx+cy*cy+1) + t)
	w /= 2

	pal := Palettes[p.cfg.Palette].Colors
	var out [3]uint8
	for i := range out {
		ch := mix(pal[0][i], pal[1][i], math.Sin(w*math.Pi))
		ch = mix(ch, pal[2][i], math.Cos(w*2.5))
		ch += 0.1 * math.Sin(w*10+t)
		out[i] = uint8(math.Round(math.Max(0, math.Min(1, ch*p.cfg.Intensity)) * 255))
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: 0xff}
}

func mix(a, b, t float64) float64 { return a*(1-t) + b*t }

// Parameters returns the current configuration.
func (p *Plasma) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name:    "Plasma",
		Summary: Palettes[p.cfg.Palette].Name,
		Params: []core.Parameter{
			core.FloatParam("zoom", "Zoom", p.cfg.Zoom),
			core.FloatParam("speed", "Speed", p.cfg.Speed),
			core.FloatParam("intensity", "Intensity", p.cfg.Intensity),
			core.IntParam("palette", "Palette", p.cfg.Palette),
			core.BoolParam("gpu", "GPU", p.GPU()),
		},
	}}}
}

// ParameterControls lists the HUD controls.
func (p *Plasma) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "zoom", Label: "Zoom", Type: core.ParamTypeFloat, Step: 0.5, Min: 1, Max: 20, HasMin: true, HasMax: true},
		{Key: "speed", Label: "Speed", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 5, HasMin: true, HasMax: true},
		{Key: "intensity", Label: "Intensity", Type: core.ParamTypeFloat, Step: 0.1, Min: 0.1, Max: 2, HasMin: true, HasMax: true},
		{Key: "palette", Label: "Palette", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: float64(len(Palettes) - 1), HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates zoom, speed or intensity.
func (p *Plasma) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(p.ParameterControls(), key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	v = ctrl.Clamp(v)
	switch key {
	case "zoom":
		p.cfg.Zoom = v
	case "speed":
		p.cfg.Speed = v
	case "intensity":
		p.cfg.Intensity = v
	}
	return true
}

// SetIntParameter selects a palette.
func (p *Plasma) SetIntParameter(key string, v int) bool {
	ctrl, ok := core.FindControl(p.ParameterControls(), key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	p.cfg.Palette = int(ctrl.Clamp(float64(v)))
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "plasma",
		Title:       "Plasma Shader",
		Description: "Layered sine plasma",
		Order:       60,
		Shader:      true,
	}, func(cfg map[string]string) core.Effect {
		return New(FromMap(cfg))
	})
}
