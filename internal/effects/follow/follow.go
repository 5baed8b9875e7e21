// Package follow draws a chain of shrinking discs that trail the pointer.
package follow

import (
	"image/color"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
	"canvas-designs/internal/sim"
)

// Config holds chain parameters.
type Config struct {
	Count int
	Lerp  float64
	// Size is the head diameter; each follower is Shrink smaller.
	Size   float64
	Shrink float64
	Dark   bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Count: 12, Lerp: 0.12, Size: 50, Shrink: 2.5, Dark: true}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Count = core.ParseInt(cfg, "count", c.Count, 1)
	c.Lerp = core.ParseFloat(cfg, "lerp", c.Lerp, 0.01, 1)
	c.Size = core.ParseFloat(cfg, "size", c.Size, 1, 500)
	c.Shrink = core.ParseFloat(cfg, "shrink", c.Shrink, 0, 100)
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	return c
}

// settle is the per-tick movement below which the chain counts as idle.
const settle = 0.01

// Follow repaints only while the chain is moving.
type Follow struct {
	cfg   Config
	chain *sim.FollowChain
	size  core.Size
}

// New creates the effect.
func New(cfg Config) *Follow {
	return &Follow{cfg: cfg}
}

// Name returns the effect identifier.
func (f *Follow) Name() string { return "follow" }

// SetDark switches palettes.
func (f *Follow) SetDark(dark bool) { f.cfg.Dark = dark }

// Chain exposes the follower chain.
func (f *Follow) Chain() *sim.FollowChain { return f.chain }

// Layout centres the chain on first use and keeps it in place afterwards.
func (f *Follow) Layout(s *core.Surface) {
	f.size = s.Logical()
	centre := core.Point{X: f.size.W / 2, Y: f.size.H / 2}
	if f.chain == nil {
		f.chain = sim.NewFollowChain(f.cfg.Count, f.cfg.Lerp, centre)
	}
}

// Step eases the chain and asks for a repaint while it moves.
func (f *Follow) Step(fr core.Frame) bool {
	if f.chain == nil {
		return false
	}
	return f.chain.Step(fr.Pointer) > settle
}

// Diameter returns the size of follower i.
func (f *Follow) Diameter(i int) float64 {
	return max(f.cfg.Size-float64(i)*f.cfg.Shrink, 1)
}

func (f *Follow) colors() (bg, fg color.RGBA) {
	if f.cfg.Dark {
		return render.Hex("#0b0b0b"), render.Hex("#f5f5f5")
	}
	return render.Hex("#fafafa"), render.Hex("#111111")
}

// Paint draws the tail first so the head stays on top.
func (f *Follow) Paint(c core.Canvas) {
	bg, fg := f.colors()
	c.Clear(bg)
	if f.chain == nil {
		return
	}
	n := len(f.chain.Followers)
	for i := n - 1; i >= 0; i-- {
		p := f.chain.Followers[i]
		col := render.Lerp(fg, bg, float64(i)/float64(n)*0.6)
		c.FillCircle(p.X, p.Y, f.Diameter(i)/2, col)
	}
}

// Parameters returns the current configuration.
func (f *Follow) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Chain",
		Params: []core.Parameter{
			core.IntParam("count", "Count", f.cfg.Count),
			core.FloatParam("lerp", "Lerp", f.cfg.Lerp),
			core.FloatParam("size", "Size", f.cfg.Size),
		},
	}}}
}

// ParameterControls lists the HUD controls.
func (f *Follow) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "lerp", Label: "Lerp", Type: core.ParamTypeFloat, Step: 0.02, Min: 0.02, Max: 1, HasMin: true, HasMax: true},
		{Key: "size", Label: "Size", Type: core.ParamTypeFloat, Step: 5, Min: 5, Max: 200, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates lerp or size.
func (f *Follow) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(f.ParameterControls(), key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	v = ctrl.Clamp(v)
	switch key {
	case "lerp":
		f.cfg.Lerp = v
		if f.chain != nil {
			f.chain.Lerp = v
		}
	case "size":
		f.cfg.Size = v
	}
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "follow",
		Title:       "Multi Follow",
		Description: "A chain of discs trailing the cursor",
		Order:       90,
	}, func(cfg map[string]string) core.Effect {
		return New(FromMap(cfg))
	})
}
