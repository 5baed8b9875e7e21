// Package swarm draws particles drawn toward a gravity point that follows
// the pointer. Holding the button rotates the whole swarm in 3D.
package swarm

import (
	"image/color"
	"math"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

// Config holds swarm parameters.
type Config struct {
	Branches  int
	PerBranch int
	// Spread is the edge of the cube particles start in.
	Spread   float64
	Friction float64
	Pull     float64
	// Kick scales the random push applied when a particle reaches the
	// gravity point.
	Kick  float64
	Zoom  float64
	Trail float64
	Seed  int64
	Dark  bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Branches:  32,
		PerBranch: 16,
		Spread:    20,
		Friction:  0.975,
		Pull:      0.2,
		Kick:      3,
		Zoom:      600,
		Trail:     0.25,
		Seed:      1,
		Dark:      true,
	}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Branches = core.ParseInt(cfg, "branches", c.Branches, 1)
	c.PerBranch = core.ParseInt(cfg, "per_branch", c.PerBranch, 1)
	c.Spread = core.ParseFloat(cfg, "spread", c.Spread, 0, 1000)
	c.Friction = core.ParseFloat(cfg, "friction", c.Friction, 0, 1)
	c.Pull = core.ParseFloat(cfg, "pull", c.Pull, 0, 10)
	c.Kick = core.ParseFloat(cfg, "kick", c.Kick, 0, 50)
	c.Trail = core.ParseFloat(cfg, "trail", c.Trail, 0.01, 1)
	c.Seed = int64(core.ParseInt(cfg, "seed", int(c.Seed), 0))
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	return c
}

// Vec3 is a point or velocity in swarm space.
type Vec3 struct{ X, Y, Z float64 }

// Particle keeps its current and previous position with their projections.
type Particle struct {
	Pos, Vel Vec3
	Old      Vec3
	// Screen and OldScreen are the projected positions for this frame and
	// the previous one.
	Screen, OldScreen core.Point
	Color             color.NRGBA
}

// Matrix is a 3x3 rotation.
type Matrix [3][3]float64

// Rotation builds the matrix rotating by rx, ry and rz.
func Rotation(rx, ry, rz float64) Matrix {
	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	sz, cz := math.Sincos(rz)
	return Matrix{
		{cz * cy, sz * cy, -sy},
		{cz*sy*sx - sz*cx, sz*sy*sx + cx*cz, sx * cy},
		{cz*sy*cx + sz*sx, sz*sy*cx - cz*sx, cx * cy},
	}
}

// Apply returns m·v.
func (m Matrix) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Swarm animates continuously.
type Swarm struct {
	cfg       Config
	rng       *core.RNG
	size      core.Size
	centre    core.Point
	particles []Particle
	gravity   Vec3
	rotating  bool
	fresh     bool
}

// New creates the effect.
func New(cfg Config) *Swarm {
	return &Swarm{cfg: cfg, rng: core.NewRNG(cfg.Seed)}
}

// Name returns the effect identifier.
func (s *Swarm) Name() string { return "swarm" }

// SetDark switches the trail colour.
func (s *Swarm) SetDark(dark bool) {
	s.cfg.Dark = dark
	s.fresh = true
}

// Particles exposes the particle state.
func (s *Swarm) Particles() []Particle { return s.particles }

// Gravity returns the point particles are attracted to.
func (s *Swarm) Gravity() Vec3 { return s.gravity }

// Rotating reports whether the last step rotated the swarm.
func (s *Swarm) Rotating() bool { return s.rotating }

// Layout scatters a fresh swarm around the surface centre.
func (s *Swarm) Layout(surf *core.Surface) {
	s.size = surf.Logical()
	s.centre = core.Point{X: s.size.W / 2, Y: s.size.H / 2}
	s.fresh = true

	n := s.cfg.Branches * s.cfg.PerBranch
	s.particles = make([]Particle, n)
	half := s.cfg.Spread / 2
	for i := range s.particles {
		p := &s.particles[i]
		p.Pos = Vec3{
			X: s.rng.Float64()*s.cfg.Spread - half,
			Y: s.rng.Float64()*s.cfg.Spread - half,
			Z: s.rng.Float64()*s.cfg.Spread - half,
		}
		p.Old = p.Pos
		p.Color = render.Alpha(color.RGBA{
			R: uint8(s.rng.IntN(255)),
			G: uint8(s.rng.IntN(255)),
			B: uint8(s.rng.IntN(255)),
			A: 0xff,
		}, 0.5+0.5*s.rng.Float64())
		p.Screen = s.project(p.Pos)
		p.OldScreen = p.Screen
	}
}

func (s *Swarm) project(v Vec3) core.Point {
	zoom := s.cfg.Zoom / (50 + v.Z)
	return core.Point{X: v.X*zoom + s.centre.X, Y: v.Y*zoom + s.centre.Y}
}

// Step updates the gravity point from the pointer, then either rotates the
// swarm while the button is held or lets every particle fall toward the
// gravity point.
func (s *Swarm) Step(f core.Frame) bool {
	s.rotating = false
	if f.Pointer.Active {
		mx, my := f.Pointer.X-s.centre.X, f.Pointer.Y-s.centre.Y
		s.gravity.X, s.gravity.Y = mx/12, my/12
		if f.Pressed && s.size.W > 0 && s.size.H > 0 {
			rx := clamp(my*0.05*math.Pi/s.size.H, -0.05, 0.05)
			ry := clamp(-mx*0.05*math.Pi/s.size.W, -0.05, 0.05)
			s.rotate(Rotation(rx, ry, 0))
			return true
		}
	} else {
		s.gravity = Vec3{}
	}
	for i := range s.particles {
		s.move(&s.particles[i])
	}
	return true
}

func (s *Swarm) rotate(m Matrix) {
	s.rotating = true
	for i := range s.particles {
		p := &s.particles[i]
		p.Old = p.Pos
		p.OldScreen = p.Screen
		p.Pos = m.Apply(p.Pos)
		p.Screen = s.project(p.Pos)
	}
}

func (s *Swarm) move(p *Particle) {
	dx := s.gravity.X - p.Pos.X
	dy := s.gravity.Y - p.Pos.Y
	dz := s.gravity.Z - p.Pos.Z
	d := math.Sqrt(dx*dx + dy*dy + dz*dz)

	pull := s.cfg.Pull
	if d < 0.5 {
		pull = s.rng.Float64() * s.cfg.Kick
	}
	if d > 0 {
		p.Vel.X += pull * dx / d
		p.Vel.Y += pull * dy / d
		p.Vel.Z += pull * dz / d
	}
	p.Vel.X *= s.cfg.Friction
	p.Vel.Y *= s.cfg.Friction
	p.Vel.Z *= s.cfg.Friction

	p.Old = p.Pos
	p.OldScreen = p.Screen
	p.Pos.X += p.Vel.X
	p.Pos.Y += p.Vel.Y
	p.Pos.Z += p.Vel.Z
	p.Screen = s.project(p.Pos)
}

func (s *Swarm) background() color.RGBA {
	if s.cfg.Dark {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// Paint fades the previous frame and draws each particle as a dot when it
// barely moved on screen or as a streak from its previous projection.
func (s *Swarm) Paint(c core.Canvas) {
	bg := s.background()
	if s.fresh {
		c.Clear(bg)
		s.fresh = false
	}
	c.FillRect(0, 0, s.size.W, s.size.H, render.Alpha(bg, s.cfg.Trail))
	for i := range s.particles {
		p := &s.particles[i]
		if math.Hypot(p.Screen.X-p.OldScreen.X, p.Screen.Y-p.OldScreen.Y) < 1 {
			c.FillCircle(p.Screen.X, p.Screen.Y, 0.5, p.Color)
			continue
		}
		c.StrokeLine(p.OldScreen.X, p.OldScreen.Y, p.Screen.X, p.Screen.Y, 1, p.Color)
	}
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// Parameters returns the current configuration.
func (s *Swarm) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Swarm",
		Params: []core.Parameter{
			core.IntParam("particles", "Particles", len(s.particles)),
			core.FloatParam("friction", "Friction", s.cfg.Friction),
			core.FloatParam("pull", "Pull", s.cfg.Pull),
			core.FloatParam("trail", "Trail", s.cfg.Trail),
		},
	}}}
}

// ParameterControls lists the HUD controls.
func (s *Swarm) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "friction", Label: "Friction", Type: core.ParamTypeFloat, Step: 0.005, Min: 0.8, Max: 1, HasMin: true, HasMax: true},
		{Key: "pull", Label: "Pull", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 2, HasMin: true, HasMax: true},
		{Key: "trail", Label: "Trail", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates friction, pull or trail.
func (s *Swarm) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(s.ParameterControls(), key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	v = ctrl.Clamp(v)
	switch key {
	case "friction":
		s.cfg.Friction = v
	case "pull":
		s.cfg.Pull = v
	case "trail":
		s.cfg.Trail = v
	}
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "swarm",
		Title:       "Particle Swarm",
		Description: "Particles chasing the cursor; hold to rotate",
		Order:       80,
	}, func(cfg map[string]string) core.Effect {
		return New(FromMap(cfg))
	})
}
