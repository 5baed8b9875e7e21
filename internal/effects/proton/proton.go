// Package proton sprays two orbiting streams of fading particles through a
// star field while the camera circles the origin.
package proton

import (
	"cmp"
	"image/color"
	"math"
	"slices"
	"time"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
	"canvas-designs/internal/sim"
)

// maxStep bounds a single integration step after a stall.
const maxStep = 100 * time.Millisecond

// Config holds emitter and camera parameters. Lengths are world units,
// speeds are per second.
type Config struct {
	Orbit      float64
	OrbitSpeed float64
	// Burst and Interval bound the particles emitted per burst and the
	// seconds between bursts.
	BurstMin, BurstMax       int
	IntervalMin, IntervalMax float64
	Life                     float64
	Speed                    float64
	// Gravity pulls particles along -Z.
	Gravity      float64
	Size         float64
	MaxParticles int

	CameraDistance float64
	CameraSpeed    float64
	FOV            float64
	Stars          int
	Seed           int64
	Dark           bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Orbit:          70,
		OrbitSpeed:     0.13 * 60,
		BurstMin:       5,
		BurstMax:       7,
		IntervalMin:    0.01,
		IntervalMax:    0.02,
		Life:           2,
		Speed:          200,
		Gravity:        20,
		Size:           40,
		MaxParticles:   1500,
		CameraDistance: 500,
		CameraSpeed:    0.02 * 60,
		FOV:            70,
		Stars:          3000,
		Seed:           1,
		Dark:           true,
	}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Orbit = core.ParseFloat(cfg, "orbit", c.Orbit, 0, 500)
	c.OrbitSpeed = core.ParseFloat(cfg, "orbit_speed", c.OrbitSpeed, -50, 50)
	c.Life = core.ParseFloat(cfg, "life", c.Life, 0.1, 10)
	c.Speed = core.ParseFloat(cfg, "speed", c.Speed, 0, 2000)
	c.Gravity = core.ParseFloat(cfg, "gravity", c.Gravity, -500, 500)
	c.Size = core.ParseFloat(cfg, "size", c.Size, 1, 500)
	c.MaxParticles = core.ParseInt(cfg, "max_particles", c.MaxParticles, 0)
	c.CameraSpeed = core.ParseFloat(cfg, "camera_speed", c.CameraSpeed, -20, 20)
	c.Stars = core.ParseInt(cfg, "stars", c.Stars, 0)
	c.Seed = int64(core.ParseInt(cfg, "seed", int(c.Seed), 0))
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	return c
}

// Particle is one live sprite.
type Particle struct {
	Pos, Vel sim.Vec3
	Age      float64
	emitter  int
}

type emitter struct {
	pos      sim.Vec3
	phase    float64
	from, to color.RGBA
	wait     float64
}

type sprite struct {
	x, y, r float64
	depth   float64
	col     color.NRGBA
}

// Proton owns the emitters, the live particles and the star field.
type Proton struct {
	cfg  Config
	rng  *core.RNG
	size core.Size

	tha, ctha float64
	drag      bool
	lastX     float64

	emitters  []emitter
	particles []Particle
	stars     []sim.Vec3
	sprites   []sprite
}

// New creates the effect.
func New(cfg Config) *Proton {
	p := &Proton{cfg: cfg, rng: core.NewRNG(cfg.Seed)}
	p.emitters = []emitter{
		{phase: 0, from: render.Hex("#4F1500"), to: render.Hex("#0029FF")},
		{phase: math.Pi / 2, from: render.Hex("#004CFE"), to: render.Hex("#6600FF")},
	}
	p.placeEmitters()
	p.stars = make([]sim.Vec3, cfg.Stars)
	for i := range p.stars {
		p.stars[i] = sim.Vec3{X: p.rng.Signed(), Y: p.rng.Signed(), Z: p.rng.Signed()}.Scale(1000)
	}
	return p
}

// Name returns the effect identifier.
func (p *Proton) Name() string { return "proton" }

// Particles exposes the live particles.
func (p *Proton) Particles() []Particle { return p.particles }

// Emitters returns the current emitter positions.
func (p *Proton) Emitters() []sim.Vec3 {
	out := make([]sim.Vec3, len(p.emitters))
	for i, e := range p.emitters {
		out[i] = e.pos
	}
	return out
}

// CameraAngle returns the camera orbit angle in radians.
func (p *Proton) CameraAngle() float64 { return p.ctha }

// SetDark switches palettes.
func (p *Proton) SetDark(dark bool) { p.cfg.Dark = dark }

// Layout records the viewport size.
func (p *Proton) Layout(s *core.Surface) { p.size = s.Logical() }

func (p *Proton) placeEmitters() {
	for i := range p.emitters {
		a := p.tha + p.emitters[i].phase
		p.emitters[i].pos = sim.Vec3{X: p.cfg.Orbit * math.Cos(a), Y: p.cfg.Orbit * math.Sin(a)}
	}
}

func (p *Proton) camera() sim.Camera {
	d := p.cfg.CameraDistance
	return sim.Camera{
		Pos:  sim.Vec3{X: math.Sin(p.ctha) * d, Y: math.Sin(p.ctha) * d, Z: math.Cos(p.ctha) * d},
		FOV:  p.cfg.FOV,
		Near: 1,
	}
}

// Step emits, integrates and culls particles, then moves the emitters and
// the camera. Particles die when their life runs out or they leave the
// screen. Dragging turns the camera by hand.
func (p *Proton) Step(f core.Frame) bool {
	dt := min(f.Delta, maxStep).Seconds()

	for i := range p.emitters {
		p.emit(i, dt)
	}

	cam := p.camera()
	live := p.particles[:0]
	for _, q := range p.particles {
		q.Age += dt
		q.Vel.Z -= p.cfg.Gravity * dt
		q.Pos = q.Pos.Add(q.Vel.Scale(dt))
		if q.Age >= p.cfg.Life {
			continue
		}
		if p.size.W > 0 && p.size.H > 0 && !p.onScreen(cam, q.Pos) {
			continue
		}
		live = append(live, q)
	}
	clear(p.particles[len(live):])
	p.particles = live

	p.tha += p.cfg.OrbitSpeed * dt
	p.placeEmitters()

	if f.Pressed && f.Pointer.Active {
		if p.drag && p.size.W > 0 {
			p.ctha += 2 * math.Pi * (f.Pointer.X - p.lastX) / p.size.W
		}
		p.drag = true
		p.lastX = f.Pointer.X
	} else {
		p.drag = false
		p.ctha += p.cfg.CameraSpeed * dt
	}
	return true
}

func (p *Proton) emit(i int, dt float64) {
	e := &p.emitters[i]
	e.wait -= dt
	for e.wait <= 0 {
		n := p.cfg.BurstMin + p.rng.IntN(p.cfg.BurstMax-p.cfg.BurstMin+1)
		for range n {
			if len(p.particles) >= p.cfg.MaxParticles {
				break
			}
			p.particles = append(p.particles, Particle{
				Pos:     e.pos,
				Vel:     sim.Vec3{Z: -p.cfg.Speed},
				emitter: i,
			})
		}
		e.wait += p.rng.Range(p.cfg.IntervalMin, p.cfg.IntervalMax)
	}
}

func (p *Proton) onScreen(cam sim.Camera, pos sim.Vec3) bool {
	q, ok := cam.Project(pos, p.size)
	return ok && q.X >= 0 && q.Y >= 0 && q.X < p.size.W && q.Y < p.size.H
}

func (p *Proton) colors() (bg, star color.RGBA) {
	if p.cfg.Dark {
		return color.RGBA{A: 0xff}, render.Hex("#888")
	}
	return render.Hex("#f4f4f4"), render.Hex("#999")
}

// Paint draws the stars, then particles far to near. Each particle fades
// out, shrinks to half size and blends between its emitter's colours.
func (p *Proton) Paint(c core.Canvas) {
	bg, star := p.colors()
	c.Clear(bg)
	if p.size.W <= 0 || p.size.H <= 0 {
		return
	}
	cam := p.camera()
	far := 1000.0
	for _, s := range p.stars {
		q, ok := cam.Project(s, p.size)
		if ok && q.Depth < far {
			c.FillRect(q.X, q.Y, 1, 1, star)
		}
	}

	p.sprites = p.sprites[:0]
	for _, q := range p.particles {
		pr, ok := cam.Project(q.Pos, p.size)
		if !ok {
			continue
		}
		t := q.Age / p.cfg.Life
		e := p.emitters[q.emitter]
		p.sprites = append(p.sprites, sprite{
			x:     pr.X,
			y:     pr.Y,
			depth: pr.Depth,
			r:     p.cfg.Size * (1 - 0.5*t) * pr.PixelsPerUnit,
			col:   render.Alpha(render.Lerp(e.from, e.to, t), 1-t),
		})
	}
	slices.SortFunc(p.sprites, func(a, b sprite) int { return cmp.Compare(b.depth, a.depth) })
	for _, s := range p.sprites {
		c.FillCircle(s.x, s.y, s.r, s.col)
	}
}

// Parameters returns the current configuration.
func (p *Proton) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Particles",
		Params: []core.Parameter{
			core.IntParam("live", "Live", len(p.particles)),
			core.FloatParam("life", "Life", p.cfg.Life),
			core.FloatParam("speed", "Speed", p.cfg.Speed),
			core.FloatParam("camera_speed", "Camera speed", p.cfg.CameraSpeed),
		},
	}}}
}

// ParameterControls lists the HUD controls.
func (p *Proton) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "life", Label: "Life", Type: core.ParamTypeFloat, Step: 0.25, Min: 0.25, Max: 5, HasMin: true, HasMax: true},
		{Key: "speed", Label: "Speed", Type: core.ParamTypeFloat, Step: 20, Min: 0, Max: 600, HasMin: true, HasMax: true},
		{Key: "camera_speed", Label: "Camera speed", Type: core.ParamTypeFloat, Step: 0.2, Min: -5, Max: 5, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a particle parameter.
func (p *Proton) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(p.ParameterControls(), key)
	if !ok {
		return false
	}
	v = ctrl.Clamp(v)
	switch key {
	case "life":
		p.cfg.Life = v
	case "speed":
		p.cfg.Speed = v
	case "camera_speed":
		p.cfg.CameraSpeed = v
	}
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "proton",
		Title:       "Proton Trails",
		Description: "Two orbiting particle emitters seen from a circling camera",
		Order:       110,
	}, func(cfg map[string]string) core.Effect { return New(FromMap(cfg)) })
}
