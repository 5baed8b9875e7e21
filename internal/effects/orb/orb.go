// Package orb draws three rotating rounded blobs that swell with the level
// of an audio source.
package orb

import (
	"context"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

const (
	// restPeriod is the rotation period with no sound.
	restPeriod = 10 * time.Second
	minPeriod  = 4 * time.Second
	// cornerSegments is the number of polygon edges per rounded corner.
	cornerSegments = 8
)

var (
	darkBlobs = []color.NRGBA{
		render.Alpha(render.Hex("#00e5ff"), 0.55),
		render.Alpha(render.Hex("#d500f9"), 0.5),
		render.Alpha(render.Hex("#2979ff"), 0.5),
	}
	lightBlobs = []color.NRGBA{
		render.Alpha(render.Hex("#00838f"), 0.5),
		render.Alpha(render.Hex("#8e24aa"), 0.45),
		render.Alpha(render.Hex("#1565c0"), 0.45),
	}
)

// Config holds orb parameters.
type Config struct {
	Size float64
	// Audio enables the level source when the host offers one.
	Audio bool
	Dark  bool
	// Frequency and Damping tune the harmonica spring smoothing the scale.
	Frequency float64
	Damping   float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Size: 150, Audio: true, Dark: true, Frequency: 6, Damping: 0.6}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Size = core.ParseFloat(cfg, "size", c.Size, 10, 2000)
	c.Audio = core.ParseBool(cfg, "audio", c.Audio)
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	c.Frequency = core.ParseFloat(cfg, "frequency", c.Frequency, 0.1, 60)
	c.Damping = core.ParseFloat(cfg, "damping", c.Damping, 0, 2)
	return c
}

// Shape is the orb's look for a given volume in [0, 255].
type Shape struct {
	Scale  float64
	Period time.Duration
	// Corner is the corner radius as a percentage of the blob size.
	Corner float64
}

// ShapeFor maps a volume in [0, 255] to the orb's target shape.
func ShapeFor(volume float64) Shape {
	v := math.Max(0, math.Min(255, volume)) / 255
	period := time.Duration(math.Max(float64(minPeriod), float64(restPeriod)*(1-v)))
	return Shape{Scale: 1 + v*1.5, Period: period, Corner: 48 - v*10}
}

// Orb is always animating: it rotates even without sound.
type Orb struct {
	cfg    Config
	size   core.Size
	level  core.LevelSource
	spring harmonica.Spring
	// springDelta is the time step the spring was built for.
	springDelta time.Duration

	shape    Shape
	scale    float64
	velocity float64
	angle    float64
}

// New creates the effect.
func New(cfg Config) *Orb {
	return &Orb{cfg: cfg, shape: ShapeFor(0), scale: 1}
}

// Name returns the effect identifier.
func (o *Orb) Name() string { return "orb" }

// Init picks up the host's level source. Without one the orb stays static.
func (o *Orb) Init(_ context.Context, host core.Host) error {
	switch {
	case !o.cfg.Audio:
		host.Log().Debug("audio disabled, orb is static")
	case host.Audio == nil:
		host.Log().Warn("audio unavailable, orb is static")
	default:
		o.level = host.Audio
		host.Log().Debug("orb listening", zap.String("source", sourceName(host.Audio)))
	}
	return nil
}

func sourceName(src core.LevelSource) string {
	if n, ok := src.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "level"
}

// Reactive reports whether a level source is attached.
func (o *Orb) Reactive() bool { return o.level != nil }

// SetDark switches palettes.
func (o *Orb) SetDark(dark bool) { o.cfg.Dark = dark }

// Layout records the centre.
func (o *Orb) Layout(s *core.Surface) { o.size = s.Logical() }

// Volume returns the current level scaled to [0, 255].
func (o *Orb) Volume() float64 {
	if o.level == nil {
		return 0
	}
	return math.Max(0, math.Min(1, o.level.Level())) * 255
}

// Shape returns the target shape of the last tick.
func (o *Orb) Shape() Shape { return o.shape }

// Scale returns the smoothed scale.
func (o *Orb) Scale() float64 { return o.scale }

// Angle returns the rotation in radians.
func (o *Orb) Angle() float64 { return o.angle }

// Step follows the level and advances the rotation.
func (o *Orb) Step(f core.Frame) bool {
	dt := f.Delta
	if dt <= 0 {
		dt = time.Second / 60
	}
	if dt != o.springDelta {
		o.spring = harmonica.NewSpring(dt.Seconds(), o.cfg.Frequency, o.cfg.Damping)
		o.springDelta = dt
	}
	o.shape = ShapeFor(o.Volume())
	o.scale, o.velocity = o.spring.Update(o.scale, o.velocity, o.shape.Scale)
	o.angle = math.Mod(o.angle+2*math.Pi*dt.Seconds()/o.shape.Period.Seconds(), 2*math.Pi)
	return true
}

// Blob returns the outline of blob i as a rotated rounded square.
func (o *Orb) Blob(i int) []core.Point {
	side := o.cfg.Size * o.scale
	half := side / 2
	r := side * o.shape.Corner / 100
	r = math.Min(r, half)
	rot := o.angle + float64(i)*2*math.Pi/3
	if i%2 == 1 {
		rot = -rot
	}
	// Each blob sits slightly off centre so the three overlap unevenly.
	off := side * 0.06
	cx := o.size.W/2 + off*math.Cos(rot)
	cy := o.size.H/2 + off*math.Sin(rot)

	sin, cos := math.Sincos(rot)
	pts := make([]core.Point, 0, 4*(cornerSegments+1))
	corners := [4][2]float64{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	for k, sgn := range corners {
		ccx, ccy := sgn[0]*(half-r), sgn[1]*(half-r)
		start := float64(k) * math.Pi / 2
		for j := 0; j <= cornerSegments; j++ {
			a := start + float64(j)/cornerSegments*math.Pi/2
			x, y := ccx+r*math.Cos(a), ccy+r*math.Sin(a)
			pts = append(pts, core.Point{X: cx + x*cos - y*sin, Y: cy + x*sin + y*cos})
		}
	}
	return pts
}

// Paint draws the three blobs, falling back to circles on canvases without
// polygon support.
func (o *Orb) Paint(c core.Canvas) {
	blobs := lightBlobs
	bg := render.Hex("#fafafa")
	if o.cfg.Dark {
		blobs = darkBlobs
		bg = render.Hex("#05060a")
	}
	c.Clear(bg)
	poly, ok := c.(core.PolygonCanvas)
	for i, col := range blobs {
		if ok {
			poly.FillPolygon(o.Blob(i), col)
			continue
		}
		c.FillCircle(o.size.W/2, o.size.H/2, o.cfg.Size*o.scale/2, col)
	}
}

// Parameters returns the current configuration and live values.
func (o *Orb) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Orb",
			Params: []core.Parameter{
				core.FloatParam("size", "Size", o.cfg.Size),
				core.BoolParam("audio", "Audio", o.Reactive()),
			},
		},
		{
			Name: "Live",
			Params: []core.Parameter{
				core.FloatParam("volume", "Volume", math.Round(o.Volume())),
				core.FloatParam("scale", "Scale", math.Round(o.scale*100)/100),
				core.FloatParam("period", "Period (s)", o.shape.Period.Seconds()),
			},
		},
	}}
}

// ParameterControls lists the HUD controls.
func (o *Orb) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "size", Label: "Size", Type: core.ParamTypeFloat, Step: 10, Min: 40, Max: 400, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates the orb size.
func (o *Orb) SetFloatParameter(key string, v float64) bool {
	ctrl, ok := core.FindControl(o.ParameterControls(), key)
	if !ok {
		return false
	}
	o.cfg.Size = ctrl.Clamp(v)
	return true
}

func init() {
	core.Register(core.Info{
		Key:         "orb",
		Title:       "Orb",
		Description: "Audio reactive rotating blobs",
		Order:       40,
	}, func(cfg map[string]string) core.Effect {
		return New(FromMap(cfg))
	})
}
