package orb

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

type fixedLevel float64

func (f fixedLevel) Level() float64 { return float64(f) }

func surface(w, h float64) *core.Surface {
	s := core.NewSurface()
	s.Configure(core.Size{W: w, H: h}, 1)
	return s
}

func TestShapeFor(t *testing.T) {
	assert.Equal(t, Shape{Scale: 1, Period: 10 * time.Second, Corner: 48}, ShapeFor(0))
	assert.Equal(t, Shape{Scale: 2.5, Period: 4 * time.Second, Corner: 38}, ShapeFor(255))
	assert.Equal(t, 5*time.Second, ShapeFor(127.5).Period)
	assert.Equal(t, ShapeFor(255), ShapeFor(900), "volume clamps")
}

func TestInitWithoutAudioFallsBackToStatic(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	o := New(DefaultConfig())
	require.NoError(t, o.Init(context.Background(), core.Host{Logger: zap.New(obs)}))
	assert.False(t, o.Reactive())
	assert.Equal(t, 1, logs.FilterMessage("audio unavailable, orb is static").Len())

	o.Layout(surface(300, 300))
	for i := 0; i < 120; i++ {
		require.True(t, o.Step(stepFrame()))
	}
	assert.InDelta(t, 1, o.Scale(), 1e-9)
	assert.Equal(t, 10*time.Second, o.Shape().Period)
}

func TestLevelDrivesScaleThroughSpring(t *testing.T) {
	o := New(DefaultConfig())
	require.NoError(t, o.Init(context.Background(), core.Host{Audio: fixedLevel(1)}))
	require.True(t, o.Reactive())
	o.Layout(surface(300, 300))

	o.Step(stepFrame())
	assert.Less(t, o.Scale(), 2.5, "spring smooths the jump")
	for i := 0; i < 600; i++ {
		o.Step(stepFrame())
	}
	assert.InDelta(t, 2.5, o.Scale(), 1e-3)
	assert.Equal(t, 255.0, o.Volume())
}

func TestRotationFollowsPeriod(t *testing.T) {
	o := New(DefaultConfig())
	o.Layout(surface(300, 300))
	// A quarter of the 10s resting period.
	for i := 0; i < 150; i++ {
		o.Step(stepFrame())
	}
	assert.InDelta(t, math.Pi/2, o.Angle(), 1e-6)
}

func TestBlobIsClosedAroundCentre(t *testing.T) {
	o := New(DefaultConfig())
	o.Layout(surface(300, 300))
	o.Step(stepFrame())
	pts := o.Blob(0)
	require.Len(t, pts, 4*(cornerSegments+1))
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
		d := math.Hypot(p.X-150, p.Y-150)
		assert.Less(t, d, 150*0.5*math.Sqrt2+150*0.06+1e-9)
	}
	assert.InDelta(t, 150, cx/float64(len(pts)), 10)
	assert.InDelta(t, 150, cy/float64(len(pts)), 10)
}

func TestPaintFillsCentre(t *testing.T) {
	s := surface(300, 300)
	o := New(DefaultConfig())
	o.Layout(s)
	o.Step(stepFrame())
	c := render.NewRasterCanvas(s)
	o.Paint(c)
	bg := render.Hex("#05060a")
	assert.NotEqual(t, bg, c.Image().RGBAAt(150, 150))
	assert.Equal(t, bg, c.Image().RGBAAt(2, 2))
}

func TestDisabledAudioIgnoresHostSource(t *testing.T) {
	o := New(FromMap(map[string]string{"audio": "false"}))
	require.NoError(t, o.Init(context.Background(), core.Host{Audio: fixedLevel(1)}))
	assert.False(t, o.Reactive())
	assert.Zero(t, o.Volume())
}

func stepFrame() core.Frame { return core.Frame{Delta: time.Second / 60} }
