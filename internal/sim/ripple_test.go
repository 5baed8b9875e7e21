package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-designs/internal/core"
)

func TestOverlappingRipplesClampAfterSumming(t *testing.T) {
	f := NewRippleField(DefaultRippleConfig())
	origin := core.Point{X: 100, Y: 100}
	for i := 0; i < 5; i++ {
		f.Spawn(origin, 200)
	}
	f.Step()

	front := core.Point{X: 105, Y: 100}
	single := f.Contribution(f.Ripples[0], front)
	require.Greater(t, single, 0.2)
	require.Less(t, single, 1.0)
	assert.Equal(t, 1.0, f.Opacity(front))

	for x := 0.0; x <= 300; x += 3 {
		op := f.Opacity(core.Point{X: x, Y: 100})
		assert.GreaterOrEqual(t, op, 0.0)
		assert.LessOrEqual(t, op, 1.0)
	}
}

func TestTwoRipplesBrightenBeyondEither(t *testing.T) {
	f := NewRippleField(DefaultRippleConfig())
	f.Spawn(core.Point{X: 0, Y: 0}, 400)
	f.Spawn(core.Point{X: 0, Y: 0}, 400)
	f.Step()
	p := core.Point{X: 10, Y: 0}
	one := f.Contribution(f.Ripples[0], p)
	assert.InDelta(t, min(1, 2*one), f.Opacity(p), 1e-12)
}

func TestRipplePrunedExactlyWhenPastMaxRadius(t *testing.T) {
	for _, speed := range []float64{1, 3, 5, 6, 7, 4.5} {
		cfg := DefaultRippleConfig()
		cfg.Speed = speed
		f := NewRippleField(cfg)
		f.Spawn(core.Point{X: 200, Y: 200}, 140)
		maxAge := f.MaxAge(f.Ripples[0])

		for tick := 1; tick <= maxAge; tick++ {
			f.Step()
			require.Equal(t, 1, f.Len(), "speed %v tick %d: alive while age*speed <= maxRadius", speed, tick)
			assert.LessOrEqual(t, float64(f.Ripples[0].Age)*speed, 140.0)
		}
		f.Step()
		assert.Zero(t, f.Len(), "speed %v: pruned on the first tick past maxRadius", speed)
	}
}

func TestRippleScenarioClickAt200(t *testing.T) {
	f := NewRippleField(DefaultRippleConfig())
	require.Equal(t, 5.0, f.Config.Speed)
	f.Spawn(core.Point{X: 200, Y: 200}, 140)
	require.Equal(t, 0, f.Ripples[0].Age)

	// 140/5 = 28 divides exactly: at age 28 the radius equals maxRadius,
	// which is not past it, so the ripple survives one more tick.
	for i := 0; i < 28; i++ {
		f.Step()
	}
	require.Equal(t, 1, f.Len())
	assert.Equal(t, 28, f.Ripples[0].Age)
	assert.Equal(t, 140.0, f.Radius(f.Ripples[0]))
	assert.Equal(t, 28, f.MaxAge(f.Ripples[0]))

	f.Step()
	assert.Zero(t, f.Len(), "pruned on the first tick past maxRadius")
	assert.False(t, f.Step(), "empty field reports no activity")
}

func TestRipplePrunedAtCeilWhenRadiusDoesNotDivide(t *testing.T) {
	cfg := DefaultRippleConfig()
	cfg.Speed = 6
	f := NewRippleField(cfg)
	f.Spawn(core.Point{X: 200, Y: 200}, 140)

	// ceil(140/6) = 24
	for i := 0; i < 23; i++ {
		f.Step()
	}
	assert.Equal(t, 1, f.Len())
	f.Step()
	assert.Zero(t, f.Len())
}

func TestRippleWidthGrowsAndFades(t *testing.T) {
	f := NewRippleField(DefaultRippleConfig())
	f.Spawn(core.Point{}, 100)
	f.Step()
	f.Step()
	r := f.Ripples[0]
	assert.Equal(t, 22.0, r.Width)
	assert.Equal(t, 10.0, f.Radius(r))
	// Fade shrinks with radius: 1 - 10/100.
	assert.InDelta(t, 0.9*0.6, f.Contribution(r, core.Point{X: 10}), 1e-12)
	assert.Zero(t, f.Contribution(r, core.Point{X: 10 + 22}))

	f.Reset()
	assert.Zero(t, f.Len())
}
