package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-designs/internal/core"
)

func TestSpringReturnsToRestWithoutPointer(t *testing.T) {
	g := NewSpringGrid(DefaultSpringConfig())
	g.Layout(12, 8, 20)
	rng := core.NewRNG(7)
	for i := range g.Nodes {
		g.Nodes[i].Pos.X += rng.Signed() * 15
		g.Nodes[i].Pos.Y += rng.Signed() * 15
		g.Nodes[i].Vel = core.Point{X: rng.Signed() * 3, Y: rng.Signed() * 3}
	}

	idle := core.PointerState{}
	for i := 0; i < 600; i++ {
		g.Step(idle)
	}
	for _, n := range g.Nodes {
		assert.InDelta(t, 0, n.Displacement(), 1e-6)
	}
	assert.Less(t, g.Step(idle), 1e-6)
}

func TestForceIsZeroOutsideRadius(t *testing.T) {
	assert.Equal(t, 0.0, Force(150, 150))
	assert.Equal(t, 0.0, Force(151, 150))
	assert.Equal(t, 0.0, Force(math.Inf(1), 150))
	assert.Equal(t, 1.0, Force(0, 150))
	assert.InDelta(t, 0.5, Force(75, 150), 1e-12)
	assert.Equal(t, 0.0, Force(10, 0))

	g := NewSpringGrid(DefaultSpringConfig())
	anchor := core.Point{X: 100, Y: 100}
	far := core.PointerState{X: 100, Y: 251, Active: true}
	assert.Equal(t, anchor, g.Target(anchor, far))
}

func TestSpringPointerOnAnchorDoesNotDivideByZero(t *testing.T) {
	g := NewSpringGrid(DefaultSpringConfig())
	g.Layout(3, 3, 30)
	on := core.PointerState{X: 30, Y: 30, Active: true}
	for i := 0; i < 50; i++ {
		g.Step(on)
	}
	centre := g.At(1, 1)
	require.NotNil(t, centre)
	assert.False(t, math.IsNaN(centre.Pos.X) || math.IsNaN(centre.Pos.Y))
	assert.InDelta(t, 0, centre.Displacement(), 1e-9)
}

func TestSpringInactivePointerIsNotAtOrigin(t *testing.T) {
	g := NewSpringGrid(DefaultSpringConfig())
	g.Layout(4, 4, 30)
	for i := 0; i < 10; i++ {
		g.Step(core.PointerState{})
	}
	// With a (0,0) sentinel the corner nodes would be pulled.
	for _, n := range g.Nodes {
		assert.Zero(t, n.Displacement())
	}
}

func TestSpringGridScenarioCentrePointer(t *testing.T) {
	cfg := SpringConfig{Radius: 150, MaxDistortion: 10, Dampening: 0.08, Friction: 0.92}
	g := NewSpringGrid(cfg)
	g.Layout(100, 100, 30)
	require.Len(t, g.Nodes, 10000)

	pointer := core.PointerState{X: 1485, Y: 1485, Active: true}
	for i := 0; i < 800; i++ {
		g.Step(pointer)
	}

	inside := 0
	for _, n := range g.Nodes {
		d := n.Anchor.Dist(pointer.Point())
		want := 0.0
		if d < 150 && d > 0 {
			want = (150 - d) / 150 * 10
			inside++
		}
		require.InDelta(t, want, n.Displacement(), 1e-6, "anchor %+v", n.Anchor)
		if want > 0 {
			// Displacement lies along the anchor-to-pointer direction.
			dx, dy := n.Pos.X-n.Anchor.X, n.Pos.Y-n.Anchor.Y
			px, py := pointer.X-n.Anchor.X, pointer.Y-n.Anchor.Y
			assert.InDelta(t, 0, dx*py-dy*px, 1e-6)
			assert.Greater(t, dx*px+dy*py, 0.0)
		}
	}
	assert.Greater(t, inside, 50)
}

func TestLayoutForCoversSurface(t *testing.T) {
	g := NewSpringGrid(DefaultSpringConfig())
	g.LayoutFor(core.Size{W: 100, H: 61}, 30)
	assert.Equal(t, 5, g.Cols)
	assert.Equal(t, 4, g.Rows)
	assert.Len(t, g.Nodes, 20)
	assert.Nil(t, g.At(5, 0))

	g.LayoutFor(core.Size{W: 100, H: 100}, 0)
	assert.Empty(t, g.Nodes)
}
