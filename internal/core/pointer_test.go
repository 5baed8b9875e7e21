package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInactivePointerIsInfinitelyFar(t *testing.T) {
	var p PointerState
	assert.True(t, math.IsInf(p.DistanceTo(0, 0), 1))

	p = PointerState{X: 3, Y: 4, Active: true}
	assert.InDelta(t, 5.0, p.DistanceTo(0, 0), 1e-12)
}

func TestTrackerTranslatesClientCoordinates(t *testing.T) {
	changes := 0
	tr := NewInputTracker(func() { changes++ })
	tr.SetBounds(Rect{X: 100, Y: 50, W: 200, H: 100})

	tr.Handle(InputEvent{Kind: EventMove, X: 150, Y: 70})
	p := tr.Pointer()
	assert.True(t, p.Active)
	assert.Equal(t, 50.0, p.X)
	assert.Equal(t, 20.0, p.Y)
	assert.Equal(t, 1, changes)
}

func TestTrackerLeaveDeactivatesInsteadOfZeroing(t *testing.T) {
	tr := NewInputTracker(nil)
	tr.SetBounds(Rect{W: 100, H: 100})
	tr.Handle(InputEvent{Kind: EventDown, X: 10, Y: 10})
	require.True(t, tr.Pressed())

	tr.Handle(InputEvent{Kind: EventLeave})
	p := tr.Pointer()
	assert.False(t, p.Active)
	assert.False(t, tr.Pressed())
	// An inactive pointer must not look close to the origin.
	assert.True(t, math.IsInf(p.DistanceTo(0, 0), 1))
}

func TestTrackerMoveOutsideBoundsLeaves(t *testing.T) {
	tr := NewInputTracker(nil)
	tr.SetBounds(Rect{X: 10, Y: 10, W: 50, H: 50})
	tr.Handle(InputEvent{Kind: EventMove, X: 20, Y: 20})
	require.True(t, tr.Pointer().Active)

	tr.Handle(InputEvent{Kind: EventMove, X: 5, Y: 20})
	assert.False(t, tr.Pointer().Active)
	tr.Handle(InputEvent{Kind: EventMove, X: 60, Y: 20})
	assert.False(t, tr.Pointer().Active)
}

func TestTrackerClicksDrainOnce(t *testing.T) {
	tr := NewInputTracker(nil)
	tr.SetBounds(Rect{X: 0, Y: 0, W: 400, H: 400})
	tr.Handle(InputEvent{Kind: EventClick, X: 200, Y: 200})
	tr.Handle(InputEvent{Kind: EventClick, X: 10, Y: 20})
	tr.Handle(InputEvent{Kind: EventClick, X: 900, Y: 900})

	clicks := tr.DrainClicks()
	assert.Equal(t, []Point{{X: 200, Y: 200}, {X: 10, Y: 20}}, clicks)
	assert.Empty(t, tr.DrainClicks())
}

func TestTrackerIgnoresWheel(t *testing.T) {
	changes := 0
	tr := NewInputTracker(func() { changes++ })
	tr.Handle(InputEvent{Kind: EventWheel, X: 1, Y: 1})
	assert.Zero(t, changes)
	assert.False(t, tr.Pointer().Active)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "click", EventClick.String())
	assert.Equal(t, "unknown", EventKind(0).String())
}

func TestTrackerEmptyBoundsContainNothing(t *testing.T) {
	changes := 0
	tr := NewInputTracker(func() { changes++ })
	tr.SetBounds(Rect{X: 10, Y: 10})

	tr.Handle(InputEvent{Kind: EventMove, X: 15, Y: 15})
	assert.False(t, tr.Pointer().Active)
	tr.Handle(InputEvent{Kind: EventDown, X: 10, Y: 10})
	assert.False(t, tr.Pressed())
	tr.Handle(InputEvent{Kind: EventClick, X: 500, Y: 500})
	assert.Empty(t, tr.DrainClicks())
	// Only the move, reported as a leave, changed anything.
	assert.Equal(t, 1, changes)
}
