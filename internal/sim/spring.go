// Package sim holds the entity simulations shared by the CPU effects.
package sim

import (
	"math"

	"canvas-designs/internal/core"
)

// SpringConfig tunes a SpringGrid.
type SpringConfig struct {
	// Radius is the influence radius around the pointer.
	Radius float64
	// MaxDistortion is the displacement at distance zero, in logical pixels.
	MaxDistortion float64
	// Dampening is the spring convergence rate, typically 0.05 to 0.1.
	Dampening float64
	// Friction multiplies velocity every tick and must be below 1.
	Friction float64
}

// DefaultSpringConfig returns the mesh grid defaults.
func DefaultSpringConfig() SpringConfig {
	return SpringConfig{Radius: 150, MaxDistortion: 10, Dampening: 0.08, Friction: 0.92}
}

// Node is one spring-grid entity. Anchor never changes after layout.
type Node struct {
	Anchor core.Point
	Pos    core.Point
	Vel    core.Point
}

// SpringGrid is a lattice of nodes pulled toward the pointer and back to
// their anchors by a damped spring.
type SpringGrid struct {
	Config SpringConfig
	Nodes  []Node
	Cols   int
	Rows   int
}

// NewSpringGrid returns an empty grid.
func NewSpringGrid(cfg SpringConfig) *SpringGrid {
	return &SpringGrid{Config: cfg}
}

// Layout rebuilds the lattice with nodes at multiples of spacing, all at rest.
func (g *SpringGrid) Layout(cols, rows int, spacing float64) {
	cols, rows = max(cols, 0), max(rows, 0)
	g.Cols, g.Rows = cols, rows
	g.Nodes = g.Nodes[:0]
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			p := core.Point{X: float64(x) * spacing, Y: float64(y) * spacing}
			g.Nodes = append(g.Nodes, Node{Anchor: p, Pos: p})
		}
	}
}

// LayoutFor sizes the lattice to cover a logical area, one extra row and
// column past the edges.
func (g *SpringGrid) LayoutFor(size core.Size, spacing float64) {
	if spacing <= 0 {
		g.Layout(0, 0, spacing)
		return
	}
	cols := int(math.Ceil(size.W/spacing)) + 1
	rows := int(math.Ceil(size.H/spacing)) + 1
	g.Layout(cols, rows, spacing)
}

// Force returns the linear falloff (radius-d)/radius inside the radius and
// zero at or beyond it.
func Force(distance, radius float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	return (radius - distance) / radius
}

// Target is where the spring pulls a node: displaced from its anchor toward
// an active pointer in range, otherwise the anchor itself. Distance is
// measured from the anchor so the field does not drift with the node.
func (g *SpringGrid) Target(anchor core.Point, p core.PointerState) core.Point {
	d := p.DistanceTo(anchor.X, anchor.Y)
	force := Force(d, g.Config.Radius)
	// A pointer exactly on the anchor has no direction to push along.
	if force == 0 || d == 0 {
		return anchor
	}
	k := force * g.Config.MaxDistortion / d
	return core.Point{
		X: anchor.X + (p.X-anchor.X)*k,
		Y: anchor.Y + (p.Y-anchor.Y)*k,
	}
}

// Step advances every node one tick and returns the largest speed seen,
// which callers use to decide whether the scene is still moving.
func (g *SpringGrid) Step(p core.PointerState) float64 {
	damp, fric := g.Config.Dampening, g.Config.Friction
	var fastest float64
	for i := range g.Nodes {
		n := &g.Nodes[i]
		t := g.Target(n.Anchor, p)
		n.Vel.X = (n.Vel.X + (t.X-n.Pos.X)*damp) * fric
		n.Vel.Y = (n.Vel.Y + (t.Y-n.Pos.Y)*damp) * fric
		n.Pos.X += n.Vel.X
		n.Pos.Y += n.Vel.Y
		if s := math.Hypot(n.Vel.X, n.Vel.Y); s > fastest {
			fastest = s
		}
	}
	return fastest
}

// Displacement returns how far a node sits from its anchor.
func (n Node) Displacement() float64 {
	return n.Pos.Dist(n.Anchor)
}

// At returns the node at column x, row y.
func (g *SpringGrid) At(x, y int) *Node {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return nil
	}
	return &g.Nodes[y*g.Cols+x]
}
