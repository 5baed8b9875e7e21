package sim

import (
	"math"

	"canvas-designs/internal/core"
)

// FollowChain is a line of followers where each one eases toward the one
// ahead of it and the first eases toward the pointer.
type FollowChain struct {
	Lerp      float64
	Followers []core.Point
	target    core.Point
}

// NewFollowChain places n followers at start.
func NewFollowChain(n int, lerp float64, start core.Point) *FollowChain {
	c := &FollowChain{Lerp: lerp, target: start}
	c.Followers = make([]core.Point, max(n, 0))
	for i := range c.Followers {
		c.Followers[i] = start
	}
	return c
}

// Step moves every follower once. While the pointer is inactive the chain
// keeps easing toward the last position it saw. It returns the largest
// distance any follower moved.
func (c *FollowChain) Step(p core.PointerState) float64 {
	if p.Active {
		c.target = p.Point()
	}
	target := c.target
	var moved float64
	for i := range c.Followers {
		f := &c.Followers[i]
		dx := (target.X - f.X) * c.Lerp
		dy := (target.Y - f.Y) * c.Lerp
		f.X += dx
		f.Y += dy
		moved = math.Max(moved, math.Hypot(dx, dy))
		target = *f
	}
	return moved
}

// Target returns the point the head follower is easing toward.
func (c *FollowChain) Target() core.Point { return c.target }

// Recenter moves the target and every follower to p.
func (c *FollowChain) Recenter(p core.Point) {
	c.target = p
	for i := range c.Followers {
		c.Followers[i] = p
	}
}
