package core

import "math"

// Size describes logical (CSS pixel) dimensions.
type Size struct {
	W float64
	H float64
}

// BackingSize describes the pixel dimensions of a surface's backing store.
type BackingSize struct {
	W int
	H int
}

// Point is a position in logical surface coordinates.
type Point struct {
	X float64
	Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle in client coordinates.
type Rect struct {
	X, Y float64
	W, H float64
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}
