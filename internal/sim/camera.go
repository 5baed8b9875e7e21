package sim

import (
	"math"

	"canvas-designs/internal/core"
)

// Vec3 is a point or direction in world space. Y points up.
type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3        { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3        { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(k float64) Vec3   { return Vec3{a.X * k, a.Y * k, a.Z * k} }
func (a Vec3) Dot(b Vec3) float64     { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64           { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

// Unit returns a scaled to length 1, or the zero vector for a zero input.
func (a Vec3) Unit() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Camera is a perspective camera looking from Pos at Target.
type Camera struct {
	Pos, Target Vec3
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Near culls points closer than this along the view axis.
	Near float64
}

// Projection is a world point mapped to logical screen space.
type Projection struct {
	X, Y float64
	// Depth is the distance along the view axis.
	Depth float64
	// PixelsPerUnit converts a world length at Depth to screen pixels.
	PixelsPerUnit float64
}

// Project maps p onto a viewport of the given size. ok is false when p is
// behind the near plane.
func (c Camera) Project(p Vec3, size core.Size) (Projection, bool) {
	forward := c.Target.Sub(c.Pos).Unit()
	up := Vec3{Y: 1}
	if math.Abs(forward.Dot(up)) > 0.999 {
		up = Vec3{Z: -1}
	}
	right := forward.Cross(up).Unit()
	up = right.Cross(forward)

	d := p.Sub(c.Pos)
	depth := d.Dot(forward)
	near := c.Near
	if near <= 0 {
		near = 1e-3
	}
	if depth < near {
		return Projection{}, false
	}
	f := (size.H / 2) / math.Tan(c.FOV*math.Pi/360)
	k := f / depth
	return Projection{
		X:             size.W/2 + d.Dot(right)*k,
		Y:             size.H/2 - d.Dot(up)*k,
		Depth:         depth,
		PixelsPerUnit: k,
	}, true
}
