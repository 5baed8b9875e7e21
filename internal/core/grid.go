package core

import "math"

// FieldGrid stores a 2D scalar field in row-major order. Effects use it for
// low-resolution intensity buffers that are upscaled when painted.
type FieldGrid struct {
	W, H int
	data []float32
}

// NewFieldGrid allocates a field with the given dimensions, at least 1x1.
func NewFieldGrid(w, h int) *FieldGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FieldGrid{W: w, H: h, data: make([]float32, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *FieldGrid) Cells() []float32 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *FieldGrid) Index(x, y int) int { return y*g.W + x }

// In reports whether (x, y) is inside the field.
func (g *FieldGrid) In(x, y int) bool { return x >= 0 && y >= 0 && x < g.W && y < g.H }

// At returns the value at (x, y), or 0 outside the field.
func (g *FieldGrid) At(x, y int) float32 {
	if !g.In(x, y) {
		return 0
	}
	return g.data[g.Index(x, y)]
}

// Clear fills the field with zeros.
func (g *FieldGrid) Clear() {
	clear(g.data)
}

// Scale multiplies every cell by k and flushes values below 1e-4 to zero.
func (g *FieldGrid) Scale(k float32) {
	for i, v := range g.data {
		v *= k
		if v < 1e-4 {
			v = 0
		}
		g.data[i] = v
	}
}

// Stamp adds a radial falloff of the given strength centred on (cx, cy),
// clamping each cell to [0, 1].
func (g *FieldGrid) Stamp(cx, cy, radius float64, strength float32) {
	if radius <= 0 {
		return
	}
	x0 := max(0, int(math.Floor(cx-radius)))
	x1 := min(g.W-1, int(math.Ceil(cx+radius)))
	y0 := max(0, int(math.Floor(cy-radius)))
	y1 := min(g.H-1, int(math.Ceil(cy+radius)))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if d >= radius {
				continue
			}
			i := g.Index(x, y)
			v := g.data[i] + strength*float32(1-d/radius)
			if v > 1 {
				v = 1
			}
			g.data[i] = v
		}
	}
}

// Resize reallocates the field when the dimensions change, dropping its
// contents. It reports whether a reallocation happened.
func (g *FieldGrid) Resize(w, h int) bool {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if w == g.W && h == g.H {
		return false
	}
	g.W, g.H = w, h
	g.data = make([]float32, w*h)
	return true
}
