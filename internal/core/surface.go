package core

import "math"

// Surface tracks the logical size of a drawing area, the device pixel ratio
// and the derived backing store size. Canvases built for a surface scale by
// Scale() so effects always draw in logical coordinates.
type Surface struct {
	logical Size
	ratio   float64
	backing BackingSize
	gen     uint64
}

// NewSurface returns an unconfigured 1x1 surface at ratio 1.
func NewSurface() *Surface {
	return &Surface{ratio: 1, backing: BackingSize{W: 1, H: 1}}
}

// Configure applies a container size and pixel ratio. Negative or NaN sizes
// clamp to 0, a non-positive or NaN ratio becomes 1, and backing dimensions
// are round(logical*ratio) but never below 1. It reports changed=false when
// nothing differs from the current configuration; otherwise the generation
// advances and layouts derived from the old size are stale.
func (s *Surface) Configure(container Size, pixelRatio float64) (BackingSize, bool) {
	logical := Size{W: clampLogical(container.W), H: clampLogical(container.H)}
	if math.IsNaN(pixelRatio) || math.IsInf(pixelRatio, 0) || pixelRatio <= 0 {
		pixelRatio = 1
	}
	backing := BackingSize{
		W: max(1, int(math.Round(logical.W*pixelRatio))),
		H: max(1, int(math.Round(logical.H*pixelRatio))),
	}
	if s.gen > 0 && logical == s.logical && pixelRatio == s.ratio {
		return s.backing, false
	}
	s.logical = logical
	s.ratio = pixelRatio
	s.backing = backing
	s.gen++
	return backing, true
}

func clampLogical(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Logical returns the logical size.
func (s *Surface) Logical() Size { return s.logical }

// Backing returns the backing store size.
func (s *Surface) Backing() BackingSize { return s.backing }

// PixelRatio returns the device pixel ratio in effect.
func (s *Surface) PixelRatio() float64 { return s.ratio }

// Scale returns the factor canvases apply to logical coordinates.
func (s *Surface) Scale() float64 { return s.ratio }

// Generation increases on every effective Configure call. Zero means the
// surface was never configured.
func (s *Surface) Generation() uint64 { return s.gen }
