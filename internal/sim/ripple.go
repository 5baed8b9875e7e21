package sim

import "canvas-designs/internal/core"

// RippleConfig tunes a RippleField.
type RippleConfig struct {
	// Speed is the radius growth per tick.
	Speed float64
	// Width is the initial half-thickness of the wave band.
	Width float64
	// WidthGrowth is added to the band width every tick.
	WidthGrowth float64
	// Strength scales each ripple's contribution before summing.
	Strength float64
}

// DefaultRippleConfig returns the grid boxes defaults.
func DefaultRippleConfig() RippleConfig {
	return RippleConfig{Speed: 5, Width: 20, WidthGrowth: 1, Strength: 0.6}
}

// Ripple is a click-spawned circular wave.
type Ripple struct {
	Origin    core.Point
	Age       int
	Width     float64
	MaxRadius float64
}

// RippleField owns the live ripples of one effect. Ripples prune
// themselves, so the slice stays bounded by the click rate.
type RippleField struct {
	Config  RippleConfig
	Ripples []Ripple
}

// NewRippleField returns an empty field.
func NewRippleField(cfg RippleConfig) *RippleField {
	return &RippleField{Config: cfg}
}

// Spawn adds a ripple at origin with age zero.
func (f *RippleField) Spawn(origin core.Point, maxRadius float64) {
	f.Ripples = append(f.Ripples, Ripple{Origin: origin, Width: f.Config.Width, MaxRadius: maxRadius})
}

// Radius returns the current wave radius of r.
func (f *RippleField) Radius(r Ripple) float64 {
	return float64(r.Age) * f.Config.Speed
}

// MaxAge is the last age at which r is still alive.
func (f *RippleField) MaxAge(r Ripple) int {
	if f.Config.Speed <= 0 {
		return 0
	}
	age := int(r.MaxRadius / f.Config.Speed)
	// Guard against float rounding at exact multiples.
	for float64(age+1)*f.Config.Speed <= r.MaxRadius {
		age++
	}
	for age > 0 && float64(age)*f.Config.Speed > r.MaxRadius {
		age--
	}
	return age
}

// Step ages every ripple by one tick and removes those whose radius now
// exceeds their maximum. It reports whether any ripple was alive at the
// start of the tick.
func (f *RippleField) Step() bool {
	if len(f.Ripples) == 0 {
		return false
	}
	live := f.Ripples[:0]
	for _, r := range f.Ripples {
		r.Age++
		r.Width += f.Config.WidthGrowth
		if f.Radius(r) > r.MaxRadius {
			continue
		}
		live = append(live, r)
	}
	clear(f.Ripples[len(live):])
	f.Ripples = live
	return true
}

// Contribution is r's unclamped opacity at p: a triangular band around the
// wave front, faded as the ripple approaches its maximum radius.
func (f *RippleField) Contribution(r Ripple, p core.Point) float64 {
	if r.Width <= 0 || r.MaxRadius <= 0 {
		return 0
	}
	radius := f.Radius(r)
	diff := p.Dist(r.Origin) - radius
	if diff < 0 {
		diff = -diff
	}
	if diff >= r.Width {
		return 0
	}
	wave := 1 - diff/r.Width
	fade := 1 - radius/r.MaxRadius
	if fade < 0 {
		fade = 0
	}
	return wave * fade * f.Config.Strength
}

// Opacity sums every ripple's contribution at p and clamps the total to
// [0, 1] after summing, so overlapping waves brighten up to the ceiling.
func (f *RippleField) Opacity(p core.Point) float64 {
	var total float64
	for _, r := range f.Ripples {
		total += f.Contribution(r, p)
	}
	switch {
	case total < 0:
		return 0
	case total > 1:
		return 1
	}
	return total
}

// Len returns the number of live ripples.
func (f *RippleField) Len() int { return len(f.Ripples) }

// Reset drops every ripple.
func (f *RippleField) Reset() { f.Ripples = f.Ripples[:0] }
