// Package render implements core.Canvas on raster images, terminals and,
// with the ebiten build tag, GPU-backed ebiten images.
package render

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Hex parses "#rgb" or "#rrggbb" into an opaque colour. Malformed input
// yields opaque black.
func Hex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{A: 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Palette parses a list of hex colours.
func Palette(hex ...string) []color.RGBA {
	out := make([]color.RGBA, len(hex))
	for i, h := range hex {
		out[i] = Hex(h)
	}
	return out
}

// Alpha returns c with its alpha replaced by a in [0, 1].
func Alpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(clamp01(a) * 255))
	return n
}

// Gray returns an opaque gray of level v in [0, 255].
func Gray(v float64) color.RGBA {
	g := uint8(math.Round(math.Max(0, math.Min(255, v))))
	return color.RGBA{R: g, G: g, B: g, A: 0xff}
}

// Lerp blends a toward b by t in [0, 1].
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// FillFieldRGBA converts field intensities in [0, 1] into RGBA pixels in buf
// by blending from lo to hi.
func FillFieldRGBA(buf []byte, cells []float32, lo, hi color.RGBA) {
	for i, v := range cells {
		c := Lerp(lo, hi, float64(v))
		base := i * 4
		buf[base+0] = c.R
		buf[base+1] = c.G
		buf[base+2] = c.B
		buf[base+3] = c.A
	}
}

// FillPaletteRGBA converts field intensities into RGBA pixels by indexing a
// palette. When the palette is empty the buffer is cleared to transparent
// black.
func FillPaletteRGBA(buf []byte, cells []float32, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}
	last := len(palette) - 1
	for i, v := range cells {
		idx := int(clamp01(float64(v)) * float64(last))
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
