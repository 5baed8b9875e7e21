package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"canvas-designs/internal/core"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// RasterCanvas draws anti-aliased shapes into an in-memory RGBA image. It
// backs headless snapshots, the terminal host and tests.
type RasterCanvas struct {
	img   *image.RGBA
	scale float64
	size  core.Size
	z     vector.Rasterizer
	field *image.RGBA
}

// NewRasterCanvas allocates a canvas at the surface's backing size.
func NewRasterCanvas(s *core.Surface) *RasterCanvas {
	b := s.Backing()
	return &RasterCanvas{
		img:   image.NewRGBA(image.Rect(0, 0, b.W, b.H)),
		scale: s.Scale(),
		size:  s.Logical(),
	}
}

// RasterFactory is a core.CanvasFactory producing RasterCanvas values.
func RasterFactory(s *core.Surface) (core.Canvas, error) {
	return NewRasterCanvas(s), nil
}

// Image returns the backing image. It is nil after Dispose.
func (c *RasterCanvas) Image() *image.RGBA { return c.img }

// Size returns the logical size.
func (c *RasterCanvas) Size() core.Size { return c.size }

// Clear replaces every pixel with col, including its alpha.
func (c *RasterCanvas) Clear(col color.Color) {
	if c.img == nil {
		return
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect fills a logical rectangle.
func (c *RasterCanvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	s := c.scale
	c.fillPolygon(col, [][2]float64{
		{x * s, y * s}, {(x + w) * s, y * s}, {(x + w) * s, (y + h) * s}, {x * s, (y + h) * s},
	})
}

// StrokeRect outlines a logical rectangle with lines of the given width.
func (c *RasterCanvas) StrokeRect(x, y, w, h, width float64, col color.Color) {
	half := width / 2
	c.FillRect(x-half, y-half, w+width, width, col)
	c.FillRect(x-half, y+h-half, w+width, width, col)
	c.FillRect(x-half, y+half, width, h-width, col)
	c.FillRect(x+w-half, y+half, width, h-width, col)
}

// FillCircle fills a logical circle.
func (c *RasterCanvas) FillCircle(cx, cy, r float64, col color.Color) {
	if c.img == nil || r <= 0 {
		return
	}
	s := c.scale
	cx, cy, r = cx*s, cy*s, r*s
	box, ok := c.clip(cx-r, cy-r, cx+r, cy+r)
	if !ok {
		return
	}
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	pt := func(x, y float64) (float32, float32) { return float32(x - ox), float32(y - oy) }

	k := r * kappa
	c.z.Reset(box.Dx(), box.Dy())
	c.z.MoveTo(pt(cx+r, cy))
	x1, y1 := pt(cx+r, cy+k)
	x2, y2 := pt(cx+k, cy+r)
	x3, y3 := pt(cx, cy+r)
	c.z.CubeTo(x1, y1, x2, y2, x3, y3)
	x1, y1 = pt(cx-k, cy+r)
	x2, y2 = pt(cx-r, cy+k)
	x3, y3 = pt(cx-r, cy)
	c.z.CubeTo(x1, y1, x2, y2, x3, y3)
	x1, y1 = pt(cx-r, cy-k)
	x2, y2 = pt(cx-k, cy-r)
	x3, y3 = pt(cx, cy-r)
	c.z.CubeTo(x1, y1, x2, y2, x3, y3)
	x1, y1 = pt(cx+k, cy-r)
	x2, y2 = pt(cx+r, cy-k)
	x3, y3 = pt(cx+r, cy)
	c.z.CubeTo(x1, y1, x2, y2, x3, y3)
	c.z.ClosePath()
	c.z.Draw(c.img, box, image.NewUniform(col), image.Point{})
}

// StrokeLine draws a logical line segment as a quad of the given width.
// Backing widths below one pixel are widened to one pixel.
func (c *RasterCanvas) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	s := c.scale
	x0, y0, x1, y1 = x0*s, y0*s, x1*s, y1*s
	w := math.Max(width*s, 1)
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	c.fillPolygon(col, [][2]float64{
		{x0 + nx, y0 + ny}, {x1 + nx, y1 + ny}, {x1 - nx, y1 - ny}, {x0 - nx, y0 - ny},
	})
}

// FillPolygon fills a closed logical polygon.
func (c *RasterCanvas) FillPolygon(pts []core.Point, col color.Color) {
	s := c.scale
	scaled := make([][2]float64, len(pts))
	for i, p := range pts {
		scaled[i] = [2]float64{p.X * s, p.Y * s}
	}
	c.fillPolygon(col, scaled)
}

// DrawImage scales img into a logical rectangle with the given opacity.
func (c *RasterCanvas) DrawImage(img image.Image, x, y, w, h, alpha float64) {
	if c.img == nil || img == nil || alpha <= 0 {
		return
	}
	s := c.scale
	dst := image.Rect(
		int(math.Floor(x*s)), int(math.Floor(y*s)),
		int(math.Ceil((x+w)*s)), int(math.Ceil((y+h)*s)),
	)
	var opts *xdraw.Options
	if alpha < 1 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})}
	}
	xdraw.ApproxBiLinear.Scale(c.img, dst, img, img.Bounds(), xdraw.Over, opts)
}

// DrawText draws s in the 7x13 bitmap face with its baseline at (x, y).
// Glyphs are not scaled with the pixel ratio.
func (c *RasterCanvas) DrawText(s string, x, y float64, col color.Color) {
	if c.img == nil || s == "" {
		return
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(x*c.scale)), int(math.Round(y*c.scale))),
	}
	d.DrawString(s)
}

// DrawField stretches g over a logical rectangle, blending each cell from lo
// to hi.
func (c *RasterCanvas) DrawField(g *core.FieldGrid, x, y, w, h float64, lo, hi color.RGBA) {
	if c.img == nil || g == nil {
		return
	}
	if c.field == nil || c.field.Rect.Dx() != g.W || c.field.Rect.Dy() != g.H {
		c.field = image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	}
	FillFieldRGBA(c.field.Pix, g.Cells(), lo, hi)
	c.DrawImage(c.field, x, y, w, h, 1)
}

// Dispose drops the backing image.
func (c *RasterCanvas) Dispose() {
	c.img = nil
	c.field = nil
}

func (c *RasterCanvas) fillPolygon(col color.Color, pts [][2]float64) {
	if c.img == nil || len(pts) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	box, ok := c.clip(minX, minY, maxX, maxY)
	if !ok {
		return
	}
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	c.z.Reset(box.Dx(), box.Dy())
	c.z.MoveTo(float32(pts[0][0]-ox), float32(pts[0][1]-oy))
	for _, p := range pts[1:] {
		c.z.LineTo(float32(p[0]-ox), float32(p[1]-oy))
	}
	c.z.ClosePath()
	c.z.Draw(c.img, box, image.NewUniform(col), image.Point{})
}

// clip returns the integer pixel box covering the given bounds, limited to
// the image. The rasterizer is sized to this box so each shape only touches
// the pixels it can cover.
func (c *RasterCanvas) clip(x0, y0, x1, y1 float64) (image.Rectangle, bool) {
	if math.IsNaN(x0) || math.IsNaN(y0) || math.IsNaN(x1) || math.IsNaN(y1) {
		return image.Rectangle{}, false
	}
	b := c.img.Bounds()
	r := image.Rect(
		int(math.Floor(math.Max(x0, float64(b.Min.X)))),
		int(math.Floor(math.Max(y0, float64(b.Min.Y)))),
		int(math.Ceil(math.Min(x1, float64(b.Max.X)))),
		int(math.Ceil(math.Min(y1, float64(b.Max.Y)))),
	).Intersect(b)
	return r, !r.Empty()
}
