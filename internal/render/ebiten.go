//go:build ebiten

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"canvas-designs/internal/core"
)

// EbitenCanvas draws into an offscreen ebiten image at backing resolution.
// The host blits Image() onto the screen each frame.
type EbitenCanvas struct {
	img   *ebiten.Image
	scale float32
	size  core.Size

	// textures caches uploads of decoded images passed to DrawImage.
	textures map[image.Image]*ebiten.Image
	field    *FieldPainter

	vs []ebiten.Vertex
	is []uint16
}

var whiteSubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// NewEbitenCanvas allocates an offscreen image for s.
func NewEbitenCanvas(s *core.Surface) *EbitenCanvas {
	b := s.Backing()
	return &EbitenCanvas{
		img:      ebiten.NewImage(b.W, b.H),
		scale:    float32(s.Scale()),
		size:     s.Logical(),
		textures: map[image.Image]*ebiten.Image{},
	}
}

// EbitenFactory is a core.CanvasFactory producing EbitenCanvas values.
func EbitenFactory(s *core.Surface) (core.Canvas, error) {
	return NewEbitenCanvas(s), nil
}

// Image returns the offscreen image. It is nil after Dispose.
func (c *EbitenCanvas) Image() *ebiten.Image { return c.img }

// Size returns the logical size.
func (c *EbitenCanvas) Size() core.Size { return c.size }

// Clear replaces every pixel with col.
func (c *EbitenCanvas) Clear(col color.Color) {
	if c.img == nil {
		return
	}
	c.img.Clear()
	if _, _, _, a := col.RGBA(); a > 0 {
		c.img.Fill(col)
	}
}

// FillRect fills a logical rectangle.
func (c *EbitenCanvas) FillRect(x, y, w, h float64, col color.Color) {
	if c.img == nil || w <= 0 || h <= 0 {
		return
	}
	s := c.scale
	vector.DrawFilledRect(c.img, float32(x)*s, float32(y)*s, float32(w)*s, float32(h)*s, col, true)
}

// StrokeRect outlines a logical rectangle.
func (c *EbitenCanvas) StrokeRect(x, y, w, h, width float64, col color.Color) {
	if c.img == nil {
		return
	}
	s := c.scale
	vector.StrokeRect(c.img, float32(x)*s, float32(y)*s, float32(w)*s, float32(h)*s, max(float32(width)*s, 1), col, true)
}

// FillCircle fills a logical circle.
func (c *EbitenCanvas) FillCircle(cx, cy, r float64, col color.Color) {
	if c.img == nil || r <= 0 {
		return
	}
	s := c.scale
	vector.DrawFilledCircle(c.img, float32(cx)*s, float32(cy)*s, float32(r)*s, col, true)
}

// StrokeLine draws a logical line segment.
func (c *EbitenCanvas) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	if c.img == nil {
		return
	}
	s := c.scale
	vector.StrokeLine(c.img, float32(x0)*s, float32(y0)*s, float32(x1)*s, float32(y1)*s, max(float32(width)*s, 1), col, true)
}

// FillPolygon fills a closed logical polygon through a vector path.
func (c *EbitenCanvas) FillPolygon(pts []core.Point, col color.Color) {
	if c.img == nil || len(pts) < 3 {
		return
	}
	s := c.scale
	var path vector.Path
	path.MoveTo(float32(pts[0].X)*s, float32(pts[0].Y)*s)
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X)*s, float32(p.Y)*s)
	}
	path.Close()

	c.vs, c.is = path.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	r, g, b, a := col.RGBA()
	for i := range c.vs {
		v := &c.vs[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(r) / 0xffff
		v.ColorG = float32(g) / 0xffff
		v.ColorB = float32(b) / 0xffff
		v.ColorA = float32(a) / 0xffff
	}
	c.img.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// DrawImage scales img into a logical rectangle. Uploaded textures are kept
// until Dispose.
func (c *EbitenCanvas) DrawImage(img image.Image, x, y, w, h, alpha float64) {
	if c.img == nil || img == nil || alpha <= 0 {
		return
	}
	tex, ok := c.textures[img]
	if !ok {
		tex = ebiten.NewImageFromImage(img)
		c.textures[img] = tex
	}
	b := tex.Bounds()
	s := float64(c.scale)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w*s/float64(b.Dx()), h*s/float64(b.Dy()))
	op.GeoM.Translate(x*s, y*s)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	c.img.DrawImage(tex, op)
}

// DrawText draws s in the 7x13 bitmap face with its baseline at (x, y).
func (c *EbitenCanvas) DrawText(s string, x, y float64, col color.Color) {
	if c.img == nil || s == "" {
		return
	}
	text.Draw(c.img, s, basicfont.Face7x13, int(x*float64(c.scale)), int(y*float64(c.scale)), col)
}

// DrawShader runs p over the whole canvas. Uniforms "Resolution" and
// "Scale" are filled in when absent.
func (c *EbitenCanvas) DrawShader(p core.Program, u core.Uniforms) error {
	if c.img == nil {
		return errors.New("draw shader: canvas disposed")
	}
	prog, ok := p.(*EbitenProgram)
	if !ok || prog.shader == nil {
		return fmt.Errorf("draw shader: %w", core.ErrShadersUnsupported)
	}
	b := c.img.Bounds()
	uniforms := make(map[string]any, len(u)+2)
	for k, v := range u {
		uniforms[k] = v
	}
	if _, ok := uniforms["Resolution"]; !ok {
		uniforms["Resolution"] = []float32{float32(b.Dx()), float32(b.Dy())}
	}
	if _, ok := uniforms["Scale"]; !ok {
		uniforms["Scale"] = c.scale
	}
	op := &ebiten.DrawRectShaderOptions{Uniforms: uniforms}
	c.img.DrawRectShader(b.Dx(), b.Dy(), prog.shader, op)
	return nil
}

// Dispose frees the offscreen image and uploaded textures.
func (c *EbitenCanvas) Dispose() {
	c.field.Dispose()
	c.field = nil
	for k, tex := range c.textures {
		tex.Deallocate()
		delete(c.textures, k)
	}
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
}

// EbitenProgram wraps a compiled Kage shader.
type EbitenProgram struct {
	name   string
	shader *ebiten.Shader
}

// Name returns the program name.
func (p *EbitenProgram) Name() string { return p.name }

// Release frees the shader. It is safe to call more than once.
func (p *EbitenProgram) Release() {
	if p.shader == nil {
		return
	}
	p.shader.Deallocate()
	p.shader = nil
}

// KageCompiler compiles Kage sources with ebiten.NewShader.
type KageCompiler struct{}

// Compile compiles src. Kage reports syntax and type errors here.
func (KageCompiler) Compile(name string, src []byte) (core.Program, error) {
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &EbitenProgram{name: name, shader: sh}, nil
}

// DrawField blits g through a FieldPainter kept for the field's size.
func (c *EbitenCanvas) DrawField(g *core.FieldGrid, x, y, w, h float64, lo, hi color.RGBA) {
	if c.img == nil || g == nil {
		return
	}
	if c.field == nil || c.field.w != g.W || c.field.h != g.H {
		c.field.Dispose()
		c.field = NewFieldPainter(g.W, g.H)
	}
	s := float64(c.scale)
	c.field.Blit(c.img, g, lo, hi, x*s, y*s, w*s, h*s)
}

// FieldPainter uploads a FieldGrid into an image and draws it scaled.
type FieldPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewFieldPainter allocates a painter for a w*h field.
func NewFieldPainter(w, h int) *FieldPainter {
	return &FieldPainter{w: w, h: h, img: ebiten.NewImage(w, h), buf: make([]byte, 4*w*h)}
}

// Blit uploads the field blended from lo to hi and draws it onto dst over
// the pixel rectangle (x, y, w, h).
func (fp *FieldPainter) Blit(dst *ebiten.Image, g *core.FieldGrid, lo, hi color.RGBA, x, y, w, h float64) {
	if fp == nil || fp.img == nil || g == nil || g.W != fp.w || g.H != fp.h {
		return
	}
	FillFieldRGBA(fp.buf, g.Cells(), lo, hi)
	fp.img.WritePixels(fp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(fp.w), h/float64(fp.h))
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(fp.img, op)
}

// Dispose frees the painter image.
func (fp *FieldPainter) Dispose() {
	if fp == nil || fp.img == nil {
		return
	}
	fp.img.Deallocate()
	fp.img = nil
}
