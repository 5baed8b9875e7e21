// Package sphere arranges circular image discs on a slowly turning sphere,
// joins near neighbours with faint lines and opens a detail card when a
// disc is clicked.
package sphere

import (
	"cmp"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
	"canvas-designs/internal/sim"
)

const (
	// Hint is drawn along the bottom edge.
	Hint = "Drag to rotate. Click image for details."

	discSegments = 24
	textureSize  = 128
	clickSlop    = 4
)

// Config holds layout parameters. Lengths are world units.
type Config struct {
	Count      int
	Radius     float64
	DiscRadius float64
	// LinkFactor scales Radius into the neighbour link distance.
	LinkFactor float64
	// AutoRotate is in orbit-control units: 1 turns once a minute.
	AutoRotate float64
	Distance   float64
	FOV        float64
	Images     []string
	Titles     []string
	Dark       bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Count:      24,
		Radius:     2,
		DiscRadius: 0.5,
		LinkFactor: 1,
		AutoRotate: 0.5,
		Distance:   8,
		FOV:        50,
		Dark:       true,
	}
}

// FromMap populates a Config from a string map. "images" and "titles" are
// comma-separated; when images are given they set the disc count.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Count = core.ParseInt(cfg, "count", c.Count, 1)
	c.Radius = core.ParseFloat(cfg, "radius", c.Radius, 0.1, 100)
	c.DiscRadius = core.ParseFloat(cfg, "disc_radius", c.DiscRadius, 0.01, 10)
	c.LinkFactor = core.ParseFloat(cfg, "link", c.LinkFactor, 0, 2)
	c.AutoRotate = core.ParseFloat(cfg, "auto_rotate", c.AutoRotate, -10, 10)
	c.Distance = core.ParseFloat(cfg, "distance", c.Distance, c.Radius*1.5, c.Radius*10)
	c.Dark = core.ParseBool(cfg, "dark", c.Dark)
	c.Images = splitList(cfg["images"])
	c.Titles = splitList(cfg["titles"])
	if len(c.Images) > 0 {
		c.Count = len(c.Images)
	}
	return c
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Disc is one image slot on the sphere.
type Disc struct {
	Pos   sim.Vec3
	Title string
	URL   string

	img image.Image
}

type loaded struct {
	i   int
	img image.Image
}

// projected is a disc as drawn this frame.
type projected struct {
	i      int
	depth  float64
	centre core.Point
	ring   []core.Point
	facing float64
}

// Sphere owns the disc layout, the view angle and the open card.
type Sphere struct {
	cfg   Config
	size  core.Size
	discs []Disc
	links [][2]int

	yaw      float64
	dragging bool
	lastX    float64
	moved    float64

	selected int
	view     []projected

	textures chan loaded
}

// New creates the effect.
func New(cfg Config) *Sphere {
	s := &Sphere{cfg: cfg, selected: -1}
	s.discs = Layout(cfg.Count, cfg.Radius)
	for i := range s.discs {
		s.discs[i].Title = fmt.Sprintf("Image %d", i+1)
		if i < len(cfg.Titles) {
			s.discs[i].Title = cfg.Titles[i]
		}
		if i < len(cfg.Images) {
			s.discs[i].URL = cfg.Images[i]
		}
	}
	s.links = Links(s.discs, cfg.Radius*cfg.LinkFactor)
	s.textures = make(chan loaded, len(cfg.Images))
	return s
}

// Layout spreads n discs over a band of the sphere along a golden-angle
// spiral, from 0.6 above the equator to 0.6 below.
func Layout(n int, radius float64) []Disc {
	golden := math.Pi * (3 - math.Sqrt(5))
	out := make([]Disc, n)
	for i := range out {
		y := 0.0
		if n > 1 {
			y = (1 - float64(i)/float64(n-1)*2) * 0.6
		}
		r := math.Sqrt(1 - y*y)
		theta := golden * float64(i)
		out[i].Pos = sim.Vec3{X: math.Cos(theta) * r, Y: y, Z: math.Sin(theta) * r}.Scale(radius)
	}
	return out
}

// Links returns every pair of discs closer than threshold.
func Links(discs []Disc, threshold float64) [][2]int {
	var out [][2]int
	for i := range discs {
		for j := i + 1; j < len(discs); j++ {
			if discs[i].Pos.Distance(discs[j].Pos) < threshold {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// Name returns the effect identifier.
func (s *Sphere) Name() string { return "sphere" }

// Discs exposes the layout.
func (s *Sphere) Discs() []Disc { return s.discs }

// LinkCount returns the number of neighbour lines.
func (s *Sphere) LinkCount() int { return len(s.links) }

// Yaw returns the current view angle in radians.
func (s *Sphere) Yaw() float64 { return s.yaw }

// Selected returns the index of the disc whose card is open, or -1.
func (s *Sphere) Selected() int { return s.selected }

// Loaded reports how many disc textures have arrived.
func (s *Sphere) Loaded() int {
	n := 0
	for _, d := range s.discs {
		if d.img != nil {
			n++
		}
	}
	return n
}

// SetDark switches palettes.
func (s *Sphere) SetDark(dark bool) { s.cfg.Dark = dark }

// Init starts one background fetch per image. Discs whose image never
// arrives stay as coloured placeholders.
func (s *Sphere) Init(_ context.Context, host core.Host) error {
	if len(s.cfg.Images) == 0 {
		return nil
	}
	log := host.Log()
	if host.Textures == nil {
		log.Warn("no texture loader, drawing placeholder discs", zap.Int("images", len(s.cfg.Images)))
		return nil
	}
	for i, url := range s.cfg.Images {
		host.Go(func(ctx context.Context) error {
			img, err := host.Textures.Load(ctx, url)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("sphere image unavailable", zap.String("url", url), zap.Error(err))
				}
				return nil
			}
			s.textures <- loaded{i: i, img: circular(img)}
			return nil
		})
	}
	return nil
}

// circular scales img into a square and clears everything outside the
// inscribed circle.
func circular(img image.Image) image.Image {
	square := image.NewRGBA(image.Rect(0, 0, textureSize, textureSize))
	xdraw.ApproxBiLinear.Scale(square, square.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	out := image.NewRGBA(square.Bounds())
	xdraw.DrawMask(out, out.Bounds(), square, image.Point{}, disc{r: textureSize / 2}, image.Point{}, xdraw.Src)
	return out
}

// disc is a circular alpha mask centred in a 2r square.
type disc struct{ r float64 }

func (d disc) ColorModel() color.Model { return color.AlphaModel }

func (d disc) Bounds() image.Rectangle {
	n := int(2 * d.r)
	return image.Rect(0, 0, n, n)
}

func (d disc) At(x, y int) color.Color {
	dx, dy := float64(x)+0.5-d.r, float64(y)+0.5-d.r
	if dx*dx+dy*dy <= d.r*d.r {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

// Layout records the viewport size.
func (s *Sphere) Layout(surf *core.Surface) {
	s.size = surf.Logical()
	s.project()
}

// Step takes arrived textures, applies drag or auto-rotation and handles
// clicks on discs and on the open card.
func (s *Sphere) Step(f core.Frame) bool {
	changed := false
	for drained := false; !drained; {
		select {
		case l := <-s.textures:
			s.discs[l.i].img = l.img
			changed = true
		default:
			drained = true
		}
	}

	switch {
	case f.Pressed && f.Pointer.Active && s.selected < 0:
		if s.dragging {
			dx := f.Pointer.X - s.lastX
			s.moved += math.Abs(dx)
			if s.size.H > 0 {
				s.yaw += 2 * math.Pi * dx / s.size.H
			}
			changed = changed || dx != 0
		} else {
			s.dragging = true
			s.moved = 0
		}
		s.lastX = f.Pointer.X
	case s.cfg.AutoRotate != 0:
		s.dragging = false
		s.yaw += 2 * math.Pi / 60 * s.cfg.AutoRotate * f.Delta.Seconds()
		changed = true
	default:
		s.dragging = false
	}
	s.project()

	for _, p := range f.Clicks {
		if s.moved > clickSlop {
			continue
		}
		changed = s.click(p) || changed
	}
	if !f.Pressed {
		s.moved = 0
	}
	return changed
}

func (s *Sphere) click(p core.Point) bool {
	if s.selected >= 0 {
		card, closeBox := s.card()
		if closeBox.Contains(p.X, p.Y) || !card.Contains(p.X, p.Y) {
			s.selected = -1
			return true
		}
		return false
	}
	// view is sorted back to front, so the last hit is the nearest.
	for k := len(s.view) - 1; k >= 0; k-- {
		v := s.view[k]
		if v.facing > 0 && contains(v.ring, p) {
			s.selected = v.i
			return true
		}
	}
	return false
}

func (s *Sphere) camera() sim.Camera {
	return sim.Camera{
		Pos:  sim.Vec3{X: math.Sin(s.yaw), Z: math.Cos(s.yaw)}.Scale(s.cfg.Distance),
		FOV:  s.cfg.FOV,
		Near: 0.1,
	}
}

func (s *Sphere) project() {
	s.view = s.view[:0]
	if s.size.W <= 0 || s.size.H <= 0 {
		return
	}
	cam := s.camera()
	for i, d := range s.discs {
		c, ok := cam.Project(d.Pos, s.size)
		if !ok {
			continue
		}
		normal := d.Pos.Unit()
		u := normal.Cross(sim.Vec3{Y: 1}).Unit()
		if u == (sim.Vec3{}) {
			u = sim.Vec3{X: 1}
		}
		v := u.Cross(normal)
		ring := make([]core.Point, 0, discSegments)
		for k := range discSegments {
			a := 2 * math.Pi * float64(k) / discSegments
			edge := d.Pos.Add(u.Scale(math.Cos(a) * s.cfg.DiscRadius)).Add(v.Scale(math.Sin(a) * s.cfg.DiscRadius))
			if e, ok := cam.Project(edge, s.size); ok {
				ring = append(ring, core.Point{X: e.X, Y: e.Y})
			}
		}
		s.view = append(s.view, projected{
			i:      i,
			depth:  c.Depth,
			centre: core.Point{X: c.X, Y: c.Y},
			ring:   ring,
			facing: normal.Dot(cam.Pos.Sub(d.Pos).Unit()),
		})
	}
	slices.SortFunc(s.view, func(a, b projected) int { return cmp.Compare(b.depth, a.depth) })
}

// contains is an even-odd point in polygon test.
func contains(poly []core.Point, p core.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// card returns the detail card and its close box.
func (s *Sphere) card() (core.Rect, core.Rect) {
	w := math.Min(320, s.size.W-40)
	h := math.Min(w+60, s.size.H-40)
	card := core.Rect{X: (s.size.W - w) / 2, Y: (s.size.H - h) / 2, W: w, H: h}
	return card, core.Rect{X: card.X + w - 28, Y: card.Y + 8, W: 20, H: 20}
}

func (s *Sphere) colors() (bg, line, text color.RGBA) {
	if s.cfg.Dark {
		return render.Hex("#111"), render.Hex("#fff"), render.Hex("#ccc")
	}
	return render.Hex("#f2f2f2"), render.Hex("#333"), render.Hex("#444")
}

var placeholders = render.Palette("#4f6d7a", "#c0d6df", "#dd6e42", "#e8dab2", "#7a9e7e", "#b56576")

// Paint draws links, then discs back to front, then the hint and any
// open card.
func (s *Sphere) Paint(c core.Canvas) {
	bg, line, text := s.colors()
	c.Clear(bg)

	at := make(map[int]core.Point, len(s.view))
	for _, v := range s.view {
		at[v.i] = v.centre
	}
	for _, l := range s.links {
		a, okA := at[l[0]]
		b, okB := at[l[1]]
		if okA && okB {
			c.StrokeLine(a.X, a.Y, b.X, b.Y, 1, render.Alpha(line, 0.2))
		}
	}

	pc, _ := c.(core.PolygonCanvas)
	ic, _ := c.(core.ImageCanvas)
	for _, v := range s.view {
		d := s.discs[v.i]
		alpha := 1.0
		if v.facing < 0 {
			alpha = 0.35
		}
		lo, hi := bounds(v.ring)
		switch {
		case d.img != nil && ic != nil && hi.X > lo.X:
			ic.DrawImage(d.img, lo.X, lo.Y, hi.X-lo.X, hi.Y-lo.Y, alpha)
		case pc != nil && len(v.ring) >= 3:
			pc.FillPolygon(v.ring, render.Alpha(placeholders[v.i%len(placeholders)], alpha))
		default:
			r := math.Max(hi.X-lo.X, hi.Y-lo.Y) / 2
			c.FillCircle(v.centre.X, v.centre.Y, r, render.Alpha(placeholders[v.i%len(placeholders)], alpha))
		}
	}

	tc, ok := c.(core.TextCanvas)
	if ok {
		tc.DrawText(Hint, 12, s.size.H-12, text)
	}
	if s.selected >= 0 {
		s.paintCard(c, tc)
	}
}

func (s *Sphere) paintCard(c core.Canvas, tc core.TextCanvas) {
	d := s.discs[s.selected]
	card, closeBox := s.card()
	c.FillRect(0, 0, s.size.W, s.size.H, render.Alpha(color.Black, 0.4))
	c.FillRect(card.X, card.Y, card.W, card.H, render.Alpha(color.White, 0.9))
	c.StrokeRect(closeBox.X, closeBox.Y, closeBox.W, closeBox.H, 1, render.Hex("#333"))
	c.StrokeLine(closeBox.X+5, closeBox.Y+5, closeBox.X+closeBox.W-5, closeBox.Y+closeBox.H-5, 1.5, render.Hex("#333"))
	c.StrokeLine(closeBox.X+closeBox.W-5, closeBox.Y+5, closeBox.X+5, closeBox.Y+closeBox.H-5, 1.5, render.Hex("#333"))

	side := math.Min(card.W-40, card.H-100)
	x, y := card.X+(card.W-side)/2, card.Y+36
	if ic, ok := c.(core.ImageCanvas); ok && d.img != nil {
		ic.DrawImage(d.img, x, y, side, side, 1)
	} else {
		c.FillCircle(x+side/2, y+side/2, side/2, placeholders[s.selected%len(placeholders)])
	}
	if tc == nil {
		return
	}
	tc.DrawText(d.Title, card.X+20, y+side+24, render.Hex("#333"))
	if d.URL != "" {
		tc.DrawText(d.URL, card.X+20, y+side+44, render.Hex("#666"))
	}
}

func bounds(pts []core.Point) (lo, hi core.Point) {
	if len(pts) == 0 {
		return
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

func init() {
	core.Register(core.Info{
		Key:         "sphere",
		Title:       "Image Sphere",
		Description: "Image discs on a turning sphere with a detail card per disc",
		Order:       100,
	}, func(cfg map[string]string) core.Effect { return New(FromMap(cfg)) })
}
