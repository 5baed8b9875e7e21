package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"canvas-designs/internal/core"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, giving two pixels per terminal cell.
const upperHalf = '▀'

// Logical size of one terminal cell. TerminalContainer picks a pixel ratio
// of 1/CellLogicalWidth so each cell covers one backing pixel across and two
// down.
const (
	CellLogicalWidth  = 8.0
	CellLogicalHeight = 16.0
)

// TerminalCanvas rasterizes into a low resolution image and presents it on
// a tcell screen using half-block cells.
type TerminalCanvas struct {
	*RasterCanvas
	background color.RGBA
}

// NewTerminalCanvas builds a canvas for s. background is composited under
// translucent pixels.
func NewTerminalCanvas(s *core.Surface, background color.RGBA) *TerminalCanvas {
	return &TerminalCanvas{RasterCanvas: NewRasterCanvas(s), background: background}
}

// TerminalFactory returns a core.CanvasFactory for terminal canvases.
func TerminalFactory(background color.RGBA) core.CanvasFactory {
	return func(s *core.Surface) (core.Canvas, error) {
		return NewTerminalCanvas(s, background), nil
	}
}

// TerminalContainer returns the logical container size and pixel ratio for
// a screen area of cols x rows cells.
func TerminalContainer(cols, rows int) (core.Size, float64) {
	return core.Size{W: float64(cols) * CellLogicalWidth, H: float64(rows) * CellLogicalHeight}, 1 / CellLogicalWidth
}

// Present writes the image to screen with its top-left cell at (x0, y0).
// It does not call Show.
func (c *TerminalCanvas) Present(screen tcell.Screen, x0, y0 int) {
	img := c.Image()
	if img == nil {
		return
	}
	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py += 2 {
		for px := b.Min.X; px < b.Max.X; px++ {
			top := c.flatten(img.RGBAAt(px, py))
			bottom := c.background
			if py+1 < b.Max.Y {
				bottom = c.flatten(img.RGBAAt(px, py+1))
			}
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			screen.SetContent(x0+px-b.Min.X, y0+(py-b.Min.Y)/2, upperHalf, nil, style)
		}
	}
}

// flatten composites a premultiplied pixel over the background.
func (c *TerminalCanvas) flatten(p color.RGBA) color.RGBA {
	if p.A == 0xff {
		return p
	}
	inv := 255 - uint32(p.A)
	return color.RGBA{
		R: uint8(uint32(p.R) + uint32(c.background.R)*inv/255),
		G: uint8(uint32(p.G) + uint32(c.background.G)*inv/255),
		B: uint8(uint32(p.B) + uint32(c.background.B)*inv/255),
		A: 0xff,
	}
}

// TerminalEvents converts a tcell mouse event into client-space input
// events for a surface whose cells are CellLogicalWidth x CellLogicalHeight
// logical pixels. pressed is the primary button state before the event; the
// state after it is returned. Non-mouse events yield nothing.
func TerminalEvents(ev tcell.Event, pressed bool) ([]core.InputEvent, bool) {
	m, ok := ev.(*tcell.EventMouse)
	if !ok {
		return nil, pressed
	}
	x, y := m.Position()
	lx := (float64(x) + 0.5) * CellLogicalWidth
	ly := (float64(y) + 0.5) * CellLogicalHeight
	buttons := m.Buttons()
	switch {
	case buttons&(tcell.WheelUp|tcell.WheelDown) != 0:
		return []core.InputEvent{{Kind: core.EventWheel, X: lx, Y: ly}}, pressed
	case buttons&tcell.Button1 != 0 && !pressed:
		return []core.InputEvent{{Kind: core.EventDown, X: lx, Y: ly}}, true
	case buttons&tcell.Button1 == 0 && pressed:
		return []core.InputEvent{
			{Kind: core.EventUp, X: lx, Y: ly},
			{Kind: core.EventClick, X: lx, Y: ly},
		}, false
	}
	return []core.InputEvent{{Kind: core.EventMove, X: lx, Y: ly}}, pressed
}
