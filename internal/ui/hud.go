//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"canvas-designs/internal/core"
)

var (
	panelColor    = color.RGBA{R: 16, G: 16, B: 20, A: 230}
	headerColor   = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	disabledColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

// HUD renders the parameter panel in the top-right corner.
type HUD struct {
	controls *Controls
	panel    *ebiten.Image
	x        int
}

// NewHUD builds a panel of the given width for effect.
func NewHUD(effect core.Effect, title string, width int) *HUD {
	return &HUD{controls: NewControls(effect, title, width)}
}

// Controls exposes the underlying control model.
func (h *HUD) Controls() *Controls { return h.controls }

// Bounds returns the panel rectangle on a screen screenW pixels wide.
func (h *HUD) Bounds(screenW int) image.Rectangle {
	x := screenW - h.controls.Width()
	return image.Rect(x, 0, screenW, h.controls.Height())
}

// Update refreshes values and applies a click at screen (x, y) when
// clicked is set. It reports whether the click landed on the panel.
func (h *HUD) Update(screenW int, x, y int, clicked bool) bool {
	if h == nil {
		return false
	}
	h.controls.Refresh()
	b := h.Bounds(screenW)
	h.x = b.Min.X
	if !clicked || !image.Pt(x, y).In(b) {
		return false
	}
	h.controls.Click(x-b.Min.X, y-b.Min.Y)
	return true
}

// Draw paints the panel.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil || h.controls.Width() <= 0 {
		return
	}
	w, ht := h.controls.Width(), h.controls.Height()
	if h.panel == nil || h.panel.Bounds().Dx() != w || h.panel.Bounds().Dy() != ht {
		if h.panel != nil {
			h.panel.Deallocate()
		}
		h.panel = ebiten.NewImage(w, ht)
	}
	h.panel.Clear()
	h.panel.Fill(panelColor)
	h.drawControls()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(h.x), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.controls.Title(), face, panelPadding, headerY, headerColor)
	rows := h.controls.Rows()
	if len(rows) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, headerY+infoSpacing, disabledColor)
		return
	}
	for i := range rows {
		row := &rows[i]
		y := row.Top + labelBaseline
		text.Draw(h.panel, row.Control.Label, face, panelPadding, y, labelColor)
		valueColor := labelColor
		if !row.HasValue {
			valueColor = disabledColor
		}
		bounds := text.BoundString(face, row.Value)
		text.Draw(h.panel, row.Value, face, row.Minus.Min.X-buttonGap-bounds.Dx(), y, valueColor)

		drawButton(h.panel, row.Minus, "-", h.controls.CanAdjust(row, -1))
		drawButton(h.panel, row.Plus, "+", h.controls.CanAdjust(row, 1))
	}
}

func drawButton(dst *ebiten.Image, rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	vector.DrawFilledRect(dst, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), bg, false)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(dst, label, face, x, y, fg)
}
