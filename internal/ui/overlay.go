//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"canvas-designs/internal/core"
)

// Overlay shows loop statistics for the active mount and a crosshair at the
// tracked pointer. D toggles it.
type Overlay struct {
	visible bool
}

// NewOverlay constructs a hidden overlay.
func NewOverlay() *Overlay { return &Overlay{} }

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool { return o.visible }

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		o.visible = !o.visible
	}
}

// Draw renders the overlay. scale converts logical to screen pixels.
func (o *Overlay) Draw(screen *ebiten.Image, m *core.Mount, scale float64) {
	if !o.visible {
		return
	}
	face := basicfont.Face7x13
	lines := StatusLines(m, ebiten.ActualFPS())
	vector.DrawFilledRect(screen, 4, 4, 260, float32(8+len(lines)*16), color.RGBA{A: 170}, false)
	for i, line := range lines {
		text.Draw(screen, line, face, 10, 18+i*16, color.RGBA{R: 120, G: 255, B: 160, A: 255})
	}
	if m == nil {
		return
	}
	if p := m.Pointer(); p.Active {
		x, y := float32(p.X*scale), float32(p.Y*scale)
		c := color.RGBA{R: 255, G: 80, B: 80, A: 200}
		vector.StrokeLine(screen, x-8, y, x+8, y, 1, c, false)
		vector.StrokeLine(screen, x, y-8, x, y+8, 1, c, false)
	}
}
