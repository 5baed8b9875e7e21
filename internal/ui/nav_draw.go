//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Draw paints the bar with caption centred between the buttons.
func (n *NavBar) Draw(screen *ebiten.Image, caption string, dark bool) {
	bar := color.RGBA{R: 245, G: 245, B: 245, A: 220}
	fg := color.RGBA{R: 20, G: 20, B: 24, A: 255}
	if dark {
		bar = color.RGBA{R: 16, G: 16, B: 20, A: 220}
		fg = labelColor
	}
	b := n.bounds
	vector.DrawFilledRect(screen, float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()), bar, false)
	drawButton(screen, n.prev, "< Previous", true)
	drawButton(screen, n.next, "Next >", true)

	face := basicfont.Face7x13
	cb := text.BoundString(face, caption)
	x := b.Min.X + (b.Dx()-cb.Dx())/2
	y := b.Min.Y + (b.Dy()+cb.Dy())/2
	text.Draw(screen, caption, face, x, y, fg)
}
