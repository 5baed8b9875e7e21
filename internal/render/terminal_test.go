package render

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-designs/internal/core"
)

func rgb(c tcell.Color) [3]int32 {
	r, g, b := c.RGB()
	return [3]int32{r, g, b}
}

func TestTerminalContainerMapsCellsToHalfBlocks(t *testing.T) {
	size, ratio := TerminalContainer(4, 2)
	s := core.NewSurface()
	b, _ := s.Configure(size, ratio)
	assert.Equal(t, core.BackingSize{W: 4, H: 4}, b)
}

func TestTerminalCanvasPresent(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(4, 2)

	size, ratio := TerminalContainer(4, 2)
	s := core.NewSurface()
	s.Configure(size, ratio)
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	c := NewTerminalCanvas(s, bg)
	c.Clear(color.Transparent)
	// Top half of the logical surface covers the first cell row.
	c.FillRect(0, 0, size.W, size.H/2, color.RGBA{R: 255, A: 255})

	c.Present(screen, 0, 0)

	r, _, style, _ := screen.GetContent(1, 0)
	assert.Equal(t, upperHalf, r)
	fg, back, _ := style.Decompose()
	assert.Equal(t, [3]int32{255, 0, 0}, rgb(fg))
	assert.Equal(t, [3]int32{255, 0, 0}, rgb(back))

	_, _, style, _ = screen.GetContent(1, 1)
	fg, back, _ = style.Decompose()
	assert.Equal(t, [3]int32{10, 20, 30}, rgb(fg))
	assert.Equal(t, [3]int32{10, 20, 30}, rgb(back))
}

func TestTerminalCanvasFlattensTranslucentPixels(t *testing.T) {
	c := &TerminalCanvas{background: color.RGBA{R: 200, A: 255}}
	got := c.flatten(color.RGBA{G: 100, A: 100})
	assert.Equal(t, uint8(255), got.A)
	assert.Equal(t, uint8(100), got.G)
	assert.Equal(t, uint8(200*155/255), got.R)
}

func TestTerminalEvents(t *testing.T) {
	evs, pressed := TerminalEvents(tcell.NewEventMouse(2, 1, tcell.ButtonNone, tcell.ModNone), false)
	require.Len(t, evs, 1)
	assert.False(t, pressed)
	assert.Equal(t, core.InputEvent{Kind: core.EventMove, X: 20, Y: 24}, evs[0])

	evs, pressed = TerminalEvents(tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone), pressed)
	require.Len(t, evs, 1)
	assert.True(t, pressed)
	assert.Equal(t, core.EventDown, evs[0].Kind)

	evs, pressed = TerminalEvents(tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone), pressed)
	require.Len(t, evs, 1)
	assert.Equal(t, core.EventMove, evs[0].Kind, "drag while held")

	evs, pressed = TerminalEvents(tcell.NewEventMouse(3, 1, tcell.ButtonNone, tcell.ModNone), pressed)
	require.Len(t, evs, 2)
	assert.False(t, pressed)
	assert.Equal(t, core.EventUp, evs[0].Kind)
	assert.Equal(t, core.EventClick, evs[1].Kind)
	assert.Equal(t, 28.0, evs[1].X)

	evs, _ = TerminalEvents(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone), false)
	assert.Equal(t, core.EventWheel, evs[0].Kind)

	evs, pressed = TerminalEvents(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), true)
	assert.Empty(t, evs)
	assert.True(t, pressed)
}
