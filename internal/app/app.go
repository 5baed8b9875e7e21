//go:build ebiten

package app

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
	"canvas-designs/internal/ui"
)

const hudWidth = 260

// Game adapts a gallery to the ebiten.Game interface. It turns mouse and
// touch input into hub events, pumps the frame scheduler once per update
// and blits the active mount's canvas.
type Game struct {
	gallery *core.Gallery
	hub     *core.EventHub
	log     *zap.Logger

	nav     *ui.NavBar
	hud     *ui.HUD
	overlay *ui.Overlay
	showHUD bool

	mount *core.Mount
	start time.Time
	ratio float64

	screenW, screenH int
	scale            float64

	inside  bool
	touches []ebiten.TouchID
	lastX   float64
	lastY   float64
	pressed bool
}

// Options configures a Game.
type Options struct {
	Gallery *core.Gallery
	Hub     *core.EventHub
	Logger  *zap.Logger
	ShowHUD bool
	// PixelRatio overrides the monitor scale factor when positive.
	PixelRatio float64
}

// New constructs a Game. The gallery must already be started.
func New(opts Options) *Game {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{
		gallery: opts.Gallery,
		hub:     opts.Hub,
		log:     log.Named("app"),
		nav:     ui.NewNavBar(0, 0),
		overlay: ui.NewOverlay(),
		showHUD: opts.ShowHUD,
		start:   time.Now(),
		ratio:   opts.PixelRatio,
		scale:   1,
	}
}

// Update handles keys and input, then advances the gallery by one frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.navigate(ui.NavNext)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.navigate(ui.NavPrev)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		dark := g.gallery.ToggleTheme()
		g.log.Debug("theme toggled", zap.Bool("dark", dark))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	g.overlay.Update()
	g.syncMount()
	g.pollPointer()

	g.gallery.Frame(time.Since(g.start))
	return nil
}

func (g *Game) navigate(a ui.NavAction) {
	var err error
	switch a {
	case ui.NavNext:
		err = g.gallery.Next()
	case ui.NavPrev:
		err = g.gallery.Prev()
	default:
		return
	}
	if err != nil {
		g.log.Error("switch failed", zap.Error(err))
	}
	g.syncMount()
}

// syncMount rebuilds the HUD when the active mount changes.
func (g *Game) syncMount() {
	m := g.gallery.Active()
	if m == g.mount {
		return
	}
	g.mount = m
	g.hud = nil
	if m != nil {
		g.hud = ui.NewHUD(m.Effect(), m.Entry().Info.Title, hudWidth)
	}
}

// pollPointer publishes pointer changes. Screen coordinates are divided by
// the device scale so events arrive in logical pixels. The first touch acts
// as the primary button.
func (g *Game) pollPointer() {
	cx, cy := ebiten.CursorPosition()
	justPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	justReleased := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	if len(g.touches) > 0 {
		cx, cy = ebiten.TouchPosition(g.touches[0])
		justPressed = true
	}
	g.touches = inpututil.AppendJustReleasedTouchIDs(g.touches[:0])
	if len(g.touches) > 0 {
		cx, cy = inpututil.TouchPositionInPreviousTick(g.touches[0])
		justReleased = true
	}
	x, y := float64(cx)/g.scale, float64(cy)/g.scale

	if justPressed && g.nav.Contains(cx, cy) {
		g.navigate(g.nav.Hit(cx, cy))
		return
	}
	if g.showHUD && g.hud != nil && g.hud.Update(g.screenW, cx, cy, justPressed) {
		if g.mount != nil {
			g.mount.MarkDirty()
		}
		return
	}

	inside := cx >= 0 && cy >= 0 && cx < g.screenW && cy < g.screenH && !g.nav.Contains(cx, cy)
	if !inside {
		if g.inside {
			g.hub.Publish(core.InputEvent{Kind: core.EventLeave})
		}
		g.inside = false
		g.pressed = false
		return
	}
	if !g.inside || x != g.lastX || y != g.lastY {
		g.hub.Publish(core.InputEvent{Kind: core.EventMove, X: x, Y: y})
	}
	g.inside, g.lastX, g.lastY = true, x, y

	if justPressed && !g.pressed {
		g.pressed = true
		g.hub.Publish(core.InputEvent{Kind: core.EventDown, X: x, Y: y})
	}
	if justReleased && g.pressed {
		g.pressed = false
		g.hub.Publish(core.InputEvent{Kind: core.EventUp, X: x, Y: y})
		g.hub.Publish(core.InputEvent{Kind: core.EventClick, X: x, Y: y})
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.hub.Publish(core.InputEvent{Kind: core.EventWheel, X: x, Y: y})
	}
}

// Draw blits the active canvas and the chrome on top of it.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.mount != nil {
		if c, ok := g.mount.Canvas().(*render.EbitenCanvas); ok && c.Image() != nil {
			screen.DrawImage(c.Image(), nil)
		}
	}
	entries := g.gallery.Entries()
	g.nav.Draw(screen, ui.Caption(g.gallery.Current(), g.gallery.Index(), len(entries)), g.gallery.Dark())
	if g.showHUD {
		g.hud.Draw(screen)
	}
	g.overlay.Draw(screen, g.mount, g.scale)
}

// Layout reports a screen at device resolution and resizes the gallery to
// the window's logical size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := g.ratio
	if scale <= 0 {
		scale = ebiten.Monitor().DeviceScaleFactor()
	}
	w := int(math.Ceil(float64(outsideWidth) * scale))
	h := int(math.Ceil(float64(outsideHeight) * scale))
	if w != g.screenW || h != g.screenH || scale != g.scale {
		g.screenW, g.screenH, g.scale = w, h, scale
		g.nav.Layout(w, h)
		g.gallery.Resize(core.Size{W: float64(outsideWidth), H: float64(outsideHeight)}, scale)
		g.log.Debug("resized", zap.Int("width", outsideWidth), zap.Int("height", outsideHeight), zap.Float64("scale", scale))
	}
	return w, h
}
