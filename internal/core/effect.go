package core

import (
	"context"
	"image"
	"image/color"
	"time"

	"go.uber.org/zap"
)

// Frame is everything an effect sees during one tick.
type Frame struct {
	Now     FrameTime
	Delta   time.Duration
	Index   uint64
	Pointer PointerState
	Pressed bool
	// Clicks holds the clicks since the previous tick, in order.
	Clicks  []Point
	Surface *Surface
}

// Effect is a self-contained animated design. All methods run on the frame
// goroutine.
type Effect interface {
	Name() string
	// Layout rebuilds anything derived from the surface size. It runs after
	// every effective resize and before the first Step.
	Layout(s *Surface)
	// Step advances the simulation and reports whether a repaint is needed.
	Step(f Frame) bool
	// Paint draws the current state in logical coordinates.
	Paint(c Canvas)
}

// Initializer is implemented by effects that acquire resources after
// construction. A returned error leaves the mount failed: it renders nothing
// further and is not retried.
type Initializer interface {
	Init(ctx context.Context, host Host) error
}

// Disposer is implemented by effects that hold resources. Dispose must cope
// with a partially completed Init.
type Disposer interface {
	Dispose() error
}

// Themed is implemented by effects with light and dark palettes.
type Themed interface {
	SetDark(dark bool)
}

// Canvas is a 2D drawing target sized to a Surface. Coordinates and widths
// are logical; implementations apply the surface scale.
type Canvas interface {
	Size() Size
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h, width float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
	Dispose()
}

// ImageCanvas is implemented by canvases that can draw an image scaled into
// a logical rectangle.
type ImageCanvas interface {
	Canvas
	DrawImage(img image.Image, x, y, w, h float64, alpha float64)
}

// PolygonCanvas is implemented by canvases that can fill an arbitrary
// closed polygon given in logical coordinates.
type PolygonCanvas interface {
	Canvas
	FillPolygon(pts []Point, c color.Color)
}

// TextCanvas is implemented by canvases that can draw a line of text with
// its baseline starting at a logical position.
type TextCanvas interface {
	Canvas
	DrawText(s string, x, y float64, c color.Color)
}

// FieldCanvas is implemented by canvases that can draw a FieldGrid stretched
// over a logical rectangle, blending each cell from lo to hi.
type FieldCanvas interface {
	Canvas
	DrawField(g *FieldGrid, x, y, w, h float64, lo, hi color.RGBA)
}

// Uniforms are shader parameters keyed by uniform name.
type Uniforms map[string]any

// Program is a compiled GPU program. Release frees it and is idempotent.
type Program interface {
	Name() string
	Release()
}

// ShaderCompiler compiles shader source into a Program.
type ShaderCompiler interface {
	Compile(name string, src []byte) (Program, error)
}

// ShaderCanvas is implemented by GPU canvases.
type ShaderCanvas interface {
	Canvas
	DrawShader(p Program, u Uniforms) error
}

// CanvasFactory builds a canvas for the surface's current backing size.
type CanvasFactory func(s *Surface) (Canvas, error)

// TextureLoader fetches and decodes a remote image. It may block.
type TextureLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// LevelSource reports an audio input level in [0, 1].
type LevelSource interface {
	Level() float64
}

// Host carries the capabilities a mount offers its effect. Any field may be
// nil; effects degrade instead of failing when an optional capability is
// missing.
type Host struct {
	Logger   *zap.Logger
	Shaders  ShaderCompiler
	Textures TextureLoader
	Audio    LevelSource

	tasks *taskGroup
}

// Log returns the host logger or a no-op logger.
func (h Host) Log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// Go runs fn on a goroutine bound to the mount's lifetime: its context is
// cancelled at teardown and teardown waits for it. Without a mount, fn runs
// synchronously with a background context.
func (h Host) Go(fn func(ctx context.Context) error) {
	if h.tasks == nil {
		if err := fn(context.Background()); err != nil {
			h.Log().Warn("background task failed", zap.Error(err))
		}
		return
	}
	h.tasks.Go(fn)
}
