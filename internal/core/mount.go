package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SizeHint is either an explicit logical size or "fill the container".
type SizeHint struct {
	Fill bool
	W, H float64
}

// FillContainer returns the hint that tracks the container size.
func FillContainer() SizeHint { return SizeHint{Fill: true} }

// Resolve returns the logical size the hint asks for inside container.
func (h SizeHint) Resolve(container Size) Size {
	if h.Fill {
		return container
	}
	return Size{W: h.W, H: h.H}
}

// MountOptions configures Mount.
type MountOptions struct {
	Hint       SizeHint
	Container  Size
	PixelRatio float64
	// Origin is the surface's top-left corner in client coordinates.
	Origin Point

	Scheduler *FrameScheduler
	Hub       *EventHub
	NewCanvas CanvasFactory
	Host      Host
	Config    map[string]string
	Dark      bool
}

// Mount is one live effect instance: its surface, input tracker, render loop
// and canvas. Every acquisition is recorded in a Scope and released by
// Teardown, which must be called exactly once.
type Mount struct {
	id     uuid.UUID
	entry  Entry
	effect Effect
	logger *zap.Logger

	hint      SizeHint
	origin    Point
	surface   *Surface
	tracker   *InputTracker
	loop      *RenderLoop
	canvas    Canvas
	newCanvas CanvasFactory
	tasks     *taskGroup
	scope     Scope

	frames uint64
	last   FrameTime
	failed bool
	torn   bool
}

// NewMount builds entry's effect, sizes its surface, runs its initializer and
// starts its render loop. A failing initializer does not return an error:
// the failure is logged, resources are released and the mount renders
// nothing further. Errors are returned only for unusable options.
func NewMount(ctx context.Context, entry Entry, opts MountOptions) (*Mount, error) {
	if opts.Scheduler == nil {
		return nil, errors.New("mount: scheduler is required")
	}
	if opts.NewCanvas == nil {
		return nil, errors.New("mount: canvas factory is required")
	}
	if entry.Factory == nil {
		return nil, &UnknownEffectError{Key: entry.Info.Key}
	}
	effect := entry.Factory(opts.Config)
	if effect == nil {
		return nil, fmt.Errorf("mount %s: factory returned no effect", entry.Info.Key)
	}

	id := uuid.New()
	m := &Mount{
		id:        id,
		entry:     entry,
		effect:    effect,
		hint:      opts.Hint,
		origin:    opts.Origin,
		surface:   NewSurface(),
		newCanvas: opts.NewCanvas,
		logger: opts.Host.Log().Named("mount").With(
			zap.String("effect", entry.Info.Key),
			zap.String("mount_id", id.String()),
		),
	}
	m.loop = NewRenderLoop(opts.Scheduler, m.advance, m.paint)
	m.tracker = NewInputTracker(m.loop.MarkDirty)

	if d, ok := effect.(Disposer); ok {
		m.scope.Defer("effect", d.Dispose)
	}
	m.scope.Defer("canvas", func() error {
		if m.canvas != nil {
			m.canvas.Dispose()
			m.canvas = nil
		}
		return nil
	})
	if opts.Hub != nil {
		cancel := opts.Hub.Subscribe(m.tracker.Handle)
		m.scope.Defer("input", func() error {
			cancel()
			return nil
		})
	}
	m.tasks = newTaskGroup(ctx)
	m.scope.Defer("tasks", m.tasks.stop)
	m.scope.Defer("loop", func() error {
		m.loop.Stop()
		return nil
	})

	if t, ok := effect.(Themed); ok {
		t.SetDark(opts.Dark)
	}
	if err := m.applySize(opts.Container, opts.PixelRatio); err != nil {
		m.fail("surface unavailable", err)
		return m, nil
	}
	if in, ok := effect.(Initializer); ok {
		host := opts.Host
		host.Logger = m.logger
		host.tasks = m.tasks
		if err := in.Init(ctx, host); err != nil {
			m.fail("effect init failed", err)
			return m, nil
		}
	}

	m.loop.Start()
	backing := m.surface.Backing()
	m.logger.Info("mounted",
		zap.Int("backing_w", backing.W),
		zap.Int("backing_h", backing.H),
		zap.Float64("pixel_ratio", m.surface.PixelRatio()),
	)
	return m, nil
}

func (m *Mount) fail(msg string, err error) {
	m.failed = true
	m.logger.Error(msg, zap.Error(err))
	if cerr := m.scope.Close(); cerr != nil {
		m.logger.Warn("release after failure", zap.Error(cerr))
	}
}

func (m *Mount) applySize(container Size, ratio float64) error {
	_, changed := m.surface.Configure(m.hint.Resolve(container), ratio)
	logical := m.surface.Logical()
	m.tracker.SetBounds(Rect{X: m.origin.X, Y: m.origin.Y, W: logical.W, H: logical.H})
	if !changed && m.canvas != nil {
		return nil
	}
	if m.canvas != nil {
		m.canvas.Dispose()
		m.canvas = nil
	}
	c, err := m.newCanvas(m.surface)
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	m.canvas = c
	m.effect.Layout(m.surface)
	m.loop.MarkDirty()
	return nil
}

// Resize applies a new container size and pixel ratio. Repeating the
// current size is a no-op.
func (m *Mount) Resize(container Size, ratio float64) {
	if m.torn || m.failed {
		return
	}
	if err := m.applySize(container, ratio); err != nil {
		m.fail("resize failed", err)
	}
}

// SetOrigin moves the surface's client-space origin.
func (m *Mount) SetOrigin(p Point) {
	m.origin = p
	b := m.tracker.Bounds()
	m.tracker.SetBounds(Rect{X: p.X, Y: p.Y, W: b.W, H: b.H})
}

// Teardown stops the loop, cancels background work, drops the input
// subscription and releases the canvas and effect resources, in that order.
// A second call returns ErrTornDown and does nothing.
func (m *Mount) Teardown() error {
	if m.torn {
		return ErrTornDown
	}
	m.torn = true
	err := m.scope.Close()
	stats := m.loop.Stats()
	m.logger.Info("torn down",
		zap.Uint64("ticks", stats.Ticks),
		zap.Uint64("paints", stats.Paints),
		zap.Bool("failed", m.failed),
	)
	return err
}

func (m *Mount) advance(now FrameTime) bool {
	var delta FrameTime
	if m.frames > 0 {
		delta = now - m.last
	}
	m.last = now
	f := Frame{
		Now:     now,
		Delta:   delta,
		Index:   m.frames,
		Pointer: m.tracker.Pointer(),
		Pressed: m.tracker.Pressed(),
		Clicks:  m.tracker.DrainClicks(),
		Surface: m.surface,
	}
	m.frames++
	return m.effect.Step(f)
}

func (m *Mount) paint() {
	if m.canvas == nil {
		return
	}
	m.effect.Paint(m.canvas)
}

// ID returns the mount's unique id.
func (m *Mount) ID() string { return m.id.String() }

// Entry returns the registry entry the mount was built from.
func (m *Mount) Entry() Entry { return m.entry }

// Effect returns the mounted effect.
func (m *Mount) Effect() Effect { return m.effect }

// Canvas returns the current canvas, or nil once failed or torn down.
func (m *Mount) Canvas() Canvas { return m.canvas }

// Surface returns the mount's surface.
func (m *Mount) Surface() *Surface { return m.surface }

// Pointer returns the tracked pointer state.
func (m *Mount) Pointer() PointerState { return m.tracker.Pointer() }

// MarkDirty forces a repaint on the next frame.
func (m *Mount) MarkDirty() { m.loop.MarkDirty() }

// Running reports whether the render loop is scheduled.
func (m *Mount) Running() bool { return m.loop.Running() }

// Stats returns the render loop counters.
func (m *Mount) Stats() LoopStats { return m.loop.Stats() }

// Failed reports whether initialization or a resize failed.
func (m *Mount) Failed() bool { return m.failed }

// TornDown reports whether Teardown has run.
func (m *Mount) TornDown() bool { return m.torn }
