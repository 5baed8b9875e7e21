package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// GalleryOptions configures a Gallery.
type GalleryOptions struct {
	Entries   []Entry
	Scheduler *FrameScheduler
	Hub       *EventHub
	NewCanvas CanvasFactory
	Host      Host
	Hint      SizeHint
	Dark      bool
	// Options returns the configuration map for an effect key. It may be nil.
	Options func(key string) map[string]string
}

// Gallery keeps exactly one effect mounted and switches between entries in
// a cyclic order. A switch tears the previous mount down completely before
// the next one is built.
type Gallery struct {
	opts    GalleryOptions
	entries []Entry
	index   int
	mount   *Mount
	logger  *zap.Logger

	ctx       context.Context
	container Size
	ratio     float64
	origin    Point
	dark      bool
	started   bool
	closed    bool
}

// NewGallery validates opts. Nothing is mounted until Start.
func NewGallery(opts GalleryOptions) (*Gallery, error) {
	if len(opts.Entries) == 0 {
		return nil, ErrNoEffects
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewFrameScheduler()
	}
	if opts.NewCanvas == nil {
		return nil, errors.New("gallery: canvas factory is required")
	}
	return &Gallery{
		opts:    opts,
		entries: opts.Entries,
		logger:  opts.Host.Log().Named("gallery"),
		ratio:   1,
		dark:    opts.Dark,
	}, nil
}

// Start mounts the effect named key, or the first entry when key is empty.
func (g *Gallery) Start(ctx context.Context, key string) error {
	if g.closed {
		return ErrTornDown
	}
	g.ctx = ctx
	g.started = true
	i := 0
	if key != "" {
		var ok bool
		if i, ok = g.indexOf(key); !ok {
			return &UnknownEffectError{Key: key}
		}
	}
	return g.switchTo(i)
}

func (g *Gallery) indexOf(key string) (int, bool) {
	for i, e := range g.entries {
		if e.Info.Key == key {
			return i, true
		}
	}
	return 0, false
}

// Next mounts the following entry, wrapping to the first.
func (g *Gallery) Next() error {
	return g.switchTo((g.index + 1) % len(g.entries))
}

// Prev mounts the preceding entry, wrapping to the last.
func (g *Gallery) Prev() error {
	return g.switchTo((g.index - 1 + len(g.entries)) % len(g.entries))
}

// Select mounts the entry named key.
func (g *Gallery) Select(key string) error {
	i, ok := g.indexOf(key)
	if !ok {
		return &UnknownEffectError{Key: key}
	}
	return g.switchTo(i)
}

func (g *Gallery) switchTo(i int) error {
	if g.closed {
		return ErrTornDown
	}
	if !g.started {
		return errors.New("gallery: not started")
	}
	if g.mount != nil {
		prev := g.mount
		g.mount = nil
		if err := prev.Teardown(); err != nil {
			g.logger.Warn("teardown reported errors",
				zap.String("effect", prev.Entry().Info.Key), zap.Error(err))
		}
	}

	g.index = i
	entry := g.entries[i]
	var cfg map[string]string
	if g.opts.Options != nil {
		cfg = g.opts.Options(entry.Info.Key)
	}
	m, err := NewMount(g.ctx, entry, MountOptions{
		Hint:       g.opts.Hint,
		Container:  g.container,
		PixelRatio: g.ratio,
		Origin:     g.origin,
		Scheduler:  g.opts.Scheduler,
		Hub:        g.opts.Hub,
		NewCanvas:  g.opts.NewCanvas,
		Host:       g.opts.Host,
		Config:     cfg,
		Dark:       g.dark,
	})
	if err != nil {
		return fmt.Errorf("mount %s: %w", entry.Info.Key, err)
	}
	g.mount = m
	g.logger.Debug("active effect changed",
		zap.String("effect", entry.Info.Key),
		zap.Int("index", i),
		zap.String("mount_id", m.ID()),
	)
	return nil
}

// Resize forwards a container size change to the active mount.
func (g *Gallery) Resize(container Size, ratio float64) {
	g.container = container
	g.ratio = ratio
	if g.mount != nil {
		g.mount.Resize(container, ratio)
	}
}

// SetOrigin sets where the mounted surface sits in client coordinates.
func (g *Gallery) SetOrigin(p Point) {
	g.origin = p
	if g.mount != nil {
		g.mount.SetOrigin(p)
	}
}

// Frame pumps the scheduler once and returns the number of callbacks run.
func (g *Gallery) Frame(now FrameTime) int {
	return g.opts.Scheduler.Pump(now)
}

// ToggleTheme flips between dark and light palettes and returns the new
// setting.
func (g *Gallery) ToggleTheme() bool {
	g.dark = !g.dark
	if g.mount != nil {
		if t, ok := g.mount.Effect().(Themed); ok {
			t.SetDark(g.dark)
			g.mount.MarkDirty()
		}
	}
	return g.dark
}

// Dark reports whether the dark theme is selected.
func (g *Gallery) Dark() bool { return g.dark }

// Current returns the selected entry.
func (g *Gallery) Current() Entry { return g.entries[g.index] }

// Index returns the position of the selected entry.
func (g *Gallery) Index() int { return g.index }

// Entries returns the gallery sequence.
func (g *Gallery) Entries() []Entry { return g.entries }

// Active returns the live mount, or nil.
func (g *Gallery) Active() *Mount { return g.mount }

// Scheduler returns the frame scheduler the gallery pumps.
func (g *Gallery) Scheduler() *FrameScheduler { return g.opts.Scheduler }

// Close tears down the active mount. The gallery cannot be used afterwards.
func (g *Gallery) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if g.mount == nil {
		return nil
	}
	m := g.mount
	g.mount = nil
	return m.Teardown()
}
