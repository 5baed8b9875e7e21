// Command snapshot renders each design headlessly and writes one PNG per
// design. A scripted pointer sweeps across the canvas and clicks once in
// the middle of the run so interactive designs have something to show.
package main

import (
	"context"
	"fmt"
	"image/png"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"canvas-designs/internal/app"
	"canvas-designs/internal/config"
	"canvas-designs/internal/core"
	_ "canvas-designs/internal/effects/all"
	"canvas-designs/internal/observability"
	"canvas-designs/internal/render"
)

var (
	cfgFile string
	outDir  string
	frames  int
	ratio   float64
)

var rootCmd = &cobra.Command{
	Use:   "snapshot [keys...]",
	Short: "Render designs to PNG files without a window.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := app.Setup(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		defer observability.Sync()
		if len(args) > 0 {
			cfg.Gallery.Order = args
		}
		return snapshot(cmd.Context(), cfg, log)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./canvas-designs.yaml)")
	fs := rootCmd.Flags()
	app.AddFlags(fs)
	fs.Int("width", 0, "canvas width in logical pixels")
	fs.Int("height", 0, "canvas height in logical pixels")
	fs.StringVarP(&outDir, "out", "o", ".", "output directory")
	fs.IntVar(&frames, "frames", 120, "frames to simulate before capturing")
	fs.Float64Var(&ratio, "ratio", 1, "device pixel ratio")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const frameInterval = time.Second / 60

func snapshot(ctx context.Context, cfg *config.Config, log *zap.Logger) (err error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	res := app.NewResources(cfg, log, nil)
	defer func() { err = multierr.Append(err, res.Close()) }()

	hub := core.NewEventHub()
	gallery, err := app.NewGallery(cfg, res, hub, render.RasterFactory)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, gallery.Close()) }()

	size := core.Size{W: float64(cfg.Window.Width), H: float64(cfg.Window.Height)}
	gallery.Resize(size, ratio)
	if err := gallery.Start(ctx, ""); err != nil {
		return err
	}

	var now core.FrameTime
	for i, entry := range gallery.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			if err := gallery.Select(entry.Info.Key); err != nil {
				log.Error("mount failed", zap.String("effect", entry.Info.Key), zap.Error(err))
				continue
			}
		}
		for f := 0; f < frames; f++ {
			for _, ev := range script(f, frames, size) {
				hub.Publish(ev)
			}
			now += frameInterval
			gallery.Frame(now)
		}
		if err := write(gallery.Active(), entry.Info.Key); err != nil {
			return err
		}
		log.Info("snapshot written", zap.String("effect", entry.Info.Key), zap.Int("frames", frames))
	}
	return nil
}

// script returns the pointer events for frame f of n: a Lissajous sweep
// with a click at the halfway mark.
func script(f, n int, size core.Size) []core.InputEvent {
	t := float64(f) / float64(max(n, 1))
	x := size.W * (0.5 + 0.35*math.Sin(2*math.Pi*t))
	y := size.H * (0.5 + 0.35*math.Sin(4*math.Pi*t))
	evs := []core.InputEvent{{Kind: core.EventMove, X: x, Y: y}}
	if f == n/2 {
		evs = append(evs,
			core.InputEvent{Kind: core.EventDown, X: x, Y: y},
			core.InputEvent{Kind: core.EventUp, X: x, Y: y},
			core.InputEvent{Kind: core.EventClick, X: x, Y: y},
		)
	}
	return evs
}

func write(m *core.Mount, key string) (err error) {
	if m == nil {
		return fmt.Errorf("%s: no active mount", key)
	}
	c, ok := m.Canvas().(*render.RasterCanvas)
	if !ok || c.Image() == nil {
		return fmt.Errorf("%s: canvas has no image", key)
	}
	f, err := os.Create(filepath.Join(outDir, key+".png"))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return png.Encode(f, c.Image())
}
