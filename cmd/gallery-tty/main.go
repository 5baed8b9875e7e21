// Command gallery-tty shows the designs in a terminal using half-block
// cells. Arrow keys switch designs, t toggles the theme, q quits.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"canvas-designs/internal/app"
	"canvas-designs/internal/config"
	"canvas-designs/internal/core"
	_ "canvas-designs/internal/effects/all"
	"canvas-designs/internal/observability"
	"canvas-designs/internal/render"
	"canvas-designs/internal/ui"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gallery-tty",
	Short: "Browse the animated canvas designs in a terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		// stdout belongs to the screen; only the file sink, if any, is kept.
		observability.Initialize(cfg.Logger, zapcore.AddSync(io.Discard))
		defer observability.Sync()
		return run(cmd.Context(), cfg, observability.GetLogger())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./canvas-designs.yaml)")
	fs := rootCmd.Flags()
	app.AddFlags(fs)
	fs.Int("tps", 0, "frames per second")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func background(dark bool) tcell.Color {
	if dark {
		return tcell.NewRGBColor(0, 0, 0)
	}
	return tcell.NewRGBColor(255, 255, 255)
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	res := app.NewResources(cfg, log, nil)
	defer res.Close()

	hub := core.NewEventHub()
	bg := render.Hex("#000000")
	if !cfg.Gallery.Dark {
		bg = render.Hex("#ffffff")
	}
	gallery, err := app.NewGallery(cfg, res, hub, render.TerminalFactory(bg))
	if err != nil {
		return err
	}
	defer gallery.Close()

	resize := func() {
		cols, rows := screen.Size()
		// The last row holds the caption.
		size, ratio := render.TerminalContainer(cols, max(rows-1, 1))
		gallery.Resize(size, ratio)
	}
	resize()
	if err := app.StartGallery(ctx, gallery, cfg.Gallery.Start, log); err != nil {
		return err
	}

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	events := make(chan tcell.Event, 64)
	go forwardEvents(loopCtx, screen.PollEvent, events)

	pace := core.NewFixedStep(cfg.Window.TPS)
	ticker := time.NewTicker(pace.Interval())
	defer ticker.Stop()
	start := time.Now()
	pressed := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quit := handleKey(ev, gallery, log); quit {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				resize()
			case *tcell.EventMouse:
				var out []core.InputEvent
				out, pressed = render.TerminalEvents(ev, pressed)
				for _, e := range out {
					hub.Publish(e)
				}
			}
		case <-ticker.C:
			if !pace.ShouldStep() {
				continue
			}
			gallery.Frame(time.Since(start))
			draw(screen, gallery)
		}
	}
}

// forwardEvents sends polled events to out until poll returns nil or ctx is
// done. out is closed on return.
func forwardEvents(ctx context.Context, poll func() tcell.Event, out chan<- tcell.Event) {
	defer close(out)
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func handleKey(ev *tcell.EventKey, g *core.Gallery, log *zap.Logger) bool {
	var err error
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
		return true
	case ev.Key() == tcell.KeyRight || ev.Rune() == 'n':
		err = g.Next()
	case ev.Key() == tcell.KeyLeft || ev.Rune() == 'p':
		err = g.Prev()
	case ev.Rune() == 't':
		g.ToggleTheme()
	}
	if err != nil {
		log.Error("switch failed", zap.Error(err))
	}
	return false
}

func draw(screen tcell.Screen, g *core.Gallery) {
	screen.Clear()
	if m := g.Active(); m != nil {
		if c, ok := m.Canvas().(*render.TerminalCanvas); ok {
			c.Present(screen, 0, 0)
		}
	}
	_, rows := screen.Size()
	style := tcell.StyleDefault.Background(background(g.Dark())).Foreground(background(!g.Dark()))
	caption := ui.Caption(g.Current(), g.Index(), len(g.Entries())) + "   ←/→ switch  t theme  q quit"
	for i, r := range []rune(caption) {
		screen.SetContent(i, rows-1, r, nil, style)
	}
	screen.Show()
}
