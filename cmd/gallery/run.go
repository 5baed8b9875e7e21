//go:build ebiten

package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"canvas-designs/internal/app"
	"canvas-designs/internal/config"
	"canvas-designs/internal/core"
	_ "canvas-designs/internal/effects/all"
	"canvas-designs/internal/render"
)

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	res := app.NewResources(cfg, log, render.KageCompiler{})
	defer func() {
		if err := res.Close(); err != nil {
			log.Warn("closing resources", zap.Error(err))
		}
	}()

	hub := core.NewEventHub()
	gallery, err := app.NewGallery(cfg, res, hub, render.EbitenFactory)
	if err != nil {
		return err
	}
	defer gallery.Close()

	ratio := cfg.Window.PixelRatio
	if ratio <= 0 {
		ratio = ebiten.Monitor().DeviceScaleFactor()
	}
	gallery.Resize(core.Size{W: float64(cfg.Window.Width), H: float64(cfg.Window.Height)}, ratio)
	if err := app.StartGallery(ctx, gallery, cfg.Gallery.Start, log); err != nil {
		return err
	}

	game := app.New(app.Options{
		Gallery:    gallery,
		Hub:        hub,
		Logger:     log,
		ShowHUD:    cfg.Gallery.ShowHUD,
		PixelRatio: cfg.Window.PixelRatio,
	})

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
