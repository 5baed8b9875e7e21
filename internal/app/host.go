package app

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"canvas-designs/internal/assets"
	"canvas-designs/internal/audio"
	"canvas-designs/internal/config"
	"canvas-designs/internal/core"
)

// EffectOptions returns the per-effect option lookup for a gallery. The
// configured noise texture is handed to effects that did not set their own.
func EffectOptions(cfg *config.Config) func(key string) map[string]string {
	return func(key string) map[string]string {
		opts := maps.Clone(cfg.EffectOptions(key))
		if key == "ghost" && cfg.Assets.NoiseTextureURL != "" {
			if _, ok := opts["noise_url"]; !ok {
				opts["noise_url"] = cfg.Assets.NoiseTextureURL
			}
		}
		return opts
	}
}

// SizeHint converts the gallery size settings.
func SizeHint(cfg config.GalleryConfig) core.SizeHint {
	if cfg.Fill || cfg.Width <= 0 || cfg.Height <= 0 {
		return core.FillContainer()
	}
	return core.SizeHint{W: cfg.Width, H: cfg.Height}
}

// Resources are the capabilities shared by every mount of a host.
type Resources struct {
	Host   core.Host
	Loader *assets.Loader
	Audio  *audio.Input
}

// NewResources builds the host capabilities from cfg. Optional parts that
// fail to start are logged and left out, so an orb without a microphone
// stays static. shaders may be nil.
func NewResources(cfg *config.Config, log *zap.Logger, shaders core.ShaderCompiler, audioOpts ...audio.Option) *Resources {
	r := &Resources{
		Loader: assets.New(assets.Options{
			Client:   &http.Client{},
			Timeout:  cfg.Assets.FetchTimeout,
			MaxBytes: cfg.Assets.MaxBytes,
			Logger:   log.Named("assets"),
		}),
	}
	r.Host = core.Host{Logger: log, Textures: r.Loader}
	if shaders != nil {
		r.Host.Shaders = shaders
	}

	in, err := audio.Open(cfg.Audio, log.Named("audio"), audioOpts...)
	switch {
	case errors.Is(err, audio.ErrDisabled):
		log.Debug("audio input disabled")
	case errors.Is(err, audio.ErrCaptureUnavailable):
		log.Warn("microphone unavailable, audio-reactive designs stay static", zap.Error(err))
	case err != nil:
		log.Warn("audio input unavailable", zap.Error(err))
	default:
		r.Audio = in
		r.Host.Audio = in
	}
	return r
}

// Close stops the audio input and drops idle fetch connections.
func (r *Resources) Close() error {
	var err error
	if r.Audio != nil {
		err = multierr.Append(err, r.Audio.Close())
	}
	r.Loader.Close()
	return err
}

// StartGallery starts g at key. A key that is not part of the gallery's
// order is logged and the first design is shown instead, so a configured
// start never blocks a narrowed order.
func StartGallery(ctx context.Context, g *core.Gallery, key string, log *zap.Logger) error {
	if key != "" && !slices.ContainsFunc(g.Entries(), func(e core.Entry) bool { return e.Info.Key == key }) {
		log.Warn("start design not in gallery order, showing the first one",
			zap.String("start", key), zap.String("first", g.Entries()[0].Info.Key))
		key = ""
	}
	return g.Start(ctx, key)
}

// NewGallery resolves the configured effect order and builds a gallery
// around the given canvas factory.
func NewGallery(cfg *config.Config, res *Resources, hub *core.EventHub, newCanvas core.CanvasFactory) (*core.Gallery, error) {
	entries, err := core.Resolve(cfg.Gallery.Order)
	if err != nil {
		return nil, err
	}
	return core.NewGallery(core.GalleryOptions{
		Entries:   entries,
		Scheduler: core.NewFrameScheduler(),
		Hub:       hub,
		NewCanvas: newCanvas,
		Host:      res.Host,
		Hint:      SizeHint(cfg.Gallery),
		Dark:      cfg.Gallery.Dark,
		Options:   EffectOptions(cfg),
	})
}
