package app

import (
	"fmt"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"canvas-designs/internal/config"
	"canvas-designs/internal/observability"
)

// flagKeys maps command line flags onto configuration keys. Flags a command
// does not define are skipped.
var flagKeys = map[string]string{
	"start":       "gallery.start",
	"order":       "gallery.order",
	"dark":        "gallery.dark",
	"hud":         "gallery.show_hud",
	"width":       "window.width",
	"height":      "window.height",
	"tps":         "window.tps",
	"pixel-ratio": "window.pixel_ratio",
	"audio":       "audio.mode",
	"audio-file":  "audio.file",
	"log-level":   "logger.level",
}

// AddFlags registers the flags shared by every command.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("start", "", "key of the first design to show")
	fs.StringSlice("order", nil, "comma separated design keys, in gallery order")
	fs.Bool("dark", true, "start in the dark theme")
	fs.String("audio", config.AudioOff, "audio level source: off, mic, tone or file")
	fs.String("audio-file", "", "wav file used when --audio=file")
	fs.String("log-level", "", "log level override")
}

// LoadConfig reads cfgFile (or the default search path), the environment
// and the flags that were set, in increasing precedence.
func LoadConfig(cfgFile string, fs *pflag.FlagSet) (*config.Config, error) {
	v, err := config.New(cfgFile)
	if err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return config.NewConfigFromViper(v)
}

// Setup loads the configuration and initializes the global logger.
func Setup(cfgFile string, fs *pflag.FlagSet) (*config.Config, *zap.Logger, error) {
	cfg, err := LoadConfig(cfgFile, fs)
	if err != nil {
		observability.InitializeLogger(config.Default().Logger)
		return nil, observability.GetLogger(), err
	}
	observability.InitializeLogger(cfg.Logger)
	return cfg, observability.GetLogger(), nil
}
