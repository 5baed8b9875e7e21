package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for every canvas-designs binary.
type Config struct {
	Logger  LoggerConfig                 `mapstructure:"logger" yaml:"logger"`
	Window  WindowConfig                 `mapstructure:"window" yaml:"window"`
	Gallery GalleryConfig                `mapstructure:"gallery" yaml:"gallery"`
	Effects map[string]map[string]string `mapstructure:"effects" yaml:"effects"`
	Assets  AssetsConfig                 `mapstructure:"assets" yaml:"assets"`
	Audio   AudioConfig                  `mapstructure:"audio" yaml:"audio"`
}

// LoggerConfig holds the logging configuration.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names used for each log level on the console.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// WindowConfig controls the host window or terminal.
type WindowConfig struct {
	Title  string `mapstructure:"title" yaml:"title"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	TPS    int    `mapstructure:"tps" yaml:"tps"`

	// PixelRatio overrides the device scale factor when positive.
	PixelRatio float64 `mapstructure:"pixel_ratio" yaml:"pixel_ratio"`
}

// GalleryConfig controls which designs are shown and in what order.
type GalleryConfig struct {
	// Start is the key of the first design shown; empty means the first
	// design in Order.
	Start string   `mapstructure:"start" yaml:"start"`
	Order []string `mapstructure:"order" yaml:"order"`
	Dark  bool     `mapstructure:"dark" yaml:"dark"`

	// Fill mounts effects at the container size; otherwise Width/Height
	// are used as an explicit size.
	Fill    bool    `mapstructure:"fill" yaml:"fill"`
	Width   float64 `mapstructure:"width" yaml:"width"`
	Height  float64 `mapstructure:"height" yaml:"height"`
	ShowHUD bool    `mapstructure:"show_hud" yaml:"show_hud"`
}

// AssetsConfig controls the one-shot texture fetches.
type AssetsConfig struct {
	NoiseTextureURL string        `mapstructure:"noise_texture_url" yaml:"noise_texture_url"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	MaxBytes        int64         `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// AudioConfig selects the level source for audio-reactive effects.
type AudioConfig struct {
	Mode      string  `mapstructure:"mode" yaml:"mode"` // off, mic, tone or file
	File      string  `mapstructure:"file" yaml:"file"`
	ToneHz    float64 `mapstructure:"tone_hz" yaml:"tone_hz"`
	Playback  bool    `mapstructure:"playback" yaml:"playback"`
	RingSize  int     `mapstructure:"ring_size" yaml:"ring_size"`
	Smoothing float64 `mapstructure:"smoothing" yaml:"smoothing"`
}

// Audio modes.
const (
	AudioOff  = "off"
	AudioMic  = "mic"
	AudioTone = "tone"
	AudioFile = "file"
)

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "canvas-designs")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Window --
	v.SetDefault("window.title", "canvas-designs")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("window.tps", 60)
	v.SetDefault("window.pixel_ratio", 0.0)

	// -- Gallery --
	v.SetDefault("gallery.start", "")
	v.SetDefault("gallery.order", []string{})
	v.SetDefault("gallery.dark", true)
	v.SetDefault("gallery.fill", true)
	v.SetDefault("gallery.width", 0.0)
	v.SetDefault("gallery.height", 0.0)
	v.SetDefault("gallery.show_hud", false)

	// -- Assets --
	v.SetDefault("assets.noise_texture_url", "https://s3-us-west-2.amazonaws.com/s.cdpn.io/982762/noise.png")
	v.SetDefault("assets.fetch_timeout", "10s")
	v.SetDefault("assets.max_bytes", 8<<20)

	// -- Audio --
	v.SetDefault("audio.mode", AudioOff)
	v.SetDefault("audio.file", "")
	v.SetDefault("audio.tone_hz", 220.0)
	v.SetDefault("audio.playback", false)
	v.SetDefault("audio.ring_size", 4096)
	v.SetDefault("audio.smoothing", 0.8)
}

// New returns a viper instance with defaults, environment binding and the
// optional config file loaded. A missing default config file is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("CANVAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("canvas-designs")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}
	return v, nil
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults are static; a failure here is a programming error.
		panic(err)
	}
	return cfg
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window.tps must be positive, got %d", c.Window.TPS)
	}
	if c.Window.PixelRatio < 0 {
		return fmt.Errorf("window.pixel_ratio must not be negative, got %f", c.Window.PixelRatio)
	}
	if !c.Gallery.Fill && (c.Gallery.Width < 0 || c.Gallery.Height < 0) {
		return fmt.Errorf("gallery size must not be negative, got %gx%g", c.Gallery.Width, c.Gallery.Height)
	}
	switch c.Audio.Mode {
	case AudioOff, AudioMic, AudioTone:
	case AudioFile:
		if c.Audio.File == "" {
			return fmt.Errorf("audio.file is required when audio.mode is %q", AudioFile)
		}
	default:
		return fmt.Errorf("unknown audio.mode %q", c.Audio.Mode)
	}
	if c.Audio.Smoothing < 0 || c.Audio.Smoothing >= 1 {
		return fmt.Errorf("audio.smoothing must be in [0,1), got %f", c.Audio.Smoothing)
	}
	if c.Assets.FetchTimeout < 0 {
		return fmt.Errorf("assets.fetch_timeout must not be negative")
	}
	return nil
}

// EffectOptions returns the string options configured for an effect key.
// The returned map is never nil.
func (c *Config) EffectOptions(key string) map[string]string {
	if c == nil || c.Effects == nil {
		return map[string]string{}
	}
	opts, ok := c.Effects[key]
	if !ok || opts == nil {
		return map[string]string{}
	}
	return opts
}
