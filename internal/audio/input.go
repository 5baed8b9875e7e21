package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"canvas-designs/internal/config"
)

// SampleRate is the rate every source is resampled to.
const SampleRate = beep.SampleRate(44100)

// pumpInterval is how often a silent input pulls samples.
const pumpInterval = 20 * time.Millisecond

// ErrDisabled is returned by Open when the audio mode is off.
var ErrDisabled = errors.New("audio disabled")

// Input is a running level source.
type Input struct {
	tap    *Tap
	closer func() error
	log    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	speaker bool
	once    sync.Once
}

// Level implements core.LevelSource.
func (in *Input) Level() float64 { return in.tap.Level() }

// Tap exposes the underlying tap.
func (in *Input) Tap() *Tap { return in.tap }

// Speaker reports whether the stream is played through the speaker.
func (in *Input) Speaker() bool { return in.speaker }

// Option configures Open.
type Option func(*options)

type options struct {
	capture Capturer
}

// WithCapturer replaces the microphone opener used by the mic mode.
func WithCapturer(c Capturer) Option {
	return func(o *options) { o.capture = c }
}

// Open starts the source selected by cfg. When playback is requested but
// the speaker cannot be opened, the input keeps running silently. The
// microphone is never played back.
func Open(cfg config.AudioConfig, log *zap.Logger, opts ...Option) (*Input, error) {
	if log == nil {
		log = zap.NewNop()
	}
	o := options{capture: DeviceCapturer}
	for _, opt := range opts {
		opt(&o)
	}
	src, closer, err := source(cfg, o)
	if err != nil {
		return nil, err
	}
	if cfg.Mode == config.AudioMic {
		cfg.Playback = false
	}
	in := &Input{
		tap:    NewTap(src, cfg.RingSize, cfg.Smoothing),
		closer: closer,
		log:    log,
	}
	if cfg.Playback {
		if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
			log.Warn("speaker unavailable, analysing silently", zap.Error(err))
		} else {
			in.speaker = true
			speaker.Play(in.tap)
		}
	}
	if !in.speaker {
		in.startPump()
	}
	log.Info("audio input started", zap.String("mode", cfg.Mode), zap.Bool("speaker", in.speaker))
	return in, nil
}

func source(cfg config.AudioConfig, o options) (beep.Streamer, func() error, error) {
	switch cfg.Mode {
	case config.AudioMic:
		return openCapture(o.capture)
	case config.AudioTone:
		s, err := generators.SineTone(SampleRate, cfg.ToneHz)
		if err != nil {
			return nil, nil, fmt.Errorf("tone %.1f Hz: %w", cfg.ToneHz, err)
		}
		return s, nil, nil
	case config.AudioFile:
		return openWav(cfg.File)
	case config.AudioOff, "":
		return nil, nil, ErrDisabled
	}
	return nil, nil, fmt.Errorf("audio mode %q: %w", cfg.Mode, ErrDisabled)
}

func openWav(path string) (beep.Streamer, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open audio file: %w", err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	var out beep.Streamer = beep.Loop(-1, s)
	if format.SampleRate != SampleRate {
		out = beep.Resample(4, format.SampleRate, SampleRate, out)
	}
	return out, s.Close, nil
}

func openCapture(capture Capturer) (beep.Streamer, func() error, error) {
	if capture == nil {
		return nil, nil, ErrCaptureUnavailable
	}
	stream := newCaptureStream(SampleRate.N(time.Second))
	stop, err := capture(uint32(SampleRate.N(time.Second)), stream.push)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}
	return stream, stop, nil
}

// startPump pulls samples in real time when nothing else consumes the tap.
func (in *Input) startPump() {
	ctx, cancel := context.WithCancel(context.Background())
	in.cancel = cancel
	in.wg.Add(1)
	go func() {
		defer in.wg.Done()
		buf := make([][2]float64, SampleRate.N(pumpInterval))
		ticker := time.NewTicker(pumpInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, ok := in.tap.Stream(buf); !ok {
					if err := in.tap.Err(); err != nil {
						in.log.Warn("audio stream ended", zap.Error(err))
					}
					return
				}
			}
		}
	}()
}

// Close stops the stream and releases the source. It is idempotent.
func (in *Input) Close() error {
	var err error
	in.once.Do(func() {
		if in.speaker {
			speaker.Clear()
			speaker.Close()
		}
		if in.cancel != nil {
			in.cancel()
			in.wg.Wait()
		}
		if in.closer != nil {
			err = in.closer()
		}
	})
	return err
}
