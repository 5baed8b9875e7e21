//go:build cgo

package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gen2brain/malgo"
)

// DeviceCapturer opens the default microphone through miniaudio.
func DeviceCapturer(sampleRate uint32, onSamples func([]float32)) (func() error, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	release := func() error {
		err := mctx.Uninit()
		mctx.Free()
		return err
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = 1
	cfg.SampleRate = sampleRate
	cfg.Alsa.NoMMap = 1

	var buf []float32
	onData := func(_, in []byte, frames uint32) {
		n := min(int(frames), len(in)/4)
		buf = buf[:0]
		for i := 0; i < n; i++ {
			buf = append(buf, math.Float32frombits(binary.NativeEndian.Uint32(in[i*4:])))
		}
		onSamples(buf)
	}
	dev, err := malgo.InitDevice(mctx.Context, cfg, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("open capture device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		_ = release()
		return nil, fmt.Errorf("start capture device: %w", err)
	}
	return func() error {
		dev.Uninit()
		return release()
	}, nil
}
