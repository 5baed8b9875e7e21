package audio

import (
	"errors"
	"sync"
)

// ErrCaptureUnavailable is returned when no capture device can be opened,
// including when access to the microphone is denied.
var ErrCaptureUnavailable = errors.New("audio capture unavailable")

// Capturer opens a capture device at sampleRate and calls onSamples with
// mono samples in [-1, 1] from the device's own thread. onSamples must not
// retain the slice. The returned stop func releases the device.
type Capturer func(sampleRate uint32, onSamples func([]float32)) (stop func() error, err error)

// captureStream is a beep.Streamer fed by a capture callback. Samples that
// arrive faster than they are pulled are dropped oldest first; a pull that
// finds nothing is answered with silence so the stream never ends.
type captureStream struct {
	mu      sync.Mutex
	pending []float32
	limit   int
}

func newCaptureStream(limit int) *captureStream {
	return &captureStream{limit: max(limit, 1)}
}

func (c *captureStream) push(samples []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, samples...)
	if over := len(c.pending) - c.limit; over > 0 {
		c.pending = append(c.pending[:0], c.pending[over:]...)
	}
}

// Stream implements beep.Streamer.
func (c *captureStream) Stream(samples [][2]float64) (int, bool) {
	c.mu.Lock()
	n := copy32(samples, c.pending)
	c.pending = append(c.pending[:0], c.pending[n:]...)
	c.mu.Unlock()
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (c *captureStream) Err() error { return nil }

func copy32(dst [][2]float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		v := float64(src[i])
		dst[i] = [2]float64{v, v}
	}
	return n
}
