// Package audio produces an input level for audio-reactive effects from a
// beep stream: the microphone, a synthetic tone or a looping wav file,
// optionally played through the speaker.
package audio

import (
	"math"
	"sync"

	"github.com/gopxl/beep"
)

// Tap wraps a streamer, records the most recent samples and tracks a
// smoothed RMS level. It is safe to read from another goroutine while the
// stream is being pulled.
type Tap struct {
	Source    beep.Streamer
	smoothing float64

	mu        sync.RWMutex
	buffer    [][2]float64
	nextIndex int
	level     float64
}

// NewTap wraps src. smoothing in [0, 1) weights the previous level against
// each new block, like an analyser's time constant.
func NewTap(src beep.Streamer, ringSize int, smoothing float64) *Tap {
	return &Tap{
		Source:    src,
		buffer:    make([][2]float64, max(ringSize, 1)),
		smoothing: math.Max(0, math.Min(smoothing, 0.999)),
	}
}

// Stream implements beep.Streamer.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n <= 0 {
		return n, ok
	}
	var sum float64
	t.mu.Lock()
	for i := 0; i < n; i++ {
		s := samples[i]
		sum += (s[0]*s[0] + s[1]*s[1]) / 2
		t.buffer[t.nextIndex] = s
		t.nextIndex++
		if t.nextIndex >= len(t.buffer) {
			t.nextIndex = 0
		}
	}
	rms := math.Sqrt(sum / float64(n))
	t.level = t.smoothing*t.level + (1-t.smoothing)*rms
	t.mu.Unlock()
	return n, ok
}

// Err implements beep.Streamer.
func (t *Tap) Err() error { return t.Source.Err() }

// Level reports the smoothed level in [0, 1]. A full-scale sine reads 1.
func (t *Tap) Level() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return math.Min(1, t.level*math.Sqrt2)
}

// Snapshot returns up to the last n samples, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, len(t.buffer))
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}
