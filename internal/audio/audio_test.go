package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"canvas-designs/internal/config"
)

func TestTapLevelOfFullScaleSine(t *testing.T) {
	sine, err := generators.SineTone(SampleRate, 441)
	require.NoError(t, err)
	tap := NewTap(sine, 16, 0)
	buf := make([][2]float64, 1000)
	n, ok := tap.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 1000, n)
	assert.InDelta(t, 1, tap.Level(), 1e-3)
}

func TestTapSilenceAndSmoothing(t *testing.T) {
	sine, err := generators.SineTone(SampleRate, 441)
	require.NoError(t, err)
	tap := NewTap(sine, 16, 0.5)
	buf := make([][2]float64, 1000)
	tap.Stream(buf)
	assert.InDelta(t, 0.5, tap.Level(), 1e-3, "half of the first block's level")

	tap.Source = beep.Silence(-1)
	tap.Stream(buf)
	assert.InDelta(t, 0.25, tap.Level(), 1e-3)
}

func TestTapSnapshotIsChronological(t *testing.T) {
	i := 0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			i++
			samples[j] = [2]float64{float64(i), 0}
		}
		return len(samples), true
	})
	tap := NewTap(src, 4, 0)
	tap.Stream(make([][2]float64, 3))
	tap.Stream(make([][2]float64, 3))

	snap := tap.Snapshot(3)
	require.Len(t, snap, 3)
	assert.Equal(t, []float64{4, 5, 6}, []float64{snap[0][0], snap[1][0], snap[2][0]})
	assert.Len(t, tap.Snapshot(10), 4)
}

func TestOpenDisabled(t *testing.T) {
	_, err := Open(config.AudioConfig{Mode: config.AudioOff}, nil)
	require.ErrorIs(t, err, ErrDisabled)
	_, err = Open(config.AudioConfig{Mode: "radio"}, nil)
	require.ErrorIs(t, err, ErrDisabled)
}

func TestOpenToneWithoutSpeaker(t *testing.T) {
	defer goleak.VerifyNone(t)
	in, err := Open(config.AudioConfig{Mode: config.AudioTone, ToneHz: 220, RingSize: 256, Smoothing: 0.5}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, in.Speaker())
	require.Eventually(t, func() bool { return in.Level() > 0.9 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, in.Close())
	require.NoError(t, in.Close())
}

func TestOpenWavFile(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	sine, err := generators.SineTone(22050, 300)
	require.NoError(t, err)
	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(2205, sine), format))
	require.NoError(t, f.Close())

	in, err := Open(config.AudioConfig{Mode: config.AudioFile, File: path, RingSize: 64}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return in.Level() > 0.5 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, in.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(config.AudioConfig{Mode: config.AudioFile, File: filepath.Join(t.TempDir(), "nope.wav")}, nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// steadyCapturer delivers a constant mono signal every few milliseconds
// until stopped.
type steadyCapturer struct {
	value   float32
	stopped chan struct{}
	done    chan struct{}
}

func (c *steadyCapturer) open(rate uint32, onSamples func([]float32)) (func() error, error) {
	c.stopped = make(chan struct{})
	c.done = make(chan struct{})
	block := make([]float32, rate/200)
	for i := range block {
		block[i] = c.value
	}
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-c.stopped:
				return
			case <-ticker.C:
				onSamples(block)
			}
		}
	}()
	return func() error {
		close(c.stopped)
		<-c.done
		return nil
	}, nil
}

func TestOpenMicrophoneFeedsLevel(t *testing.T) {
	defer goleak.VerifyNone(t)
	mic := &steadyCapturer{value: 0.5}
	cfg := config.AudioConfig{Mode: config.AudioMic, Playback: true, RingSize: 128, Smoothing: 0.5}

	in, err := Open(cfg, zaptest.NewLogger(t), WithCapturer(mic.open))
	require.NoError(t, err)
	assert.False(t, in.Speaker(), "the microphone is never played back")
	require.Eventually(t, func() bool { return in.Level() > 0.3 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, in.Close())

	select {
	case <-mic.done:
	default:
		t.Fatal("capture device still running after Close")
	}
}

func TestOpenMicrophoneDenied(t *testing.T) {
	defer goleak.VerifyNone(t)
	denied := errors.New("permission denied")
	capture := func(uint32, func([]float32)) (func() error, error) { return nil, denied }

	in, err := Open(config.AudioConfig{Mode: config.AudioMic}, zaptest.NewLogger(t), WithCapturer(capture))
	assert.Nil(t, in)
	require.ErrorIs(t, err, ErrCaptureUnavailable)
	require.ErrorIs(t, err, denied)
}

func TestCaptureStreamPadsAndDropsOldest(t *testing.T) {
	s := newCaptureStream(4)
	s.push([]float32{0.1, 0.2, 0.3})
	s.push([]float32{0.4, 0.5})

	out := make([][2]float64, 6)
	n, ok := s.Stream(out)
	require.True(t, ok)
	require.Equal(t, 6, n)
	assert.InDelta(t, 0.2, out[0][0], 1e-6)
	assert.InDelta(t, 0.5, out[3][1], 1e-6)
	assert.Equal(t, [2]float64{}, out[4])
	assert.Equal(t, [2]float64{}, out[5])

	n, _ = s.Stream(out[:2])
	assert.Equal(t, 2, n)
	assert.Equal(t, [2]float64{}, out[0])
	assert.NoError(t, s.Err())
}
