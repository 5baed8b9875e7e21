package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{R: 200, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLoader(t *testing.T, srv *httptest.Server, opts Options) *Loader {
	opts.Client = srv.Client()
	opts.Logger = zaptest.NewLogger(t)
	return New(opts)
}

func TestLoadDecodesAndCaches(t *testing.T) {
	defer goleak.VerifyNone(t)
	body := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))
	defer srv.Close()

	l := newLoader(t, srv, Options{})
	defer l.Close()
	img, err := l.Load(context.Background(), srv.URL+"/noise.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(200*0x101), r)

	again, err := l.Load(context.Background(), srv.URL+"/noise.png")
	require.NoError(t, err)
	assert.Same(t, img, again)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, Stats{Fetches: 1, Hits: 1}, l.Stats())
}

func TestConcurrentLoadsShareOneRequest(t *testing.T) {
	defer goleak.VerifyNone(t)
	body := pngBytes(t)
	var hits atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		entered <- struct{}{}
		<-release
		w.Write(body)
	}))
	defer srv.Close()
	l := newLoader(t, srv, Options{})
	defer l.Close()

	var wg sync.WaitGroup
	imgs := make([]image.Image, 8)
	for i := range imgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := l.Load(context.Background(), srv.URL)
			assert.NoError(t, err)
			imgs[i] = img
		}()
	}
	<-entered
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for _, img := range imgs {
		assert.Same(t, imgs[0], img)
	}
}

func TestFailuresAreNotCached(t *testing.T) {
	defer goleak.VerifyNone(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()
	l := newLoader(t, srv, Options{})
	defer l.Close()

	_, err := l.Load(context.Background(), srv.URL)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)

	_, err = l.Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 2, l.Stats().Errors)
}

func TestSizeLimitAndBadData(t *testing.T) {
	defer goleak.VerifyNone(t)
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/junk" {
			w.Write([]byte("not an image"))
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	l := newLoader(t, srv, Options{MaxBytes: 16})
	defer l.Close()
	_, err := l.Load(context.Background(), srv.URL+"/big")
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = l.Load(context.Background(), srv.URL+"/junk")
	require.ErrorIs(t, err, image.ErrFormat)
}

func TestTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()
	l := newLoader(t, srv, Options{Timeout: 50 * time.Millisecond})
	defer l.Close()

	_, err := l.Load(context.Background(), srv.URL)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCancelledWaiterDoesNotAbortSharedFetch(t *testing.T) {
	defer goleak.VerifyNone(t)
	body := pngBytes(t)
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
		w.Write(body)
	}))
	defer srv.Close()
	l := newLoader(t, srv, Options{})
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, srv.URL)
		errc <- err
	}()
	<-entered
	cancel()
	assert.True(t, errors.Is(<-errc, context.Canceled))

	done := make(chan image.Image, 1)
	go func() {
		img, _ := l.Load(context.Background(), srv.URL)
		done <- img
	}()
	close(release)
	assert.NotNil(t, <-done)
}
