// Package assets fetches and decodes remote textures once per URL.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// ErrTooLarge is returned when a response body exceeds the size limit.
var ErrTooLarge = errors.New("texture exceeds size limit")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// Options configures a Loader.
type Options struct {
	Client *http.Client
	// Timeout bounds one fetch including the body read. Zero means none.
	Timeout time.Duration
	// MaxBytes caps the body size. Zero means 8 MiB.
	MaxBytes int64
	Logger   *zap.Logger
}

// Loader implements core.TextureLoader. Concurrent loads of one URL share a
// single request; decoded images are cached, failures are not.
type Loader struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	log      *zap.Logger

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]image.Image
	stats Stats
}

// Stats counts loader activity.
type Stats struct {
	Fetches int
	Hits    int
	Errors  int
}

// New creates a Loader.
func New(opts Options) *Loader {
	l := &Loader{
		client:   opts.Client,
		timeout:  opts.Timeout,
		maxBytes: opts.MaxBytes,
		log:      opts.Logger,
		cache:    map[string]image.Image{},
	}
	if l.client == nil {
		l.client = &http.Client{}
	}
	if l.maxBytes <= 0 {
		l.maxBytes = 8 << 20
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	return l
}

// Load returns the decoded image at url. Cancelling ctx abandons the wait
// but not a fetch other callers may be sharing.
func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	l.mu.Lock()
	if img, ok := l.cache[url]; ok {
		l.stats.Hits++
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	ch := l.group.DoChan(url, func() (any, error) {
		img, err := l.fetch(context.WithoutCancel(ctx), url)
		l.mu.Lock()
		defer l.mu.Unlock()
		l.stats.Fetches++
		if err != nil {
			l.stats.Errors++
			return nil, err
		}
		l.cache[url] = img
		return img, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("fetch %s: %w", url, ErrTooLarge)
	}
	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	l.log.Debug("texture loaded",
		zap.String("url", url),
		zap.String("format", format),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))
	return img, nil
}

// Stats returns a snapshot of the counters.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Close drops idle connections held by the client.
func (l *Loader) Close() {
	l.client.CloseIdleConnections()
}
