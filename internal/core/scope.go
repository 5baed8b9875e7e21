package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

type release struct {
	name string
	fn   func() error
}

// Scope pairs every acquisition with its release. Close runs the releases
// once, in reverse order, on every exit path of a mount.
type Scope struct {
	mu       sync.Mutex
	releases []release
	closed   bool
}

// Defer registers fn to run at Close. On a closed scope fn runs at once and
// its error is dropped, so late acquisitions cannot leak.
func (s *Scope) Defer(name string, fn func() error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = fn()
		return
	}
	s.releases = append(s.releases, release{name: name, fn: fn})
	s.mu.Unlock()
}

// Close runs every release in reverse registration order and returns their
// combined errors. Later calls return nil.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()

	var err error
	for i := len(releases) - 1; i >= 0; i-- {
		r := releases[i]
		if rerr := r.fn(); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("release %s: %w", r.name, rerr))
		}
	}
	return err
}

// Len returns the number of pending releases.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.releases)
}

// taskGroup runs a mount's background work under a cancellable context.
type taskGroup struct {
	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
}

func newTaskGroup(parent context.Context) *taskGroup {
	ctx, cancel := context.WithCancel(parent)
	g, gctx := errgroup.WithContext(ctx)
	return &taskGroup{ctx: gctx, cancel: cancel, g: g}
}

func (t *taskGroup) Go(fn func(ctx context.Context) error) {
	t.g.Go(func() error { return fn(t.ctx) })
}

// stop cancels the group and waits for every task. Errors caused by the
// cancellation itself are not reported.
func (t *taskGroup) stop() error {
	t.cancel()
	err := t.g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
