package core

import (
	"slices"
	"sync"
	"time"
)

// FrameTime is the host clock reading handed to frame callbacks.
type FrameTime = time.Duration

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

// FrameCallback runs once on the next pumped frame.
type FrameCallback func(now FrameTime)

type frameRequest struct {
	id FrameID
	fn FrameCallback
}

// FrameScheduler is the host's animation-frame queue. Hosts call Pump once
// per display refresh; callbacks requested during a pump run on the next
// one, so a callback that reschedules itself runs exactly once per frame.
type FrameScheduler struct {
	mu      sync.Mutex
	next    FrameID
	pending []frameRequest
	running map[FrameID]struct{}
}

// NewFrameScheduler returns an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{running: make(map[FrameID]struct{})}
}

// Request queues fn for the next pump.
func (s *FrameScheduler) Request(fn FrameCallback) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending = append(s.pending, frameRequest{id: s.next, fn: fn})
	return s.next
}

// Cancel removes a pending request. Once Cancel returns the callback will
// not run, even when it belongs to the batch currently being pumped.
// Unknown or already-run ids are ignored.
func (s *FrameScheduler) Cancel(id FrameID) {
	if id == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
	s.pending = slices.DeleteFunc(s.pending, func(r frameRequest) bool { return r.id == id })
}

// Pump runs every callback that was pending when it was called and returns
// how many ran.
func (s *FrameScheduler) Pump(now FrameTime) int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	for _, r := range batch {
		s.running[r.id] = struct{}{}
	}
	s.mu.Unlock()

	ran := 0
	for _, r := range batch {
		s.mu.Lock()
		_, live := s.running[r.id]
		delete(s.running, r.id)
		s.mu.Unlock()
		if !live {
			continue
		}
		r.fn(now)
		ran++
	}
	return ran
}

// Pending returns the number of callbacks waiting for the next pump.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
