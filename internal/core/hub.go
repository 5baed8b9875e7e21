package core

import (
	"slices"
	"sync"
)

// Listener receives input events published on an EventHub.
type Listener func(InputEvent)

// EventHub fans host input events out to the listeners of mounted effects.
type EventHub struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]Listener
	order     []uint64
}

// NewEventHub returns an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{listeners: make(map[uint64]Listener)}
}

// Subscribe registers l and returns a cancel function. Calling cancel more
// than once is harmless.
func (h *EventHub) Subscribe(l Listener) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.listeners[id] = l
	h.order = append(h.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.listeners, id)
			if i := slices.Index(h.order, id); i >= 0 {
				h.order = slices.Delete(h.order, i, i+1)
			}
		})
	}
}

// Publish delivers ev to every listener in subscription order. Listeners
// cancelled by an earlier listener during the same publish are skipped.
func (h *EventHub) Publish(ev InputEvent) {
	h.mu.Lock()
	ids := slices.Clone(h.order)
	h.mu.Unlock()

	for _, id := range ids {
		h.mu.Lock()
		l, ok := h.listeners[id]
		h.mu.Unlock()
		if ok {
			l(ev)
		}
	}
}

// Len returns the number of live subscriptions.
func (h *EventHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
