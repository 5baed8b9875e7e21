package core

import "math"

// PointerState is the pointer as seen by a simulation. Active is false
// while no pointer is over the surface; X and Y are then meaningless.
type PointerState struct {
	X, Y   float64
	Active bool
}

// DistanceTo returns the distance from the pointer to (x, y), or +Inf when
// the pointer is inactive.
func (p PointerState) DistanceTo(x, y float64) float64 {
	if !p.Active {
		return math.Inf(1)
	}
	return math.Hypot(x-p.X, y-p.Y)
}

// Point returns the pointer position.
func (p PointerState) Point() Point { return Point{X: p.X, Y: p.Y} }

// EventKind enumerates host input events.
type EventKind uint8

const (
	EventMove EventKind = iota + 1
	EventLeave
	EventDown
	EventUp
	EventClick
	EventWheel
)

var eventKindNames = map[EventKind]string{
	EventMove:  "move",
	EventLeave: "leave",
	EventDown:  "down",
	EventUp:    "up",
	EventClick: "click",
	EventWheel: "wheel",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// InputEvent is a pointer, touch or click event in client coordinates.
type InputEvent struct {
	Kind EventKind
	X, Y float64
}

// InputTracker turns client-space events into surface-local pointer state.
// It is owned by one mount and fed from the mount's EventHub subscription.
type InputTracker struct {
	bounds   Rect
	pointer  PointerState
	pressed  bool
	clicks   []Point
	onChange func()
}

// NewInputTracker returns a tracker that calls onChange after every event
// that altered its state. onChange may be nil.
func NewInputTracker(onChange func()) *InputTracker {
	return &InputTracker{onChange: onChange}
}

// SetBounds sets the surface's bounding box in client coordinates.
func (t *InputTracker) SetBounds(r Rect) { t.bounds = r }

// Bounds returns the current bounding box.
func (t *InputTracker) Bounds() Rect { return t.bounds }

// Pointer returns the current pointer state in local coordinates.
func (t *InputTracker) Pointer() PointerState { return t.pointer }

// Pressed reports whether a button or touch is held over the surface.
func (t *InputTracker) Pressed() bool { return t.pressed }

// DrainClicks returns the clicks recorded since the last call and forgets
// them.
func (t *InputTracker) DrainClicks() []Point {
	if len(t.clicks) == 0 {
		return nil
	}
	out := t.clicks
	t.clicks = nil
	return out
}

// Handle applies one event. Moves that land outside the bounding box are
// treated as the pointer leaving the surface; an empty box contains no
// point at all.
func (t *InputTracker) Handle(ev InputEvent) {
	x, y := ev.X-t.bounds.X, ev.Y-t.bounds.Y
	inside := x >= 0 && y >= 0 && x < t.bounds.W && y < t.bounds.H

	switch ev.Kind {
	case EventMove:
		if !inside {
			t.leave()
			break
		}
		t.pointer = PointerState{X: x, Y: y, Active: true}
	case EventLeave:
		t.leave()
	case EventDown:
		if !inside {
			return
		}
		t.pointer = PointerState{X: x, Y: y, Active: true}
		t.pressed = true
	case EventUp:
		t.pressed = false
		if inside {
			t.pointer = PointerState{X: x, Y: y, Active: true}
		}
	case EventClick:
		if !inside {
			return
		}
		t.pointer = PointerState{X: x, Y: y, Active: true}
		t.clicks = append(t.clicks, Point{X: x, Y: y})
	default:
		return
	}
	if t.onChange != nil {
		t.onChange()
	}
}

func (t *InputTracker) leave() {
	t.pointer = PointerState{}
	t.pressed = false
}
