package ui

import (
	"fmt"
	"image"

	"canvas-designs/internal/core"
)

// NavAction is the result of a click on the navigation bar.
type NavAction int

const (
	NavNone NavAction = iota
	NavPrev
	NavNext
)

const (
	navHeight      = 40
	navButtonWidth = 96
	navMargin      = 8
)

// NavBar is the Previous / name / Next strip along the bottom edge.
type NavBar struct {
	bounds image.Rectangle
	prev   image.Rectangle
	next   image.Rectangle
}

// NewNavBar lays the bar out for a screen of w x h pixels.
func NewNavBar(w, h int) *NavBar {
	n := &NavBar{}
	n.Layout(w, h)
	return n
}

// Layout places the bar for a new screen size.
func (n *NavBar) Layout(w, h int) {
	top := max(h-navHeight, 0)
	n.bounds = image.Rect(0, top, w, h)
	by := top + navMargin
	bh := navHeight - 2*navMargin
	n.prev = image.Rect(navMargin, by, navMargin+navButtonWidth, by+bh)
	n.next = image.Rect(w-navMargin-navButtonWidth, by, w-navMargin, by+bh)
}

// Bounds returns the bar rectangle.
func (n *NavBar) Bounds() image.Rectangle { return n.bounds }

// Buttons returns the Previous and Next button rectangles.
func (n *NavBar) Buttons() (prev, next image.Rectangle) { return n.prev, n.next }

// Contains reports whether (x, y) is on the bar.
func (n *NavBar) Contains(x, y int) bool { return image.Pt(x, y).In(n.bounds) }

// Hit maps a click to an action.
func (n *NavBar) Hit(x, y int) NavAction {
	pt := image.Pt(x, y)
	switch {
	case pt.In(n.prev):
		return NavPrev
	case pt.In(n.next):
		return NavNext
	}
	return NavNone
}

// Caption is the centre label: the design title and its position.
func Caption(e core.Entry, index, total int) string {
	title := e.Info.Title
	if title == "" {
		title = e.Info.Key
	}
	return fmt.Sprintf("%s  %d/%d", title, index+1, total)
}

// StatusLines describes the active mount for the debug overlay.
func StatusLines(m *core.Mount, fps float64) []string {
	if m == nil {
		return []string{"no effect mounted"}
	}
	st := m.Stats()
	b := m.Surface().Backing()
	lines := []string{
		fmt.Sprintf("%s  %s", m.Entry().Info.Key, shortID(m.ID())),
		fmt.Sprintf("fps %.1f  backing %dx%d", fps, b.W, b.H),
		fmt.Sprintf("ticks %d  paints %d  skipped %d", st.Ticks, st.Paints, st.Skipped),
	}
	if p := m.Pointer(); p.Active {
		lines = append(lines, fmt.Sprintf("pointer %.0f,%.0f", p.X, p.Y))
	} else {
		lines = append(lines, "pointer away")
	}
	if m.Failed() {
		lines = append(lines, "FAILED: see log")
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
