package core

import "testing"

func TestFieldGridStampDecayAndResize(t *testing.T) {
	g := NewFieldGrid(0, -3)
	if g.W != 1 || g.H != 1 {
		t.Fatalf("expected 1x1 clamp, got %dx%d", g.W, g.H)
	}
	if !g.Resize(10, 10) {
		t.Fatal("expected resize to reallocate")
	}
	if g.Resize(10, 10) {
		t.Fatal("expected same-size resize to be a no-op")
	}

	g.Stamp(5, 5, 3, 0.8)
	g.Stamp(5, 5, 3, 0.8)
	if got := g.At(5, 5); got != 1 {
		t.Fatalf("expected centre clamped to 1, got %f", got)
	}
	if got := g.At(9, 9); got != 0 {
		t.Fatalf("expected cell outside radius untouched, got %f", got)
	}
	if got := g.At(-1, 0); got != 0 {
		t.Fatalf("expected 0 outside the field, got %f", got)
	}

	g.Scale(0.5)
	if got := g.At(5, 5); got != 0.5 {
		t.Fatalf("expected decayed centre 0.5, got %f", got)
	}
	for i := 0; i < 40; i++ {
		g.Scale(0.5)
	}
	for _, v := range g.Cells() {
		if v != 0 {
			t.Fatalf("expected tiny values flushed to zero, got %g", v)
		}
	}
}
