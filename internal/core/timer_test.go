package core

import (
	"testing"
	"time"
)

func TestFixedStepPacesAndDropsBacklog(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(50)
	fs.now = func() time.Time { return clock }

	if !fs.ShouldStep() {
		t.Fatal("expected first call to step")
	}
	clock = clock.Add(10 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("expected no step before the interval elapsed")
	}
	clock = clock.Add(10 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("expected a step after 20ms at 50 TPS")
	}

	clock = clock.Add(time.Second)
	steps := 0
	for i := 0; i < 5; i++ {
		if fs.ShouldStep() {
			steps++
		}
	}
	if steps != 2 {
		t.Fatalf("expected stall backlog capped at two steps, got %d", steps)
	}
}

func TestFixedStepDefaultsTPS(t *testing.T) {
	fs := NewFixedStep(0)
	if got := fs.Interval(); got != time.Second/60 {
		t.Fatalf("expected 60 TPS default, got %v", got)
	}
}
