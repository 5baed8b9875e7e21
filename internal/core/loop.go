package core

// LoopStats counts what a RenderLoop did.
type LoopStats struct {
	Ticks   uint64
	Paints  uint64
	Skipped uint64
}

// RenderLoop drives one effect: every frame it advances the simulation,
// paints when something changed and schedules itself again.
//
//	Idle --Start--> Running --Stop--> Idle
type RenderLoop struct {
	sched   *FrameScheduler
	advance func(now FrameTime) bool
	paint   func()

	id      FrameID
	running bool
	dirty   bool
	stats   LoopStats
}

// NewRenderLoop builds a loop on sched. advance reports whether the scene
// changed and needs a repaint.
func NewRenderLoop(sched *FrameScheduler, advance func(now FrameTime) bool, paint func()) *RenderLoop {
	return &RenderLoop{sched: sched, advance: advance, paint: paint}
}

// Start schedules the first tick. The first frame always paints.
func (l *RenderLoop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.dirty = true
	l.id = l.sched.Request(l.tick)
}

// Stop cancels the pending tick before returning. No tick of this loop runs
// after Stop, including one already queued in the batch being pumped.
func (l *RenderLoop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.sched.Cancel(l.id)
	l.id = 0
}

// MarkDirty forces a paint on the next tick.
func (l *RenderLoop) MarkDirty() { l.dirty = true }

// Dirty reports whether the next tick will paint.
func (l *RenderLoop) Dirty() bool { return l.dirty }

// Running reports whether the loop is scheduled.
func (l *RenderLoop) Running() bool { return l.running }

// Stats returns the tick counters.
func (l *RenderLoop) Stats() LoopStats { return l.stats }

func (l *RenderLoop) tick(now FrameTime) {
	l.id = 0
	if !l.running {
		return
	}
	l.stats.Ticks++
	if l.advance != nil && l.advance(now) {
		l.dirty = true
	}
	// advance may stop the loop, e.g. when the effect fails.
	if !l.running {
		return
	}
	if l.dirty {
		if l.paint != nil {
			l.paint()
		}
		l.dirty = false
		l.stats.Paints++
	} else {
		l.stats.Skipped++
	}
	if l.running {
		l.id = l.sched.Request(l.tick)
	}
}
