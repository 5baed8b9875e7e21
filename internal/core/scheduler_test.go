package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerDefersRequestsMadeDuringPump(t *testing.T) {
	s := NewFrameScheduler()
	runs := 0
	var cb FrameCallback
	cb = func(FrameTime) {
		runs++
		s.Request(cb)
	}
	s.Request(cb)

	assert.Equal(t, 1, s.Pump(0))
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 1, s.Pump(16*time.Millisecond))
	assert.Equal(t, 2, runs)
}

func TestSchedulerCancelInsideBatch(t *testing.T) {
	s := NewFrameScheduler()
	ranB := false
	var idB FrameID
	s.Request(func(FrameTime) { s.Cancel(idB) })
	idB = s.Request(func(FrameTime) { ranB = true })

	assert.Equal(t, 1, s.Pump(0))
	assert.False(t, ranB)
	assert.Zero(t, s.Pending())
}

func TestSchedulerCancelUnknownIsHarmless(t *testing.T) {
	s := NewFrameScheduler()
	s.Cancel(0)
	s.Cancel(42)
	id := s.Request(func(FrameTime) {})
	s.Cancel(id)
	assert.Zero(t, s.Pending())
	assert.Zero(t, s.Pump(0))
}
