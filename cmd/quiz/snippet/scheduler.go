package snippet

import (
	"sync/atomic"
	"time"
)

// Handle is a cancellable scheduled callback.
type Handle interface {
	Cancel()
}

// Scheduler schedules the two kinds of callbacks the controller needs: a
// display-refresh frame and a one-shot deadline.
type Scheduler interface {
	RequestFrame(fn func()) Handle
	AfterFunc(d time.Duration, fn func()) Handle
}

// DefaultFrameInterval approximates a 60 Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// LoopScheduler runs callbacks on an event loop. Timers fire on runtime
// goroutines and hand the callback to dispatch, which must run it on the
// loop goroutine. A handle cancelled on the loop never runs its callback,
// even if its timer already fired and the callback is queued.
type LoopScheduler struct {
	dispatch      func(func())
	frameInterval time.Duration
}

// NewLoopScheduler creates a scheduler dispatching through dispatch.
func NewLoopScheduler(dispatch func(func()), frameInterval time.Duration) *LoopScheduler {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &LoopScheduler{dispatch: dispatch, frameInterval: frameInterval}
}

type loopTask struct {
	cancelled atomic.Bool
	timer     *time.Timer
}

func (t *loopTask) Cancel() {
	t.cancelled.Store(true)
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (s *LoopScheduler) RequestFrame(fn func()) Handle {
	return s.AfterFunc(s.frameInterval, fn)
}

func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) Handle {
	t := &loopTask{}
	t.timer = time.AfterFunc(d, func() {
		if t.cancelled.Load() {
			return
		}
		s.dispatch(func() {
			if t.cancelled.Load() {
				return
			}
			fn()
		})
	})
	return t
}
