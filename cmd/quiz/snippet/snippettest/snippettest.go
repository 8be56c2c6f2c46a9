// Package snippettest provides a manual clock scheduler and a fake audio
// element for deterministic playback tests.
package snippettest

import (
	"sort"
	"time"

	"github.com/gigurra/guesstune/cmd/quiz/snippet"
)

// Scheduler is a snippet.Scheduler driven by a manual clock.
type Scheduler struct {
	FrameInterval time.Duration

	now   time.Duration
	seq   int
	tasks []*task
}

type task struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
	done      bool
}

func (t *task) Cancel() { t.cancelled = true }

// NewScheduler creates a scheduler at time zero with a 16ms frame interval.
func NewScheduler() *Scheduler {
	return &Scheduler{FrameInterval: 16 * time.Millisecond}
}

var _ snippet.Scheduler = (*Scheduler)(nil)

func (s *Scheduler) RequestFrame(fn func()) snippet.Handle {
	return s.AfterFunc(s.FrameInterval, fn)
}

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) snippet.Handle {
	s.seq++
	t := &task{at: s.now + max(0, d), seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Now returns the current manual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Advance moves the clock forward by d, running due callbacks in time order.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.done = true
		next.fn()
	}
	s.now = target
	s.compact()
}

// Pending returns the number of callbacks that are neither cancelled nor run.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled && !t.done {
			n++
		}
	}
	return n
}

func (s *Scheduler) nextDue(target time.Duration) *task {
	var due []*task
	for _, t := range s.tasks {
		if !t.cancelled && !t.done && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (s *Scheduler) compact() {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled && !t.done {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
}

// Audio is a fake audio element whose media time follows the scheduler clock.
type Audio struct {
	Clock   *Scheduler
	Length  time.Duration // zero means unbounded
	PlayErr error
	SeekErr error

	PlayCalls  int
	PauseCalls int

	pos       time.Duration
	startedAt time.Duration
	playing   bool
	volume    float64
}

// NewAudio creates a paused fake element at position zero.
func NewAudio(clock *Scheduler) *Audio {
	return &Audio{Clock: clock, volume: 1}
}

var _ snippet.Audio = (*Audio)(nil)

func (a *Audio) Play() error {
	a.PlayCalls++
	if a.PlayErr != nil {
		return a.PlayErr
	}
	if !a.playing {
		a.playing = true
		a.startedAt = a.Clock.Now()
	}
	return nil
}

func (a *Audio) Pause() {
	a.PauseCalls++
	if a.playing {
		a.pos = a.CurrentTime()
		a.playing = false
	}
}

func (a *Audio) CurrentTime() time.Duration {
	pos := a.pos
	if a.playing {
		pos += a.Clock.Now() - a.startedAt
	}
	if a.Length > 0 && pos > a.Length {
		pos = a.Length
	}
	return pos
}

func (a *Audio) SetCurrentTime(d time.Duration) error {
	if a.SeekErr != nil {
		return a.SeekErr
	}
	a.pos = d
	a.startedAt = a.Clock.Now()
	return nil
}

func (a *Audio) Volume() float64 { return a.volume }

func (a *Audio) SetVolume(v float64) { a.volume = v }

// Paused reports true when not playing or when the media has ended.
func (a *Audio) Paused() bool {
	if !a.playing {
		return true
	}
	return a.Length > 0 && a.CurrentTime() >= a.Length
}
