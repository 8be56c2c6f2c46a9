// Package snippet plays time-bounded windows of a song and reports progress.
package snippet

import (
	"log/slog"
	"time"
)

// Audio is the capability set the controller needs from an audio element.
type Audio interface {
	Play() error
	Pause()
	CurrentTime() time.Duration
	SetCurrentTime(d time.Duration) error
	Volume() float64
	SetVolume(v float64)
	Paused() bool
}

// Controller drives a single bound audio element. It owns the progress frame
// handle and the stop deadline handle; at most one of each is active.
type Controller struct {
	sched      Scheduler
	onProgress func(time.Duration)
	onPlayed   func(remaining time.Duration)

	audio    Audio
	frame    Handle
	deadline Handle
}

// NewController creates a controller. onProgress receives the clamped media
// position each frame; onPlayed is told how much of a window is about to play.
// Either callback may be nil.
func NewController(sched Scheduler, onProgress func(time.Duration), onPlayed func(time.Duration)) *Controller {
	if onProgress == nil {
		onProgress = func(time.Duration) {}
	}
	if onPlayed == nil {
		onPlayed = func(time.Duration) {}
	}
	return &Controller{sched: sched, onProgress: onProgress, onPlayed: onPlayed}
}

// Bind sets the audio element; nil unbinds it. Pending timers are cancelled.
func (c *Controller) Bind(a Audio) {
	c.cancelTimers()
	c.audio = a
}

// Audio returns the bound element, or nil.
func (c *Controller) Audio() Audio {
	return c.audio
}

// Stop pauses playback, rewinds to the start and cancels both timers. It is a
// no-op without a bound element. The returned error comes from rewinding;
// timers are cancelled regardless.
func (c *Controller) Stop() error {
	if c.audio == nil {
		return nil
	}
	c.audio.Pause()
	err := c.audio.SetCurrentTime(0)
	c.cancelTimers()
	return err
}

// PlayFromCurrentPosition plays until the media position reaches window, so
// a partly played window only plays its remainder.
func (c *Controller) PlayFromCurrentPosition(window time.Duration) {
	a := c.audio
	if a == nil {
		return
	}

	remaining := max(0, window-a.CurrentTime())
	c.cancelTimers()
	c.onPlayed(remaining)

	var tick func()
	tick = func() {
		current := min(a.CurrentTime(), window)
		c.onProgress(current)
		if current < window && !a.Paused() {
			c.frame = c.sched.RequestFrame(tick)
		} else {
			c.frame = nil
		}
	}
	c.frame = c.sched.RequestFrame(tick)

	if err := a.Play(); err != nil {
		slog.Debug("audio playback did not start", "error", err)
	}

	c.deadline = c.sched.AfterFunc(remaining, func() {
		c.deadline = nil
		a.Pause()
	})
}

// Active reports whether a progress frame or stop deadline is pending.
func (c *Controller) Active() bool {
	return c.frame != nil || c.deadline != nil
}

func (c *Controller) cancelTimers() {
	if c.deadline != nil {
		c.deadline.Cancel()
		c.deadline = nil
	}
	if c.frame != nil {
		c.frame.Cancel()
		c.frame = nil
	}
}
