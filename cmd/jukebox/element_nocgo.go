//go:build !((linux && cgo) || windows || darwin)

package jukebox

import "time"

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires CGO for native sound libraries.
const AudioAvailable = false

// Element is a silent stand-in for builds without cgo. The game stays
// playable, only without sound.
type Element struct {
	pos    time.Duration
	volume float64
}

func newElement([]byte, Format) (*Element, error) {
	return &Element{volume: 1}, nil
}

func (e *Element) Play() error { return ErrAudioUnavailable }

func (e *Element) Pause() {}

func (e *Element) CurrentTime() time.Duration { return e.pos }

func (e *Element) SetCurrentTime(d time.Duration) error {
	e.pos = max(0, d)
	return nil
}

func (e *Element) Volume() float64 { return e.volume }

func (e *Element) SetVolume(v float64) { e.volume = max(0, min(1, v)) }

func (e *Element) Paused() bool { return true }

func (e *Element) Duration() time.Duration { return 0 }

func (e *Element) Close() error { return nil }
