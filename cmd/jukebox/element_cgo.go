//go:build (linux && cgo) || windows || darwin

package jukebox

import (
	"bytes"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

var speakerRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})
	return speakerErr
}

// Element is one decoded clip attached to the shared speaker. Its methods may
// be called from any goroutine.
type Element struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	gain     *effects.Volume
	volume   float64
	queued   bool
	closed   bool

	// playbackID is bumped whenever the element is (re)queued so an end
	// callback from an earlier queueing is ignored.
	playbackID atomic.Uint64
	ended      atomic.Bool
}

func newElement(data []byte, format Format) (*Element, error) {
	var (
		streamer beep.StreamSeekCloser
		bf       beep.Format
		err      error
	)
	switch format {
	case FormatWAV:
		streamer, bf, err = wav.Decode(bytes.NewReader(data))
	default:
		streamer, bf, err = mp3.Decode(nopCloser{bytes.NewReader(data)})
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if err := initSpeaker(); err != nil {
		streamer.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	e := &Element{streamer: streamer, format: bf, volume: 1}
	e.ctrl = &beep.Ctrl{Streamer: beep.Resample(4, bf.SampleRate, speakerRate, streamer), Paused: true}
	e.gain = &effects.Volume{Streamer: e.ctrl, Base: 2}
	return e, nil
}

// Play resumes playback, restarting from the beginning once the clip ended.
func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrAudioUnavailable
	}

	speaker.Lock()
	if e.ended.Load() {
		if err := e.streamer.Seek(0); err != nil {
			speaker.Unlock()
			return err
		}
		e.ended.Store(false)
		e.queued = false
	}
	e.ctrl.Paused = false
	speaker.Unlock()

	if !e.queued {
		id := e.playbackID.Add(1)
		e.queued = true
		speaker.Play(beep.Seq(e.gain, beep.Callback(func() {
			// Runs on the speaker goroutine with the speaker locked.
			if e.playbackID.Load() == id {
				e.ended.Store(true)
			}
		})))
	}
	return nil
}

func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
}

func (e *Element) CurrentTime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0
	}
	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos)
}

// SetCurrentTime seeks, clamping to the clip length.
func (e *Element) SetCurrentTime(d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrAudioUnavailable
	}

	speaker.Lock()
	defer speaker.Unlock()
	n := min(max(0, e.format.SampleRate.N(d)), e.streamer.Len())
	if err := e.streamer.Seek(n); err != nil {
		return err
	}
	if e.ended.Load() && n < e.streamer.Len() {
		// The finished sequence left the mixer; requeue on next Play.
		e.ended.Store(false)
		e.queued = false
	}
	return nil
}

func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// SetVolume sets a linear gain in [0, 1].
func (e *Element) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = max(0, min(1, v))

	speaker.Lock()
	e.gain.Silent = e.volume == 0
	if e.volume > 0 {
		e.gain.Volume = math.Log2(e.volume)
	}
	speaker.Unlock()
}

// Paused is true when paused or when the clip has played to the end.
func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.ended.Load() {
		return true
	}
	speaker.Lock()
	defer speaker.Unlock()
	return e.ctrl.Paused
}

// Duration is the clip length.
func (e *Element) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.format.SampleRate.D(e.streamer.Len())
}

// Close detaches the element from the speaker and releases the decoder.
func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.playbackID.Add(1)

	speaker.Lock()
	e.ctrl.Paused = true
	e.ctrl.Streamer = nil
	speaker.Unlock()
	return e.streamer.Close()
}
