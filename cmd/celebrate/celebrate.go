// Package celebrate produces the win celebration: a desktop notification and
// a short burst of falling emoji for the terminal UI.
package celebrate

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gen2brain/beeep"
)

const (
	// BurstDuration is how long the confetti falls, before the fade-out grace.
	BurstDuration = 2500 * time.Millisecond
	// Grace keeps the burst visible after BurstDuration.
	Grace = 800 * time.Millisecond

	itemCount = 20
)

var emojis = []string{"🎉", "🥳", "🎊", "🎺", "🎈"}

// Item is one falling emoji. Left is a horizontal position in percent.
type Item struct {
	ID       int
	Emoji    string
	Left     float64
	Delay    time.Duration
	Duration time.Duration
	Rotate   int
}

// Burst is a set of items started at one instant.
type Burst struct {
	Items   []Item
	Started time.Time
}

// NewBurst creates a burst starting at now. A nil rnd uses math/rand.
func NewBurst(now time.Time, rnd *rand.Rand) Burst {
	intn := rand.IntN
	float := rand.Float64
	if rnd != nil {
		intn = rnd.IntN
		float = rnd.Float64
	}
	items := make([]Item, itemCount)
	for i := range items {
		items[i] = Item{
			ID:       i,
			Emoji:    emojis[intn(len(emojis))],
			Left:     float() * 100,
			Delay:    time.Duration(intn(600)) * time.Millisecond,
			Duration: 2000*time.Millisecond + time.Duration(intn(1400))*time.Millisecond,
			Rotate:   intn(60) - 30,
		}
	}
	return Burst{Items: items, Started: now}
}

// Active reports whether the burst should still be shown at now.
func (b Burst) Active(now time.Time) bool {
	if b.Started.IsZero() {
		return false
	}
	return now.Before(b.Started.Add(BurstDuration + Grace))
}

// Sprite is an item placed on a width x height grid.
type Sprite struct {
	X, Y  int
	Emoji string
}

// Frame places the items that are in flight at now.
func (b Burst) Frame(now time.Time, width, height int) []Sprite {
	if !b.Active(now) || width <= 0 || height <= 0 {
		return nil
	}
	elapsed := now.Sub(b.Started)
	var sprites []Sprite
	for _, it := range b.Items {
		t := elapsed - it.Delay
		if t < 0 || t >= it.Duration {
			continue
		}
		progress := float64(t) / float64(it.Duration)
		x := int(it.Left / 100 * float64(width-1))
		// Rotation becomes a slight sideways drift in a character grid.
		x += int(float64(it.Rotate) / 30 * progress * 2)
		sprites = append(sprites, Sprite{
			X:     max(0, min(width-1, x)),
			Y:     min(height-1, int(progress*float64(height))),
			Emoji: it.Emoji,
		})
	}
	return sprites
}

// Notifier shows desktop notifications without blocking the caller.
type Notifier struct {
	enabled bool
	notify  func(title, message string) error
}

func NewNotifier(enabled bool) *Notifier {
	beeep.AppName = "guesstune"
	return &Notifier{
		enabled: enabled,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Announce fires a notification in the background. Failures are logged only.
func (n *Notifier) Announce(title, message string) {
	if n == nil || !n.enabled {
		return
	}
	go func() {
		if err := n.notify(title, message); err != nil {
			slog.Debug("desktop notification failed", "error", err)
		}
	}()
}
