package celebrate

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"
)

func TestNewBurst(t *testing.T) {
	now := time.Now()
	b := NewBurst(now, rand.New(rand.NewPCG(1, 2)))

	if len(b.Items) != 20 {
		t.Fatalf("len(Items) = %d, want 20", len(b.Items))
	}
	for _, it := range b.Items {
		if !slices.Contains(emojis, it.Emoji) {
			t.Errorf("unexpected emoji %q", it.Emoji)
		}
		if it.Left < 0 || it.Left >= 100 {
			t.Errorf("Left = %f out of range", it.Left)
		}
		if it.Delay < 0 || it.Delay >= 600*time.Millisecond {
			t.Errorf("Delay = %v out of range", it.Delay)
		}
		if it.Duration < 2*time.Second || it.Duration >= 3400*time.Millisecond {
			t.Errorf("Duration = %v out of range", it.Duration)
		}
		if it.Rotate < -30 || it.Rotate >= 30 {
			t.Errorf("Rotate = %d out of range", it.Rotate)
		}
	}
}

func TestBurstActive(t *testing.T) {
	now := time.Now()
	b := NewBurst(now, nil)

	if !b.Active(now.Add(3 * time.Second)) {
		t.Error("burst should be active within 3.3s")
	}
	if b.Active(now.Add(3300 * time.Millisecond)) {
		t.Error("burst should be over after 3.3s")
	}
	if (Burst{}).Active(now) {
		t.Error("zero burst should never be active")
	}
}

func TestFrameStaysInBounds(t *testing.T) {
	now := time.Now()
	b := NewBurst(now, rand.New(rand.NewPCG(3, 4)))

	seen := 0
	for ms := 0; ms < 3400; ms += 50 {
		for _, s := range b.Frame(now.Add(time.Duration(ms)*time.Millisecond), 40, 10) {
			seen++
			if s.X < 0 || s.X >= 40 || s.Y < 0 || s.Y >= 10 {
				t.Fatalf("sprite out of bounds: %+v", s)
			}
		}
	}
	if seen == 0 {
		t.Error("expected sprites during the burst")
	}
	if got := b.Frame(now.Add(time.Second), 0, 10); got != nil {
		t.Errorf("Frame() on empty grid = %v", got)
	}
}

func TestAnnounceDisabled(t *testing.T) {
	called := make(chan struct{}, 1)
	n := &Notifier{enabled: false, notify: func(string, string) error {
		called <- struct{}{}
		return nil
	}}
	n.Announce("t", "m")
	select {
	case <-called:
		t.Error("disabled notifier should not notify")
	case <-time.After(20 * time.Millisecond):
	}

	var nilNotifier *Notifier
	nilNotifier.Announce("t", "m")
}

func TestAnnounceEnabled(t *testing.T) {
	got := make(chan string, 1)
	n := &Notifier{enabled: true, notify: func(title, message string) error {
		got <- title + ": " + message
		return nil
	}}
	n.Announce("Correct!", "Bad Romance")
	select {
	case msg := <-got:
		if msg != "Correct!: Bad Romance" {
			t.Errorf("notify got %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("notification not sent")
	}
}
