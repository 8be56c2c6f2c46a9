package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gigurra/guesstune/cmd/common/kvstore"
	gamestats "github.com/gigurra/guesstune/cmd/quiz/stats"
)

func seed(t *testing.T, path string) {
	t.Helper()
	store, err := kvstore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	agg := gamestats.Load(store)
	agg.Record(gamestats.Event{Kind: gamestats.RoundStarted})
	agg.Record(gamestats.Event{Kind: gamestats.GuessIncorrect})
	agg.Record(gamestats.Event{Kind: gamestats.GuessCorrect, SnippetSeconds: 5})
	agg.Record(gamestats.Event{Kind: gamestats.RoundCompleted})
	agg.SnippetPlayed(1500 * time.Millisecond)
}

func TestRunTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	seed(t, path)

	var out bytes.Buffer
	if err := run(context.Background(), &Params{}, path, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"Songs started", "Accuracy", "50.0%", "Avg snippet at correct", "5.0s", "2s"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	seed(t, path)

	var out bytes.Buffer
	if err := run(context.Background(), &Params{JSON: true}, path, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if got["songsStarted"] != float64(1) || got["accuracy"] != 0.5 || got["totalSnippetMsPlayed"] != float64(1500) {
		t.Errorf("unexpected report: %v", got)
	}
}

func TestRunReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	seed(t, path)

	var out bytes.Buffer
	if err := run(context.Background(), &Params{Reset: true}, path, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	s, err := load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.SongsStarted != 0 || s.TotalGuesses != 0 || len(s.SnippetSecondsAtCorrect) != 0 {
		t.Errorf("statistics not reset: %+v", s)
	}
}

func TestRunEmptyStore(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "store.json")
	if err := run(context.Background(), &Params{JSON: true}, path, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), `"songsStarted": 0`) {
		t.Errorf("expected zeroed statistics:\n%s", out.String())
	}
}

func TestWatchSeesStoreWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	seed(t, path)

	select {
	case <-changed:
	case <-ctx.Done():
		t.Fatal("watch did not report the store write")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch() error = %v", err)
	}
}
