// Package stats keeps lifetime game statistics and persists them after every change.
package stats

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

// StoreKey is the key the statistics are persisted under.
const StoreKey = "gts:stats"

// Store is the persistence port. Implementations may fail at any time;
// the aggregator tolerates every error.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Statistics is the persisted aggregate.
type Statistics struct {
	SongsStarted            int       `json:"songsStarted"`
	SongsSkipped            int       `json:"songsSkipped"`
	SongsCompleted          int       `json:"songsCompleted"`
	TotalGuesses            int       `json:"totalGuesses"`
	CorrectGuesses          int       `json:"correctGuesses"`
	WrongGuesses            int       `json:"wrongGuesses"`
	TotalSnippetPlays       int       `json:"totalSnippetPlays"`
	TotalSnippetMsPlayed    float64   `json:"totalSnippetMsPlayed"`
	SnippetSecondsAtCorrect []float64 `json:"snippetSecondsAtCorrect"`
	HintsUsed               int       `json:"hintsUsed"`
}

func defaults() Statistics {
	return Statistics{SnippetSecondsAtCorrect: []float64{}}
}

// Accuracy is correct guesses over total guesses, 0 before the first guess.
func (s Statistics) Accuracy() float64 {
	if s.TotalGuesses == 0 {
		return 0
	}
	return float64(s.CorrectGuesses) / float64(s.TotalGuesses)
}

// AverageSnippetSecondsAtCorrect is the mean snippet length at which songs were guessed.
func (s Statistics) AverageSnippetSecondsAtCorrect() float64 {
	return lo.Mean(s.SnippetSecondsAtCorrect)
}

// EventKind identifies a game event.
type EventKind int

const (
	RoundStarted EventKind = iota
	RoundSkipped
	GuessCorrect
	GuessIncorrect
	RoundCompleted
	HintUsed
	SnippetPlayed
)

func (k EventKind) String() string {
	switch k {
	case RoundStarted:
		return "round-started"
	case RoundSkipped:
		return "round-skipped"
	case GuessCorrect:
		return "guess-correct"
	case GuessIncorrect:
		return "guess-incorrect"
	case RoundCompleted:
		return "round-completed"
	case HintUsed:
		return "hint-used"
	case SnippetPlayed:
		return "snippet-played"
	default:
		return "unknown"
	}
}

// Event is a single game event. SnippetSeconds is only read for GuessCorrect,
// Played only for SnippetPlayed.
type Event struct {
	Kind           EventKind
	SnippetSeconds float64
	Played         time.Duration
}

// Aggregator applies events to the statistics. It is not safe for concurrent
// use; the game event loop owns it.
type Aggregator struct {
	store Store
	stats Statistics
}

// Load reads persisted statistics, merged over the defaults so fields added
// later start at zero. A nil store is allowed and disables persistence.
func Load(store Store) *Aggregator {
	a := &Aggregator{store: store, stats: defaults()}
	if store == nil {
		return a
	}

	raw, err := store.Get(StoreKey)
	if err != nil || raw == "" {
		return a
	}

	// A mistyped field leaves the rest of merged populated, so only
	// syntax errors discard the stored value.
	merged := defaults()
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			slog.Debug("ignoring unreadable statistics", "error", err)
			return a
		}
		slog.Debug("ignoring mistyped statistics field", "field", typeErr.Field, "error", err)
	}
	if merged.SnippetSecondsAtCorrect == nil {
		merged.SnippetSecondsAtCorrect = []float64{}
	}
	a.stats = merged
	return a
}

// Record applies one event and persists the result.
func (a *Aggregator) Record(ev Event) {
	s := &a.stats
	switch ev.Kind {
	case RoundStarted:
		s.SongsStarted++
	case RoundSkipped:
		s.SongsSkipped++
	case GuessCorrect:
		s.TotalGuesses++
		s.CorrectGuesses++
		s.SnippetSecondsAtCorrect = append(s.SnippetSecondsAtCorrect, ev.SnippetSeconds)
	case GuessIncorrect:
		s.TotalGuesses++
		s.WrongGuesses++
	case RoundCompleted:
		s.SongsCompleted++
	case HintUsed:
		s.HintsUsed++
	case SnippetPlayed:
		s.TotalSnippetPlays++
		s.TotalSnippetMsPlayed += float64(ev.Played) / float64(time.Millisecond)
	default:
		return
	}
	a.save()
}

// SnippetPlayed records a snippet playback of the given remaining length.
func (a *Aggregator) SnippetPlayed(remaining time.Duration) {
	a.Record(Event{Kind: SnippetPlayed, Played: remaining})
}

// Reset restores the defaults and persists them.
func (a *Aggregator) Reset() {
	a.stats = defaults()
	a.save()
}

// Snapshot returns a copy of the current statistics.
func (a *Aggregator) Snapshot() Statistics {
	out := a.stats
	out.SnippetSecondsAtCorrect = append([]float64{}, a.stats.SnippetSecondsAtCorrect...)
	return out
}

func (a *Aggregator) save() {
	if a.store == nil {
		return
	}
	data, err := json.Marshal(a.stats)
	if err != nil {
		slog.Debug("failed to encode statistics", "error", err)
		return
	}
	if err := a.store.Set(StoreKey, string(data)); err != nil {
		slog.Debug("failed to persist statistics", "error", err)
	}
}
