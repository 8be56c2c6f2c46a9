// Package game implements the guess-the-song round state machine.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/gigurra/guesstune/cmd/quiz/snippet"
	"github.com/gigurra/guesstune/cmd/quiz/stats"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MaxAttempts is the number of guesses and hints a round allows in total.
const MaxAttempts = 5

// DefaultSnippetDurations are the snippet lengths, indexed by escalation.
var DefaultSnippetDurations = []time.Duration{
	1 * time.Second,
	5 * time.Second,
	9 * time.Second,
	14 * time.Second,
	19 * time.Second,
}

// Song is a playable track. URL identifies it for repeat avoidance.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	URL    string `json:"url"`
	Cover  string `json:"cover,omitempty"`
}

// Label formats the song as "Title — Artist", or just the title.
func (s Song) Label() string {
	if s.Artist != "" {
		return s.Title + " — " + s.Artist
	}
	return s.Title
}

func (s Song) artistSuffix() string {
	if s.Artist != "" {
		return " — " + s.Artist
	}
	return ""
}

// Guess is one submitted guess, with the snippet length it was made at.
type Guess struct {
	Text    string        `json:"text"`
	Correct bool          `json:"correct"`
	Snippet time.Duration `json:"snippet"`
}

// Phase is the coarse round state.
type Phase int

const (
	Idle Phase = iota
	Playing
	Ended
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Options configures a Game. Zero values pick defaults.
type Options struct {
	SnippetDurations []time.Duration
	Volume           float64
	Stats            *stats.Aggregator
	// Scheduler is required once an audio element is bound.
	Scheduler snippet.Scheduler
	// Celebrate is fired and forgotten when a round is won.
	Celebrate func(Song)
	// Playable reports whether the local decoder supports a song URL.
	Playable func(url string) bool
	Intn     func(n int) int
}

// Game is the round state machine. It is not safe for concurrent use: all
// calls, including scheduler callbacks, must run on one event loop.
type Game struct {
	durations []time.Duration
	stats     *stats.Aggregator
	player    *snippet.Controller
	celebrate func(Song)
	playable  func(string) bool
	intn      func(int) int

	songs        []Song
	current      *Song
	lastURL      string
	roundID      uuid.UUID
	attemptsUsed int
	hintsUsed    int
	input        string
	feedback     string
	ended        bool
	won          bool
	guesses      []Guess
	progress     time.Duration
	volume       float64
}

// New creates an idle game with an empty song pool.
func New(opts Options) *Game {
	g := &Game{
		durations: opts.SnippetDurations,
		stats:     opts.Stats,
		celebrate: opts.Celebrate,
		playable:  opts.Playable,
		intn:      opts.Intn,
		volume:    clampVolume(opts.Volume),
	}
	if len(g.durations) == 0 {
		g.durations = DefaultSnippetDurations
	}
	if g.stats == nil {
		g.stats = stats.Load(nil)
	}
	if g.celebrate == nil {
		g.celebrate = func(Song) {}
	}
	if g.playable == nil {
		g.playable = func(string) bool { return true }
	}
	if g.intn == nil {
		g.intn = rand.IntN
	}
	g.player = snippet.NewController(opts.Scheduler,
		func(d time.Duration) { g.progress = d },
		g.stats.SnippetPlayed,
	)
	return g
}

// EscalationIndex is the position into the snippet durations reached by the
// attempts and hints used so far.
func (g *Game) EscalationIndex() int {
	return min(g.attemptsUsed+g.hintsUsed, len(g.durations)-1)
}

// CurrentSnippet is the snippet length for the current escalation index.
func (g *Game) CurrentSnippet() time.Duration {
	return g.durations[g.EscalationIndex()]
}

// AttemptsLeft is how many guesses and hints remain this round.
func (g *Game) AttemptsLeft() int {
	return max(0, MaxAttempts-(g.attemptsUsed+g.hintsUsed))
}

// Phase reports the coarse round state.
func (g *Game) Phase() Phase {
	switch {
	case g.ended:
		return Ended
	case g.current != nil:
		return Playing
	default:
		return Idle
	}
}

func (g *Game) CurrentSong() (Song, bool) {
	if g.current == nil {
		return Song{}, false
	}
	return *g.current, true
}

func (g *Game) Feedback() string { return g.feedback }

func (g *Game) Input() string { return g.input }

// SetInput records the text currently typed by the player.
func (g *Game) SetInput(text string) { g.input = text }

func (g *Game) Stats() *stats.Aggregator { return g.stats }

// PlayableSongs returns the pool entries the local decoder can play.
func (g *Game) PlayableSongs() []Song {
	return lo.Filter(g.songs, func(s Song, _ int) bool { return g.playable(s.URL) })
}

// BeginLoading announces that songs for artist are being fetched.
func (g *Game) BeginLoading(artist string) {
	g.feedback = fmt.Sprintf("Loading %s tracks...", artist)
}

// FinishLoading replaces the song pool with songs and starts a new round. On
// error the pool is left untouched and the failure is shown as feedback.
func (g *Game) FinishLoading(artist string, songs []Song, err error) {
	if err != nil {
		slog.Warn("failed to load tracks", "artist", artist, "error", err)
		g.feedback = fmt.Sprintf("Failed to load %s tracks", artist)
		return
	}
	g.LoadSongs(songs)
	g.feedback = fmt.Sprintf("Loaded %d %s tracks", len(songs), artist)
}

// LoadSongs replaces the song pool and starts a new round.
func (g *Game) LoadSongs(songs []Song) {
	g.songs = append([]Song(nil), songs...)
	g.ResetGame()
}

// ResetGame starts a fresh round without revealing or skipping the previous one.
func (g *Game) ResetGame() {
	g.stopAudio()
	g.clearRound()
	g.feedback = ""
	g.startRound()
}

// ChangeSong reveals the current answer, counts an unfinished round as
// skipped, and starts a new round.
func (g *Game) ChangeSong() {
	if g.current != nil {
		g.feedback = "Answer: " + g.current.Label()
	}
	if !g.ended && g.current != nil {
		g.stats.Record(stats.Event{Kind: stats.RoundSkipped})
	}
	g.stopAudio()
	g.clearRound()
	g.startRound()
}

// SubmitGuess checks text against the current title. A wrong guess uses up an
// attempt and lengthens the next snippet.
func (g *Game) SubmitGuess(text string) {
	if g.current == nil || g.ended {
		return
	}
	g.input = text
	song := *g.current

	if g.AttemptsLeft() <= 0 {
		g.feedback = fmt.Sprintf("No attempts left. It was \"%s\"%s", song.Title, song.artistSuffix())
		g.endRound(false)
		return
	}

	snippetLen := g.CurrentSnippet()
	if Matches(text, song.Title) {
		g.stats.Record(stats.Event{Kind: stats.GuessCorrect, SnippetSeconds: snippetLen.Seconds()})
		g.feedback = "Correct! " + song.Label()
		g.guesses = append(g.guesses, Guess{Text: text, Correct: true, Snippet: snippetLen})
		g.endRound(true)
		g.stats.Record(stats.Event{Kind: stats.RoundCompleted})
		slog.Info("round won", "round", g.roundID, "snippet", snippetLen, "guesses", len(g.guesses))
		g.celebrate(song)
		return
	}

	g.stats.Record(stats.Event{Kind: stats.GuessIncorrect})
	g.guesses = append(g.guesses, Guess{Text: text, Correct: false, Snippet: snippetLen})
	g.attemptsUsed++
	g.progress = 0

	if g.attemptsUsed+g.hintsUsed >= MaxAttempts {
		g.feedback = fmt.Sprintf("Out of guesses. It was \"%s\"%s", song.Title, song.artistSuffix())
		g.endRound(false)
		g.stats.Record(stats.Event{Kind: stats.RoundCompleted})
		slog.Info("round lost", "round", g.roundID)
		return
	}

	g.feedback = fmt.Sprintf("Incorrect. %d guesses left. Snippet: %ss", g.AttemptsLeft(), seconds(g.CurrentSnippet()))
	g.input = ""
}

// GiveHint lengthens the snippet without using a guess. The new length is
// heard on the next play request.
func (g *Game) GiveHint() {
	if g.current == nil || g.ended {
		return
	}
	if g.AttemptsLeft() <= 0 {
		g.feedback = fmt.Sprintf("No attempts left. It was \"%s\"%s", g.current.Title, g.current.artistSuffix())
		g.endRound(false)
		return
	}

	maxIdx := len(g.durations) - 1
	if g.EscalationIndex() >= maxIdx {
		g.feedback = fmt.Sprintf("No more hints available. Max snippet length is %ss", seconds(g.durations[maxIdx]))
		return
	}

	g.hintsUsed++
	g.stats.Record(stats.Event{Kind: stats.HintUsed})
	g.stopAudio()
	g.progress = 0
	g.feedback = fmt.Sprintf("Hint used. Snippet extended to %ss", seconds(g.CurrentSnippet()))
}

// PlaySnippet plays the current snippet window from the start.
func (g *Game) PlaySnippet() {
	if g.ended || g.current == nil || g.player.Audio() == nil {
		return
	}
	if err := g.player.Stop(); err != nil {
		slog.Debug("failed to rewind audio", "error", err)
		g.feedback = "Audio playback blocked. Press play again."
		return
	}
	g.progress = 0
	g.player.PlayFromCurrentPosition(g.CurrentSnippet())
}

// StopAudio stops playback and rewinds.
func (g *Game) StopAudio() {
	g.stopAudio()
}

// BindAudio attaches the audio element for the current song; nil detaches it.
func (g *Game) BindAudio(a snippet.Audio) {
	g.player.Bind(a)
	if a != nil {
		a.SetVolume(g.volume)
	}
}

// SetVolume clamps v to [0, 1] and applies it to the bound element.
func (g *Game) SetVolume(v float64) {
	g.volume = clampVolume(v)
	if a := g.player.Audio(); a != nil {
		a.SetVolume(g.volume)
	}
}

func (g *Game) Volume() float64 { return g.volume }

// SeekTo moves the media position of the bound element.
func (g *Game) SeekTo(d time.Duration) {
	a := g.player.Audio()
	if a == nil {
		return
	}
	if err := a.SetCurrentTime(d); err != nil {
		slog.Debug("seek failed", "position", d, "error", err)
		return
	}
	g.progress = d
}

func (g *Game) stopAudio() {
	if err := g.player.Stop(); err != nil {
		slog.Debug("failed to stop audio", "error", err)
	}
}

func (g *Game) endRound(won bool) {
	g.ended = true
	g.won = won
	g.stopAudio()
}

func (g *Game) clearRound() {
	g.attemptsUsed = 0
	g.hintsUsed = 0
	g.input = ""
	g.ended = false
	g.won = false
	g.guesses = nil
	g.progress = 0
}

func (g *Game) startRound() {
	g.pickRandomSong()
	g.roundID = uuid.New()
	g.stats.Record(stats.Event{Kind: stats.RoundStarted})
	if g.current != nil {
		slog.Debug("round started", "round", g.roundID, "url", g.current.URL)
	}
}

func (g *Game) pickRandomSong() {
	pool := g.PlayableSongs()
	if len(pool) == 0 {
		pool = g.songs
	}
	song, ok := Pick(pool, g.lastURL, g.intn)
	if !ok {
		g.current = nil
		return
	}
	g.current = &song
	g.lastURL = song.URL
}

func clampVolume(v float64) float64 {
	return max(0, min(1, v))
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// State is a read-only view of the game for rendering.
type State struct {
	Phase           Phase
	Song            *Song
	RoundID         string
	PoolSize        int
	AttemptsUsed    int
	HintsUsed       int
	AttemptsLeft    int
	EscalationIndex int
	Snippet         time.Duration
	Durations       []time.Duration
	Input           string
	Feedback        string
	Won             bool
	Guesses         []Guess
	Progress        time.Duration
	Volume          float64
	Playing         bool
}

// Snapshot copies the current state.
func (g *Game) Snapshot() State {
	st := State{
		Phase:           g.Phase(),
		RoundID:         g.roundID.String(),
		PoolSize:        len(g.songs),
		AttemptsUsed:    g.attemptsUsed,
		HintsUsed:       g.hintsUsed,
		AttemptsLeft:    g.AttemptsLeft(),
		EscalationIndex: g.EscalationIndex(),
		Snippet:         g.CurrentSnippet(),
		Durations:       append([]time.Duration(nil), g.durations...),
		Input:           g.input,
		Feedback:        g.feedback,
		Won:             g.won,
		Guesses:         append([]Guess(nil), g.guesses...),
		Progress:        g.progress,
		Volume:          g.volume,
	}
	if g.current != nil {
		song := *g.current
		st.Song = &song
	}
	if a := g.player.Audio(); a != nil {
		st.Playing = !a.Paused()
	}
	return st
}
