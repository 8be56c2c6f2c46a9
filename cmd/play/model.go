package play

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/guesstune/cmd/artist"
	"github.com/gigurra/guesstune/cmd/celebrate"
	"github.com/gigurra/guesstune/cmd/quiz/game"
	"github.com/gigurra/guesstune/cmd/quiz/snippet"
)

const volumeStep = 0.1

// AudioElement is a snippet.Audio that holds resources until closed.
type AudioElement interface {
	snippet.Audio
	Close() error
}

// dispatchMsg carries a scheduler callback onto the program loop.
type dispatchMsg func()

type songsLoadedMsg struct {
	artist string
	songs  []game.Song
	err    error
}

type audioLoadedMsg struct {
	url   string
	audio AudioElement
	err   error
}

type celebrateTickMsg time.Time

type inputMode int

const (
	modeGuess inputMode = iota
	modeArtist
)

// deps are the collaborators of the play screen.
type deps struct {
	store     artist.Store
	loadSongs func(ctx context.Context, artist string) ([]game.Song, error)
	openAudio func(ctx context.Context, url string) (AudioElement, error)
	copy      func(text string) error
	notifier  *celebrate.Notifier
	now       func() time.Time
}

// model is the play screen. It is a pointer model because the game invokes
// the celebration callback synchronously during Update.
type model struct {
	deps
	ctx  context.Context
	game *game.Game

	input  textinput.Model
	mode   inputMode
	artist string

	loading  bool
	audio    AudioElement
	audioURL string
	audioErr error

	revealed *game.Song
	burst    celebrate.Burst
	status   string

	width  int
	height int
}

// newModel builds the screen and its game. The game's celebration hook is
// always the model's.
func newModel(ctx context.Context, d deps, opts game.Options, artistName string) *model {
	if d.now == nil {
		d.now = time.Now
	}
	in := textinput.New()
	in.Placeholder = "Type the song title and press enter"
	in.Prompt = "> "
	in.CharLimit = 200
	in.Focus()

	m := &model{
		deps:   d,
		ctx:    ctx,
		input:  in,
		artist: artistName,
	}
	opts.Celebrate = m.onWin
	m.game = game.New(opts)
	return m
}

// onWin is the game's celebration hook.
func (m *model) onWin(song game.Song) {
	m.burst = celebrate.NewBurst(m.now(), nil)
	m.notifier.Announce("Correct!", song.Label())
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadArtist(m.artist))
}

func (m *model) loadArtist(name string) tea.Cmd {
	m.artist = name
	m.loading = true
	m.game.BeginLoading(name)
	ctx, load := m.ctx, m.loadSongs
	return func() tea.Msg {
		songs, err := load(ctx, name)
		return songsLoadedMsg{artist: name, songs: songs, err: err}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case dispatchMsg:
		msg()

	case songsLoadedMsg:
		if msg.artist != m.artist {
			return m, nil
		}
		m.loading = false
		m.game.FinishLoading(msg.artist, msg.songs, msg.err)

	case audioLoadedMsg:
		if msg.url != m.audioURL {
			if msg.err == nil && msg.audio != nil {
				_ = msg.audio.Close()
			}
			return m, nil
		}
		if msg.err != nil {
			slog.Warn("failed to open preview", "url", msg.url, "error", msg.err)
			m.audioErr = msg.err
			return m, nil
		}
		m.audio = msg.audio
		m.game.BindAudio(msg.audio)

	case celebrateTickMsg:
		if m.burst.Active(time.Time(msg)) {
			cmds = append(cmds, celebrateTick())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-4)

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			m.shutdown()
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.syncAudio())
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	m.status = ""
	wasCelebrating := m.burst.Active(m.now())

	switch msg.String() {
	case "ctrl+c":
		return nil, true
	case "esc":
		if m.mode == modeArtist {
			m.setMode(modeGuess)
			return nil, false
		}
		return nil, true
	case "enter":
		return m.submit(wasCelebrating), false
	case "ctrl+p":
		m.game.PlaySnippet()
	case "ctrl+g":
		m.game.GiveHint()
		m.noteReveal()
	case "ctrl+n":
		if song, ok := m.game.CurrentSong(); ok {
			m.revealed = &song
		}
		m.game.ChangeSong()
	case "ctrl+x":
		m.game.StopAudio()
	case "pgup":
		m.game.SetVolume(m.game.Volume() + volumeStep)
	case "pgdown":
		m.game.SetVolume(m.game.Volume() - volumeStep)
	case "ctrl+y":
		m.copyAnswer()
	case "ctrl+a":
		if m.mode == modeArtist {
			m.setMode(modeGuess)
		} else {
			m.setMode(modeArtist)
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.mode == modeGuess {
			m.game.SetInput(m.input.Value())
		}
		return cmd, false
	}
	return nil, false
}

func (m *model) submit(wasCelebrating bool) tea.Cmd {
	text := m.input.Value()
	if m.mode == modeArtist {
		m.setMode(modeGuess)
		if err := artist.Select(m.store, text); err != nil {
			m.status = err.Error()
			return nil
		}
		return m.loadArtist(text)
	}

	m.game.SubmitGuess(text)
	m.input.SetValue(m.game.Input())
	m.noteReveal()

	if !wasCelebrating && m.burst.Active(m.now()) {
		return celebrateTick()
	}
	return nil
}

// noteReveal remembers the answer once the round has ended.
func (m *model) noteReveal() {
	if m.game.Phase() != game.Ended {
		return
	}
	if song, ok := m.game.CurrentSong(); ok {
		m.revealed = &song
	}
}

func (m *model) copyAnswer() {
	if m.revealed == nil {
		m.status = "Nothing revealed yet"
		return
	}
	if err := m.copy(m.revealed.Label()); err != nil {
		slog.Debug("clipboard write failed", "error", err)
		m.status = "Clipboard unavailable"
		return
	}
	m.status = "Copied " + m.revealed.Title
}

func (m *model) setMode(mode inputMode) {
	m.mode = mode
	switch mode {
	case modeArtist:
		m.input.Prompt = "artist> "
		m.input.Placeholder = "Artist name"
		m.input.SetValue("")
	default:
		m.input.Prompt = "> "
		m.input.Placeholder = "Type the song title and press enter"
		m.input.SetValue(m.game.Input())
	}
}

// syncAudio starts loading the preview whenever the current song changed.
func (m *model) syncAudio() tea.Cmd {
	song, ok := m.game.CurrentSong()
	url := ""
	if ok {
		url = song.URL
	}
	if url == m.audioURL {
		return nil
	}

	m.game.BindAudio(nil)
	m.releaseAudio()
	m.audioURL = url
	m.audioErr = nil
	if url == "" {
		return nil
	}

	ctx, open := m.ctx, m.openAudio
	return func() tea.Msg {
		a, err := open(ctx, url)
		return audioLoadedMsg{url: url, audio: a, err: err}
	}
}

func (m *model) releaseAudio() {
	if m.audio == nil {
		return
	}
	if err := m.audio.Close(); err != nil {
		slog.Debug("failed to close audio", "error", err)
	}
	m.audio = nil
}

func (m *model) shutdown() {
	m.game.StopAudio()
	m.game.BindAudio(nil)
	m.releaseAudio()
}

func celebrateTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return celebrateTickMsg(t)
	})
}
