package play

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/guesstune/cmd/artist"
	"github.com/gigurra/guesstune/cmd/celebrate"
	"github.com/gigurra/guesstune/cmd/common"
	"github.com/gigurra/guesstune/cmd/common/config"
	"github.com/gigurra/guesstune/cmd/common/kvstore"
	"github.com/gigurra/guesstune/cmd/deezer"
	"github.com/gigurra/guesstune/cmd/jukebox"
	"github.com/gigurra/guesstune/cmd/quiz/catalog"
	"github.com/gigurra/guesstune/cmd/quiz/game"
	"github.com/gigurra/guesstune/cmd/quiz/snippet"
	"github.com/gigurra/guesstune/cmd/quiz/stats"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type Params struct {
	Artist  string  `pos:"true" optional:"true" help:"Artist to guess songs from. Defaults to the selected artist."`
	Pages   int     `short:"p" optional:"true" help:"Search pages per query (0 = config value)." default:"0"`
	Volume  float64 `optional:"true" help:"Initial volume between 0 and 1 (negative = config value)." default:"-1"`
	Verbose bool    `short:"v" optional:"true" help:"Write debug logs to the play log."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "play",
		Short: "Guess songs from short preview snippets",
		Long: `Play the guessing game in the terminal.

Each round plays a snippet of a random track by the artist. Every wrong guess
or hint lengthens the snippet (1s, 5s, 9s, 14s, 19s by default) until the five
attempts are used up. Statistics are kept between sessions.

Keys:
  enter       submit guess
  ctrl+p      play snippet
  ctrl+g      hint (longer snippet, uses one of the five tries)
  ctrl+n      skip to another song
  ctrl+x      stop playback
  pgup/pgdn   volume
  ctrl+y      copy the revealed answer
  ctrl+a      switch artist
  esc         quit`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.ExitOnError("play", run(cmd.Context(), params))
		},
	}.ToCobra()
}

func run(ctx context.Context, params *Params) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("play needs an interactive terminal")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCloser := setupLogging(params.Verbose)
	defer logCloser.Close()

	store, err := kvstore.Open(kvstore.DefaultPath())
	if err != nil {
		slog.Warn("store unreadable, starting fresh", "path", store.Path(), "error", err)
	}

	name := params.Artist
	if name == "" {
		name = artist.Selected(store, cfg.DefaultArtist)
	} else if err := artist.Select(store, name); err != nil {
		slog.Debug("failed to persist artist", "error", err)
	}

	pages := cfg.SearchPages
	if params.Pages > 0 {
		pages = params.Pages
	}
	volume := *cfg.Volume
	if params.Volume >= 0 {
		volume = params.Volume
	}

	client := deezer.NewClient(cfg.DeezerURL)
	httpClient := &http.Client{Timeout: 30 * time.Second}

	var program *tea.Program
	sched := snippet.NewLoopScheduler(func(fn func()) {
		program.Send(dispatchMsg(fn))
	}, snippet.DefaultFrameInterval)

	d := deps{
		store: store,
		loadSongs: func(ctx context.Context, name string) ([]game.Song, error) {
			return catalog.ArtistSongs(ctx, client, name, pages, cfg.SearchPageSize)
		},
		openAudio: func(ctx context.Context, url string) (AudioElement, error) {
			el, err := jukebox.Open(ctx, httpClient, url)
			if err != nil {
				return nil, err
			}
			return el, nil
		},
		copy:     clipboard.WriteAll,
		notifier: celebrate.NewNotifier(cfg.NotificationsEnabled()),
	}
	opts := game.Options{
		SnippetDurations: cfg.SnippetDurations(),
		Volume:           volume,
		Stats:            stats.Load(store),
		Scheduler:        sched,
		Playable:         jukebox.CanPlay,
	}

	m := newModel(ctx, d, opts, name)
	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	slog.Info("play session started", "artist", name, "pages", pages, "audio", jukebox.AudioAvailable)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	m.shutdown()
	return nil
}
