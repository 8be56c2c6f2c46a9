package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/guesstune/cmd/common"
	"github.com/gigurra/guesstune/cmd/common/config"
	"github.com/gigurra/guesstune/cmd/deezer"
	"github.com/gigurra/guesstune/cmd/jukebox"
	"github.com/gigurra/guesstune/cmd/quiz/catalog"
	"github.com/gigurra/guesstune/cmd/quiz/game"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type Params struct {
	Artist string `pos:"true" help:"Artist to search for."`
	Pages  int    `short:"p" optional:"true" help:"Search pages per query (0 = config value)." default:"0"`
	JSON   bool   `long:"json" optional:"true" help:"Output as JSON."`
	Limit  int    `short:"n" optional:"true" help:"Limit number of results (0 = no limit)." default:"0"`
}

// Entry is one line of output.
type Entry struct {
	game.Song
	Playable bool `json:"playable"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "search",
		Short:       "List the tracks a game for an artist would use",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load()
			if err != nil {
				common.ExitOnError("search", fmt.Errorf("load config: %w", err))
			}
			client := deezer.NewClient(cfg.DeezerURL)
			common.ExitOnError("search", run(ctx, params, cfg, client, os.Stdout))
		},
	}.ToCobra()
}

func run(ctx context.Context, params *Params, cfg *config.Config, s catalog.Searcher, stdout io.Writer) error {
	pages := cfg.SearchPages
	if params.Pages > 0 {
		pages = params.Pages
	}

	songs, err := catalog.ArtistSongs(ctx, s, params.Artist, pages, cfg.SearchPageSize)
	if err != nil {
		return err
	}
	if params.Limit > 0 && len(songs) > params.Limit {
		songs = songs[:params.Limit]
	}

	entries := lo.Map(songs, func(s game.Song, _ int) Entry {
		return Entry{Song: s, Playable: jukebox.CanPlay(s.URL)}
	})

	if params.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	renderTable(stdout, entries, terminalWidth())
	return nil
}

// terminalWidth returns the terminal width, or a default if unavailable
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}

func renderTable(stdout io.Writer, entries []Entry, termWidth int) {
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(termWidth)

	// #=4, Playable=8, borders/padding ~16
	titleWidth := max(20, min(60, (termWidth-28)/2))
	artistWidth := max(12, min(40, termWidth-28-titleWidth))

	t.AppendHeader(table.Row{"#", "Title", "Artist", "Playable"})
	for i, e := range entries {
		t.AppendRow(table.Row{
			i + 1,
			runewidth.Truncate(e.Title, titleWidth, "…"),
			runewidth.Truncate(e.Artist, artistWidth, "…"),
			lo.Ternary(e.Playable, "yes", "no"),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tracks", len(entries)), "", ""})
	t.Render()
}
