package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/fsnotify/fsnotify"
	"github.com/gigurra/guesstune/cmd/common"
	"github.com/gigurra/guesstune/cmd/common/kvstore"
	gamestats "github.com/gigurra/guesstune/cmd/quiz/stats"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type Params struct {
	JSON  bool `long:"json" optional:"true" help:"Output as JSON."`
	Watch bool `short:"w" optional:"true" help:"Keep running and redraw whenever the statistics change."`
	Reset bool `long:"reset" optional:"true" help:"Reset all statistics to zero."`
}

// Report is the JSON output: the raw counters plus derived values.
type Report struct {
	gamestats.Statistics
	Accuracy                       float64 `json:"accuracy"`
	AverageSnippetSecondsAtCorrect float64 `json:"averageSnippetSecondsAtCorrect"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "stats",
		Short:       "Show lifetime game statistics",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			common.ExitOnError("stats", run(ctx, params, kvstore.DefaultPath(), os.Stdout))
		},
	}.ToCobra()
}

func run(ctx context.Context, params *Params, storePath string, stdout io.Writer) error {
	if params.Reset {
		store, err := kvstore.Open(storePath)
		if err != nil {
			return err
		}
		gamestats.Load(store).Reset()
		fmt.Fprintln(stdout, "Statistics reset.")
		return nil
	}

	if err := render(params, storePath, stdout); err != nil {
		return err
	}
	if !params.Watch {
		return nil
	}
	return watch(ctx, storePath, func() {
		if !params.JSON {
			fmt.Fprint(stdout, "\033[H\033[2J")
		}
		if err := render(params, storePath, stdout); err != nil {
			fmt.Fprintf(os.Stderr, "stats: %v\n", err)
		}
	})
}

func load(storePath string) (gamestats.Statistics, error) {
	store, err := kvstore.Open(storePath)
	if err != nil {
		return gamestats.Statistics{}, err
	}
	return gamestats.Load(store).Snapshot(), nil
}

func render(params *Params, storePath string, stdout io.Writer) error {
	s, err := load(storePath)
	if err != nil {
		return err
	}
	if params.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(Report{
			Statistics:                     s,
			Accuracy:                       s.Accuracy(),
			AverageSnippetSecondsAtCorrect: s.AverageSnippetSecondsAtCorrect(),
		})
	}
	renderTable(stdout, s)
	return nil
}

func renderTable(stdout io.Writer, s gamestats.Statistics) {
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	t.AppendHeader(table.Row{"Statistic", "Value"})
	t.AppendRows([]table.Row{
		{"Songs started", s.SongsStarted},
		{"Songs completed", s.SongsCompleted},
		{"Songs skipped", s.SongsSkipped},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Guesses", s.TotalGuesses},
		{"Correct", s.CorrectGuesses},
		{"Wrong", s.WrongGuesses},
		{"Accuracy", fmt.Sprintf("%.1f%%", s.Accuracy()*100)},
		{"Hints used", s.HintsUsed},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Snippets played", s.TotalSnippetPlays},
		{"Listening time", time.Duration(s.TotalSnippetMsPlayed * float64(time.Millisecond)).Round(time.Second).String()},
		{"Avg snippet at correct", fmt.Sprintf("%.1fs", s.AverageSnippetSecondsAtCorrect())},
	})
	t.Render()
}

// watch calls onChange whenever the store file is written, until ctx ends.
// The directory is watched since the store is replaced by rename.
func watch(ctx context.Context, storePath string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(storePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// Writes come in bursts during play; coalesce them.
	const debounce = 200 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(storePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(debounce)
			}
		case <-pending:
			pending = nil
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
