package search

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gigurra/guesstune/cmd/common/config"
	"github.com/gigurra/guesstune/cmd/deezer"
)

type fakeSearcher struct {
	pages int
}

func (f *fakeSearcher) Search(_ context.Context, query string, pages, pageSize int, order string) ([]deezer.Track, error) {
	f.pages = pages
	return []deezer.Track{
		{Title: "Uprising", Artist: deezer.Artist{Name: "Muse"}, Preview: "https://cdn.example/u.mp3"},
		{Title: "Hysteria", Artist: deezer.Artist{Name: "Muse"}, Preview: "https://cdn.example/h.mp3"},
		{Title: "Starlight", Artist: deezer.Artist{Name: "Muse"}, Preview: "https://cdn.example/s.mp3"},
	}, nil
}

func TestRunTable(t *testing.T) {
	var out bytes.Buffer
	s := &fakeSearcher{}
	if err := run(context.Background(), &Params{Artist: "Muse"}, config.DefaultConfig(), s, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"Uprising", "Hysteria", "Starlight", "3 TRACKS"} {
		if !strings.Contains(strings.ToUpper(out.String()), strings.ToUpper(want)) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if s.pages != 8 {
		t.Errorf("pages = %d, want config default 8", s.pages)
	}
}

func TestRunJSONWithLimit(t *testing.T) {
	var out bytes.Buffer
	s := &fakeSearcher{}
	params := &Params{Artist: "Muse", JSON: true, Limit: 2, Pages: 1}
	if err := run(context.Background(), params, config.DefaultConfig(), s, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var entries []Entry
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(entries) != 2 || entries[0].Title != "Uprising" || !entries[0].Playable {
		t.Errorf("entries = %+v", entries)
	}
	if s.pages != 1 {
		t.Errorf("pages = %d, want 1", s.pages)
	}
}
