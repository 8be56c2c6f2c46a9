// Package catalog builds a song pool for an artist from search results.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/gigurra/guesstune/cmd/deezer"
	"github.com/gigurra/guesstune/cmd/quiz/game"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the number of tracks requested per search page.
const DefaultPageSize = 25

// Searcher runs one paged track search.
type Searcher interface {
	Search(ctx context.Context, query string, pages, pageSize int, order string) ([]deezer.Track, error)
}

type alias struct {
	trigger *regexp.Regexp
	queries []string
	artist  *regexp.Regexp
}

// Artists commonly misspelled by players, with the names Deezer knows them by.
var aliases = []alias{
	{
		trigger: regexp.MustCompile(`(?i)panic`),
		queries: []string{"Panic! at the Disco", "Panic at the Disco"},
		artist:  regexp.MustCompile(`panic!? at the disco`),
	},
	{
		trigger: regexp.MustCompile(`(?i)weekend`),
		queries: []string{"The Weeknd"},
		artist:  regexp.MustCompile(`weeknd`),
	},
}

// Queries returns the search queries used for artist.
func Queries(artist string) []string {
	queries := []string{`artist:"` + artist + `"`, artist}
	for _, a := range aliases {
		if a.trigger.MatchString(artist) {
			queries = append(queries, a.queries...)
		}
	}
	return queries
}

// ArtistSongs searches all queries for artist concurrently and returns the
// deduplicated mp3 previews credited to that artist. Any failed query fails
// the whole load.
func ArtistSongs(ctx context.Context, s Searcher, artist string, pages, pageSize int) ([]game.Song, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	queries := Queries(artist)
	results := make([][]deezer.Track, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			tracks, err := s.Search(ctx, q, pages, pageSize, deezer.OrderRanking)
			if err != nil {
				return err
			}
			results[i] = tracks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load %s tracks: %w", artist, err)
	}

	songs := Merge(artist, results...)
	slog.Debug("catalog loaded", "artist", artist, "queries", len(queries), "songs", len(songs))
	return songs, nil
}

// Merge filters and deduplicates search results in query order.
func Merge(artist string, results ...[]deezer.Track) []game.Song {
	seen := map[string]bool{}
	var songs []game.Song
	for _, t := range lo.Flatten(results) {
		path, ok := mp3Path(t.Preview)
		if !ok || t.Artist.Name == "" {
			continue
		}
		key := t.Title + "|" + t.Artist.Name + "|" + path
		if seen[key] || !matchesArtist(artist, t.Artist.Name) {
			continue
		}
		seen[key] = true
		songs = append(songs, game.Song{
			Title:  t.Title,
			Artist: t.Artist.Name,
			URL:    t.Preview,
			Cover:  lo.CoalesceOrEmpty(t.Album.CoverMedium, t.Album.Cover),
		})
	}
	return songs
}

func matchesArtist(target, name string) bool {
	name = strings.ToLower(name)
	if strings.Contains(name, strings.ToLower(target)) {
		return true
	}
	return lo.SomeBy(aliases, func(a alias) bool {
		return a.trigger.MatchString(target) && a.artist.MatchString(name)
	})
}

func mp3Path(preview string) (string, bool) {
	if preview == "" {
		return "", false
	}
	path := strings.SplitN(preview, "?", 2)[0]
	if u, err := url.Parse(preview); err == nil {
		path = u.Path
	}
	return path, strings.HasSuffix(path, ".mp3")
}
