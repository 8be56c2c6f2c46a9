package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GUESSTUNE_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DefaultArtist != "Lady Gaga" {
		t.Errorf("DefaultArtist = %q, want 'Lady Gaga'", cfg.DefaultArtist)
	}
	if len(cfg.SnippetSeconds) != 5 || cfg.SnippetSeconds[4] != 19 {
		t.Errorf("SnippetSeconds = %v, want [1 5 9 14 19]", cfg.SnippetSeconds)
	}
	if *cfg.Volume != 0.4 {
		t.Errorf("Volume = %f, want 0.4", *cfg.Volume)
	}
	if cfg.SearchPages != 8 || cfg.SearchPageSize != 25 {
		t.Errorf("SearchPages/PageSize = %d/%d, want 8/25", cfg.SearchPages, cfg.SearchPageSize)
	}
	if !cfg.NotificationsEnabled() {
		t.Error("notifications should default to enabled")
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GUESSTUNE_HOME", dir)

	raw := `{"default_artist": "Muse", "volume": 0, "notifications": false}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultArtist != "Muse" {
		t.Errorf("DefaultArtist = %q, want 'Muse'", cfg.DefaultArtist)
	}
	if *cfg.Volume != 0 {
		t.Errorf("explicit zero volume should be kept, got %f", *cfg.Volume)
	}
	if cfg.NotificationsEnabled() {
		t.Error("notifications should be disabled")
	}
	if cfg.DeezerURL != "https://api.deezer.com" {
		t.Errorf("DeezerURL = %q, want default", cfg.DeezerURL)
	}
}

func TestLoadRejectsInvalidSnippets(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unsorted", `{"snippet_seconds": [5, 1, 9, 14, 19]}`},
		{"too short", `{"snippet_seconds": [1, 2, 3]}`},
		{"too long", `{"snippet_seconds": [1, 2, 3, 4, 5, 6]}`},
		{"duplicates", `{"snippet_seconds": [1, 1, 1, 1, 1]}`},
		{"non-positive", `{"snippet_seconds": [0, 1, 2, 3, 4]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("GUESSTUNE_HOME", dir)
			if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(tt.raw), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			want := DefaultConfig().SnippetSeconds
			if len(cfg.SnippetSeconds) != len(want) {
				t.Fatalf("SnippetSeconds = %v, want defaults %v", cfg.SnippetSeconds, want)
			}
			for i := range want {
				if cfg.SnippetSeconds[i] != want[i] {
					t.Errorf("SnippetSeconds = %v, want defaults %v", cfg.SnippetSeconds, want)
					break
				}
			}
		})
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GUESSTUNE_HOME", dir)

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load() should fail on invalid JSON")
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("GUESSTUNE_HOME", filepath.Join(t.TempDir(), "nested"))

	cfg := DefaultConfig()
	cfg.DefaultArtist = "Daft Punk"
	cfg.SnippetSeconds = []float64{0.5, 2, 4, 8, 16}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.DefaultArtist != "Daft Punk" {
		t.Errorf("DefaultArtist = %q, want 'Daft Punk'", loaded.DefaultArtist)
	}

	durations := loaded.SnippetDurations()
	want := []time.Duration{500 * time.Millisecond, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}
	if len(durations) != len(want) {
		t.Fatalf("SnippetDurations() = %v, want %v", durations, want)
	}
	for i := range want {
		if durations[i] != want[i] {
			t.Errorf("SnippetDurations()[%d] = %v, want %v", i, durations[i], want[i])
		}
	}
}
