package jukebox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gigurra/guesstune/cmd/quiz/snippet"
)

var _ snippet.Audio = (*Element)(nil)

func TestFormatOfAndCanPlay(t *testing.T) {
	tests := []struct {
		url      string
		format   Format
		playable bool
	}{
		{"https://cdns-preview.dzcdn.net/stream/c-abc.mp3?hdnea=exp=1", FormatMP3, true},
		{"https://example.com/clip.wav", FormatWAV, true},
		{"https://example.com/clip.ogg", FormatOGG, false},
		{"https://example.com/stream", FormatUnknown, true},
		{"clip.ogg?x=.mp3", FormatOGG, false},
		{"", FormatUnknown, true},
	}
	for _, tt := range tests {
		if got := FormatOf(tt.url); got != tt.format {
			t.Errorf("FormatOf(%q) = %q, want %q", tt.url, got, tt.format)
		}
		if got := CanPlay(tt.url); got != tt.playable {
			t.Errorf("CanPlay(%q) = %v, want %v", tt.url, got, tt.playable)
		}
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.mp3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ID3 not really an mp3"))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.Client(), srv.URL+"/clip.mp3")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "ID3") {
		t.Errorf("Fetch() = %q", data)
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing.mp3"); err == nil {
		t.Error("Fetch() should fail on 404")
	}
}

func TestFetchTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 1<<20)
		for range maxClipSize>>20 + 1 {
			_, _ = w.Write(chunk)
		}
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), nil, srv.URL+"/big.mp3"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Fetch() error = %v, want ErrTooLarge", err)
	}
}

func TestOpenRejectsOgg(t *testing.T) {
	_, err := Open(context.Background(), nil, "https://example.com/clip.ogg")
	if err == nil {
		t.Fatal("Open() should refuse ogg clips")
	}
	if AudioAvailable && !errors.Is(err, ErrUnsupported) {
		t.Errorf("Open() error = %v, want ErrUnsupported", err)
	}
	if !AudioAvailable && !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("Open() error = %v, want ErrAudioUnavailable", err)
	}
}

func TestOpenUndecodable(t *testing.T) {
	if !AudioAvailable {
		t.Skip("no audio in this build")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("definitely not audio"))
	}))
	defer srv.Close()

	if _, err := Open(context.Background(), srv.Client(), srv.URL+"/clip.mp3"); err == nil {
		t.Error("Open() should fail to decode garbage")
	}
}
