// Package jukebox turns downloaded preview clips into playable audio elements.
package jukebox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxClipSize bounds preview downloads. Deezer previews are ~30s mp3s.
const maxClipSize = 16 << 20

var (
	ErrAudioUnavailable = errors.New("audio playback is not supported in this build")
	ErrUnsupported      = errors.New("unsupported audio format")
	ErrTooLarge         = errors.New("audio clip too large")
)

// Format is the container of a clip, guessed from its URL.
type Format string

const (
	FormatUnknown Format = ""
	FormatMP3     Format = "mp3"
	FormatWAV     Format = "wav"
	FormatOGG     Format = "ogg"
)

// FormatOf guesses a clip format from the URL path extension.
func FormatOf(rawURL string) Format {
	path := strings.SplitN(rawURL, "?", 2)[0]
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	switch {
	case strings.HasSuffix(path, ".mp3"):
		return FormatMP3
	case strings.HasSuffix(path, ".wav"):
		return FormatWAV
	case strings.HasSuffix(path, ".ogg"):
		return FormatOGG
	default:
		return FormatUnknown
	}
}

// CanPlay reports whether the decoder can play the clip at rawURL. Unknown
// formats are assumed playable.
func CanPlay(rawURL string) bool {
	return FormatOf(rawURL) != FormatOGG
}

// Fetch downloads a clip into memory.
func Fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxClipSize+1))
	if err != nil {
		return nil, fmt.Errorf("read clip: %w", err)
	}
	if len(data) > maxClipSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Open downloads and decodes the clip at rawURL.
func Open(ctx context.Context, client *http.Client, rawURL string) (*Element, error) {
	if !AudioAvailable {
		return nil, ErrAudioUnavailable
	}
	format := FormatOf(rawURL)
	if format == FormatOGG {
		return nil, ErrUnsupported
	}
	data, err := Fetch(ctx, client, rawURL)
	if err != nil {
		return nil, err
	}
	if format == FormatUnknown && bytes.HasPrefix(data, []byte("RIFF")) {
		format = FormatWAV
	}
	return newElement(data, format)
}

// nopCloser wraps a bytes.Reader to implement io.ReadCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
