// Package config provides configuration loading for guesstune.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gigurra/guesstune/cmd/common"
)

// Config represents the guesstune configuration file structure.
type Config struct {
	DefaultArtist  string    `json:"default_artist,omitempty"`
	SnippetSeconds []float64 `json:"snippet_seconds,omitempty"`
	Volume         *float64  `json:"volume,omitempty"`
	SearchPages    int       `json:"search_pages,omitempty"`
	SearchPageSize int       `json:"search_page_size,omitempty"`
	DeezerURL      string    `json:"deezer_url,omitempty"`
	Notifications  *bool     `json:"notifications,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	volume := 0.4
	notify := true
	return &Config{
		DefaultArtist:  "Lady Gaga",
		SnippetSeconds: []float64{1, 5, 9, 14, 19},
		Volume:         &volume,
		SearchPages:    8,
		SearchPageSize: 25,
		DeezerURL:      "https://api.deezer.com",
		Notifications:  &notify,
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(common.HomeDir(), "config.json")
}

// Load loads the config from the guesstune home directory.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return &config, nil
}

// Save saves the config to the guesstune home directory.
func Save(config *Config) error {
	if err := os.MkdirAll(common.HomeDir(), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.DefaultArtist == "" {
		c.DefaultArtist = defaults.DefaultArtist
	}
	if !validSnippets(c.SnippetSeconds, len(defaults.SnippetSeconds)) {
		c.SnippetSeconds = defaults.SnippetSeconds
	}
	if c.Volume == nil {
		c.Volume = defaults.Volume
	}
	if c.SearchPages <= 0 {
		c.SearchPages = defaults.SearchPages
	}
	if c.SearchPageSize <= 0 {
		c.SearchPageSize = defaults.SearchPageSize
	}
	if c.DeezerURL == "" {
		c.DeezerURL = defaults.DeezerURL
	}
	if c.Notifications == nil {
		c.Notifications = defaults.Notifications
	}
}

// validSnippets reports whether s has one positive entry per attempt in
// strictly ascending order.
func validSnippets(s []float64, attempts int) bool {
	if len(s) != attempts || s[0] <= 0 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return false
		}
	}
	return true
}

// SnippetDurations returns the configured snippet lengths as durations.
func (c *Config) SnippetDurations() []time.Duration {
	out := make([]time.Duration, len(c.SnippetSeconds))
	for i, s := range c.SnippetSeconds {
		out[i] = time.Duration(s * float64(time.Second))
	}
	return out
}

// NotificationsEnabled reports whether desktop notifications should be sent on a win.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications != nil && *c.Notifications
}
