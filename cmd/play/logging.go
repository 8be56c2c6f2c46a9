package play

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gigurra/guesstune/cmd/common"
)

// LogPath returns the path of the play log file.
func LogPath() string {
	return filepath.Join(common.CacheDir(), "play.log")
}

// setupLogging points slog at the play log so log lines never reach the
// terminal while the UI owns it. The returned closer is never nil.
func setupLogging(verbose bool) io.Closer {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logPath := LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return io.NopCloser(nil)
	}
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return io.NopCloser(nil)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})))
	return logFile
}
