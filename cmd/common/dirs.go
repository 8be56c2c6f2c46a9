package common

import (
	"os"
	"path/filepath"
)

const appName = "guesstune"

func CacheDir() string {
	return filepath.Join(cacheHome(), appName)
}

// HomeDir returns the guesstune state directory holding config.json and
// store.json. GUESSTUNE_HOME overrides the default of ~/.guesstune.
func HomeDir() string {
	if dir := os.Getenv("GUESSTUNE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "."+appName)
}

// https://specifications.freedesktop.org/basedir/latest/#variables
func cacheHome() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".cache")
	}
	return dir
}
