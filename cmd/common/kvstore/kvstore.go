// Package kvstore is a small file-backed string key-value store, used for
// state that must survive between game sessions.
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gigurra/guesstune/cmd/common"
)

var ErrNotFound = errors.New("key not found")

// File keeps all values in memory and rewrites the whole backing file on every Set.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// DefaultPath returns the path to store.json in the guesstune home directory.
func DefaultPath() string {
	return filepath.Join(common.HomeDir(), "store.json")
}

// Open reads the store at path. A missing file yields an empty store. A
// corrupt file also yields a usable empty store, together with the decode error.
func Open(path string) (*File, error) {
	f := &File{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("read store: %w", err)
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		f.values = map[string]string{}
		return f, fmt.Errorf("decode store %s: %w", path, err)
	}
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key and persists the store. The in-memory value is
// updated even when writing the file fails.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value
	return f.flushLocked()
}

func (f *File) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
