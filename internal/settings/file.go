package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tailscale/hujson"
)

// FileBackend stores settings as a JSON object. Comments and trailing
// commas are accepted when reading, so the file can be edited by hand.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the settings file location.
func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) Load(_ context.Context, keys ...string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return nil, err
	}
	return selectKeys(all, keys), nil
}

func (f *FileBackend) Save(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		all[k] = v
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }

func (f *FileBackend) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	all := make(map[string]string)
	if len(bytes.TrimSpace(data)) == 0 {
		return all, nil
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", f.path, err)
	}

	if err := json.Unmarshal(std, &all); err != nil {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", f.path, err)
	}
	return all, nil
}
