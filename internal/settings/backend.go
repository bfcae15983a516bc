// Package settings persists the window's docking state across restarts.
package settings

import (
	"context"
	"fmt"
	"sync"
)

// Backend is a flat key/value store. Load with no keys returns everything.
type Backend interface {
	Load(ctx context.Context, keys ...string) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
	Close() error
}

// BackendKind names a storage implementation.
type BackendKind string

const (
	BackendFile   BackendKind = "file"
	BackendSQLite BackendKind = "sqlite"
	BackendMemory BackendKind = "memory"
)

// OpenBackend opens the backend of the given kind at path.
func OpenBackend(kind BackendKind, path string) (Backend, error) {
	switch kind {
	case BackendFile, "":
		return NewFileBackend(path), nil
	case BackendSQLite:
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q", kind)
	}
}

// MemoryBackend keeps settings in a map.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

// Fail makes every subsequent call return err. Pass nil to recover.
func (m *MemoryBackend) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryBackend) Load(_ context.Context, keys ...string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return selectKeys(m.values, keys), nil
}

func (m *MemoryBackend) Save(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

func selectKeys(all map[string]string, keys []string) map[string]string {
	out := make(map[string]string)
	if len(keys) == 0 {
		for k, v := range all {
			out[k] = v
		}
		return out
	}
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out
}
