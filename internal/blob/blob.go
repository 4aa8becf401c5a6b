// Package blob defines the key-value store that holds serialized collections.
package blob

import (
	"context"
	"errors"
	"sync"
)

// ErrCorrupt is returned by codecs when a stored value cannot be decoded.
var ErrCorrupt = errors.New("blob: corrupt value")

// Store reads and writes whole values by key.
// Get reports false when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Memory keeps values in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

// Disabled is the store used when no persistence is available.
// Every read is empty and every write is dropped.
type Disabled struct{}

func (Disabled) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Disabled) Put(context.Context, string, []byte) error         { return nil }
