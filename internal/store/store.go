// Package store defines the key-value persistence used by the trackers.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Store is an asynchronous-friendly string key-value store. Absent keys
// are reported with ok == false and a nil error. Set always overwrites.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Watcher is implemented by backends that can observe writes made by
// other processes. A receive on Changes means cached state may be stale.
type Watcher interface {
	Changes() <-chan struct{}
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ErrUnknownBackend is returned when a backend name is not recognized.
var ErrUnknownBackend = errors.New("unknown store backend")

// Backend names accepted in configuration.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Memory is an in-memory Store. FailGet and FailSet, when non-nil, are
// returned by every Get and Set so failure paths can be exercised.
type Memory struct {
	mu      sync.RWMutex
	data    map[string]string
	writes  int
	FailGet error
	FailSet error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailGet != nil {
		return "", false, m.FailGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSet != nil {
		return fmt.Errorf("set %s: %w", key, m.FailSet)
	}
	m.data[key] = value
	m.writes++
	return nil
}

// Keys returns every stored key starting with prefix, sorted.
func (m *Memory) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return matchingKeys(m.data, prefix), nil
}

// matchingKeys returns the sorted keys of data starting with prefix.
func matchingKeys(data map[string]string, prefix string) []string {
	var keys []string
	for k := range data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Writes returns how many successful Set calls were made.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
