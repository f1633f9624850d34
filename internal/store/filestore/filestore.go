// Package filestore provides a JSON-file key-value store with file watching.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/natefinch/atomic"

	"github.com/j-veylop/laborlog-tui/internal/logger"
)

const debounceInterval = 100 * time.Millisecond

// Store keeps every key in memory and mirrors the full map to a single
// JSON object file on each write.
type Store struct {
	mu            sync.RWMutex
	data          map[string]string
	lastWritten   []byte
	filePath      string
	watcher       *fsnotify.Watcher
	changes       chan struct{}
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New opens (or creates) the JSON store at filePath and starts watching it.
func New(filePath string) (*Store, error) {
	if filePath == "" {
		return nil, errors.New("filestore: empty path")
	}

	s := &Store{
		data:     make(map[string]string),
		filePath: filePath,
		changes:  make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load store: %w", err)
		}
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to create store file: %w", err)
		}
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.filePath
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key and rewrites the file atomically. On write
// failure the previous value is restored.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data[key]
	s.data[key] = value

	if err := s.saveLocked(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Keys returns every stored key starting with prefix, sorted.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Changes signals after the file was modified by another process and the
// in-memory copy has been reloaded.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// load replaces the in-memory map with the file contents.
func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	data := make(map[string]string)
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("invalid store file %s: %w", s.filePath, err)
		}
	}

	s.data = data
	s.lastWritten = raw
	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes the full map to disk (must hold lock).
func (s *Store) saveLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err := atomic.WriteFile(s.filePath, bytes.NewReader(raw)); err != nil {
		return err
	}
	if err := os.Chmod(s.filePath, 0o600); err != nil {
		logger.Warn("failed to set store file permissions", "path", s.filePath, "error", err)
	}

	s.lastWritten = raw
	return nil
}

// startWatcher starts the file system watcher.
func (s *Store) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory; atomic writes replace the file by rename.
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Store) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("store watcher error", "path", s.filePath, "error", err)

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the map if the file differs from what this
// process last wrote.
func (s *Store) handleFileChange() {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read changed store file", "path", s.filePath, "error", err)
		}
		return
	}

	s.mu.Lock()
	if bytes.Equal(raw, s.lastWritten) {
		s.mu.Unlock()
		return
	}
	err = s.loadLocked()
	s.mu.Unlock()

	if err != nil {
		logger.Warn("ignoring external store change", "path", s.filePath, "error", err)
		return
	}

	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
