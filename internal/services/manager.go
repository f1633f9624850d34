// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/laborlog-tui/internal/config"
	"github.com/j-veylop/laborlog-tui/internal/db"
	"github.com/j-veylop/laborlog-tui/internal/logger"
	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/services/contractions"
	"github.com/j-veylop/laborlog-tui/internal/services/pushes"
	"github.com/j-veylop/laborlog-tui/internal/store"
	"github.com/j-veylop/laborlog-tui/internal/store/filestore"
)

type (
	// TapRecordedEvent is emitted after a tap was added to the log.
	TapRecordedEvent struct {
		Tap contractions.Tap
	}

	// PushRecordedEvent is emitted after a push counter was incremented.
	PushRecordedEvent struct {
		Push  pushes.Push
		Stats models.DayStats
	}

	// StoreChangedEvent is emitted when another process modified the store
	// and both services have been reloaded.
	StoreChangedEvent struct {
		Taps  int
		Stats models.DayStats
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (TapRecordedEvent) isServiceEvent()  {}
func (PushRecordedEvent) isServiceEvent() {}
func (StoreChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()        {}

// Notifier sends a desktop notification.
type Notifier func(title, body string) error

func beeepNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu           sync.RWMutex
	cfg          *config.Config
	store        store.Store
	database     *db.DB
	contractions *contractions.Service
	pushes       *pushes.Service
	notify       Notifier
	stopChan     chan struct{}
	subscribers  []chan ServiceEvent
	closeOnce    sync.Once
}

// NewManager opens the configured store and builds both trackers.
func NewManager(cfg *config.Config) (*Manager, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStore(cfg, st, nil), nil
}

// openStore creates the backend named by cfg.StoreBackend.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case store.BackendSQLite, "":
		database, err := db.New(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return database, nil
	case store.BackendJSON:
		fs, err := filestore.New(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open JSON store: %w", err)
		}
		return fs, nil
	case store.BackendMemory:
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownBackend, cfg.StoreBackend)
	}
}

// NewManagerWithStore builds a manager over an already opened store. Load
// failures are logged and leave the affected tracker empty. A nil clock
// uses time.Now.
func NewManagerWithStore(cfg *config.Config, st store.Store, now func() time.Time) *Manager {
	m := &Manager{
		cfg:          cfg,
		store:        st,
		contractions: contractions.New(st, now),
		pushes:       pushes.New(st, now),
		notify:       beeepNotify,
		stopChan:     make(chan struct{}),
	}
	if database, ok := st.(*db.DB); ok {
		m.database = database
	}

	ctx := context.Background()
	if err := m.contractions.Load(ctx); err != nil {
		logger.Error("failed to load tap log", "error", err)
	}
	if _, err := m.pushes.Reload(ctx); err != nil {
		logger.Error("failed to load push counters", "error", err)
	}

	if w, ok := st.(store.Watcher); ok {
		go m.routeChanges(w.Changes())
	}

	return m
}

// SetNotifier replaces the desktop notifier.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = n
}

// routeChanges reloads both services whenever the store reports an
// external write.
func (m *Manager) routeChanges(changes <-chan struct{}) {
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
			m.Reload()

		case <-m.stopChan:
			return
		}
	}
}

// Reload re-reads both trackers from the store and broadcasts the result.
func (m *Manager) Reload() {
	ctx := context.Background()

	if err := m.contractions.Load(ctx); err != nil {
		logger.Error("failed to reload tap log", "error", err)
		m.broadcast(ErrorEvent{Service: "contractions", Error: err})
	}
	stats, err := m.pushes.Reload(ctx)
	if err != nil {
		logger.Error("failed to reload push counters", "error", err)
		m.broadcast(ErrorEvent{Service: "pushes", Error: err})
	}

	logger.Debug("trackers reloaded", "taps", m.contractions.Len(), "pushes", stats.Total)
	m.broadcast(StoreChangedEvent{Taps: m.contractions.Len(), Stats: stats})
}

// RecordTap records a tap and notifies when the closed interval reached the
// transition phase. A persist failure is returned to the caller only; the
// tap is still broadcast since it stays in memory.
func (m *Manager) RecordTap(ctx context.Context) (contractions.Tap, error) {
	tap, err := m.contractions.RecordTap(ctx)
	if err != nil {
		logger.Error("failed to persist tap", "error", err)
	}

	m.checkNotifications(tap)
	m.broadcast(TapRecordedEvent{Tap: tap})
	return tap, err
}

func (m *Manager) checkNotifications(tap contractions.Tap) {
	if m.cfg == nil || !m.cfg.NotifyTransition || tap.Interval == nil {
		return
	}
	if !tap.Interval.HasPhase(models.PhaseTransition) {
		return
	}

	m.mu.RLock()
	notify := m.notify
	m.mu.RUnlock()

	title := fmt.Sprintf("Transition %s", tap.Interval.Kind)
	body := fmt.Sprintf("%s lasted %s", tap.Interval.Kind, models.FormatDuration(tap.Interval.DurationMs))
	if err := notify(title, body); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
}

// RecordPush increments the counter of the current hour. Errors are
// returned to the caller and not broadcast.
func (m *Manager) RecordPush(ctx context.Context) (pushes.Push, error) {
	push, err := m.pushes.RecordPush(ctx)
	if err != nil {
		if !errors.Is(err, pushes.ErrNotToday) {
			logger.Error("failed to record push", "error", err)
		}
		return push, err
	}

	m.broadcast(PushRecordedEvent{Push: push, Stats: m.pushes.Stats()})
	return push, nil
}

// SelectDate switches the pushes tracker to another day.
func (m *Manager) SelectDate(ctx context.Context, date string) (models.DayStats, error) {
	stats, err := m.pushes.SelectDate(ctx, date)
	if err != nil && !errors.Is(err, pushes.ErrFutureDate) {
		logger.Warn("failed to load day", "date", date, "error", err)
	}
	return stats, err
}

// RecordedDays returns every day with at least one push counter, sorted.
// Backends that cannot list keys yield nil.
func (m *Manager) RecordedDays(ctx context.Context) ([]string, error) {
	lister, ok := m.store.(store.Lister)
	if !ok {
		return nil, nil
	}

	keys, err := lister.Keys(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var days []string
	for _, k := range keys {
		if date, _, ok := models.ParsePushKey(k); ok {
			days = append(days, date)
		}
	}
	slices.Sort(days)
	return slices.Compact(days), nil
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel. A closed
// channel yields a nil message.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Contractions returns the tap log service.
func (m *Manager) Contractions() *contractions.Service {
	return m.contractions
}

// Pushes returns the push counter service.
func (m *Manager) Pushes() *pushes.Service {
	return m.pushes
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database returns the SQLite database, or nil for other backends.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Compact reclaims free space in the SQLite store. Other backends have
// nothing to compact.
func (m *Manager) Compact() error {
	if m.database == nil {
		return nil
	}
	if err := m.database.Vacuum(); err != nil {
		return fmt.Errorf("failed to compact database: %w", err)
	}
	logger.Info("database compacted", "path", m.database.Path())
	return nil
}

// Close stops event routing and closes the store. It is safe to call more
// than once.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.store != nil {
			err = m.store.Close()
		}
	})
	return err
}
