// Package pushes tracks pushes per hour for a selected calendar day.
package pushes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/j-veylop/laborlog-tui/internal/logger"
	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/store"
)

var (
	// ErrNotToday is returned when a push is recorded while a past day is selected.
	ErrNotToday = errors.New("pushes can only be recorded for today")
	// ErrFutureDate is returned when a day after today is selected.
	ErrFutureDate = errors.New("cannot select a future date")
)

// Push describes one recorded push.
type Push struct {
	Date  string
	Hour  int
	Count int
}

// Service keeps the selected day and its hourly counts.
type Service struct {
	mu       sync.RWMutex
	store    store.Store
	now      func() time.Time
	selected string
	stats    models.DayStats

	// writeMu serializes read-modify-write of a counter.
	writeMu sync.Mutex
}

// New creates a push counter with today selected. A nil clock uses time.Now.
func New(st store.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	today := models.DateString(now())
	return &Service{
		store:    st,
		now:      now,
		selected: today,
		stats:    models.NewDayStats(today, models.DayCounts{}),
	}
}

// LoadDay reads all 24 hourly counters for date. Missing or unreadable
// counters count as zero; the first read error is returned alongside the
// partial stats.
func (s *Service) LoadDay(ctx context.Context, date string) (models.DayStats, error) {
	var counts models.DayCounts
	var firstErr error

	for hour := range models.HoursPerDay {
		key := models.PushKey(date, hour)
		raw, ok, err := s.store.Get(ctx, key)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to read %s: %w", key, err)
			}
			continue
		}
		if !ok {
			continue
		}
		counts[hour] = parseCount(key, raw)
	}

	return models.NewDayStats(date, counts), firstErr
}

// parseCount decodes a stored counter, treating garbage as zero.
func parseCount(key, raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		logger.Warn("ignoring malformed push counter", "key", key, "value", raw)
		return 0
	}
	return n
}

// SelectDate switches the selected day and loads its counts. Days after
// today are refused and leave the selection unchanged.
func (s *Service) SelectDate(ctx context.Context, date string) (models.DayStats, error) {
	day, err := models.ParseDate(date)
	if err != nil {
		return s.Stats(), err
	}
	today, _ := models.ParseDate(s.Today())
	if day.After(today) {
		return s.Stats(), fmt.Errorf("%w: %s", ErrFutureDate, date)
	}

	stats, err := s.LoadDay(ctx, date)

	s.mu.Lock()
	s.selected = date
	s.stats = stats
	s.mu.Unlock()

	return stats, err
}

// Reload refreshes the counts for the selected day.
func (s *Service) Reload(ctx context.Context) (models.DayStats, error) {
	date := s.SelectedDate()
	stats, err := s.LoadDay(ctx, date)

	s.mu.Lock()
	if s.selected == date {
		s.stats = stats
	}
	s.mu.Unlock()

	return stats, err
}

// CanPush reports whether the selected day is today.
func (s *Service) CanPush() bool {
	return s.SelectedDate() == s.Today()
}

// RecordPush increments the counter for the current hour of today and
// reloads the day.
func (s *Service) RecordPush(ctx context.Context) (Push, error) {
	now := s.now()
	date := models.DateString(now)
	if s.SelectedDate() != date {
		return Push{}, ErrNotToday
	}
	hour := now.Local().Hour()
	key := models.PushKey(date, hour)

	s.writeMu.Lock()
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.writeMu.Unlock()
		return Push{}, fmt.Errorf("failed to read %s: %w", key, err)
	}
	count := 0
	if ok {
		count = parseCount(key, raw)
	}
	count++
	err = s.store.Set(ctx, key, strconv.Itoa(count))
	s.writeMu.Unlock()
	if err != nil {
		return Push{}, fmt.Errorf("failed to save %s: %w", key, err)
	}

	push := Push{Date: date, Hour: hour, Count: count}
	if _, err := s.Reload(ctx); err != nil {
		return push, err
	}
	return push, nil
}

// Stats returns the counts for the selected day.
func (s *Service) Stats() models.DayStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// SelectedDate returns the selected day as YYYY-MM-DD.
func (s *Service) SelectedDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Today returns the current local day as YYYY-MM-DD.
func (s *Service) Today() string {
	return models.DateString(s.now())
}

// CurrentHour returns the current local hour.
func (s *Service) CurrentHour() int {
	return s.now().Local().Hour()
}
