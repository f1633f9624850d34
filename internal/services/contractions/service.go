// Package contractions keeps the tap log behind the contraction timer.
package contractions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/j-veylop/laborlog-tui/internal/logger"
	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/store"
)

// ErrMalformedLog is returned when the persisted tap log cannot be used.
var ErrMalformedLog = errors.New("malformed tap log")

// Tap describes one recorded tap.
type Tap struct {
	// Interval is the interval closed by this tap; nil for the first tap.
	Interval *models.Interval
	Time     int64
	Index    int
}

// Service owns the in-memory tap log and its persistence.
type Service struct {
	mu    sync.RWMutex
	taps  []int64
	store store.Store
	now   func() time.Time

	// writeMu serializes persistence so the newest snapshot always lands last.
	writeMu sync.Mutex
}

// New creates a tap log service backed by st. A nil clock uses time.Now.
func New(st store.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		taps:  make([]int64, 0),
		store: st,
		now:   now,
	}
}

// Load restores the tap log from the store. An absent key leaves the log
// empty. On any error the in-memory log is left untouched.
func (s *Service) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, models.TapLogKey)
	if err != nil {
		return fmt.Errorf("failed to read tap log: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}

	taps, err := parseTaps(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.taps = taps
	s.mu.Unlock()

	logger.Debug("tap log loaded", "taps", len(taps))
	return nil
}

// parseTaps decodes and validates a persisted tap log. Timestamps may be
// JSON numbers or strings holding an integer.
func parseTaps(raw string) ([]int64, error) {
	var nums []json.Number
	if err := json.Unmarshal([]byte(raw), &nums); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedLog, err)
	}
	taps := make([]int64, 0, len(nums))
	for i, n := range nums {
		ts, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: tap %d: %w", ErrMalformedLog, i, err)
		}
		taps = append(taps, ts)
	}
	for i := 1; i < len(taps); i++ {
		if taps[i] <= taps[i-1] {
			return nil, fmt.Errorf("%w: tap %d is not after tap %d", ErrMalformedLog, i, i-1)
		}
	}
	return taps, nil
}

// RecordTap appends the current time to the log and persists the whole
// sequence. The tap is kept in memory even when persisting fails.
func (s *Service) RecordTap(ctx context.Context) (Tap, error) {
	tap := s.append(s.now().UnixMilli())
	return tap, s.Flush(ctx)
}

// append adds ts to the log, bumping it past the last tap if the clock
// did not advance.
func (s *Service) append(ts int64) Tap {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.taps); n > 0 && ts <= s.taps[n-1] {
		ts = s.taps[n-1] + 1
	}
	s.taps = append(s.taps, ts)

	tap := Tap{Time: ts, Index: len(s.taps) - 1}
	if tap.Index > 0 {
		iv := models.NewInterval(s.taps, tap.Index)
		tap.Interval = &iv
	}
	return tap
}

// Flush writes the current log to the store.
func (s *Service) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	raw, err := json.Marshal(s.Taps())
	if err != nil {
		return fmt.Errorf("failed to encode tap log: %w", err)
	}
	if err := s.store.Set(ctx, models.TapLogKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save tap log: %w", err)
	}
	return nil
}

// Taps returns a copy of the tap log.
func (s *Service) Taps() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	taps := make([]int64, len(s.taps))
	copy(taps, s.taps)
	return taps
}

// Len returns the number of recorded taps.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.taps)
}

// Intervals returns every classified interval, oldest first.
func (s *Service) Intervals() []models.Interval {
	return models.Intervals(s.Taps())
}

// LastInterval returns the most recent closed interval.
func (s *Service) LastInterval() (models.Interval, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.taps) < 2 {
		return models.Interval{}, false
	}
	return models.NewInterval(s.taps, len(s.taps)-1), true
}

// Elapsed returns the time since the last tap, or false with no taps.
func (s *Service) Elapsed(now time.Time) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.taps) == 0 {
		return 0, false
	}
	ms := max(now.UnixMilli()-s.taps[len(s.taps)-1], 0)
	return time.Duration(ms) * time.Millisecond, true
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}
