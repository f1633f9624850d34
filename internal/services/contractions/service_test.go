package contractions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/store"
)

// fakeClock returns the queued times in order, repeating the last one.
type fakeClock struct {
	mu    sync.Mutex
	times []time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func clockAt(ms ...int64) func() time.Time {
	c := &fakeClock{}
	for _, m := range ms {
		c.times = append(c.times, time.UnixMilli(m))
	}
	return c.Now
}

func persisted(t *testing.T, st store.Store) []int64 {
	t.Helper()
	raw, ok, err := st.Get(context.Background(), models.TapLogKey)
	if err != nil || !ok {
		t.Fatalf("tap log not persisted: ok %v, err %v", ok, err)
	}
	var taps []int64
	if err := json.Unmarshal([]byte(raw), &taps); err != nil {
		t.Fatalf("persisted tap log is not JSON: %v", err)
	}
	return taps
}

func TestRecordTap_PersistsFullSequence(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	times := []int64{1000, 31000, 331000, 371000}
	svc := New(st, clockAt(times...))

	for i := range times {
		tap, err := svc.RecordTap(ctx)
		if err != nil {
			t.Fatalf("RecordTap() %d failed: %v", i, err)
		}
		if tap.Index != i || tap.Time != times[i] {
			t.Errorf("tap %d = %+v, want index %d time %d", i, tap, i, times[i])
		}

		if diff := cmp.Diff(times[:i+1], persisted(t, st)); diff != "" {
			t.Errorf("persisted after tap %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	if diff := cmp.Diff(times, svc.Taps()); diff != "" {
		t.Errorf("Taps() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordTap_ReportsInterval(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemory(), clockAt(0, 70000))

	first, _ := svc.RecordTap(ctx)
	if first.Interval != nil {
		t.Error("first tap should not close an interval")
	}

	second, _ := svc.RecordTap(ctx)
	if second.Interval == nil {
		t.Fatal("second tap should close an interval")
	}
	if second.Interval.Kind != models.KindContraction {
		t.Errorf("Kind = %v, want Contraction", second.Interval.Kind)
	}
	if !second.Interval.HasPhase(models.PhaseTransition) {
		t.Errorf("Phases = %v, want Transition", second.Interval.Phases)
	}
}

func TestRecordTap_ClockDidNotAdvance(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemory(), clockAt(5000, 5000, 4000))

	for range 3 {
		if _, err := svc.RecordTap(ctx); err != nil {
			t.Fatalf("RecordTap() failed: %v", err)
		}
	}

	want := []int64{5000, 5001, 5002}
	if diff := cmp.Diff(want, svc.Taps()); diff != "" {
		t.Errorf("Taps() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordTap_PersistFailureKeepsTap(t *testing.T) {
	st := store.NewMemory()
	st.FailSet = errors.New("disk full")
	svc := New(st, clockAt(1000))

	if _, err := svc.RecordTap(context.Background()); err == nil {
		t.Error("RecordTap() should report the persist failure")
	}
	if svc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", svc.Len())
	}
}

func TestRecordTap_Concurrent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	var mu sync.Mutex
	var tick int64
	svc := New(st, func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick += 10
		return time.UnixMilli(tick)
	})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RecordTap(ctx); err != nil {
				t.Errorf("RecordTap() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got := persisted(t, st)
	if len(got) != 50 {
		t.Fatalf("persisted %d taps, want 50", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("persisted taps not ascending at %d: %v", i, got)
		}
	}
	if diff := cmp.Diff(svc.Taps(), got); diff != "" {
		t.Errorf("persisted differs from memory (-mem +stored):\n%s", diff)
	}
}

func TestLoad_Restores(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Set(ctx, models.TapLogKey, "[1700000000000,1700000100000]"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	svc := New(st, nil)
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []int64{1700000000000, 1700000100000}
	if diff := cmp.Diff(want, svc.Taps()); diff != "" {
		t.Errorf("Taps() mismatch (-want +got):\n%s", diff)
	}

	iv, ok := svc.LastInterval()
	if !ok {
		t.Fatal("LastInterval() should exist")
	}
	if iv.Kind != models.KindContraction || iv.DurationMs != 100000 {
		t.Errorf("LastInterval() = %+v, want 100s contraction", iv)
	}
	if diff := cmp.Diff([]models.Phase{models.PhaseTransition}, iv.Phases); diff != "" {
		t.Errorf("Phases mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Encodings(t *testing.T) {
	want := []int64{1700000000000, 1700000100000}
	tests := []struct {
		name string
		raw  string
	}{
		{"Numbers", `[1700000000000,1700000100000]`},
		{"Strings", `["1700000000000","1700000100000"]`},
		{"Mixed", `[1700000000000,"1700000100000"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := store.NewMemory()
			_ = st.Set(ctx, models.TapLogKey, tt.raw)

			svc := New(st, nil)
			if err := svc.Load(ctx); err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if diff := cmp.Diff(want, svc.Taps()); diff != "" {
				t.Errorf("Taps() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Absent(t *testing.T) {
	svc := New(store.NewMemory(), nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if svc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", svc.Len())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		failGet   error
		malformed bool
	}{
		{name: "ReadFailure", failGet: errors.New("io")},
		{name: "NotJSON", raw: "not json", malformed: true},
		{name: "WrongType", raw: `{"a":1}`, malformed: true},
		{name: "NotAscending", raw: "[5,5]", malformed: true},
		{name: "Descending", raw: "[9,3]", malformed: true},
		{name: "Fraction", raw: "[1.5]", malformed: true},
		{name: "NonNumericString", raw: `["soon"]`, malformed: true},
		{name: "Bool", raw: "[true]", malformed: true},
		{name: "NullEntry", raw: "[1,null]", malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := store.NewMemory()
			if tt.raw != "" {
				_ = st.Set(ctx, models.TapLogKey, tt.raw)
			}
			st.FailGet = tt.failGet

			svc := New(st, clockAt(42))
			if _, err := svc.RecordTap(ctx); err != nil {
				t.Fatalf("RecordTap() failed: %v", err)
			}
			if tt.raw != "" {
				// restore the bad payload that RecordTap overwrote
				_ = st.Set(ctx, models.TapLogKey, tt.raw)
			}

			err := svc.Load(ctx)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if got := errors.Is(err, ErrMalformedLog); got != tt.malformed {
				t.Errorf("errors.Is(ErrMalformedLog) = %v, want %v", got, tt.malformed)
			}
			if diff := cmp.Diff([]int64{42}, svc.Taps()); diff != "" {
				t.Errorf("in-memory log changed on failed load (-want +got):\n%s", diff)
			}
		})
	}
}

func TestElapsed(t *testing.T) {
	svc := New(store.NewMemory(), clockAt(10000))

	if _, ok := svc.Elapsed(time.UnixMilli(20000)); ok {
		t.Error("Elapsed() should be false with no taps")
	}

	_, _ = svc.RecordTap(context.Background())

	d, ok := svc.Elapsed(time.UnixMilli(25000))
	if !ok || d != 15*time.Second {
		t.Errorf("Elapsed() = %v, %v; want 15s, true", d, ok)
	}

	d, _ = svc.Elapsed(time.UnixMilli(5000))
	if d != 0 {
		t.Errorf("Elapsed() before last tap = %v, want 0", d)
	}
}

func TestIntervals(t *testing.T) {
	svc := New(store.NewMemory(), clockAt(0, 20000, 260000))
	for range 3 {
		_, _ = svc.RecordTap(context.Background())
	}

	ivs := svc.Intervals()
	if len(ivs) != 2 {
		t.Fatalf("Intervals() returned %d, want 2", len(ivs))
	}
	if !ivs[0].HasPhase(models.PhaseInitial) {
		t.Errorf("20s contraction should be Initial, got %v", ivs[0].Phases)
	}
	if ivs[1].Kind != models.KindBreak || !ivs[1].HasPhase(models.PhaseActive) {
		t.Errorf("4m break should be Active, got %v %v", ivs[1].Kind, ivs[1].Phases)
	}
}
