// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// Phase is a labor-progress classification derived from interval duration.
type Phase int

const (
	// PhaseInitial is the early (latent) phase of labor.
	PhaseInitial Phase = iota
	// PhaseActive is the active phase of labor.
	PhaseActive
	// PhaseTransition is the final phase before pushing.
	PhaseTransition
)

// String returns the short name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "Initial"
	case PhaseActive:
		return "Active"
	case PhaseTransition:
		return "Transition"
	default:
		return "Unknown"
	}
}

// Description returns the label shown next to a classified interval,
// including the typical length of the phase.
func (p Phase) Description() string {
	switch p {
	case PhaseInitial:
		return "Initial phase ≈ 7-8 hours"
	case PhaseActive:
		return "Active phase ≈ 3-5 hours"
	case PhaseTransition:
		return "Transition phase ≈ 0.5-1.5 hours"
	default:
		return "Unknown phase"
	}
}

// IntervalKind tells whether an interval was a break or a contraction.
type IntervalKind int

const (
	// KindBreak is the pause between two contractions.
	KindBreak IntervalKind = iota
	// KindContraction is a contraction.
	KindContraction
)

// String returns the display name of the interval kind.
func (k IntervalKind) String() string {
	if k == KindContraction {
		return "Contraction"
	}
	return "Break"
}

// KindForIndex returns the kind of the interval that ends at tap index i.
// Odd indices close a contraction, even indices close a break.
func KindForIndex(i int) IntervalKind {
	if i%2 == 1 {
		return KindContraction
	}
	return KindBreak
}

// LiveKind returns the kind of the interval currently in progress after
// tapCount taps have been recorded.
func LiveKind(tapCount int) IntervalKind {
	if tapCount%2 == 1 {
		return KindContraction
	}
	return KindBreak
}

// phaseRange is an inclusive millisecond range. max < 0 means unbounded,
// and exclusiveMin turns the lower bound into a strict one.
type phaseRange struct {
	phase        Phase
	min          int64
	max          int64
	exclusiveMin bool
}

func (r phaseRange) contains(ms int64) bool {
	if r.exclusiveMin {
		if ms <= r.min {
			return false
		}
	} else if ms < r.min {
		return false
	}
	return r.max < 0 || ms <= r.max
}

const (
	second = int64(time.Second / time.Millisecond)
	minute = 60 * second
)

var breakRanges = []phaseRange{
	{phase: PhaseInitial, min: 5 * minute, max: 30 * minute},
	{phase: PhaseActive, min: 3 * minute, max: 5 * minute},
	{phase: PhaseTransition, min: 2 * minute, max: 3 * minute},
}

var contractionRanges = []phaseRange{
	{phase: PhaseInitial, min: 15 * second, max: 40 * second},
	{phase: PhaseActive, min: 40 * second, max: 60 * second},
	{phase: PhaseTransition, min: 60 * second, max: -1, exclusiveMin: true},
}

// Classify maps an interval duration to every labor phase whose range
// contains it. Bounds are inclusive, so a duration sitting exactly on a
// shared boundary matches both neighbouring phases. A duration in a gap
// matches nothing and yields an empty slice.
func Classify(durationMs int64, isContraction bool) []Phase {
	ranges := breakRanges
	if isContraction {
		ranges = contractionRanges
	}

	phases := make([]Phase, 0, 2)
	for _, r := range ranges {
		if r.contains(durationMs) {
			phases = append(phases, r.phase)
		}
	}
	return phases
}

// Interval is the span between two consecutive taps.
type Interval struct {
	Start      time.Time
	End        time.Time
	Phases     []Phase
	Index      int
	DurationMs int64
	Kind       IntervalKind
}

// HasPhase reports whether the interval matched phase p.
func (iv Interval) HasPhase(p Phase) bool {
	for _, ph := range iv.Phases {
		if ph == p {
			return true
		}
	}
	return false
}

// Intervals derives one classified interval per adjacent pair of taps.
// The interval ending at taps[i] carries Index i.
func Intervals(taps []int64) []Interval {
	if len(taps) < 2 {
		return nil
	}

	out := make([]Interval, 0, len(taps)-1)
	for i := 1; i < len(taps); i++ {
		out = append(out, NewInterval(taps, i))
	}
	return out
}

// NewInterval classifies the interval that ends at taps[i]. i must be >= 1.
func NewInterval(taps []int64, i int) Interval {
	kind := KindForIndex(i)
	d := taps[i] - taps[i-1]
	return Interval{
		Index:      i,
		Kind:       kind,
		Start:      time.UnixMilli(taps[i-1]),
		End:        time.UnixMilli(taps[i]),
		DurationMs: d,
		Phases:     Classify(d, kind == KindContraction),
	}
}

// FormatDuration renders milliseconds as MM:SS. Minutes are not wrapped
// into hours.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / minute
	seconds := (ms % minute) / second
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
