package components

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastTimerID atomic.Int64

// LiveTickMsg is sent on every tick of a running LiveTimer.
type LiveTickMsg struct {
	Time time.Time
	ID   int64
	gen  int
}

// LiveTimer drives a periodic refresh while it is running. Ticks from a
// stopped or restarted timer are dropped, so at most one tick chain is
// alive per timer.
type LiveTimer struct {
	interval time.Duration
	id       int64
	gen      int
	running  bool
}

// NewLiveTimer creates a stopped timer that ticks every interval.
func NewLiveTimer(interval time.Duration) LiveTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return LiveTimer{
		id:       lastTimerID.Add(1),
		interval: interval,
	}
}

// Start begins ticking. Starting a running timer restarts its tick chain.
func (t LiveTimer) Start() (LiveTimer, tea.Cmd) {
	t.gen++
	t.running = true
	return t, t.tick()
}

// Stop halts the timer. Pending ticks are ignored.
func (t LiveTimer) Stop() LiveTimer {
	t.gen++
	t.running = false
	return t
}

// Update handles the timer's own tick messages.
func (t LiveTimer) Update(msg tea.Msg) (LiveTimer, tea.Cmd) {
	tick, ok := msg.(LiveTickMsg)
	if !ok || tick.ID != t.id || tick.gen != t.gen || !t.running {
		return t, nil
	}
	return t, t.tick()
}

func (t LiveTimer) tick() tea.Cmd {
	id, gen := t.id, t.gen
	return tea.Tick(t.interval, func(now time.Time) tea.Msg {
		return LiveTickMsg{ID: id, gen: gen, Time: now}
	})
}

// Running reports whether the timer is ticking.
func (t LiveTimer) Running() bool {
	return t.running
}
