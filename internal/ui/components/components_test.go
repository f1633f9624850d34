package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/laborlog-tui/internal/models"
)

func TestRenderLineChart(t *testing.T) {
	tests := []struct {
		name string
		data []float64
	}{
		{"Series", []float64{20, 45, 70, 30}},
		{"SinglePoint", []float64{42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := RenderLineChart(tt.data, 20, 5, "Test"); s == "" {
				t.Error("RenderLineChart returned empty")
			}
		})
	}

	if s := RenderLineChart(nil, 20, 5, "Test"); !strings.Contains(s, "No data") {
		t.Errorf("RenderLineChart(nil) = %q, want placeholder", s)
	}
}

func TestRenderPercentBars(t *testing.T) {
	var counts models.DayCounts
	counts[10] = 2
	counts[11] = 3
	stats := models.NewDayStats("2026-03-14", counts)

	out := ansi.Strip(RenderPercentBars(stats, 60, 11))
	lines := strings.Split(out, "\n")
	if len(lines) != models.HoursPerDay {
		t.Fatalf("got %d rows, want 24", len(lines))
	}

	tests := []struct {
		hour int
		want string
	}{
		{0, "00: "},
		{10, "2 (40%)"},
		{11, "3 (60%)"},
		{23, "0 (0%)"},
	}
	for _, tt := range tests {
		if !strings.Contains(lines[tt.hour], tt.want) {
			t.Errorf("row %d = %q, want it to contain %q", tt.hour, lines[tt.hour], tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{40, "40"},
		{0, "0"},
		{100, "100"},
		{12.5, "12.5"},
		{100.0 / 3, "33.33"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderHourlyHeatmap(t *testing.T) {
	var counts models.DayCounts
	counts[3] = 9
	s := ansi.Strip(RenderHourlyHeatmap(counts))
	if !strings.HasPrefix(s, "00 ") || !strings.HasSuffix(s, " 23") {
		t.Errorf("RenderHourlyHeatmap = %q", s)
	}
	if !strings.ContainsRune(s, '█') {
		t.Error("busiest hour should use the full block")
	}
}

func TestRenderSparkline(t *testing.T) {
	if s := RenderSparkline([]float64{1, 2, 3}, 10); len([]rune(s)) != 3 {
		t.Errorf("RenderSparkline = %q, want 3 runes", s)
	}
	if s := RenderSparkline([]float64{1, 2, 3, 4, 5}, 2); s != "▆█" {
		t.Errorf("RenderSparkline keeps the last values, got %q", s)
	}
	if s := RenderSparkline(nil, 10); s != "" {
		t.Errorf("RenderSparkline(nil) = %q, want empty", s)
	}
}

func TestRenderLegend(t *testing.T) {
	items := []LegendItem{
		{Label: "A", Color: lipgloss.Color("#ffffff")},
	}
	s := RenderLegend(items)
	if s == "" {
		t.Error("RenderLegend returned empty")
	}

	legend := ansi.Strip(RenderLegend(PhaseLegend()))
	for _, label := range []string{"Initial", "Active", "Transition"} {
		if !strings.Contains(legend, label) {
			t.Errorf("phase legend missing %q: %q", label, legend)
		}
	}
}

func TestLiveTimer(t *testing.T) {
	timer := NewLiveTimer(time.Second)
	if timer.Running() {
		t.Fatal("new timer should be stopped")
	}

	timer, cmd := timer.Start()
	if cmd == nil || !timer.Running() {
		t.Fatal("Start should return a tick command")
	}

	tick := LiveTickMsg{ID: timer.id, gen: timer.gen, Time: time.Now()}
	timer, cmd = timer.Update(tick)
	if cmd == nil {
		t.Error("accepted tick should schedule the next one")
	}

	// stale generation after restart
	timer, _ = timer.Start()
	if _, cmd = timer.Update(tick); cmd != nil {
		t.Error("stale tick should be dropped")
	}

	// other timer
	other := NewLiveTimer(time.Second)
	if other.id == timer.id {
		t.Error("timers should have distinct ids")
	}
	if _, cmd = timer.Update(LiveTickMsg{ID: other.id, gen: timer.gen}); cmd != nil {
		t.Error("tick of another timer should be dropped")
	}

	timer = timer.Stop()
	if _, cmd = timer.Update(LiveTickMsg{ID: timer.id, gen: timer.gen}); cmd != nil {
		t.Error("stopped timer should not tick")
	}
}

func TestLiveTimer_DefaultInterval(t *testing.T) {
	if got := NewLiveTimer(0).interval; got != time.Second {
		t.Errorf("interval = %v, want 1s", got)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCalendar_Navigation(t *testing.T) {
	today := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	cal := NewCalendar(today, "2026-03-14")

	tests := []struct {
		key  string
		want string
	}{
		{"right", "2026-03-14"},
		{"down", "2026-03-14"},
		{"]", "2026-03-14"},
		{"left", "2026-03-13"},
		{"up", "2026-03-06"},
		{"[", "2026-02-06"},
		{"right", "2026-02-07"},
		{"]", "2026-03-07"},
		{"t", "2026-03-14"},
	}

	for _, tt := range tests {
		cal, _ = cal.Update(keyMsg(tt.key))
		if got := cal.Cursor(); got != tt.want {
			t.Errorf("after %q cursor = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestCalendar_MonthClampsDay(t *testing.T) {
	today := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	cal := NewCalendar(today, "2026-03-31")

	cal, _ = cal.Update(keyMsg("]"))
	if got := cal.Cursor(); got != "2026-04-30" {
		t.Errorf("cursor = %s, want 2026-04-30", got)
	}
}

func TestCalendar_Pick(t *testing.T) {
	cal := NewCalendar(time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local), "2026-03-14")
	cal, _ = cal.Update(keyMsg("left"))

	_, cmd := cal.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	msg, ok := cmd().(DatePickedMsg)
	if !ok || msg.Date != "2026-03-13" {
		t.Errorf("picked = %#v, want 2026-03-13", msg)
	}
}

func TestCalendar_FutureSelectionClamped(t *testing.T) {
	cal := NewCalendar(time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local), "2026-04-01")
	if got := cal.Cursor(); got != "2026-03-14" {
		t.Errorf("cursor = %s, want today", got)
	}
}

func TestCalendar_View(t *testing.T) {
	cal := NewCalendar(time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local), "2026-03-14")
	cal.SetRecorded([]string{"2026-03-02"})

	view := ansi.Strip(cal.View())
	for _, want := range []string{"March 2026", "Su", "Sa", "31"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
	if len(cal.ShortHelp()) == 0 || len(cal.FullHelp()) == 0 {
		t.Error("calendar help should not be empty")
	}
}
