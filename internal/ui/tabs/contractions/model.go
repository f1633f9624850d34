// Package contractions provides the tap-timer tab.
package contractions

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/laborlog-tui/internal/app"
	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/services"
	tapsvc "github.com/j-veylop/laborlog-tui/internal/services/contractions"
	"github.com/j-veylop/laborlog-tui/internal/ui/components"
	"github.com/j-veylop/laborlog-tui/internal/ui/styles"
)

// tapResultMsg carries the outcome of a tap.
type tapResultMsg struct {
	tap tapsvc.Tap
	err error
}

// keyMap defines the key bindings specific to the contractions tab.
type keyMap struct {
	Tap    key.Binding
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// defaultKeyMap returns the default key bindings for the contractions tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Tap: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "tap"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "latest"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "oldest"),
		),
	}
}

// Model represents the contractions tab state.
type Model struct {
	state     *app.State
	mgr       *services.Manager
	keys      keyMap
	viewport  viewport.Model
	timer     components.LiveTimer
	spinner   spinner.Model
	taps      []int64
	intervals []models.Interval
	last      models.Interval
	hasLast   bool
	now       time.Time
	elapsed   time.Duration
	width     int
	height    int
}

// New creates a new contractions model.
func New(state *app.State, mgr *services.Manager) *Model {
	interval := time.Second
	if cfg := mgr.Config(); cfg != nil {
		interval = cfg.LiveTickInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := &Model{
		state:    state,
		mgr:      mgr,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		timer:    components.NewLiveTimer(interval),
		spinner:  s,
	}
	m.sync()
	return m
}

// Init initializes the contractions tab.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.syncTimer())
}

// Update handles messages for the contractions tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case tapResultMsg:
		m.sync()
		m.viewport.GotoTop()
		if msg.err != nil {
			cmds = append(cmds, app.ReportError("Tap kept in memory only", msg.err))
		}
		cmds = append(cmds, m.syncTimer())

	case app.ServiceEventMsg:
		switch msg.Event.(type) {
		case services.TapRecordedEvent, services.StoreChangedEvent:
			m.sync()
			cmds = append(cmds, m.syncTimer())
		}

	case components.LiveTickMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		if cmd != nil {
			m.refreshElapsed()
		}
		cmds = append(cmds, cmd)

	case app.InitialLoadCompleteMsg:
		m.sync()
		cmds = append(cmds, m.syncTimer())
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Tap):
		return m.tapCmd()
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) tapCmd() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		tap, err := mgr.RecordTap(context.Background())
		return tapResultMsg{tap: tap, err: err}
	}
}

// sync copies the tap log out of the service and rebuilds the list.
func (m *Model) sync() {
	svc := m.mgr.Contractions()
	m.taps = svc.Taps()
	m.intervals = svc.Intervals()
	m.last, m.hasLast = svc.LastInterval()
	m.refreshElapsed()
	m.viewport.SetContent(m.renderList())
}

// refreshElapsed reads the clock and the time since the last tap.
func (m *Model) refreshElapsed() {
	svc := m.mgr.Contractions()
	m.now = svc.Now()
	m.elapsed, _ = svc.Elapsed(m.now)
}

// syncTimer runs the live timer only while the log has taps.
func (m *Model) syncTimer() tea.Cmd {
	switch {
	case len(m.taps) > 0 && !m.timer.Running():
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Start()
		return cmd
	case len(m.taps) == 0 && m.timer.Running():
		m.timer = m.timer.Stop()
	}
	return nil
}

// Stop halts the live timer.
func (m *Model) Stop() {
	m.timer = m.timer.Stop()
}

// SetSize sets the available size for the contractions tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-m.headerHeight(), 3)
	m.viewport.SetContent(m.renderList())
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tap, m.keys.Up, m.keys.Down, m.keys.Top}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tap},
		{m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom},
	}
}
