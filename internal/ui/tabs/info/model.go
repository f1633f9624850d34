// Package info provides the info tab for laborlog.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/laborlog-tui/internal/app"
	"github.com/j-veylop/laborlog-tui/internal/config"
	"github.com/j-veylop/laborlog-tui/internal/services"
)

// compactedMsg carries the outcome of a database compaction.
type compactedMsg struct {
	err error
}

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Compact key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Compact: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "compact database"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	mgr      *services.Manager
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model
	taps     int
}

// New creates a new info model. mgr may be nil.
func New(state *app.State, cfg *config.Config, mgr *services.Manager) *Model {
	m := &Model{
		state:    state,
		config:   cfg,
		mgr:      mgr,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
	m.sync()
	return m
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Compact) {
			if cmd := m.compactCmd(); cmd != nil {
				return m, tea.Sequence(app.StartLoading("compact"), cmd)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case compactedMsg:
		note := app.NotifySuccess("Database compacted")
		if msg.err != nil {
			note = app.ReportError("Compaction failed", msg.err)
		}
		return m, tea.Batch(app.StopLoading("compact"), note)

	case app.ServiceEventMsg, app.InitialLoadCompleteMsg:
		m.sync()
	}

	return m, tea.Batch(cmds...)
}

// compactCmd vacuums the SQLite store. It is nil for other backends.
func (m *Model) compactCmd() tea.Cmd {
	if m.mgr == nil || m.mgr.Database() == nil {
		return nil
	}
	mgr := m.mgr
	return func() tea.Msg {
		return compactedMsg{err: mgr.Compact()}
	}
}

func (m *Model) sync() {
	if m.mgr != nil {
		m.taps = m.mgr.Contractions().Len()
	}
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Compact, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Compact},
		{m.keys.Up, m.keys.Down},
	}
}
