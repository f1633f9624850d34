// Package pushes provides the hourly push counter tab.
package pushes

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/laborlog-tui/internal/app"
	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/services"
	pushsvc "github.com/j-veylop/laborlog-tui/internal/services/pushes"
	"github.com/j-veylop/laborlog-tui/internal/ui/components"
)

const readOnlyHint = "Viewing a past day: pushes can only be recorded for today"

// pushResultMsg carries the outcome of a push.
type pushResultMsg struct {
	push pushsvc.Push
	err  error
}

// dayLoadedMsg is sent after another day was selected.
type dayLoadedMsg struct {
	date string
	err  error
}

// keyMap defines the key bindings specific to the pushes tab.
type keyMap struct {
	Push     key.Binding
	Calendar key.Binding
	Today    key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Close    key.Binding
}

// defaultKeyMap returns the default key bindings for the pushes tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Push: key.NewBinding(
			key.WithKeys("p", "enter", " "),
			key.WithHelp("p", "push"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "calendar"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("[", "left", "h"),
			key.WithHelp("[", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("]", "right", "l"),
			key.WithHelp("]", "next day"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "c"),
			key.WithHelp("esc", "close calendar"),
		),
	}
}

// Model represents the pushes tab state.
type Model struct {
	state        *app.State
	mgr          *services.Manager
	keys         keyMap
	calendar     components.Calendar
	showCalendar bool
	stats        models.DayStats
	today        string
	hour         int
	canPush      bool
	width        int
	height       int
}

// New creates a new pushes model.
func New(state *app.State, mgr *services.Manager) *Model {
	m := &Model{
		state: state,
		mgr:   mgr,
		keys:  defaultKeyMap(),
	}
	m.sync()
	m.calendar = components.NewCalendar(m.now(), m.stats.Date)
	return m
}

func (m *Model) now() time.Time {
	svc := m.mgr.Pushes()
	day, err := models.ParseDate(svc.Today())
	if err != nil {
		return time.Now()
	}
	return day.Add(time.Duration(svc.CurrentHour()) * time.Hour)
}

// Init initializes the pushes tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// CapturesInput reports whether the calendar picker is open.
func (m *Model) CapturesInput() bool {
	return m.showCalendar
}

// Update handles messages for the pushes tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case components.DatePickedMsg:
		m.showCalendar = false
		cmds = append(cmds, m.selectCmd(msg.Date))

	case dayLoadedMsg:
		m.sync()
		cmds = append(cmds, m.handleDayLoaded(msg))

	case pushResultMsg:
		m.sync()
		switch {
		case errors.Is(msg.err, pushsvc.ErrNotToday):
			cmds = append(cmds, app.NotifyInfo(readOnlyHint))
		case msg.err != nil:
			cmds = append(cmds, app.ReportError("Push not saved", msg.err))
		}

	case app.ServiceEventMsg:
		switch msg.Event.(type) {
		case services.PushRecordedEvent, services.StoreChangedEvent:
			m.sync()
		}

	case app.TickMsg, app.InitialLoadCompleteMsg:
		m.sync()

	case app.RecordedDaysLoadedMsg:
		m.calendar.SetRecorded(m.state.RecordedDays())
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.showCalendar {
		if key.Matches(msg, m.keys.Close) {
			m.showCalendar = false
			return nil
		}
		var cmd tea.Cmd
		m.calendar, cmd = m.calendar.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Push):
		if !m.canPush {
			return app.NotifyInfo(readOnlyHint)
		}
		return m.pushCmd()

	case key.Matches(msg, m.keys.Calendar):
		m.openCalendar()

	case key.Matches(msg, m.keys.Today):
		return m.selectCmd(m.today)

	case key.Matches(msg, m.keys.PrevDay):
		return m.shiftDay(-1)

	case key.Matches(msg, m.keys.NextDay):
		return m.shiftDay(1)
	}
	return nil
}

func (m *Model) openCalendar() {
	m.calendar.SetToday(m.now())
	m.calendar.SetSelected(m.stats.Date)
	m.calendar.SetRecorded(m.state.RecordedDays())
	m.showCalendar = true
}

func (m *Model) shiftDay(days int) tea.Cmd {
	day, err := models.ParseDate(m.stats.Date)
	if err != nil {
		return nil
	}
	return m.selectCmd(models.DateString(day.AddDate(0, 0, days)))
}

func (m *Model) pushCmd() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		push, err := mgr.RecordPush(context.Background())
		return pushResultMsg{push: push, err: err}
	}
}

func (m *Model) selectCmd(date string) tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		_, err := mgr.SelectDate(context.Background(), date)
		return dayLoadedMsg{date: date, err: err}
	}
}

func (m *Model) handleDayLoaded(msg dayLoadedMsg) tea.Cmd {
	switch {
	case msg.err == nil:
		return nil
	case errors.Is(msg.err, pushsvc.ErrFutureDate):
		return app.NotifyWarning("Cannot select a day after today")
	default:
		return app.ReportError("Failed to load "+msg.date, msg.err)
	}
}

// sync copies the selected day out of the service.
func (m *Model) sync() {
	svc := m.mgr.Pushes()
	m.stats = svc.Stats()
	m.today = svc.Today()
	m.hour = svc.CurrentHour()
	m.canPush = m.stats.Date == m.today
}

// SetSize sets the available size for the pushes tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.showCalendar {
		return append(m.calendar.ShortHelp(), m.keys.Close)
	}
	return []key.Binding{m.keys.Push, m.keys.Calendar, m.keys.Today, m.keys.PrevDay, m.keys.NextDay}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Push, m.keys.Calendar, m.keys.Today},
		{m.keys.PrevDay, m.keys.NextDay},
		{m.keys.Close},
	}
}
