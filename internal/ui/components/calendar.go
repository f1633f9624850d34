package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/ui/styles"
)

// DatePickedMsg is sent when a day is chosen in the calendar.
type DatePickedMsg struct {
	Date string
}

// CalendarKeyMap defines the calendar key bindings.
type CalendarKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Pick      key.Binding
}

// DefaultCalendarKeyMap returns the default calendar bindings.
func DefaultCalendarKeyMap() CalendarKeyMap {
	return CalendarKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev week")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next week")),
		PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
		NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Pick:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick day")),
	}
}

// Calendar is a month grid date picker. Days after today cannot be reached.
type Calendar struct {
	keys     CalendarKeyMap
	cursor   time.Time
	today    time.Time
	selected string
	recorded map[string]bool
}

// NewCalendar creates a calendar with the cursor on the selected day.
func NewCalendar(today time.Time, selected string) Calendar {
	c := Calendar{
		keys:     DefaultCalendarKeyMap(),
		today:    truncateDay(today),
		selected: selected,
		recorded: make(map[string]bool),
	}
	c.cursor = c.today
	if t, err := models.ParseDate(selected); err == nil {
		c.cursor = c.clamp(t)
	}
	return c
}

func truncateDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func (c Calendar) clamp(t time.Time) time.Time {
	if t.After(c.today) {
		return c.today
	}
	return t
}

// SetToday updates the current day, for example after midnight.
func (c *Calendar) SetToday(today time.Time) {
	c.today = truncateDay(today)
	c.cursor = c.clamp(c.cursor)
}

// SetSelected moves the selection marker and the cursor to date.
func (c *Calendar) SetSelected(date string) {
	c.selected = date
	if t, err := models.ParseDate(date); err == nil {
		c.cursor = c.clamp(t)
	}
}

// SetRecorded marks the days that have recorded pushes.
func (c *Calendar) SetRecorded(days []string) {
	c.recorded = make(map[string]bool, len(days))
	for _, d := range days {
		c.recorded[d] = true
	}
}

// Cursor returns the day under the cursor as YYYY-MM-DD.
func (c Calendar) Cursor() string {
	return models.DateString(c.cursor)
}

// Update handles navigation keys. Picking a day returns a DatePickedMsg.
func (c Calendar) Update(msg tea.Msg) (Calendar, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, c.keys.Left):
		c.cursor = c.cursor.AddDate(0, 0, -1)
	case key.Matches(keyMsg, c.keys.Right):
		c.cursor = c.clamp(c.cursor.AddDate(0, 0, 1))
	case key.Matches(keyMsg, c.keys.Up):
		c.cursor = c.cursor.AddDate(0, 0, -7)
	case key.Matches(keyMsg, c.keys.Down):
		c.cursor = c.clamp(c.cursor.AddDate(0, 0, 7))
	case key.Matches(keyMsg, c.keys.PrevMonth):
		c.cursor = addMonths(c.cursor, -1)
	case key.Matches(keyMsg, c.keys.NextMonth):
		c.cursor = c.clamp(addMonths(c.cursor, 1))
	case key.Matches(keyMsg, c.keys.Today):
		c.cursor = c.today
	case key.Matches(keyMsg, c.keys.Pick):
		date := c.Cursor()
		return c, func() tea.Msg { return DatePickedMsg{Date: date} }
	}

	return c, nil
}

// addMonths moves t by n months, keeping the day within the target month.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.Local)
	lastDay := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(t.Day(), lastDay), 0, 0, 0, 0, time.Local)
}

// View renders the month containing the cursor.
func (c Calendar) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s %d", c.cursor.Month(), c.cursor.Year())
	b.WriteString(lipgloss.NewStyle().Width(28).Align(lipgloss.Center).Bold(true).Foreground(styles.Primary).Render(title))
	b.WriteString("\n")

	for _, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(styles.CalendarDayStyle.Foreground(styles.TextSecondary).Render(d))
	}
	b.WriteString("\n")

	first := time.Date(c.cursor.Year(), c.cursor.Month(), 1, 0, 0, 0, 0, time.Local)
	lastDay := first.AddDate(0, 1, -1).Day()

	b.WriteString(strings.Repeat(" ", 4*int(first.Weekday())))
	for day := 1; day <= lastDay; day++ {
		t := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.Local)
		b.WriteString(c.dayStyle(t).Render(fmt.Sprintf("%d", day)))
		if t.Weekday() == time.Saturday && day != lastDay {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (c Calendar) dayStyle(t time.Time) lipgloss.Style {
	date := models.DateString(t)
	switch {
	case t.Equal(c.cursor):
		return styles.CalendarCursorStyle
	case t.After(c.today):
		return styles.CalendarDisabledStyle
	case date == c.selected:
		return styles.CalendarSelectedStyle
	case c.recorded[date]:
		return styles.CalendarRecordedStyle
	default:
		return styles.CalendarDayStyle
	}
}

// ShortHelp returns the calendar bindings for the help bar.
func (c Calendar) ShortHelp() []key.Binding {
	return []key.Binding{c.keys.Left, c.keys.Right, c.keys.PrevMonth, c.keys.NextMonth, c.keys.Pick}
}

// FullHelp returns the calendar bindings grouped for the help panel.
func (c Calendar) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{c.keys.Left, c.keys.Right, c.keys.Up, c.keys.Down},
		{c.keys.PrevMonth, c.keys.NextMonth, c.keys.Today, c.keys.Pick},
	}
}
