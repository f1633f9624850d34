package pushes

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/ui/components"
	"github.com/j-veylop/laborlog-tui/internal/ui/styles"
)

// View renders the pushes tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderButton(),
		m.renderSummary(),
		"",
	}

	if m.showCalendar {
		sections = append(sections, m.renderCalendar())
	} else {
		sections = append(sections,
			components.RenderHourlyHeatmap(m.stats.Counts),
			"",
			m.renderBars(),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Render(content)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Push Counter")

	subtitle := m.stats.Date
	if day, err := models.ParseDate(m.stats.Date); err == nil {
		subtitle = day.Format("Monday, 2 January 2006")
	}
	if m.canPush {
		subtitle += " (today)"
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderButton() string {
	if !m.canPush {
		button := styles.ButtonDisabledStyle.Render("Push")
		hint := styles.WarningTextStyle.Render("read-only")
		return lipgloss.JoinHorizontal(lipgloss.Center, button, " ", hint)
	}
	button := styles.ButtonActiveStyle.Render("Push")
	hint := styles.HelpStyle.Render(fmt.Sprintf("p / enter adds to %02d:00", m.hour))
	return lipgloss.JoinHorizontal(lipgloss.Center, button, " ", hint)
}

func (m *Model) renderSummary() string {
	if m.stats.Total == 0 {
		return styles.HelpStyle.Render("No pushes recorded")
	}
	hour, count := m.stats.Counts.Peak()
	return fmt.Sprintf("Total: %s   Peak: %s",
		styles.InfoTextStyle.Render(fmt.Sprintf("%d", m.stats.Total)),
		styles.InfoTextStyle.Render(fmt.Sprintf("%02d:00 (%d)", hour, count)),
	)
}

// renderBars renders the 24 hourly percentage bars. The current hour is
// highlighted only for today.
func (m *Model) renderBars() string {
	highlight := -1
	if m.canPush {
		highlight = m.hour
	}
	width := max(m.width-styles.DocStyle.GetHorizontalFrameSize(), 30)
	return components.RenderPercentBars(m.stats, width, highlight)
}

func (m *Model) renderCalendar() string {
	rows := []string{
		styles.CardTitleStyle.Render("Pick a day"),
		m.calendar.View(),
		"",
		styles.HelpStyle.Render("enter pick · esc close · [ ] month · t today"),
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
