package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/laborlog-tui/internal/ui/styles"
	"github.com/j-veylop/laborlog-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderDataCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

// renderConfigCard renders the effective configuration.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		logPath := m.config.LogPath
		if logPath == "" {
			logPath = "disabled"
		}
		notify := "off"
		if m.config.NotifyTransition {
			notify = "on"
		}

		rows = append(rows, renderRow("Store Backend", m.config.StoreBackend))
		rows = append(rows, renderRow("Store Path", m.config.StorePath))
		rows = append(rows, renderRow("Log File", logPath))
		rows = append(rows, renderRow("Log Level", m.config.LogLevel))
		rows = append(rows, renderRow("Live Tick", m.config.LiveTickInterval.String()))
		rows = append(rows, renderRow("Notifications", notify))

		if m.mgr != nil && m.mgr.Database() != nil {
			rows = append(rows, "")
			rows = append(rows, styles.HelpStyle.Render("Press 'v' to compact the database"))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderDataCard renders what is currently recorded.
func (m *Model) renderDataCard() string {
	days := m.state.RecordedDays()

	lastDay := "none"
	if len(days) > 0 {
		lastDay = days[len(days)-1]
	}

	lastChange := "never"
	if t := m.state.LastUpdated(); !t.IsZero() {
		lastChange = t.Format("2006-01-02 15:04:05")
	}

	rows := []string{
		styles.CardTitleStyle.Render("Recorded Data"),
		renderRow("Taps", fmt.Sprintf("%d", m.taps)),
		renderRow("Days With Pushes", fmt.Sprintf("%d", len(days))),
		renderRow("Last Push Day", lastDay),
		renderRow("Last Change", lastChange),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderRow renders a key-value row.
func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About laborlog"))

	rows = append(rows, renderRow("Version", version.GetVersion()))
	rows = append(rows, renderRow("Build Date", version.GetDate()))
	rows = append(rows, renderRow("Git Commit", version.GetCommit()))
	rows = append(rows, renderRow("Go Version", runtime.Version()))
	rows = append(rows, renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
