package contractions

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/ui/components"
	"github.com/j-veylop/laborlog-tui/internal/ui/styles"
)

const (
	chartHeight = 6
	timeLayout  = "15:04:05"
	dateLayout  = "2006-01-02 15:04:05"
)

// View renders the contractions tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() && len(m.taps) == 0 {
		label := styles.HelpStyle.Render("Loading tap log...")
		return styles.CenterBoth(m.spinner.View()+" "+label, m.width, m.height)
	}

	header := m.renderHeader()
	m.viewport.Height = max(m.height-lipgloss.Height(header)-styles.DocStyle.GetVerticalFrameSize(), 3)

	content := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())

	return styles.DocStyle.
		Width(m.width).
		Render(content)
}

func (m *Model) contentWidth() int {
	return max(m.width-styles.DocStyle.GetHorizontalFrameSize(), 20)
}

func (m *Model) headerHeight() int {
	return lipgloss.Height(m.renderHeader()) + styles.DocStyle.GetVerticalFrameSize()
}

// renderHeader renders everything above the interval list.
func (m *Model) renderHeader() string {
	sections := []string{
		m.renderTitle(),
		m.renderButton(),
		m.renderLive(),
		"",
	}

	if chart := m.renderChart(); chart != "" {
		sections = append(sections, chart, "")
	}

	sections = append(sections, styles.SubTitleStyle.Render(fmt.Sprintf("Intervals (%d)", len(m.intervals))))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Contraction Timer")
	subtitle := styles.HelpStyle.Render("Tap when a contraction starts and again when it ends")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// buttonLabel alternates with the parity of the tap count.
func (m *Model) buttonLabel() string {
	if models.LiveKind(len(m.taps)) == models.KindContraction {
		return "End contraction"
	}
	return "Start contraction"
}

func (m *Model) renderButton() string {
	button := styles.ButtonActiveStyle.Render(m.buttonLabel())
	hint := styles.HelpStyle.Render("space / enter")
	return lipgloss.JoinHorizontal(lipgloss.Center, button, " ", hint)
}

// renderLive renders the running interval, "Contraction: MM:SS" or
// "Break: MM:SS".
func (m *Model) renderLive() string {
	if len(m.taps) == 0 {
		return styles.HelpStyle.Render("No taps yet")
	}

	kind := models.LiveKind(len(m.taps))

	style := styles.InfoTextStyle
	if kind == models.KindContraction {
		style = styles.WarningTextStyle
	}

	line := style.Bold(true).Render(fmt.Sprintf("%s: %s", kind, models.FormatDuration(m.elapsed.Milliseconds())))

	if m.hasLast {
		line += styles.HelpStyle.Render(fmt.Sprintf("   last %s %s", strings.ToLower(m.last.Kind.String()), models.FormatDuration(m.last.DurationMs)))
	}
	return line
}

// stamp formats t as time of day, adding the date when t is not on the
// same day as now.
func (m *Model) stamp(t time.Time) string {
	ty, tm, td := t.Date()
	ny, nm, nd := m.now.Date()
	if ty == ny && tm == nm && td == nd {
		return t.Format(timeLayout)
	}
	return t.Format(dateLayout)
}

// contractionSeconds returns the length of every closed contraction.
func (m *Model) contractionSeconds() []float64 {
	var out []float64
	for _, iv := range m.intervals {
		if iv.Kind == models.KindContraction {
			out = append(out, float64(iv.DurationMs)/1000)
		}
	}
	return out
}

func (m *Model) breakSeconds() []float64 {
	var out []float64
	for _, iv := range m.intervals {
		if iv.Kind == models.KindBreak {
			out = append(out, float64(iv.DurationMs)/1000)
		}
	}
	return out
}

// renderChart renders contraction lengths and a sparkline of breaks.
func (m *Model) renderChart() string {
	data := m.contractionSeconds()
	if len(data) == 0 {
		return ""
	}

	width := m.contentWidth() - 10
	rows := []string{
		components.RenderLineChart(data, width, chartHeight, "contraction length (s)"),
	}
	if breaks := m.breakSeconds(); len(breaks) > 0 {
		rows = append(rows, styles.HelpStyle.Render("breaks ")+components.RenderSparkline(breaks, width))
	}
	rows = append(rows, components.RenderLegend(components.PhaseLegend()))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderList renders every interval, newest first.
func (m *Model) renderList() string {
	if len(m.intervals) == 0 {
		return styles.HelpStyle.Render("Intervals appear after the second tap.")
	}

	kindStyle := lipgloss.NewStyle().Width(12).Foreground(styles.TextPrimary)
	timeStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	lines := make([]string, 0, len(m.intervals))
	for i := len(m.intervals) - 1; i >= 0; i-- {
		iv := m.intervals[i]
		line := fmt.Sprintf("%4d  %s %s  %s  %s",
			iv.Index,
			kindStyle.Render(iv.Kind.String()),
			models.FormatDuration(iv.DurationMs),
			timeStyle.Render(m.stamp(iv.Start)+" → "+m.stamp(iv.End)),
			renderPhases(iv.Phases),
		)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderPhases renders every matching phase label in its color.
func renderPhases(phases []models.Phase) string {
	if len(phases) == 0 {
		return styles.HelpStyle.Render("-")
	}
	labels := make([]string, 0, len(phases))
	for _, p := range phases {
		labels = append(labels, styles.PhaseStyle(p).Render(p.Description()))
	}
	return strings.Join(labels, " · ")
}
