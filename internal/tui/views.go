package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/polyreview/internal/analytics"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/Veraticus/polyreview/internal/report"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 20

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLanguages(),
		m.renderProducts(),
		m.renderDistribution(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderMetrics(),
		panels,
		m.renderInspector(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Polyreview Dashboard")
	if m.source == "" {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", m.theme.Subtitle.Render(m.source))
}

func (m Model) renderMetrics() string {
	s := m.view.Summary()
	metrics := []string{
		m.metric("Reviews", fmt.Sprintf("%d", s.Total)),
		m.metric("Positive", fmt.Sprintf("%d", s.Positive)),
		m.metric("Negative", fmt.Sprintf("%d", s.Negative)),
		m.metric("Positivity", report.FormatRate(s.PositivityRate)+"%"),
		m.metric("Languages", fmt.Sprintf("%d/%d", len(m.Selected()), len(m.languages))),
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, metrics...)
	if w, ok := m.view.Winner(); ok {
		line = lipgloss.JoinVertical(lipgloss.Left, line, m.theme.Positive.Render(report.WinnerLine(w)))
	}
	return m.theme.Panel.Render(line)
}

func (m Model) metric(label, value string) string {
	return lipgloss.NewStyle().MarginRight(4).Render(
		m.theme.MetricLabel.Render(label+": ") + m.theme.Metric.Render(value),
	)
}

func (m Model) renderLanguages() string {
	lines := []string{m.theme.Bold.Render("Languages")}
	for i, l := range m.languages {
		box := "[ ]"
		if m.selected[l.Language] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %-12s %-4s %3d", box, truncate(l.Name, 12), l.Language, l.Count)
		if i == m.cursor && m.focus == PanelLanguages {
			line = m.theme.Selected.Render(line)
		} else {
			line = m.theme.Normal.Render(line)
		}
		lines = append(lines, line)
	}
	return m.panelStyle(PanelLanguages).Render(strings.Join(lines, "\n"))
}

func (m Model) renderProducts() string {
	lines := []string{m.theme.Bold.Render("Positivity by product")}
	products := m.view.PositivityByProduct()
	if len(products) == 0 {
		lines = append(lines, m.theme.Subtitle.Render("No reviews selected"))
	}
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%-8d %s %5s%% (%d)",
			p.ProductID,
			report.Bar(p.PositivityRate, 100, barWidth),
			report.FormatRate(p.PositivityRate),
			p.ReviewCount,
		))
	}
	return m.theme.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDistribution() string {
	lines := []string{m.theme.Bold.Render("Language distribution")}
	counts := m.view.LanguageDistribution()
	if len(counts) == 0 {
		lines = append(lines, m.theme.Subtitle.Render("No reviews selected"))
	}
	total := float64(m.view.Len())
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%-12s %s %3d",
			truncate(analytics.DisplayName(c.Language), 12),
			report.Bar(float64(c.Count), total, barWidth),
			c.Count,
		))
	}
	return m.theme.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderInspector() string {
	title := m.theme.Bold.Render(fmt.Sprintf("Reviews (%d)", m.view.Len()))
	parts := []string{title, m.reviews.View()}
	if row := m.reviews.SelectedRow(); m.focus == PanelReviews && len(row) == 5 {
		parts = append(parts,
			"",
			m.sentimentStyle(row[2]).Render(row[2])+m.theme.Subtitle.Render(" · product "+row[0]+" · "+row[1]),
			m.theme.Normal.Render(row[3]),
		)
		if row[4] != row[3] {
			parts = append(parts, m.theme.Subtitle.Render(row[4]))
		}
	}
	return m.panelStyle(PanelReviews).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) sentimentStyle(label string) lipgloss.Style {
	switch model.SentimentLabel(label) {
	case model.SentimentPositive:
		return m.theme.Positive
	case model.SentimentNegative:
		return m.theme.Negative
	case model.SentimentError:
		return m.theme.Failed
	default:
		return m.theme.Neutral
	}
}

func (m Model) panelStyle(p Panel) lipgloss.Style {
	if m.focus == p {
		return m.theme.FocusedPanel
	}
	return m.theme.Panel
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
