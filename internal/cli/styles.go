// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette, shared with the dashboard's default theme.
var (
	accent   = lipgloss.Color("#7c3aed")
	positive = lipgloss.Color("#10b981")
	caution  = lipgloss.Color("#f59e0b")
	negative = lipgloss.Color("#ef4444")
	note     = lipgloss.Color("#38bdf8")

	// MutedColor is used for table headers and secondary text.
	MutedColor = lipgloss.Color("#737373")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(positive)
	warningStyle = lipgloss.NewStyle().Foreground(caution)
	errorStyle   = lipgloss.NewStyle().Foreground(negative)
	infoStyle    = lipgloss.NewStyle().Foreground(note)
	winnerStyle  = lipgloss.NewStyle().Bold(true).Foreground(positive)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 2)

	// SubtleStyle renders report metadata and the empty part of a bar.
	SubtleStyle = lipgloss.NewStyle().Foreground(MutedColor)
	// BoldStyle renders section headings.
	BoldStyle = lipgloss.NewStyle().Bold(true)
	// BarStyle renders the filled part of a positivity bar.
	BarStyle = lipgloss.NewStyle().Foreground(accent)
	// TableCellStyle pads a cell of a plain-text table.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons used as line prefixes.
const (
	ModelIcon = "🤖"
	ChartIcon = "📊"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render("✓ " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render("✗ " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render("! " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render("→ " + message)
}

// FormatTitle formats a section title.
func FormatTitle(title string) string {
	return titleStyle.Render("🌍 " + title)
}

// FormatWinner formats the best-product announcement.
func FormatWinner(message string) string {
	return winnerStyle.Render("🏆 " + message)
}

// RenderBox renders content under a title inside a rounded border.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.UnsetMargins().Render(title),
		content,
	))
}

// StyleSuccess colors text as a success without an icon.
func StyleSuccess(text string) string {
	return successStyle.Render(text)
}

// StyleWarning colors text as a warning without an icon.
func StyleWarning(text string) string {
	return warningStyle.Render(text)
}
