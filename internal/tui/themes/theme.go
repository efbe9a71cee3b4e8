// Package themes holds the color palettes for the dashboard.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the dashboard.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Panel         lipgloss.Style
	FocusedPanel  lipgloss.Style
	Metric        lipgloss.Style
	MetricLabel   lipgloss.Style
	Positive      lipgloss.Style
	Negative      lipgloss.Style
	Neutral       lipgloss.Style
	Failed        lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	FocusedBorder lipgloss.Color
}

func newTheme(primary, foreground, muted, border, success, warning, failure string) Theme {
	return Theme{
		Primary:       lipgloss.Color(primary),
		Muted:         lipgloss.Color(muted),
		Border:        lipgloss.Color(border),
		FocusedBorder: lipgloss.Color(primary),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(primary)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(foreground)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(foreground)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(primary)).
			Foreground(lipgloss.Color(foreground)).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1),
		FocusedPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primary)).
			Padding(0, 1),

		Metric: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(primary)),
		MetricLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)),

		Positive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(success)).
			Bold(true),
		Negative: lipgloss.NewStyle().
			Foreground(lipgloss.Color(failure)).
			Bold(true),
		Neutral: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(warning)).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme("#7c3aed", "#fafafa", "#737373", "#404040", "#10b981", "#f59e0b", "#ef4444")

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme("#cba6f7", "#cdd6f4", "#6c7086", "#45475a", "#a6e3a1", "#f9e2af", "#f38ba8")

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
