package tui

import (
	"github.com/Veraticus/polyreview/internal/tui/themes"
)

// Config holds dashboard configuration.
type Config struct {
	Theme    themes.Theme
	Source   string
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the dashboard.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  100,
		Height: 32,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithSource labels the dashboard with the table or run being shown.
func WithSource(source string) Option {
	return func(c *Config) {
		c.Source = source
	}
}

// WithHelp starts the dashboard with the full key help expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
