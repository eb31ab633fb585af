package tui

import (
	"github.com/Veraticus/psychro/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Outputs   []string
	Width     int
	Height    int
	ShowHelp  bool
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Width:     80,
		Height:    24,
		AltScreen: true,
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

// WithOutputs lists the files the chart is written to, shown in the chart panel.
func WithOutputs(paths ...string) Option {
	return func(c *Config) {
		c.Outputs = paths
	}
}

// WithFullHelp starts with the full key help expanded.
func WithFullHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}

// WithAltScreen controls whether the program takes over the whole terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
