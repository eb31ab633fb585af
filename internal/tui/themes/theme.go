package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Label         lipgloss.Style
	FocusedLabel  lipgloss.Style
	Panel         lipgloss.Style
	FocusedPanel  lipgloss.Style
	Dialog        lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
}

func build(primary, muted, border, fg, subtle, success, warning, failure, info lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Muted:   muted,
		Border:  border,

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(subtle),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Label: lipgloss.NewStyle().
			Foreground(subtle).
			Width(14),
		FocusedLabel: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Width(14),

		// Component styles
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		FocusedPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primary).
			Padding(1, 2),

		// Status styles
		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(failure).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#3b82f6"), // primary
	lipgloss.Color("#737373"), // muted
	lipgloss.Color("#404040"), // border
	lipgloss.Color("#fafafa"), // foreground
	lipgloss.Color("#a3a3a3"), // subtle
	lipgloss.Color("#10b981"), // success
	lipgloss.Color("#f59e0b"), // warning
	lipgloss.Color("#ef4444"), // error
	lipgloss.Color("#38bdf8"), // info
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#89b4fa"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#a6adc8"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#89dceb"),
)

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
