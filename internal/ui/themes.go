package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Border    lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Selected  lipgloss.AdaptiveColor
	Countdown lipgloss.AdaptiveColor
}

// palette lists a theme's colors as [light, dark] pairs in field order
type palette [9][2]string

func buildTheme(name string, p palette) Theme {
	c := func(i int) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: p[i][0], Dark: p[i][1]}
	}
	return Theme{
		Name:      name,
		Primary:   c(0),
		Secondary: c(1),
		Accent:    c(2),
		Success:   c(3),
		Warning:   c(4),
		Error:     c(5),
		Border:    c(6),
		Muted:     c(1),
		Selected:  c(7),
		Countdown: c(8),
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default", palette{
		{"#BE185D", "#F472B6"}, {"#6B7280", "#9CA3AF"}, {"#7C3AED", "#A855F7"},
		{"#059669", "#10B981"}, {"#D97706", "#F59E0B"}, {"#DC2626", "#EF4444"},
		{"#D1D5DB", "#374151"}, {"#FCE7F3", "#831843"}, {"#EA580C", "#FB923C"},
	})

	HighContrastTheme = buildTheme("high-contrast", palette{
		{"#000000", "#FFFFFF"}, {"#666666", "#BBBBBB"}, {"#000080", "#8080FF"},
		{"#006600", "#00FF00"}, {"#CC6600", "#FFAA00"}, {"#CC0000", "#FF4444"},
		{"#000000", "#FFFFFF"}, {"#CCCCCC", "#333333"}, {"#CC0000", "#FFFF00"},
	})

	MinimalTheme = buildTheme("minimal", palette{
		{"#2D3748", "#E2E8F0"}, {"#718096", "#A0AEC0"}, {"#4A5568", "#CBD5E0"},
		{"#2F855A", "#68D391"}, {"#C05621", "#F6AD55"}, {"#C53030", "#FC8181"},
		{"#E2E8F0", "#2D3748"}, {"#EDF2F7", "#2D3748"}, {"#2D3748", "#E2E8F0"},
	})
)

// ThemeByName returns the named theme, or false if there is none
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "default":
		return DefaultTheme, true
	case "high-contrast":
		return HighContrastTheme, true
	case "minimal":
		return MinimalTheme, true
	default:
		return Theme{}, false
	}
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Header   lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Key      lipgloss.Style
	Box      lipgloss.Style
	Alert    lipgloss.Style
	Modal    lipgloss.Style
	Input    lipgloss.Style
	Digit    lipgloss.Style
	Selected lipgloss.Style
}

// NewStyles builds the styles for a theme
func NewStyles(theme Theme) *Styles {
	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Key: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Error).
			Padding(1, 2),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 2),

		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		Digit: lipgloss.NewStyle().
			Foreground(theme.Countdown).
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.Countdown).
			Bold(true).
			Padding(1, 4),

		Selected: lipgloss.NewStyle().
			Background(theme.Selected).
			Foreground(theme.Primary).
			Bold(true),
	}
}
