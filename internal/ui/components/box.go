package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryBox creates a summary information box
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int) *SummaryBox {
	return &SummaryBox{
		Title: title,
		Width: width,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-12s %s", key+":", value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	headerColor := lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	bodyColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	headerStyle := lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(bodyColor)

	content := make([]string, 0, len(s.Content)+2)
	content = append(content, headerStyle.Render(s.Title), "")
	for _, line := range s.Content {
		content = append(content, bodyStyle.Render(line))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(bodyColor).
		Padding(0, 1).
		Width(s.Width).
		Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

// Swatch renders a block filled with a hex color followed by its label.
// An unparseable hex renders the label alone.
func Swatch(hex, label string, width int) string {
	if width < 1 {
		width = 1
	}
	if !validHex(hex) {
		return label
	}
	block := lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Render(strings.Repeat(" ", width))
	return block + " " + label
}

func validHex(hex string) bool {
	if len(hex) != 7 && len(hex) != 4 {
		return false
	}
	if hex[0] != '#' {
		return false
	}
	for _, r := range hex[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
