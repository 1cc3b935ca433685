package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ScoreBar renders a 0..1 score as a horizontal bar
type ScoreBar struct {
	Width int
	Value float64
	Label string
	Color lipgloss.TerminalColor
}

// NewScoreBar creates a new score bar
func NewScoreBar(label string, value float64, width int) *ScoreBar {
	return &ScoreBar{Width: width, Value: value, Label: label}
}

// Render renders the score bar
func (p *ScoreBar) Render() string {
	color := p.Color
	if color == nil {
		color = lipgloss.Color("#10B981")
	}
	progressStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	value := p.Value
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(float64(p.Width)*value + 0.5)
	bar := progressStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", p.Width-filled))

	percentText := fmt.Sprintf("%5.1f%%", value*100)
	if p.Label == "" {
		return bar + " " + percentText
	}
	return fmt.Sprintf("%-8s %s %s", p.Label, bar, percentText)
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is an indeterminate activity indicator
type Spinner struct {
	Frame int
	Label string
}

// NewSpinner creates a new spinner
func NewSpinner(label string) *Spinner {
	return &Spinner{Label: label}
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	progressStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	spinner := progressStyle.Render(spinnerFrames[s.Frame])
	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}
	return spinner
}
