package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ListItem represents an item in a list
type ListItem struct {
	Title       string
	Description string
	Status      string
	Icon        string
}

// List represents a navigable list component
type List struct {
	Title       string
	Items       []ListItem
	Selected    int
	Focused     bool
	Width       int
	Height      int
	ShowNumbers bool
	Offset      int // number shown for the first item is Offset+1
}

// NewList creates a new list component
func NewList(title string, width, height int) *List {
	return &List{
		Title:       title,
		Width:       width,
		Height:      height,
		ShowNumbers: true,
	}
}

// SetItems sets all items in the list, keeping the selection in range
func (l *List) SetItems(items []ListItem) {
	l.Items = items
	l.clamp()
}

// Select moves the selection to i, clamped to the list
func (l *List) Select(i int) {
	l.Selected = i
	l.clamp()
}

// MoveUp moves selection up
func (l *List) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves selection down
func (l *List) MoveDown() {
	if l.Selected < len(l.Items)-1 {
		l.Selected++
	}
}

func (l *List) clamp() {
	if l.Selected >= len(l.Items) {
		l.Selected = len(l.Items) - 1
	}
	if l.Selected < 0 {
		l.Selected = 0
	}
}

// Render renders the list
func (l *List) Render() string {
	primaryColor := lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	secondaryColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	content := []string{headerStyle.Render(l.Title), ""}

	maxVisible := l.Height - 4 // title and spacing
	if maxVisible < 1 {
		maxVisible = 1
	}

	start := 0
	if l.Selected >= maxVisible {
		start = l.Selected - maxVisible + 1
	}
	end := start + maxVisible
	if end > len(l.Items) {
		end = len(l.Items)
	}

	for i := start; i < end; i++ {
		content = append(content, l.renderItem(&l.Items[i], l.Offset+i+1, l.Focused && i == l.Selected))
	}

	if len(l.Items) > maxVisible {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", start+1, end, len(l.Items))
		content = append(content, "", normalStyle.Render(scrollInfo))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)

	borderColor := secondaryColor
	if l.Focused {
		borderColor = primaryColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(l.Width).
		Render(joined)
}

// renderItem renders a single list item
func (l *List) renderItem(item *ListItem, number int, selected bool) string {
	primaryColor := lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	secondaryColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	selectedColor := lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}
	errorColor := lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}

	var parts []string
	if l.ShowNumbers {
		parts = append(parts, fmt.Sprintf("%2d.", number))
	}
	if item.Icon != "" {
		parts = append(parts, item.Icon)
	}
	title := item.Title
	if item.Description != "" {
		title += " - " + item.Description
	}
	parts = append(parts, title)

	style := lipgloss.NewStyle().Foreground(secondaryColor)
	switch {
	case selected:
		style = lipgloss.NewStyle().Background(selectedColor).Foreground(primaryColor)
	case item.Status == "error":
		style = style.Foreground(errorColor)
	}

	width := l.Width - 4
	if width < 1 {
		width = 1
	}
	return style.Width(width).Render(strings.Join(parts, " "))
}
