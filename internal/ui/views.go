package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ColorSeason/internal/emoji"
	"github.com/yildizm/ColorSeason/internal/season"
	"github.com/yildizm/ColorSeason/internal/ui/components"
	"github.com/yildizm/ColorSeason/internal/workflow"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	thumbColumns  = 32
)

// View renders the current workflow state
func (m *Model) View() string {
	if m.quitting {
		return m.styles.Success.Render("Thanks for using ColorSeason!") + "\n"
	}

	if alert := m.ctrl.Alert(); alert != "" {
		return m.place(m.renderAlert(alert))
	}

	var body string
	switch m.ctrl.View() {
	case workflow.ViewHome:
		body = m.renderHome()
	case workflow.ViewSelectMode:
		body = m.renderSelectMode()
	case workflow.ViewCapturing:
		if m.ctrl.Mode() == workflow.ModeUpload {
			body = m.renderUpload()
		} else {
			body = m.renderCamera()
		}
	case workflow.ViewPreview:
		body = m.renderPreview()
	case workflow.ViewProcessing:
		body = m.renderProcessing()
	case workflow.ViewResult:
		if url, open := m.ctrl.Outfits().Preview(); open {
			return m.place(m.renderOutfitModal(url))
		}
		return m.renderResult()
	}
	return m.place(body)
}

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m *Model) place(content string) string {
	w, h := m.size()
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content)
}

// hints renders "key action" pairs
func (m *Model) hints(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, m.styles.Key.Render(pairs[i])+" "+m.styles.Muted.Render(pairs[i+1]))
	}
	return strings.Join(parts, m.styles.Muted.Render(" • "))
}

func (m *Model) renderHome() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Title.Render(emoji.GetEmoji("palette")+" ColorSeason"),
		"",
		"Discover your color season",
		m.styles.Muted.Render("Take a photo or choose one, and we will find the colors that suit you"),
		"",
		m.hints("enter", "get started", "q", "quit"),
	)
	return m.styles.Box.Render(content)
}

func (m *Model) renderSelectMode() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render("How would you like to add your photo?"),
		"",
		m.styles.Key.Render("[c]")+" "+emoji.GetEmoji("camera")+" Take a photo",
		m.styles.Key.Render("[u]")+" "+emoji.GetEmoji("upload")+" Upload a JPG or PNG",
		"",
		m.hints("esc", "back", "q", "quit"),
	)
	return m.styles.Box.Render(content)
}

func (m *Model) renderCamera() string {
	lines := []string{m.styles.Header.Render(emoji.GetEmoji("camera") + " Camera")}
	lines = append(lines, "")

	switch {
	case m.ctrl.Countdown() > 0:
		lines = append(lines, m.styles.Digit.Render(fmt.Sprintf("%d", m.ctrl.Countdown())))
	case m.ctrl.Busy():
		m.spinner.Label = "Capturing..."
		lines = append(lines, m.spinner.Render())
	case m.ctrl.CameraOpening():
		m.spinner.Label = "Starting camera..."
		lines = append(lines, m.spinner.Render())
	case m.ctrl.CameraReady():
		lines = append(lines, m.styles.Success.Render("Camera ready. Center your face in the frame."))
	}

	if m.ctrl.Err() != nil {
		lines = append(lines, "", m.styles.Error.Render(emoji.GetEmoji("error")+" "+m.ctrl.ErrorMessage()))
	}

	lines = append(lines, "", m.hints("space", "capture", "u", "upload instead", "esc", "back", "h", "home"))
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderUpload() string {
	lines := []string{
		m.styles.Header.Render(emoji.GetEmoji("upload") + " Upload a photo"),
		m.styles.Muted.Render("JPG or PNG, less than 5MB"),
		"",
		m.styles.Input.Width(56).Render(m.pathInput + "█"),
	}

	if m.ctrl.Busy() {
		m.spinner.Label = "Reading " + m.ctrl.SelectedPath()
		lines = append(lines, "", m.spinner.Render())
	}
	if m.ctrl.Err() != nil {
		lines = append(lines, "", m.styles.Error.Render(emoji.GetEmoji("error")+" "+m.ctrl.ErrorMessage()))
	}

	lines = append(lines, "", m.hints("enter", "open", "tab", "use camera", "esc", "back"))
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderPreview() string {
	img := m.ctrl.Image()
	lines := []string{m.styles.Header.Render("Preview"), ""}

	if img != m.thumbFor {
		m.thumbFor = img
		m.thumb, _ = renderThumbnail(img, thumbColumns)
	}
	if m.thumb != "" {
		lines = append(lines, m.thumb, "")
	}
	if img != nil {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("%dx%d %s", img.Width, img.Height, img.MIMEType)))
	}
	if path := m.ctrl.SelectedPath(); path != "" {
		lines = append(lines, m.styles.Muted.Render(path))
	}

	lines = append(lines, "", m.hints("enter", "analyze", "r", "retake", "esc", "back"))
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m *Model) renderProcessing() string {
	m.spinner.Label = "Analyzing your colors..."
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.spinner.Render(),
		"",
		m.hints("esc", "cancel"),
	)
	return m.styles.Box.Render(content)
}

func (m *Model) renderAlert(alert string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Error.Render(emoji.GetEmoji("warning")+" Something went wrong"),
		"",
		alert,
		"",
		m.hints("enter", "OK"),
	)
	return m.styles.Alert.Render(content)
}

func (m *Model) renderResult() string {
	result := m.ctrl.Result()
	if result == nil {
		return m.place(m.styles.Muted.Render("No result"))
	}
	w, _ := m.size()
	colWidth := w/2 - 2
	if colWidth < 30 {
		colWidth = w - 2
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSeason(result, colWidth),
		m.renderPalette("Primary palette", result.PrimaryPalette),
		m.renderPalette("Secondary palette", result.SecondaryPalette),
		m.renderProbabilities(result),
	)
	right := m.renderOutfits(colWidth)

	var body string
	if colWidth == w-2 {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}

	footer := m.hints("g", "gender", "n/p", "page", "enter", "open", "r", "new photo", "b", "back", "q", "quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
}

func (m *Model) renderSeason(result *season.AnalysisResult, width int) string {
	box := components.NewSummaryBox(emoji.ForSeason(result.Season)+" Your season: "+result.Season, width)
	box.AddLine(lipgloss.NewStyle().Width(width - 4).Render(result.Summary()))
	box.AddLine("")

	bar := components.NewScoreBar("", result.Confidence, 20)
	bar.Color = m.styles.Theme.Primary
	box.AddKeyValue("Confidence", bar.Render()+" "+season.ConfidenceLevel(result.Confidence))
	box.AddLine(season.ConfidenceDescription)
	if result.FaceMaskingApplied {
		box.AddKeyValue("Face masking", "applied")
	}
	return box.Render()
}

func (m *Model) renderPalette(title string, colors []season.Color) string {
	if len(colors) == 0 {
		return ""
	}
	lines := []string{"", m.styles.Header.Render(emoji.GetEmoji("palette") + " " + title)}
	for _, c := range colors {
		lines = append(lines, components.Swatch(c.Hex, fmt.Sprintf("%-18s %s", c.Name, c.Hex), 4))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderProbabilities(result *season.AnalysisResult) string {
	probs := result.SortedProbabilities()
	if len(probs) == 0 {
		return ""
	}
	lines := []string{"", m.styles.Header.Render(emoji.GetEmoji("target") + " All probabilities")}
	for _, p := range probs {
		lines = append(lines, components.NewScoreBar(p.Season, p.Value, 20).Render())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderOutfits(width int) string {
	panel := m.ctrl.Outfits()
	title := fmt.Sprintf("%s Matching outfits: %s", emoji.GetEmoji("outfit"), panel.Gender().Label())

	switch {
	case panel.Loading():
		m.spinner.Label = "Loading outfits..."
		return m.styles.Box.Width(width).Render(title + "\n\n" + m.spinner.Render())
	case panel.Err() != nil:
		return m.styles.Box.Width(width).Render(title + "\n\n" + m.styles.Warning.Render(season.Message(panel.Err())))
	}

	page := panel.Page()
	if page.Total == 0 {
		return m.styles.Box.Width(width).Render(title + "\n\n" + m.styles.Muted.Render("No matching outfits found"))
	}

	_, h := m.size()
	list := components.NewList(title, width, h-6)
	list.Offset = (page.Page - 1) * page.PageSize
	list.Focused = true
	items := make([]components.ListItem, 0, len(page.Items))
	for _, url := range page.Items {
		items = append(items, components.ListItem{Title: url})
	}
	list.SetItems(items)
	list.Select(m.cursor)

	pager := m.styles.Muted.Render(fmt.Sprintf("Page %d of %d (%d outfits)", page.Page, page.TotalPages, page.Total))
	return lipgloss.JoinVertical(lipgloss.Left, list.Render(), pager)
}

func (m *Model) renderOutfitModal(url string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render(emoji.GetEmoji("outfit")+" Outfit"),
		"",
		url,
		"",
		m.hints("esc", "close"),
	)
	return m.styles.Modal.Render(content)
}
