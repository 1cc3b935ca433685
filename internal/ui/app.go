// Package ui is the terminal front end of the capture workflow. It maps key
// presses to workflow intents and renders the controller's state; it holds
// no workflow state of its own beyond input buffers and cursors.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/ColorSeason/internal/capture"
	"github.com/yildizm/ColorSeason/internal/season"
	"github.com/yildizm/ColorSeason/internal/ui/components"
	"github.com/yildizm/ColorSeason/internal/workflow"
)

// Model is the bubbletea model wrapping a workflow controller
type Model struct {
	ctrl   *workflow.Controller
	styles *Styles

	width  int
	height int

	pathInput string
	cursor    int // index within the visible outfit page
	spinner   *components.Spinner

	thumbFor *capture.EncodedImage
	thumb    string

	quitting bool
}

// NewModel creates the model for ctrl
func NewModel(ctrl *workflow.Controller, theme Theme) *Model {
	return &Model{
		ctrl:    ctrl,
		styles:  NewStyles(theme),
		spinner: components.NewSpinner(""),
	}
}

// Init starts the animation clock
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles key presses and forwards everything else to the controller
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.spinner.Tick()
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, m.ctrl.Update(msg)
}

// handleKey maps a key press to an intent for the current view
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	// the alert blocks every other interaction
	if m.ctrl.Alert() != "" {
		if key == "enter" || key == "esc" || key == " " {
			return m.send(workflow.DismissAlertMsg{})
		}
		return m, nil
	}

	switch m.ctrl.View() {
	case workflow.ViewHome:
		switch key {
		case "enter", " ":
			return m.send(workflow.GetStartedMsg{})
		case "q":
			return m.quit()
		}

	case workflow.ViewSelectMode:
		switch key {
		case "c", "1":
			return m.send(workflow.ChooseCameraMsg{})
		case "u", "2":
			m.pathInput = ""
			return m.send(workflow.ChooseUploadMsg{})
		case "esc", "b":
			return m.send(workflow.BackToHomeMsg{})
		case "q":
			return m.quit()
		}

	case workflow.ViewCapturing:
		if m.ctrl.Mode() == workflow.ModeUpload {
			return m.handlePathKey(msg)
		}
		switch key {
		case " ", "enter":
			return m.send(workflow.CaptureRequestedMsg{})
		case "u", "tab":
			m.pathInput = ""
			return m.send(workflow.ChooseUploadMsg{})
		case "esc", "b":
			return m.send(workflow.BackToSelectMsg{})
		case "h":
			return m.send(workflow.BackToHomeMsg{})
		case "q":
			return m.quit()
		}

	case workflow.ViewPreview:
		switch key {
		case "enter", "a":
			return m.send(workflow.AcceptMsg{})
		case "r":
			m.pathInput = ""
			return m.send(workflow.RetakeMsg{})
		case "esc", "b":
			return m.send(workflow.BackToSelectMsg{})
		case "q":
			return m.quit()
		}

	case workflow.ViewProcessing:
		switch key {
		case "esc", "b":
			return m.send(workflow.BackToSelectMsg{})
		case "q":
			return m.quit()
		}

	case workflow.ViewResult:
		return m.handleResultKey(key)
	}

	return m, nil
}

// handlePathKey edits the upload path
func (m *Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.send(workflow.FileSelectedMsg{Path: m.pathInput})
	case tea.KeyEsc:
		return m.send(workflow.BackToSelectMsg{})
	case tea.KeyTab:
		return m.send(workflow.ChooseCameraMsg{})
	case tea.KeyBackspace:
		if r := []rune(m.pathInput); len(r) > 0 {
			m.pathInput = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		m.pathInput = ""
	case tea.KeySpace:
		m.pathInput += " "
	case tea.KeyRunes:
		m.pathInput += string(msg.Runes)
	}
	return m, nil
}

// handleResultKey handles the result view and its outfit panel
func (m *Model) handleResultKey(key string) (tea.Model, tea.Cmd) {
	panel := m.ctrl.Outfits()

	if _, open := panel.Preview(); open {
		switch key {
		case "esc", "enter", "q", " ":
			return m.send(workflow.CloseOutfitMsg{})
		}
		return m, nil
	}

	switch key {
	case "g":
		return m.send(workflow.SetGenderMsg{Gender: panel.Gender().Next()})
	case "a":
		return m.send(workflow.SetGenderMsg{Gender: season.GenderAll})
	case "f":
		return m.send(workflow.SetGenderMsg{Gender: season.GenderFemale})
	case "m":
		return m.send(workflow.SetGenderMsg{Gender: season.GenderMale})
	case "n", "right", "l":
		m.cursor = 0
		return m.send(workflow.NextPageMsg{})
	case "p", "left":
		m.cursor = 0
		return m.send(workflow.PrevPageMsg{})
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(panel.Page().Items)-1 {
			m.cursor++
		}
	case "enter":
		return m.send(workflow.OpenOutfitMsg{Index: m.cursor})
	case "r":
		m.cursor = 0
		m.pathInput = ""
		return m.send(workflow.RestartMsg{})
	case "b", "esc":
		return m.send(workflow.BackToSelectMsg{})
	case "h":
		return m.send(workflow.BackToHomeMsg{})
	case "q":
		return m.quit()
	}
	return m, nil
}

// send forwards an intent to the controller
func (m *Model) send(intent tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.ctrl.Update(intent)
	if n := len(m.ctrl.Outfits().Page().Items); m.cursor >= n {
		m.cursor = 0
	}
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctrl.Close()
	return m, tea.Quit
}

// Run runs the interactive TUI until the user quits
func Run(ctrl *workflow.Controller, theme Theme) error {
	defer ctrl.Close()
	p := tea.NewProgram(NewModel(ctrl, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
