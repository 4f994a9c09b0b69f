package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"kbconsole/internal/messages"
	"kbconsole/sdk/console"
)

// Update handles all application messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.state == StateRunning && m.runner != nil {
				m.runner.Cancel()
				m.state = StateDone
				return m, nil
			}
			return m, tea.Quit

		case "q":
			if m.state != StateRunning {
				return m, tea.Quit
			}

		case "r":
			// Restart once the previous run settled
			if m.state == StateDone || m.state == StateError {
				m.err = nil
				m.state = StateRunning
				return m, m.startRun()
			}
		}

	case messages.ExperienceMsg:
		m.experience = msg.Experience
		m.state = StateRunning
		return m, m.startRun()

	case messages.RunStartedMsg:
		return m, nil

	case messages.SnapshotMsg:
		return m.applySnapshot(msg.Snapshot)

	case messages.ErrorMsg:
		m.err = msg.Err
		m.state = StateError
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.steps, cmd = m.steps.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) applySnapshot(snap console.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	m.steps.SetSteps(snap.Steps)

	if snap.Content != "" {
		m.viewport.SetContent(m.renderMarkdown(snap.Content))
		m.viewport.GotoBottom()
	}

	switch snap.Status {
	case console.RunCompleted:
		m.state = StateDone
	case console.RunFailed:
		m.state = StateDone
	default:
		m.state = StateRunning
	}
	return m, nil
}

// renderMarkdown formats streamed content for the viewport. Raw text
// is the fallback when the renderer is unavailable.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func (m *Model) resize() {
	m.steps.SetWidth(m.width)

	// Reserve space for the header, step panel, and status bar.
	stepLines := 4
	if m.experience != nil {
		stepLines = len(m.experience.Steps)*2 + 2
	}
	contentHeight := m.height - stepLines - 3
	if contentHeight < 5 {
		contentHeight = 5
	}
	m.viewport.Width = m.width
	m.viewport.Height = contentHeight

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.width-4),
	)
	if err == nil {
		m.renderer = renderer
	}
	if m.snapshot.Content != "" {
		m.viewport.SetContent(m.renderMarkdown(m.snapshot.Content))
	}
}
