package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kbconsole/internal/styles"
	"kbconsole/sdk/console"
)

// View renders the application
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.steps.View())
	sections = append(sections, styles.ContentPanel.Render(m.viewport.View()))

	for _, diag := range m.snapshot.Diagnostics {
		sections = append(sections, styles.Diagnostic.Render("! "+diag))
	}

	sections = append(sections, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.experienceID
	if m.experience != nil && m.experience.Title != "" {
		title = m.experience.Title
	}
	header := styles.Header.Render(title)
	if m.snapshot.RunID != "" {
		header += styles.HeaderDetail.Render("run " + m.snapshot.RunID)
	}
	return header
}

func (m Model) renderStatusBar() string {
	var status string
	var statusStyle lipgloss.Style

	switch {
	case m.state == StateLoading:
		status = "Loading experience..."
		statusStyle = styles.StatusBar
	case m.state == StateError:
		status = fmt.Sprintf("Error: %v", m.err)
		statusStyle = styles.StatusBarError
	case m.snapshot.Status == console.RunFailed:
		status = "Failed: " + m.snapshot.Err
		statusStyle = styles.StatusBarError
	case m.snapshot.Status == console.RunCompleted:
		status = "Completed"
		statusStyle = styles.StatusBar
	case m.state == StateDone:
		status = "Cancelled"
		statusStyle = styles.StatusBar
	default:
		status = "Running..."
		statusStyle = styles.StatusBarRunning
	}

	left := statusStyle.Render(status)

	var help string
	if m.state == StateRunning {
		help = styles.StatusBar.Render("Ctrl+C: cancel")
	} else {
		help = styles.StatusBar.Render("r: rerun • q: quit")
	}

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(help)
	spacerWidth := m.width - leftWidth - rightWidth - 2
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := strings.Repeat(" ", spacerWidth)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, spacer, help)
}
