package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	White     = lipgloss.Color("#FFFFFF")
	LightGray = lipgloss.Color("#E5E7EB")

	// Step Styles
	StepPending = lipgloss.NewStyle().
			Foreground(Muted)

	StepRunning = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	StepSucceeded = lipgloss.NewStyle().
			Foreground(Secondary)

	StepFailed = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	StepSkipped = lipgloss.NewStyle().
			Foreground(Warning)

	StepDetail = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			PaddingLeft(4)

	// Panel Styles
	StepPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	ContentPanel = lipgloss.NewStyle().
			Padding(0, 1)

	// Status Bar Styles
	StatusBar = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	StatusBarRunning = lipgloss.NewStyle().
				Foreground(Primary).
				Padding(0, 1)

	StatusBarError = lipgloss.NewStyle().
			Foreground(Error).
			Padding(0, 1)

	// Header
	Header = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Padding(0, 1)

	HeaderDetail = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	// Diagnostics
	Diagnostic = lipgloss.NewStyle().
			Foreground(Warning).
			Italic(true).
			PaddingLeft(2)
)
