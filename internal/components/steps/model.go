package steps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tidwall/gjson"

	"kbconsole/internal/styles"
	"kbconsole/sdk/console"
)

// Model renders the step list of an experience run.
type Model struct {
	steps   []console.StepState
	spinner spinner.Model
	width   int
}

func New(width int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.StepRunning

	return Model{
		spinner: sp,
		width:   width,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// SetSteps replaces the rendered steps with the latest observation.
func (m *Model) SetSteps(steps []console.StepState) {
	m.steps = steps
}

func (m *Model) SetWidth(width int) {
	m.width = width
}

// HasRunning reports whether any step is currently in flight, which
// keeps the spinner ticking.
func (m Model) HasRunning() bool {
	for _, step := range m.steps {
		if step.Status == console.StepRunning {
			return true
		}
	}
	return false
}

func (m Model) View() string {
	if len(m.steps) == 0 {
		return styles.StepPending.Render("  waiting for steps...")
	}

	var sb strings.Builder
	for i, step := range m.steps {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderStep(step))
	}
	return styles.StepPanel.Width(m.width - 2).Render(sb.String())
}

func (m Model) renderStep(step console.StepState) string {
	title := step.Key
	if step.Type != "" {
		title = fmt.Sprintf("%s (%s)", step.Key, step.Type)
	}

	var line string
	switch step.Status {
	case console.StepRunning:
		line = m.spinner.View() + " " + styles.StepRunning.Render(title)
	case console.StepSucceeded:
		line = styles.StepSucceeded.Render("✓ " + title)
	case console.StepFailed:
		line = styles.StepFailed.Render("✗ " + title)
	case console.StepSkipped:
		line = styles.StepSkipped.Render("- " + title)
	default:
		line = styles.StepPending.Render("○ " + title)
	}

	if detail := stepDetail(step); detail != "" {
		line += "\n" + styles.StepDetail.Render(detail)
	}
	return line
}

// stepDetail picks one line of supporting text for a step.
func stepDetail(step console.StepState) string {
	switch step.Status {
	case console.StepFailed:
		return step.Error
	case console.StepSkipped:
		return step.Reason
	case console.StepSucceeded:
		if step.Summary != "" {
			return step.Summary
		}
		return dataHighlight(step.Data)
	default:
		return ""
	}
}

// dataHighlight extracts something displayable from the opaque step
// payload without committing to a schema.
func dataHighlight(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if count := gjson.GetBytes(data, "count"); count.Exists() {
		return fmt.Sprintf("%d items", count.Int())
	}
	if top := gjson.GetBytes(data, "top"); top.Exists() {
		return "top: " + top.String()
	}
	parsed := gjson.ParseBytes(data)
	if parsed.IsObject() {
		var first string
		parsed.ForEach(func(key, value gjson.Result) bool {
			first = key.String() + ": " + value.String()
			return false
		})
		return first
	}
	return ""
}
