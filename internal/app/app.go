package app

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"kbconsole/internal/components/steps"
	"kbconsole/internal/messages"
	"kbconsole/sdk/console"
)

// State represents the application state
type State int

const (
	StateLoading State = iota
	StateRunning
	StateDone
	StateError
)

// SharedState holds state that needs to be shared between model copies
type SharedState struct {
	mu      sync.Mutex
	program *tea.Program
}

func (s *SharedState) SetProgram(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

func (s *SharedState) GetProgram() *tea.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program
}

// Model is the main application model
type Model struct {
	client       *console.Client
	runner       *console.Runner
	shared       *SharedState
	experienceID string
	experience   *console.Experience
	params       map[string]any

	steps    steps.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
	snapshot console.Snapshot

	state  State
	err    error
	width  int
	height int
	ready  bool
}

// New creates a new application model
func New(client *console.Client, experienceID string, params map[string]any) Model {
	return Model{
		client:       client,
		shared:       &SharedState{},
		experienceID: experienceID,
		params:       params,
		steps:        steps.New(80),
		viewport:     viewport.New(80, 20),
		state:        StateLoading,
	}
}

// SetProgram sets the tea.Program reference for stream callbacks
func (m *Model) SetProgram(p *tea.Program) {
	m.shared.SetProgram(p)
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.steps.Init(),
		m.fetchExperience(),
	)
}

// fetchExperience loads the experience definition so the step list can
// be shown before the first server event arrives.
func (m Model) fetchExperience() tea.Cmd {
	client := m.client
	id := m.experienceID
	return func() tea.Msg {
		exp, err := client.GetExperience(context.Background(), id)
		if err != nil {
			return messages.ErrorMsg{Err: err}
		}
		return messages.ExperienceMsg{Experience: exp}
	}
}

// startRun wires a runner to the program and launches the experience.
func (m *Model) startRun() tea.Cmd {
	shared := m.shared
	m.runner = console.NewRunner(m.client,
		console.WithExpectedSteps(m.experience.Steps),
		console.WithNotify(func(snap console.Snapshot) {
			if p := shared.GetProgram(); p != nil {
				p.Send(messages.SnapshotMsg{Snapshot: snap})
			}
		}),
	)
	runner := m.runner
	id := m.experienceID
	params := m.params
	return func() tea.Msg {
		runner.Start(context.Background(), id, params)
		return messages.RunStartedMsg{}
	}
}
