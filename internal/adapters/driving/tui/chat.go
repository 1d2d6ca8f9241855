// Package tui provides an interactive chat terminal UI for Coursechat.
// It drives the assistant port: each submitted question runs the full
// retrieval loop and the answer is appended to the transcript with its
// source citations.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driving"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question string
	answer   string
	sources  []domain.SourceRef
	failed   bool
}

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	question string
	answer   string
	sources  []domain.SourceRef
	err      error
}

// Model is the Bubble Tea model for the chat UI.
type Model struct {
	assistant driving.AssistantService
	sessionID string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []exchange
	courses    []string
	waiting    bool
	ready      bool
}

// New creates a new chat model. courses is shown as a hint of what can
// be asked about.
func New(assistant driving.AssistantService, courses []string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your courses and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		assistant: assistant,
		sessionID: uuid.NewString(),
		input:     ti,
		viewport:  viewport.New(0, 0),
		spinner:   sp,
		courses:   courses,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 3 + ih // header, subtitle, status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.waiting {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.ask(q))
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}

	case answerMsg:
		m.waiting = false
		ex := exchange{
			question: msg.question,
			answer:   msg.answer,
			sources:  msg.sources,
			failed:   msg.err != nil,
		}
		if msg.err != nil && ex.answer == "" {
			ex.answer = msg.err.Error()
		}
		m.transcript = append(m.transcript, ex)
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := titleStyle.Render("Coursechat")
	subtitle := subtitleStyle.Render(fmt.Sprintf("%d courses indexed", len(m.courses)))
	input := inputBoxStyle.Render(m.input.View())

	status := subtitleStyle.Render("Enter to ask, Ctrl+C to quit")
	if m.waiting {
		status = m.spinner.View() + " Thinking..."
	}

	return header + "\n" + subtitle + "\n" + m.viewport.View() + "\n" + input + "\n" + status
}

// ask runs one assistant request off the update loop.
func (m Model) ask(question string) tea.Cmd {
	assistant := m.assistant
	sessionID := m.sessionID
	return func() tea.Msg {
		answer, sources, err := assistant.Answer(context.Background(), question, sessionID)
		return answerMsg{question: question, answer: answer, sources: sources, err: err}
	}
}

// refreshTranscript re-renders the conversation into the viewport.
func (m *Model) refreshTranscript() {
	if len(m.transcript) == 0 {
		m.viewport.SetContent(m.welcome())
		return
	}

	var b strings.Builder
	for i, ex := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n\n")
		if ex.failed {
			b.WriteString(errorStyle.Render(ex.answer))
		} else {
			b.WriteString(ex.answer)
		}
		if len(ex.sources) > 0 {
			b.WriteString("\n")
			for _, src := range ex.sources {
				line := "  " + src.Label
				if src.Link != "" {
					line += " (" + src.Link + ")"
				}
				b.WriteString("\n" + sourceStyle.Render(line))
			}
		}
	}
	m.viewport.SetContent(b.String())
}

// welcome lists the indexed courses before the first question.
func (m Model) welcome() string {
	if len(m.courses) == 0 {
		return "No courses indexed yet. Run 'coursechat ingest' first."
	}

	var b strings.Builder
	b.WriteString("Ask about any of these courses:\n")
	for _, title := range m.courses {
		b.WriteString("\n  - " + title)
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
