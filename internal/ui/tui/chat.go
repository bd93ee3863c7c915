// Package tui renders the companion chat in the terminal: a scrolling
// transcript, an input line, and a spinner with a canned loading phrase
// while the model thinks.
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

	"github.com/pocketkitti/companion/internal/analyzer"
	"github.com/pocketkitti/companion/internal/prompts"
	"github.com/pocketkitti/companion/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#F25D94")).
			Padding(0, 1)

	petStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	sosStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#FF0000")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// sosBanner shows when crisis language is detected in the conversation.
const sosBanner = "SOS — You matter. If you're in crisis, call or text 988 (Suicide & Crisis Lifeline)."

type replyMsg struct {
	text string
	err  error
}

type closedMsg struct {
	mood *analyzer.Mood
	err  error
}

type crisisMsg struct{}

type Model struct {
	PetName string

	session  *session.Session
	events   chan session.Event
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	lines    []string
	thinking bool
	closing  bool
	loading  string
	sos      bool
	mood     *analyzer.Mood
	err      error

	width  int
	height int
	ready  bool
}

func NewModel(petName string, sess *session.Session) Model {
	ti := textinput.New()
	ti.Placeholder = prompts.Random(prompts.EmptyChatPrompts)
	ti.Focus()
	ti.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = petStyle

	events := make(chan session.Event, 16)
	sess.Bus().Subscribe(session.EventCrisisDetected, func(e session.Event) {
		select {
		case events <- e:
		default:
		}
	})

	return Model{
		PetName: petName,
		session: sess,
		events:  events,
		input:   ti,
		spin:    sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		<-m.events
		return crisisMsg{}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.session.Send(context.Background(), text)
		return replyMsg{text: reply, err: err}
	}
}

func (m Model) closeCmd() tea.Cmd {
	return func() tea.Msg {
		mood, err := m.session.Close(context.Background())
		return closedMsg{mood: mood, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if !m.closing {
				m.closing = true
				m.thinking = true
				m.loading = prompts.Random(prompts.LoadingMessages)
				return m, tea.Batch(m.closeCmd(), m.spin.Tick)
			}
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.thinking {
				break
			}
			m.input.Reset()
			m.appendLine(userStyle.Render("You: ") + text)
			m.thinking = true
			m.loading = prompts.Random(prompts.LoadingMessages)
			return m, tea.Batch(m.sendCmd(text), m.spin.Tick)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(strings.Join(m.lines, "\n"))

	case replyMsg:
		m.thinking = false
		if msg.err != nil {
			m.appendLine(hintStyle.Render(prompts.Random(prompts.ErrorMessages)))
		} else if msg.text != "" {
			m.appendLine(petStyle.Render(m.PetName+": ") + msg.text)
		}

	case closedMsg:
		m.thinking = false
		m.mood = msg.mood
		m.err = msg.err
		return m, tea.Quit

	case crisisMsg:
		m.sos = true
		cmds = append(cmds, m.waitForEvent())

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.ready {
		return "warming up..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ฅ^•ﻌ•^ฅ "+m.PetName) + "\n")
	if m.sos {
		b.WriteString(sosStyle.Render(sosBanner) + "\n")
	}
	b.WriteString(m.viewport.View() + "\n")

	if m.thinking {
		b.WriteString(m.spin.View() + " " + hintStyle.Render(m.loading) + "\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(hintStyle.Render("enter to send · esc to end the session"))
	return b.String()
}

// Mood returns the analysis result once the session has closed.
func (m Model) Mood() *analyzer.Mood {
	return m.mood
}

// Err returns the save pipeline error, if any, after close.
func (m Model) Err() error {
	return m.err
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if m.ready {
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()
	}
}

// Summary renders the post-session mood card printed after the TUI exits.
func Summary(mood *analyzer.Mood) string {
	if mood == nil {
		return hintStyle.Render("Too short to analyze. Come back and chat some more! 🐾")
	}
	return fmt.Sprintf("%s\n%s\n",
		titleStyle.Render(fmt.Sprintf("%s · %d/100", mood.Label, mood.Score)),
		mood.Summary)
}
