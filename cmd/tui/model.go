// Package tui provides an interactive terminal chat client for supabuilder-api.
package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Laisky/supabuilder-api/internal/web/builder/dto"
)

const requestTimeout = 30 * time.Second

// transcriptLine is one rendered turn of the conversation.
type transcriptLine struct {
	role     string
	text     string
	category string
	location string
}

// replyMsg carries a successful chat response back into the update loop.
type replyMsg dto.ChatResponse

// replyErrMsg carries a failed request back into the update loop.
type replyErrMsg struct {
	err error
}

// Model is the chat client model following the Bubble Tea architecture
type Model struct {
	// Server base URL, like http://localhost:8080
	serverURL string

	// Conversation identity, assigned by the server on the first turn
	sessionID string

	// Rendered conversation so far
	lines []transcriptLine

	// Message input field
	input textinput.Model

	// Spinner for the in-flight turn
	spinner spinner.Model

	// One outstanding turn at a time; input is ignored while waiting
	waiting bool

	// Window dimensions
	width  int
	height int

	quitting bool
}

// keyMap defines the key bindings for the TUI
type keyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

// NewModel creates a chat client talking to the given server.
func NewModel(serverURL string) Model {
	input := textinput.New()
	input.Placeholder = "describe the app you want to build"
	input.Focus()
	input.CharLimit = 2048
	input.Width = 60
	input.Prompt = "> "
	input.PromptStyle = GetInputLabelStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = GetProgressStyle()

	return Model{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		input:     input,
		spinner:   sp,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if m.waiting {
				return m, nil
			}

			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}

			m.lines = append(m.lines, transcriptLine{role: "you", text: text})
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, sendChat(m.serverURL, m.sessionID, text))
		}

	case spinner.TickMsg:
		if m.waiting {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case replyMsg:
		m.waiting = false
		m.sessionID = msg.SessionID
		line := transcriptLine{role: "builder", text: msg.Narrative}
		if msg.Action != nil {
			line.category = string(msg.Action.Category)
		}
		line.location = msg.EditorLocation
		m.lines = append(m.lines, line)
		return m, nil

	case replyErrMsg:
		m.waiting = false
		m.lines = append(m.lines, transcriptLine{
			role: "error",
			text: msg.err.Error(),
		})
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// sendChat posts one turn to the server off the update loop.
func sendChat(serverURL, sessionID, text string) tea.Cmd {
	return func() tea.Msg {
		body, err := json.Marshal(dto.ChatRequest{
			Message:   text,
			SessionID: sessionID,
		})
		if err != nil {
			return replyErrMsg{err: err}
		}

		client := &http.Client{Timeout: requestTimeout}
		resp, err := client.Post(
			serverURL+"/api/chat", "application/json", bytes.NewReader(body))
		if err != nil {
			return replyErrMsg{err: err}
		}
		defer resp.Body.Close() // nolint: errcheck

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return replyErrMsg{err: err}
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr dto.ErrorResponse
			if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
				return replyErrMsg{err: fmt.Errorf("%s", apiErr.Error)}
			}

			return replyErrMsg{err: fmt.Errorf("server returned %s", resp.Status)}
		}

		var reply dto.ChatResponse
		if err := json.Unmarshal(raw, &reply); err != nil {
			return replyErrMsg{err: err}
		}

		return replyMsg(reply)
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return GetSubtitleStyle().Render("Goodbye! 👋\n")
	}

	var sb strings.Builder
	sb.WriteString(GetHeaderStyle().Render("Supabuilder Chat") + "\n\n")
	sb.WriteString(m.renderTranscript())

	if m.waiting {
		sb.WriteString(m.spinner.View() + " thinking...\n")
	} else {
		sb.WriteString(m.input.View() + "\n")
	}

	sb.WriteString(GetHelpStyle().Render("enter send • esc quit"))

	return GetBoxStyle().Render(sb.String())
}

// renderTranscript renders the conversation so far
func (m Model) renderTranscript() string {
	if len(m.lines) == 0 {
		return GetSubtitleStyle().Render("Say something to get started.") + "\n\n"
	}

	var sb strings.Builder
	for _, line := range m.lines {
		var style lipgloss.Style
		switch line.role {
		case "you":
			style = GetUserStyle()
		case "error":
			style = GetErrorStyle()
		default:
			style = GetAssistantStyle()
		}

		sb.WriteString(style.Render(line.role+":") + " " + line.text + "\n")
		if line.category != "" && line.category != "none" {
			action := "→ " + line.category
			if line.location != "" {
				action += " (" + line.location + ")"
			}
			sb.WriteString(GetActionStyle().Render(action) + "\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}
