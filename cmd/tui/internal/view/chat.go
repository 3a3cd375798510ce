package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finnychat/internal/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/memory"
)

// ShowHistoryMsg asks the root model to open the history table.
type ShowHistoryMsg struct {
	UserID int64
}

type replyMsg struct {
	resp agent.Response
}

type chatHistoryMsg struct {
	items []memory.Interaction
	err   error
}

type resetMsg struct {
	err error
}

type ChatModel struct {
	CommonModel
	chat   Chat
	userID int64

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	lines   []string
	waiting bool
}

func NewChatModel(chat Chat, userID int64) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "add groceries $45 today"
	ti.Prompt = "> "
	ti.CharLimit = 1000
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ChatModel{
		chat:     chat,
		userID:   userID,
		viewport: viewport.New(80, 20),
		input:    ti,
		spinner:  s,
	}
}

func (m ChatModel) Title() string { return fmt.Sprintf("Ledger #%d", m.userID) }

func (m ChatModel) ShortHelp() string {
	return "Enter: send | ctrl+r: reset memory | ctrl+o: history | Esc: switch ledger"
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadHistoryCmd())
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = max(msg.Height-8, 3)
		m.input.Width = max(msg.Width-6, 10)
		m.refresh()

		return m, nil

	case chatHistoryMsg:
		if msg.err != nil {
			m.note(errorStyle.Render(fmt.Sprintf("Could not load history: %v", msg.err)))
			return m, nil
		}

		var earlier []string
		for _, it := range msg.items {
			earlier = append(earlier, userStyle.Render("> "+it.UserText), it.Reply, "")
		}

		m.lines = append(earlier, m.lines...)
		m.refresh()

		return m, nil

	case replyMsg:
		m.waiting = false

		text := msg.resp.Reply
		if !msg.resp.Success {
			text = errorStyle.Render(text)
		}

		m.note(text)

		return m, nil

	case resetMsg:
		if msg.err != nil {
			m.note(errorStyle.Render(fmt.Sprintf("Reset failed: %v", msg.err)))
			return m, nil
		}

		m.lines = nil
		m.note(noteStyle.Render("Conversation memory cleared."))

		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "ctrl+r":
			return m, m.resetCmd()
		case "ctrl+o":
			userID := m.userID
			return m, func() tea.Msg { return ShowHistoryMsg{UserID: userID} }
		case "enter":
			return m.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)

			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ChatModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}

	m.input.Reset()
	m.waiting = true
	m.lines = append(m.lines, userStyle.Render("> "+text))
	m.refresh()

	return m, tea.Batch(m.spinner.Tick, m.sendCmd(text))
}

// note appends a block to the transcript followed by a blank separator.
func (m *ChatModel) note(text string) {
	m.lines = append(m.lines, text, "")
	m.refresh()
}

func (m *ChatModel) refresh() {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	m.viewport.SetContent(lipgloss.NewStyle().Width(width).Render(strings.Join(m.lines, "\n")))
	m.viewport.GotoBottom()
}

func (m ChatModel) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()

		return replyMsg{resp: m.chat.Handle(ctx, m.userID, text)}
	}
}

func (m ChatModel) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()

		items, err := m.chat.History(ctx, m.userID, memory.DefaultRecent)

		return chatHistoryMsg{items: items, err: err}
	}
}

func (m ChatModel) resetCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()

		return resetMsg{err: m.chat.Reset(ctx, m.userID)}
	}
}

func (m ChatModel) View() string {
	status := m.input.View()
	if m.waiting {
		status = fmt.Sprintf("%s Thinking...", m.spinner.View())
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.Title()),
		m.viewport.View(),
		status,
		helpStyle.Render(m.ShortHelp()),
	))
}
