package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finnychat/internal/memory"
)

// historyDepth is how far back the table looks.
const historyDepth = 50

type historyLoadedMsg struct {
	items []memory.Interaction
	err   error
}

type HistoryModel struct {
	CommonModel
	chat   Chat
	userID int64

	table   table.Model
	items   []memory.Interaction
	loading bool
	err     error
}

func NewHistoryModel(chat Chat, userID int64) HistoryModel {
	columns := []table.Column{
		{Title: "Time", Width: 16},
		{Title: "Command", Width: 36},
		{Title: "Reply", Width: 50},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return HistoryModel{chat: chat, userID: userID, table: t, loading: true}
}

func (m HistoryModel) Title() string { return "History" }

func (m HistoryModel) ShortHelp() string { return "↑/↓: scroll | r: refresh | Esc: back" }

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.items = msg.items
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-8, 3))

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *HistoryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))

	// Newest first reads better in a table.
	for i := len(m.items) - 1; i >= 0; i-- {
		it := m.items[i]
		rows = append(rows, table.Row{
			it.Timestamp.Local().Format("2006-01-02 15:04"),
			oneLine(it.UserText, 36),
			oneLine(it.Reply, 50),
		})
	}

	m.table.SetRows(rows)
}

func (m HistoryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()

		items, err := m.chat.History(ctx, m.userID, historyDepth)

		return historyLoadedMsg{items: items, err: err}
	}
}

func (m HistoryModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case m.loading:
		return style.Render("Loading history...")
	case m.err != nil:
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + helpStyle.Render("(Esc to back)"))
	case len(m.items) == 0:
		return style.Render("No interactions yet.\n\n" + helpStyle.Render("(Esc to back)"))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.Title()),
		m.table.View(),
		helpStyle.Render(m.ShortHelp()),
	))
}
