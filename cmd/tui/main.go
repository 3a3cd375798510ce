package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finnychat/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finnychat/internal/app"
	"github.com/MrJamesThe3rd/finnychat/internal/config"
)

type View int

const (
	ViewLogin   View = 0
	ViewChat    View = 1
	ViewHistory View = 2
)

type model struct {
	chat view.Chat
	seed func(ctx context.Context, ownerID int64) error

	currentView View
	size        tea.WindowSizeMsg

	loginView   view.LoginModel
	chatView    view.ChatModel
	historyView view.HistoryModel
}

func newModel(chat view.Chat, seed func(ctx context.Context, ownerID int64) error) model {
	return model{
		chat:        chat,
		seed:        seed,
		currentView: ViewLogin,
		loginView:   view.NewLoginModel(seed),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

// sized replays the last window size so a freshly built view lays itself out.
func (m model) sized(v tea.Model) (tea.Model, tea.Cmd) {
	if m.size.Width == 0 {
		return v, nil
	}

	return v.Update(m.size)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.size = msg
	case view.LoggedInMsg:
		v, cmd := m.sized(view.NewChatModel(m.chat, msg.UserID))
		m.chatView = v.(view.ChatModel)
		m.currentView = ViewChat

		return m, tea.Batch(cmd, m.chatView.Init())
	case view.ShowHistoryMsg:
		v, cmd := m.sized(view.NewHistoryModel(m.chat, msg.UserID))
		m.historyView = v.(view.HistoryModel)
		m.currentView = ViewHistory

		return m, tea.Batch(cmd, m.historyView.Init())
	case view.BackMsg:
		switch m.currentView {
		case ViewHistory:
			m.currentView = ViewChat
			return m, nil
		case ViewChat:
			v, cmd := m.sized(view.NewLoginModel(m.seed))
			m.loginView = v.(view.LoginModel)
			m.currentView = ViewLogin

			return m, tea.Batch(cmd, m.loginView.Init())
		}

		return m, nil
	}

	var (
		newModel tea.Model
		cmd      tea.Cmd
	)

	switch m.currentView {
	case ViewLogin:
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewChat:
		newModel, cmd = m.chatView.Update(msg)
		m.chatView = newModel.(view.ChatModel)
	case ViewHistory:
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewChat:
		return m.chatView.View()
	case ViewHistory:
		return m.historyView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file instead of stderr.
	logFile, err := tea.LogToFile("finny-tui.log", "finny")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewTextHandler(logFile, nil))

	a, err := app.New(context.Background(), cfg, app.WithLogger(logger))
	if err != nil {
		slog.Error("failed to build agent", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(newModel(a.Agent, a.Seed), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
