package view

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/finnychat/internal/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/memory"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views and tracks the terminal size.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) resize(msg tea.WindowSizeMsg) {
	c.Width = msg.Width
	c.Height = msg.Height
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// Chat is the pipeline the screens talk to.
type Chat interface {
	Handle(ctx context.Context, userID int64, text string) agent.Response
	History(ctx context.Context, userID int64, n int) ([]memory.Interaction, error)
	Reset(ctx context.Context, userID int64) error
}
