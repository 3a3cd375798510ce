package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// callTimeout covers a full pipeline round trip, generation included.
const callTimeout = 45 * time.Second

func callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), callTimeout)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// oneLine flattens s and cuts it to width runes for table cells.
func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")

	r := []rune(s)
	if len(r) <= width {
		return s
	}

	if width <= 1 {
		return string(r[:width])
	}

	return string(r[:width-1]) + "…"
}
