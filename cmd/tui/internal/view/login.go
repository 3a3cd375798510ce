package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// LoggedInMsg is sent once the user picked a ledger and seeding, if asked for, is done.
type LoggedInMsg struct {
	UserID int64
}

type loginFailedMsg struct {
	err error
}

type LoginModel struct {
	CommonModel
	seed func(ctx context.Context, ownerID int64) error

	form      *huh.Form
	submitted bool
	err       error
}

func NewLoginModel(seed func(ctx context.Context, ownerID int64) error) LoginModel {
	return LoginModel{seed: seed, form: buildLoginForm()}
}

func buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("user").
				Title("Ledger user id").
				Placeholder("1").
				Validate(func(s string) error {
					_, err := parseUserID(s)
					return err
				}),
			huh.NewConfirm().
				Key("seed").
				Title("Create the default categories?").
				Affirmative("Yes").
				Negative("No"),
		),
	).WithWidth(50).WithShowHelp(false)
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("enter a positive number")
	}

	return id, nil
}

func (m LoginModel) Title() string { return "Finny Chat" }

func (m LoginModel) ShortHelp() string { return "Enter: next | ctrl+c: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
	case loginFailedMsg:
		m.err = msg.err
		m.form = buildLoginForm()
		m.submitted = false

		return m, m.form.Init()
	}

	if m.submitted {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	userID, err := parseUserID(m.form.GetString("user"))
	if err != nil {
		return m, func() tea.Msg { return loginFailedMsg{err: err} }
	}

	m.submitted = true

	return m, m.loginCmd(userID, m.form.GetBool("seed"))
}

func (m LoginModel) loginCmd(userID int64, seed bool) tea.Cmd {
	return func() tea.Msg {
		if seed && m.seed != nil {
			ctx, cancel := callCtx()
			defer cancel()

			if err := m.seed(ctx, userID); err != nil {
				return loginFailedMsg{err: fmt.Errorf("seeding categories: %w", err)}
			}
		}

		return LoggedInMsg{UserID: userID}
	}
}

func (m LoginModel) View() string {
	body := []string{titleStyle.Render(m.Title()), "", m.form.View()}
	if m.err != nil {
		body = append(body, "", errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	body = append(body, "", helpStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}
