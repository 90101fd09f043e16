package console

import (
	"context"
	"errors"
	"strings"

	"employee_system/internal/client"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errMissingCredentials = errors.New("username and password are required")

// sessionMsg is the outcome of a restore, login or register
type sessionMsg struct {
	user *client.User
	err  error
}

// AuthModel is the login/register screen
type AuthModel struct {
	username    textField
	password    textField
	focused     int
	registering bool
	loading     bool
	err         error
}

func NewAuthModel() *AuthModel {
	return &AuthModel{
		username: textField{label: "Username:"},
		password: textField{label: "Password:", masked: true},
	}
}

func restoreCmd(s *client.Session) tea.Cmd {
	return func() tea.Msg {
		u, err := s.Restore(context.Background())
		return sessionMsg{user: u, err: err}
	}
}

func loginCmd(s *client.Session, username, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := s.Login(context.Background(), username, password)
		return sessionMsg{user: u, err: err}
	}
}

func registerCmd(s *client.Session, username, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := s.Register(context.Background(), username, password)
		return sessionMsg{user: u, err: err}
	}
}

// reset clears the form after logout
func (m *AuthModel) reset() {
	m.password.value = ""
	m.focused = 0
	m.loading = false
}

func (m *AuthModel) Update(msg tea.Msg, session *client.Session) tea.Cmd {
	switch msg := msg.(type) {
	case sessionMsg:
		m.loading = false
		m.err = nil
		if msg.err != nil && !errors.Is(msg.err, client.ErrNotAuthenticated) { // No saved token is not an error
			m.err = msg.err
		}
		return nil

	case tea.KeyMsg:
		if m.loading {
			return nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focused = (m.focused + 1) % 2
			return nil
		case "ctrl+s":
			m.registering = !m.registering // Toggle login and register
			m.err = nil
			return nil
		case "enter":
			if strings.TrimSpace(m.username.value) == "" || m.password.value == "" {
				m.err = errMissingCredentials // Checked before any request
				return nil
			}
			m.loading = true
			m.err = nil
			if m.registering {
				return registerCmd(session, m.username.value, m.password.value)
			}
			return loginCmd(session, m.username.value, m.password.value)
		}
		if m.focused == 0 {
			m.username.handleKey(msg)
		} else {
			m.password.handleKey(msg)
		}
	}
	return nil
}

func (m *AuthModel) View() string {
	var b strings.Builder

	title := "LOGIN"
	toggle := "ctrl+s register instead"
	action := "Logging in..."
	if m.registering {
		title = "REGISTER"
		toggle = "ctrl+s login instead"
		action = "Registering..."
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	for i, f := range []textField{m.username, m.password} {
		style := InputStyle
		if i == m.focused {
			style = FocusedInputStyle
		}
		row := lipgloss.JoinHorizontal(lipgloss.Center, LabelStyle.Render(f.label), style.Width(40).Render(f.display()))
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(InfoStyle.Render(action))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(ErrorStyle.Render(errorText(m.err)))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render("tab switch  •  enter submit  •  " + toggle + "  •  esc quit"))

	return BoxStyle.Width(70).Render(b.String())
}

// errorText renders API errors by their server message only
func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
