package console

import (
	"context"  // Background calls
	"net/http" // Status codes

	"employee_system/internal/client" // API client and session

	tea "github.com/charmbracelet/bubbletea" // Terminal UI framework
	"github.com/charmbracelet/lipgloss"      // Layout
)

type View int

const (
	AuthView View = iota
	ListView
	FormView
)

// SessionChangedMsg is sent by the program when the session logs in or is invalidated
type SessionChangedMsg struct {
	State client.State
}

type loggedOutMsg struct{}

// Model is the root of the console
type Model struct {
	session *client.Session
	seq     *client.Sequencer
	view    View
	auth    *AuthModel
	list    *ListModel
	form    *FormModel
	user    *client.User
	width   int
	height  int
}

// NewModel builds the console over session
func NewModel(session *client.Session) Model {
	return Model{
		session: session,
		seq:     &client.Sequencer{},
		view:    AuthView,
		auth:    NewAuthModel(),
		list:    NewListModel(),
	}
}

// Init tries to resume a persisted session
func (m Model) Init() tea.Cmd {
	m.auth.loading = true
	return restoreCmd(m.session)
}

func logoutCmd(s *client.Session) tea.Cmd {
	return func() tea.Msg {
		s.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// enterList switches to the list and starts a fetch
func (m Model) enterList() (Model, tea.Cmd) {
	m.view = ListView
	m.form = nil
	m.list.loading = true
	return m, fetchCmd(m.session.Client(), m.seq, m.list.params())
}

// signedOut returns to the login screen and drops everything fetched
func (m Model) signedOut() Model {
	m.view = AuthView
	m.user = nil
	m.form = nil
	m.list = NewListModel() // Fresh search and sort
	m.auth.reset()
	return m
}

// unauthorized reports whether err means the session is no longer valid
func unauthorized(err error) bool {
	status := client.StatusOf(err)
	return status == http.StatusUnauthorized
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SessionChangedMsg:
		if !msg.State.Authenticated && m.view != AuthView {
			return m.signedOut(), nil
		}
		return m, nil

	case loggedOutMsg:
		return m.signedOut(), nil

	case sessionMsg:
		m.auth.Update(msg, m.session)
		if msg.err != nil || msg.user == nil {
			return m, nil
		}
		m.user = msg.user
		return m.enterList()

	case employeesMsg:
		if !m.seq.IsLatest(msg.ticket) {
			return m, nil // Superseded by a newer search or sort
		}
		if unauthorized(msg.err) {
			m.session.Invalidate() // Notifies listeners too
			return m.signedOut(), nil
		}
		m.list.applyEmployees(msg)
		return m, nil

	case savedMsg:
		if m.form == nil {
			return m, nil
		}
		m.form.saving = false
		if unauthorized(msg.err) {
			m.session.Invalidate()
			return m.signedOut(), nil
		}
		if msg.err != nil {
			m.form.err = msg.err // Shown inline, form stays open
			return m, nil
		}
		if msg.created {
			m.list.notice = "Employee created successfully!"
		} else {
			m.list.notice = "Employee updated successfully!"
		}
		return m.enterList()

	case deletedMsg:
		if unauthorized(msg.err) {
			m.session.Invalidate()
			return m.signedOut(), nil
		}
		if msg.err != nil {
			m.list.notice = ""
			m.list.err = msg.err
			return m, nil
		}
		m.list.notice = "Employee deleted successfully!"
		return m.enterList()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" { // Quit from any view
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case AuthView:
		if msg.String() == "esc" {
			return m, tea.Quit
		}
		return m, m.auth.Update(msg, m.session)

	case ListView:
		switch m.list.handleKey(msg) {
		case actionRefetch:
			m.list.loading = true
			return m, fetchCmd(m.session.Client(), m.seq, m.list.params())
		case actionCreate:
			m.form = NewCreateForm()
			m.list.notice = ""
			m.view = FormView
		case actionEdit:
			m.form = NewEditForm(*m.list.selected())
			m.list.notice = ""
			m.view = FormView
		case actionDelete:
			m.list.notice = ""
			return m, deleteCmd(m.session.Client(), m.list.selected().ID)
		case actionLogout:
			return m, logoutCmd(m.session)
		case actionQuit:
			return m, tea.Quit
		}
		return m, nil

	case FormView:
		submit, cancel := m.form.handleKey(msg)
		if cancel {
			m.form = nil
			m.view = ListView
			return m, nil
		}
		if submit {
			m.form.saving = true
			m.form.err = nil
			return m, saveCmd(m.session.Client(), m.form.editingID, m.form.payload())
		}
	}
	return m, nil
}

func (m Model) View() string {
	var content string
	switch m.view {
	case AuthView:
		content = m.auth.View()
	case ListView:
		content = m.list.View()
	case FormView:
		content = m.form.View()
	}

	if m.view == AuthView {
		header := HeaderStyle.Render("Employee Management System")
		return lipgloss.JoinVertical(lipgloss.Left, header, content)
	}

	name := "User"
	if m.user != nil && m.user.Username != "" {
		name = m.user.Username
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		HeaderStyle.Render("Employee Management System"),
		InfoStyle.Render("  "+name),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}
