package console

import (
	"context" // Background calls
	"fmt"     // Row formatting
	"strings" // Text building

	"employee_system/internal/client" // API client

	tea "github.com/charmbracelet/bubbletea" // Terminal UI framework
	"github.com/charmbracelet/lipgloss"      // Table layout
)

// sortFields are cycled with the sort key, in this order
var sortFields = []string{"name", "email", "createdAt", "_id"}

var sortLabels = map[string]string{
	"name":      "Name",
	"email":     "Email",
	"createdAt": "Created Date",
	"_id":       "ID",
}

// employeesMsg carries the result of one numbered fetch
type employeesMsg struct {
	ticket    uint64
	employees []client.Employee
	err       error
}

type deletedMsg struct {
	id  string
	err error
}

// ListModel is the search, sort and list screen
type ListModel struct {
	search        textField
	searching     bool
	sortIdx       int
	descending    bool
	employees     []client.Employee
	cursor        int
	loading       bool
	confirmDelete bool
	notice        string
	err           error
}

func NewListModel() *ListModel {
	return &ListModel{search: textField{label: "Search:"}}
}

func (m *ListModel) params() client.SearchParams {
	order := "asc"
	if m.descending {
		order = "desc"
	}
	return client.SearchParams{
		Search:    m.search.value,
		SortBy:    sortFields[m.sortIdx],
		SortOrder: order,
	}
}

func (m *ListModel) selected() *client.Employee {
	if m.cursor < 0 || m.cursor >= len(m.employees) {
		return nil
	}
	return &m.employees[m.cursor]
}

// fetchCmd starts a numbered fetch for the current search and sort
func fetchCmd(c *client.Client, seq *client.Sequencer, params client.SearchParams) tea.Cmd {
	ticket := seq.Begin() // Taken before the request starts
	return func() tea.Msg {
		list, err := c.ListEmployees(context.Background(), params)
		return employeesMsg{ticket: ticket, employees: list, err: err}
	}
}

func deleteCmd(c *client.Client, id string) tea.Cmd {
	return func() tea.Msg {
		_, err := c.DeleteEmployee(context.Background(), id)
		return deletedMsg{id: id, err: err}
	}
}

// listAction is what the root model should do after a key in the list
type listAction int

const (
	actionNone listAction = iota
	actionRefetch
	actionCreate
	actionEdit
	actionDelete
	actionLogout
	actionQuit
)

func (m *ListModel) applyEmployees(msg employeesMsg) {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err // Keep the previous rows
		return
	}
	m.err = nil
	m.employees = msg.employees
	if m.cursor >= len(m.employees) {
		m.cursor = max(len(m.employees)-1, 0) // Clamp to the new list
	}
}

// handleKey interprets a key and returns the resulting action
func (m *ListModel) handleKey(msg tea.KeyMsg) listAction {
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			return actionNone
		}
		if m.search.handleKey(msg) {
			return actionRefetch // Every edit refetches
		}
		return actionNone
	}

	if m.confirmDelete {
		m.confirmDelete = false // One key answers the prompt
		if msg.String() == "y" && m.selected() != nil {
			return actionDelete
		}
		m.notice = ""
		return actionNone
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.employees)-1 {
			m.cursor++
		}
	case "/":
		m.searching = true
	case "s":
		m.sortIdx = (m.sortIdx + 1) % len(sortFields) // Cycle sort field
		return actionRefetch
	case "o":
		m.descending = !m.descending
		return actionRefetch
	case "r":
		return actionRefetch
	case "n":
		return actionCreate
	case "e", "enter":
		if m.selected() != nil {
			return actionEdit
		}
	case "d":
		if e := m.selected(); e != nil {
			m.confirmDelete = true
			m.notice = fmt.Sprintf("Delete %s? y to confirm", e.Name)
		}
	case "L":
		return actionLogout
	case "q":
		return actionQuit
	}
	return actionNone
}

func (m *ListModel) View() string {
	var b strings.Builder

	searchStyle := InputStyle
	if m.searching {
		searchStyle = FocusedInputStyle
	}
	order := "Ascending"
	if m.descending {
		order = "Descending"
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		LabelStyle.Render(m.search.label),
		searchStyle.Width(30).Render(m.search.value),
		"  ",
		InfoStyle.Render("sort: "+sortLabels[sortFields[m.sortIdx]]+" / "+order),
	)
	b.WriteString(controls)
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("Error fetching employee data: " + errorText(m.err)))
		b.WriteString("\n")
	case m.loading && len(m.employees) == 0:
		b.WriteString(InfoStyle.Render("Loading..."))
		b.WriteString("\n")
	case len(m.employees) == 0:
		b.WriteString(InfoStyle.Render("No employees found."))
		b.WriteString("\n")
	default:
		b.WriteString(LabelStyle.Bold(true).Render(fmt.Sprintf("%-20s %-26s %-12s %-8s %-7s %s",
			"Name", "Email", "Mobile", "Role", "Gender", "Course")))
		b.WriteString("\n")
		for i, e := range m.employees {
			line := fmt.Sprintf("%-20s %-26s %-12s %-8s %-7s %s",
				truncate(e.Name, 20), truncate(e.Email, 26), truncate(e.Mobile, 12),
				e.Designation, e.Gender, strings.Join(e.Course, ","))
			if i == m.cursor {
				b.WriteString(SelectedRowStyle.Render("> " + line))
			} else {
				b.WriteString(RowStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("/ search  •  s sort field  •  o order  •  n new  •  e edit  •  d delete  •  r refresh  •  L logout  •  q quit"))
	return BoxStyle.Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…" // Rune safe
}
