package console

import (
	"context"
	"strings"

	"employee_system/internal/client"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldEmail
	fieldMobile
	fieldDesignation
	fieldGender
	fieldCourse
	fieldImage
	fieldCount
)

// savedMsg is the outcome of a create or update
type savedMsg struct {
	employee *client.Employee
	created  bool
	err      error
}

// FormModel creates or edits one employee
type FormModel struct {
	editingID string
	fields    [fieldCount]textField
	focused   int
	saving    bool
	err       error
}

func newFormFields() [fieldCount]textField {
	return [fieldCount]textField{
		fieldName:        {label: "Name:"},
		fieldEmail:       {label: "Email:"},
		fieldMobile:      {label: "Mobile:"},
		fieldDesignation: {label: "Designation:"},
		fieldGender:      {label: "Gender:"},
		fieldCourse:      {label: "Course:"},
		fieldImage:       {label: "Image file:"},
	}
}

// NewCreateForm returns an empty form for a new employee
func NewCreateForm() *FormModel {
	return &FormModel{fields: newFormFields()}
}

// NewEditForm returns a form prefilled from e. The image field stays empty,
// which keeps the current image.
func NewEditForm(e client.Employee) *FormModel {
	f := &FormModel{editingID: e.ID, fields: newFormFields()}
	f.fields[fieldName].value = e.Name
	f.fields[fieldEmail].value = e.Email
	f.fields[fieldMobile].value = e.Mobile
	f.fields[fieldDesignation].value = e.Designation
	f.fields[fieldGender].value = e.Gender
	f.fields[fieldCourse].value = strings.Join(e.Course, ", ")
	return f
}

func (f *FormModel) editing() bool { return f.editingID != "" }

// payload converts the fields into the API form
func (f *FormModel) payload() client.EmployeeForm {
	var courses []string
	for _, c := range strings.Split(f.fields[fieldCourse].value, ",") {
		if c = strings.TrimSpace(c); c != "" {
			courses = append(courses, c)
		}
	}
	return client.EmployeeForm{
		Name:        strings.TrimSpace(f.fields[fieldName].value),
		Email:       strings.TrimSpace(f.fields[fieldEmail].value),
		Mobile:      strings.TrimSpace(f.fields[fieldMobile].value),
		Designation: strings.TrimSpace(f.fields[fieldDesignation].value),
		Gender:      strings.TrimSpace(f.fields[fieldGender].value),
		Course:      courses,
		ImagePath:   strings.TrimSpace(f.fields[fieldImage].value),
	}
}

func saveCmd(c *client.Client, id string, form client.EmployeeForm) tea.Cmd {
	return func() tea.Msg {
		if id == "" {
			e, err := c.CreateEmployee(context.Background(), form)
			return savedMsg{employee: e, created: true, err: err}
		}
		e, err := c.UpdateEmployee(context.Background(), id, form)
		return savedMsg{employee: e, err: err}
	}
}

// handleKey edits the form. submit is true when the user asked to save,
// cancel when the form should close.
func (f *FormModel) handleKey(msg tea.KeyMsg) (submit, cancel bool) {
	if f.saving {
		return false, false // Ignore keys while a save is in flight
	}
	switch msg.String() {
	case "esc":
		return false, true
	case "ctrl+s":
		return true, false
	case "tab", "down":
		f.focused = (f.focused + 1) % fieldCount
		return false, false
	case "shift+tab", "up":
		f.focused = (f.focused + fieldCount - 1) % fieldCount
		return false, false
	case "enter":
		if f.focused == fieldCount-1 {
			return true, false // Enter on the last field saves
		}
		f.focused++
		return false, false
	}
	f.fields[f.focused].handleKey(msg) // Text input
	return false, false
}

func (f *FormModel) View() string {
	var b strings.Builder

	title := "ADD NEW EMPLOYEE"
	if f.editing() {
		title = "UPDATE EMPLOYEE"
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		style := InputStyle
		if i == f.focused {
			style = FocusedInputStyle
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, LabelStyle.Render(field.label), style.Width(44).Render(field.display())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Designation: HR, Manager or Sales  •  Course: MCA, BCA, BSC separated by commas"))
	b.WriteString("\n")
	if f.saving {
		b.WriteString(InfoStyle.Render("Saving..."))
		b.WriteString("\n")
	}
	if f.err != nil {
		b.WriteString(ErrorStyle.Render(errorText(f.err)))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render("tab/↑/↓ move  •  ctrl+s save  •  esc cancel"))
	return BoxStyle.Width(76).Render(b.String())
}
