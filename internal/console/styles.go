package console

import "github.com/charmbracelet/lipgloss"

var (
	Primary = lipgloss.Color("#2563EB") // Header blue
	Accent  = lipgloss.Color("#F59E0B") // Selection
	Success = lipgloss.Color("#10B981")
	Error   = lipgloss.Color("#EF4444")
	Muted   = lipgloss.Color("#6B7280")
	Text    = lipgloss.Color("#F3F4F6")
	BgDark  = lipgloss.Color("#111827")

	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Padding(0, 2).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(14)

	InputStyle = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.NormalBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(Text).
				Border(lipgloss.NormalBorder()).
				BorderForeground(Accent).
				Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(Text)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
