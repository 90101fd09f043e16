package console

import (
	tea "github.com/charmbracelet/bubbletea"
)

// textField is a single line input
type textField struct {
	label  string
	value  string
	masked bool
}

// handleKey applies an editing key and reports whether the value changed
func (f *textField) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		f.value += string(msg.Runes)
		return true
	case tea.KeySpace:
		f.value += " "
		return true
	case tea.KeyBackspace:
		if f.value == "" {
			return false
		}
		r := []rune(f.value)
		f.value = string(r[:len(r)-1])
		return true
	}
	return false
}

func (f textField) display() string {
	if f.masked {
		return maskRunes(f.value)
	}
	return f.value
}

func maskRunes(s string) string {
	out := make([]rune, 0, len(s))
	for range s {
		out = append(out, '•')
	}
	return string(out)
}
