package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a minimal yes/no prompt. Anything other than an explicit
// "y" counts as a refusal.
type ConfirmModel struct {
	prompt   string
	answer   bool
	answered bool
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y":
			m.answer = true
			m.answered = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "enter", "ctrl+c":
			m.answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}
	return RenderWarning(m.prompt) + MutedStyle.Render(" [y/N] ")
}

// Confirm asks the user whether to clear the given path. It is the default
// implementation of the cleaner's confirmation capability.
func Confirm(path string) bool {
	model := ConfirmModel{
		prompt: fmt.Sprintf("Delete junk files and empty directories under %s?", path),
	}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return false
	}
	if m, ok := final.(ConfirmModel); ok {
		return m.answer
	}
	return false
}
