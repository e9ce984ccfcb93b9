package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

var (
	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// selectModel renders a list of choices moved through with the arrow keys.
type selectModel struct {
	message  string
	choices  []entities.Choice
	cursor   int
	chosen   bool
	canceled bool
}

func newSelectModel(message string, choices []entities.Choice, defaultValue string) *selectModel {
	m := &selectModel{message: message, choices: choices}
	for i, choice := range choices {
		if choice.Value == defaultValue {
			m.cursor = i
		}
	}
	return m
}

func (m *selectModel) Init() tea.Cmd { return nil }

func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.canceled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *selectModel) View() string {
	if m.chosen {
		return fmt.Sprintf("%s %s\n", questionStyle.Render("? "+m.message), m.choices[m.cursor].Label)
	}

	var builder strings.Builder
	builder.WriteString(questionStyle.Render("? "+m.message) + "\n")
	for i, choice := range m.choices {
		if i == m.cursor {
			builder.WriteString(cursorStyle.Render("> "+choice.Label) + "\n")
			continue
		}
		builder.WriteString("  " + choice.Label + "\n")
	}
	builder.WriteString(hintStyle.Render("(arrows to move, enter to choose)") + "\n")
	return builder.String()
}

func (m *selectModel) value() string {
	return m.choices[m.cursor].Value
}

// confirmModel asks a yes/no question.
type confirmModel struct {
	message  string
	answer   bool
	answered bool
	canceled bool
}

func newConfirmModel(message string, defaultValue bool) *confirmModel {
	return &confirmModel{message: message, answer: defaultValue}
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "ctrl+c", "esc":
		m.canceled = true
		return m, tea.Quit
	case "y":
		m.answer = true
		m.answered = true
		return m, tea.Quit
	case "n":
		m.answer = false
		m.answered = true
		return m, tea.Quit
	case "enter":
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *confirmModel) View() string {
	hint := "(y/N)"
	if m.answer {
		hint = "(Y/n)"
	}
	if m.answered {
		answer := "No"
		if m.answer {
			answer = "Yes"
		}
		return fmt.Sprintf("%s %s\n", questionStyle.Render("? "+m.message), answer)
	}
	return fmt.Sprintf("%s %s ", questionStyle.Render("? "+m.message), hintStyle.Render(hint))
}

// inputModel reads one line of text, optionally masked.
type inputModel struct {
	message   string
	input     textinput.Model
	submitted bool
	canceled  bool
}

func newInputModel(message string, masked bool) *inputModel {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Focus()
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return &inputModel{message: message, input: ti}
}

func (m *inputModel) Init() tea.Cmd { return textinput.Blink }

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	if m.submitted {
		return questionStyle.Render("? "+m.message) + "\n"
	}
	return fmt.Sprintf("%s %s\n", questionStyle.Render("? "+m.message), m.input.View())
}

func (m *inputModel) value() string {
	return strings.TrimSpace(m.input.Value())
}
