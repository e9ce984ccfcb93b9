package prompt

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// ErrPromptCanceled is returned when the operator aborts a question.
var ErrPromptCanceled = errors.New("prompt canceled by operator")

// TerminalPromptRepository asks questions on the terminal through bubbletea.
type TerminalPromptRepository struct {
	options []tea.ProgramOption
}

// NewTerminalPromptRepository creates a prompt bound to the process terminal.
func NewTerminalPromptRepository() repositories.PromptRepository {
	return &TerminalPromptRepository{}
}

func (it *TerminalPromptRepository) Select(
	message string,
	choices []entities.Choice,
	defaultValue string,
) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices offered for %q", message)
	}
	model := newSelectModel(message, choices, defaultValue)
	if err := it.run(model); err != nil {
		return "", err
	}
	if model.canceled {
		return "", ErrPromptCanceled
	}
	return model.value(), nil
}

func (it *TerminalPromptRepository) Confirm(message string, defaultValue bool) (bool, error) {
	model := newConfirmModel(message, defaultValue)
	if err := it.run(model); err != nil {
		return false, err
	}
	if model.canceled {
		return false, ErrPromptCanceled
	}
	return model.answer, nil
}

func (it *TerminalPromptRepository) Input(message string) (string, error) {
	return it.readLine(message, false)
}

func (it *TerminalPromptRepository) Password(message string) (string, error) {
	return it.readLine(message, true)
}

func (it *TerminalPromptRepository) readLine(message string, masked bool) (string, error) {
	model := newInputModel(message, masked)
	if err := it.run(model); err != nil {
		return "", err
	}
	if model.canceled {
		return "", ErrPromptCanceled
	}
	return model.value(), nil
}

func (it *TerminalPromptRepository) run(model tea.Model) error {
	if _, err := tea.NewProgram(model, it.options...).Run(); err != nil {
		return fmt.Errorf("failed to run prompt: %w", err)
	}
	return nil
}
