package prompt

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

func NewSelectModelForTest(message string, choices []entities.Choice, defaultValue string) tea.Model {
	return newSelectModel(message, choices, defaultValue)
}

func SelectedValue(model tea.Model) string {
	return model.(*selectModel).value()
}

func NewConfirmModelForTest(message string, defaultValue bool) tea.Model {
	return newConfirmModel(message, defaultValue)
}

func ConfirmAnswer(model tea.Model) (bool, bool) {
	m := model.(*confirmModel)
	return m.answer, m.canceled
}

func NewInputModelForTest(message string, masked bool) tea.Model {
	return newInputModel(message, masked)
}

func InputValue(model tea.Model) string {
	return model.(*inputModel).value()
}
