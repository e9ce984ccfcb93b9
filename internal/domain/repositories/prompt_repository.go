package repositories

import "github.com/rios0rios0/releaseflow/internal/domain/entities"

// PromptRepository asks the operator for decisions. Implementations are
// interactive; tests use scripted doubles.
type PromptRepository interface {
	Select(message string, choices []entities.Choice, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Input(message string) (string, error)
	Password(message string) (string, error)
}
