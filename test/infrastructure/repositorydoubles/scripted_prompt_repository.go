//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"errors"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// ErrScriptExhausted is returned when a question has no scripted answer left.
var ErrScriptExhausted = errors.New("no scripted answer left")

// ScriptedPromptRepository answers questions from queues, one per kind.
type ScriptedPromptRepository struct {
	Selects   []string
	Confirms  []bool
	Inputs    []string
	Passwords []string

	// spy: every question asked, in order
	Asked []string
	// spy: the choices offered by each Select
	Offered [][]entities.Choice
}

var _ repositories.PromptRepository = (*ScriptedPromptRepository)(nil)

func (p *ScriptedPromptRepository) Select(
	message string,
	choices []entities.Choice,
	_ string,
) (string, error) {
	p.Asked = append(p.Asked, message)
	p.Offered = append(p.Offered, choices)
	if len(p.Selects) == 0 {
		return "", ErrScriptExhausted
	}
	answer := p.Selects[0]
	p.Selects = p.Selects[1:]
	return answer, nil
}

func (p *ScriptedPromptRepository) Confirm(message string, _ bool) (bool, error) {
	p.Asked = append(p.Asked, message)
	if len(p.Confirms) == 0 {
		return false, ErrScriptExhausted
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

func (p *ScriptedPromptRepository) Input(message string) (string, error) {
	p.Asked = append(p.Asked, message)
	if len(p.Inputs) == 0 {
		return "", ErrScriptExhausted
	}
	answer := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	return answer, nil
}

func (p *ScriptedPromptRepository) Password(message string) (string, error) {
	p.Asked = append(p.Asked, message)
	if len(p.Passwords) == 0 {
		return "", ErrScriptExhausted
	}
	answer := p.Passwords[0]
	p.Passwords = p.Passwords[1:]
	return answer, nil
}
