//go:build unit

package prompt_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/prompt"
)

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func press(model tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, key := range keys {
		model, cmd = model.Update(key)
	}
	return model, cmd
}

var backends = []entities.Choice{
	{Label: "GitHub", Value: "github"},
	{Label: "Gitee", Value: "gitee"},
	{Label: "GitLab", Value: "gitlab"},
}

func TestSelectModel(t *testing.T) {
	t.Parallel()

	t.Run("should start on the default choice", func(t *testing.T) {
		t.Parallel()

		// given
		model := prompt.NewSelectModelForTest("Select the git hosting platform", backends, "gitee")

		// when
		model, cmd := press(model, tea.KeyMsg{Type: tea.KeyEnter})

		// then
		require.NotNil(t, cmd)
		assert.Equal(t, "gitee", prompt.SelectedValue(model))
	})

	t.Run("should move with the arrows and stop at the edges", func(t *testing.T) {
		t.Parallel()

		// given
		model := prompt.NewSelectModelForTest("Select the git hosting platform", backends, "github")

		// when
		model, _ = press(model,
			tea.KeyMsg{Type: tea.KeyUp},
			tea.KeyMsg{Type: tea.KeyDown},
			runes("j"),
			tea.KeyMsg{Type: tea.KeyDown},
		)

		// then
		assert.Equal(t, "gitlab", prompt.SelectedValue(model))
		assert.Contains(t, model.View(), "> GitLab")
	})

	t.Run("should render the chosen label once answered", func(t *testing.T) {
		t.Parallel()

		// given
		model := prompt.NewSelectModelForTest("Select the git hosting platform", backends, "github")

		// when
		model, _ = press(model, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})

		// then
		assert.Contains(t, model.View(), "Gitee")
		assert.NotContains(t, model.View(), "arrows to move")
	})
}

func TestConfirmModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		defaultValue bool
		key          tea.KeyMsg
		answer       bool
		canceled     bool
	}{
		{name: "should answer yes on y", key: runes("y"), answer: true},
		{name: "should answer yes on an uppercase Y", key: runes("Y"), answer: true},
		{name: "should answer no on n", defaultValue: true, key: runes("n"), answer: false},
		{name: "should keep the default on enter", defaultValue: true, key: tea.KeyMsg{Type: tea.KeyEnter}, answer: true},
		{name: "should cancel on ctrl+c", key: tea.KeyMsg{Type: tea.KeyCtrlC}, canceled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			model := prompt.NewConfirmModelForTest("Overwrite production?", tt.defaultValue)

			// when
			model, cmd := press(model, tt.key)

			// then
			require.NotNil(t, cmd)
			answer, canceled := prompt.ConfirmAnswer(model)
			assert.Equal(t, tt.answer, answer)
			assert.Equal(t, tt.canceled, canceled)
		})
	}

	t.Run("should ignore other keys", func(t *testing.T) {
		t.Parallel()

		// given
		model := prompt.NewConfirmModelForTest("Overwrite production?", false)

		// when
		_, cmd := press(model, runes("x"))

		// then
		assert.Nil(t, cmd)
	})
}

func TestInputModel(t *testing.T) {
	t.Parallel()

	t.Run("should return the trimmed text on enter", func(t *testing.T) {
		t.Parallel()

		// given
		model := prompt.NewInputModelForTest("Enter the commit message", false)

		// when
		model, cmd := press(model, runes(" feat: release "), tea.KeyMsg{Type: tea.KeyEnter})

		// then
		require.NotNil(t, cmd)
		assert.Equal(t, "feat: release", prompt.InputValue(model))
	})

	t.Run("should mask a password while typing", func(t *testing.T) {
		t.Parallel()

		// given
		model := prompt.NewInputModelForTest("Enter the token", true)

		// when
		model, _ = press(model, runes("s3cret"))

		// then
		assert.Equal(t, "s3cret", prompt.InputValue(model))
		assert.NotContains(t, model.View(), "s3cret")
		assert.Contains(t, model.View(), "******")
	})
}

func TestTerminalPromptRepository(t *testing.T) {
	t.Parallel()

	t.Run("should refuse a selection without choices", func(t *testing.T) {
		t.Parallel()

		// given
		repo := prompt.NewTerminalPromptRepository()

		// when
		_, err := repo.Select("Select the organization", nil, "")

		// then
		require.Error(t, err)
	})
}
