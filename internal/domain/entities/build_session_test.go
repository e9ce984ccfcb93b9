//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

func TestBuildSession(t *testing.T) {
	t.Parallel()

	t.Run("should keep the first terminal outcome", func(t *testing.T) {
		t.Parallel()

		// given
		session := entities.NewBuildSession("ws://build", entities.BuildParams{})
		session.Advance(entities.BuildConnected)
		session.Advance(entities.BuildBuilding)

		// when
		first := session.Advance(entities.BuildSucceeded)
		second := session.Advance(entities.BuildDisconnected)

		// then
		assert.True(t, first)
		assert.False(t, second)
		assert.Equal(t, entities.BuildSucceeded, session.Outcome())
	})

	t.Run("should start pending", func(t *testing.T) {
		t.Parallel()

		// when
		session := entities.NewBuildSession("ws://build", entities.BuildParams{})

		// then
		assert.Equal(t, entities.BuildPending, session.Outcome())
		assert.False(t, session.Outcome().IsTerminal())
	})
}

func TestBuildOutcomeErr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcome  entities.BuildOutcome
		expected error
	}{
		{name: "should map failed to a build error", outcome: entities.BuildFailed, expected: entities.ErrBuild},
		{name: "should map disconnected to a build error", outcome: entities.BuildDisconnected, expected: entities.ErrBuild},
		{name: "should map timed out to a timeout error", outcome: entities.BuildTimedOut, expected: entities.ErrTimeout},
		{name: "should map succeeded to no error", outcome: entities.BuildSucceeded, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			err := tt.outcome.Err()

			// then
			assert.Equal(t, tt.expected, err)
		})
	}
}

func TestBuildParamsQuery(t *testing.T) {
	t.Parallel()

	t.Run("should encode every connection parameter", func(t *testing.T) {
		t.Parallel()

		// given
		params := entities.BuildParams{
			Repo:     "git@github.com:acme/demo.git",
			Name:     "demo",
			Branch:   "dev/1.3.0",
			BuildCmd: "npm run build",
			Version:  "1.3.0",
			Type:     "oss",
			Prod:     true,
		}

		// when
		query := params.Query()

		// then
		assert.Equal(t, "git@github.com:acme/demo.git", query.Get("repo"))
		assert.Equal(t, "demo", query.Get("name"))
		assert.Equal(t, "dev/1.3.0", query.Get("branch"))
		assert.Equal(t, "npm run build", query.Get("buildCmd"))
		assert.Equal(t, "1.3.0", query.Get("version"))
		assert.Equal(t, "oss", query.Get("type"))
		assert.Equal(t, "true", query.Get("prod"))
	})
}

func TestDecodeBuildEvent(t *testing.T) {
	t.Parallel()

	t.Run("should extract action and message from the payload", func(t *testing.T) {
		t.Parallel()

		// given
		raw := []byte(`{"event":"building","data":{"action":"install","payload":{"message":"npm install"}}}`)

		// when
		event, err := entities.DecodeBuildEvent(raw)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BuildEvent{Name: "building", Action: "install", Message: "npm install"}, event)
	})

	t.Run("should round-trip the connect acknowledgement", func(t *testing.T) {
		t.Parallel()

		// given
		raw, err := entities.EncodeBuildEvent(entities.BuildEvent{Name: entities.EventConnect, ID: "abc"})
		require.NoError(t, err)

		// when
		event, decodeErr := entities.DecodeBuildEvent(raw)

		// then
		require.NoError(t, decodeErr)
		assert.Equal(t, entities.EventConnect, event.Name)
		assert.Equal(t, "abc", event.ID)
	})

	t.Run("should fail on malformed frames", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.DecodeBuildEvent([]byte(`not json`))

		// then
		require.Error(t, err)
	})
}
