//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseflow/internal/domain/commands"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	doubles "github.com/rios0rios0/releaseflow/test/infrastructure/repositorydoubles"
)

func newBuildClient(
	transport *doubles.FakeBuildTransport,
	artifacts *doubles.StubArtifactRepository,
	credentials *doubles.InMemoryCredentialRepository,
	prompt *doubles.ScriptedPromptRepository,
) *commands.BuildSessionClient {
	settings := entities.DefaultSettings()
	settings.ConnectTimeout = 50 * time.Millisecond
	return commands.NewBuildSessionClient(transport, artifacts, credentials, prompt, settings)
}

func newRunClient(transport *doubles.FakeBuildTransport) *commands.BuildSessionClient {
	return newBuildClient(
		transport,
		&doubles.StubArtifactRepository{},
		doubles.NewInMemoryCredentialRepository(nil),
		&doubles.ScriptedPromptRepository{},
	)
}

func buildEvent(name, message string) entities.BuildEvent {
	return entities.BuildEvent{Name: name, Action: name, Message: message}
}

func TestBuildSessionClientRun(t *testing.T) {
	t.Parallel()

	t.Run("should stay succeeded when a disconnect follows the success", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.Acknowledged("session-1",
			buildEvent(entities.EventBuilding, "installing"),
			buildEvent(entities.EventBuildSuccess, "done"),
			buildEvent(entities.EventDisconnect, ""),
		)
		transport := &doubles.FakeBuildTransport{Connection: conn}
		var progress []string

		// when
		result, err := newRunClient(transport).Run(
			context.Background(),
			entities.BuildParams{Name: "demo"},
			func(event entities.BuildEvent) { progress = append(progress, event.Message) },
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BuildSucceeded, result.Outcome)
		assert.Equal(t, "session-1", result.SessionID)
		assert.True(t, result.Succeeded())
		assert.Equal(t, []string{entities.EventBuild}, conn.Emitted)
		assert.Equal(t, []string{"installing"}, progress)
		assert.True(t, conn.Closed())
		assert.Equal(t, "demo", transport.LastParams.Name)
	})

	t.Run("should time out and close the socket when no acknowledgement arrives", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeBuildConnection()
		transport := &doubles.FakeBuildTransport{Connection: conn}

		// when
		result, err := newRunClient(transport).Run(context.Background(), entities.BuildParams{}, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BuildTimedOut, result.Outcome)
		assert.ErrorIs(t, result.Outcome.Err(), entities.ErrTimeout)
		assert.True(t, conn.Closed())
		assert.Empty(t, conn.Emitted)
	})

	t.Run("should time out when the dial itself hangs", func(t *testing.T) {
		t.Parallel()

		// given
		transport := &doubles.FakeBuildTransport{BlockDial: true}

		// when
		result, err := newRunClient(transport).Run(context.Background(), entities.BuildParams{}, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BuildTimedOut, result.Outcome)
	})

	t.Run("should report a failed build", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.Acknowledged("session-2", buildEvent(entities.EventBuildError, "compile error"))
		transport := &doubles.FakeBuildTransport{Connection: conn}

		// when
		result, err := newRunClient(transport).Run(context.Background(), entities.BuildParams{}, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BuildFailed, result.Outcome)
		assert.ErrorIs(t, result.Outcome.Err(), entities.ErrBuild)
		assert.True(t, conn.Closed())
	})

	t.Run("should report a disconnect during the build", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.Acknowledged("session-3",
			buildEvent(entities.EventBuilding, "installing"),
			buildEvent(entities.EventDisconnect, ""),
			buildEvent(entities.EventBuildSuccess, "too late"),
		)
		transport := &doubles.FakeBuildTransport{Connection: conn}

		// when
		result, err := newRunClient(transport).Run(context.Background(), entities.BuildParams{}, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BuildDisconnected, result.Outcome)
	})

	t.Run("should report a disconnect when the server closes the stream", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.Acknowledged("session-4")
		transport := &doubles.FakeBuildTransport{Connection: conn}
		go func() {
			time.Sleep(10 * time.Millisecond)
			_ = conn.Close()
		}()

		// when
		result, err := newRunClient(transport).Run(context.Background(), entities.BuildParams{}, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BuildDisconnected, result.Outcome)
	})

	t.Run("should fail with a network error when the build service is unreachable", func(t *testing.T) {
		t.Parallel()

		// given
		transport := &doubles.FakeBuildTransport{DialErr: errors.New("connection refused")}

		// when
		result, err := newRunClient(transport).Run(context.Background(), entities.BuildParams{}, nil)

		// then
		require.ErrorIs(t, err, entities.ErrNetwork)
		assert.Equal(t, entities.BuildDisconnected, result.Outcome)
	})

	t.Run("should fail with a network error on a connection error before acknowledgement", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeBuildConnection(entities.BuildEvent{Name: entities.EventError, Message: "boom"})
		transport := &doubles.FakeBuildTransport{Connection: conn}

		// when
		result, err := newRunClient(transport).Run(context.Background(), entities.BuildParams{}, nil)

		// then
		require.ErrorIs(t, err, entities.ErrNetwork)
		assert.Equal(t, entities.BuildDisconnected, result.Outcome)
		assert.True(t, conn.Closed())
	})

	t.Run("should report a disconnect when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		// given
		ctx, cancel := context.WithCancel(context.Background())
		conn := doubles.Acknowledged("session-5", buildEvent(entities.EventBuilding, "installing"))
		transport := &doubles.FakeBuildTransport{Connection: conn}
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		// when
		result, err := newRunClient(transport).Run(ctx, entities.BuildParams{}, nil)

		// then
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, entities.BuildDisconnected, result.Outcome)
		assert.True(t, conn.Closed())
	})
}

func TestBuildSessionClientPrepare(t *testing.T) {
	t.Parallel()

	manifest := &entities.Manifest{
		Name:    "demo",
		Version: "1.3.0",
		Scripts: map[string]string{"build": "vite build", "build:prod": "vite build --mode prod"},
	}

	t.Run("should build the connection parameters from the release context", func(t *testing.T) {
		t.Parallel()

		// given
		credentials := doubles.NewInMemoryCredentialRepository(map[entities.CredentialKey]string{
			entities.CredentialPublishTarget: "oss",
		})
		client := newBuildClient(
			&doubles.FakeBuildTransport{}, &doubles.StubArtifactRepository{}, credentials,
			&doubles.ScriptedPromptRepository{},
		)
		ws := newNegotiatedWorkspace(doubles.NewFakeVCSRepository(), "1.3.0")

		// when
		params, err := client.Prepare(context.Background(), ws, manifest, entities.ReleaseOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BuildParams{
			Repo:     ws.Context.RemoteURL,
			Name:     ws.Context.ProjectName,
			Branch:   "dev/1.3.0",
			BuildCmd: "npm run build",
			Version:  "1.3.0",
			Type:     "oss",
		}, params)
	})

	t.Run("should ask for the publish target once and cache it", func(t *testing.T) {
		t.Parallel()

		// given
		credentials := doubles.NewInMemoryCredentialRepository(nil)
		prompt := &doubles.ScriptedPromptRepository{Selects: []string{"oss"}}
		client := newBuildClient(&doubles.FakeBuildTransport{}, &doubles.StubArtifactRepository{}, credentials, prompt)
		ws := newNegotiatedWorkspace(doubles.NewFakeVCSRepository(), "1.3.0")

		// when
		_, err := client.Prepare(context.Background(), ws, manifest, entities.ReleaseOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "oss", credentials.Values[entities.CredentialPublishTarget])
		assert.Len(t, prompt.Asked, 1)
	})

	t.Run("should abort the publish when the operator refuses to overwrite production", func(t *testing.T) {
		t.Parallel()

		// given
		credentials := doubles.NewInMemoryCredentialRepository(map[entities.CredentialKey]string{
			entities.CredentialPublishTarget: "oss",
		})
		artifacts := &doubles.StubArtifactRepository{Exists: true}
		transport := &doubles.FakeBuildTransport{}
		prompt := &doubles.ScriptedPromptRepository{Confirms: []bool{false}}
		client := newBuildClient(transport, artifacts, credentials, prompt)
		ws := newNegotiatedWorkspace(doubles.NewFakeVCSRepository(), "1.3.0")

		// when
		_, err := client.Prepare(context.Background(), ws, manifest, entities.ReleaseOptions{Prod: true})

		// then
		require.ErrorIs(t, err, entities.ErrPublishAborted)
		assert.Equal(t, []string{ws.Context.ProjectName + ":prod"}, artifacts.ExistsQueries)
		assert.Zero(t, transport.DialCount)
	})

	t.Run("should not ask when nothing was published to production yet", func(t *testing.T) {
		t.Parallel()

		// given
		credentials := doubles.NewInMemoryCredentialRepository(map[entities.CredentialKey]string{
			entities.CredentialPublishTarget: "oss",
		})
		prompt := &doubles.ScriptedPromptRepository{}
		client := newBuildClient(&doubles.FakeBuildTransport{}, &doubles.StubArtifactRepository{}, credentials, prompt)
		ws := newNegotiatedWorkspace(doubles.NewFakeVCSRepository(), "1.3.0")

		// when
		params, err := client.Prepare(context.Background(), ws, manifest, entities.ReleaseOptions{Prod: true})

		// then
		require.NoError(t, err)
		assert.True(t, params.Prod)
		assert.Empty(t, prompt.Asked)
	})
}

func TestValidateBuildCommand(t *testing.T) {
	t.Parallel()

	manifest := &entities.Manifest{Scripts: map[string]string{"build": "vite build", "build:prod": "vite"}}

	tests := []struct {
		name     string
		buildCmd string
		expected string
		valid    bool
	}{
		{name: "should default to npm run build", buildCmd: "", expected: "npm run build", valid: true},
		{name: "should accept cnpm", buildCmd: "cnpm run build:prod", expected: "cnpm run build:prod", valid: true},
		{name: "should reject other package managers", buildCmd: "yarn build", valid: false},
		{name: "should reject unknown scripts", buildCmd: "npm run deploy", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			buildCmd, err := commands.ValidateBuildCommand(tt.buildCmd, manifest)

			// then
			if !tt.valid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buildCmd)
		})
	}
}
