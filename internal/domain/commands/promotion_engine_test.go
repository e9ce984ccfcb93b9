//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseflow/internal/domain/commands"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/releaseflow/test/infrastructure/repositorydoubles"
)

func newPromotionEngine() *commands.PromotionEngine {
	settings := entities.DefaultSettings()
	return commands.NewPromotionEngine(
		commands.NewSyncEngine(&doubles.ScriptedPromptRepository{}, settings),
		settings,
	)
}

// onDevBranch returns a repository checked out on dev/<version>, already pushed.
func onDevBranch(version string) *doubles.FakeVCSRepository {
	vcs := doubles.NewFakeVCSRepository()
	branch := entities.DevelopBranchName(version)
	vcs.Branches = append(vcs.Branches, branch)
	vcs.Current = branch
	vcs.RemoteBranches = append(vcs.RemoteBranches, branch)
	return vcs
}

func TestPromotionEnginePromote(t *testing.T) {
	t.Parallel()

	t.Run("should tag, merge into master, push and remove the dev branch in order", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := onDevBranch("1.3.0")
		ws := newNegotiatedWorkspace(vcs, "1.3.0")

		// when
		err := newPromotionEngine().Promote(context.Background(), ws)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"CreateTag release/1.3.0",
			"PushTags origin",
			"Checkout master",
			"Merge dev/1.3.0",
			"Push origin master",
			"DeleteLocalBranch dev/1.3.0",
			"DeleteRemoteBranch origin dev/1.3.0",
		}, vcs.MutatingCalls())
		assert.NotContains(t, vcs.Branches, "dev/1.3.0")
		assert.NotContains(t, vcs.RemoteBranches, "dev/1.3.0")
		assert.Contains(t, vcs.RemoteTags, "release/1.3.0")
	})

	t.Run("should stop before pushing when the merge conflicts", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := onDevBranch("1.3.0")
		vcs.Errors["Merge"] = errors.New("automatic merge failed")
		// clean until the merge, conflicted afterwards
		vcs.StatusQueue = []entities.RepoStatus{{}}
		vcs.CurrentStatus = entitybuilders.NewRepoStatusBuilder().WithConflicted("src/index.js").BuildRepoStatus()
		ws := newNegotiatedWorkspace(vcs, "1.3.0")

		// when
		err := newPromotionEngine().Promote(context.Background(), ws)

		// then
		require.ErrorIs(t, err, entities.ErrConflict)
		assert.Empty(t, vcs.CallsOf("Push"))
		assert.Empty(t, vcs.CallsOf("DeleteLocalBranch"))
		assert.Empty(t, vcs.CallsOf("DeleteRemoteBranch"))
	})

	t.Run("should stop before cleanup when pushing master fails", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := onDevBranch("1.3.0")
		vcs.Errors["Push"] = errors.New("remote rejected")
		ws := newNegotiatedWorkspace(vcs, "1.3.0")

		// when
		err := newPromotionEngine().Promote(context.Background(), ws)

		// then
		require.ErrorIs(t, err, entities.ErrNetwork)
		assert.Empty(t, vcs.CallsOf("DeleteLocalBranch"))
	})
}

func TestPromotionEngineRetagRelease(t *testing.T) {
	t.Parallel()

	t.Run("should be idempotent when run twice", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := onDevBranch("1.0.0")
		ws := newNegotiatedWorkspace(vcs, "1.0.0")
		engine := newPromotionEngine()

		// when
		firstErr := engine.RetagRelease(context.Background(), ws, "1.0.0")
		secondErr := engine.RetagRelease(context.Background(), ws, "1.0.0")

		// then
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
		assert.Equal(t, []string{"release/1.0.0"}, vcs.LocalTags)
		assert.Equal(t, []string{"release/1.0.0"}, vcs.RemoteTags)
		assert.Equal(t, []string{"DeleteRemoteTag origin release/1.0.0"}, vcs.CallsOf("DeleteRemoteTag"))
		assert.Equal(t, []string{"DeleteTag release/1.0.0"}, vcs.CallsOf("DeleteTag"))
		assert.Len(t, vcs.CallsOf("CreateTag"), 2)
	})

	t.Run("should replace a stale local and remote tag", func(t *testing.T) {
		t.Parallel()

		// given
		vcs := onDevBranch("2.1.0")
		vcs.LocalTags = []string{"release/2.0.0", "release/2.1.0"}
		vcs.RemoteTags = []string{"release/2.0.0", "release/2.1.0"}
		ws := newNegotiatedWorkspace(vcs, "2.1.0")

		// when
		err := newPromotionEngine().RetagRelease(context.Background(), ws, "2.1.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"DeleteRemoteTag origin release/2.1.0",
			"DeleteTag release/2.1.0",
			"CreateTag release/2.1.0",
			"PushTags origin",
		}, vcs.MutatingCalls())
		assert.ElementsMatch(t, []string{"release/2.0.0", "release/2.1.0"}, vcs.RemoteTags)
	})
}
