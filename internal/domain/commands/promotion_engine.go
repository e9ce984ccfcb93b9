package commands

import (
	"context"
	"fmt"
	"slices"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// PromotionEngine tags a built release, merges its development branch into the
// release branch and removes the development branch. Every failure is fatal
// and stops the remaining steps.
type PromotionEngine struct {
	sync     *SyncEngine
	settings *entities.Settings
}

// NewPromotionEngine creates a PromotionEngine.
func NewPromotionEngine(sync *SyncEngine, settings *entities.Settings) *PromotionEngine {
	return &PromotionEngine{sync: sync, settings: settings}
}

// Promote runs retag, merge-to-release and cleanup in that order.
func (it *PromotionEngine) Promote(ctx context.Context, ws *Workspace) error {
	if err := it.RetagRelease(ctx, ws, ws.Context.Version); err != nil {
		return err
	}
	if err := it.MergeToRelease(ctx, ws, ws.Context.Branch, it.settings.ReleaseBranch); err != nil {
		return err
	}
	return it.CleanupDevBranch(ctx, ws, ws.Context.Branch)
}

// RetagRelease points release/<version> at HEAD, replacing any earlier tag of
// the same name locally and on the remote.
func (it *PromotionEngine) RetagRelease(ctx context.Context, ws *Workspace, version string) error {
	tag := entities.ReleaseTagName(version)
	remote := ws.Context.RemoteName

	logger.Info("[promote] Fetching remote tags")
	remoteTags, err := it.sync.ListRemoteVersions(ctx, ws, entities.RefKindTag)
	if err != nil {
		return err
	}
	if entities.ContainsVersion(remoteTags, version) {
		logger.Infof("[promote] Remote tag %s exists, deleting it", tag)
		if deleteErr := ws.VCS.DeleteRemoteTag(ctx, remote, tag); deleteErr != nil {
			return fmt.Errorf("failed to delete remote tag %s: %w", tag, asNetworkError(deleteErr))
		}
	}

	localTags, err := ws.VCS.Tags(ctx)
	if err != nil {
		return fmt.Errorf("failed to list local tags: %w", err)
	}
	if slices.Contains(localTags, tag) {
		logger.Infof("[promote] Local tag %s exists, deleting it", tag)
		if deleteErr := ws.VCS.DeleteTag(ctx, tag); deleteErr != nil {
			return fmt.Errorf("failed to delete local tag %s: %w", tag, deleteErr)
		}
	}

	if createErr := ws.VCS.CreateTag(ctx, tag); createErr != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, createErr)
	}
	logger.Infof("[promote] Created tag %s", tag)

	if pushErr := ws.VCS.PushTags(ctx, remote); pushErr != nil {
		return fmt.Errorf("failed to push tags: %w", asNetworkError(pushErr))
	}
	logger.Infof("[promote] Pushed tag %s", tag)
	return nil
}

// MergeToRelease merges devBranch into releaseBranch and pushes the result.
func (it *PromotionEngine) MergeToRelease(
	ctx context.Context,
	ws *Workspace,
	devBranch, releaseBranch string,
) error {
	if err := it.sync.SwitchTo(ctx, ws, releaseBranch); err != nil {
		return err
	}
	if err := it.sync.EnsureNoConflicts(ctx, ws); err != nil {
		return err
	}

	logger.Infof("[promote] Merging %s -> %s", devBranch, releaseBranch)
	if err := ws.VCS.Merge(ctx, devBranch); err != nil {
		if conflictErr := it.sync.EnsureNoConflicts(ctx, ws); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("failed to merge %s into %s: %w", devBranch, releaseBranch, err)
	}
	logger.Infof("[promote] Merged %s -> %s", devBranch, releaseBranch)

	return it.sync.Push(ctx, ws, releaseBranch)
}

// CleanupDevBranch deletes devBranch locally, then on the remote.
func (it *PromotionEngine) CleanupDevBranch(ctx context.Context, ws *Workspace, devBranch string) error {
	logger.Infof("[promote] Deleting local branch %s", devBranch)
	if err := ws.VCS.DeleteLocalBranch(ctx, devBranch); err != nil {
		return fmt.Errorf("failed to delete local branch %s: %w", devBranch, err)
	}

	logger.Infof("[promote] Deleting remote branch %s", devBranch)
	if err := ws.VCS.DeleteRemoteBranch(ctx, ws.Context.RemoteName, devBranch); err != nil {
		return fmt.Errorf("failed to delete remote branch %s: %w", devBranch, asNetworkError(err))
	}
	logger.Infof("[promote] Development branch %s removed", devBranch)
	return nil
}
