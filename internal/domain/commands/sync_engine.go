package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// MergeStatus classifies the result of a best-effort pull.
type MergeStatus string

const (
	// MergeApplied means the remote branch was pulled.
	MergeApplied MergeStatus = "applied"
	// MergeFailedProceed means the pull failed but the run may continue; the next
	// conflict check decides whether the tree is still usable.
	MergeFailedProceed MergeStatus = "failed_proceed"
	// MergeFailedAbort means the pull failed and the run must stop.
	MergeFailedAbort MergeStatus = "failed_abort"
)

// MergeResult is the outcome of MergeRemote.
type MergeResult struct {
	Branch string
	Status MergeStatus
	Err    error
}

// Proceed reports whether the run may continue after this merge.
func (r MergeResult) Proceed() bool {
	return r.Status != MergeFailedAbort
}

// SyncEngine reconciles the working copy with the remote: conflict and stash
// checks, dirty-tree commits, branch switches, pulls and pushes.
type SyncEngine struct {
	prompt   repositories.PromptRepository
	settings *entities.Settings
}

// NewSyncEngine creates a SyncEngine.
func NewSyncEngine(prompt repositories.PromptRepository, settings *entities.Settings) *SyncEngine {
	return &SyncEngine{prompt: prompt, settings: settings}
}

// EnsureNoConflicts fails with a ConflictError naming every conflicted path.
func (it *SyncEngine) EnsureNoConflicts(ctx context.Context, ws *Workspace) error {
	logger.Debug("[sync] Checking for conflicts")
	status, err := ws.VCS.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read repository status: %w", err)
	}
	return conflictsOf(status)
}

// ResolveStash offers to pop the newest stash entry. Declining leaves the stash untouched.
func (it *SyncEngine) ResolveStash(ctx context.Context, ws *Workspace) error {
	logger.Info("[sync] Checking stash entries")
	entries, err := ws.VCS.StashList(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stash entries: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	pop, err := it.prompt.Confirm(
		fmt.Sprintf("Found %d stash entries, pop the newest one?", len(entries)), true,
	)
	if err != nil {
		return err
	}
	if !pop {
		logger.Info("[sync] Keeping stash untouched")
		return nil
	}
	if popErr := ws.VCS.StashPop(ctx); popErr != nil {
		return fmt.Errorf("failed to pop stash: %w", popErr)
	}
	logger.Info("[sync] Stash popped")
	return nil
}

// EnsureClean stages and commits every pending change, asking for a non-empty
// commit message. It returns false without committing when the tree is clean.
func (it *SyncEngine) EnsureClean(ctx context.Context, ws *Workspace) (bool, error) {
	status, err := ws.VCS.Status(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read repository status: %w", err)
	}
	if conflictErr := conflictsOf(status); conflictErr != nil {
		return false, conflictErr
	}
	if !status.IsDirty() {
		logger.Debug("[sync] Working tree is clean")
		return false, nil
	}

	pending := status.Pending()
	logger.Debugf("[sync] Pending changes: %s", strings.Join(pending, ", "))
	if addErr := ws.VCS.Add(ctx, pending); addErr != nil {
		return false, fmt.Errorf("failed to stage changes: %w", addErr)
	}

	message, err := it.commitMessage()
	if err != nil {
		return false, err
	}
	if commitErr := ws.VCS.Commit(ctx, message); commitErr != nil {
		return false, fmt.Errorf("failed to commit: %w", commitErr)
	}
	logger.Info("[sync] Local commit created")
	return true, nil
}

// SwitchTo checks out branch, creating it at HEAD when it does not exist locally.
func (it *SyncEngine) SwitchTo(ctx context.Context, ws *Workspace, branch string) error {
	branches, err := ws.VCS.LocalBranches(ctx)
	if err != nil {
		return fmt.Errorf("failed to list local branches: %w", err)
	}

	if slices.Contains(branches, branch) {
		err = ws.VCS.Checkout(ctx, branch)
	} else {
		err = ws.VCS.CreateBranch(ctx, branch)
	}
	if err != nil {
		return fmt.Errorf("failed to switch to branch %s: %w", branch, err)
	}
	logger.Infof("[sync] Switched to branch %s", branch)
	return nil
}

// MergeRemote pulls a remote branch into the current branch. A failed pull is
// logged and reported as MergeFailedProceed; only a network failure under
// strict pull settings aborts the run.
func (it *SyncEngine) MergeRemote(
	ctx context.Context,
	ws *Workspace,
	branch string,
	opts repositories.PullOptions,
) (MergeResult, error) {
	if err := it.EnsureNoConflicts(ctx, ws); err != nil {
		return MergeResult{Branch: branch, Status: MergeFailedAbort, Err: err}, err
	}

	logger.Infof("[sync] Pulling %s/%s", ws.Context.RemoteName, branch)
	pullErr := ws.VCS.Pull(ctx, ws.Context.RemoteName, branch, opts)
	if pullErr == nil {
		return MergeResult{Branch: branch, Status: MergeApplied}, nil
	}

	if it.settings.StrictPull && errors.Is(pullErr, entities.ErrNetwork) {
		err := fmt.Errorf("failed to pull %s: %w", branch, pullErr)
		return MergeResult{Branch: branch, Status: MergeFailedAbort, Err: err}, err
	}
	logger.Errorf("[sync] Pull of %s failed, continuing: %v", branch, pullErr)
	return MergeResult{Branch: branch, Status: MergeFailedProceed, Err: pullErr}, nil
}

// Push pushes branch to the remote. Push failures are fatal.
func (it *SyncEngine) Push(ctx context.Context, ws *Workspace, branch string) error {
	if err := it.EnsureNoConflicts(ctx, ws); err != nil {
		return err
	}

	logger.Infof("[sync] Pushing %s to %s", branch, ws.Context.RemoteName)
	if err := ws.VCS.Push(ctx, ws.Context.RemoteName, branch); err != nil {
		return fmt.Errorf("failed to push %s: %w", branch, asNetworkError(err))
	}
	logger.Infof("[sync] Pushed %s", branch)
	return nil
}

// ListRemoteVersions returns the remote versions of the given kind, newest first.
func (it *SyncEngine) ListRemoteVersions(
	ctx context.Context,
	ws *Workspace,
	kind entities.RefKind,
) ([]entities.RemoteRef, error) {
	listing, err := ws.VCS.ListRemote(ctx, ws.Context.RemoteName)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote references: %w", asNetworkError(err))
	}
	refs := entities.ParseRemoteRefs(listing, kind)
	logger.Debugf("[sync] Remote %s versions: %v", kind, refs)
	return refs, nil
}

// RemoteHasBranch reports whether the remote exposes refs/heads/<branch>.
func (it *SyncEngine) RemoteHasBranch(ctx context.Context, ws *Workspace, branch string) (bool, error) {
	listing, err := ws.VCS.ListRemote(ctx, ws.Context.RemoteName)
	if err != nil {
		return false, fmt.Errorf("failed to list remote references: %w", asNetworkError(err))
	}
	ref := "refs/heads/" + branch
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == ref {
			return true, nil
		}
	}
	return false, nil
}

// CommitSequence runs the commit phase in its fixed order: conflict check, stash,
// conflict check, commit, branch switch, pull release branch, conflict check,
// pull the remote development branch if it exists, conflict check, push.
func (it *SyncEngine) CommitSequence(ctx context.Context, ws *Workspace) error {
	rc := ws.Context
	releaseBranch := it.settings.ReleaseBranch

	if err := it.EnsureNoConflicts(ctx, ws); err != nil {
		return err
	}
	if err := it.ResolveStash(ctx, ws); err != nil {
		return err
	}
	if err := it.EnsureNoConflicts(ctx, ws); err != nil {
		return err
	}
	if _, err := it.EnsureClean(ctx, ws); err != nil {
		return err
	}
	if err := it.SwitchTo(ctx, ws, rc.Branch); err != nil {
		return err
	}

	logger.Infof("[sync] Merging %s -> %s", releaseBranch, rc.Branch)
	if _, err := it.MergeRemote(ctx, ws, releaseBranch, repositories.PullOptions{}); err != nil {
		return err
	}
	if err := it.EnsureNoConflicts(ctx, ws); err != nil {
		return err
	}

	devBranches, err := it.ListRemoteVersions(ctx, ws, entities.RefKindBranch)
	if err != nil {
		return err
	}
	if entities.ContainsVersion(devBranches, rc.Version) {
		logger.Infof("[sync] Merging remote %s -> local %s", rc.Branch, rc.Branch)
		if _, mergeErr := it.MergeRemote(ctx, ws, rc.Branch, repositories.PullOptions{}); mergeErr != nil {
			return mergeErr
		}
		if conflictErr := it.EnsureNoConflicts(ctx, ws); conflictErr != nil {
			return conflictErr
		}
	} else {
		logger.Infof("[sync] Remote branch %s does not exist yet", rc.Branch)
	}

	return it.Push(ctx, ws, rc.Branch)
}

func conflictsOf(status entities.RepoStatus) error {
	if status.HasConflicts() {
		return &entities.ConflictError{Paths: status.Conflicted}
	}
	return nil
}

func asNetworkError(err error) error {
	if errors.Is(err, entities.ErrNetwork) {
		return err
	}
	return fmt.Errorf("%w: %w", entities.ErrNetwork, err)
}

func (it *SyncEngine) commitMessage() (string, error) {
	for {
		message, err := it.prompt.Input("Enter the commit message")
		if err != nil {
			return "", err
		}
		if message = strings.TrimSpace(message); message != "" {
			return message, nil
		}
		logger.Warn("[sync] The commit message cannot be empty")
	}
}
