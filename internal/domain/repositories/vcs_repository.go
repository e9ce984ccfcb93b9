package repositories

import (
	"context"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// VCSRepository is the subset of git used by the release flow, bound to one
// working directory.
type VCSRepository interface {
	// IsInitialized reports whether the working directory already holds a repository.
	IsInitialized() bool
	// Init creates an empty repository in the working directory.
	Init(ctx context.Context) error
	// Remotes returns the configured remote names.
	Remotes(ctx context.Context) ([]string, error)
	// AddRemote registers a new remote.
	AddRemote(ctx context.Context, name, url string) error

	// Status returns a fresh snapshot of the working tree.
	Status(ctx context.Context) (entities.RepoStatus, error)
	// StashList returns the stash entries, newest first.
	StashList(ctx context.Context) ([]string, error)
	// StashPop applies and drops the newest stash entry.
	StashPop(ctx context.Context) error
	// Add stages the given paths, including deletions.
	Add(ctx context.Context, paths []string) error
	// Commit records the staged changes.
	Commit(ctx context.Context, message string) error

	// LocalBranches returns the short names of the local branches.
	LocalBranches(ctx context.Context) ([]string, error)
	// Checkout switches to an existing local branch.
	Checkout(ctx context.Context, branch string) error
	// CreateBranch creates a branch at HEAD and switches to it.
	CreateBranch(ctx context.Context, branch string) error
	// Merge merges branch into the current branch.
	Merge(ctx context.Context, branch string) error
	// DeleteLocalBranch removes a local branch.
	DeleteLocalBranch(ctx context.Context, branch string) error
	// Head returns the commit hash HEAD points at.
	Head(ctx context.Context) (string, error)

	// ListRemote returns the raw `ls-remote --refs` listing of a remote.
	ListRemote(ctx context.Context, remote string) (string, error)
	// Pull fetches and merges a remote branch into the current branch.
	Pull(ctx context.Context, remote, branch string, opts PullOptions) error
	// Push pushes a local branch to the remote branch of the same name.
	Push(ctx context.Context, remote, branch string) error
	// DeleteRemoteBranch removes a branch from the remote.
	DeleteRemoteBranch(ctx context.Context, remote, branch string) error

	// Tags returns the local tag names.
	Tags(ctx context.Context) ([]string, error)
	// CreateTag creates a lightweight tag at HEAD.
	CreateTag(ctx context.Context, tag string) error
	// DeleteTag removes a local tag.
	DeleteTag(ctx context.Context, tag string) error
	// PushTags pushes every local tag to the remote.
	PushTags(ctx context.Context, remote string) error
	// DeleteRemoteTag removes a tag from the remote.
	DeleteRemoteTag(ctx context.Context, remote, tag string) error
}

// PullOptions tunes a pull.
type PullOptions struct {
	AllowUnrelatedHistories bool
}

// VCSFactory opens the repository of a working directory.
type VCSFactory func(workingDir string) VCSRepository
