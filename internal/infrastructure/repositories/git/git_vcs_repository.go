package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// networkFailures are git CLI messages that mean the remote could not be reached.
var networkFailures = []string{
	"could not read from remote repository",
	"unable to access",
	"could not resolve host",
	"connection refused",
	"connection timed out",
	"operation timed out",
	"network is unreachable",
}

// VCSRepository implements repositories.VCSRepository. Local reference
// reads use go-git; anything that rewrites the worktree (branch switches,
// stash, merge) and every remote operation run the git CLI so the operator's
// credential helpers and merge drivers apply.
type VCSRepository struct {
	dir string
}

// NewVCSRepository creates a repository bound to dir.
func NewVCSRepository(dir string) repositories.VCSRepository {
	return &VCSRepository{dir: dir}
}

var _ repositories.VCSRepository = (*VCSRepository)(nil)

func (it *VCSRepository) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(it.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", it.dir, err)
	}
	return repo, nil
}

func (it *VCSRepository) IsInitialized() bool {
	_, err := gogit.PlainOpen(it.dir)
	return err == nil
}

func (it *VCSRepository) Init(_ context.Context) error {
	_, err := gogit.PlainInit(it.dir, false)
	if errors.Is(err, gogit.ErrRepositoryAlreadyExists) {
		return nil
	}
	return err
}

func (it *VCSRepository) Remotes(_ context.Context) ([]string, error) {
	repo, err := it.open()
	if err != nil {
		return nil, err
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	return names, nil
}

func (it *VCSRepository) AddRemote(_ context.Context, name, url string) error {
	repo, err := it.open()
	if err != nil {
		return err
	}
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	return err
}

func (it *VCSRepository) Status(ctx context.Context) (entities.RepoStatus, error) {
	output, err := it.run(ctx, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return entities.RepoStatus{}, err
	}
	return ParsePorcelainStatus(output), nil
}

func (it *VCSRepository) StashList(ctx context.Context) ([]string, error) {
	output, err := it.run(ctx, "stash", "list")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(output), nil
}

func (it *VCSRepository) StashPop(ctx context.Context) error {
	_, err := it.run(ctx, "stash", "pop")
	return err
}

func (it *VCSRepository) Add(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := it.run(ctx, append([]string{"add", "--all", "--"}, paths...)...)
	return err
}

func (it *VCSRepository) Commit(ctx context.Context, message string) error {
	_, err := it.run(ctx, "commit", "-m", message)
	return err
}

func (it *VCSRepository) LocalBranches(_ context.Context) ([]string, error) {
	repo, err := it.open()
	if err != nil {
		return nil, err
	}
	iter, err := repo.Branches()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var branches []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, ref.Name().Short())
		return nil
	})
	return branches, err
}

func (it *VCSRepository) Checkout(ctx context.Context, branch string) error {
	_, err := it.run(ctx, "checkout", branch)
	return err
}

func (it *VCSRepository) CreateBranch(ctx context.Context, branch string) error {
	_, err := it.run(ctx, "checkout", "-b", branch)
	return err
}

func (it *VCSRepository) Merge(ctx context.Context, branch string) error {
	_, err := it.run(ctx, "merge", "--no-edit", branch)
	return err
}

func (it *VCSRepository) DeleteLocalBranch(_ context.Context, branch string) error {
	repo, err := it.open()
	if err != nil {
		return err
	}
	if removeErr := repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(branch)); removeErr != nil {
		return removeErr
	}
	if configErr := repo.DeleteBranch(branch); configErr != nil && !errors.Is(configErr, gogit.ErrBranchNotFound) {
		return configErr
	}
	return nil
}

func (it *VCSRepository) Head(_ context.Context) (string, error) {
	repo, err := it.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

func (it *VCSRepository) ListRemote(ctx context.Context, remote string) (string, error) {
	return it.run(ctx, "ls-remote", "--refs", remote)
}

func (it *VCSRepository) Pull(ctx context.Context, remote, branch string, opts repositories.PullOptions) error {
	args := []string{"pull", "--no-rebase", "--no-edit", remote, branch}
	if opts.AllowUnrelatedHistories {
		args = append(args, "--allow-unrelated-histories")
	}
	_, err := it.run(ctx, args...)
	return err
}

func (it *VCSRepository) Push(ctx context.Context, remote, branch string) error {
	_, err := it.run(ctx, "push", remote, branch)
	return err
}

func (it *VCSRepository) DeleteRemoteBranch(ctx context.Context, remote, branch string) error {
	_, err := it.run(ctx, "push", remote, "--delete", branch)
	return err
}

func (it *VCSRepository) Tags(_ context.Context) ([]string, error) {
	repo, err := it.open()
	if err != nil {
		return nil, err
	}
	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	return tags, err
}

func (it *VCSRepository) CreateTag(_ context.Context, tag string) error {
	repo, err := it.open()
	if err != nil {
		return err
	}
	head, err := repo.Head()
	if err != nil {
		return err
	}
	_, err = repo.CreateTag(tag, head.Hash(), nil)
	return err
}

func (it *VCSRepository) DeleteTag(_ context.Context, tag string) error {
	repo, err := it.open()
	if err != nil {
		return err
	}
	return repo.DeleteTag(tag)
}

func (it *VCSRepository) PushTags(ctx context.Context, remote string) error {
	_, err := it.run(ctx, "push", remote, "--tags")
	return err
}

func (it *VCSRepository) DeleteRemoteTag(ctx context.Context, remote, tag string) error {
	_, err := it.run(ctx, "push", remote, ":refs/tags/"+tag)
	return err
}

// run executes a git CLI command in the working directory.
func (it *VCSRepository) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = it.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("[git] git %s", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return stdout.String(), classify(args, stderr.String(), err)
	}
	return stdout.String(), nil
}

// classify wraps a CLI failure, marking unreachable remotes as network errors.
func classify(args []string, stderr string, err error) error {
	message := strings.TrimSpace(stderr)
	wrapped := fmt.Errorf("git %s: %w: %s", args[0], err, message)

	lowered := strings.ToLower(message)
	for _, marker := range networkFailures {
		if strings.Contains(lowered, marker) {
			return fmt.Errorf("%w: %w", entities.ErrNetwork, wrapped)
		}
	}
	return wrapped
}

func nonEmptyLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
