//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, fakes) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const fakeHash = "0123456789abcdef0123456789abcdef01234567"

// FakeVCSRepository is an in-memory working copy and remote. Branches, tags and
// the remote listing change as operations run, so sequences can be replayed.
type FakeVCSRepository struct {
	mu sync.Mutex

	// --- local state ---
	Initialized bool
	RemoteNames []string

	// CurrentStatus is returned once StatusQueue is drained. Commit clears its changes.
	CurrentStatus entities.RepoStatus
	StatusQueue   []entities.RepoStatus

	Stash       []string
	Branches    []string
	Current     string
	LocalTags   []string

	// --- remote state ---
	RemoteBranches []string
	RemoteTags     []string

	// Errors maps a method name (e.g. "Push") to the error it returns.
	Errors map[string]error

	// --- spy ---
	Calls   []string
	Commits []string
	Added   [][]string
}

var _ repositories.VCSRepository = (*FakeVCSRepository)(nil)

// NewFakeVCSRepository creates an initialized repository on master with an
// origin remote that only has master.
func NewFakeVCSRepository() *FakeVCSRepository {
	return &FakeVCSRepository{
		Initialized:    true,
		RemoteNames:    []string{entities.DefaultRemoteName},
		Branches:       []string{entities.DefaultReleaseBranch},
		Current:        entities.DefaultReleaseBranch,
		RemoteBranches: []string{entities.DefaultReleaseBranch},
		Errors:         map[string]error{},
	}
}

// CallsOf returns the recorded calls of one method, in order.
func (f *FakeVCSRepository) CallsOf(method string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var calls []string
	for _, call := range f.Calls {
		if call == method || strings.HasPrefix(call, method+" ") {
			calls = append(calls, call)
		}
	}
	return calls
}

// MutatingCalls returns every recorded call except the read-only ones.
func (f *FakeVCSRepository) MutatingCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	readOnly := []string{"Status", "StashList", "LocalBranches", "ListRemote", "Tags", "Remotes", "Head"}
	var calls []string
	for _, call := range f.Calls {
		if !slices.Contains(readOnly, strings.SplitN(call, " ", 2)[0]) {
			calls = append(calls, call)
		}
	}
	return calls
}

func (f *FakeVCSRepository) record(method string, args ...string) error {
	f.Calls = append(f.Calls, strings.TrimSpace(method+" "+strings.Join(args, " ")))
	return f.Errors[method]
}

func (f *FakeVCSRepository) IsInitialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Initialized
}

func (f *FakeVCSRepository) Init(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Init"); err != nil {
		return err
	}
	f.Initialized = true
	return nil
}

func (f *FakeVCSRepository) Remotes(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Remotes"); err != nil {
		return nil, err
	}
	return slices.Clone(f.RemoteNames), nil
}

func (f *FakeVCSRepository) AddRemote(_ context.Context, name, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddRemote", name, url); err != nil {
		return err
	}
	f.RemoteNames = append(f.RemoteNames, name)
	return nil
}

func (f *FakeVCSRepository) Status(_ context.Context) (entities.RepoStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Status"); err != nil {
		return entities.RepoStatus{}, err
	}
	if len(f.StatusQueue) > 0 {
		status := f.StatusQueue[0]
		f.StatusQueue = f.StatusQueue[1:]
		return status, nil
	}
	return f.CurrentStatus, nil
}

func (f *FakeVCSRepository) StashList(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("StashList"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Stash), nil
}

func (f *FakeVCSRepository) StashPop(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("StashPop"); err != nil {
		return err
	}
	if len(f.Stash) > 0 {
		f.Stash = f.Stash[1:]
	}
	return nil
}

func (f *FakeVCSRepository) Add(_ context.Context, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Add", paths...); err != nil {
		return err
	}
	f.Added = append(f.Added, slices.Clone(paths))
	return nil
}

func (f *FakeVCSRepository) Commit(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Commit", message); err != nil {
		return err
	}
	f.Commits = append(f.Commits, message)
	f.CurrentStatus = entities.RepoStatus{Conflicted: f.CurrentStatus.Conflicted}
	return nil
}

func (f *FakeVCSRepository) LocalBranches(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("LocalBranches"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Branches), nil
}

func (f *FakeVCSRepository) Checkout(_ context.Context, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Checkout", branch); err != nil {
		return err
	}
	if !slices.Contains(f.Branches, branch) {
		return fmt.Errorf("branch %s does not exist", branch)
	}
	f.Current = branch
	return nil
}

func (f *FakeVCSRepository) CreateBranch(_ context.Context, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateBranch", branch); err != nil {
		return err
	}
	f.Branches = append(f.Branches, branch)
	f.Current = branch
	return nil
}

func (f *FakeVCSRepository) Merge(_ context.Context, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("Merge", branch)
}

func (f *FakeVCSRepository) DeleteLocalBranch(_ context.Context, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteLocalBranch", branch); err != nil {
		return err
	}
	f.Branches = slices.DeleteFunc(f.Branches, func(b string) bool { return b == branch })
	return nil
}

func (f *FakeVCSRepository) Head(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Head"); err != nil {
		return "", err
	}
	return fakeHash, nil
}

func (f *FakeVCSRepository) ListRemote(_ context.Context, remote string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListRemote", remote); err != nil {
		return "", err
	}
	var builder strings.Builder
	for _, branch := range f.RemoteBranches {
		fmt.Fprintf(&builder, "%s\trefs/heads/%s\n", fakeHash, branch)
	}
	for _, tag := range f.RemoteTags {
		fmt.Fprintf(&builder, "%s\trefs/tags/%s\n", fakeHash, tag)
	}
	return builder.String(), nil
}

func (f *FakeVCSRepository) Pull(_ context.Context, remote, branch string, opts repositories.PullOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	args := []string{remote, branch}
	if opts.AllowUnrelatedHistories {
		args = append(args, "--allow-unrelated-histories")
	}
	return f.record("Pull", args...)
}

func (f *FakeVCSRepository) Push(_ context.Context, remote, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Push", remote, branch); err != nil {
		return err
	}
	if !slices.Contains(f.RemoteBranches, branch) {
		f.RemoteBranches = append(f.RemoteBranches, branch)
	}
	return nil
}

func (f *FakeVCSRepository) DeleteRemoteBranch(_ context.Context, remote, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteRemoteBranch", remote, branch); err != nil {
		return err
	}
	f.RemoteBranches = slices.DeleteFunc(f.RemoteBranches, func(b string) bool { return b == branch })
	return nil
}

func (f *FakeVCSRepository) Tags(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Tags"); err != nil {
		return nil, err
	}
	return slices.Clone(f.LocalTags), nil
}

func (f *FakeVCSRepository) CreateTag(_ context.Context, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateTag", tag); err != nil {
		return err
	}
	if slices.Contains(f.LocalTags, tag) {
		return fmt.Errorf("tag %s already exists", tag)
	}
	f.LocalTags = append(f.LocalTags, tag)
	return nil
}

func (f *FakeVCSRepository) DeleteTag(_ context.Context, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteTag", tag); err != nil {
		return err
	}
	f.LocalTags = slices.DeleteFunc(f.LocalTags, func(t string) bool { return t == tag })
	return nil
}

func (f *FakeVCSRepository) PushTags(_ context.Context, remote string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PushTags", remote); err != nil {
		return err
	}
	for _, tag := range f.LocalTags {
		if !slices.Contains(f.RemoteTags, tag) {
			f.RemoteTags = append(f.RemoteTags, tag)
		}
	}
	return nil
}

func (f *FakeVCSRepository) DeleteRemoteTag(_ context.Context, remote, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteRemoteTag", remote, tag); err != nil {
		return err
	}
	f.RemoteTags = slices.DeleteFunc(f.RemoteTags, func(t string) bool { return t == tag })
	return nil
}
