//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"slices"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// RepoStatusBuilder helps create working tree snapshots.
type RepoStatusBuilder struct {
	*testkit.BaseBuilder
	status entities.RepoStatus
}

// NewRepoStatusBuilder creates a builder for a clean tree.
func NewRepoStatusBuilder() *RepoStatusBuilder {
	return &RepoStatusBuilder{BaseBuilder: testkit.NewBaseBuilder()}
}

// WithNotAdded adds untracked paths.
func (b *RepoStatusBuilder) WithNotAdded(paths ...string) *RepoStatusBuilder {
	b.status.NotAdded = append(b.status.NotAdded, paths...)
	return b
}

// WithModified adds modified paths.
func (b *RepoStatusBuilder) WithModified(paths ...string) *RepoStatusBuilder {
	b.status.Modified = append(b.status.Modified, paths...)
	return b
}

// WithDeleted adds deleted paths.
func (b *RepoStatusBuilder) WithDeleted(paths ...string) *RepoStatusBuilder {
	b.status.Deleted = append(b.status.Deleted, paths...)
	return b
}

// WithConflicted adds conflicted paths.
func (b *RepoStatusBuilder) WithConflicted(paths ...string) *RepoStatusBuilder {
	b.status.Conflicted = append(b.status.Conflicted, paths...)
	return b
}

// Build creates the status (satisfies testkit.Builder interface).
func (b *RepoStatusBuilder) Build() interface{} {
	return b.BuildRepoStatus()
}

// BuildRepoStatus creates the status with a concrete return type.
func (b *RepoStatusBuilder) BuildRepoStatus() entities.RepoStatus {
	return entities.RepoStatus{
		NotAdded:   slices.Clone(b.status.NotAdded),
		Created:    slices.Clone(b.status.Created),
		Deleted:    slices.Clone(b.status.Deleted),
		Modified:   slices.Clone(b.status.Modified),
		Renamed:    slices.Clone(b.status.Renamed),
		Conflicted: slices.Clone(b.status.Conflicted),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepoStatusBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.status = entities.RepoStatus{}
	return b
}

// Clone creates a deep copy of the RepoStatusBuilder.
func (b *RepoStatusBuilder) Clone() testkit.Builder {
	return &RepoStatusBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		status:      b.BuildRepoStatus(),
	}
}
