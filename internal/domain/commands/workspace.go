package commands

import (
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// Workspace binds the release context of a run to the working copy it mutates.
// The orchestrator is its only owner.
type Workspace struct {
	Context *entities.ReleaseContext
	VCS     repositories.VCSRepository
}

// NewWorkspace creates a Workspace.
func NewWorkspace(rc *entities.ReleaseContext, vcs repositories.VCSRepository) *Workspace {
	return &Workspace{Context: rc, VCS: vcs}
}
