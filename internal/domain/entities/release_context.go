package entities

import (
	"errors"
	"fmt"
)

const (
	// DefaultRemoteName is the remote every sync and promotion step talks to.
	DefaultRemoteName = "origin"
	// DefaultReleaseBranch is the branch development branches are promoted into.
	DefaultReleaseBranch = "master"

	releasePrefix = "release/"
	developPrefix = "dev/"
)

var errNegotiationApplied = errors.New("release context already negotiated")

// ReleaseContext carries the identity of the release being prepared. It is created
// once per run and only its version and branch may change, exactly once, after
// version negotiation.
type ReleaseContext struct {
	ProjectName string
	Version     string
	WorkingDir  string
	RemoteName  string
	RemoteURL   string
	Branch      string

	negotiated bool
}

// NewReleaseContext creates a context for the given project metadata.
func NewReleaseContext(projectName, version, workingDir string) *ReleaseContext {
	return &ReleaseContext{
		ProjectName: projectName,
		Version:     version,
		WorkingDir:  workingDir,
		RemoteName:  DefaultRemoteName,
	}
}

// ApplyNegotiation fixes the branch and effective version of the release.
func (it *ReleaseContext) ApplyNegotiation(negotiation Negotiation) error {
	if it.negotiated {
		return fmt.Errorf("%w: %s", errNegotiationApplied, it.Branch)
	}
	it.Version = negotiation.Version
	it.Branch = negotiation.Branch
	it.negotiated = true
	return nil
}

// Negotiated reports whether ApplyNegotiation has already run.
func (it *ReleaseContext) Negotiated() bool {
	return it.negotiated
}

// ReleaseTag returns the tag name for the current version, e.g. "release/1.2.0".
func (it *ReleaseContext) ReleaseTag() string {
	return ReleaseTagName(it.Version)
}

// ReleaseTagName returns "release/<version>".
func ReleaseTagName(version string) string {
	return releasePrefix + version
}

// DevelopBranchName returns "dev/<version>".
func DevelopBranchName(version string) string {
	return developPrefix + version
}
