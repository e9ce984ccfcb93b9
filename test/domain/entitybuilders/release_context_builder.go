//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// ReleaseContextBuilder helps create release contexts with a fluent interface.
type ReleaseContextBuilder struct {
	*testkit.BaseBuilder
	projectName string
	version     string
	workingDir  string
	remoteURL   string
	branch      string
}

// NewReleaseContextBuilder creates a new builder with sensible defaults.
func NewReleaseContextBuilder() *ReleaseContextBuilder {
	return &ReleaseContextBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		projectName: "test-project",
		version:     "1.0.0",
		workingDir:  ".",
		remoteURL:   "git@example.com:tester/test-project.git",
	}
}

// WithProjectName sets the project name.
func (b *ReleaseContextBuilder) WithProjectName(name string) *ReleaseContextBuilder {
	b.projectName = name
	return b
}

// WithVersion sets the local version.
func (b *ReleaseContextBuilder) WithVersion(version string) *ReleaseContextBuilder {
	b.version = version
	return b
}

// WithWorkingDir sets the working directory.
func (b *ReleaseContextBuilder) WithWorkingDir(dir string) *ReleaseContextBuilder {
	b.workingDir = dir
	return b
}

// WithRemoteURL sets the clone URL.
func (b *ReleaseContextBuilder) WithRemoteURL(url string) *ReleaseContextBuilder {
	b.remoteURL = url
	return b
}

// Negotiated marks the context as already negotiated on dev/<version>.
func (b *ReleaseContextBuilder) Negotiated() *ReleaseContextBuilder {
	b.branch = entities.DevelopBranchName(b.version)
	return b
}

// Build creates the release context (satisfies testkit.Builder interface).
func (b *ReleaseContextBuilder) Build() interface{} {
	return b.BuildReleaseContext()
}

// BuildReleaseContext creates the release context with a concrete return type.
func (b *ReleaseContextBuilder) BuildReleaseContext() *entities.ReleaseContext {
	rc := entities.NewReleaseContext(b.projectName, b.version, b.workingDir)
	rc.RemoteURL = b.remoteURL
	if b.branch != "" {
		_ = rc.ApplyNegotiation(entities.Negotiation{Branch: b.branch, Version: b.version})
	}
	return rc
}

// Reset clears the builder state, allowing it to be reused.
func (b *ReleaseContextBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.projectName = "test-project"
	b.version = "1.0.0"
	b.workingDir = "."
	b.remoteURL = "git@example.com:tester/test-project.git"
	b.branch = ""
	return b
}

// Clone creates a deep copy of the ReleaseContextBuilder.
func (b *ReleaseContextBuilder) Clone() testkit.Builder {
	return &ReleaseContextBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		projectName: b.projectName,
		version:     b.version,
		workingDir:  b.workingDir,
		remoteURL:   b.remoteURL,
		branch:      b.branch,
	}
}
