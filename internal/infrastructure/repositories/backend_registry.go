package repositories

import (
	"fmt"

	domainRepos "github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// Backend identifiers.
const (
	BackendGitHub = "github"
	BackendGitee  = "gitee"
	BackendGitLab = "gitlab"
)

// BackendFactory is a constructor function that creates a RepositoryBackend.
// The token is configured later through SetToken.
type BackendFactory func() domainRepos.RepositoryBackend

type backendEntry struct {
	label   string
	factory BackendFactory
}

// BackendRegistry manages all registered hosting backends.
type BackendRegistry struct {
	order    []string
	backends map[string]backendEntry
}

// NewBackendRegistry creates an empty backend registry.
func NewBackendRegistry() *BackendRegistry {
	return &BackendRegistry{
		backends: make(map[string]backendEntry),
	}
}

// Register adds a backend factory under the given name (e.g. "github").
func (r *BackendRegistry) Register(name, label string, factory BackendFactory) {
	if _, exists := r.backends[name]; !exists {
		r.order = append(r.order, name)
	}
	r.backends[name] = backendEntry{label: label, factory: factory}
}

// Get returns a new backend instance for the given name.
func (r *BackendRegistry) Get(name string) (domainRepos.RepositoryBackend, error) {
	entry, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown git server type: %q", name)
	}
	return entry.factory(), nil
}

// Label returns the display name of a backend.
func (r *BackendRegistry) Label(name string) string {
	if entry, ok := r.backends[name]; ok {
		return entry.label
	}
	return name
}

// Names returns the registered backend names in registration order.
func (r *BackendRegistry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
