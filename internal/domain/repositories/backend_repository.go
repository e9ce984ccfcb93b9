package repositories

import (
	"context"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// RepositoryBackend abstracts a hosting provider (GitHub, Gitee, GitLab).
// Non-success responses normalize to nil values rather than errors; errors are
// reserved for transport failures.
type RepositoryBackend interface {
	// Name returns the backend identifier (e.g. "github").
	Name() string
	// TokenHelpURL points the operator at the page where a token is generated.
	TokenHelpURL() string
	// SetToken configures the credentials used by every later call.
	SetToken(token string)

	GetUser(ctx context.Context) (*entities.GitUser, error)
	GetOrganizations(ctx context.Context) ([]entities.GitOrganization, error)
	GetRepo(ctx context.Context, owner, name string) (*entities.RemoteRepository, error)
	CreateRepo(ctx context.Context, name string) (*entities.RemoteRepository, error)
	CreateOrgRepo(ctx context.Context, name, owner string) (*entities.RemoteRepository, error)

	// ResolveCloneURL returns the SSH clone URL of owner/name.
	ResolveCloneURL(owner, name string) string
}
