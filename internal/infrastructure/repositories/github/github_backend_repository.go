package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

const (
	backendName  = "github"
	perPage      = 100
	tokenHelpURL = "https://github.com/settings/tokens"
)

// GitHubBackendRepository implements repositories.RepositoryBackend for GitHub.
type GitHubBackendRepository struct {
	baseURL *url.URL
	client  *gh.Client
}

// NewBackendRepository creates an unauthenticated GitHub backend.
func NewBackendRepository() repositories.RepositoryBackend {
	return newGitHubBackendRepository(nil)
}

func newGitHubBackendRepository(baseURL *url.URL) *GitHubBackendRepository {
	p := &GitHubBackendRepository{baseURL: baseURL}
	p.client = p.newClient("")
	return p
}

func (p *GitHubBackendRepository) newClient(token string) *gh.Client {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if p.baseURL != nil {
		client.BaseURL = p.baseURL
	}
	return client
}

func (p *GitHubBackendRepository) Name() string         { return backendName }
func (p *GitHubBackendRepository) TokenHelpURL() string { return tokenHelpURL }

func (p *GitHubBackendRepository) SetToken(token string) {
	p.client = p.newClient(token)
}

func (p *GitHubBackendRepository) GetUser(ctx context.Context) (*entities.GitUser, error) {
	user, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return nil, normalize(err, "failed to get authenticated user")
	}
	return &entities.GitUser{Login: user.GetLogin(), Name: user.GetName()}, nil
}

func (p *GitHubBackendRepository) GetOrganizations(ctx context.Context) ([]entities.GitOrganization, error) {
	var orgs []entities.GitOrganization
	opts := &gh.ListOptions{PerPage: perPage}

	for {
		page, resp, err := p.client.Organizations.List(ctx, "", opts)
		if err != nil {
			return nil, normalize(err, "failed to list organizations")
		}

		for _, org := range page {
			orgs = append(orgs, entities.GitOrganization{Login: org.GetLogin()})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if orgs == nil {
		orgs = []entities.GitOrganization{}
	}
	return orgs, nil
}

func (p *GitHubBackendRepository) GetRepo(
	ctx context.Context,
	owner, name string,
) (*entities.RemoteRepository, error) {
	repo, _, err := p.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, normalize(err, fmt.Sprintf("failed to get repository %s/%s", owner, name))
	}
	return toRemoteRepository(repo), nil
}

func (p *GitHubBackendRepository) CreateRepo(
	ctx context.Context,
	name string,
) (*entities.RemoteRepository, error) {
	return p.create(ctx, "", name)
}

func (p *GitHubBackendRepository) CreateOrgRepo(
	ctx context.Context,
	name, owner string,
) (*entities.RemoteRepository, error) {
	return p.create(ctx, owner, name)
}

func (p *GitHubBackendRepository) create(
	ctx context.Context,
	org, name string,
) (*entities.RemoteRepository, error) {
	repo, _, err := p.client.Repositories.Create(ctx, org, &gh.Repository{Name: gh.String(name)})
	if err != nil {
		return nil, normalize(err, fmt.Sprintf("failed to create repository %q", name))
	}
	return toRemoteRepository(repo), nil
}

func (p *GitHubBackendRepository) ResolveCloneURL(owner, name string) string {
	return fmt.Sprintf("git@github.com:%s/%s.git", owner, name)
}

func toRemoteRepository(repo *gh.Repository) *entities.RemoteRepository {
	return &entities.RemoteRepository{
		Owner:    repo.GetOwner().GetLogin(),
		Name:     repo.GetName(),
		CloneURL: repo.GetSSHURL(),
		WebURL:   repo.GetHTMLURL(),
	}
}

// normalize turns API rejections into nil results and keeps transport failures as errors.
func normalize(err error, message string) error {
	var apiErr *gh.ErrorResponse
	if errors.As(err, &apiErr) {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
